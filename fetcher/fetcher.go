package fetcher

import "context"

// Fetcher interface defines the contract for page-fetching implementations.
// Fetch returns the rendered HTML of a single page; the context bounds the
// fetch (per-page timeout).
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)

	// Close releases any resources held by the fetcher (e.g. the browser)
	Close() error
}
