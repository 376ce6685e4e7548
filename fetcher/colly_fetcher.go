package fetcher

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gocolly/colly/v2"
)

// CollyFetcher implements the Fetcher interface using colly over plain HTTP.
// Use it for pages whose tables are present in the served HTML; it cannot
// see JavaScript-rendered content.
type CollyFetcher struct {
	collector *colly.Collector
}

// NewCollyFetcher creates a new CollyFetcher instance
func NewCollyFetcher(timeout time.Duration) *CollyFetcher {
	c := colly.NewCollector(
		colly.UserAgent("Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
	)

	c.SetRequestTimeout(timeout)

	// Be polite to the hosts we visit
	c.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Parallelism: 1,
		Delay:       2 * time.Second,
	})

	c.OnError(func(r *colly.Response, err error) {
		log.Printf("Error fetching %s: %v\n", r.Request.URL, err)
	})

	return &CollyFetcher{
		collector: c,
	}
}

// Close implements the Fetcher interface; colly holds no resources to release
func (cf *CollyFetcher) Close() error {
	return nil
}

// Fetch implements the Fetcher interface. Each fetch runs on a clone of the
// base collector so response callbacks don't accumulate across pages.
func (cf *CollyFetcher) Fetch(ctx context.Context, url string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	c := cf.collector.Clone()

	var html string
	var fetchErr error

	c.OnResponse(func(r *colly.Response) {
		html = string(r.Body)
	})
	c.OnError(func(r *colly.Response, err error) {
		fetchErr = err
	})

	if err := c.Visit(url); err != nil {
		return "", fmt.Errorf("failed to visit URL: %w", err)
	}

	// Wait for the request to complete
	c.Wait()

	if fetchErr != nil {
		return "", fmt.Errorf("failed to fetch %s: %w", url, fetchErr)
	}
	if html == "" {
		return "", fmt.Errorf("no content received from %s", url)
	}

	return html, nil
}
