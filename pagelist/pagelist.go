package pagelist

import (
	"fmt"
	"net/url"
	"strconv"

	"page-totals/config"
)

// Page is one concrete URL to visit, with a human-readable label
type Page struct {
	URL   string
	Label string // e.g. "report (page 3)"
}

// Expand turns the configured page list into the concrete ordered list of
// URLs to visit. Pages with a paginate block are expanded into one URL per
// page index by rewriting the named query parameter; all other pages pass
// through unchanged.
func Expand(pages []config.PageConfig) ([]Page, error) {
	var expanded []Page

	for _, pc := range pages {
		if pc.Paginate == nil {
			expanded = append(expanded, Page{URL: pc.URL, Label: labelFor(pc, 0)})
			continue
		}

		pageURLs, err := expandRange(pc)
		if err != nil {
			return nil, err
		}
		expanded = append(expanded, pageURLs...)
	}

	return expanded, nil
}

// expandRange generates one URL per page index in the paginate range
func expandRange(pc config.PageConfig) ([]Page, error) {
	parsedURL, err := url.Parse(pc.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL %q: %w", pc.URL, err)
	}

	var pages []Page
	for n := pc.Paginate.From; n <= pc.Paginate.To; n++ {
		// Clone the query parameters
		newQuery := make(url.Values)
		for k, v := range parsedURL.Query() {
			newQuery[k] = v
		}
		newQuery.Set(pc.Paginate.Param, strconv.Itoa(n))

		newParsedURL := *parsedURL
		newParsedURL.RawQuery = newQuery.Encode()

		pages = append(pages, Page{
			URL:   newParsedURL.String(),
			Label: labelFor(pc, n),
		})
	}

	return pages, nil
}

// CountPages returns how many concrete URLs a page config expands to
func CountPages(pc config.PageConfig) int {
	if pc.Paginate == nil {
		return 1
	}
	if pc.Paginate.To < pc.Paginate.From {
		return 0
	}
	return pc.Paginate.To - pc.Paginate.From + 1
}

func labelFor(pc config.PageConfig, pageIndex int) string {
	label := pc.Label
	if label == "" {
		label = pc.URL
	}
	if pc.Paginate == nil {
		return label
	}
	return fmt.Sprintf("%s (page %d)", label, pageIndex)
}
