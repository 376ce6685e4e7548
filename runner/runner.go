package runner

import (
	"context"
	"log"
	"time"

	"page-totals/fetcher"
	"page-totals/filter"
	"page-totals/models"
	"page-totals/pagelist"
	"page-totals/parser"
)

// Runner visits the page list one page at a time, tallies each page's table
// cells, and accumulates the grand total. A failed page contributes 0 and
// never halts the run.
type Runner struct {
	fetcher fetcher.Fetcher
	parser  *parser.Parser
	filter  *filter.Filter
	timeout time.Duration
}

// NewRunner creates a new Runner instance
func NewRunner(f fetcher.Fetcher, flt *filter.Filter, timeout time.Duration) *Runner {
	return &Runner{
		fetcher: f,
		parser:  parser.NewParser(),
		filter:  flt,
		timeout: timeout,
	}
}

// Run processes every page in order and returns the run summary
func (r *Runner) Run(ctx context.Context, pages []pagelist.Page) models.RunSummary {
	summary := models.RunSummary{StartedAt: time.Now()}

	log.Printf("Starting run over %d pages\n", len(pages))

	for i, page := range pages {
		report := r.processPage(ctx, page)

		if report.Failed() {
			summary.FailedPages++
			log.Printf("Page %d/%d %s failed: %s (contributes 0)\n", i+1, len(pages), page.URL, report.Err)
		} else {
			log.Printf("Page %d/%d %s subtotal: %.2f (%d of %d tokens parsed across %d cells)\n",
				i+1, len(pages), page.URL,
				report.Tally.Subtotal, report.Tally.ValidCount, report.Tally.TokenCount, report.Tally.CellCount)
		}

		// The grand total is only touched after a page fully completes
		summary.GrandTotal += report.Tally.Subtotal
		summary.Reports = append(summary.Reports, report)
	}

	summary.FinishedAt = time.Now()
	log.Printf("Run complete: grand total %.2f across %d pages (%d failed)\n",
		summary.GrandTotal, len(summary.Reports), summary.FailedPages)

	return summary
}

// processPage fetches one page, extracts its cell texts and tallies them.
// The fetch is bounded by the per-page timeout.
func (r *Runner) processPage(ctx context.Context, page pagelist.Page) models.PageReport {
	started := time.Now()
	report := models.PageReport{URL: page.URL, Label: page.Label}

	fetchCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	html, err := r.fetcher.Fetch(fetchCtx, page.URL)
	if err != nil {
		report.Err = err.Error()
		report.Duration = time.Since(started)
		return report
	}

	cells, err := r.parser.CellTexts(html)
	if err != nil {
		report.Err = err.Error()
		report.Duration = time.Since(started)
		return report
	}

	report.Tally = r.filter.Apply(parser.AccumulateCells(cells))
	report.Duration = time.Since(started)
	return report
}
