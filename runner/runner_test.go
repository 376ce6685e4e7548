package runner

import (
	"context"
	"fmt"
	"testing"
	"time"

	"page-totals/config"
	"page-totals/filter"
	"page-totals/pagelist"
)

// stubFetcher serves canned HTML per URL and fails for URLs it doesn't know
type stubFetcher struct {
	pages map[string]string
}

func (sf *stubFetcher) Fetch(ctx context.Context, url string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	html, ok := sf.pages[url]
	if !ok {
		return "", fmt.Errorf("navigation failed for %s", url)
	}
	return html, nil
}

func (sf *stubFetcher) Close() error {
	return nil
}

func newTestRunner(sf *stubFetcher, vf config.ValueFilter) *Runner {
	return NewRunner(sf, filter.NewFilter(vf), 5*time.Second)
}

func TestRunFailedPageContributesZero(t *testing.T) {
	sf := &stubFetcher{
		pages: map[string]string{
			"https://example.com/a": `<table><tr><td>10</td><td>20</td></tr></table>`,
			// page B intentionally missing: its fetch fails
		},
	}

	r := newTestRunner(sf, config.ValueFilter{})
	summary := r.Run(context.Background(), []pagelist.Page{
		{URL: "https://example.com/a", Label: "page A"},
		{URL: "https://example.com/b", Label: "page B"},
	})

	if summary.GrandTotal != 30 {
		t.Errorf("GrandTotal = %v, want 30", summary.GrandTotal)
	}
	if summary.FailedPages != 1 {
		t.Errorf("FailedPages = %d, want 1", summary.FailedPages)
	}
	if len(summary.Reports) != 2 {
		t.Fatalf("len(Reports) = %d, want 2", len(summary.Reports))
	}
	if summary.Reports[0].Failed() {
		t.Errorf("page A unexpectedly failed: %s", summary.Reports[0].Err)
	}
	if !summary.Reports[1].Failed() {
		t.Error("page B should have failed")
	}
	if summary.Reports[1].Tally.Subtotal != 0 {
		t.Errorf("failed page subtotal = %v, want 0", summary.Reports[1].Tally.Subtotal)
	}
}

func TestRunSubtotalsAndGrandTotal(t *testing.T) {
	sf := &stubFetcher{
		pages: map[string]string{
			"https://example.com/revenue": `<table><tr><th>Item</th><th>Amount</th></tr><tr><td>Subscriptions</td><td>$1,200</td></tr><tr><td>Refunds</td><td>(300)</td></tr></table>`,
			"https://example.com/costs":   `<table><tr><td>99.50</td></tr></table>`,
		},
	}

	r := newTestRunner(sf, config.ValueFilter{})
	summary := r.Run(context.Background(), []pagelist.Page{
		{URL: "https://example.com/revenue"},
		{URL: "https://example.com/costs"},
	})

	if got := summary.Reports[0].Tally.Subtotal; got != 900 {
		t.Errorf("revenue subtotal = %v, want 900", got)
	}
	if got := summary.Reports[1].Tally.Subtotal; got != 99.50 {
		t.Errorf("costs subtotal = %v, want 99.50", got)
	}
	if summary.GrandTotal != 999.50 {
		t.Errorf("GrandTotal = %v, want 999.50", summary.GrandTotal)
	}
	if summary.FailedPages != 0 {
		t.Errorf("FailedPages = %d, want 0", summary.FailedPages)
	}
}

func TestRunEmptyPageList(t *testing.T) {
	r := newTestRunner(&stubFetcher{}, config.ValueFilter{})
	summary := r.Run(context.Background(), nil)

	if summary.GrandTotal != 0 {
		t.Errorf("GrandTotal = %v, want 0", summary.GrandTotal)
	}
	if len(summary.Reports) != 0 {
		t.Errorf("len(Reports) = %d, want 0", len(summary.Reports))
	}
}

func TestRunValueFilter(t *testing.T) {
	sf := &stubFetcher{
		pages: map[string]string{
			"https://example.com/a": `<table><tr><td>5</td><td>50</td><td>5000</td></tr></table>`,
		},
	}

	r := newTestRunner(sf, config.ValueFilter{Enabled: true, MinValue: 10, MaxValue: 100})
	summary := r.Run(context.Background(), []pagelist.Page{{URL: "https://example.com/a"}})

	if summary.GrandTotal != 50 {
		t.Errorf("GrandTotal = %v, want 50 (out-of-range values excluded)", summary.GrandTotal)
	}
}
