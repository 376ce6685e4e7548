package models

import "time"

// TokenValue represents a single numeric token found in a cell and its parsed value
type TokenValue struct {
	Token string
	Value float64
}

// PageTally holds the accumulated result of one page's cell texts
type PageTally struct {
	Subtotal   float64
	CellCount  int          // Number of cell texts inspected
	TokenCount int          // Number of numeric-looking tokens found
	ValidCount int          // Number of tokens that parsed to a value
	Values     []TokenValue // For debugging: every parsed value and its source token
}

// PageReport represents the outcome of processing one page
type PageReport struct {
	URL      string
	Label    string // Human-readable label from config, e.g. "Q3 revenue"
	Tally    PageTally
	Err      string // Fetch/navigation failure message, empty on success
	Duration time.Duration
}

// Failed reports whether the page's fetch step failed
func (pr *PageReport) Failed() bool {
	return pr.Err != ""
}

// RunSummary represents the outcome of one full run over the page list
type RunSummary struct {
	StartedAt   time.Time
	FinishedAt  time.Time
	Reports     []PageReport
	GrandTotal  float64
	FailedPages int
}
