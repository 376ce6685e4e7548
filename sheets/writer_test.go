package sheets

import (
	"testing"
	"time"

	"page-totals/models"
)

func TestExtractSpreadsheetID(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		expected string
	}{
		{"edit url", "https://docs.google.com/spreadsheets/d/abc123/edit", "abc123"},
		{"sharing url", "https://docs.google.com/spreadsheets/d/abc123/edit?usp=sharing", "abc123"},
		{"bare id url", "https://docs.google.com/spreadsheets/d/abc123", "abc123"},
		{"query without path", "https://docs.google.com/spreadsheets/d/abc123?gid=0", "abc123"},
		{"not a sheets url", "https://example.com/page", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractSpreadsheetID(tt.url); got != tt.expected {
				t.Errorf("ExtractSpreadsheetID(%q) = %q, want %q", tt.url, got, tt.expected)
			}
		})
	}
}

func TestSummaryRows(t *testing.T) {
	summary := models.RunSummary{
		StartedAt:  time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC),
		GrandTotal: 900,
		Reports: []models.PageReport{
			{
				URL:   "https://example.com/a",
				Label: "page A",
				Tally: models.PageTally{Subtotal: 1200, CellCount: 2, TokenCount: 2, ValidCount: 2},
			},
			{
				URL: "https://example.com/b",
				Err: "navigation failed",
			},
		},
		FailedPages: 1,
	}

	rows := summaryRows(summary)

	// Timestamp row + header row + 2 page rows + grand total row
	if len(rows) != 5 {
		t.Fatalf("len(rows) = %d, want 5", len(rows))
	}
	if rows[2][2] != 1200.0 {
		t.Errorf("page A subtotal cell = %v, want 1200", rows[2][2])
	}
	if rows[3][6] != "navigation failed" {
		t.Errorf("page B error cell = %v", rows[3][6])
	}
	if rows[4][0] != "Grand Total" || rows[4][2] != 900.0 {
		t.Errorf("grand total row = %v", rows[4])
	}
}
