package sheets

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"page-totals/models"
)

// Writer handles writing run summaries to Google Sheets
type Writer struct {
	service       *sheets.Service
	spreadsheetID string
}

// NewWriter creates a new Google Sheets writer
func NewWriter(spreadsheetID string, credentialsPath string) (*Writer, error) {
	ctx := context.Background()

	// Read credentials from file or environment variable
	var credsJSON []byte
	var err error

	if credentialsPath != "" {
		credsJSON, err = os.ReadFile(credentialsPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read credentials file: %w", err)
		}
	} else {
		credsEnv := strings.TrimSpace(os.Getenv("GOOGLE_SHEETS_CREDENTIALS"))
		if credsEnv == "" {
			return nil, fmt.Errorf("credentials not found: GOOGLE_SHEETS_CREDENTIALS environment variable is empty or not set")
		}
		credsJSON = []byte(credsEnv)
	}

	// Parse and validate JSON
	var creds map[string]interface{}
	if err := json.Unmarshal(credsJSON, &creds); err != nil {
		return nil, fmt.Errorf("invalid credentials JSON (check if JSON is properly formatted): %w", err)
	}

	// Validate that it's a service account credentials file
	if creds["type"] != "service_account" {
		return nil, fmt.Errorf("credentials must be a service account JSON file (type: service_account), got type: %v", creds["type"])
	}

	service, err := sheets.NewService(ctx, option.WithCredentialsJSON(credsJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Writer{
		service:       service,
		spreadsheetID: spreadsheetID,
	}, nil
}

// WriteSummary writes one run's per-page subtotals and grand total.
// If clearFirst is true, clears existing data before writing.
func (w *Writer) WriteSummary(summary models.RunSummary, clearFirst bool) error {
	if len(summary.Reports) == 0 {
		log.Println("No page results to write")
		return nil
	}

	values := summaryRows(summary)

	range_ := "Sheet1!A1"

	if clearFirst {
		clearReq := &sheets.ClearValuesRequest{}
		_, err := w.service.Spreadsheets.Values.Clear(w.spreadsheetID, range_, clearReq).Do()
		if err != nil {
			log.Printf("Warning: Failed to clear existing data: %v\n", err)
			// Continue anyway
		}
	}

	valueRange := &sheets.ValueRange{
		Values: values,
	}

	_, err := w.service.Spreadsheets.Values.Update(w.spreadsheetID, range_, valueRange).
		ValueInputOption("RAW").
		Do()
	if err != nil {
		return fmt.Errorf("failed to write to sheets: %w", err)
	}

	log.Printf("Successfully wrote %d page results to Google Sheets\n", len(summary.Reports))
	return nil
}

// AppendSummary appends one run's rows below the existing data, so a
// scheduled run builds up a history in the same sheet
func (w *Writer) AppendSummary(summary models.RunSummary) error {
	if len(summary.Reports) == 0 {
		log.Println("No page results to append")
		return nil
	}

	// Find the last row with data
	resp, err := w.service.Spreadsheets.Values.Get(w.spreadsheetID, "Sheet1!A:A").Do()
	if err != nil {
		return fmt.Errorf("failed to read existing data: %w", err)
	}

	nextRow := 1
	if len(resp.Values) > 0 {
		nextRow = len(resp.Values) + 1
	}

	updateRange := fmt.Sprintf("Sheet1!A%d", nextRow)
	valueRange := &sheets.ValueRange{
		Values: summaryRows(summary),
	}

	_, err = w.service.Spreadsheets.Values.Update(w.spreadsheetID, updateRange, valueRange).
		ValueInputOption("RAW").
		Do()
	if err != nil {
		return fmt.Errorf("failed to append to sheets: %w", err)
	}

	log.Printf("Successfully appended %d page results to Google Sheets (starting at row %d)\n", len(summary.Reports), nextRow)
	return nil
}

// summaryRows formats a run summary as sheet rows: a timestamp row, a header
// row, one row per page, and the grand total row
func summaryRows(summary models.RunSummary) [][]interface{} {
	var values [][]interface{}

	values = append(values, []interface{}{"Run", summary.StartedAt.Format(time.RFC3339)})
	values = append(values, []interface{}{"Page", "Label", "Subtotal", "Cells", "Tokens", "Parsed", "Error"})

	for _, report := range summary.Reports {
		values = append(values, []interface{}{
			report.URL,
			report.Label,
			report.Tally.Subtotal,
			report.Tally.CellCount,
			report.Tally.TokenCount,
			report.Tally.ValidCount,
			report.Err,
		})
	}

	values = append(values, []interface{}{"Grand Total", "", summary.GrandTotal})
	return values
}

// ExtractSpreadsheetID extracts the spreadsheet ID from a Google Sheets URL
func ExtractSpreadsheetID(url string) string {
	// Handle various URL formats:
	// https://docs.google.com/spreadsheets/d/SPREADSHEET_ID/edit
	// https://docs.google.com/spreadsheets/d/SPREADSHEET_ID/edit?usp=sharing

	parts := strings.Split(url, "/d/")
	if len(parts) < 2 {
		return ""
	}

	idPart := parts[1]
	if idx := strings.Index(idPart, "/"); idx != -1 {
		idPart = idPart[:idx]
	}
	if idx := strings.Index(idPart, "?"); idx != -1 {
		idPart = idPart[:idx]
	}

	return strings.TrimSpace(idPart)
}
