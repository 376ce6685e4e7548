package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"page-totals/config"
	"page-totals/db"
	"page-totals/fetcher"
	"page-totals/filter"
	"page-totals/models"
	"page-totals/notify"
	"page-totals/pagelist"
	"page-totals/runner"
	"page-totals/scheduler"
	"page-totals/sheets"
)

func main() {
	// Parse command line arguments
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	singleURL := flag.String("url", "", "Single page URL (overrides the config page list)")
	fetcherKind := flag.String("fetcher", "", "Fetcher to use: browser or http (overrides config)")
	timeoutSecs := flag.Int("timeout", 0, "Per-page fetch timeout in seconds (overrides config)")
	interval := flag.Duration("interval", 0, "Rerun interval, e.g. 1h (0 runs once and exits)")
	spreadsheetURL := flag.String("spreadsheet", "", "Google Sheets URL to write results to (optional)")
	credentialsPath := flag.String("credentials", "", "Path to Google service account credentials JSON file (or use GOOGLE_SHEETS_CREDENTIALS env var)")
	saveDB := flag.Bool("save", false, "Save run history to Postgres (DATABASE_URL or DB_* env vars)")
	notifyTG := flag.Bool("notify", false, "Send run summaries to Telegram (TELEGRAM_BOT_TOKEN, TELEGRAM_CHAT_ID env vars)")
	flag.Parse()

	cfg := loadConfig(*configPath, *singleURL)

	if *fetcherKind != "" {
		cfg.Fetcher = *fetcherKind
	}
	if *timeoutSecs > 0 {
		cfg.FetchTimeoutSeconds = *timeoutSecs
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v\n", err)
	}

	pages, err := pagelist.Expand(cfg.Pages)
	if err != nil {
		log.Fatalf("Failed to expand page list: %v\n", err)
	}

	f := buildFetcher(cfg)
	defer f.Close()

	r := runner.NewRunner(f, filter.NewFilter(cfg.Filter), cfg.FetchTimeout())

	database := openDatabase(*saveDB)
	if database != nil {
		defer database.Close()
	}
	writer := buildSheetsWriter(*spreadsheetURL, *credentialsPath)
	notifier := buildNotifier(*notifyTG)

	if *interval > 0 {
		runScheduled(r, pages, *interval, database, writer, notifier)
		return
	}

	runOnce(r, pages, database, writer, notifier)
}

// runOnce runs the page list a single time and reports the results
func runOnce(r *runner.Runner, pages []pagelist.Page, database *db.DB, writer *sheets.Writer, notifier *notify.Telegram) {
	summary := r.Run(context.Background(), pages)

	printSummary(summary)

	if database != nil {
		if runID, err := database.SaveRun(summary); err != nil {
			log.Printf("Warning: Failed to save run to database: %v\n", err)
		} else {
			fmt.Printf("Saved run %d to database\n", runID)
		}
	}

	if writer != nil {
		if err := writer.WriteSummary(summary, true); err != nil {
			log.Printf("Warning: Failed to write to Google Sheets: %v\n", err)
		}
	}

	if notifier != nil {
		if err := notifier.SendSummary(summary); err != nil {
			log.Printf("Warning: Failed to send telegram notification: %v\n", err)
		}
	}
}

// runScheduled starts the interval scheduler and blocks until interrupted
func runScheduled(r *runner.Runner, pages []pagelist.Page, interval time.Duration,
	database *db.DB, writer *sheets.Writer, notifier *notify.Telegram) {
	s := scheduler.NewScheduler(r, pages, interval, database, writer, notifier)
	s.Start()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	s.Stop()
}

// printSummary writes the per-page subtotals and grand total to the console
func printSummary(summary models.RunSummary) {
	fmt.Println("Page subtotals:")
	fmt.Println("===============")
	for _, report := range summary.Reports {
		name := report.Label
		if name == "" {
			name = report.URL
		}
		if report.Failed() {
			fmt.Printf("%-50s FAILED: %s\n", name, report.Err)
			continue
		}
		fmt.Printf("%-50s %12.2f  (%d of %d tokens parsed, %d cells)\n",
			name, report.Tally.Subtotal,
			report.Tally.ValidCount, report.Tally.TokenCount, report.Tally.CellCount)
	}
	fmt.Println("---")
	fmt.Printf("Grand total: %.2f (%d pages, %d failed)\n",
		summary.GrandTotal, len(summary.Reports), summary.FailedPages)
}

// loadConfig loads the YAML config, or builds a single-page config when
// -url is given
func loadConfig(path, singleURL string) *config.Config {
	if singleURL != "" {
		cfg := config.GetDefaultConfig()
		cfg.Pages = []config.PageConfig{{URL: singleURL}}
		return cfg
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		log.Fatalf("Failed to load config %s: %v\n", path, err)
	}
	return cfg
}

// buildFetcher constructs the configured fetcher implementation
func buildFetcher(cfg *config.Config) fetcher.Fetcher {
	switch cfg.Fetcher {
	case "http":
		return fetcher.NewCollyFetcher(cfg.FetchTimeout())
	default:
		f, err := fetcher.NewRodFetcher()
		if err != nil {
			log.Fatalf("Failed to start browser fetcher: %v\n", err)
		}
		return f
	}
}

// openDatabase connects to Postgres when run history saving is requested
func openDatabase(enabled bool) *db.DB {
	if !enabled {
		return nil
	}
	database, err := db.NewDB()
	if err != nil {
		log.Printf("Warning: Failed to connect to database, run history disabled: %v\n", err)
		return nil
	}
	return database
}

// buildSheetsWriter constructs the Google Sheets writer when a spreadsheet
// URL is given
func buildSheetsWriter(spreadsheetURL, credentialsPath string) *sheets.Writer {
	if spreadsheetURL == "" {
		return nil
	}

	spreadsheetID := sheets.ExtractSpreadsheetID(spreadsheetURL)
	if spreadsheetID == "" {
		log.Printf("Warning: Could not extract spreadsheet ID from URL: %s\n", spreadsheetURL)
		return nil
	}

	writer, err := sheets.NewWriter(spreadsheetID, credentialsPath)
	if err != nil {
		log.Printf("Warning: Failed to initialize Google Sheets writer: %v\n", err)
		return nil
	}
	return writer
}

// buildNotifier constructs the Telegram notifier when notifications are
// requested
func buildNotifier(enabled bool) *notify.Telegram {
	if !enabled {
		return nil
	}
	notifier, err := notify.NewTelegramFromEnv()
	if err != nil {
		log.Printf("Warning: Telegram notifications disabled: %v\n", err)
		return nil
	}
	return notifier
}
