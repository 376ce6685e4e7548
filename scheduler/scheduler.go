package scheduler

import (
	"context"
	"log"
	"time"

	"page-totals/db"
	"page-totals/models"
	"page-totals/notify"
	"page-totals/pagelist"
	"page-totals/runner"
	"page-totals/sheets"
)

// Scheduler reruns the page list on an interval and reports each run.
// The database, sheets writer and telegram notifier are all optional
// best-effort sinks: a nil sink is skipped and a failing one is logged,
// never fatal.
type Scheduler struct {
	runner   *runner.Runner
	pages    []pagelist.Page
	interval time.Duration
	database *db.DB
	writer   *sheets.Writer
	notifier *notify.Telegram
	ctx      context.Context
	cancel   context.CancelFunc
}

// NewScheduler creates a new scheduler
func NewScheduler(r *runner.Runner, pages []pagelist.Page, interval time.Duration,
	database *db.DB, writer *sheets.Writer, notifier *notify.Telegram) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		runner:   r,
		pages:    pages,
		interval: interval,
		database: database,
		writer:   writer,
		notifier: notifier,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start starts the scheduler in a goroutine
func (s *Scheduler) Start() {
	go s.run()
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.cancel()
	log.Println("Scheduler stopped")
}

// Wait blocks until the scheduler is stopped
func (s *Scheduler) Wait() {
	<-s.ctx.Done()
}

// run is the main scheduler loop: one run immediately, then one per tick
func (s *Scheduler) run() {
	log.Printf("Scheduler started: %d pages every %s\n", len(s.pages), s.interval)

	s.runOnce()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.runOnce()
		}
	}
}

func (s *Scheduler) runOnce() {
	summary := s.runner.Run(s.ctx, s.pages)
	s.report(summary)
}

// report pushes the run summary to every configured sink
func (s *Scheduler) report(summary models.RunSummary) {
	if s.database != nil {
		if runID, err := s.database.SaveRun(summary); err != nil {
			log.Printf("Warning: Failed to save run to database: %v\n", err)
		} else {
			log.Printf("Saved run %d to database\n", runID)
		}
	}

	if s.writer != nil {
		if err := s.writer.AppendSummary(summary); err != nil {
			log.Printf("Warning: Failed to write run to Google Sheets: %v\n", err)
		}
	}

	if s.notifier != nil {
		if err := s.notifier.SendSummary(summary); err != nil {
			log.Printf("Warning: Failed to send telegram notification: %v\n", err)
		}
	}
}
