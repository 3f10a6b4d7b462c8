package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/i474232898/climate-dashboard/internal/weather"
)

// Updater runs one fetch-and-append cycle.
type Updater interface {
	UpdateCycle(ctx context.Context) weather.CycleReport
}

// Scheduler periodically refreshes the data file and then calls the reload hook so the
// dashboard picks up the new rows.
type Scheduler struct {
	scheduler *gocron.Scheduler
	updater   Updater
	reload    func() error
	interval  time.Duration
	timeout   time.Duration
}

// New creates a new Scheduler. A zero interval disables it.
func New(interval time.Duration, updater Updater, reload func() error) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()
	return &Scheduler{
		scheduler: s,
		updater:   updater,
		reload:    reload,
		interval:  interval,
		timeout:   10 * time.Minute,
	}
}

// Enabled reports whether a refresh interval is configured.
func (s *Scheduler) Enabled() bool {
	return s.interval > 0
}

// Start schedules the periodic job and starts the underlying scheduler. The first run
// happens one interval from now, since start-up already ran a cycle.
func (s *Scheduler) Start() error {
	if !s.Enabled() {
		slog.Info("scheduler: refresh disabled; data file is updated once per start")
		return nil
	}

	_, err := s.scheduler.Every(s.interval).WaitForSchedule().Do(s.runOnce)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	slog.Info("scheduler: refresh scheduled", "interval", s.interval.String())
	return nil
}

func (s *Scheduler) runOnce() {
	slog.Info("scheduler: running weather update job")

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	report := s.updater.UpdateCycle(ctx)
	if report.Err != nil {
		slog.Error("scheduler: update cycle failed", "cycle_id", report.ID, "error", report.Err)
		return
	}

	if s.reload != nil {
		if err := s.reload(); err != nil {
			slog.Error("scheduler: reload dashboard data failed", "cycle_id", report.ID, "error", err)
			return
		}
	}
	slog.Info("scheduler: completed weather update job", "cycle_id", report.ID)
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
