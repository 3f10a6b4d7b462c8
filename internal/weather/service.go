package weather

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// CycleReport summarises one fetch-and-append cycle.
type CycleReport struct {
	ID       string
	Existing int // rows already in the file
	Fetched  int // new rows appended
	Failed   int // cities skipped this cycle
	Total    int // rows in the file after the rewrite
	Err      error
}

// Service collects observations and merges them into the data file.
type Service struct {
	store     Store
	provider  Provider
	locations []Location
	logger    *slog.Logger
}

// NewService creates a new Service. Locations are fetched in the given order.
func NewService(store Store, provider Provider, locations []Location) *Service {
	return &Service{
		store:     store,
		provider:  provider,
		locations: locations,
		logger:    slog.Default().With("component", "updater"),
	}
}

// Collect fetches every location in order, one call at a time. Failed locations are
// logged and skipped.
func (s *Service) Collect(ctx context.Context, cycleID string) ([]Observation, int) {
	var (
		observations []Observation
		failed       int
	)

	for _, loc := range s.locations {
		obs, err := s.provider.Fetch(ctx, loc)
		if err != nil {
			failed++
			attrs := []any{"cycle_id", cycleID, "city", loc.City, "provider", s.provider.Name(), "error", err}
			var statusErr *StatusError
			if errors.As(err, &statusErr) {
				attrs = append(attrs, "status", statusErr.StatusCode)
			}
			s.logger.Warn("error retrieving data", attrs...)
			continue
		}
		observations = append(observations, obs)
	}

	return observations, failed
}

// UpdateCycle reads the existing rows, collects new observations and rewrites the file
// with existing rows first. It never fails hard: problems are logged and reported.
func (s *Service) UpdateCycle(ctx context.Context) CycleReport {
	report := CycleReport{ID: uuid.NewString()}
	log := s.logger.With("cycle_id", report.ID)

	log.Info("starting weather data update", "locations", len(s.locations))

	existing, err := s.store.ReadRecords()
	if err != nil {
		// Rewriting now would drop rows we could not read.
		report.Err = fmt.Errorf("read existing rows: %w", err)
		log.Error("failed to read data file", "error", err)
		return report
	}
	report.Existing = len(existing)

	observations, failed := s.Collect(ctx, report.ID)
	report.Fetched = len(observations)
	report.Failed = failed

	combined := make([][]string, 0, len(existing)+len(observations))
	combined = append(combined, existing...)
	for _, obs := range observations {
		combined = append(combined, obs.Record())
	}

	if err := s.store.WriteRecords(combined); err != nil {
		report.Err = fmt.Errorf("write data file: %w", err)
		log.Error("failed to update data file", "error", err)
		return report
	}
	report.Total = len(combined)

	log.Info("data file updated",
		"existing", report.Existing,
		"fetched", report.Fetched,
		"failed", report.Failed,
		"total", report.Total,
	)
	return report
}
