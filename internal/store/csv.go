package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/i474232898/climate-dashboard/internal/weather"
)

// ErrBadHeader is returned when the data file does not start with weather.Header.
var ErrBadHeader = errors.New("unexpected data file header")

// CSVStore keeps observations in a single CSV file that is rewritten in full on every
// update. It has no locking; the caller serialises writers.
type CSVStore struct {
	path string
}

// NewCSVStore creates a store backed by the file at path. The file is created on the
// first write.
func NewCSVStore(path string) *CSVStore {
	return &CSVStore{path: path}
}

// ReadRecords returns all data rows verbatim, without the header. A missing file yields
// no rows and no error.
func (s *CSVStore) ReadRecords() ([][]string, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return [][]string{}, nil
		}
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	// Short or long rows are kept as they are and rejected later by the parser.
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return [][]string{}, nil
		}
		return nil, fmt.Errorf("read header of %s: %w", s.path, err)
	}
	if !slices.Equal(header, weather.Header) {
		return nil, fmt.Errorf("%w in %s: %v", ErrBadHeader, s.path, header)
	}

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}
	if records == nil {
		records = [][]string{}
	}
	return records, nil
}

// WriteRecords rewrites the file with the header followed by records. The content is
// written to a temporary file in the same directory and renamed over the old one, so a
// failed write leaves the previous file intact.
func (s *CSVStore) WriteRecords(records [][]string) (err error) {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	w := csv.NewWriter(tmp)
	if err := w.Write(weather.Header); err != nil {
		return err
	}
	if err := w.WriteAll(records); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}

// LoadObservations parses every row of the data file. Rows that do not parse are logged
// and skipped; the number skipped is returned alongside the observations.
func LoadObservations(s *CSVStore) ([]weather.Observation, int, error) {
	records, err := s.ReadRecords()
	if err != nil {
		return nil, 0, err
	}

	observations := make([]weather.Observation, 0, len(records))
	skipped := 0
	for i, rec := range records {
		obs, err := weather.ParseObservation(rec)
		if err != nil {
			skipped++
			// Line numbers are 1-based and the header is line 1.
			slog.Warn("skipping malformed row", "file", s.path, "line", i+2, "error", err)
			continue
		}
		observations = append(observations, obs)
	}
	return observations, skipped, nil
}
