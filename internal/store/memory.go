package store

import (
	"errors"
	"sort"
	"sync"

	"github.com/i474232898/climate-dashboard/internal/weather"
)

var (
	// ErrNotFound is returned when no data is available for a given city.
	ErrNotFound = errors.New("no weather data for city")
)

// MemoryStore is a concurrency-safe in-memory view of the data file, indexed by city.
type MemoryStore struct {
	mu sync.RWMutex

	// key: city as stored in the file, value: observations in file order
	data   map[string][]weather.Observation
	cities []string
	total  int
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string][]weather.Observation),
	}
}

// Replace swaps the whole dataset. Cities keep the order in which they first appear.
func (s *MemoryStore) Replace(observations []weather.Observation) {
	data := make(map[string][]weather.Observation)
	var cities []string
	for _, obs := range observations {
		if _, ok := data[obs.City]; !ok {
			cities = append(cities, obs.City)
		}
		data[obs.City] = append(data[obs.City], obs)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = data
	s.cities = cities
	s.total = len(observations)
}

// Cities returns the distinct cities in insertion order.
func (s *MemoryStore) Cities() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, len(s.cities))
	copy(out, s.cities)
	return out
}

// HasCity reports whether city has at least one observation.
func (s *MemoryStore) HasCity(city string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.data[city]) > 0
}

// Len returns the total number of observations.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.total
}

// History returns the observations whose city equals city, oldest first. Rows with the
// same timestamp keep their file order.
func (s *MemoryStore) History(city string) ([]weather.Observation, error) {
	s.mu.RLock()
	rows := s.data[city]
	result := make([]weather.Observation, len(rows))
	copy(result, rows)
	s.mu.RUnlock()

	if len(result) == 0 {
		return nil, ErrNotFound
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Timestamp.Before(result[j].Timestamp)
	})
	return result, nil
}

// GetLatest returns the observation with the greatest timestamp for city. On ties the
// row read last wins.
func (s *MemoryStore) GetLatest(city string) (weather.Observation, error) {
	history, err := s.History(city)
	if err != nil {
		return weather.Observation{}, err
	}
	return history[len(history)-1], nil
}
