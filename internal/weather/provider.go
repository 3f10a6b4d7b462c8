package weather

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrUnexpectedStatus is returned when the provider answers with a non-200 status.
	ErrUnexpectedStatus = errors.New("unexpected status code")
	// ErrMalformedResponse is returned when a 200 body does not have the expected shape.
	ErrMalformedResponse = errors.New("malformed provider response")
	// ErrMissingAPIKey is returned before any network call when no key is configured.
	ErrMissingAPIKey = errors.New("api key is not configured")
	// ErrProviderUnavailable is returned while the provider circuit breaker is open.
	ErrProviderUnavailable = errors.New("provider unavailable")
)

// StatusError carries the HTTP status of a rejected provider call.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%v: %d", ErrUnexpectedStatus, e.StatusCode)
}

func (e *StatusError) Unwrap() error {
	return ErrUnexpectedStatus
}

// Provider abstracts the weather data source.
type Provider interface {
	Name() string
	Fetch(ctx context.Context, loc Location) (Observation, error)
}

// Store is the contract the data file must satisfy.
type Store interface {
	ReadRecords() ([][]string, error)
	WriteRecords(records [][]string) error
}
