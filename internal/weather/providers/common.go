package providers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/i474232898/climate-dashboard/internal/weather"
	"github.com/sony/gobreaker"
)

// BreakerConfig controls when the provider stops being called for the rest of a cycle.
type BreakerConfig struct {
	// FailureThreshold is the number of consecutive rejected-credential responses that
	// opens the breaker. Zero disables tripping.
	FailureThreshold uint32
	// OpenTimeout is how long the breaker stays open before letting a trial call through.
	OpenTimeout time.Duration
}

func newCircuitBreaker(name string, cfg BreakerConfig) *gobreaker.CircuitBreaker {
	timeout := cfg.OpenTimeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}

	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return cfg.FailureThreshold > 0 && counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		IsSuccessful: isProviderHealthy,
	})
}

// isProviderHealthy reports whether err leaves the next city's call worth making. Only
// rejected credentials fail every call the same way; a 5xx, a 404, a transport error or
// an odd payload is counted against the city that produced it.
func isProviderHealthy(err error) bool {
	var statusErr *weather.StatusError
	if errors.As(err, &statusErr) {
		switch statusErr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return false
		}
	}
	return true
}

// execute runs fn through the breaker, translating an open breaker into
// weather.ErrProviderUnavailable.
func execute[T any](cb *gobreaker.CircuitBreaker, fn func() (T, error)) (T, error) {
	var zero T

	result, err := cb.Execute(func() (interface{}, error) {
		return fn()
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return zero, fmt.Errorf("%w: %v", weather.ErrProviderUnavailable, err)
		}
		return zero, err
	}

	v, ok := result.(T)
	if !ok {
		return zero, fmt.Errorf("unexpected result type from circuit breaker")
	}
	return v, nil
}
