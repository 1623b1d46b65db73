// AskRed - Reddit-Backed Product Recommendations
// Copyright 2026 AskRed Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/askred/askred

package search

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/askred/askred/internal/logging"
	"github.com/askred/askred/internal/metrics"
	"github.com/askred/askred/internal/models"
)

// CircuitBreakerDiscoverer wraps a Discoverer with circuit breaker
// protection so a degraded search provider fails fast instead of
// holding request handlers on timeouts.
//
// The breaker uses real time (via sony/gobreaker) for its interval and
// timeout calculations. Unit tests should exercise the wrapped client
// directly.
type CircuitBreakerDiscoverer struct {
	inner Discoverer
	cb    *gobreaker.CircuitBreaker[[]models.Thread]
	name  string
}

// NewCircuitBreakerDiscoverer wraps the given Discoverer.
// Breaker configuration:
// - Max 3 concurrent requests in half-open state
// - 1 minute measurement window
// - 2 minute timeout before attempting recovery
// - Opens after 60% failure rate with minimum 10 requests
func NewCircuitBreakerDiscoverer(inner Discoverer) *CircuitBreakerDiscoverer {
	cbName := "search-provider"

	metrics.CircuitBreakerState.WithLabelValues(cbName).Set(0) // 0 = closed

	cb := gobreaker.NewCircuitBreaker[[]models.Thread](gobreaker.Settings{
		Name:        cbName,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}

			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= 0.6

			if shouldTrip {
				logging.Warn().
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", failureRatio*100).
					Msg("[CIRCUIT BREAKER] Opening circuit")
			}

			return shouldTrip
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)

			logging.Info().Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
		},
	})

	return &CircuitBreakerDiscoverer{
		inner: inner,
		cb:    cb,
		name:  cbName,
	}
}

// Discover runs thread discovery through the breaker. When the circuit
// is open the provider is not contacted at all and the caller receives
// gobreaker.ErrOpenState.
func (c *CircuitBreakerDiscoverer) Discover(ctx context.Context, query string) ([]models.Thread, error) {
	threads, err := c.cb.Execute(func() ([]models.Thread, error) {
		return c.inner.Discover(ctx, query)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.SearchRequests.WithLabelValues("rejected").Inc()
			logging.Ctx(ctx).Warn().Err(err).Msg("[CIRCUIT BREAKER] Search request rejected")
		} else {
			metrics.SearchRequests.WithLabelValues("failure").Inc()
		}
		return nil, err
	}

	metrics.SearchRequests.WithLabelValues("success").Inc()
	return threads, nil
}

func stateToString(s gobreaker.State) string {
	switch s {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

func stateToFloat(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
