// RastroO - Creator Attribution and Conversion Tracking
// Copyright 2026 Mateus D. (MateusDN896)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/MateusDN896/RastroO

package instagram

import (
	"context"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/MateusDN896/RastroO/internal/config"
	"github.com/MateusDN896/RastroO/internal/logging"
	"github.com/MateusDN896/RastroO/internal/metrics"
)

// CircuitBreakerClient wraps Client with a circuit breaker so a slow or
// failing Graph API cannot stall dashboard requests.
//
// The breaker uses real time for its interval and timeout calculations.
// Tests should exercise the wrapped Client directly rather than waiting
// on breaker state transitions.
type CircuitBreakerClient struct {
	client *Client
	cb     *gobreaker.CircuitBreaker[interface{}]
	name   string
}

// NewCircuitBreakerClient creates a Graph API client with circuit breaker.
// Configuration:
// - Max 3 concurrent requests in half-open state
// - 1 minute measurement window
// - 2 minute timeout before attempting recovery
// - Opens after 60% failure rate with minimum 10 requests
func NewCircuitBreakerClient(cfg *config.InstagramConfig) *CircuitBreakerClient {
	client := NewClient(cfg)
	cbName := "instagram-graph"

	metrics.SetCircuitBreakerState(cbName, 0) // 0 = closed

	cb := gobreaker.NewCircuitBreaker[interface{}](gobreaker.Settings{
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

			metrics.SetCircuitBreakerState(name, stateToFloat(to))
			metrics.RecordCircuitBreakerTransition(name, fromStr, toStr)
		},
	})

	return &CircuitBreakerClient{
		client: client,
		cb:     cb,
		name:   cbName,
	}
}

// RecentMedia retrieves recent posts with circuit breaker protection.
func (cbc *CircuitBreakerClient) RecentMedia(ctx context.Context, limit int) ([]MediaItem, error) {
	result, err := cbc.cb.Execute(func() (interface{}, error) {
		return cbc.client.RecentMedia(ctx, limit)
	})
	if err != nil {
		return nil, err
	}

	items, ok := result.([]MediaItem)
	if !ok {
		return nil, fmt.Errorf("instagram: unexpected result type %T", result)
	}
	return items, nil
}

// Media retrieves a single post with circuit breaker protection.
func (cbc *CircuitBreakerClient) Media(ctx context.Context, mediaID string) (*MediaItem, error) {
	result, err := cbc.cb.Execute(func() (interface{}, error) {
		return cbc.client.Media(ctx, mediaID)
	})
	if err != nil {
		return nil, err
	}

	item, ok := result.(*MediaItem)
	if !ok {
		return nil, fmt.Errorf("instagram: unexpected result type %T", result)
	}
	return item, nil
}

// stateToFloat converts circuit breaker state to numeric value for metrics
func stateToFloat(state gobreaker.State) float64 {
	switch state {
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

// stateToString converts circuit breaker state to string for logging
func stateToString(state gobreaker.State) string {
	switch state {
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
