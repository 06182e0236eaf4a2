package openrouter

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/SteveMet/eps-connect-demo/domain/quote"
)

// CircuitBreakerConfig holds configuration for circuit breaker behavior
type CircuitBreakerConfig struct {
	Enabled          bool          `yaml:"enabled" json:"enabled"`
	FailureThreshold uint32        `yaml:"failure_threshold" json:"failure_threshold"`
	SuccessThreshold uint32        `yaml:"success_threshold" json:"success_threshold"`
	Timeout          time.Duration `yaml:"timeout" json:"timeout"`
	MaxRequests      uint32        `yaml:"max_requests" json:"max_requests"`
}

// DefaultCircuitBreakerConfig returns sensible defaults for circuit breaker configuration
func DefaultCircuitBreakerConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: 5,                // Open after 5 consecutive failures
		SuccessThreshold: 2,                // Close after 2 successes in half-open state
		Timeout:          60 * time.Second, // Stay open for 60 seconds
		MaxRequests:      3,                // Allow max 3 requests in half-open state
	}
}

// CircuitBreakerStreamer wraps a quote streamer with circuit breaker
// protection so repeated upstream failures fail fast instead of holding
// client connections open for the full timeout.
type CircuitBreakerStreamer struct {
	streamer quote.Streamer
	config   CircuitBreakerConfig
	breaker  *gobreaker.CircuitBreaker
}

// NewCircuitBreakerStreamer creates a circuit breaker wrapper around a streamer
func NewCircuitBreakerStreamer(streamer quote.Streamer, config CircuitBreakerConfig) *CircuitBreakerStreamer {
	cbs := &CircuitBreakerStreamer{
		streamer: streamer,
		config:   config,
	}

	if !config.Enabled {
		// Pass-through wrapper when disabled
		return cbs
	}

	settings := gobreaker.Settings{
		Name:        "openrouter-quote-stream",
		MaxRequests: config.MaxRequests,
		Interval:    0, // No automatic clearing of counts (we rely on timeout)
		Timeout:     config.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.Requests >= config.FailureThreshold &&
				counts.TotalFailures >= config.FailureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logrus.WithFields(logrus.Fields{
				"breaker":    name,
				"from_state": from,
				"to_state":   to,
			}).Info("Circuit breaker state changed")
		},
	}

	cbs.breaker = gobreaker.NewCircuitBreaker(settings)
	return cbs
}

// StreamQuote implements quote.Streamer with circuit breaker protection
func (c *CircuitBreakerStreamer) StreamQuote(ctx context.Context, req *quote.Request, onEvent quote.StreamHandler) error {
	if !c.config.Enabled {
		return c.streamer.StreamQuote(ctx, req, onEvent)
	}

	_, err := c.breaker.Execute(func() (interface{}, error) {
		return nil, c.streamer.StreamQuote(ctx, req, onEvent)
	})

	if err != nil {
		if err == gobreaker.ErrOpenState {
			logrus.WithField("state", c.breaker.State()).Warn("Circuit breaker is open, failing fast")
			return fmt.Errorf("quote generation temporarily unavailable: upstream requests are being rejected to prevent cascade failures")
		}
		return err
	}

	return nil
}

// State returns the current breaker state for monitoring. Disabled
// wrappers always report closed.
func (c *CircuitBreakerStreamer) State() gobreaker.State {
	if c.breaker == nil {
		return gobreaker.StateClosed
	}
	return c.breaker.State()
}
