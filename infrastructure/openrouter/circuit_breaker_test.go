package openrouter

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SteveMet/eps-connect-demo/domain/quote"
)

type fakeStreamer struct {
	err    error
	events []quote.StreamEvent
	calls  int
}

func (f *fakeStreamer) StreamQuote(ctx context.Context, req *quote.Request, onEvent quote.StreamHandler) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	for _, ev := range f.events {
		if err := onEvent(ev); err != nil {
			return err
		}
	}
	return nil
}

func TestDefaultCircuitBreakerConfig(t *testing.T) {
	config := DefaultCircuitBreakerConfig()

	assert.True(t, config.Enabled)
	assert.Equal(t, uint32(5), config.FailureThreshold)
	assert.Equal(t, uint32(2), config.SuccessThreshold)
	assert.Equal(t, 60*time.Second, config.Timeout)
	assert.Equal(t, uint32(3), config.MaxRequests)
}

func TestCircuitBreakerStreamer_PassesEventsThrough(t *testing.T) {
	inner := &fakeStreamer{events: []quote.StreamEvent{
		{Type: quote.EventText, Content: "hello"},
		{Type: quote.EventDone, Content: "hello", Model: "test-model"},
	}}
	cbs := NewCircuitBreakerStreamer(inner, DefaultCircuitBreakerConfig())

	var received []quote.StreamEvent
	err := cbs.StreamQuote(context.Background(), &quote.Request{Request: "flyers"}, func(ev quote.StreamEvent) error {
		received = append(received, ev)
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, inner.events, received)
	assert.Equal(t, gobreaker.StateClosed, cbs.State())
}

func TestCircuitBreakerStreamer_OpensAfterRepeatedFailures(t *testing.T) {
	inner := &fakeStreamer{err: errors.New("upstream down")}
	config := DefaultCircuitBreakerConfig()
	config.FailureThreshold = 3
	cbs := NewCircuitBreakerStreamer(inner, config)

	noop := func(quote.StreamEvent) error { return nil }

	for i := 0; i < 3; i++ {
		err := cbs.StreamQuote(context.Background(), &quote.Request{Request: "flyers"}, noop)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "upstream down")
	}

	assert.Equal(t, gobreaker.StateOpen, cbs.State())

	// Once open, calls fail fast without reaching the inner streamer
	before := inner.calls
	err := cbs.StreamQuote(context.Background(), &quote.Request{Request: "flyers"}, noop)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "temporarily unavailable")
	assert.Equal(t, before, inner.calls)
}

func TestCircuitBreakerStreamer_DisabledPassesThrough(t *testing.T) {
	inner := &fakeStreamer{err: errors.New("upstream down")}
	config := DefaultCircuitBreakerConfig()
	config.Enabled = false
	config.FailureThreshold = 1
	cbs := NewCircuitBreakerStreamer(inner, config)

	noop := func(quote.StreamEvent) error { return nil }

	// Failures never trip a disabled breaker
	for i := 0; i < 5; i++ {
		err := cbs.StreamQuote(context.Background(), &quote.Request{Request: "flyers"}, noop)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "upstream down")
	}

	assert.Equal(t, 5, inner.calls)
	assert.Equal(t, gobreaker.StateClosed, cbs.State())
}
