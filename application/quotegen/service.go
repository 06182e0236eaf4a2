package quotegen

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/SteveMet/eps-connect-demo/domain/quote"
)

// simulationStep is one entry of the fixed simulated-mode replay.
type simulationStep struct {
	delay   time.Duration
	message string
}

var simulationSteps = []simulationStep{
	{800 * time.Millisecond, "Parsing your request..."},
	{2000 * time.Millisecond, "Analyzing job specifications..."},
	{2500 * time.Millisecond, "Selecting production method..."},
	{3000 * time.Millisecond, "Calculating material costs..."},
	{2000 * time.Millisecond, "Computing press time & labor..."},
	{2500 * time.Millisecond, "Adding finishing operations..."},
	{2000 * time.Millisecond, "Checking against 30+ market vendors..."},
	{1500 * time.Millisecond, "Benchmarking competitive position..."},
	{1000 * time.Millisecond, "Generating win strategy..."},
	{800 * time.Millisecond, "Assembling your quote..."},
}

// settleDelay is the pause between the final simulated progress step and
// the complete frame.
const settleDelay = 500 * time.Millisecond

// Service orchestrates one quote generation per call: it drives the
// model stream (or the simulated replay), synthesizes progress frames
// and guarantees exactly one terminal frame per connection. A Service
// holds no per-request state and is safe for concurrent use.
type Service struct {
	streamer quote.Streamer
	now      func() time.Time
	sleep    func(ctx context.Context, d time.Duration) error
}

// NewService builds a live-mode service driven by the given streamer.
func NewService(streamer quote.Streamer) *Service {
	return &Service{
		streamer: streamer,
		now:      time.Now,
		sleep:    sleepContext,
	}
}

// NewSimulatedService builds a service that replays the canned progress
// schedule and answers with a deterministic mock quote. Used when no
// provider credential is configured.
func NewSimulatedService() *Service {
	return &Service{
		now:   time.Now,
		sleep: sleepContext,
	}
}

// Simulated reports whether this service answers from canned data.
func (s *Service) Simulated() bool {
	return s.streamer == nil
}

// Generate runs one quote generation, writing progress frames and
// exactly one terminal frame through write. The returned error is for
// handler-side logging only: by the time it is non-nil the failure has
// already been delivered in-band, or the client connection is gone and
// nothing more can be written.
func (s *Service) Generate(ctx context.Context, req *quote.Request, write quote.FrameWriter) error {
	if s.Simulated() {
		return s.generateSimulated(ctx, req, write)
	}
	return s.generateLive(ctx, req, write)
}

func (s *Service) generateSimulated(ctx context.Context, req *quote.Request, write quote.FrameWriter) error {
	for i, step := range simulationSteps {
		if err := s.sleep(ctx, step.delay); err != nil {
			return err
		}
		if err := write(quote.NewProgressFrame(i+1, len(simulationSteps), step.message)); err != nil {
			return err
		}
	}

	if err := s.sleep(ctx, settleDelay); err != nil {
		return err
	}

	mock, err := json.Marshal(GenerateMockQuote(req, s.now()))
	if err != nil {
		return write(quote.NewErrorFrame(err.Error()))
	}
	return write(quote.NewCompleteFrame(mock, "", ""))
}

func (s *Service) generateLive(ctx context.Context, req *quote.Request, write quote.FrameWriter) error {
	gw := &guardedWriter{write: write}
	synth := NewProgressSynthesizer(gw.writeFrame)
	defer synth.Stop()

	var done quote.StreamEvent
	streamErr := s.streamer.StreamQuote(ctx, req, func(ev quote.StreamEvent) error {
		switch ev.Type {
		case quote.EventReasoning:
			return synth.OnReasoning(ev.Content)
		case quote.EventText:
			return synth.OnText(ev.Content)
		case quote.EventDone:
			done = ev
		}
		return nil
	})

	// No frame may be written after the synthesizer stops; the terminal
	// frame below is always the last thing on the wire.
	synth.Stop()

	if gw.err != nil {
		// Client disconnected mid-stream. Nothing left to deliver to.
		return gw.err
	}

	if streamErr != nil {
		logrus.WithError(streamErr).Error("Quote generation stream failed")
		if werr := gw.writeFrame(quote.NewErrorFrame(streamErr.Error())); werr != nil {
			return werr
		}
		return streamErr
	}

	parsed, parseErr := ParseResponse(done.Content)
	if parseErr != nil {
		logrus.WithError(parseErr).WithField("raw_length", len(done.Content)).
			Warn("Model output could not be structured, delivering raw fallback")
		frame := quote.NewParseFailureFrame(done.Content, parseErr.Error())
		frame.Reasoning = done.Reasoning
		frame.Model = done.Model
		return gw.writeFrame(frame)
	}

	return gw.writeFrame(quote.NewCompleteFrame(parsed, done.Reasoning, done.Model))
}

// guardedWriter makes the frame stream append-only past the first write
// failure: once a write errors, every later attempt returns the same
// error without touching the underlying writer.
type guardedWriter struct {
	write quote.FrameWriter
	err   error
}

func (g *guardedWriter) writeFrame(frame any) error {
	if g.err != nil {
		return g.err
	}
	if err := g.write(frame); err != nil {
		g.err = err
	}
	return g.err
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
