package quotegen

import (
	"sync"
	"time"

	"github.com/SteveMet/eps-connect-demo/domain/quote"
)

// The progress scale has 10 steps. The terminal complete frame acts as
// the implicit step 11 on the client side; the synthesizer never emits
// a sentinel of its own.
const totalSteps = 10

// preflightCheckpoint is a timer-driven step emitted while the upstream
// model is still thinking silently and no tokens have arrived yet.
type preflightCheckpoint struct {
	delay   time.Duration
	step    int
	message string
}

// charThreshold advances the step once a cumulative character count is
// crossed.
type charThreshold struct {
	chars   int
	step    int
	message string
}

var defaultPreflight = []preflightCheckpoint{
	{800 * time.Millisecond, 1, "Parsing your request..."},
	{2800 * time.Millisecond, 2, "Analyzing job specifications..."},
	{5300 * time.Millisecond, 3, "Selecting production method..."},
}

var reasoningThresholds = []charThreshold{
	{800, 5, "Computing press time & labor..."},
	{2500, 6, "Adding finishing operations..."},
}

var contentThresholds = []charThreshold{
	{1500, 8, "Benchmarking competitive position..."},
	{3500, 9, "Generating win strategy..."},
	{6000, 10, "Assembling your quote..."},
}

const (
	firstReasoningStep    = 4
	firstReasoningMessage = "Analyzing costs and market position..."
	firstContentStep      = 7
	firstContentMessage   = "Calculating final pricing..."
)

// ProgressSynthesizer converts the bursty arrival pattern of model
// tokens into a smooth, strictly monotonic progress signal. Before any
// token arrives, wall-clock preflight timers advance steps 1-3; the
// first reasoning token jumps to step 4 and cumulative reasoning
// characters drive steps 5-6; the first content token jumps to step 7
// and cumulative content characters drive steps 8-10.
//
// All emission is serialized through one mutex so timer callbacks and
// stream events cannot interleave or regress the step counter.
type ProgressSynthesizer struct {
	write quote.FrameWriter

	mu             sync.Mutex
	lastStep       int
	stopped        bool
	timers         []*time.Timer
	writeErr       error
	sawReasoning   bool
	sawContent     bool
	reasoningChars int
	contentChars   int
}

// NewProgressSynthesizer starts the preflight timers immediately: the
// clock for steps 1-3 runs from stream open, not from first token.
func NewProgressSynthesizer(write quote.FrameWriter) *ProgressSynthesizer {
	return newProgressSynthesizer(write, defaultPreflight)
}

func newProgressSynthesizer(write quote.FrameWriter, preflight []preflightCheckpoint) *ProgressSynthesizer {
	s := &ProgressSynthesizer{write: write}
	for _, cp := range preflight {
		cp := cp
		s.timers = append(s.timers, time.AfterFunc(cp.delay, func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if s.stopped {
				return
			}
			s.emitLocked(cp.step, cp.message)
		}))
	}
	return s
}

// OnReasoning feeds one reasoning chunk into the synthesizer. The
// returned error is a frame-write failure; the caller should abort the
// stream when it is non-nil.
func (s *ProgressSynthesizer) OnReasoning(chunk string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return s.writeErr
	}

	if !s.sawReasoning {
		s.sawReasoning = true
		s.cancelTimersLocked()
		s.emitLocked(firstReasoningStep, firstReasoningMessage)
	}

	s.reasoningChars += len(chunk)
	for _, th := range reasoningThresholds {
		if s.reasoningChars > th.chars {
			s.emitLocked(th.step, th.message)
		}
	}
	return s.writeErr
}

// OnText feeds one content chunk into the synthesizer.
func (s *ProgressSynthesizer) OnText(chunk string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return s.writeErr
	}

	if !s.sawContent {
		s.sawContent = true
		s.cancelTimersLocked()
		s.emitLocked(firstContentStep, firstContentMessage)
	}

	s.contentChars += len(chunk)
	for _, th := range contentThresholds {
		if s.contentChars > th.chars {
			s.emitLocked(th.step, th.message)
		}
	}
	return s.writeErr
}

// Stop cancels any pending preflight timers and freezes the step
// counter. It is idempotent and must be called before the terminal
// frame is written on every path.
func (s *ProgressSynthesizer) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	s.stopped = true
	s.cancelTimersLocked()
}

// emitLocked writes one progress frame. Steps never regress: a
// computed step at or below the last emitted one is coalesced away.
func (s *ProgressSynthesizer) emitLocked(step int, message string) {
	if step <= s.lastStep || s.writeErr != nil {
		return
	}
	s.lastStep = step
	if err := s.write(quote.NewProgressFrame(step, totalSteps, message)); err != nil {
		s.writeErr = err
	}
}

func (s *ProgressSynthesizer) cancelTimersLocked() {
	for _, t := range s.timers {
		t.Stop()
	}
	s.timers = nil
}
