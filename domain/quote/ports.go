package quote

import "context"

// StreamEventType tags the internal event union produced by a Streamer.
type StreamEventType string

const (
	EventReasoning StreamEventType = "reasoning"
	EventText      StreamEventType = "text"
	EventDone      StreamEventType = "done"
)

// StreamEvent is one normalized upstream event. A Streamer yields zero or
// more reasoning events, then zero or more text events, then exactly one
// done event carrying the full accumulated text, the full accumulated
// reasoning and the model identifier.
type StreamEvent struct {
	Type      StreamEventType
	Content   string
	Reasoning string
	Model     string
}

// StreamHandler receives normalized events in upstream order. Returning an
// error aborts the stream.
type StreamHandler func(StreamEvent) error

// Streamer opens a single-pass streaming generation against the model
// provider. Each call issues a new upstream connection.
type Streamer interface {
	StreamQuote(ctx context.Context, req *Request, onEvent StreamHandler) error
}

// FrameWriter appends one SSE frame to the outbound stream. Writes are
// ordered; after the first error no further frames may be written.
type FrameWriter func(frame any) error

// KnowledgeSource provides the static advisory documents composed into the
// system prompt. Implementations return document bodies with any metadata
// front matter already stripped.
type KnowledgeSource interface {
	PrintEstimatorPrompt() (string, error)
	CompetitivePricerPrompt() (string, error)
	FactoryProfile() (string, error)
	MarketPricingDatabase() (string, error)
}
