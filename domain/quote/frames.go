package quote

import "encoding/json"

// SSE frame envelopes written to the outbound stream. Each frame is one
// `data: <json>` record; the JSON `type` field tags the union.

const (
	FrameProgress = "progress"
	FrameComplete = "complete"
	FrameError    = "error"
)

// ProgressFrame reports a synthesized progress step. Step is
// non-decreasing for the lifetime of one request.
type ProgressFrame struct {
	Type       string `json:"type"`
	Step       int    `json:"step"`
	TotalSteps int    `json:"totalSteps"`
	Message    string `json:"message"`
}

// CompleteFrame is the terminal frame on the success path. Data carries
// the quote payload verbatim, without forcing it through typed structs:
// model output is only shallowly validated and clients tolerate
// partially-typed fields. Data is null and Raw/Error are set when the
// output could not be structured at all (soft failure): the HTTP stream
// still completes normally.
type CompleteFrame struct {
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data"`
	Reasoning string          `json:"reasoning,omitempty"`
	Model     string          `json:"model,omitempty"`
	Raw       string          `json:"raw,omitempty"`
	Error     string          `json:"error,omitempty"`
}

// ErrorFrame is the terminal frame on the hard-failure path (upstream
// transport errors). The HTTP status remains 200; the failure travels
// in-band so the client always sees a well-formed terminal event.
type ErrorFrame struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

func NewProgressFrame(step, totalSteps int, message string) ProgressFrame {
	return ProgressFrame{Type: FrameProgress, Step: step, TotalSteps: totalSteps, Message: message}
}

func NewCompleteFrame(data json.RawMessage, reasoning, model string) CompleteFrame {
	return CompleteFrame{Type: FrameComplete, Data: data, Reasoning: reasoning, Model: model}
}

func NewParseFailureFrame(raw, errMsg string) CompleteFrame {
	return CompleteFrame{Type: FrameComplete, Raw: raw, Error: errMsg}
}

func NewErrorFrame(errMsg string) ErrorFrame {
	return ErrorFrame{Type: FrameError, Error: errMsg}
}
