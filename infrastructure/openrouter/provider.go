package openrouter

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/SteveMet/eps-connect-demo/domain/quote"
)

// Provider streams quote generations from the OpenRouter API and
// normalizes its wire format into quote.StreamEvent values.
type Provider struct {
	apiKey             string
	baseURL            string
	model              string
	maxTokens          int
	reasoningMaxTokens int
	httpClient         *http.Client
	refererURL         string
	appName            string
	knowledge          quote.KnowledgeSource
}

func NewProvider(apiKey, baseURL, model string, maxTokens, reasoningMaxTokens int, refererURL, appName string, knowledge quote.KnowledgeSource) *Provider {
	// Configure HTTP client with connection pooling. Quote generations
	// run long, so the client timeout stays generous and streaming reads
	// rely on context cancellation instead.
	transport := &http.Transport{
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   20,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		ResponseHeaderTimeout: 30 * time.Second,
	}

	return &Provider{
		apiKey:             apiKey,
		baseURL:            baseURL,
		model:              model,
		maxTokens:          maxTokens,
		reasoningMaxTokens: reasoningMaxTokens,
		httpClient: &http.Client{
			Timeout:   120 * time.Second,
			Transport: transport,
		},
		refererURL: refererURL,
		appName:    appName,
		knowledge:  knowledge,
	}
}

type reasoningOptions struct {
	MaxTokens int `json:"max_tokens"`
}

type providerOptions struct {
	Order []string `json:"order"`
}

type apiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type apiStreamRequest struct {
	Model     string            `json:"model"`
	MaxTokens int               `json:"max_tokens"`
	Stream    bool              `json:"stream"`
	Reasoning *reasoningOptions `json:"reasoning,omitempty"`
	Provider  *providerOptions  `json:"provider,omitempty"`
	Messages  []apiMessage      `json:"messages"`
}

type reasoningDetail struct {
	Text string `json:"text"`
}

type streamDelta struct {
	Content          string            `json:"content"`
	Reasoning        string            `json:"reasoning"`
	ReasoningDetails []reasoningDetail `json:"reasoning_details"`
}

type streamChoice struct {
	Delta streamDelta `json:"delta"`
}

type apiStreamChunk struct {
	Choices []streamChoice `json:"choices"`
}

// normalizeDelta maps one upstream delta into zero or more internal
// events. Reasoning can arrive as a structured detail list or a plain
// string; the structured form wins when both are present in the same
// chunk, since some models send both with identical text.
func normalizeDelta(delta streamDelta) []quote.StreamEvent {
	var events []quote.StreamEvent

	gotReasoningDetail := false
	for _, detail := range delta.ReasoningDetails {
		if detail.Text != "" {
			gotReasoningDetail = true
			events = append(events, quote.StreamEvent{Type: quote.EventReasoning, Content: detail.Text})
		}
	}

	if !gotReasoningDetail && delta.Reasoning != "" {
		events = append(events, quote.StreamEvent{Type: quote.EventReasoning, Content: delta.Reasoning})
	}

	if delta.Content != "" {
		events = append(events, quote.StreamEvent{Type: quote.EventText, Content: delta.Content})
	}

	return events
}

// StreamQuote opens a streaming completion and invokes onEvent for each
// normalized event, finishing with exactly one done event that carries
// the full accumulated text and reasoning. The call is single-pass: a
// retry means a new upstream connection.
func (p *Provider) StreamQuote(ctx context.Context, req *quote.Request, onEvent quote.StreamHandler) error {
	if p.apiKey == "" {
		return fmt.Errorf("openrouter api key is not configured")
	}

	systemPrompt, err := buildSystemPrompt(p.knowledge)
	if err != nil {
		return fmt.Errorf("build system prompt: %w", err)
	}
	userPrompt := buildUserPrompt(req)

	jsonData, err := json.Marshal(apiStreamRequest{
		Model:     p.model,
		MaxTokens: p.maxTokens,
		Stream:    true,
		Reasoning: &reasoningOptions{MaxTokens: p.reasoningMaxTokens},
		Provider:  &providerOptions{Order: []string{"anthropic"}},
		Messages: []apiMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
	})
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}

	hreq, err := http.NewRequestWithContext(ctx, "POST", p.baseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	hreq.Header.Set("Content-Type", "application/json")
	hreq.Header.Set("Authorization", "Bearer "+p.apiKey)
	hreq.Header.Set("HTTP-Referer", p.refererURL)
	hreq.Header.Set("X-Title", p.appName)

	logrus.WithFields(logrus.Fields{
		"model":         p.model,
		"system_length": len(systemPrompt),
		"user_length":   len(userPrompt),
	}).Debug("Opening quote generation stream")

	resp, err := p.httpClient.Do(hreq)
	if err != nil {
		return fmt.Errorf("do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		logrus.WithFields(logrus.Fields{"status": resp.StatusCode, "body": string(body), "model": p.model}).Error("OpenRouter streaming API error")
		return fmt.Errorf("openrouter api error %d: %s", resp.StatusCode, string(body))
	}

	var fullText, fullReasoning strings.Builder

	// bufio buffers partial lines across network reads: a payload is only
	// parsed once its newline delimiter has arrived.
	reader := bufio.NewReader(resp.Body)
	for {
		line, err := reader.ReadBytes('\n')
		if err != nil {
			if err == io.EOF {
				break
			}
			return fmt.Errorf("stream read: %w", err)
		}
		if len(line) < 6 || string(line[:6]) != "data: " {
			continue
		}
		payload := bytes.TrimSpace(line[6:])
		if bytes.Equal(payload, []byte("[DONE]")) {
			continue
		}

		var chunk apiStreamChunk
		if err := json.Unmarshal(payload, &chunk); err != nil {
			// Malformed frames are a recoverable upstream quirk, not a
			// stream failure. Skip and keep accumulating.
			logrus.WithField("payload", string(payload)).Debug("Skipping malformed streaming chunk")
			continue
		}
		if len(chunk.Choices) == 0 {
			continue
		}

		for _, event := range normalizeDelta(chunk.Choices[0].Delta) {
			switch event.Type {
			case quote.EventReasoning:
				fullReasoning.WriteString(event.Content)
			case quote.EventText:
				fullText.WriteString(event.Content)
			}
			if err := onEvent(event); err != nil {
				return err
			}
		}
	}

	logrus.WithFields(logrus.Fields{
		"model":            p.model,
		"reasoning_length": fullReasoning.Len(),
		"content_length":   fullText.Len(),
	}).Debug("Quote generation stream closed")

	return onEvent(quote.StreamEvent{
		Type:      quote.EventDone,
		Content:   fullText.String(),
		Reasoning: fullReasoning.String(),
		Model:     p.model,
	})
}
