// Package genai is the transport to generative text APIs.
//
// A Model sends one prompt and returns a Response. A non-2xx answer from the
// upstream is reported as Response{Success: false} with a nil error; errors are
// reserved for transport failures and context cancellation.
package genai

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/hpungsan/seodraft/internal/config"
	"github.com/hpungsan/seodraft/internal/errors"
)

// defaultHTTPTimeout caps a single upstream call that has no context deadline.
const defaultHTTPTimeout = 2 * time.Minute

// Model sends a single prompt to a generative text API.
type Model interface {
	// Name returns the model identifier sent upstream.
	Name() string
	Complete(ctx context.Context, prompt string) (*Response, error)
}

// Usage counts tokens consumed by one call.
type Usage struct {
	PromptTokens int `json:"prompt_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// Add returns the sum of u and o.
func (u Usage) Add(o Usage) Usage {
	return Usage{
		PromptTokens: u.PromptTokens + o.PromptTokens,
		OutputTokens: u.OutputTokens + o.OutputTokens,
	}
}

// Response is the outcome of one model call.
type Response struct {
	Success    bool
	StatusCode int
	// Raw is the upstream body when it was valid JSON.
	Raw json.RawMessage
	// Parts are the text parts of the first candidate, in order.
	Parts []string
	Usage Usage
}

// Text joins all parts with newlines. ok is false when the result has no
// non-whitespace characters.
func (r *Response) Text() (string, bool) {
	if r == nil || len(r.Parts) == 0 {
		return "", false
	}
	text := strings.Join(r.Parts, "\n")
	return text, strings.TrimSpace(text) != ""
}

// FirstPart returns the first text part, or "".
func (r *Response) FirstPart() string {
	if r == nil || len(r.Parts) == 0 {
		return ""
	}
	return r.Parts[0]
}

// rawJSON keeps b only when it is valid JSON.
func rawJSON(b []byte) json.RawMessage {
	if len(b) == 0 || !gjson.ValidBytes(b) {
		return nil
	}
	return json.RawMessage(b)
}

// New builds the generation and scoring models for cfg.
// It returns a NOT_CONFIGURED error when no API key is set.
func New(cfg config.GenerationConfig, httpClient *http.Client) (generator, scorer Model, err error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, nil, errors.NewNotConfigured("generation api key is not configured")
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}

	build := func(model string) Model {
		switch cfg.Provider {
		case config.ProviderOpenAI:
			return NewOpenAI(cfg.APIKey, model, cfg.BaseURL, httpClient)
		default:
			opts := []GeminiOption{WithHTTPClient(httpClient)}
			if cfg.BaseURL != "" {
				opts = append(opts, WithBaseURL(cfg.BaseURL))
			}
			return NewGemini(cfg.APIKey, model, opts...)
		}
	}

	switch cfg.Provider {
	case config.ProviderGemini, config.ProviderOpenAI, "":
	default:
		return nil, nil, errors.NewNotConfigured("unknown generation provider: " + cfg.Provider)
	}

	generator = build(cfg.Model)
	scorer = generator
	if s := cfg.ScoringModelOrDefault(); s != cfg.Model {
		scorer = build(s)
	}
	return generator, scorer, nil
}
