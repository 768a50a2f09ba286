package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"
)

// DefaultGeminiBaseURL is the public Generative Language API host.
const DefaultGeminiBaseURL = "https://generativelanguage.googleapis.com"

// maxResponseBytes bounds how much of an upstream body is read.
const maxResponseBytes = 8 << 20

// Gemini calls the generateContent endpoint of the Generative Language API.
type Gemini struct {
	baseURL    string
	model      string
	apiKey     string
	httpClient *http.Client
}

var _ Model = (*Gemini)(nil)

// GeminiOption configures a Gemini client.
type GeminiOption func(*Gemini)

// WithBaseURL overrides the API host, mainly for tests and proxies.
func WithBaseURL(u string) GeminiOption {
	return func(g *Gemini) { g.baseURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(c *http.Client) GeminiOption {
	return func(g *Gemini) { g.httpClient = c }
}

// NewGemini creates a Gemini client for model.
func NewGemini(apiKey, model string, opts ...GeminiOption) *Gemini {
	g := &Gemini{
		baseURL:    DefaultGeminiBaseURL,
		model:      model,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Name implements Model.
func (g *Gemini) Name() string { return g.model }

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

// Complete implements Model. The API key travels in the x-goog-api-key header
// and never appears in the URL or in returned errors.
func (g *Gemini) Complete(ctx context.Context, prompt string) (*Response, error) {
	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal gemini payload: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent", g.baseURL, url.PathEscape(g.model))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.apiKey)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, g.redact(fmt.Errorf("gemini request: %w", err))
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, g.redact(fmt.Errorf("read gemini response: %w", err))
	}

	out := &Response{
		StatusCode: resp.StatusCode,
		Raw:        rawJSON(payload),
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return out, nil
	}
	if out.Raw == nil {
		return nil, fmt.Errorf("gemini returned %d with a non-JSON body", resp.StatusCode)
	}

	out.Success = true
	for _, part := range gjson.GetBytes(payload, "candidates.0.content.parts.#.text").Array() {
		out.Parts = append(out.Parts, part.String())
	}
	out.Usage = Usage{
		PromptTokens: int(gjson.GetBytes(payload, "usageMetadata.promptTokenCount").Int()),
		OutputTokens: int(gjson.GetBytes(payload, "usageMetadata.candidatesTokenCount").Int()),
	}
	return out, nil
}

// redact strips the API key from an error message while keeping the chain for errors.Is.
func (g *Gemini) redact(err error) error {
	if err == nil || g.apiKey == "" || !strings.Contains(err.Error(), g.apiKey) {
		return err
	}
	return &redactedError{msg: strings.ReplaceAll(err.Error(), g.apiKey, "[REDACTED]"), err: err}
}

type redactedError struct {
	msg string
	err error
}

func (e *redactedError) Error() string { return e.msg }
func (e *redactedError) Unwrap() error { return e.err }
