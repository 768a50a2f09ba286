// Package genaitest provides a scriptable genai.Model for tests.
package genaitest

import (
	"context"
	"sync"

	"github.com/hpungsan/seodraft/internal/genai"
)

// Fake is a genai.Model whose answers come from Respond.
// It records every prompt and whether the call's context ended.
type Fake struct {
	// Model is returned by Name. Defaults to "fake-model".
	Model string
	// Respond produces the answer for the nth call (starting at 0).
	Respond func(ctx context.Context, n int, prompt string) (*genai.Response, error)

	mu        sync.Mutex
	prompts   []string
	cancelled int
}

var _ genai.Model = (*Fake)(nil)

// Name implements genai.Model.
func (f *Fake) Name() string {
	if f.Model == "" {
		return "fake-model"
	}
	return f.Model
}

// Complete implements genai.Model.
func (f *Fake) Complete(ctx context.Context, prompt string) (*genai.Response, error) {
	f.mu.Lock()
	n := len(f.prompts)
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()

	resp, err := f.Respond(ctx, n, prompt)
	if ctx.Err() != nil {
		f.mu.Lock()
		f.cancelled++
		f.mu.Unlock()
	}
	return resp, err
}

// Calls returns the number of Complete invocations.
func (f *Fake) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

// Prompts returns a copy of every prompt received.
func (f *Fake) Prompts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.prompts...)
}

// Cancelled returns how many calls observed a done context before returning.
func (f *Fake) Cancelled() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cancelled
}

// Text returns a successful response carrying a single text part.
func Text(s string, usage genai.Usage) *genai.Response {
	return &genai.Response{Success: true, StatusCode: 200, Parts: []string{s}, Usage: usage}
}

// Status returns a non-success response with the given HTTP status.
func Status(code int) *genai.Response {
	return &genai.Response{StatusCode: code}
}

// Sequence answers the nth call with responses[n], repeating the last one.
func Sequence(responses ...*genai.Response) func(context.Context, int, string) (*genai.Response, error) {
	return func(_ context.Context, n int, _ string) (*genai.Response, error) {
		if n >= len(responses) {
			n = len(responses) - 1
		}
		return responses[n], nil
	}
}

// Block waits for the context to end and returns its error.
func Block(ctx context.Context, _ int, _ string) (*genai.Response, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}
