package pipeline

import (
	"context"

	"github.com/hpungsan/seodraft/internal/genai"
)

// Writer drafts a post for a keyword with one model call.
// It never retries and never persists.
type Writer struct {
	model genai.Model
}

// NewWriter creates a Writer backed by model.
func NewWriter(model genai.Model) *Writer {
	return &Writer{model: model}
}

// Model returns the model identifier used for drafting.
func (w *Writer) Model() string { return w.model.Name() }

// Generate sends the draft prompt. ctx carries the pipeline deadline.
// A non-success upstream answer comes back as Response{Success: false}.
func (w *Writer) Generate(ctx context.Context, keyword string) (*genai.Response, error) {
	return w.model.Complete(ctx, DraftPrompt(keyword))
}
