package ops

import (
	"context"

	"github.com/hpungsan/seodraft/internal/errors"
	"github.com/hpungsan/seodraft/internal/pipeline"
)

// GenerateInput contains parameters for the Generate operation.
type GenerateInput struct {
	Keyword string `json:"keyword"`
}

// GenerateOutput is the pipeline outcome: "ok" with post_id and preview, or "discarded".
type GenerateOutput = pipeline.Outcome

// Generate drafts, scores and gates a post for the keyword.
// A nil pipeline means generation is not configured (usually a missing API key).
func Generate(ctx context.Context, p *pipeline.Pipeline, input GenerateInput) (*GenerateOutput, error) {
	if p == nil {
		return nil, errors.NewNotConfigured("generation is not configured; set GEMINI_API_KEY or generation.api_key")
	}
	return p.Run(ctx, input.Keyword)
}
