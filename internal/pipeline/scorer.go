package pipeline

import (
	"context"
	"strconv"

	"github.com/hpungsan/seodraft/internal/errors"
	"github.com/hpungsan/seodraft/internal/genai"
)

// MaxScore is the top of the scoring scale.
const MaxScore = 100

// Score is the parsed result of a scoring call.
type Score struct {
	Value int
	// Raw is the first text part as returned by the model.
	Raw string
	// Malformed is set when Raw held no number in [0, MaxScore].
	Malformed bool
	Usage     genai.Usage
}

// Scorer rates a drafted post with a second model call.
type Scorer struct {
	model genai.Model
}

// NewScorer creates a Scorer backed by model.
func NewScorer(model genai.Model) *Scorer {
	return &Scorer{model: model}
}

// Model returns the model identifier used for scoring.
func (s *Scorer) Model() string { return s.model.Name() }

// Score asks the model for a 0-100 rating of content. The response is returned
// alongside the score so callers can record usage even on failure.
// A transport failure or non-success answer is an UPSTREAM_ERROR with stage "scoring".
func (s *Scorer) Score(ctx context.Context, content string) (Score, *genai.Response, error) {
	resp, err := s.model.Complete(ctx, ScorePrompt(content))
	if err != nil {
		return Score{}, nil, errors.NewUpstream("scoring", 0, err)
	}
	if !resp.Success {
		uerr := errors.NewUpstream("scoring", resp.StatusCode, nil)
		uerr.Details["model"] = s.model.Name()
		return Score{}, resp, uerr
	}

	raw := resp.FirstPart()
	value, malformed := ParseScore(raw)
	return Score{
		Value:     value,
		Raw:       raw,
		Malformed: malformed,
		Usage:     resp.Usage,
	}, resp, nil
}

// ParseScore reads the first run of ASCII digits in text.
// "85/100 excellent" is 85 and "Total: 92점" is 92. Text without digits, or a
// value above MaxScore, is malformed and scores 0 so the gate rejects it.
func ParseScore(text string) (value int, malformed bool) {
	start := -1
	end := len(text)
	for i := 0; i < len(text); i++ {
		isDigit := text[i] >= '0' && text[i] <= '9'
		if start < 0 && isDigit {
			start = i
		} else if start >= 0 && !isDigit {
			end = i
			break
		}
	}
	if start < 0 {
		return 0, true
	}

	n, err := strconv.Atoi(text[start:end])
	if err != nil || n > MaxScore {
		return 0, true
	}
	return n, false
}
