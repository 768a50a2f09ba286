package pipeline

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hpungsan/seodraft/internal/errors"
	"github.com/hpungsan/seodraft/internal/genai"
	"github.com/hpungsan/seodraft/internal/genai/genaitest"
)

func TestParseScore(t *testing.T) {
	tests := []struct {
		in            string
		want          int
		wantMalformed bool
	}{
		{"85", 85, false},
		{"85/100 excellent", 85, false},
		{"Total: 92점", 92, false},
		{"총점: 78점", 78, false},
		{" 100 ", 100, false},
		{"0", 0, false},
		{"N/A", 0, true},
		{"", 0, true},
		{"150", 0, true},
		{"99999999999999999999999", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, malformed := ParseScore(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantMalformed, malformed)
		})
	}
}

func TestAdmit(t *testing.T) {
	tests := []struct {
		score int
		want  Decision
	}{
		{0, Reject},
		{42, Reject},
		{79, Reject},
		{80, Accept},
		{95, Accept},
		{100, Accept},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Admit(tt.score), "score %d", tt.score)
	}
	assert.Equal(t, "accept", Accept.String())
	assert.Equal(t, "reject", Reject.String())
}

func TestScorer_UsesFirstPartOnly(t *testing.T) {
	fake := &genaitest.Fake{Respond: genaitest.Sequence(&genai.Response{
		Success: true,
		Parts:   []string{"88", "ignored 12"},
		Usage:   genai.Usage{PromptTokens: 10, OutputTokens: 1},
	})}

	score, resp, err := NewScorer(fake).Score(context.Background(), "post")
	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, 88, score.Value)
	assert.Equal(t, "88", score.Raw)
	assert.False(t, score.Malformed)
	assert.Equal(t, 10, score.Usage.PromptTokens)
}

func TestScorer_TransportError(t *testing.T) {
	fake := &genaitest.Fake{Respond: func(context.Context, int, string) (*genai.Response, error) {
		return nil, fmt.Errorf("reset by peer")
	}}

	_, resp, err := NewScorer(fake).Score(context.Background(), "post")
	assert.Nil(t, resp)
	dErr := errors.From(err)
	assert.Equal(t, errors.ErrUpstream, dErr.Code)
	assert.Equal(t, "scoring", dErr.Details["stage"])
}

func TestPrompts(t *testing.T) {
	draft := DraftPrompt("제주도 여행")
	assert.Contains(t, draft, "키워드: 제주도 여행")
	assert.Contains(t, draft, "1500자")
	assert.Contains(t, draft, "해시태그")

	score := ScorePrompt("본문")
	assert.Contains(t, score, "100점")
	assert.Contains(t, score, "본문")
}

func TestWriter_Model(t *testing.T) {
	fake := &genaitest.Fake{Model: "m1", Respond: genaitest.Sequence(genaitest.Text("x", genai.Usage{}))}
	w := NewWriter(fake)
	assert.Equal(t, "m1", w.Model())

	resp, err := w.Generate(context.Background(), "kw")
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, 1, fake.Calls())
}
