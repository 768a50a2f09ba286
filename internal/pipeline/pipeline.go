// Package pipeline drafts, scores and gates SEO blog posts.
//
// A run moves through validating, generating, parsing, scoring, gating and
// persisting. Only the generation call is bound by the deadline; scoring uses
// the caller's context. Each run emits generation.tokens, scoring.tokens and
// exactly one pipeline.outcome event.
package pipeline

import (
	"context"
	"crypto/rand"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/hpungsan/seodraft/internal/content"
	"github.com/hpungsan/seodraft/internal/db"
	"github.com/hpungsan/seodraft/internal/errors"
	"github.com/hpungsan/seodraft/internal/genai"
	"github.com/hpungsan/seodraft/internal/telemetry"
)

// Defaults applied when Deps leaves a field zero.
const (
	DefaultTimeout      = 30 * time.Second
	DefaultPreviewChars = 300
)

// Outcome statuses.
const (
	StatusOK        = "ok"
	StatusDiscarded = "discarded"
)

// PostStore persists accepted drafts.
type PostStore interface {
	InsertPost(ctx context.Context, p *db.Post) (int64, error)
}

// Deps holds pipeline collaborators and settings.
type Deps struct {
	Writer   *Writer
	Scorer   *Scorer
	Store    PostStore
	Observer telemetry.Observer

	// Timeout bounds the generation call.
	Timeout      time.Duration
	PreviewChars int

	// Now defaults to time.Now.
	Now func() time.Time
}

// Pipeline runs the generate-score-gate flow. It is immutable after New and
// safe for concurrent use.
type Pipeline struct {
	writer       *Writer
	scorer       *Scorer
	store        PostStore
	obs          telemetry.Observer
	timeout      time.Duration
	previewChars int
	now          func() time.Time
}

// New validates deps and builds a Pipeline.
func New(d Deps) (*Pipeline, error) {
	if d.Writer == nil || d.Scorer == nil {
		return nil, fmt.Errorf("pipeline: writer and scorer are required")
	}
	if d.Store == nil {
		return nil, fmt.Errorf("pipeline: store is required")
	}

	p := &Pipeline{
		writer:       d.Writer,
		scorer:       d.Scorer,
		store:        d.Store,
		obs:          d.Observer,
		timeout:      d.Timeout,
		previewChars: d.PreviewChars,
		now:          d.Now,
	}
	if p.obs == nil {
		p.obs = telemetry.Nop{}
	}
	if p.timeout <= 0 {
		p.timeout = DefaultTimeout
	}
	if p.previewChars <= 0 {
		p.previewChars = DefaultPreviewChars
	}
	if p.now == nil {
		p.now = time.Now
	}
	return p, nil
}

// StageUsage is the token usage of both model calls.
type StageUsage struct {
	Generation genai.Usage `json:"generation"`
	Scoring    genai.Usage `json:"scoring"`
}

// Outcome is the result of a run that did not fail.
type Outcome struct {
	Status  string     `json:"status"`
	RunID   string     `json:"run_id"`
	PostID  int64      `json:"post_id,omitempty"`
	Score   int        `json:"score"`
	Title   string     `json:"title"`
	Preview string     `json:"preview,omitempty"`
	Model   string     `json:"model"`
	Usage   StageUsage `json:"usage"`
}

// Run generates, scores and gates one draft for keyword.
//
// Failures come back as *errors.DraftError: INVALID_INPUT for a blank keyword,
// TIMEOUT when generation misses the deadline, UPSTREAM_ERROR for non-success
// answers, EMPTY_GENERATION when no text came back, STORAGE_ERROR when the
// insert fails. A low score is not an error; it yields Status "discarded".
func (p *Pipeline) Run(ctx context.Context, keyword string) (out *Outcome, err error) {
	start := p.now()
	keyword = strings.TrimSpace(keyword)
	base := telemetry.Event{RunID: newRunID(), Keyword: keyword, Model: p.writer.Model()}

	defer func() {
		ev := base
		ev.Name = telemetry.EventPipelineOutcome
		ev.Elapsed = p.now().Sub(start)
		if err != nil {
			ev.Outcome = string(errors.CodeOf(err))
		} else {
			ev.Outcome = out.Status
			ev.Score = out.Score
			ev.HasScore = true
			ev.PostID = out.PostID
		}
		p.obs.Observe(ctx, ev)
	}()

	if keyword == "" {
		return nil, errors.NewInvalidInput("keyword required")
	}

	text, genUsage, err := p.generate(ctx, keyword, base)
	if err != nil {
		return nil, err
	}

	title := content.ExtractTitle(text)
	if title == "" {
		title = keyword
	}

	score, resp, err := p.scorer.Score(ctx, text)
	if resp != nil && resp.Success {
		ev := base
		ev.Name = telemetry.EventScoringTokens
		ev.Model = p.scorer.Model()
		ev.PromptTokens = resp.Usage.PromptTokens
		ev.OutputTokens = resp.Usage.OutputTokens
		p.obs.Observe(ctx, ev)
	}
	if err != nil {
		return nil, err
	}

	out = &Outcome{
		RunID: base.RunID,
		Score: score.Value,
		Title: title,
		Model: p.writer.Model(),
		Usage: StageUsage{Generation: genUsage, Scoring: score.Usage},
	}

	if Admit(score.Value) == Reject {
		out.Status = StatusDiscarded
		return out, nil
	}

	value := score.Value
	post := &db.Post{
		Title:             title,
		Content:           text,
		Keyword:           keyword,
		Status:            db.StatusDraft,
		Score:             &value,
		Model:             p.writer.Model(),
		GenPromptTokens:   genUsage.PromptTokens,
		GenOutputTokens:   genUsage.OutputTokens,
		ScorePromptTokens: score.Usage.PromptTokens,
		ScoreOutputTokens: score.Usage.OutputTokens,
		CreatedAt:         p.now().Unix(),
	}
	id, err := p.store.InsertPost(ctx, post)
	if err != nil {
		if !errors.Is(err, errors.ErrStorage) {
			err = errors.NewStorage(err)
		}
		return nil, err
	}

	out.Status = StatusOK
	out.PostID = id
	out.Preview = content.Preview(text, p.previewChars)
	return out, nil
}

// generate performs the deadline-bound generation call and returns usable text.
func (p *Pipeline) generate(ctx context.Context, keyword string, base telemetry.Event) (string, genai.Usage, error) {
	genCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	resp, err := p.writer.Generate(genCtx, keyword)
	if err != nil {
		switch {
		case stderrors.Is(err, context.DeadlineExceeded) || stderrors.Is(genCtx.Err(), context.DeadlineExceeded):
			return "", genai.Usage{}, errors.NewTimeout(p.timeout.String(), err)
		case stderrors.Is(err, context.Canceled):
			return "", genai.Usage{}, errors.NewUnknown(err)
		default:
			return "", genai.Usage{}, errors.NewUpstream("generation", 0, err)
		}
	}

	if !resp.Success {
		uerr := errors.NewUpstream("generation", resp.StatusCode, nil)
		uerr.Details["model"] = p.writer.Model()
		return "", genai.Usage{}, uerr
	}

	ev := base
	ev.Name = telemetry.EventGenerationTokens
	ev.PromptTokens = resp.Usage.PromptTokens
	ev.OutputTokens = resp.Usage.OutputTokens
	p.obs.Observe(ctx, ev)

	text, ok := resp.Text()
	if !ok {
		eerr := errors.NewEmptyGeneration()
		eerr.Details = map[string]any{"model": p.writer.Model()}
		if resp.Raw != nil {
			eerr.Details["raw"] = resp.Raw
		}
		return "", resp.Usage, eerr
	}
	return text, resp.Usage, nil
}

// newRunID returns a ULID for correlating a run's events.
func newRunID() string {
	entropy := ulid.Monotonic(rand.Reader, 0)
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}
