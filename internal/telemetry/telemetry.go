// Package telemetry carries pipeline observability events to log and metric sinks.
package telemetry

import (
	"context"
	"time"
)

// Event names emitted by the pipeline.
const (
	EventGenerationTokens = "generation.tokens"
	EventScoringTokens    = "scoring.tokens"
	EventPipelineOutcome  = "pipeline.outcome"
)

// Outcome values for EventPipelineOutcome that are not error codes.
const (
	OutcomeOK        = "ok"
	OutcomeDiscarded = "discarded"
)

// Event is a single observation from a pipeline run.
// Token fields are set on *.tokens events; Outcome, Score, PostID and Elapsed
// on pipeline.outcome.
type Event struct {
	Name    string
	RunID   string
	Keyword string
	Model   string

	PromptTokens int
	OutputTokens int

	// Outcome is "ok", "discarded", or the error code of a failed run.
	Outcome  string
	Score    int
	HasScore bool
	PostID   int64
	Elapsed  time.Duration
}

// Stage returns "generation" or "scoring" for token events, "" otherwise.
func (e Event) Stage() string {
	switch e.Name {
	case EventGenerationTokens:
		return "generation"
	case EventScoringTokens:
		return "scoring"
	}
	return ""
}

// Observer receives pipeline events. Implementations must be safe for
// concurrent use and must not block.
type Observer interface {
	Observe(ctx context.Context, ev Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ctx context.Context, ev Event)

// Observe calls f(ctx, ev).
func (f ObserverFunc) Observe(ctx context.Context, ev Event) { f(ctx, ev) }

// Multi fans an event out to every observer in order.
type Multi []Observer

// Observe implements Observer.
func (m Multi) Observe(ctx context.Context, ev Event) {
	for _, o := range m {
		if o != nil {
			o.Observe(ctx, ev)
		}
	}
}

// Nop discards every event.
type Nop struct{}

// Observe implements Observer.
func (Nop) Observe(context.Context, Event) {}
