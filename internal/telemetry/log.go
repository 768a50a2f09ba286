package telemetry

import (
	"context"

	"github.com/hpungsan/seodraft/internal/logger"
)

// LogObserver writes events as structured log entries.
type LogObserver struct {
	log logger.Logger
}

// NewLogObserver creates a LogObserver.
func NewLogObserver(log logger.Logger) *LogObserver {
	return &LogObserver{log: log}
}

// Observe implements Observer. Failed runs log at warn, everything else at info.
func (o *LogObserver) Observe(_ context.Context, ev Event) {
	fields := []logger.Field{
		logger.String("event", ev.Name),
		logger.String("run_id", ev.RunID),
		logger.String("keyword", ev.Keyword),
	}
	if ev.Model != "" {
		fields = append(fields, logger.String("model", ev.Model))
	}

	switch ev.Name {
	case EventGenerationTokens, EventScoringTokens:
		fields = append(fields,
			logger.Int("prompt_tokens", ev.PromptTokens),
			logger.Int("output_tokens", ev.OutputTokens),
		)
		o.log.Info("token usage", fields...)
	case EventPipelineOutcome:
		fields = append(fields,
			logger.String("outcome", ev.Outcome),
			logger.Duration("elapsed", ev.Elapsed),
		)
		if ev.HasScore {
			fields = append(fields, logger.Int("score", ev.Score))
		}
		if ev.PostID > 0 {
			fields = append(fields, logger.Int64("post_id", ev.PostID))
		}
		if ev.Outcome == OutcomeOK || ev.Outcome == OutcomeDiscarded {
			o.log.Info("pipeline finished", fields...)
		} else {
			o.log.Warn("pipeline failed", fields...)
		}
	default:
		o.log.Debug("telemetry event", fields...)
	}
}
