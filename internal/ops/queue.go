package ops

import (
	"context"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/hpungsan/seodraft/internal/db"
	"github.com/hpungsan/seodraft/internal/errors"
)

// Platforms accepted by Enqueue.
const (
	PlatformNaver   = "naver"
	PlatformTistory = "tistory"
)

// DefaultPlatform is used when the caller omits one.
const DefaultPlatform = PlatformNaver

// ScheduleLayout is the accepted scheduled_at format.
const ScheduleLayout = "2006-01-02 15:04:05"

var (
	platforms       = []string{PlatformNaver, PlatformTistory}
	schedulePattern = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})\s(\d{2}:\d{2}:\d{2})$`)
)

// EnqueueInput contains parameters for the Enqueue operation.
type EnqueueInput struct {
	Keyword     string `json:"keyword"`
	Platform    string `json:"platform"`     // naver (default) or tistory
	ScheduledAt string `json:"scheduled_at"` // "YYYY-MM-DD HH:MM:SS"
}

// EnqueueOutput contains the result of the Enqueue operation.
type EnqueueOutput struct {
	Status      string `json:"status"`
	QueueID     int64  `json:"queue_id"`
	Keyword     string `json:"keyword"`
	Platform    string `json:"platform"`
	ScheduledAt string `json:"scheduled_at"`
}

// Enqueue validates and stores a publish request. Nothing drains the queue here.
func Enqueue(ctx context.Context, store *db.Store, input EnqueueInput) (*EnqueueOutput, error) {
	keyword := strings.TrimSpace(input.Keyword)
	platform := strings.TrimSpace(input.Platform)
	scheduledAt := strings.TrimSpace(input.ScheduledAt)

	if keyword == "" {
		return nil, errors.NewInvalidInput("keyword required")
	}
	if scheduledAt == "" {
		return nil, errors.NewInvalidInput("scheduled_at required")
	}
	if platform == "" {
		platform = DefaultPlatform
	}
	if !slices.Contains(platforms, platform) {
		return nil, errors.NewInvalidInput("platform must be 'naver' or 'tistory'")
	}

	normalized, err := normalizeSchedule(scheduledAt)
	if err != nil {
		return nil, err
	}

	entry := &db.QueueEntry{
		Keyword:     keyword,
		Platform:    platform,
		ScheduledAt: normalized,
		CreatedAt:   time.Now().Unix(),
	}
	id, err := store.InsertQueueEntry(ctx, entry)
	if err != nil {
		return nil, err
	}

	return &EnqueueOutput{
		Status:      db.StatusQueued,
		QueueID:     id,
		Keyword:     keyword,
		Platform:    platform,
		ScheduledAt: normalized,
	}, nil
}

// normalizeSchedule checks the shape and calendar validity of s and returns
// it with a single space between date and time.
func normalizeSchedule(s string) (string, error) {
	m := schedulePattern.FindStringSubmatch(s)
	if m == nil {
		return "", scheduleFormatError()
	}
	normalized := m[1] + " " + m[2]
	if _, err := time.Parse(ScheduleLayout, normalized); err != nil {
		return "", scheduleFormatError()
	}
	return normalized, nil
}

func scheduleFormatError() *errors.DraftError {
	err := errors.NewInvalidInput("scheduled_at format must be 'YYYY-MM-DD HH:MM:SS'")
	err.Details = map[string]any{"example": "2026-02-24 09:00:00"}
	return err
}

// ListQueueInput contains parameters for the ListQueue operation.
type ListQueueInput struct {
	Status string // default: queued; "all" lists every status
	Limit  int    // default: 50, max: 200
}

// ListQueueOutput contains the result of the ListQueue operation.
type ListQueueOutput struct {
	Items []db.QueueEntry `json:"items"`
	Limit int             `json:"limit"`
}

// ListQueue returns publish requests in schedule order.
func ListQueue(ctx context.Context, store *db.Store, input ListQueueInput) (*ListQueueOutput, error) {
	limit := clampLimit(input.Limit, DefaultQueueLimit, MaxQueueLimit)

	status := strings.TrimSpace(input.Status)
	switch status {
	case "":
		status = db.StatusQueued
	case "all":
		status = ""
	}

	items, err := store.ListQueue(ctx, status, limit)
	if err != nil {
		return nil, err
	}
	return &ListQueueOutput{Items: items, Limit: limit}, nil
}
