package db

import (
	"context"
	"database/sql"
	stderrors "errors"
	"strconv"

	sq "github.com/Masterminds/squirrel"

	"github.com/hpungsan/seodraft/internal/errors"
)

// StatusQueued is the status of a newly enqueued publish request.
const StatusQueued = "queued"

// QueueEntry is a scheduled publish request. Nothing in this module drains the queue.
type QueueEntry struct {
	ID          int64  `db:"id" json:"id"`
	Keyword     string `db:"keyword" json:"keyword"`
	Platform    string `db:"platform" json:"platform"`
	ScheduledAt string `db:"scheduled_at" json:"scheduled_at"` // "YYYY-MM-DD HH:MM:SS", stored verbatim
	Status      string `db:"status" json:"status"`
	CreatedAt   int64  `db:"created_at" json:"created_at"`
}

// InsertQueueEntry stores e with status "queued" and returns its identifier.
func (s *Store) InsertQueueEntry(ctx context.Context, e *QueueEntry) (int64, error) {
	query, args, err := s.sb.Insert("publish_queue").
		Columns("keyword", "platform", "scheduled_at", "status", "created_at").
		Values(e.Keyword, e.Platform, e.ScheduledAt, StatusQueued, e.CreatedAt).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, errors.NewStorage(err)
	}

	var id int64
	if err := s.db.QueryRowxContext(ctx, query, args...).Scan(&id); err != nil {
		return 0, errors.NewStorage(err)
	}

	e.ID = id
	e.Status = StatusQueued
	return id, nil
}

// GetQueueEntry retrieves a queue entry by id.
func (s *Store) GetQueueEntry(ctx context.Context, id int64) (*QueueEntry, error) {
	query, args, err := s.sb.Select("id", "keyword", "platform", "scheduled_at", "status", "created_at").
		From("publish_queue").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, errors.NewStorage(err)
	}

	var e QueueEntry
	if err := s.db.GetContext(ctx, &e, query, args...); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewNotFound("queue entry", strconv.FormatInt(id, 10))
		}
		return nil, errors.NewStorage(err)
	}
	return &e, nil
}

// ListQueue returns queue entries with the given status ordered by schedule.
// An empty status lists every entry.
func (s *Store) ListQueue(ctx context.Context, status string, limit int) ([]QueueEntry, error) {
	builder := s.sb.Select("id", "keyword", "platform", "scheduled_at", "status", "created_at").
		From("publish_queue").
		OrderBy("scheduled_at ASC", "id ASC")
	if status != "" {
		builder = builder.Where(sq.Eq{"status": status})
	}
	if limit > 0 {
		builder = builder.Limit(uint64(limit))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, errors.NewStorage(err)
	}

	items := []QueueEntry{}
	if err := s.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, errors.NewStorage(err)
	}
	return items, nil
}
