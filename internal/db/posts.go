package db

import (
	"context"
	"database/sql"
	stderrors "errors"
	"strconv"

	sq "github.com/Masterminds/squirrel"

	"github.com/hpungsan/seodraft/internal/errors"
)

// StatusDraft is the status of every post written by the pipeline.
const StatusDraft = "draft"

// Post is a persisted generated post. Content is the verbatim generator
// output with hashtag lines still embedded.
type Post struct {
	ID                int64  `db:"id" json:"id"`
	Title             string `db:"title" json:"title"`
	Content           string `db:"content" json:"content"`
	Keyword           string `db:"keyword" json:"keyword"`
	Status            string `db:"status" json:"status"`
	Score             *int   `db:"score" json:"score"`
	Model             string `db:"model" json:"model"`
	GenPromptTokens   int    `db:"gen_prompt_tokens" json:"gen_prompt_tokens"`
	GenOutputTokens   int    `db:"gen_output_tokens" json:"gen_output_tokens"`
	ScorePromptTokens int    `db:"score_prompt_tokens" json:"score_prompt_tokens"`
	ScoreOutputTokens int    `db:"score_output_tokens" json:"score_output_tokens"`
	CreatedAt         int64  `db:"created_at" json:"created_at"`
}

// DraftSummary is a list row for draft posts.
type DraftSummary struct {
	ID        int64  `db:"id" json:"id"`
	Title     string `db:"title" json:"title"`
	Keyword   string `db:"keyword" json:"keyword"`
	Status    string `db:"status" json:"status"`
	Score     *int   `db:"score" json:"score"`
	CreatedAt int64  `db:"created_at" json:"created_at"`
}

var postColumns = []string{
	"id", "title", "content", "keyword", "status", "score", "model",
	"gen_prompt_tokens", "gen_output_tokens", "score_prompt_tokens", "score_output_tokens",
	"created_at",
}

// InsertPost stores p and returns the assigned identifier. p.ID is updated.
// An empty status is stored as "draft".
func (s *Store) InsertPost(ctx context.Context, p *Post) (int64, error) {
	status := p.Status
	if status == "" {
		status = StatusDraft
	}

	query, args, err := s.sb.Insert("posts").
		Columns(
			"title", "content", "keyword", "status", "score", "model",
			"gen_prompt_tokens", "gen_output_tokens", "score_prompt_tokens", "score_output_tokens",
			"created_at",
		).
		Values(
			p.Title, p.Content, p.Keyword, status, p.Score, p.Model,
			p.GenPromptTokens, p.GenOutputTokens, p.ScorePromptTokens, p.ScoreOutputTokens,
			p.CreatedAt,
		).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, errors.NewStorage(err)
	}

	var id int64
	if err := s.db.QueryRowxContext(ctx, query, args...).Scan(&id); err != nil {
		return 0, errors.NewStorage(err)
	}

	p.ID = id
	p.Status = status
	return id, nil
}

// GetPost retrieves a post by id. Returns NOT_FOUND when no row matches.
func (s *Store) GetPost(ctx context.Context, id int64) (*Post, error) {
	query, args, err := s.sb.Select(postColumns...).
		From("posts").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, errors.NewStorage(err)
	}

	var p Post
	if err := s.db.GetContext(ctx, &p, query, args...); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewNotFound("post", strconv.FormatInt(id, 10))
		}
		return nil, errors.NewStorage(err)
	}
	return &p, nil
}

// ListDrafts returns up to limit draft posts, newest first.
func (s *Store) ListDrafts(ctx context.Context, limit int) ([]DraftSummary, error) {
	builder := s.sb.Select("id", "title", "keyword", "status", "score", "created_at").
		From("posts").
		Where(sq.Eq{"status": StatusDraft}).
		OrderBy("created_at DESC", "id DESC")
	if limit > 0 {
		builder = builder.Limit(uint64(limit))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, errors.NewStorage(err)
	}

	items := []DraftSummary{}
	if err := s.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, errors.NewStorage(err)
	}
	return items, nil
}
