package ops

import (
	"context"

	"github.com/hpungsan/seodraft/internal/db"
)

// ListDraftsInput contains parameters for the ListDrafts operation.
type ListDraftsInput struct {
	Limit int // default: 20, max: 50
}

// ListDraftsOutput contains the result of the ListDrafts operation.
type ListDraftsOutput struct {
	Items []db.DraftSummary `json:"items"`
	Limit int               `json:"limit"`
}

// ListDrafts returns draft posts, newest first.
func ListDrafts(ctx context.Context, store *db.Store, input ListDraftsInput) (*ListDraftsOutput, error) {
	limit := clampLimit(input.Limit, DefaultDraftsLimit, MaxDraftsLimit)

	items, err := store.ListDrafts(ctx, limit)
	if err != nil {
		return nil, err
	}

	return &ListDraftsOutput{Items: items, Limit: limit}, nil
}
