package ops

import (
	"context"

	"github.com/hpungsan/seodraft/internal/db"
	"github.com/hpungsan/seodraft/internal/errors"
)

// HealthOutput contains the result of the Health operation.
type HealthOutput struct {
	Status string         `json:"status"`
	DB     map[string]int `json:"db,omitempty"`
	Driver string         `json:"driver,omitempty"`
	Note   string         `json:"note,omitempty"`
}

// Health reports whether the store answers a trivial query.
// A nil store is reported as healthy with a note, not as an error.
func Health(ctx context.Context, store *db.Store) (*HealthOutput, error) {
	if store == nil {
		return &HealthOutput{Status: "ok", Note: "DB not bound yet"}, nil
	}
	if err := store.Ping(ctx); err != nil {
		return nil, errors.NewStorage(err)
	}
	return &HealthOutput{
		Status: "ok",
		DB:     map[string]int{"ok": 1},
		Driver: store.Driver(),
	}, nil
}
