// Package ops implements the operations shared by the HTTP, MCP and CLI surfaces.
// Each operation takes an Input struct and returns an Output or a *errors.DraftError.
package ops

import (
	"strconv"
	"strings"

	"github.com/hpungsan/seodraft/internal/errors"
)

// List limits
const (
	DefaultDraftsLimit = 20
	MaxDraftsLimit     = 50
	DefaultQueueLimit  = 50
	MaxQueueLimit      = 200
)

// clampLimit applies the default for non-positive values and caps at max.
func clampLimit(limit, def, max int) int {
	if limit <= 0 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}

// ParseID parses a post or queue identifier from user input.
func ParseID(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, errors.NewInvalidInput("id required")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.NewInvalidInput("id must be a positive integer")
	}
	return id, nil
}
