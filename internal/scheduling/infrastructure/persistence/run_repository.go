// Package persistence stores completed Run summaries in run history. The
// full booking log is never persisted here — that belongs to the Schedule
// JSON artifact written by jsonio — only the Run aggregate's identity,
// horizon, and Statistics snapshot, so a caller can ask "what ran, when, and
// how did it do" without re-reading the schedule file.
package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/healthsched/internal/scheduling/domain"
)

// ErrRunNotFound is returned when a run id has no matching history record.
var ErrRunNotFound = errors.New("persistence: run not found")

// RunSummary is the read-side projection of a Run: everything run history
// needs to answer "what ran, when, and how did it do" without re-reading the
// Schedule JSON artifact that carries the full booking log.
type RunSummary struct {
	ID                uuid.UUID
	StartDate         domain.Date
	DurationDays      int
	InputDigest       string
	Stats             domain.Statistics
	FailedActivityIDs []string
	CreatedAt         time.Time
}

// RunRepository persists and retrieves completed Run summaries.
type RunRepository interface {
	Save(ctx context.Context, run *domain.Run) error
	FindByID(ctx context.Context, id uuid.UUID) (*RunSummary, error)
	ListRecent(ctx context.Context, limit int) ([]*RunSummary, error)
}
