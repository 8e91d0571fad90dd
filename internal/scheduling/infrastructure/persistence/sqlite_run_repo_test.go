package persistence

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/healthsched/internal/scheduling/domain"
	"github.com/felixgeelhaar/healthsched/internal/shared/infrastructure/migrations"
)

func newTestRepo(t *testing.T) *SQLiteRunRepository {
	t.Helper()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "runs.db")
	db, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, migrations.RunSQLiteMigrations(ctx, db))
	return NewSQLiteRunRepository(db)
}

func completedRun(t *testing.T) *domain.Run {
	t.Helper()
	run := domain.NewRun(domain.NewDate(2025, 12, 9), 7, "digest-1")
	state := domain.NewSchedulerState(domain.NewDate(2025, 12, 9), 7)
	state.Book(domain.TimeSlot{ActivityID: "act_1", Date: domain.NewDate(2025, 12, 9), Start: domain.NewClockTime(8, 0), DurationMinutes: 30})
	run.Complete(state)
	return run
}

func TestSQLiteRunRepository_SaveAndFindByID(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	run := completedRun(t)

	require.NoError(t, repo.Save(ctx, run))

	summary, err := repo.FindByID(ctx, run.ID())
	require.NoError(t, err)
	assert.Equal(t, run.ID(), summary.ID)
	assert.Equal(t, "digest-1", summary.InputDigest)
	assert.Equal(t, 1, summary.Stats.TotalSlots)
}

func TestSQLiteRunRepository_FindByID_NotFound(t *testing.T) {
	repo := newTestRepo(t)
	_, err := repo.FindByID(context.Background(), completedRun(t).ID())
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestSQLiteRunRepository_ListRecent(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.Save(ctx, completedRun(t)))
	require.NoError(t, repo.Save(ctx, completedRun(t)))

	summaries, err := repo.ListRecent(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, summaries, 2)
}
