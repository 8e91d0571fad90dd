package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/felixgeelhaar/healthsched/internal/scheduling/domain"
	"github.com/felixgeelhaar/healthsched/internal/shared/infrastructure/convert"
)

// PostgresRunRepository persists run history in PostgreSQL, for deployments
// that want shared, multi-writer run history rather than a local SQLite file.
type PostgresRunRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRunRepository wraps an already-open, already-migrated pool.
func NewPostgresRunRepository(pool *pgxpool.Pool) *PostgresRunRepository {
	return &PostgresRunRepository{pool: pool}
}

func (r *PostgresRunRepository) Save(ctx context.Context, run *domain.Run) error {
	state := run.State()
	stats := state.ComputeStatistics()

	var failed []string
	for _, f := range state.AllFailures() {
		failed = append(failed, f.ActivityID)
	}

	const query = `
		INSERT INTO runs (
			id, start_date, duration_days, input_digest, total_slots, unique_activities,
			busiest_day, busiest_day_count, failed_count, specialist_usage, equipment_usage,
			failed_activity_ids, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	_, err := r.pool.Exec(ctx, query,
		run.ID(),
		run.StartDate().Format(),
		run.DurationDays(),
		run.InputDigest(),
		stats.TotalSlots,
		stats.UniqueActivities,
		stats.BusiestDay.Format(),
		stats.BusiestDayCount,
		stats.FailedCount,
		stats.SpecialistUsage,
		stats.EquipmentUsage,
		failed,
		run.CreatedAt(),
		run.UpdatedAt(),
	)
	return err
}

func (r *PostgresRunRepository) FindByID(ctx context.Context, id uuid.UUID) (*RunSummary, error) {
	const query = `
		SELECT id, start_date, duration_days, input_digest, total_slots, unique_activities,
			   busiest_day, busiest_day_count, failed_count, specialist_usage, equipment_usage,
			   failed_activity_ids, created_at
		FROM runs WHERE id = $1
	`
	row := r.pool.QueryRow(ctx, query, id)
	summary, err := scanPostgresRunSummary(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	return summary, err
}

func (r *PostgresRunRepository) ListRecent(ctx context.Context, limit int) ([]*RunSummary, error) {
	const query = `
		SELECT id, start_date, duration_days, input_digest, total_slots, unique_activities,
			   busiest_day, busiest_day_count, failed_count, specialist_usage, equipment_usage,
			   failed_activity_ids, created_at
		FROM runs ORDER BY created_at DESC LIMIT $1
	`
	rows, err := r.pool.Query(ctx, query, convert.IntToInt32Safe(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*RunSummary
	for rows.Next() {
		summary, err := scanPostgresRunSummary(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, summary)
	}
	return out, rows.Err()
}

func scanPostgresRunSummary(row pgx.Row) (*RunSummary, error) {
	var id uuid.UUID
	var startDateStr, inputDigest, busiestDayStr string
	var durationDays, totalSlots, uniqueActivities, busiestDayCount, failedCount int
	var specialistUsage, equipmentUsage map[string]int
	var failed []string
	var createdAt time.Time

	if err := row.Scan(
		&id, &startDateStr, &durationDays, &inputDigest, &totalSlots, &uniqueActivities,
		&busiestDayStr, &busiestDayCount, &failedCount, &specialistUsage, &equipmentUsage,
		&failed, &createdAt,
	); err != nil {
		return nil, err
	}

	startDate, err := domain.ParseDate(startDateStr)
	if err != nil {
		return nil, err
	}
	busiestDay, err := domain.ParseDate(busiestDayStr)
	if err != nil {
		return nil, err
	}

	return &RunSummary{
		ID:           id,
		StartDate:    startDate,
		DurationDays: durationDays,
		InputDigest:  inputDigest,
		Stats: domain.Statistics{
			TotalSlots:       totalSlots,
			UniqueActivities: uniqueActivities,
			DateRangeStart:   startDate,
			BusiestDay:       busiestDay,
			BusiestDayCount:  busiestDayCount,
			SpecialistUsage:  specialistUsage,
			EquipmentUsage:   equipmentUsage,
			FailedCount:      failedCount,
		},
		FailedActivityIDs: failed,
		CreatedAt:         createdAt,
	}, nil
}
