package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // pure Go SQLite driver

	"github.com/felixgeelhaar/healthsched/internal/scheduling/domain"
	"github.com/felixgeelhaar/healthsched/internal/shared/infrastructure/convert"
)

// OpenSQLite opens a SQLite database file with the WAL/busy-timeout pragmas
// a single-writer CLI process wants, mirroring the connection pattern the
// rest of the stack uses for its own SQLite-backed repositories.
func OpenSQLite(ctx context.Context, path string) (*sql.DB, error) {
	dsn := path
	if !strings.Contains(dsn, "?") {
		dsn += "?"
	} else {
		dsn += "&"
	}
	dsn += "_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite database: %w", err)
	}
	return db, nil
}

// SQLiteRunRepository persists run history in SQLite.
type SQLiteRunRepository struct {
	db *sql.DB
}

// NewSQLiteRunRepository wraps an already-open, already-migrated database.
func NewSQLiteRunRepository(db *sql.DB) *SQLiteRunRepository {
	return &SQLiteRunRepository{db: db}
}

func (r *SQLiteRunRepository) Save(ctx context.Context, run *domain.Run) error {
	state := run.State()
	stats := state.ComputeStatistics()

	var failed []string
	for _, f := range state.AllFailures() {
		failed = append(failed, f.ActivityID)
	}
	failedJSON, err := json.Marshal(failed)
	if err != nil {
		return err
	}
	specialistJSON, err := json.Marshal(stats.SpecialistUsage)
	if err != nil {
		return err
	}
	equipmentJSON, err := json.Marshal(stats.EquipmentUsage)
	if err != nil {
		return err
	}

	const query = `
		INSERT INTO runs (
			id, start_date, duration_days, input_digest, total_slots, unique_activities,
			busiest_day, busiest_day_count, failed_count, specialist_usage, equipment_usage,
			failed_activity_ids, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.ExecContext(ctx, query,
		run.ID().String(),
		run.StartDate().Format(),
		run.DurationDays(),
		run.InputDigest(),
		stats.TotalSlots,
		stats.UniqueActivities,
		stats.BusiestDay.Format(),
		stats.BusiestDayCount,
		stats.FailedCount,
		string(specialistJSON),
		string(equipmentJSON),
		string(failedJSON),
		run.CreatedAt().Format(time.RFC3339),
		run.UpdatedAt().Format(time.RFC3339),
	)
	return err
}

func (r *SQLiteRunRepository) FindByID(ctx context.Context, id uuid.UUID) (*RunSummary, error) {
	const query = `
		SELECT id, start_date, duration_days, input_digest, total_slots, unique_activities,
			   busiest_day, busiest_day_count, failed_count, specialist_usage, equipment_usage,
			   failed_activity_ids, created_at
		FROM runs WHERE id = ?
	`
	row := r.db.QueryRowContext(ctx, query, id.String())
	summary, err := scanRunSummary(row)
	if err == sql.ErrNoRows {
		return nil, ErrRunNotFound
	}
	return summary, err
}

func (r *SQLiteRunRepository) ListRecent(ctx context.Context, limit int) ([]*RunSummary, error) {
	const query = `
		SELECT id, start_date, duration_days, input_digest, total_slots, unique_activities,
			   busiest_day, busiest_day_count, failed_count, specialist_usage, equipment_usage,
			   failed_activity_ids, created_at
		FROM runs ORDER BY created_at DESC LIMIT ?
	`
	rows, err := r.db.QueryContext(ctx, query, convert.IntToInt32Safe(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*RunSummary
	for rows.Next() {
		summary, err := scanRunSummary(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, summary)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRunSummary(row rowScanner) (*RunSummary, error) {
	var idStr, startDateStr, inputDigest, busiestDayStr string
	var specialistJSON, equipmentJSON, failedJSON string
	var createdAtStr string
	var durationDays, totalSlots, uniqueActivities, busiestDayCount, failedCount int

	if err := row.Scan(
		&idStr, &startDateStr, &durationDays, &inputDigest, &totalSlots, &uniqueActivities,
		&busiestDayStr, &busiestDayCount, &failedCount, &specialistJSON, &equipmentJSON,
		&failedJSON, &createdAtStr,
	); err != nil {
		return nil, err
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
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
	createdAt, err := time.Parse(time.RFC3339, createdAtStr)
	if err != nil {
		return nil, err
	}

	var specialistUsage, equipmentUsage map[string]int
	if err := json.Unmarshal([]byte(specialistJSON), &specialistUsage); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(equipmentJSON), &equipmentUsage); err != nil {
		return nil, err
	}
	var failed []string
	if err := json.Unmarshal([]byte(failedJSON), &failed); err != nil {
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
