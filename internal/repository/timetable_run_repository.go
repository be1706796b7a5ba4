package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"

	"github.com/noah-isme/sma-timetable-api/internal/models"
)

// TimetableRunRepository persists generation runs.
type TimetableRunRepository struct {
	db *sqlx.DB
}

// NewTimetableRunRepository constructs the repository.
func NewTimetableRunRepository(db *sqlx.DB) *TimetableRunRepository {
	return &TimetableRunRepository{db: db}
}

func (r *TimetableRunRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

const timetableRunColumns = `id, academic_year, semester, status, stats, error_message, created_at, finished_at`

// Create inserts a run record.
func (r *TimetableRunRepository) Create(ctx context.Context, exec sqlx.ExtContext, run *models.TimetableRun) error {
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	if len(run.Stats) == 0 {
		run.Stats = types.JSONText(`{}`)
	}
	const query = `INSERT INTO timetable_runs (id, academic_year, semester, status, stats, error_message, created_at, finished_at)
VALUES (:id, :academic_year, :semester, :status, :stats, :error_message, :created_at, :finished_at)`
	if _, err := sqlx.NamedExecContext(ctx, r.exec(exec), query, run); err != nil {
		return fmt.Errorf("create timetable run: %w", err)
	}
	return nil
}

// UpdateStatus records a status change with optional stats and error text.
func (r *TimetableRunRepository) UpdateStatus(ctx context.Context, exec sqlx.ExtContext, run *models.TimetableRun) error {
	if len(run.Stats) == 0 {
		run.Stats = types.JSONText(`{}`)
	}
	const query = `UPDATE timetable_runs SET status = :status, stats = :stats, error_message = :error_message, finished_at = :finished_at WHERE id = :id`
	if _, err := sqlx.NamedExecContext(ctx, r.exec(exec), query, run); err != nil {
		return fmt.Errorf("update timetable run: %w", err)
	}
	return nil
}

// FindByID returns a run by id.
func (r *TimetableRunRepository) FindByID(ctx context.Context, id string) (*models.TimetableRun, error) {
	query := `SELECT ` + timetableRunColumns + ` FROM timetable_runs WHERE id = $1`
	var run models.TimetableRun
	if err := r.db.GetContext(ctx, &run, query, id); err != nil {
		return nil, err
	}
	return &run, nil
}

// FindActive returns the run whose slots form the current timetable.
func (r *TimetableRunRepository) FindActive(ctx context.Context) (*models.TimetableRun, error) {
	query := `SELECT ` + timetableRunColumns + ` FROM timetable_runs WHERE status = 'ACTIVE' ORDER BY created_at DESC LIMIT 1`
	var run models.TimetableRun
	if err := r.db.GetContext(ctx, &run, query); err != nil {
		return nil, err
	}
	return &run, nil
}

// DeleteActiveExcept removes every previously active run other than keepID.
func (r *TimetableRunRepository) DeleteActiveExcept(ctx context.Context, exec sqlx.ExtContext, keepID string) error {
	const query = `DELETE FROM timetable_runs WHERE status = 'ACTIVE' AND id <> $1`
	if _, err := r.exec(exec).ExecContext(ctx, query, keepID); err != nil {
		return fmt.Errorf("delete previous timetable runs: %w", err)
	}
	return nil
}
