package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/sma-timetable-api/internal/models"
)

// StudentGroupRepository reads student groups and their slot lists.
type StudentGroupRepository struct {
	db *sqlx.DB
}

// NewStudentGroupRepository constructs the repository.
func NewStudentGroupRepository(db *sqlx.DB) *StudentGroupRepository {
	return &StudentGroupRepository{db: db}
}

func (r *StudentGroupRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// ListActive returns active groups ordered by name.
func (r *StudentGroupRepository) ListActive(ctx context.Context) ([]models.StudentGroup, error) {
	const query = `SELECT id, name, academic_year, active, timetable, created_at, updated_at
FROM student_groups WHERE active = TRUE ORDER BY name ASC, id ASC`
	var groups []models.StudentGroup
	if err := r.db.SelectContext(ctx, &groups, query); err != nil {
		return nil, fmt.Errorf("list student groups: %w", err)
	}
	return groups, nil
}

// ResetTimetables empties every group's slot list.
func (r *StudentGroupRepository) ResetTimetables(ctx context.Context, exec sqlx.ExtContext) error {
	const query = `UPDATE student_groups SET timetable = '{}', updated_at = $1`
	if _, err := r.exec(exec).ExecContext(ctx, query, time.Now().UTC()); err != nil {
		return fmt.Errorf("reset student group timetables: %w", err)
	}
	return nil
}

// SetTimetable stores the slot ids of one group.
func (r *StudentGroupRepository) SetTimetable(ctx context.Context, exec sqlx.ExtContext, groupID string, slotIDs []string) error {
	const query = `UPDATE student_groups SET timetable = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.exec(exec).ExecContext(ctx, query, groupID, pq.Array(slotIDs), time.Now().UTC()); err != nil {
		return fmt.Errorf("set student group timetable: %w", err)
	}
	return nil
}
