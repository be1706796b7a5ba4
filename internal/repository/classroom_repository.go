package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-timetable-api/internal/models"
)

const occupancyColumns = 4

// ClassroomRepository reads classrooms and maintains per-run occupancy.
type ClassroomRepository struct {
	db *sqlx.DB
}

// NewClassroomRepository constructs the repository.
func NewClassroomRepository(db *sqlx.DB) *ClassroomRepository {
	return &ClassroomRepository{db: db}
}

func (r *ClassroomRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// ListActive returns active classrooms ordered by id.
func (r *ClassroomRepository) ListActive(ctx context.Context) ([]models.Classroom, error) {
	const query = `SELECT id, name, capacity, equipment, unavailable, active, created_at, updated_at
FROM classrooms WHERE active = TRUE ORDER BY id ASC`
	var rooms []models.Classroom
	if err := r.db.SelectContext(ctx, &rooms, query); err != nil {
		return nil, fmt.Errorf("list classrooms: %w", err)
	}
	return rooms, nil
}

// ReplaceOccupancy clears every booking and stores the bookings of a run.
func (r *ClassroomRepository) ReplaceOccupancy(ctx context.Context, exec sqlx.ExtContext, bookings []models.ClassroomOccupancy) error {
	target := r.exec(exec)
	if _, err := target.ExecContext(ctx, `DELETE FROM classroom_occupancy`); err != nil {
		return fmt.Errorf("reset classroom occupancy: %w", err)
	}
	if len(bookings) == 0 {
		return nil
	}
	const query = `INSERT INTO classroom_occupancy (classroom_id, timetable_run_id, day_name, time_slot_name)
VALUES (:classroom_id, :timetable_run_id, :day_name, :time_slot_name)`
	if err := namedInsertChunks(ctx, target, query, bookings, occupancyColumns); err != nil {
		return fmt.Errorf("insert classroom occupancy: %w", err)
	}
	return nil
}
