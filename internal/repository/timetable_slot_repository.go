package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sma-timetable-api/internal/models"
)

const slotColumns = 9

// TimetableSlotRepository stores placed lessons.
type TimetableSlotRepository struct {
	db *sqlx.DB
}

// NewTimetableSlotRepository constructs the repository.
func NewTimetableSlotRepository(db *sqlx.DB) *TimetableSlotRepository {
	return &TimetableSlotRepository{db: db}
}

func (r *TimetableSlotRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// DeleteAll removes every slot of every run.
func (r *TimetableSlotRepository) DeleteAll(ctx context.Context, exec sqlx.ExtContext) error {
	if _, err := r.exec(exec).ExecContext(ctx, `DELETE FROM timetable_slots`); err != nil {
		return fmt.Errorf("delete timetable slots: %w", err)
	}
	return nil
}

// InsertBatch writes slots in multi-row statements, assigning ids where missing.
func (r *TimetableSlotRepository) InsertBatch(ctx context.Context, exec sqlx.ExtContext, slots []models.TimetableSlot) error {
	if len(slots) == 0 {
		return nil
	}
	now := time.Now().UTC()
	for i := range slots {
		if slots[i].ID == "" {
			slots[i].ID = uuid.NewString()
		}
		if slots[i].CreatedAt.IsZero() {
			slots[i].CreatedAt = now
		}
	}
	const query = `INSERT INTO timetable_slots (id, timetable_run_id, day_name, time_slot_name, teacher_id, subject_id, student_group_id, classroom_id, created_at)
VALUES (:id, :timetable_run_id, :day_name, :time_slot_name, :teacher_id, :subject_id, :student_group_id, :classroom_id, :created_at)`
	if err := namedInsertChunks(ctx, r.exec(exec), query, slots, slotColumns); err != nil {
		return fmt.Errorf("insert timetable slots: %w", err)
	}
	return nil
}

// ListDetailed returns the slots of a run joined with display names.
func (r *TimetableSlotRepository) ListDetailed(ctx context.Context, runID string, filter models.TimetableSlotFilter) ([]models.TimetableSlotDetail, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT ts.id, ts.timetable_run_id, ts.day_name, ts.time_slot_name, ts.teacher_id, ts.subject_id,
ts.student_group_id, ts.classroom_id, ts.created_at,
t.full_name AS teacher_name, s.name AS subject_name, g.name AS student_group_name, c.name AS classroom_name
FROM timetable_slots ts
JOIN teachers t ON t.id = ts.teacher_id
JOIN subjects s ON s.id = ts.subject_id
JOIN student_groups g ON g.id = ts.student_group_id
JOIN classrooms c ON c.id = ts.classroom_id
WHERE ts.timetable_run_id = $1`)
	args := []interface{}{runID}
	if filter.StudentGroupID != "" {
		args = append(args, filter.StudentGroupID)
		sb.WriteString(fmt.Sprintf(" AND ts.student_group_id = $%d", len(args)))
	}
	if filter.TeacherID != "" {
		args = append(args, filter.TeacherID)
		sb.WriteString(fmt.Sprintf(" AND ts.teacher_id = $%d", len(args)))
	}
	sb.WriteString(" ORDER BY g.name ASC, ts.student_group_id ASC")

	var slots []models.TimetableSlotDetail
	if err := r.db.SelectContext(ctx, &slots, sb.String(), args...); err != nil {
		return nil, fmt.Errorf("list timetable slots: %w", err)
	}
	return slots, nil
}
