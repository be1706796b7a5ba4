package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/sma-timetable-api/internal/models"
)

// TeacherPreferenceRepository persists teacher preferences.
type TeacherPreferenceRepository struct {
	db *sqlx.DB
}

// NewTeacherPreferenceRepository constructs the repository.
func NewTeacherPreferenceRepository(db *sqlx.DB) *TeacherPreferenceRepository {
	return &TeacherPreferenceRepository{db: db}
}

const teacherPreferenceColumns = `id, teacher_id, max_slots_per_day, max_slots_per_week, available_time_slots, created_at, updated_at`

// GetByTeacher returns stored preferences for a teacher.
func (r *TeacherPreferenceRepository) GetByTeacher(ctx context.Context, teacherID string) (*models.TeacherPreference, error) {
	query := `SELECT ` + teacherPreferenceColumns + ` FROM teacher_preferences WHERE teacher_id = $1`
	var pref models.TeacherPreference
	if err := r.db.GetContext(ctx, &pref, query, teacherID); err != nil {
		return nil, err
	}
	return &pref, nil
}

// ListByTeachers bulk loads preferences keyed by teacher id. Teachers without
// a record are absent from the map.
func (r *TeacherPreferenceRepository) ListByTeachers(ctx context.Context, teacherIDs []string) (map[string]models.TeacherPreference, error) {
	result := make(map[string]models.TeacherPreference, len(teacherIDs))
	if len(teacherIDs) == 0 {
		return result, nil
	}
	query := `SELECT ` + teacherPreferenceColumns + ` FROM teacher_preferences WHERE teacher_id = ANY($1)`
	var prefs []models.TeacherPreference
	if err := r.db.SelectContext(ctx, &prefs, query, pq.Array(teacherIDs)); err != nil {
		return nil, fmt.Errorf("list teacher preferences: %w", err)
	}
	for _, pref := range prefs {
		result[pref.TeacherID] = pref
	}
	return result, nil
}

// Upsert creates or updates teacher preferences.
func (r *TeacherPreferenceRepository) Upsert(ctx context.Context, pref *models.TeacherPreference) error {
	if pref.ID == "" {
		pref.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if pref.CreatedAt.IsZero() {
		pref.CreatedAt = now
	}
	pref.UpdatedAt = now
	if len(pref.AvailableTimeSlots) == 0 {
		pref.AvailableTimeSlots = []byte("{}")
	}

	const query = `INSERT INTO teacher_preferences (id, teacher_id, max_slots_per_day, max_slots_per_week, available_time_slots, created_at, updated_at)
		VALUES (:id, :teacher_id, :max_slots_per_day, :max_slots_per_week, :available_time_slots, :created_at, :updated_at)
		ON CONFLICT (teacher_id) DO UPDATE
		SET max_slots_per_day = EXCLUDED.max_slots_per_day,
		    max_slots_per_week = EXCLUDED.max_slots_per_week,
		    available_time_slots = EXCLUDED.available_time_slots,
		    updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, pref); err != nil {
		return fmt.Errorf("upsert teacher preference: %w", err)
	}
	return nil
}
