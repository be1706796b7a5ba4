package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// TeacherPreference stores load caps and per-cell availability.
// AvailableTimeSlots maps a lower-case day name to time slot labels and
// levels (-1 not available, 0 available, 1 preferred).
type TeacherPreference struct {
	ID                 string         `db:"id" json:"id"`
	TeacherID          string         `db:"teacher_id" json:"teacher_id"`
	MaxSlotsPerDay     int            `db:"max_slots_per_day" json:"max_slots_per_day"`
	MaxSlotsPerWeek    int            `db:"max_slots_per_week" json:"max_slots_per_week"`
	AvailableTimeSlots types.JSONText `db:"available_time_slots" json:"available_time_slots"`
	CreatedAt          time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time      `db:"updated_at" json:"updated_at"`
}
