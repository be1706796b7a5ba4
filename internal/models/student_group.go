package models

import (
	"time"

	"github.com/lib/pq"
)

// StudentGroup is a class cohort that receives its own weekly schedule.
// Timetable lists the IDs of its slots in the active run.
type StudentGroup struct {
	ID           string         `db:"id" json:"id"`
	Name         string         `db:"name" json:"name"`
	AcademicYear int            `db:"academic_year" json:"academic_year"`
	Active       bool           `db:"active" json:"active"`
	Timetable    pq.StringArray `db:"timetable" json:"timetable"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at" json:"updated_at"`
}
