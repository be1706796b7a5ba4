package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
	"github.com/lib/pq"
)

// Classroom is a room timetable slots can be placed in. Unavailable holds a
// JSON list of ClassroomCell values the room can never be booked for.
type Classroom struct {
	ID          string         `db:"id" json:"id"`
	Name        string         `db:"name" json:"name"`
	Capacity    int            `db:"capacity" json:"capacity"`
	Equipment   pq.StringArray `db:"equipment" json:"equipment"`
	Unavailable types.JSONText `db:"unavailable" json:"unavailable"`
	Active      bool           `db:"active" json:"active"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updated_at"`
}

// ClassroomCell names one grid position.
type ClassroomCell struct {
	Day      string `json:"day"`
	TimeSlot string `json:"time_slot"`
}

// ClassroomOccupancy marks a classroom as booked by a run.
type ClassroomOccupancy struct {
	ClassroomID  string `db:"classroom_id" json:"classroom_id"`
	RunID        string `db:"timetable_run_id" json:"timetable_run_id"`
	DayName      string `db:"day_name" json:"day_name"`
	TimeSlotName string `db:"time_slot_name" json:"time_slot_name"`
}
