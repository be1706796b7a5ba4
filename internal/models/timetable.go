package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// TimetableRunStatus tracks the lifecycle of a generation run.
type TimetableRunStatus string

const (
	TimetableRunQueued  TimetableRunStatus = "QUEUED"
	TimetableRunRunning TimetableRunStatus = "RUNNING"
	TimetableRunActive  TimetableRunStatus = "ACTIVE"
	TimetableRunFailed  TimetableRunStatus = "FAILED"
)

// TimetableRun is one generation attempt. At most one run is ACTIVE.
type TimetableRun struct {
	ID           string             `db:"id" json:"id"`
	AcademicYear int                `db:"academic_year" json:"academic_year"`
	Semester     int                `db:"semester" json:"semester"`
	Status       TimetableRunStatus `db:"status" json:"status"`
	Stats        types.JSONText     `db:"stats" json:"stats"`
	ErrorMessage *string            `db:"error_message" json:"error_message,omitempty"`
	CreatedAt    time.Time          `db:"created_at" json:"created_at"`
	FinishedAt   *time.Time         `db:"finished_at" json:"finished_at,omitempty"`
}

// TimetableSlot is a single placed lesson.
type TimetableSlot struct {
	ID             string    `db:"id" json:"id"`
	TimetableRunID string    `db:"timetable_run_id" json:"timetable_run_id"`
	DayName        string    `db:"day_name" json:"day_name"`
	TimeSlotName   string    `db:"time_slot_name" json:"time_slot_name"`
	TeacherID      string    `db:"teacher_id" json:"teacher_id"`
	SubjectID      string    `db:"subject_id" json:"subject_id"`
	StudentGroupID string    `db:"student_group_id" json:"student_group_id"`
	ClassroomID    string    `db:"classroom_id" json:"classroom_id"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// TimetableSlotDetail joins a slot with display names.
type TimetableSlotDetail struct {
	TimetableSlot
	TeacherName      string `db:"teacher_name" json:"teacher_name"`
	SubjectName      string `db:"subject_name" json:"subject_name"`
	StudentGroupName string `db:"student_group_name" json:"student_group_name"`
	ClassroomName    string `db:"classroom_name" json:"classroom_name"`
}

// TimetableSlotFilter narrows slot listings.
type TimetableSlotFilter struct {
	StudentGroupID string
	TeacherID      string
}
