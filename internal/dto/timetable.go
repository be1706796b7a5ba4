package dto

import (
	"encoding/json"
	"time"
)

// ScheduleEntry is one placed lesson of a student group.
type ScheduleEntry struct {
	Day       string `json:"day"`
	TimeSlot  string `json:"timeSlot"`
	Teacher   string `json:"teacher"`
	Subject   string `json:"subject"`
	Classroom string `json:"classroom"`
}

// GroupTimetable is the weekly schedule of one student group.
type GroupTimetable struct {
	StudentGroupID string          `json:"studentGroupId"`
	StudentGroup   string          `json:"studentGroup"`
	Schedule       []ScheduleEntry `json:"schedule"`
	UnfilledCells  *int            `json:"unfilledCells,omitempty"`
}

// GenerationStats summarises a generation run.
type GenerationStats struct {
	TotalStudentGroups int    `json:"totalStudentGroups"`
	TotalSlots         int    `json:"totalSlots"`
	UnfilledCells      int    `json:"unfilledCells"`
	ContinuedSlots     int    `json:"continuedSlots"`
	CellsPerGroup      int    `json:"cellsPerGroup"`
	DurationMs         int64  `json:"durationMs"`
	CapScope           string `json:"capScope"`
	CellOrder          string `json:"cellOrder"`
}

// GenerateTimetableResponse is returned by a synchronous generation.
type GenerateTimetableResponse struct {
	Message     string           `json:"message"`
	TimetableID string           `json:"timetableId"`
	Timetable   []GroupTimetable `json:"timetable"`
	Stats       GenerationStats  `json:"stats"`
}

// GenerateAsyncResponse acknowledges a queued generation.
type GenerateAsyncResponse struct {
	RunID  string `json:"runId"`
	Status string `json:"status"`
}

// TimetableQuery filters the active timetable.
type TimetableQuery struct {
	StudentGroupID string `form:"studentGroupId" json:"studentGroupId"`
}

// TimetableExportQuery selects the export format.
type TimetableExportQuery struct {
	Format         string `form:"format" json:"format"`
	StudentGroupID string `form:"studentGroupId" json:"studentGroupId"`
}

// TimetableResponse is the persisted active timetable.
type TimetableResponse struct {
	TimetableID  string           `json:"timetableId"`
	AcademicYear int              `json:"academicYear"`
	Semester     int              `json:"semester"`
	GeneratedAt  time.Time        `json:"generatedAt"`
	Timetable    []GroupTimetable `json:"timetable"`
}

// TeacherScheduleEntry is one lesson from a teacher's point of view.
type TeacherScheduleEntry struct {
	Day          string `json:"day"`
	TimeSlot     string `json:"timeSlot"`
	Subject      string `json:"subject"`
	StudentGroup string `json:"studentGroup"`
	Room         string `json:"room"`
}

// TeacherScheduleResponse lists a teacher's lessons in the active run.
type TeacherScheduleResponse struct {
	TimetableID string                 `json:"timetableId"`
	TeacherID   string                 `json:"teacherId"`
	Teacher     string                 `json:"teacher"`
	Schedule    []TeacherScheduleEntry `json:"schedule"`
}

// TimetableRunResponse reports the state of a generation run.
type TimetableRunResponse struct {
	RunID        string          `json:"runId"`
	Status       string          `json:"status"`
	AcademicYear int             `json:"academicYear"`
	Semester     int             `json:"semester"`
	Stats        json.RawMessage `json:"stats,omitempty"`
	ErrorMessage string          `json:"errorMessage,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
	FinishedAt   *time.Time      `json:"finishedAt,omitempty"`
}
