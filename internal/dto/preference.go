package dto

import (
	"time"

	"github.com/noah-isme/sma-timetable-api/internal/scheduler"
)

// UpsertTeacherPreferenceRequest is the payload of the preference form. Day
// keys are matched case-insensitively; levels are names or -1/0/1.
type UpsertTeacherPreferenceRequest struct {
	AvailableTimeSlots map[string]map[string]scheduler.Level `json:"availableTimeSlots"`
	MaxSlotsPerDay     int                                   `json:"maxSlotsPerDay" validate:"required,min=1,max=8"`
	MaxSlotsPerWeek    int                                   `json:"maxSlotsPerWeek" validate:"required,gtefield=MaxSlotsPerDay,max=40"`
}

// TeacherPreferenceResponse returns a stored or default preference. Every
// assignable cell of the grid is present.
type TeacherPreferenceResponse struct {
	TeacherID          string                       `json:"teacherId"`
	AvailableTimeSlots map[string]map[string]string `json:"availableTimeSlots"`
	MaxSlotsPerDay     int                          `json:"maxSlotsPerDay"`
	MaxSlotsPerWeek    int                          `json:"maxSlotsPerWeek"`
	UpdatedAt          *time.Time                   `json:"updatedAt,omitempty"`
}
