package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a typed domain error with HTTP awareness.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Detail  string `json:"detail,omitempty"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches typed errors by code so wrapped copies compare equal to the
// predefined values.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) || e == nil || t == nil {
		return false
	}
	return e.Code == t.Code
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// WithDetail copies err and exposes the cause text to clients.
func WithDetail(err *Error) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if clone.Err != nil {
		clone.Detail = clone.Err.Error()
	}
	return &clone
}

// Predefined errors for common scenarios.
var (
	ErrNotFound           = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrForbidden          = New("FORBIDDEN", http.StatusForbidden, "forbidden")
	ErrUnauthorized       = New("UNAUTHORIZED", http.StatusUnauthorized, "unauthorized")
	ErrConflict           = New("CONFLICT", http.StatusConflict, "conflict")
	ErrPreconditionFailed = New("PRECONDITION_FAILED", http.StatusPreconditionFailed, "precondition failed")
	ErrValidation         = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrInternal           = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")
	ErrCacheMiss          = New("CACHE_MISS", http.StatusNotFound, "cache miss")

	ErrNoTeachers          = New("NO_TEACHERS", http.StatusBadRequest, "No teachers found")
	ErrNoClassrooms        = New("NO_CLASSROOMS", http.StatusBadRequest, "No classrooms found")
	ErrEmptyTimetable      = New("EMPTY_TIMETABLE", http.StatusBadRequest, "No timetable slots were generated")
	ErrGenerationRunning   = New("GENERATION_RUNNING", http.StatusConflict, "a timetable generation is already running")
	ErrGenerationFailed    = New("GENERATION_FAILED", http.StatusInternalServerError, "Error generating timetable")
	ErrNoActiveTimetable   = New("NO_ACTIVE_TIMETABLE", http.StatusNotFound, "no timetable has been generated yet")
	ErrAsyncDisabled       = New("ASYNC_DISABLED", http.StatusPreconditionFailed, "asynchronous generation is disabled")
	ErrUnsupportedFormat   = New("UNSUPPORTED_FORMAT", http.StatusBadRequest, "unsupported export format")
	ErrTooManyUnavailable  = New("TOO_MANY_UNAVAILABLE", http.StatusBadRequest, "at most 5 time slots can be marked not available")
	ErrBreakSlotPreference = New("BREAK_SLOT_PREFERENCE", http.StatusBadRequest, "the break slot cannot carry a preference")
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}
