package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-timetable-api/internal/dto"
	"github.com/noah-isme/sma-timetable-api/internal/service"
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
	"github.com/noah-isme/sma-timetable-api/pkg/response"
)

type timetableServiceMock struct {
	generateErr error
	asyncErr    error
	query       dto.TimetableQuery
	teacherID   string
	runID       string
}

func (m *timetableServiceMock) Generate(ctx context.Context) (*dto.GenerateTimetableResponse, error) {
	if m.generateErr != nil {
		return nil, m.generateErr
	}
	return &dto.GenerateTimetableResponse{
		Message:     "Timetable generated successfully",
		TimetableID: "run-1",
		Timetable: []dto.GroupTimetable{{
			StudentGroupID: "g1",
			StudentGroup:   "X IPA 1",
			Schedule:       []dto.ScheduleEntry{{Day: "Monday", TimeSlot: "10:00 AM", Teacher: "Ada", Subject: "Mathematics", Classroom: "Room A"}},
		}},
	}, nil
}

func (m *timetableServiceMock) GenerateAsync(ctx context.Context) (*dto.GenerateAsyncResponse, error) {
	if m.asyncErr != nil {
		return nil, m.asyncErr
	}
	return &dto.GenerateAsyncResponse{RunID: "run-2", Status: "QUEUED"}, nil
}

func (m *timetableServiceMock) GetRun(ctx context.Context, id string) (*dto.TimetableRunResponse, error) {
	m.runID = id
	if id != "run-2" {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "timetable run not found")
	}
	return &dto.TimetableRunResponse{RunID: id, Status: "ACTIVE"}, nil
}

func (m *timetableServiceMock) GetTimetable(ctx context.Context, query dto.TimetableQuery) (*dto.TimetableResponse, error) {
	m.query = query
	return &dto.TimetableResponse{TimetableID: "run-1", AcademicYear: 2026, Semester: 1}, nil
}

func (m *timetableServiceMock) GetTeacherSchedule(ctx context.Context, teacherID string) (*dto.TeacherScheduleResponse, error) {
	m.teacherID = teacherID
	return &dto.TeacherScheduleResponse{TimetableID: "run-1", TeacherID: teacherID, Teacher: "Ada"}, nil
}

type exporterMock struct {
	query dto.TimetableExportQuery
	err   error
}

func (m *exporterMock) Export(ctx context.Context, query dto.TimetableExportQuery) (*service.ExportResult, error) {
	m.query = query
	if m.err != nil {
		return nil, m.err
	}
	return &service.ExportResult{Filename: "timetable_2026_s1.csv", ContentType: "text/csv; charset=utf-8", Body: []byte("a,b\n")}, nil
}

func newTestContext(method, target string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, target, nil)
	return c, w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) response.Envelope {
	t.Helper()
	var env response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestTimetableHandlerGenerate(t *testing.T) {
	handler := NewTimetableHandler(&timetableServiceMock{}, &exporterMock{})
	c, w := newTestContext(http.MethodPost, "/generate-timetable")

	handler.Generate(c)

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Timetable generated successfully", body["message"])
	assert.Equal(t, "run-1", body["timetableId"])
	require.Len(t, body["timetable"], 1)
	group := body["timetable"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "X IPA 1", group["studentGroup"])
}

func TestTimetableHandlerGenerateErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		status     int
		code       string
		wantDetail bool
	}{
		{"no teachers", appErrors.ErrNoTeachers, http.StatusBadRequest, appErrors.ErrNoTeachers.Code, false},
		{"already running", appErrors.ErrGenerationRunning, http.StatusConflict, appErrors.ErrGenerationRunning.Code, false},
		{"run failure", appErrors.Wrap(errors.New("connection reset"), appErrors.ErrGenerationFailed.Code, appErrors.ErrGenerationFailed.Status, appErrors.ErrGenerationFailed.Message), http.StatusInternalServerError, appErrors.ErrGenerationFailed.Code, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			handler := NewTimetableHandler(&timetableServiceMock{generateErr: tc.err}, &exporterMock{})
			c, w := newTestContext(http.MethodPost, "/generate-timetable")

			handler.Generate(c)

			require.Equal(t, tc.status, w.Code)
			env := decodeEnvelope(t, w)
			require.NotNil(t, env.Error)
			assert.Equal(t, tc.code, env.Error.Code)
			if tc.wantDetail {
				assert.Equal(t, "connection reset", env.Error.Detail)
			} else {
				assert.Empty(t, env.Error.Detail)
			}
		})
	}
}

func TestTimetableHandlerGenerateAsync(t *testing.T) {
	handler := NewTimetableHandler(&timetableServiceMock{}, &exporterMock{})
	c, w := newTestContext(http.MethodPost, "/generate-timetable/async")
	handler.GenerateAsync(c)
	require.Equal(t, http.StatusAccepted, w.Code)
	assert.Contains(t, w.Body.String(), `"runId":"run-2"`)

	handler = NewTimetableHandler(&timetableServiceMock{asyncErr: appErrors.ErrAsyncDisabled}, &exporterMock{})
	c, w = newTestContext(http.MethodPost, "/generate-timetable/async")
	handler.GenerateAsync(c)
	assert.Equal(t, http.StatusPreconditionFailed, w.Code)
}

func TestTimetableHandlerTimetableQuery(t *testing.T) {
	svc := &timetableServiceMock{}
	handler := NewTimetableHandler(svc, &exporterMock{})
	c, w := newTestContext(http.MethodGet, "/timetable?studentGroupId=%20g1%20")

	handler.Timetable(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "g1", svc.query.StudentGroupID)
	assert.Contains(t, w.Body.String(), `"academicYear":2026`)
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
}

func TestTimetableHandlerRun(t *testing.T) {
	svc := &timetableServiceMock{}
	handler := NewTimetableHandler(svc, &exporterMock{})

	c, w := newTestContext(http.MethodGet, "/timetable/runs/run-2")
	c.Params = gin.Params{{Key: "id", Value: "run-2"}}
	handler.Run(c)
	require.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w)
	assert.NotNil(t, env.Data)

	c, w = newTestContext(http.MethodGet, "/timetable/runs/missing")
	c.Params = gin.Params{{Key: "id", Value: "missing"}}
	handler.Run(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTimetableHandlerExport(t *testing.T) {
	exporter := &exporterMock{}
	handler := NewTimetableHandler(&timetableServiceMock{}, exporter)
	c, w := newTestContext(http.MethodGet, "/timetable/export?format=csv&studentGroupId=g1")

	handler.Export(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "csv", exporter.query.Format)
	assert.Equal(t, "g1", exporter.query.StudentGroupID)
	assert.Equal(t, `attachment; filename="timetable_2026_s1.csv"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "a,b\n", w.Body.String())

	exporter.err = appErrors.ErrUnsupportedFormat
	c, w = newTestContext(http.MethodGet, "/timetable/export?format=xlsx")
	handler.Export(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
