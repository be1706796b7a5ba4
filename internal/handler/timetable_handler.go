package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-timetable-api/internal/dto"
	"github.com/noah-isme/sma-timetable-api/internal/service"
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
	"github.com/noah-isme/sma-timetable-api/pkg/response"
)

type timetableGenerator interface {
	Generate(ctx context.Context) (*dto.GenerateTimetableResponse, error)
	GenerateAsync(ctx context.Context) (*dto.GenerateAsyncResponse, error)
	GetRun(ctx context.Context, id string) (*dto.TimetableRunResponse, error)
	GetTimetable(ctx context.Context, query dto.TimetableQuery) (*dto.TimetableResponse, error)
	GetTeacherSchedule(ctx context.Context, teacherID string) (*dto.TeacherScheduleResponse, error)
}

type timetableExporter interface {
	Export(ctx context.Context, query dto.TimetableExportQuery) (*service.ExportResult, error)
}

// TimetableHandler exposes generation and timetable read endpoints.
type TimetableHandler struct {
	service  timetableGenerator
	exporter timetableExporter
}

// NewTimetableHandler constructs the handler.
func NewTimetableHandler(svc timetableGenerator, exporter timetableExporter) *TimetableHandler {
	return &TimetableHandler{service: svc, exporter: exporter}
}

// Generate godoc
// @Summary Generate the weekly timetable
// @Description Allocates every student group's week and replaces the active timetable.
// @Tags Timetable
// @Produce json
// @Success 200 {object} dto.GenerateTimetableResponse
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /generate-timetable [post]
func (h *TimetableHandler) Generate(c *gin.Context) {
	result, err := h.service.Generate(c.Request.Context())
	if err != nil {
		appErr := appErrors.FromError(err)
		if appErr.Status >= http.StatusInternalServerError {
			appErr = appErrors.WithDetail(appErr)
		}
		response.Error(c, appErr)
		return
	}
	response.Raw(c, http.StatusOK, result)
}

// GenerateAsync godoc
// @Summary Queue a timetable generation
// @Tags Timetable
// @Produce json
// @Success 202 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Router /generate-timetable/async [post]
func (h *TimetableHandler) GenerateAsync(c *gin.Context) {
	result, err := h.service.GenerateAsync(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Accepted(c, result)
}

// Run godoc
// @Summary Get a generation run
// @Tags Timetable
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /timetable/runs/{id} [get]
func (h *TimetableHandler) Run(c *gin.Context) {
	run, err := h.service.GetRun(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, run)
}

// Timetable godoc
// @Summary Get the active timetable
// @Tags Timetable
// @Produce json
// @Param studentGroupId query string false "Student group ID"
// @Success 200 {object} dto.TimetableResponse
// @Failure 404 {object} response.Envelope
// @Router /timetable [get]
func (h *TimetableHandler) Timetable(c *gin.Context) {
	var query dto.TimetableQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid timetable query"))
		return
	}
	query.StudentGroupID = strings.TrimSpace(query.StudentGroupID)
	result, err := h.service.GetTimetable(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Raw(c, http.StatusOK, result)
}

// TeacherSchedule godoc
// @Summary Get a teacher's schedule in the active timetable
// @Tags Timetable
// @Produce json
// @Param id path string true "Teacher ID"
// @Success 200 {object} dto.TeacherScheduleResponse
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /timetable/teachers/{id} [get]
func (h *TimetableHandler) TeacherSchedule(c *gin.Context) {
	result, err := h.service.GetTeacherSchedule(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Raw(c, http.StatusOK, result)
}

// Export godoc
// @Summary Download the active timetable
// @Tags Timetable
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv or pdf" default(csv)
// @Param studentGroupId query string false "Student group ID"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /timetable/export [get]
func (h *TimetableHandler) Export(c *gin.Context) {
	var query dto.TimetableExportQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid export query"))
		return
	}
	result, err := h.exporter.Export(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, result.Filename, result.ContentType, result.Body)
}
