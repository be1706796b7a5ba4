package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-timetable-api/internal/dto"
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
	"github.com/noah-isme/sma-timetable-api/pkg/response"
)

type teacherPreferenceService interface {
	Get(ctx context.Context, teacherID string) (*dto.TeacherPreferenceResponse, error)
	Upsert(ctx context.Context, teacherID string, req dto.UpsertTeacherPreferenceRequest) (*dto.TeacherPreferenceResponse, error)
}

// PreferenceHandler exposes teacher availability preferences.
type PreferenceHandler struct {
	service teacherPreferenceService
}

// NewPreferenceHandler constructs the handler.
func NewPreferenceHandler(service teacherPreferenceService) *PreferenceHandler {
	return &PreferenceHandler{service: service}
}

// Get godoc
// @Summary Get teacher preferences
// @Description Teachers read their own preferences; managers may pass teacher_id.
// @Tags Preferences
// @Produce json
// @Param teacher_id query string false "Teacher ID (managers only)"
// @Success 200 {object} response.Envelope
// @Router /preferences [get]
func (h *PreferenceHandler) Get(c *gin.Context) {
	teacherID := resolveTeacherID(c)
	if teacherID == "" {
		return
	}
	pref, err := h.service.Get(c.Request.Context(), teacherID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, pref)
}

// Upsert godoc
// @Summary Save teacher preferences
// @Tags Preferences
// @Accept json
// @Produce json
// @Param teacher_id query string false "Teacher ID (managers only)"
// @Param payload body dto.UpsertTeacherPreferenceRequest true "Preference payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /preferences [post]
func (h *PreferenceHandler) Upsert(c *gin.Context) {
	teacherID := resolveTeacherID(c)
	if teacherID == "" {
		return
	}
	var req dto.UpsertTeacherPreferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid preference payload"))
		return
	}
	pref, err := h.service.Upsert(c.Request.Context(), teacherID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, pref)
}
