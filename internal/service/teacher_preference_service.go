package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx/types"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-timetable-api/internal/dto"
	"github.com/noah-isme/sma-timetable-api/internal/models"
	"github.com/noah-isme/sma-timetable-api/internal/scheduler"
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
)

// MaxUnavailableCells bounds how many cells a teacher may block per week.
const MaxUnavailableCells = 5

type teacherReader interface {
	FindByID(ctx context.Context, id string) (*models.Teacher, error)
}

type teacherPreferenceRepo interface {
	GetByTeacher(ctx context.Context, teacherID string) (*models.TeacherPreference, error)
	Upsert(ctx context.Context, pref *models.TeacherPreference) error
}

// TeacherPreferenceService handles preference logic.
type TeacherPreferenceService struct {
	teachers  teacherReader
	repo      teacherPreferenceRepo
	grid      *scheduler.Grid
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTeacherPreferenceService builds the service.
func NewTeacherPreferenceService(teachers teacherReader, repo teacherPreferenceRepo, grid *scheduler.Grid, validate *validator.Validate, logger *zap.Logger) *TeacherPreferenceService {
	if grid == nil {
		grid = scheduler.DefaultGrid()
	}
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TeacherPreferenceService{
		teachers:  teachers,
		repo:      repo,
		grid:      grid,
		validator: validate,
		logger:    logger,
	}
}

// Get returns stored preferences or defaults.
func (s *TeacherPreferenceService) Get(ctx context.Context, teacherID string) (*dto.TeacherPreferenceResponse, error) {
	if err := s.ensureTeacher(ctx, teacherID); err != nil {
		return nil, err
	}

	pref, err := s.repo.GetByTeacher(ctx, teacherID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return s.present(teacherID, scheduler.ResolvePreference(nil), nil), nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher preferences")
	}

	resolved, err := preferenceFromModel(s.grid, pref)
	if err != nil {
		s.logger.Warn("stored preference is malformed", zap.String("teacher_id", teacherID), zap.Error(err))
		resolved = scheduler.ResolvePreference(&scheduler.Preference{MaxSlotsPerDay: pref.MaxSlotsPerDay, MaxSlotsPerWeek: pref.MaxSlotsPerWeek})
	}
	updated := pref.UpdatedAt
	return s.present(teacherID, resolved, &updated), nil
}

// Upsert stores preferences for a teacher.
func (s *TeacherPreferenceService) Upsert(ctx context.Context, teacherID string, req dto.UpsertTeacherPreferenceRequest) (*dto.TeacherPreferenceResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid preference payload")
	}
	levels, err := s.normalizeLevels(req.AvailableTimeSlots)
	if err != nil {
		return nil, err
	}
	if err := s.ensureTeacher(ctx, teacherID); err != nil {
		return nil, err
	}

	raw, err := json.Marshal(levels)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid availability payload")
	}

	payload := &models.TeacherPreference{
		TeacherID:          teacherID,
		MaxSlotsPerDay:     req.MaxSlotsPerDay,
		MaxSlotsPerWeek:    req.MaxSlotsPerWeek,
		AvailableTimeSlots: types.JSONText(raw),
	}

	existing, err := s.repo.GetByTeacher(ctx, teacherID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher preferences")
	}
	if existing != nil {
		payload.ID = existing.ID
		payload.CreatedAt = existing.CreatedAt
	}

	if err := s.repo.Upsert(ctx, payload); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to upsert teacher preferences")
	}
	s.logger.Info("teacher preference saved",
		zap.String("teacher_id", teacherID),
		zap.Int("max_slots_per_day", req.MaxSlotsPerDay),
		zap.Int("max_slots_per_week", req.MaxSlotsPerWeek),
	)

	resolved := scheduler.PreferenceFromLevels(s.grid, levels, req.MaxSlotsPerDay, req.MaxSlotsPerWeek)
	updated := payload.UpdatedAt
	return s.present(teacherID, resolved, &updated), nil
}

func (s *TeacherPreferenceService) ensureTeacher(ctx context.Context, teacherID string) error {
	if teacherID == "" {
		return appErrors.Clone(appErrors.ErrValidation, "teacher id is required")
	}
	if _, err := s.teachers.FindByID(ctx, teacherID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
	}
	return nil
}

// normalizeLevels checks the submitted grid and keys it by lower-case day.
// Available entries on the break slot are accepted and dropped.
func (s *TeacherPreferenceService) normalizeLevels(in map[string]map[string]scheduler.Level) (map[string]map[string]scheduler.Level, error) {
	out := make(map[string]map[string]scheduler.Level, len(in))
	unavailable := 0
	for rawDay, slots := range in {
		day, ok := s.grid.ParseDay(rawDay)
		if !ok {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown day %q", rawDay))
		}
		key := strings.ToLower(string(day))
		for slot, level := range slots {
			if _, ok := s.grid.Cell(day, slot); !ok {
				return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown time slot %q", slot))
			}
			if s.grid.IsBreak(slot) {
				if level != scheduler.Available {
					return nil, appErrors.ErrBreakSlotPreference
				}
				continue
			}
			if level == scheduler.Unavailable {
				unavailable++
			}
			if out[key] == nil {
				out[key] = make(map[string]scheduler.Level)
			}
			out[key][slot] = level
		}
	}
	if unavailable > MaxUnavailableCells {
		return nil, appErrors.ErrTooManyUnavailable
	}
	return out, nil
}

func (s *TeacherPreferenceService) present(teacherID string, pref scheduler.Preference, updated *time.Time) *dto.TeacherPreferenceResponse {
	grid := make(map[string]map[string]string, len(s.grid.Days()))
	for _, day := range s.grid.Days() {
		slots := make(map[string]string, len(s.grid.Slots()))
		for _, slot := range s.grid.Slots() {
			if s.grid.IsBreak(slot) {
				continue
			}
			slots[slot] = pref.LevelAt(day, slot).String()
		}
		grid[string(day)] = slots
	}
	return &dto.TeacherPreferenceResponse{
		TeacherID:          teacherID,
		AvailableTimeSlots: grid,
		MaxSlotsPerDay:     pref.MaxSlotsPerDay,
		MaxSlotsPerWeek:    pref.MaxSlotsPerWeek,
		UpdatedAt:          updated,
	}
}

// decodeLevels parses a stored available_time_slots document.
func decodeLevels(raw types.JSONText) (map[string]map[string]scheduler.Level, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var levels map[string]map[string]scheduler.Level
	if err := json.Unmarshal(raw, &levels); err != nil {
		return nil, fmt.Errorf("decode available time slots: %w", err)
	}
	return levels, nil
}

// preferenceFromModel resolves a stored record against grid. Zero caps fall
// back to the defaults.
func preferenceFromModel(grid *scheduler.Grid, pref *models.TeacherPreference) (scheduler.Preference, error) {
	if pref == nil {
		return scheduler.ResolvePreference(nil), nil
	}
	levels, err := decodeLevels(pref.AvailableTimeSlots)
	if err != nil {
		return scheduler.Preference{}, err
	}
	resolved := scheduler.PreferenceFromLevels(grid, levels, pref.MaxSlotsPerDay, pref.MaxSlotsPerWeek)
	return scheduler.ResolvePreference(&resolved), nil
}
