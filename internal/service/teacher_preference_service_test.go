package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-timetable-api/internal/dto"
	"github.com/noah-isme/sma-timetable-api/internal/models"
	"github.com/noah-isme/sma-timetable-api/internal/scheduler"
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
)

type prefRepoMock struct {
	stored *models.TeacherPreference
	err    error
}

func (m *prefRepoMock) GetByTeacher(ctx context.Context, teacherID string) (*models.TeacherPreference, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.stored == nil {
		return nil, sql.ErrNoRows
	}
	cp := *m.stored
	return &cp, nil
}

func (m *prefRepoMock) Upsert(ctx context.Context, pref *models.TeacherPreference) error {
	if pref.ID == "" {
		pref.ID = "pref-1"
	}
	pref.UpdatedAt = time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)
	cp := *pref
	m.stored = &cp
	return nil
}

func newPreferenceService(repo *prefRepoMock) *TeacherPreferenceService {
	teachers := &teacherRepoStub{items: []models.TeacherWithSubjects{{Teacher: models.Teacher{ID: "teacher-1", FullName: "Ada"}}}}
	return NewTeacherPreferenceService(teachers, repo, nil, validator.New(), zap.NewNop())
}

func TestTeacherPreferenceServiceGetDefault(t *testing.T) {
	service := newPreferenceService(&prefRepoMock{})

	pref, err := service.Get(context.Background(), "teacher-1")
	require.NoError(t, err)
	assert.Equal(t, "teacher-1", pref.TeacherID)
	assert.Equal(t, scheduler.DefaultMaxSlotsPerDay, pref.MaxSlotsPerDay)
	assert.Equal(t, scheduler.DefaultMaxSlotsPerWeek, pref.MaxSlotsPerWeek)
	require.Len(t, pref.AvailableTimeSlots, 5)
	assert.Len(t, pref.AvailableTimeSlots["Monday"], 7)
	assert.NotContains(t, pref.AvailableTimeSlots["Monday"], "12:00 PM")
	assert.Equal(t, "available", pref.AvailableTimeSlots["Friday"]["4:00 PM"])
	assert.Nil(t, pref.UpdatedAt)
}

func TestTeacherPreferenceServiceGetUnknownTeacher(t *testing.T) {
	service := newPreferenceService(&prefRepoMock{})

	_, err := service.Get(context.Background(), "ghost")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestTeacherPreferenceServiceGetStored(t *testing.T) {
	repo := &prefRepoMock{stored: &models.TeacherPreference{
		ID:                 "pref-1",
		TeacherID:          "teacher-1",
		MaxSlotsPerDay:     4,
		MaxSlotsPerWeek:    0,
		AvailableTimeSlots: types.JSONText(`{"monday":{"9:00 AM":1,"10:00 AM":"not-available"}}`),
	}}
	service := newPreferenceService(repo)

	pref, err := service.Get(context.Background(), "teacher-1")
	require.NoError(t, err)
	assert.Equal(t, 4, pref.MaxSlotsPerDay)
	assert.Equal(t, scheduler.DefaultMaxSlotsPerWeek, pref.MaxSlotsPerWeek)
	assert.Equal(t, "preferred", pref.AvailableTimeSlots["Monday"]["9:00 AM"])
	assert.Equal(t, "not-available", pref.AvailableTimeSlots["Monday"]["10:00 AM"])
	assert.NotNil(t, pref.UpdatedAt)
}

func TestTeacherPreferenceServiceUpsert(t *testing.T) {
	repo := &prefRepoMock{}
	service := newPreferenceService(repo)

	result, err := service.Upsert(context.Background(), "teacher-1", dto.UpsertTeacherPreferenceRequest{
		AvailableTimeSlots: map[string]map[string]scheduler.Level{
			"Monday":  {"9:00 AM": scheduler.Preferred, "12:00 PM": scheduler.Available},
			"tuesday": {"1:00 PM": scheduler.Unavailable},
		},
		MaxSlotsPerDay:  4,
		MaxSlotsPerWeek: 12,
	})
	require.NoError(t, err)
	assert.Equal(t, 4, result.MaxSlotsPerDay)
	assert.Equal(t, "preferred", result.AvailableTimeSlots["Monday"]["9:00 AM"])
	assert.Equal(t, "not-available", result.AvailableTimeSlots["Tuesday"]["1:00 PM"])
	require.NotNil(t, repo.stored)

	var stored map[string]map[string]int
	require.NoError(t, json.Unmarshal(repo.stored.AvailableTimeSlots, &stored))
	assert.Equal(t, map[string]map[string]int{
		"monday":  {"9:00 AM": 1},
		"tuesday": {"1:00 PM": -1},
	}, stored)
}

func TestTeacherPreferenceServiceUpsertKeepsIdentity(t *testing.T) {
	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	repo := &prefRepoMock{stored: &models.TeacherPreference{ID: "pref-9", TeacherID: "teacher-1", CreatedAt: created}}
	service := newPreferenceService(repo)

	_, err := service.Upsert(context.Background(), "teacher-1", dto.UpsertTeacherPreferenceRequest{MaxSlotsPerDay: 2, MaxSlotsPerWeek: 2})
	require.NoError(t, err)
	assert.Equal(t, "pref-9", repo.stored.ID)
	assert.Equal(t, created, repo.stored.CreatedAt)
}

func TestTeacherPreferenceServiceUpsertValidation(t *testing.T) {
	tooMany := map[string]scheduler.Level{}
	for _, slot := range []string{"9:00 AM", "10:00 AM", "11:00 AM", "1:00 PM", "2:00 PM", "3:00 PM"} {
		tooMany[slot] = scheduler.Unavailable
	}

	tests := []struct {
		name string
		req  dto.UpsertTeacherPreferenceRequest
		code string
	}{
		{"daily cap too high", dto.UpsertTeacherPreferenceRequest{MaxSlotsPerDay: 9, MaxSlotsPerWeek: 20}, appErrors.ErrValidation.Code},
		{"daily cap missing", dto.UpsertTeacherPreferenceRequest{MaxSlotsPerWeek: 20}, appErrors.ErrValidation.Code},
		{"weekly below daily", dto.UpsertTeacherPreferenceRequest{MaxSlotsPerDay: 6, MaxSlotsPerWeek: 5}, appErrors.ErrValidation.Code},
		{"weekly too high", dto.UpsertTeacherPreferenceRequest{MaxSlotsPerDay: 6, MaxSlotsPerWeek: 41}, appErrors.ErrValidation.Code},
		{"unknown day", dto.UpsertTeacherPreferenceRequest{
			MaxSlotsPerDay: 6, MaxSlotsPerWeek: 30,
			AvailableTimeSlots: map[string]map[string]scheduler.Level{"Sunday": {"9:00 AM": scheduler.Preferred}},
		}, appErrors.ErrValidation.Code},
		{"unknown slot", dto.UpsertTeacherPreferenceRequest{
			MaxSlotsPerDay: 6, MaxSlotsPerWeek: 30,
			AvailableTimeSlots: map[string]map[string]scheduler.Level{"Monday": {"7:00 AM": scheduler.Preferred}},
		}, appErrors.ErrValidation.Code},
		{"break slot", dto.UpsertTeacherPreferenceRequest{
			MaxSlotsPerDay: 6, MaxSlotsPerWeek: 30,
			AvailableTimeSlots: map[string]map[string]scheduler.Level{"Monday": {"12:00 PM": scheduler.Preferred}},
		}, appErrors.ErrBreakSlotPreference.Code},
		{"too many unavailable", dto.UpsertTeacherPreferenceRequest{
			MaxSlotsPerDay: 6, MaxSlotsPerWeek: 30,
			AvailableTimeSlots: map[string]map[string]scheduler.Level{"Monday": tooMany},
		}, appErrors.ErrTooManyUnavailable.Code},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo := &prefRepoMock{}
			service := newPreferenceService(repo)

			_, err := service.Upsert(context.Background(), "teacher-1", tc.req)
			require.Error(t, err)
			assert.Equal(t, tc.code, appErrors.FromError(err).Code)
			assert.Nil(t, repo.stored)
		})
	}
}
