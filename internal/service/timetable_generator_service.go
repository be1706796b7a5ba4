package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-timetable-api/internal/dto"
	"github.com/noah-isme/sma-timetable-api/internal/models"
	"github.com/noah-isme/sma-timetable-api/internal/scheduler"
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
	"github.com/noah-isme/sma-timetable-api/pkg/jobs"
)

// TimetableJobType identifies queued generation jobs.
const TimetableJobType = "timetable.generate"

type generatorTeacherRepository interface {
	FindByID(ctx context.Context, id string) (*models.Teacher, error)
	ListActiveWithSubjects(ctx context.Context) ([]models.TeacherWithSubjects, error)
}

type generatorPreferenceRepository interface {
	ListByTeachers(ctx context.Context, teacherIDs []string) (map[string]models.TeacherPreference, error)
}

type generatorClassroomRepository interface {
	ListActive(ctx context.Context) ([]models.Classroom, error)
	ReplaceOccupancy(ctx context.Context, exec sqlx.ExtContext, bookings []models.ClassroomOccupancy) error
}

type generatorGroupRepository interface {
	ListActive(ctx context.Context) ([]models.StudentGroup, error)
	ResetTimetables(ctx context.Context, exec sqlx.ExtContext) error
	SetTimetable(ctx context.Context, exec sqlx.ExtContext, groupID string, slotIDs []string) error
}

type timetableRunRepository interface {
	Create(ctx context.Context, exec sqlx.ExtContext, run *models.TimetableRun) error
	UpdateStatus(ctx context.Context, exec sqlx.ExtContext, run *models.TimetableRun) error
	FindByID(ctx context.Context, id string) (*models.TimetableRun, error)
	FindActive(ctx context.Context) (*models.TimetableRun, error)
	DeleteActiveExcept(ctx context.Context, exec sqlx.ExtContext, keepID string) error
}

type timetableSlotRepository interface {
	DeleteAll(ctx context.Context, exec sqlx.ExtContext) error
	InsertBatch(ctx context.Context, exec sqlx.ExtContext, slots []models.TimetableSlot) error
	ListDetailed(ctx context.Context, runID string, filter models.TimetableSlotFilter) ([]models.TimetableSlotDetail, error)
}

type txProvider interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

type jobEnqueuer interface {
	Enqueue(job jobs.Job) error
}

// TimetableGeneratorRepositories groups the persistence dependencies.
type TimetableGeneratorRepositories struct {
	Teachers    generatorTeacherRepository
	Preferences generatorPreferenceRepository
	Classrooms  generatorClassroomRepository
	Groups      generatorGroupRepository
	Runs        timetableRunRepository
	Slots       timetableSlotRepository
	Tx          txProvider
}

// TimetableGeneratorConfig governs generator behaviour.
type TimetableGeneratorConfig struct {
	Engine       scheduler.Options
	Semester     int
	AsyncEnabled bool
	Now          func() time.Time
}

// TimetableGeneratorService loads the allocation snapshot, runs the engine and
// replaces the active timetable.
type TimetableGeneratorService struct {
	teachers   generatorTeacherRepository
	prefs      generatorPreferenceRepository
	classrooms generatorClassroomRepository
	groups     generatorGroupRepository
	runs       timetableRunRepository
	slots      timetableSlotRepository
	tx         txProvider
	cache      *CacheService
	metrics    *MetricsService
	queue      jobEnqueuer
	engine     *scheduler.Engine
	cfg        TimetableGeneratorConfig
	logger     *zap.Logger

	// mu serializes generation; at most one run computes or commits at a time.
	mu sync.Mutex
}

// NewTimetableGeneratorService wires generator dependencies.
func NewTimetableGeneratorService(repos TimetableGeneratorRepositories, cache *CacheService, metrics *MetricsService, logger *zap.Logger, cfg TimetableGeneratorConfig) *TimetableGeneratorService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Semester <= 0 {
		cfg.Semester = 1
	}
	if cfg.Now == nil {
		cfg.Now = func() time.Time { return time.Now().UTC() }
	}
	if cfg.Engine.Logger == nil {
		cfg.Engine.Logger = logger.Named("scheduler")
	}
	return &TimetableGeneratorService{
		teachers:   repos.Teachers,
		prefs:      repos.Preferences,
		classrooms: repos.Classrooms,
		groups:     repos.Groups,
		runs:       repos.Runs,
		slots:      repos.Slots,
		tx:         repos.Tx,
		cache:      cache,
		metrics:    metrics,
		engine:     scheduler.NewEngine(cfg.Engine),
		cfg:        cfg,
		logger:     logger,
	}
}

// SetQueue attaches the background queue used by GenerateAsync.
func (s *TimetableGeneratorService) SetQueue(queue jobEnqueuer) {
	s.queue = queue
}

// Grid returns the grid the generator allocates over.
func (s *TimetableGeneratorService) Grid() *scheduler.Grid {
	return s.engine.Grid()
}

// Generate runs a full generation and replaces the active timetable. It fails
// with ErrGenerationRunning while another generation holds the lock.
func (s *TimetableGeneratorService) Generate(ctx context.Context) (*dto.GenerateTimetableResponse, error) {
	if !s.mu.TryLock() {
		return nil, appErrors.ErrGenerationRunning
	}
	defer s.mu.Unlock()

	run := s.newRun(models.TimetableRunRunning)
	if err := s.runs.Create(ctx, nil, run); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create timetable run")
	}
	return s.execute(ctx, run)
}

// GenerateAsync records a queued run and hands it to the background queue.
func (s *TimetableGeneratorService) GenerateAsync(ctx context.Context) (*dto.GenerateAsyncResponse, error) {
	if !s.cfg.AsyncEnabled || s.queue == nil {
		return nil, appErrors.ErrAsyncDisabled
	}
	run := s.newRun(models.TimetableRunQueued)
	if err := s.runs.Create(ctx, nil, run); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create timetable run")
	}
	job := jobs.Job{ID: run.ID, Type: TimetableJobType, Payload: run.ID}
	if err := s.queue.Enqueue(job); err != nil {
		s.markFailed(ctx, run, err)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enqueue timetable generation")
	}
	s.logger.Info("timetable generation queued", zap.String("run_id", run.ID))
	return &dto.GenerateAsyncResponse{RunID: run.ID, Status: string(run.Status)}, nil
}

// ProcessJob executes a queued generation. Jobs wait for the lock instead of
// failing so queued runs complete in order.
func (s *TimetableGeneratorService) ProcessJob(ctx context.Context, job jobs.Job) error {
	runID, ok := job.Payload.(string)
	if !ok || runID == "" {
		return fmt.Errorf("timetable job %s has no run id", job.ID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	run, err := s.runs.FindByID(ctx, runID)
	if err != nil {
		return fmt.Errorf("load timetable run %s: %w", runID, err)
	}
	run.Status = models.TimetableRunRunning
	run.ErrorMessage = nil
	run.FinishedAt = nil
	if err := s.runs.UpdateStatus(ctx, nil, run); err != nil {
		return fmt.Errorf("mark timetable run %s running: %w", runID, err)
	}
	_, err = s.execute(ctx, run)
	return err
}

// HandleJobFailure marks a run FAILED once its job has exhausted retries.
func (s *TimetableGeneratorService) HandleJobFailure(ctx context.Context, job jobs.Job, cause error) {
	runID, _ := job.Payload.(string)
	s.logger.Error("timetable job failed", zap.String("run_id", runID), zap.Int("attempt", job.Attempt), zap.Error(cause))
	if runID == "" {
		return
	}
	run, err := s.runs.FindByID(ctx, runID)
	if err != nil {
		s.logger.Warn("failed to load run for failure hook", zap.String("run_id", runID), zap.Error(err))
		return
	}
	if run.Status == models.TimetableRunFailed {
		return
	}
	s.markFailed(ctx, run, cause)
}

// GetRun reports the status of a generation run.
func (s *TimetableGeneratorService) GetRun(ctx context.Context, id string) (*dto.TimetableRunResponse, error) {
	run, err := s.runs.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "timetable run not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timetable run")
	}
	resp := &dto.TimetableRunResponse{
		RunID:        run.ID,
		Status:       string(run.Status),
		AcademicYear: run.AcademicYear,
		Semester:     run.Semester,
		CreatedAt:    run.CreatedAt,
		FinishedAt:   run.FinishedAt,
	}
	if len(run.Stats) > 0 {
		resp.Stats = json.RawMessage(run.Stats)
	}
	if run.ErrorMessage != nil {
		resp.ErrorMessage = *run.ErrorMessage
	}
	return resp, nil
}

// GetTimetable returns the active timetable, optionally for one group.
func (s *TimetableGeneratorService) GetTimetable(ctx context.Context, query dto.TimetableQuery) (*dto.TimetableResponse, error) {
	return Remember(ctx, s.cache, activeTimetableCacheKey(query.StudentGroupID), func(ctx context.Context) (*dto.TimetableResponse, error) {
		run, err := s.activeRun(ctx)
		if err != nil {
			return nil, err
		}
		slots, err := s.slots.ListDetailed(ctx, run.ID, models.TimetableSlotFilter{StudentGroupID: query.StudentGroupID})
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timetable slots")
		}
		return &dto.TimetableResponse{
			TimetableID:  run.ID,
			AcademicYear: run.AcademicYear,
			Semester:     run.Semester,
			GeneratedAt:  run.CreatedAt,
			Timetable:    s.groupSlots(slots),
		}, nil
	})
}

// GetTeacherSchedule returns a teacher's lessons in the active timetable.
func (s *TimetableGeneratorService) GetTeacherSchedule(ctx context.Context, teacherID string) (*dto.TeacherScheduleResponse, error) {
	teacher, err := s.teachers.FindByID(ctx, teacherID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
	}
	return Remember(ctx, s.cache, teacherScheduleCacheKey(teacherID), func(ctx context.Context) (*dto.TeacherScheduleResponse, error) {
		run, err := s.activeRun(ctx)
		if err != nil {
			return nil, err
		}
		slots, err := s.slots.ListDetailed(ctx, run.ID, models.TimetableSlotFilter{TeacherID: teacherID})
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timetable slots")
		}
		s.sortDetails(slots)
		entries := make([]dto.TeacherScheduleEntry, 0, len(slots))
		for _, slot := range slots {
			entries = append(entries, dto.TeacherScheduleEntry{
				Day:          slot.DayName,
				TimeSlot:     slot.TimeSlotName,
				Subject:      slot.SubjectName,
				StudentGroup: slot.StudentGroupName,
				Room:         slot.ClassroomName,
			})
		}
		return &dto.TeacherScheduleResponse{
			TimetableID: run.ID,
			TeacherID:   teacher.ID,
			Teacher:     teacher.FullName,
			Schedule:    entries,
		}, nil
	})
}

func (s *TimetableGeneratorService) activeRun(ctx context.Context) (*models.TimetableRun, error) {
	run, err := s.runs.FindActive(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNoActiveTimetable
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load active timetable")
	}
	return run, nil
}

func (s *TimetableGeneratorService) newRun(status models.TimetableRunStatus) *models.TimetableRun {
	now := s.cfg.Now()
	return &models.TimetableRun{
		ID:           uuid.NewString(),
		AcademicYear: now.Year(),
		Semester:     s.cfg.Semester,
		Status:       status,
		Stats:        types.JSONText(`{}`),
		CreatedAt:    now,
	}
}

// execute computes the allocation in memory and commits it in one
// transaction. The caller must hold mu.
func (s *TimetableGeneratorService) execute(ctx context.Context, run *models.TimetableRun) (*dto.GenerateTimetableResponse, error) {
	started := time.Now()
	logger := s.logger.With(zap.String("run_id", run.ID))
	logger.Info("timetable generation started",
		zap.String("cap_scope", string(s.engine.CapScope())),
		zap.String("cell_order", string(s.engine.CellOrder())),
	)

	resp, result, err := s.generate(ctx, run)
	if err != nil {
		s.markFailed(ctx, run, err)
		s.metrics.ObserveGeneration(models.TimetableRunFailed, time.Since(started), 0, 0)
		logger.Error("timetable generation failed", zap.Error(err))
		return nil, err
	}

	if err := s.cache.Invalidate(ctx, timetableCachePattern); err != nil {
		logger.Warn("timetable cache not invalidated", zap.Error(err))
	}
	s.metrics.ObserveGeneration(models.TimetableRunActive, time.Since(started), result.Assigned, result.Unfilled)
	logger.Info("timetable generation finished",
		zap.Int("student_groups", len(result.Groups)),
		zap.Int("assigned", result.Assigned),
		zap.Int("unfilled", result.Unfilled),
		zap.Duration("duration", time.Since(started)),
	)
	return resp, nil
}

func (s *TimetableGeneratorService) generate(ctx context.Context, run *models.TimetableRun) (*dto.GenerateTimetableResponse, *scheduler.Result, error) {
	input, names, err := s.loadInput(ctx)
	if err != nil {
		return nil, nil, err
	}

	result, err := s.engine.Generate(ctx, input)
	if err != nil {
		switch {
		case errors.Is(err, scheduler.ErrNoTeachers):
			return nil, nil, appErrors.ErrNoTeachers
		case errors.Is(err, scheduler.ErrNoClassrooms):
			return nil, nil, appErrors.ErrNoClassrooms
		}
		return nil, nil, appErrors.Wrap(err, appErrors.ErrGenerationFailed.Code, appErrors.ErrGenerationFailed.Status, appErrors.ErrGenerationFailed.Message)
	}
	if result.Assigned == 0 {
		return nil, nil, appErrors.ErrEmptyTimetable
	}

	stats := s.stats(result)
	rawStats, err := json.Marshal(stats)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrGenerationFailed.Code, appErrors.ErrGenerationFailed.Status, appErrors.ErrGenerationFailed.Message)
	}
	if err := s.persist(ctx, run, result, types.JSONText(rawStats)); err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrGenerationFailed.Code, appErrors.ErrGenerationFailed.Status, appErrors.ErrGenerationFailed.Message)
	}

	timetable := make([]dto.GroupTimetable, 0, len(result.Groups))
	for _, gs := range result.Groups {
		entries := make([]dto.ScheduleEntry, 0, len(gs.Assignments))
		for _, a := range gs.Assignments {
			entries = append(entries, dto.ScheduleEntry{
				Day:       string(a.Cell.Day),
				TimeSlot:  a.Cell.Slot,
				Teacher:   names.teacher(a.TeacherID),
				Subject:   names.subject(a.SubjectID),
				Classroom: names.classroom(a.ClassroomID),
			})
		}
		unfilled := gs.Unfilled
		timetable = append(timetable, dto.GroupTimetable{
			StudentGroupID: gs.Group.ID,
			StudentGroup:   gs.Group.Name,
			Schedule:       entries,
			UnfilledCells:  &unfilled,
		})
	}

	return &dto.GenerateTimetableResponse{
		Message:     "Timetable generated successfully",
		TimetableID: run.ID,
		Timetable:   timetable,
		Stats:       stats,
	}, result, nil
}

func (s *TimetableGeneratorService) stats(result *scheduler.Result) dto.GenerationStats {
	return dto.GenerationStats{
		TotalStudentGroups: len(result.Groups),
		TotalSlots:         result.Assigned,
		UnfilledCells:      result.Unfilled,
		ContinuedSlots:     result.Continued,
		CellsPerGroup:      result.CellsPerGroup,
		DurationMs:         result.Duration.Milliseconds(),
		CapScope:           string(s.engine.CapScope()),
		CellOrder:          string(s.engine.CellOrder()),
	}
}

// persist replaces the active timetable. Nothing is visible to readers until
// commit; any failure rolls back and leaves the previous timetable in place.
func (s *TimetableGeneratorService) persist(ctx context.Context, run *models.TimetableRun, result *scheduler.Result, stats types.JSONText) (err error) {
	if s.tx == nil {
		return errors.New("transaction provider missing")
	}
	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = s.slots.DeleteAll(ctx, tx); err != nil {
		return err
	}

	finished := s.cfg.Now()
	run.Status = models.TimetableRunActive
	run.Stats = stats
	run.ErrorMessage = nil
	run.FinishedAt = &finished
	if err = s.runs.UpdateStatus(ctx, tx, run); err != nil {
		return err
	}

	slots := make([]models.TimetableSlot, 0, result.Assigned)
	bookings := make([]models.ClassroomOccupancy, 0, result.Assigned)
	groupSlots := make(map[string][]string, len(result.Groups))
	for _, gs := range result.Groups {
		ids := make([]string, 0, len(gs.Assignments))
		for _, a := range gs.Assignments {
			id := uuid.NewString()
			ids = append(ids, id)
			slots = append(slots, models.TimetableSlot{
				ID:             id,
				TimetableRunID: run.ID,
				DayName:        string(a.Cell.Day),
				TimeSlotName:   a.Cell.Slot,
				TeacherID:      a.TeacherID,
				SubjectID:      a.SubjectID,
				StudentGroupID: a.GroupID,
				ClassroomID:    a.ClassroomID,
				CreatedAt:      finished,
			})
			bookings = append(bookings, models.ClassroomOccupancy{
				ClassroomID:  a.ClassroomID,
				RunID:        run.ID,
				DayName:      string(a.Cell.Day),
				TimeSlotName: a.Cell.Slot,
			})
		}
		groupSlots[gs.Group.ID] = ids
	}

	if err = s.slots.InsertBatch(ctx, tx, slots); err != nil {
		return err
	}
	if err = s.classrooms.ReplaceOccupancy(ctx, tx, bookings); err != nil {
		return err
	}
	if err = s.groups.ResetTimetables(ctx, tx); err != nil {
		return err
	}
	for _, gs := range result.Groups {
		if err = s.groups.SetTimetable(ctx, tx, gs.Group.ID, groupSlots[gs.Group.ID]); err != nil {
			return err
		}
	}
	if err = s.runs.DeleteActiveExcept(ctx, tx, run.ID); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit timetable: %w", err)
	}
	return nil
}

// markFailed records cause on the run. It runs detached from ctx so a
// cancelled request still leaves an accurate record.
func (s *TimetableGeneratorService) markFailed(ctx context.Context, run *models.TimetableRun, cause error) {
	finished := s.cfg.Now()
	msg := cause.Error()
	run.Status = models.TimetableRunFailed
	run.ErrorMessage = &msg
	run.FinishedAt = &finished
	if err := s.runs.UpdateStatus(context.WithoutCancel(ctx), nil, run); err != nil {
		s.logger.Warn("failed to mark timetable run failed", zap.String("run_id", run.ID), zap.Error(err))
	}
}

type nameIndex struct {
	teachers   map[string]string
	subjects   map[string]string
	classrooms map[string]string
}

func (n nameIndex) teacher(id string) string   { return lookupName(n.teachers, id) }
func (n nameIndex) subject(id string) string   { return lookupName(n.subjects, id) }
func (n nameIndex) classroom(id string) string { return lookupName(n.classrooms, id) }

func lookupName(names map[string]string, id string) string {
	if name, ok := names[id]; ok && name != "" {
		return name
	}
	return id
}

// loadInput reads the allocation snapshot. Repository order is kept as is:
// teachers by creation, classrooms by id, groups by name.
func (s *TimetableGeneratorService) loadInput(ctx context.Context) (scheduler.Input, nameIndex, error) {
	names := nameIndex{
		teachers:   map[string]string{},
		subjects:   map[string]string{},
		classrooms: map[string]string{},
	}
	grid := s.engine.Grid()

	teachers, err := s.teachers.ListActiveWithSubjects(ctx)
	if err != nil {
		return scheduler.Input{}, names, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teachers")
	}
	ids := make([]string, 0, len(teachers))
	for _, t := range teachers {
		ids = append(ids, t.ID)
	}
	prefs, err := s.prefs.ListByTeachers(ctx, ids)
	if err != nil {
		return scheduler.Input{}, names, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher preferences")
	}
	classrooms, err := s.classrooms.ListActive(ctx)
	if err != nil {
		return scheduler.Input{}, names, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load classrooms")
	}
	groups, err := s.groups.ListActive(ctx)
	if err != nil {
		return scheduler.Input{}, names, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student groups")
	}

	var input scheduler.Input
	for _, t := range teachers {
		names.teachers[t.ID] = t.FullName
		subjectIDs := make([]string, 0, len(t.Subjects))
		for _, subj := range t.Subjects {
			subjectIDs = append(subjectIDs, subj.SubjectID)
			names.subjects[subj.SubjectID] = subj.SubjectName
		}
		teacher := scheduler.Teacher{ID: t.ID, Name: t.FullName, SubjectIDs: subjectIDs}
		if stored, ok := prefs[t.ID]; ok {
			pref, err := preferenceFromModel(grid, &stored)
			if err != nil {
				s.logger.Warn("ignoring malformed teacher availability", zap.String("teacher_id", t.ID), zap.Error(err))
				pref = scheduler.ResolvePreference(&scheduler.Preference{MaxSlotsPerDay: stored.MaxSlotsPerDay, MaxSlotsPerWeek: stored.MaxSlotsPerWeek})
			}
			teacher.Preference = &pref
		}
		input.Teachers = append(input.Teachers, teacher)
	}

	for _, c := range classrooms {
		names.classrooms[c.ID] = c.Name
		input.Classrooms = append(input.Classrooms, scheduler.Classroom{
			ID:          c.ID,
			Name:        c.Name,
			Capacity:    c.Capacity,
			Equipment:   []string(c.Equipment),
			Unavailable: s.classroomUnavailable(c),
		})
	}

	for _, g := range groups {
		input.Groups = append(input.Groups, scheduler.StudentGroup{ID: g.ID, Name: g.Name})
	}
	return input, names, nil
}

func (s *TimetableGeneratorService) classroomUnavailable(c models.Classroom) []scheduler.Cell {
	if len(c.Unavailable) == 0 {
		return nil
	}
	var raw []models.ClassroomCell
	if err := json.Unmarshal(c.Unavailable, &raw); err != nil {
		s.logger.Warn("ignoring malformed classroom unavailability", zap.String("classroom_id", c.ID), zap.Error(err))
		return nil
	}
	grid := s.engine.Grid()
	cells := make([]scheduler.Cell, 0, len(raw))
	for _, entry := range raw {
		day, ok := grid.ParseDay(entry.Day)
		if !ok {
			continue
		}
		if cell, ok := grid.Cell(day, entry.TimeSlot); ok {
			cells = append(cells, cell)
		}
	}
	return cells
}

// groupSlots groups slot rows by student group, keeping the repository's
// group order, and sorts each schedule like the generator does.
func (s *TimetableGeneratorService) groupSlots(slots []models.TimetableSlotDetail) []dto.GroupTimetable {
	index := make(map[string]int)
	var groups []dto.GroupTimetable
	var perGroup [][]models.TimetableSlotDetail
	for _, slot := range slots {
		i, ok := index[slot.StudentGroupID]
		if !ok {
			i = len(groups)
			index[slot.StudentGroupID] = i
			groups = append(groups, dto.GroupTimetable{StudentGroupID: slot.StudentGroupID, StudentGroup: slot.StudentGroupName})
			perGroup = append(perGroup, nil)
		}
		perGroup[i] = append(perGroup[i], slot)
	}
	for i := range groups {
		s.sortDetails(perGroup[i])
		schedule := make([]dto.ScheduleEntry, 0, len(perGroup[i]))
		for _, slot := range perGroup[i] {
			schedule = append(schedule, dto.ScheduleEntry{
				Day:       slot.DayName,
				TimeSlot:  slot.TimeSlotName,
				Teacher:   slot.TeacherName,
				Subject:   slot.SubjectName,
				Classroom: slot.ClassroomName,
			})
		}
		groups[i].Schedule = schedule
	}
	if groups == nil {
		groups = []dto.GroupTimetable{}
	}
	return groups
}

// sortDetails orders by day position, then slot label in collation order.
func (s *TimetableGeneratorService) sortDetails(slots []models.TimetableSlotDetail) {
	grid := s.engine.Grid()
	less := scheduler.SlotLabelLess()
	sort.SliceStable(slots, func(i, j int) bool {
		di := grid.DayOrder(scheduler.Day(slots[i].DayName))
		dj := grid.DayOrder(scheduler.Day(slots[j].DayName))
		if di != dj {
			return di < dj
		}
		return less(slots[i].TimeSlotName, slots[j].TimeSlotName)
	})
}
