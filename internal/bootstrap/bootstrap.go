// Package bootstrap wires configuration, storage and services shared by the
// HTTP server and the command line tool.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-timetable-api/internal/repository"
	"github.com/noah-isme/sma-timetable-api/internal/scheduler"
	"github.com/noah-isme/sma-timetable-api/internal/service"
	"github.com/noah-isme/sma-timetable-api/pkg/cache"
	"github.com/noah-isme/sma-timetable-api/pkg/config"
	"github.com/noah-isme/sma-timetable-api/pkg/database"
	"github.com/noah-isme/sma-timetable-api/pkg/export"
	"github.com/noah-isme/sma-timetable-api/pkg/jobs"
)

// App holds the application dependencies.
type App struct {
	Config *config.Config
	Logger *zap.Logger
	DB     *sqlx.DB
	Redis  *redis.Client

	Metrics     *service.MetricsService
	Cache       *service.CacheService
	Tokens      *service.TokenService
	Generator   *service.TimetableGeneratorService
	Preferences *service.TeacherPreferenceService
	Export      *service.ExportService
	Queue       *jobs.Queue
}

// EngineOptions maps scheduler configuration onto engine options.
func EngineOptions(cfg config.SchedulerConfig) scheduler.Options {
	weights := scheduler.Weights{
		Preference:      cfg.Weights.Preference,
		RemainingWeekly: cfg.Weights.RemainingWeekly,
		Consecutive:     cfg.Weights.Consecutive,
		SubjectCount:    cfg.Weights.SubjectCount,
		DailyUnderfill:  cfg.Weights.DailyUnderfill,
	}
	opts := scheduler.Options{
		CapScope:  scheduler.ParseCapScope(cfg.CapScope),
		CellOrder: scheduler.ParseCellOrder(cfg.CellOrder),
		ScoreOnly: cfg.ScoreOnly,
	}
	if weights != (scheduler.Weights{}) {
		opts.Weights = &weights
	}
	return opts
}

// New connects to Postgres and Redis and builds every service. The queue is
// built but not started.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	redisClient, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		logger.Warn("redis unavailable, timetable cache disabled", zap.Error(err))
	}

	app := &App{Config: cfg, Logger: logger, DB: db, Redis: redisClient}
	app.Metrics = service.NewMetricsService()
	app.Cache = service.NewCacheService(
		repository.NewCacheRepository(redisClient),
		app.Metrics,
		cfg.Timetable.CacheTTL,
		logger.Named("cache"),
		cfg.Timetable.CacheEnabled && redisClient != nil,
	)
	app.Tokens = service.NewTokenService(service.TokenConfig{Secret: cfg.JWT.Secret, Issuer: cfg.JWT.Issuer})

	teachers := repository.NewTeacherRepository(db)
	preferences := repository.NewTeacherPreferenceRepository(db)

	app.Generator = service.NewTimetableGeneratorService(service.TimetableGeneratorRepositories{
		Teachers:    teachers,
		Preferences: preferences,
		Classrooms:  repository.NewClassroomRepository(db),
		Groups:      repository.NewStudentGroupRepository(db),
		Runs:        repository.NewTimetableRunRepository(db),
		Slots:       repository.NewTimetableSlotRepository(db),
		Tx:          db,
	}, app.Cache, app.Metrics, logger.Named("generator"), service.TimetableGeneratorConfig{
		Engine:       EngineOptions(cfg.Scheduler),
		Semester:     cfg.Scheduler.Semester,
		AsyncEnabled: cfg.Scheduler.AsyncEnabled,
	})

	app.Queue = jobs.NewQueue("timetable", app.Generator.ProcessJob, jobs.QueueConfig{
		Workers:    cfg.Jobs.Workers,
		MaxRetries: cfg.Jobs.Retries,
		OnFailure:  app.Generator.HandleJobFailure,
		Logger:     logger,
	})
	app.Generator.SetQueue(app.Queue)

	app.Preferences = service.NewTeacherPreferenceService(teachers, preferences, app.Generator.Grid(), validator.New(), logger.Named("preferences"))
	app.Export = service.NewExportService(app.Generator, export.NewCSVExporter(true), export.NewPDFExporter())

	return app, nil
}

// Close releases the queue and connections.
func (a *App) Close() {
	if a.Queue != nil {
		a.Queue.Stop()
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			a.Logger.Warn("close redis", zap.Error(err))
		}
	}
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			a.Logger.Warn("close database", zap.Error(err))
		}
	}
}
