package commands

import (
	"context"
	"io"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-timetable-api/internal/bootstrap"
	"github.com/noah-isme/sma-timetable-api/pkg/config"
)

// AppContext holds the dependencies shared across all commands.
type AppContext struct {
	Cfg    *config.Config
	Logger *zap.Logger
	Ctx    context.Context
	Out    io.Writer
}

// connect builds the database-backed services. Callers must Close the app.
func (a *AppContext) connect() (*bootstrap.App, error) {
	return bootstrap.New(a.Ctx, a.Cfg, a.Logger)
}
