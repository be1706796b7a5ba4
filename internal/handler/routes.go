package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	internalmiddleware "github.com/noah-isme/sma-timetable-api/internal/middleware"
	"github.com/noah-isme/sma-timetable-api/internal/models"
)

// Routes bundles the handlers mounted under the API prefix.
type Routes struct {
	Timetable   *TimetableHandler
	Preferences *PreferenceHandler
	Metrics     *MetricsHandler

	// Auth authenticates every API route; usually middleware.JWT.
	Auth gin.HandlerFunc
	// GenerateTimeout bounds synchronous generation requests. Zero disables it.
	GenerateTimeout time.Duration
}

// Register mounts the API routes on group.
func (r Routes) Register(group *gin.RouterGroup) {
	secured := group.Group("")
	if r.Auth != nil {
		secured.Use(r.Auth)
	}

	managers := internalmiddleware.TimetableManagers()
	anyStaff := internalmiddleware.RequireRoles(models.RoleAdmin, models.RoleSuperAdmin, models.RoleTeacher)

	if r.Timetable != nil {
		secured.POST("/generate-timetable", managers, internalmiddleware.Timeout(r.GenerateTimeout), r.Timetable.Generate)
		secured.POST("/generate-timetable/async", managers, r.Timetable.GenerateAsync)
		secured.GET("/timetable", anyStaff, r.Timetable.Timetable)
		secured.GET("/timetable/export", managers, r.Timetable.Export)
		secured.GET("/timetable/runs/:id", managers, r.Timetable.Run)
		secured.GET("/timetable/teachers/:id", internalmiddleware.RBAC(string(models.RoleAdmin), string(models.RoleSuperAdmin), internalmiddleware.SelfRole), r.Timetable.TeacherSchedule)
	}

	if r.Preferences != nil {
		secured.GET("/preferences", anyStaff, r.Preferences.Get)
		secured.POST("/preferences", anyStaff, r.Preferences.Upsert)
	}

	if r.Metrics != nil {
		secured.GET("/metrics/summary", managers, r.Metrics.Snapshot)
	}
}
