package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	internalmiddleware "github.com/noah-isme/sma-timetable-api/internal/middleware"
	"github.com/noah-isme/sma-timetable-api/internal/models"
	"github.com/noah-isme/sma-timetable-api/internal/service"
)

func buildTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	routes := Routes{
		Timetable:   NewTimetableHandler(&timetableServiceMock{}, &exporterMock{}),
		Preferences: NewPreferenceHandler(&preferenceServiceMock{}),
		Metrics:     NewMetricsHandler(service.NewMetricsService(), nil, 0),
		Auth: func(c *gin.Context) {
			if role := c.GetHeader("X-Test-Role"); role != "" {
				c.Set(internalmiddleware.ContextUserKey, &models.JWTClaims{
					UserID: c.GetHeader("X-Test-User"),
					Role:   models.UserRole(role),
				})
			}
			c.Next()
		},
	}
	routes.Register(router.Group("/api/v1"))
	return router
}

func performRequest(router *gin.Engine, method, path string, role models.UserRole, user string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if role != "" {
		req.Header.Set("X-Test-Role", string(role))
		req.Header.Set("X-Test-User", user)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRoutesAccessControl(t *testing.T) {
	router := buildTestRouter()

	tests := []struct {
		name   string
		method string
		path   string
		role   models.UserRole
		user   string
		status int
	}{
		{"generate requires auth", http.MethodPost, "/api/v1/generate-timetable", "", "", http.StatusUnauthorized},
		{"generate forbidden for teacher", http.MethodPost, "/api/v1/generate-timetable", models.RoleTeacher, "t1", http.StatusForbidden},
		{"generate admin", http.MethodPost, "/api/v1/generate-timetable", models.RoleAdmin, "a1", http.StatusOK},
		{"generate superadmin", http.MethodPost, "/api/v1/generate-timetable", models.RoleSuperAdmin, "s1", http.StatusOK},
		{"async admin", http.MethodPost, "/api/v1/generate-timetable/async", models.RoleAdmin, "a1", http.StatusAccepted},
		{"timetable teacher", http.MethodGet, "/api/v1/timetable", models.RoleTeacher, "t1", http.StatusOK},
		{"timetable student", http.MethodGet, "/api/v1/timetable", models.RoleStudent, "st1", http.StatusForbidden},
		{"own schedule", http.MethodGet, "/api/v1/timetable/teachers/t1", models.RoleTeacher, "t1", http.StatusOK},
		{"other schedule", http.MethodGet, "/api/v1/timetable/teachers/t2", models.RoleTeacher, "t1", http.StatusForbidden},
		{"admin reads any schedule", http.MethodGet, "/api/v1/timetable/teachers/t2", models.RoleAdmin, "a1", http.StatusOK},
		{"export teacher", http.MethodGet, "/api/v1/timetable/export", models.RoleTeacher, "t1", http.StatusForbidden},
		{"export admin", http.MethodGet, "/api/v1/timetable/export", models.RoleAdmin, "a1", http.StatusOK},
		{"run admin", http.MethodGet, "/api/v1/timetable/runs/run-2", models.RoleAdmin, "a1", http.StatusOK},
		{"preferences teacher", http.MethodGet, "/api/v1/preferences", models.RoleTeacher, "t1", http.StatusOK},
		{"metrics summary admin", http.MethodGet, "/api/v1/metrics/summary", models.RoleAdmin, "a1", http.StatusOK},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := performRequest(router, tc.method, tc.path, tc.role, tc.user)
			assert.Equal(t, tc.status, w.Code)
		})
	}
}
