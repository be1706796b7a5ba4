package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-timetable-api/internal/models"
	"github.com/noah-isme/sma-timetable-api/internal/service"
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
)

type validatorStub struct {
	claims *models.JWTClaims
}

func (v validatorStub) ValidateToken(token string) (*models.JWTClaims, error) {
	if token != "good" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token")
	}
	return v.claims, nil
}

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers = append(handlers, func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/resource/:id", handlers...)
	return r
}

func serve(r *gin.Engine, path, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestJWT(t *testing.T) {
	claims := &models.JWTClaims{UserID: "u1", Role: models.RoleTeacher}
	r := newRouter(JWT(validatorStub{claims: claims}))

	assert.Equal(t, http.StatusUnauthorized, serve(r, "/resource/1", "").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(r, "/resource/1", "Basic abc").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(r, "/resource/1", "Bearer bad").Code)
	assert.Equal(t, http.StatusNoContent, serve(r, "/resource/1", "Bearer good").Code)
}

func TestRBAC(t *testing.T) {
	teacher := &models.JWTClaims{UserID: "t1", Role: models.RoleTeacher}
	admin := &models.JWTClaims{UserID: "a1", Role: models.RoleAdmin}

	r := newRouter(JWT(validatorStub{claims: teacher}), TimetableManagers())
	assert.Equal(t, http.StatusForbidden, serve(r, "/resource/1", "Bearer good").Code)

	r = newRouter(JWT(validatorStub{claims: admin}), TimetableManagers())
	assert.Equal(t, http.StatusNoContent, serve(r, "/resource/1", "Bearer good").Code)

	r = newRouter(JWT(validatorStub{claims: teacher}), RBAC(string(models.RoleAdmin), SelfRole))
	assert.Equal(t, http.StatusNoContent, serve(r, "/resource/t1", "Bearer good").Code)
	assert.Equal(t, http.StatusForbidden, serve(r, "/resource/t2", "Bearer good").Code)

	r = newRouter(TimetableManagers())
	assert.Equal(t, http.StatusUnauthorized, serve(r, "/resource/1", "").Code)
}

func metricsRouter(mw gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw)
	r.GET("/resource/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	return r
}

func TestMetricsRecordsRoutePattern(t *testing.T) {
	metrics := service.NewMetricsService()
	r := metricsRouter(Metrics(metrics))

	serve(r, "/resource/1", "")
	serve(r, "/resource/2", "")
	serve(r, "/missing", "")

	assert.Equal(t, uint64(3), metrics.Snapshot().RequestsTotal)
	body := scrape(t, metrics)
	assert.Contains(t, body, `path="/resource/:id"`)
	assert.Contains(t, body, `path="unmatched"`)
}

func scrape(t *testing.T, metrics *service.MetricsService) string {
	t.Helper()
	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

func TestMetricsSkipsRoutes(t *testing.T) {
	metrics := service.NewMetricsService()
	r := metricsRouter(Metrics(metrics, "/resource/:id"))

	serve(r, "/resource/1", "")
	serve(r, "/missing", "")

	assert.Equal(t, uint64(1), metrics.Snapshot().RequestsTotal)
}

func TestTimeout(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	var deadline time.Time
	var hasDeadline bool
	r.GET("/slow", Timeout(time.Minute), func(c *gin.Context) {
		deadline, hasDeadline = c.Request.Context().Deadline()
		c.Status(http.StatusOK)
	})
	r.GET("/open", Timeout(0), func(c *gin.Context) {
		_, ok := c.Request.Context().Deadline()
		require.False(t, ok)
		c.Status(http.StatusOK)
	})

	serve(r, "/slow", "")
	assert.True(t, hasDeadline)
	assert.WithinDuration(t, time.Now().Add(time.Minute), deadline, 5*time.Second)
	assert.Equal(t, http.StatusOK, serve(r, "/open", "").Code)
}
