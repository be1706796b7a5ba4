package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-timetable-api/internal/middleware"
	"github.com/noah-isme/sma-timetable-api/internal/models"
	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
	"github.com/noah-isme/sma-timetable-api/pkg/response"
)

// currentUser returns the claims set by the JWT middleware, or nil.
func currentUser(c *gin.Context) *models.JWTClaims {
	claims, _ := c.Get(middleware.ContextUserKey)
	user, _ := claims.(*models.JWTClaims)
	return user
}

// resolveTeacherID picks the teacher the request acts on. Teachers are pinned
// to their own id; managers must name one.
func resolveTeacherID(c *gin.Context) string {
	claims := currentUser(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return ""
	}
	requested := strings.TrimSpace(c.Query("teacher_id"))
	if requested == "" {
		requested = strings.TrimSpace(c.Query("teacherId"))
	}

	switch {
	case claims.Role.CanManageTimetable():
		if requested == "" {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "teacher_id is required"))
			return ""
		}
		return requested
	case claims.Role == models.RoleTeacher:
		if requested != "" && requested != claims.UserID {
			response.Error(c, appErrors.ErrForbidden)
			return ""
		}
		return claims.UserID
	default:
		response.Error(c, appErrors.ErrForbidden)
		return ""
	}
}
