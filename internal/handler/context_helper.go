package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/parkermclaren/advisor-mvp/internal/middleware"
	"github.com/parkermclaren/advisor-mvp/internal/models"
	appErrors "github.com/parkermclaren/advisor-mvp/pkg/errors"
	"github.com/parkermclaren/advisor-mvp/pkg/response"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

// studentIDFromRequest resolves the student a request targets: the :id path
// param when present, otherwise the caller's own student id.
func studentIDFromRequest(c *gin.Context) string {
	if id := strings.TrimSpace(c.Param("id")); id != "" {
		return id
	}
	claims := claimsFromContext(c)
	if claims == nil || claims.StudentID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "caller is not linked to a student record"))
		return ""
	}
	return claims.StudentID
}

// canViewStudent reports whether the caller may read schedules of studentID.
// Students are limited to their own records; advisors and admins see all.
func canViewStudent(c *gin.Context, studentID string) bool {
	claims := claimsFromContext(c)
	if claims == nil {
		return true
	}
	if claims.Role != models.RoleStudent {
		return true
	}
	return claims.StudentID != "" && claims.StudentID == studentID
}
