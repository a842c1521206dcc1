package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parkermclaren/advisor-mvp/internal/models"
	appErrors "github.com/parkermclaren/advisor-mvp/pkg/errors"
)

type validatorStub struct {
	claims *models.JWTClaims
	err    error
	token  string
}

func (v *validatorStub) ValidateToken(token string) (*models.JWTClaims, error) {
	v.token = token
	return v.claims, v.err
}

type httpMetricsStub struct {
	paths    []string
	statuses []int
}

func (m *httpMetricsStub) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	m.paths = append(m.paths, path)
	m.statuses = append(m.statuses, status)
}

func newProtectedRouter(validator tokenValidator, allowed ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/students/:id/schedules", JWT(validator), RBAC(allowed...), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func serve(r http.Handler, path, authorization string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestJWTRejectsMissingAndMalformedHeaders(t *testing.T) {
	r := newProtectedRouter(&validatorStub{}, string(models.RoleAdvisor))

	assert.Equal(t, http.StatusUnauthorized, serve(r, "/students/stu-1/schedules", "").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(r, "/students/stu-1/schedules", "Token abc").Code)
	assert.Equal(t, http.StatusUnauthorized, serve(r, "/students/stu-1/schedules", "Bearer ").Code)
}

func TestJWTPropagatesValidatorError(t *testing.T) {
	validator := &validatorStub{err: appErrors.Clone(appErrors.ErrUnauthorized, "token expired")}
	r := newProtectedRouter(validator, string(models.RoleAdvisor))

	w := serve(r, "/students/stu-1/schedules", "bearer abc.def")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "abc.def", validator.token)
}

func TestRBACAllowsRoleAndSelf(t *testing.T) {
	advisor := &validatorStub{claims: &models.JWTClaims{UserID: "u-9", Role: models.RoleAdvisor}}
	r := newProtectedRouter(advisor, string(models.RoleAdvisor), RoleSelf)
	assert.Equal(t, http.StatusOK, serve(r, "/students/stu-1/schedules", "Bearer t").Code)

	student := &validatorStub{claims: &models.JWTClaims{UserID: "u-1", StudentID: "stu-1", Role: models.RoleStudent}}
	r = newProtectedRouter(student, string(models.RoleAdvisor), RoleSelf)
	assert.Equal(t, http.StatusOK, serve(r, "/students/stu-1/schedules", "Bearer t").Code)
	assert.Equal(t, http.StatusForbidden, serve(r, "/students/stu-2/schedules", "Bearer t").Code)
	assert.Equal(t, http.StatusForbidden, serve(r, "/students/u-1/schedules", "Bearer t").Code)
}

func TestRBACWithoutClaims(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/x", RequireRoles(models.RoleAdmin), func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusUnauthorized, serve(r, "/x", "").Code)
}

func TestOptionalJWTNeverBlocks(t *testing.T) {
	gin.SetMode(gin.TestMode)
	validator := &validatorStub{claims: &models.JWTClaims{UserID: "u-1", Role: models.RoleStudent}}
	r := gin.New()
	r.GET("/x", OptionalJWT(validator), func(c *gin.Context) {
		_, ok := c.Get(ContextUserKey)
		c.JSON(http.StatusOK, gin.H{"authenticated": ok})
	})

	assert.JSONEq(t, `{"authenticated":false}`, serve(r, "/x", "").Body.String())
	assert.JSONEq(t, `{"authenticated":true}`, serve(r, "/x", "Bearer t").Body.String())
}

func TestMetricsRecordsRoutePattern(t *testing.T) {
	gin.SetMode(gin.TestMode)
	recorder := &httpMetricsStub{}
	r := gin.New()
	r.Use(Metrics(recorder))
	r.GET("/schedules/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	serve(r, "/schedules/abc", "")
	serve(r, "/nope", "")

	require.Len(t, recorder.paths, 2)
	assert.Equal(t, "/schedules/:id", recorder.paths[0])
	assert.Equal(t, http.StatusNoContent, recorder.statuses[0])
	assert.Equal(t, "unmatched", recorder.paths[1])
	assert.Equal(t, http.StatusNotFound, recorder.statuses[1])
}
