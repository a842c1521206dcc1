package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/parkermclaren/advisor-mvp/internal/handler"
	"github.com/parkermclaren/advisor-mvp/internal/models"
	"github.com/parkermclaren/advisor-mvp/internal/service"
	"github.com/parkermclaren/advisor-mvp/pkg/config"
)

type routeBuilderStub struct {
	studentID string
}

func (b *routeBuilderStub) Build(ctx context.Context, studentID, term string) (*models.StudentSchedule, error) {
	b.studentID = studentID
	return &models.StudentSchedule{ID: "sch-1", StudentID: studentID, Term: term}, nil
}

type routeQueryStub struct{}

func (routeQueryStub) Get(ctx context.Context, id string) (*models.StudentSchedule, error) {
	return &models.StudentSchedule{ID: id, StudentID: "stu-1"}, nil
}

func (routeQueryStub) List(ctx context.Context, studentID, term string) ([]models.StudentSchedule, error) {
	return []models.StudentSchedule{}, nil
}

func newTestRouter(t *testing.T) (http.Handler, *service.AuthService, *routeBuilderStub) {
	t.Helper()
	cfg := &config.Config{Env: config.EnvDevelopment, APIPrefix: "/api/v1"}
	auth := service.NewAuthService(service.AuthConfig{AccessTokenSecret: "test-secret", AccessTokenExpiry: time.Hour})
	builder := &routeBuilderStub{}
	query := routeQueryStub{}
	router := newRouter(cfg, zap.NewNop(), routerDeps{
		auth:        auth,
		schedules:   handler.NewScheduleHandler(builder, query, service.NewScheduleExportService(query, nil, nil, nil)),
		preferences: handler.NewPreferenceHandler(nil),
		probes:      handler.NewMetricsHandler(nil, nil),
	})
	return router, auth, builder
}

func doRequest(router http.Handler, method, path, token string, body []byte) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	router.ServeHTTP(w, req)
	return w
}

func TestRouterHealthIsPublic(t *testing.T) {
	router, _, _ := newTestRouter(t)

	assert.Equal(t, http.StatusOK, doRequest(router, http.MethodGet, "/health", "", nil).Code)
	assert.Equal(t, http.StatusOK, doRequest(router, http.MethodGet, "/ready", "", nil).Code)
}

func TestRouterRequiresToken(t *testing.T) {
	router, _, _ := newTestRouter(t)

	w := doRequest(router, http.MethodPost, "/api/v1/students/stu-1/schedules", "", []byte(`{"term":"Fall 2025"}`))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouterStudentScopes(t *testing.T) {
	router, auth, builder := newTestRouter(t)
	token, _, err := auth.IssueToken("u-1", models.RoleStudent, "jordan@example.edu", "stu-1")
	require.NoError(t, err)

	w := doRequest(router, http.MethodPost, "/api/v1/students/stu-2/schedules", token, []byte(`{"term":"Fall 2025"}`))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doRequest(router, http.MethodPost, "/api/v1/me/schedules", token, []byte(`{"term":"Fall 2025"}`))
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "stu-1", builder.studentID)

	w = doRequest(router, http.MethodGet, "/api/v1/schedules/sch-9/export?format=csv", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
}

func TestRouterAdvisorBuildsForAnyStudent(t *testing.T) {
	router, auth, builder := newTestRouter(t)
	token, _, err := auth.IssueToken("u-2", models.RoleAdvisor, "advisor@example.edu", "")
	require.NoError(t, err)

	w := doRequest(router, http.MethodPost, "/api/v1/students/stu-2/schedules", token, []byte(`{"term":"Fall 2025"}`))

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "stu-2", builder.studentID)
}
