package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parkermclaren/advisor-mvp/internal/middleware"
	"github.com/parkermclaren/advisor-mvp/internal/models"
	"github.com/parkermclaren/advisor-mvp/internal/service"
	appErrors "github.com/parkermclaren/advisor-mvp/pkg/errors"
	"github.com/parkermclaren/advisor-mvp/pkg/response"
)

type scheduleBuilderMock struct {
	studentID string
	term      string
	resp      *models.StudentSchedule
	err       error
}

func (m *scheduleBuilderMock) Build(ctx context.Context, studentID, term string) (*models.StudentSchedule, error) {
	m.studentID = studentID
	m.term = term
	return m.resp, m.err
}

type scheduleQueryMock struct {
	schedule *models.StudentSchedule
	list     []models.StudentSchedule
	err      error
	term     string
}

func (m *scheduleQueryMock) Get(ctx context.Context, id string) (*models.StudentSchedule, error) {
	return m.schedule, m.err
}

func (m *scheduleQueryMock) List(ctx context.Context, studentID, term string) ([]models.StudentSchedule, error) {
	m.term = term
	return m.list, m.err
}

type scheduleExporterMock struct {
	format string
}

func (m *scheduleExporterMock) Export(ctx context.Context, id, format string) (*service.ExportResult, error) {
	m.format = format
	return &service.ExportResult{Filename: "schedule.csv", ContentType: "text/csv", Payload: []byte("Course\n")}, nil
}

func newScheduleTestContext(method, target string, body []byte, claims *models.JWTClaims, params gin.Params) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(method, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = params
	if claims != nil {
		c.Set(middleware.ContextUserKey, claims)
	}
	return c, w
}

func TestScheduleHandlerBuild(t *testing.T) {
	builder := &scheduleBuilderMock{resp: &models.StudentSchedule{ID: "sch-1", StudentID: "stu-1", Term: "Fall 2025"}}
	handler := NewScheduleHandler(builder, &scheduleQueryMock{}, &scheduleExporterMock{})
	c, w := newScheduleTestContext(http.MethodPost, "/students/stu-1/schedules", []byte(`{"term":" Fall 2025 "}`), nil, gin.Params{{Key: "id", Value: "stu-1"}})

	handler.Build(c)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "stu-1", builder.studentID)
	assert.Equal(t, "Fall 2025", builder.term)
	var body struct {
		Data models.StudentSchedule `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "sch-1", body.Data.ID)
}

func TestScheduleHandlerBuildRequiresTerm(t *testing.T) {
	builder := &scheduleBuilderMock{}
	handler := NewScheduleHandler(builder, &scheduleQueryMock{}, &scheduleExporterMock{})
	c, w := newScheduleTestContext(http.MethodPost, "/students/stu-1/schedules", []byte(`{"term":"  "}`), nil, gin.Params{{Key: "id", Value: "stu-1"}})

	handler.Build(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, builder.studentID)
}

func TestScheduleHandlerBuildMineUsesClaims(t *testing.T) {
	builder := &scheduleBuilderMock{resp: &models.StudentSchedule{ID: "sch-1"}}
	handler := NewScheduleHandler(builder, &scheduleQueryMock{}, &scheduleExporterMock{})
	claims := &models.JWTClaims{UserID: "u-1", Role: models.RoleStudent, StudentID: "stu-7"}
	c, w := newScheduleTestContext(http.MethodPost, "/me/schedules", []byte(`{"term":"Fall 2025"}`), claims, nil)

	handler.BuildMine(c)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "stu-7", builder.studentID)
}

func TestScheduleHandlerBuildMineWithoutStudentLink(t *testing.T) {
	handler := NewScheduleHandler(&scheduleBuilderMock{}, &scheduleQueryMock{}, &scheduleExporterMock{})
	claims := &models.JWTClaims{UserID: "u-1", Role: models.RoleAdvisor}
	c, w := newScheduleTestContext(http.MethodPost, "/me/schedules", []byte(`{"term":"Fall 2025"}`), claims, nil)

	handler.BuildMine(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestScheduleHandlerBuildMapsServiceErrors(t *testing.T) {
	builder := &scheduleBuilderMock{err: appErrors.Clone(appErrors.ErrPreconditionFailed, "no outstanding requirements")}
	handler := NewScheduleHandler(builder, &scheduleQueryMock{}, &scheduleExporterMock{})
	c, w := newScheduleTestContext(http.MethodPost, "/students/stu-1/schedules", []byte(`{"term":"Fall 2025"}`), nil, gin.Params{{Key: "id", Value: "stu-1"}})

	handler.Build(c)

	require.Equal(t, http.StatusPreconditionFailed, w.Code)
	var body response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, appErrors.ErrPreconditionFailed.Code, body.Error.Code)
}

func TestScheduleHandlerList(t *testing.T) {
	query := &scheduleQueryMock{list: []models.StudentSchedule{{ID: "a"}, {ID: "b"}}}
	handler := NewScheduleHandler(&scheduleBuilderMock{}, query, &scheduleExporterMock{})
	c, w := newScheduleTestContext(http.MethodGet, "/students/stu-1/schedules?term=Fall+2025", nil, nil, gin.Params{{Key: "id", Value: "stu-1"}})

	handler.List(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Fall 2025", query.term)
	var body response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.EqualValues(t, 2, body.Meta["count"])
}

func TestScheduleHandlerGetHidesOtherStudents(t *testing.T) {
	query := &scheduleQueryMock{schedule: &models.StudentSchedule{ID: "sch-1", StudentID: "stu-2"}}
	handler := NewScheduleHandler(&scheduleBuilderMock{}, query, &scheduleExporterMock{})
	student := &models.JWTClaims{UserID: "u-1", Role: models.RoleStudent, StudentID: "stu-1"}
	c, w := newScheduleTestContext(http.MethodGet, "/schedules/sch-1", nil, student, gin.Params{{Key: "scheduleId", Value: "sch-1"}})

	handler.Get(c)
	assert.Equal(t, http.StatusNotFound, w.Code)

	advisor := &models.JWTClaims{UserID: "u-2", Role: models.RoleAdvisor}
	c, w = newScheduleTestContext(http.MethodGet, "/schedules/sch-1", nil, advisor, gin.Params{{Key: "scheduleId", Value: "sch-1"}})

	handler.Get(c)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestScheduleHandlerExport(t *testing.T) {
	query := &scheduleQueryMock{schedule: &models.StudentSchedule{ID: "sch-1", StudentID: "stu-1"}}
	exporter := &scheduleExporterMock{}
	handler := NewScheduleHandler(&scheduleBuilderMock{}, query, exporter)
	c, w := newScheduleTestContext(http.MethodGet, "/schedules/sch-1/export?format=CSV", nil, nil, gin.Params{{Key: "scheduleId", Value: "sch-1"}})

	handler.Export(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "csv", exporter.format)
	assert.Equal(t, `attachment; filename="schedule.csv"`, w.Header().Get("Content-Disposition"))

	c, w = newScheduleTestContext(http.MethodGet, "/schedules/sch-1/export?format=xlsx", nil, nil, gin.Params{{Key: "scheduleId", Value: "sch-1"}})
	handler.Export(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
