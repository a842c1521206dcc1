package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/parkermclaren/advisor-mvp/internal/dto"
	"github.com/parkermclaren/advisor-mvp/internal/models"
	"github.com/parkermclaren/advisor-mvp/internal/service"
	appErrors "github.com/parkermclaren/advisor-mvp/pkg/errors"
	"github.com/parkermclaren/advisor-mvp/pkg/response"
)

type scheduleBuilder interface {
	Build(ctx context.Context, studentID, term string) (*models.StudentSchedule, error)
}

type scheduleQuerier interface {
	Get(ctx context.Context, id string) (*models.StudentSchedule, error)
	List(ctx context.Context, studentID, term string) ([]models.StudentSchedule, error)
}

type scheduleExporter interface {
	Export(ctx context.Context, id, format string) (*service.ExportResult, error)
}

// ScheduleHandler exposes schedule build, lookup and export endpoints.
type ScheduleHandler struct {
	builder  scheduleBuilder
	query    scheduleQuerier
	exporter scheduleExporter
	validate *validator.Validate
}

// NewScheduleHandler constructs the handler.
func NewScheduleHandler(builder scheduleBuilder, query scheduleQuerier, exporter scheduleExporter) *ScheduleHandler {
	return &ScheduleHandler{builder: builder, query: query, exporter: exporter, validate: validator.New()}
}

// Build godoc
// @Summary Build a term schedule for a student
// @Description Runs the schedule builder against the student's outstanding requirements and stored preferences.
// @Tags Schedules
// @Accept json
// @Produce json
// @Param id path string true "Student ID"
// @Param payload body dto.BuildScheduleRequest true "Term to schedule"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /students/{id}/schedules [post]
func (h *ScheduleHandler) Build(c *gin.Context) {
	studentID := studentIDFromRequest(c)
	if studentID == "" {
		return
	}
	var req dto.BuildScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid schedule payload"))
		return
	}
	req.Term = strings.TrimSpace(req.Term)
	if err := h.validate.Struct(req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "term is required"))
		return
	}

	schedule, err := h.builder.Build(c.Request.Context(), studentID, req.Term)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, schedule)
}

// BuildMine godoc
// @Summary Build a term schedule for the authenticated student
// @Tags Schedules
// @Accept json
// @Produce json
// @Param payload body dto.BuildScheduleRequest true "Term to schedule"
// @Success 201 {object} response.Envelope
// @Router /me/schedules [post]
func (h *ScheduleHandler) BuildMine(c *gin.Context) {
	h.Build(c)
}

// List godoc
// @Summary List stored schedules of a student
// @Tags Schedules
// @Produce json
// @Param id path string true "Student ID"
// @Param term query string false "Term filter"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/schedules [get]
func (h *ScheduleHandler) List(c *gin.Context) {
	studentID := studentIDFromRequest(c)
	if studentID == "" {
		return
	}
	var query dto.ScheduleListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query parameters"))
		return
	}
	schedules, err := h.query.List(c.Request.Context(), studentID, strings.TrimSpace(query.Term))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, schedules, map[string]interface{}{"count": len(schedules)})
}

// Get godoc
// @Summary Get a stored schedule
// @Tags Schedules
// @Produce json
// @Param scheduleId path string true "Schedule ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /schedules/{scheduleId} [get]
func (h *ScheduleHandler) Get(c *gin.Context) {
	schedule, ok := h.loadVisible(c)
	if !ok {
		return
	}
	response.JSON(c, http.StatusOK, schedule)
}

// Export godoc
// @Summary Export a stored schedule as CSV or PDF
// @Tags Schedules
// @Produce text/csv
// @Produce application/pdf
// @Param scheduleId path string true "Schedule ID"
// @Param format query string false "csv or pdf"
// @Success 200 {file} file
// @Router /schedules/{scheduleId}/export [get]
func (h *ScheduleHandler) Export(c *gin.Context) {
	var query dto.ExportScheduleQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query parameters"))
		return
	}
	query.Format = strings.ToLower(strings.TrimSpace(query.Format))
	if err := h.validate.Struct(query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "format must be csv or pdf"))
		return
	}
	schedule, ok := h.loadVisible(c)
	if !ok {
		return
	}

	result, err := h.exporter.Export(c.Request.Context(), schedule.ID, query.Format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, result.Filename, result.ContentType, result.Payload)
}

func (h *ScheduleHandler) loadVisible(c *gin.Context) (*models.StudentSchedule, bool) {
	id := strings.TrimSpace(c.Param("scheduleId"))
	if id == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "schedule id is required"))
		return nil, false
	}
	schedule, err := h.query.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return nil, false
	}
	if !canViewStudent(c, schedule.StudentID) {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "schedule not found"))
		return nil, false
	}
	return schedule, true
}
