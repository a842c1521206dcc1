package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/parkermclaren/advisor-mvp/internal/models"
	appErrors "github.com/parkermclaren/advisor-mvp/pkg/errors"
)

type scheduleReader interface {
	FindByID(ctx context.Context, id string) (*models.StudentSchedule, error)
	ListByStudentTerm(ctx context.Context, studentID, term string) ([]models.StudentSchedule, error)
}

// ScheduleQueryService reads previously built schedules.
type ScheduleQueryService struct {
	repo scheduleReader
}

// NewScheduleQueryService constructs the query service.
func NewScheduleQueryService(repo scheduleReader) *ScheduleQueryService {
	return &ScheduleQueryService{repo: repo}
}

// Get returns one stored schedule.
func (s *ScheduleQueryService) Get(ctx context.Context, id string) (*models.StudentSchedule, error) {
	schedule, err := s.repo.FindByID(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule")
	}
	return schedule, nil
}

// List returns a student's schedules, newest first. An empty term matches every term.
func (s *ScheduleQueryService) List(ctx context.Context, studentID, term string) ([]models.StudentSchedule, error) {
	if strings.TrimSpace(studentID) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "student id is required")
	}
	schedules, err := s.repo.ListByStudentTerm(ctx, strings.TrimSpace(studentID), strings.TrimSpace(term))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list schedules")
	}
	if schedules == nil {
		schedules = []models.StudentSchedule{}
	}
	return schedules, nil
}
