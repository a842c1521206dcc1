package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/parkermclaren/advisor-mvp/internal/dto"
	"github.com/parkermclaren/advisor-mvp/internal/models"
	appErrors "github.com/parkermclaren/advisor-mvp/pkg/errors"
)

type studentPreferenceRepository interface {
	FindByID(ctx context.Context, id string) (*models.StudentProfile, error)
	UpdatePreferences(ctx context.Context, profile *models.StudentProfile) error
}

// PreferenceService manages the free-text scheduling preferences stored per student.
type PreferenceService struct {
	repo      studentPreferenceRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewPreferenceService constructs the service.
func NewPreferenceService(repo studentPreferenceRepository, validate *validator.Validate, logger *zap.Logger) *PreferenceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PreferenceService{repo: repo, validator: validate, logger: logger}
}

// Get returns the stored preferences together with the rules the scorer would apply.
func (s *PreferenceService) Get(ctx context.Context, studentID string) (*models.StudentPreferences, error) {
	profile, err := s.load(ctx, studentID)
	if err != nil {
		return nil, err
	}
	return preferenceView(profile), nil
}

// Update replaces the student's preferences and credit range.
func (s *PreferenceService) Update(ctx context.Context, studentID string, req dto.UpdatePreferencesRequest) (*models.StudentPreferences, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid preference payload")
	}

	profile, err := s.load(ctx, studentID)
	if err != nil {
		return nil, err
	}

	profile.SchedulePreferences = trimAll(req.SchedulePreferences)
	profile.Extracurriculars = trimAll(req.Extracurriculars)
	profile.IdealMinCredits = req.IdealMinCredits
	profile.IdealMaxCredits = req.IdealMaxCredits

	if err := s.repo.UpdatePreferences(ctx, profile); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update preferences")
	}
	s.logger.Info("student preferences updated", zap.String("student_id", profile.ID), zap.Int("preferences", len(profile.SchedulePreferences)))
	return preferenceView(profile), nil
}

func (s *PreferenceService) load(ctx context.Context, studentID string) (*models.StudentProfile, error) {
	studentID = strings.TrimSpace(studentID)
	if studentID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "student id is required")
	}
	profile, err := s.repo.FindByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	return profile, nil
}

func preferenceView(profile *models.StudentProfile) *models.StudentPreferences {
	prefs := append([]string{}, profile.SchedulePreferences...)
	extras := append([]string{}, profile.Extracurriculars...)
	return &models.StudentPreferences{
		StudentID:           profile.ID,
		SchedulePreferences: prefs,
		Extracurriculars:    extras,
		CreditRange:         models.CreditRange{Min: profile.IdealMinCredits, Max: profile.IdealMaxCredits},
		Rules:               ParsePreferences(prefs, extras),
	}
}

func trimAll(values []string) []string {
	result := make([]string, 0, len(values))
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
