package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/parkermclaren/advisor-mvp/internal/models"
)

// StudentRepository reads and updates the advising profile of a student.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs repository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

const findStudentQuery = `SELECT id, full_name, program, schedule_preferences, extracurriculars, ideal_min_credits, ideal_max_credits, updated_at FROM students WHERE id = $1`

// FindByID loads a student profile. Missing students surface as sql.ErrNoRows.
func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.StudentProfile, error) {
	var profile models.StudentProfile
	if err := r.db.GetContext(ctx, &profile, findStudentQuery, id); err != nil {
		return nil, err
	}
	return &profile, nil
}

const upsertStudentPreferencesQuery = `INSERT INTO students (id, full_name, program, schedule_preferences, extracurriculars, ideal_min_credits, ideal_max_credits, updated_at)
VALUES (:id, :full_name, :program, :schedule_preferences, :extracurriculars, :ideal_min_credits, :ideal_max_credits, :updated_at)
ON CONFLICT (id) DO UPDATE SET schedule_preferences = EXCLUDED.schedule_preferences, extracurriculars = EXCLUDED.extracurriculars,
ideal_min_credits = EXCLUDED.ideal_min_credits, ideal_max_credits = EXCLUDED.ideal_max_credits, updated_at = EXCLUDED.updated_at`

// UpdatePreferences upserts the preference columns of a student profile.
func (r *StudentRepository) UpdatePreferences(ctx context.Context, profile *models.StudentProfile) error {
	if profile == nil || profile.ID == "" {
		return fmt.Errorf("student profile id is required")
	}
	if profile.SchedulePreferences == nil {
		profile.SchedulePreferences = []string{}
	}
	if profile.Extracurriculars == nil {
		profile.Extracurriculars = []string{}
	}
	profile.UpdatedAt = time.Now().UTC()

	if _, err := r.db.NamedExecContext(ctx, upsertStudentPreferencesQuery, profile); err != nil {
		return fmt.Errorf("upsert student preferences: %w", err)
	}
	return nil
}
