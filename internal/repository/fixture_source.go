package repository

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/parkermclaren/advisor-mvp/internal/models"
	appErrors "github.com/parkermclaren/advisor-mvp/pkg/errors"
)

// FixtureSource serves students, recommendations and sections from a YAML
// document. It backs the offline CLI and local demos.
type FixtureSource struct {
	students map[string]fixtureStudent
	sections []models.CourseSection
}

type fixtureDocument struct {
	Students []fixtureStudent       `yaml:"students"`
	Sections []models.CourseSection `yaml:"sections"`
}

type fixtureStudent struct {
	ID                  string                          `yaml:"id"`
	FullName            string                          `yaml:"full_name"`
	Program             string                          `yaml:"program"`
	SchedulePreferences []string                        `yaml:"schedule_preferences"`
	Extracurriculars    []string                        `yaml:"extracurriculars"`
	IdealCreditRange    models.CreditRange              `yaml:"ideal_credit_range"`
	Categories          []models.RecommendationCategory `yaml:"categories"`
}

// LoadFixtureSource reads and decodes a fixture file.
func LoadFixtureSource(path string) (*FixtureSource, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	return ParseFixtureSource(raw)
}

// ParseFixtureSource decodes a fixture document, rejecting unknown keys.
func ParseFixtureSource(raw []byte) (*FixtureSource, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(raw))
	decoder.KnownFields(true)

	var doc fixtureDocument
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode fixture: %w", err)
	}

	source := &FixtureSource{students: make(map[string]fixtureStudent, len(doc.Students)), sections: doc.Sections}
	for _, student := range doc.Students {
		if student.ID == "" {
			return nil, fmt.Errorf("fixture student without id")
		}
		for i := range student.Categories {
			student.Categories[i].Type = models.RequirementType(strings.ToUpper(string(student.Categories[i].Type)))
		}
		source.students[student.ID] = student
	}
	return source, nil
}

// GetRecommendedCourses returns the fixture categories for a student.
func (f *FixtureSource) GetRecommendedCourses(ctx context.Context, studentID string) (*models.RecommendedCourses, error) {
	student, ok := f.students[studentID]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}
	categories := make([]models.RecommendationCategory, len(student.Categories))
	copy(categories, student.Categories)
	return &models.RecommendedCourses{Categories: categories, IdealCreditRange: student.IdealCreditRange}, nil
}

// GetSections returns sections of a course in term. Sections without a term match any term.
func (f *FixtureSource) GetSections(ctx context.Context, courseCode, term string) ([]models.CourseSection, error) {
	sections := make([]models.CourseSection, 0)
	for _, section := range f.sections {
		if section.CourseCode != courseCode {
			continue
		}
		if section.Term != "" && section.Term != term {
			continue
		}
		sections = append(sections, section)
	}
	return sections, nil
}

// FindByID returns the stored profile of a fixture student.
func (f *FixtureSource) FindByID(ctx context.Context, id string) (*models.StudentProfile, error) {
	student, ok := f.students[id]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}
	return &models.StudentProfile{
		ID:                  student.ID,
		FullName:            student.FullName,
		Program:             student.Program,
		SchedulePreferences: student.SchedulePreferences,
		Extracurriculars:    student.Extracurriculars,
		IdealMinCredits:     student.IdealCreditRange.Min,
		IdealMaxCredits:     student.IdealCreditRange.Max,
	}, nil
}

// Save discards schedules; fixture runs are not persisted.
func (f *FixtureSource) Save(ctx context.Context, schedule *models.StudentSchedule) error {
	return nil
}
