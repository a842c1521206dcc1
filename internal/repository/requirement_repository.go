package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/parkermclaren/advisor-mvp/internal/models"
)

// RequirementRepository reads a student's degree requirements and their candidate courses.
type RequirementRepository struct {
	db *sqlx.DB
}

// NewRequirementRepository constructs repository.
func NewRequirementRepository(db *sqlx.DB) *RequirementRepository {
	return &RequirementRepository{db: db}
}

const listStudentRequirementsQuery = `SELECT r.id AS requirement_id, r.title, r.requirement_type, r.category, r.required_credits,
        sr.satisfied, rc.course_code, c.title AS course_title, c.credits
        FROM student_requirements sr
        JOIN requirements r ON r.id = sr.requirement_id
        LEFT JOIN requirement_courses rc ON rc.requirement_id = r.id
        LEFT JOIN courses c ON c.code = rc.course_code
        WHERE sr.student_id = $1
        ORDER BY CASE r.requirement_type WHEN 'CORE' THEN 0 WHEN 'GEN_ED' THEN 1 ELSE 2 END, r.position, r.id, rc.position`

// ListForStudent returns every requirement tracked for the student, satisfied ones
// included, in catalog order with candidate courses attached.
func (r *RequirementRepository) ListForStudent(ctx context.Context, studentID string) ([]models.Requirement, error) {
	var rows []models.RequirementCourseRow
	if err := r.db.SelectContext(ctx, &rows, listStudentRequirementsQuery, studentID); err != nil {
		return nil, fmt.Errorf("list student requirements: %w", err)
	}
	return groupRequirementRows(rows), nil
}

func groupRequirementRows(rows []models.RequirementCourseRow) []models.Requirement {
	requirements := make([]models.Requirement, 0)
	index := make(map[string]int)
	for _, row := range rows {
		i, ok := index[row.RequirementID]
		if !ok {
			i = len(requirements)
			index[row.RequirementID] = i
			requirements = append(requirements, models.Requirement{
				ID:              row.RequirementID,
				Title:           row.Title,
				Type:            models.RequirementType(strings.ToUpper(strings.TrimSpace(row.Type))),
				Category:        deref(row.Category),
				RequiredCredits: row.RequiredCredits,
				Satisfied:       row.Satisfied,
				Courses:         []models.CandidateCourse{},
			})
		}
		if row.CourseCode == nil || *row.CourseCode == "" {
			continue
		}
		course := models.CandidateCourse{CourseCode: *row.CourseCode, CourseTitle: deref(row.CourseTitle)}
		if row.Credits != nil {
			course.Credits = *row.Credits
		}
		requirements[i].Courses = append(requirements[i].Courses, course)
	}
	return requirements
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
