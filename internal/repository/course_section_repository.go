package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/parkermclaren/advisor-mvp/internal/models"
)

// CourseSectionRepository reads the term section catalog.
type CourseSectionRepository struct {
	db *sqlx.DB
}

// NewCourseSectionRepository constructs repository.
func NewCourseSectionRepository(db *sqlx.DB) *CourseSectionRepository {
	return &CourseSectionRepository{db: db}
}

const listSectionsByCourseTermQuery = `SELECT s.section_id, s.course_code, c.title AS course_title, s.term, COALESCE(s.credits, c.credits) AS credits,
        s.day_pattern, s.start_time, s.end_time, COALESCE(s.instructor, '') AS instructor, COALESCE(s.location, '') AS location
        FROM course_sections s JOIN courses c ON c.code = s.course_code
        WHERE s.course_code = $1 AND s.term = $2 ORDER BY s.section_id`

// ListByCourseTerm returns every section of a course offered in term, ordered by section id.
func (r *CourseSectionRepository) ListByCourseTerm(ctx context.Context, courseCode, term string) ([]models.CourseSection, error) {
	var sections []models.CourseSection
	if err := r.db.SelectContext(ctx, &sections, listSectionsByCourseTermQuery, courseCode, term); err != nil {
		return nil, fmt.Errorf("list sections for %s in %s: %w", courseCode, term, err)
	}
	return sections, nil
}
