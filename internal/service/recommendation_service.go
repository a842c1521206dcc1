package service

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/parkermclaren/advisor-mvp/internal/models"
	appErrors "github.com/parkermclaren/advisor-mvp/pkg/errors"
)

type requirementLister interface {
	ListForStudent(ctx context.Context, studentID string) ([]models.Requirement, error)
}

// RecommendationService turns a student's outstanding requirements into tiered
// recommendation categories for the schedule builder.
type RecommendationService struct {
	requirements requirementLister
	students     studentProfileReader
	alignment    AlignmentProvider
	logger       *zap.Logger
}

// NewRecommendationService constructs the requirement source. A nil provider disables alignment.
func NewRecommendationService(requirements requirementLister, students studentProfileReader, alignment AlignmentProvider, logger *zap.Logger) *RecommendationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if alignment == nil {
		alignment = NoopAlignmentProvider{}
	}
	return &RecommendationService{requirements: requirements, students: students, alignment: alignment, logger: logger}
}

// GetRecommendedCourses returns outstanding requirements grouped CORE, GEN_ED, then
// ELECTIVE, with elective candidates ordered by alignment.
func (s *RecommendationService) GetRecommendedCourses(ctx context.Context, studentID string) (*models.RecommendedCourses, error) {
	profile, err := s.students.FindByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Upstream(err, "failed to load student profile")
	}

	requirements, err := s.requirements.ListForStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Upstream(err, "failed to load requirements")
	}

	result := &models.RecommendedCourses{
		Categories: groupRequirements(requirements),
		IdealCreditRange: models.CreditRange{
			Min: profile.IdealMinCredits,
			Max: profile.IdealMaxCredits,
		},
	}
	s.applyAlignment(ctx, studentID, result.Categories)
	return result, nil
}

func (s *RecommendationService) applyAlignment(ctx context.Context, studentID string, categories []models.RecommendationCategory) {
	var electives []models.CandidateCourse
	for _, category := range categories {
		if category.Type == models.RequirementElective {
			electives = append(electives, category.Recommendations...)
		}
	}
	if len(electives) == 0 {
		return
	}

	alignments, err := s.alignment.Align(ctx, studentID, electives)
	if err != nil {
		s.logger.Warn("alignment unavailable, keeping catalog order", zap.String("student_id", studentID), zap.Error(err))
		return
	}

	for i := range categories {
		if categories[i].Type != models.RequirementElective {
			continue
		}
		recs := categories[i].Recommendations
		for j := range recs {
			if alignment, ok := alignments[recs[j].CourseCode]; ok {
				score := alignment.Score
				recs[j].AlignmentScore = &score
				recs[j].AlignmentReason = alignment.Reason
			}
		}
		sort.SliceStable(recs, func(a, b int) bool {
			return alignmentValue(recs[a]) > alignmentValue(recs[b])
		})
	}
}

// alignmentValue sorts unscored courses after every scored one.
func alignmentValue(c models.CandidateCourse) float64 {
	if c.AlignmentScore == nil {
		return -1
	}
	return *c.AlignmentScore
}

// groupRequirements drops satisfied requirements and merges the rest into categories,
// tier by tier, preserving requirement order.
func groupRequirements(requirements []models.Requirement) []models.RecommendationCategory {
	var categories []models.RecommendationCategory
	for _, tier := range tierOrder {
		index := make(map[string]int)
		for _, req := range requirements {
			if req.Satisfied || tierOf(req.Type) != tier {
				continue
			}
			name := strings.TrimSpace(req.Title)
			if tier == models.RequirementGenEd && strings.TrimSpace(req.Category) != "" {
				name = strings.TrimSpace(req.Category)
			}

			i, ok := index[name]
			if !ok {
				i = len(categories)
				index[name] = i
				categories = append(categories, models.RecommendationCategory{Name: name, Type: tier, Recommendations: []models.CandidateCourse{}})
			}
			for _, course := range req.Courses {
				if strings.TrimSpace(course.CourseCode) == "" && len(course.SpecificCourses) == 0 {
					continue
				}
				categories[i].Recommendations = append(categories[i].Recommendations, course)
			}
		}
	}
	return categories
}
