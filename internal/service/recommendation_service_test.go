package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parkermclaren/advisor-mvp/internal/models"
	appErrors "github.com/parkermclaren/advisor-mvp/pkg/errors"
)

type requirementListerStub struct {
	requirements []models.Requirement
	err          error
}

func (s *requirementListerStub) ListForStudent(ctx context.Context, studentID string) ([]models.Requirement, error) {
	return s.requirements, s.err
}

type alignmentStub struct {
	result map[string]models.CourseAlignment
	err    error
	seen   []string
}

func (s *alignmentStub) Align(ctx context.Context, studentID string, courses []models.CandidateCourse) (map[string]models.CourseAlignment, error) {
	for _, c := range courses {
		s.seen = append(s.seen, c.CourseCode)
	}
	return s.result, s.err
}

func sampleRequirements() []models.Requirement {
	return []models.Requirement{
		{ID: "r-elec", Title: "Business Electives", Type: models.RequirementElective, Courses: []models.CandidateCourse{course("MKT330", 3), course("FIN350", 3), course("ART200", 3)}},
		{ID: "r-wc", Title: "Gen Ed: World Cultures", Type: models.RequirementGenEd, Category: "World Cultures", Courses: []models.CandidateCourse{course("HIS210", 3)}},
		{ID: "r-core1", Title: "Business Core", Type: models.RequirementCore, Courses: []models.CandidateCourse{course("BUS311", 3)}},
		{ID: "r-done", Title: "Composition", Type: models.RequirementCore, Satisfied: true, Courses: []models.CandidateCourse{course("ENG101", 3)}},
		{ID: "r-wc2", Title: "Gen Ed: World Cultures II", Type: models.RequirementGenEd, Category: "World Cultures", Courses: []models.CandidateCourse{course("ANT150", 3)}},
		{ID: "r-qr", Title: "Quantitative Reasoning", Type: models.RequirementGenEd, Courses: []models.CandidateCourse{course("MAT140", 3)}},
	}
}

func TestRecommendationServiceGroupsByTier(t *testing.T) {
	profiles := &profileStub{profile: &models.StudentProfile{ID: "stu-1", IdealMinCredits: 15, IdealMaxCredits: 17}}
	svc := NewRecommendationService(&requirementListerStub{requirements: sampleRequirements()}, profiles, nil, nil)

	recs, err := svc.GetRecommendedCourses(context.Background(), "stu-1")
	require.NoError(t, err)

	require.Len(t, recs.Categories, 4)
	assert.Equal(t, "Business Core", recs.Categories[0].Name)
	assert.Equal(t, models.RequirementCore, recs.Categories[0].Type)
	assert.Len(t, recs.Categories[0].Recommendations, 1, "satisfied requirement excluded")
	assert.Equal(t, "World Cultures", recs.Categories[1].Name)
	assert.Len(t, recs.Categories[1].Recommendations, 2)
	assert.Equal(t, "Quantitative Reasoning", recs.Categories[2].Name)
	assert.Equal(t, models.RequirementElective, recs.Categories[3].Type)
	assert.Equal(t, models.CreditRange{Min: 15, Max: 17}, recs.IdealCreditRange)
}

func TestRecommendationServiceAlignsElectivesOnly(t *testing.T) {
	alignment := &alignmentStub{result: map[string]models.CourseAlignment{
		"FIN350": {CourseCode: "FIN350", Score: 0.4, Reason: "finance minor"},
		"ART200": {CourseCode: "ART200", Score: 0.9, Reason: "design interest"},
	}}
	svc := NewRecommendationService(&requirementListerStub{requirements: sampleRequirements()}, &profileStub{profile: &models.StudentProfile{ID: "stu-1"}}, alignment, nil)

	recs, err := svc.GetRecommendedCourses(context.Background(), "stu-1")
	require.NoError(t, err)

	assert.Equal(t, []string{"MKT330", "FIN350", "ART200"}, alignment.seen)
	electives := recs.Categories[3].Recommendations
	require.Len(t, electives, 3)
	assert.Equal(t, "ART200", electives[0].CourseCode)
	require.NotNil(t, electives[0].AlignmentScore)
	assert.Equal(t, 0.9, *electives[0].AlignmentScore)
	assert.Equal(t, "design interest", electives[0].AlignmentReason)
	assert.Equal(t, "FIN350", electives[1].CourseCode)
	assert.Equal(t, "MKT330", electives[2].CourseCode)
	assert.Nil(t, electives[2].AlignmentScore)
	assert.Nil(t, recs.Categories[0].Recommendations[0].AlignmentScore)
}

func TestRecommendationServiceAlignmentFailureKeepsOrder(t *testing.T) {
	alignment := &alignmentStub{err: errors.New("timeout")}
	svc := NewRecommendationService(&requirementListerStub{requirements: sampleRequirements()}, &profileStub{profile: &models.StudentProfile{ID: "stu-1"}}, alignment, nil)

	recs, err := svc.GetRecommendedCourses(context.Background(), "stu-1")
	require.NoError(t, err)

	electives := recs.Categories[3].Recommendations
	assert.Equal(t, "MKT330", electives[0].CourseCode)
	assert.Nil(t, electives[0].AlignmentScore)
}

func TestRecommendationServiceErrors(t *testing.T) {
	svc := NewRecommendationService(&requirementListerStub{}, &profileStub{err: sql.ErrNoRows}, nil, nil)
	_, err := svc.GetRecommendedCourses(context.Background(), "stu-404")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)

	svc = NewRecommendationService(&requirementListerStub{err: errors.New("db down")}, &profileStub{profile: &models.StudentProfile{ID: "stu-1"}}, nil, nil)
	_, err = svc.GetRecommendedCourses(context.Background(), "stu-1")
	assert.ErrorIs(t, err, appErrors.ErrUpstream)
}
