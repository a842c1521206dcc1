package models

// RequirementType is the processing tier of a degree requirement.
type RequirementType string

const (
	RequirementCore     RequirementType = "CORE"
	RequirementGenEd    RequirementType = "GEN_ED"
	RequirementElective RequirementType = "ELECTIVE"
)

// Valid reports whether t is one of the known tiers.
func (t RequirementType) Valid() bool {
	switch t {
	case RequirementCore, RequirementGenEd, RequirementElective:
		return true
	}
	return false
}

// Requirement is one outstanding unit of degree obligation for a student.
type Requirement struct {
	ID              string            `json:"id"`
	Title           string            `json:"title"`
	Type            RequirementType   `json:"type"`
	Category        string            `json:"category,omitempty"`
	RequiredCredits int               `json:"required_credits"`
	Satisfied       bool              `json:"satisfied"`
	Courses         []CandidateCourse `json:"courses"`
}

// RequirementCourseRow is the flattened row read from the requirement view.
type RequirementCourseRow struct {
	RequirementID   string  `db:"requirement_id"`
	Title           string  `db:"title"`
	Type            string  `db:"requirement_type"`
	Category        *string `db:"category"`
	RequiredCredits int     `db:"required_credits"`
	Satisfied       bool    `db:"satisfied"`
	CourseCode      *string `db:"course_code"`
	CourseTitle     *string `db:"course_title"`
	Credits         *int    `db:"credits"`
}

// CandidateCourse is a course that would satisfy a requirement.
type CandidateCourse struct {
	CourseCode      string   `json:"course_code" yaml:"course_code"`
	CourseTitle     string   `json:"course_title" yaml:"course_title"`
	Credits         int      `json:"credits" yaml:"credits"`
	AlignmentScore  *float64 `json:"alignment_score,omitempty" yaml:"alignment_score"`
	AlignmentReason string   `json:"alignment_reason,omitempty" yaml:"alignment_reason"`
	SpecificCourses []string `json:"specific_courses,omitempty" yaml:"specific_courses"`
}

// RecommendationCategory groups candidate courses under one requirement tier.
type RecommendationCategory struct {
	Name            string            `json:"name" yaml:"name"`
	Type            RequirementType   `json:"type" yaml:"type"`
	Recommendations []CandidateCourse `json:"recommendations" yaml:"recommendations"`
}

// CreditRange bounds the credits a student wants in one term.
type CreditRange struct {
	Min int `json:"min" yaml:"min"`
	Max int `json:"max" yaml:"max"`
}

// RecommendedCourses is what the requirement source hands to the schedule builder.
type RecommendedCourses struct {
	Categories       []RecommendationCategory `json:"categories" yaml:"categories"`
	IdealCreditRange CreditRange              `json:"ideal_credit_range" yaml:"ideal_credit_range"`
}

// CourseAlignment is the externally computed relevance of a course to a student's goals.
type CourseAlignment struct {
	CourseCode string  `json:"course_code"`
	Score      float64 `json:"score"`
	Reason     string  `json:"reason"`
}
