package models

// CourseSection is one offered meeting pattern of a course in a term.
type CourseSection struct {
	SectionID   string `db:"section_id" json:"section_id" yaml:"section_id"`
	CourseCode  string `db:"course_code" json:"course_code" yaml:"course_code"`
	CourseTitle string `db:"course_title" json:"course_title" yaml:"course_title"`
	Term        string `db:"term" json:"term,omitempty" yaml:"term"`
	Credits     int    `db:"credits" json:"credits" yaml:"credits"`
	DayPattern  string `db:"day_pattern" json:"day_pattern" yaml:"day_pattern"`
	StartTime   string `db:"start_time" json:"start_time" yaml:"start_time"`
	EndTime     string `db:"end_time" json:"end_time" yaml:"end_time"`
	Instructor  string `db:"instructor" json:"instructor" yaml:"instructor"`
	Location    string `db:"location" json:"location" yaml:"location"`

	RequirementType     RequirementType `db:"-" json:"requirement_type,omitempty" yaml:"-"`
	RequirementCategory string          `db:"-" json:"requirement_category,omitempty" yaml:"-"`
	Priority            float64         `db:"-" json:"priority,omitempty" yaml:"-"`
	AlignmentScore      *float64        `db:"-" json:"alignment_score,omitempty" yaml:"-"`
	AlignmentReason     string          `db:"-" json:"alignment_reason,omitempty" yaml:"-"`
	Score               float64         `db:"-" json:"score" yaml:"-"`
	Explanations        []string        `db:"-" json:"explanations,omitempty" yaml:"-"`
}
