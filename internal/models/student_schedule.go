package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// ConflictType classifies a recorded shortfall in a build.
type ConflictType string

const (
	ConflictTime                ConflictType = "time_conflict"
	ConflictPreferenceViolation ConflictType = "preference_violation"
	ConflictMissingRequirement  ConflictType = "missing_requirement"
)

// ConflictSeverity ranks a conflict for the caller.
type ConflictSeverity string

const (
	SeverityHigh   ConflictSeverity = "high"
	SeverityMedium ConflictSeverity = "medium"
	SeverityLow    ConflictSeverity = "low"
)

// ScheduleConflict records a constraint the build could not fully honour.
type ScheduleConflict struct {
	Type              ConflictType     `json:"type"`
	Description       string           `json:"description"`
	Severity          ConflictSeverity `json:"severity"`
	AffectedCourses   []string         `json:"affected_courses"`
	ResolutionOptions []string         `json:"resolution_options,omitempty"`
}

// TimeBlock is one meeting of a section on a given weekday.
type TimeBlock struct {
	CourseCode string `json:"course_code"`
	SectionID  string `json:"section_id"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	Location   string `json:"location,omitempty"`
}

// ScheduleStats aggregates shape metrics of a built schedule.
type ScheduleStats struct {
	EarlyMorningClasses        int                    `json:"early_morning_classes"`
	BackToBackClasses          int                    `json:"back_to_back_classes"`
	PreferredDayPatternClasses int                    `json:"preferred_day_pattern_classes"`
	TimeBlocks                 map[string][]TimeBlock `json:"time_blocks"`
}

// StudentSchedule is the output of one build.
type StudentSchedule struct {
	ID           string             `json:"id"`
	StudentID    string             `json:"student_id"`
	Term         string             `json:"term"`
	Sections     []CourseSection    `json:"sections"`
	TotalCredits int                `json:"total_credits"`
	Conflicts    []ScheduleConflict `json:"schedule_conflicts,omitempty"`
	Stats        ScheduleStats      `json:"schedule_stats"`
	Explanations []string           `json:"explanations"`
	CreatedAt    time.Time          `json:"created_at"`
}

// StudentScheduleRecord is the persisted row shape of a StudentSchedule.
type StudentScheduleRecord struct {
	ID           string         `db:"id"`
	StudentID    string         `db:"student_id"`
	Term         string         `db:"term"`
	TotalCredits int            `db:"total_credits"`
	Sections     types.JSONText `db:"sections"`
	Conflicts    types.JSONText `db:"conflicts"`
	Stats        types.JSONText `db:"stats"`
	Explanations types.JSONText `db:"explanations"`
	CreatedAt    time.Time      `db:"created_at"`
}
