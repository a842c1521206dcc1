package models

import (
	"time"

	"github.com/lib/pq"
)

// StudentProfile holds the advising inputs stored per student.
type StudentProfile struct {
	ID                  string         `db:"id" json:"id"`
	FullName            string         `db:"full_name" json:"full_name"`
	Program             string         `db:"program" json:"program"`
	SchedulePreferences pq.StringArray `db:"schedule_preferences" json:"schedule_preferences"`
	Extracurriculars    pq.StringArray `db:"extracurriculars" json:"extracurriculars"`
	IdealMinCredits     int            `db:"ideal_min_credits" json:"ideal_min_credits"`
	IdealMaxCredits     int            `db:"ideal_max_credits" json:"ideal_max_credits"`
	UpdatedAt           time.Time      `db:"updated_at" json:"updated_at"`
}

// StudentPreferences is the preference view returned to clients.
type StudentPreferences struct {
	StudentID           string           `json:"student_id"`
	SchedulePreferences []string         `json:"schedule_preferences"`
	Extracurriculars    []string         `json:"extracurriculars"`
	CreditRange         CreditRange      `json:"credit_range"`
	Rules               []PreferenceRule `json:"rules"`
}
