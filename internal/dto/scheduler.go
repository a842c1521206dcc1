package dto

// BuildScheduleRequest asks the builder for a schedule in one term.
type BuildScheduleRequest struct {
	Term string `json:"term" validate:"required,max=64"`
}

// ScheduleListQuery filters stored schedules for a student.
type ScheduleListQuery struct {
	Term string `form:"term" json:"term"`
}

// ExportScheduleQuery selects the export format.
type ExportScheduleQuery struct {
	Format string `form:"format" json:"format" validate:"omitempty,oneof=csv pdf"`
}

// UpdatePreferencesRequest replaces a student's stored scheduling preferences.
type UpdatePreferencesRequest struct {
	SchedulePreferences []string `json:"schedule_preferences" validate:"max=20,dive,required,max=200"`
	Extracurriculars    []string `json:"extracurriculars" validate:"max=20,dive,required,max=200"`
	IdealMinCredits     int      `json:"ideal_min_credits" validate:"omitempty,min=1,max=24"`
	IdealMaxCredits     int      `json:"ideal_max_credits" validate:"omitempty,min=1,max=24,gtefield=IdealMinCredits"`
}
