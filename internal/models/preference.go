package models

// PreferenceKind classifies a normalized scheduling preference.
type PreferenceKind string

const (
	PreferenceTimeOfDay  PreferenceKind = "time_of_day"
	PreferenceDayPattern PreferenceKind = "day_pattern"
	PreferenceBackToBack PreferenceKind = "back_to_back"
	PreferenceOther      PreferenceKind = "other"
)

// Known time_of_day values.
const (
	TimeOfDayNoEarlyMorning = "no_early_morning"
	TimeOfDayAfternoon      = "afternoon"
)

// PreferenceRule is one weighted preference consumed by the section scorer.
// Value holds the day pattern, time-of-day token, "true"/"false" for
// back_to_back, or the original text for other.
type PreferenceRule struct {
	Kind   PreferenceKind `json:"type"`
	Value  string         `json:"value"`
	Weight float64        `json:"weight"`
}

// Enabled interprets Value as a boolean flag.
func (p PreferenceRule) Enabled() bool {
	return p.Value == "true"
}
