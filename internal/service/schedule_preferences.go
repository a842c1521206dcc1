package service

import (
	"strings"

	"github.com/parkermclaren/advisor-mvp/internal/models"
)

const (
	phraseNoEarlyMorning = "Avoid classes before 10am"
	phraseDayPattern     = "Prefer classes on "
	phraseBackToBack     = "back-to-back"
)

// ParsePreferences normalizes stored free-text preferences into weighted rules,
// preserving input order. Extracurricular commitments are accepted but do not
// produce rules yet.
func ParsePreferences(preferences []string, extracurriculars []string) []models.PreferenceRule {
	_ = extracurriculars

	rules := make([]models.PreferenceRule, 0, len(preferences))
	for _, pref := range preferences {
		switch {
		case strings.Contains(pref, phraseNoEarlyMorning):
			rules = append(rules, models.PreferenceRule{Kind: models.PreferenceTimeOfDay, Value: models.TimeOfDayNoEarlyMorning, Weight: 1.0})
		case strings.Contains(pref, phraseDayPattern):
			pattern := strings.TrimSpace(strings.Split(pref, "on ")[1])
			rules = append(rules, models.PreferenceRule{Kind: models.PreferenceDayPattern, Value: pattern, Weight: 0.8})
		case strings.Contains(pref, phraseBackToBack):
			rules = append(rules, models.PreferenceRule{Kind: models.PreferenceBackToBack, Value: "true", Weight: 0.6})
		default:
			rules = append(rules, models.PreferenceRule{Kind: models.PreferenceOther, Value: pref, Weight: 0.5})
		}
	}
	return rules
}

// preferredDayPattern returns the first day_pattern rule value, if any.
func preferredDayPattern(rules []models.PreferenceRule) string {
	for _, rule := range rules {
		if rule.Kind == models.PreferenceDayPattern {
			return rule.Value
		}
	}
	return ""
}
