package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parkermclaren/advisor-mvp/internal/models"
)

func floatPtr(v float64) *float64 { return &v }

func TestScoreSectionPriorityOnly(t *testing.T) {
	section := models.CourseSection{CourseCode: "BUS311", DayPattern: "MWF", StartTime: "09:00", EndTime: "09:50", Priority: 100}

	score, explanations := ScoreSection(section, nil, nil)

	assert.Equal(t, 100.0, score)
	assert.Empty(t, explanations)
}

func TestScoreSectionAlignment(t *testing.T) {
	section := models.CourseSection{CourseCode: "MKT220", StartTime: "11:00", EndTime: "11:50", DayPattern: "TR", Priority: 10, AlignmentScore: floatPtr(0.8), AlignmentReason: "matches marketing interest"}

	score, explanations := ScoreSection(section, nil, nil)

	assert.InDelta(t, 10.8, score, 1e-9)
	require.Len(t, explanations, 1)
	assert.Contains(t, explanations[0], "matches marketing interest")
}

func TestScoreSectionEarlyMorningPenaltyUsesCorrectedHour(t *testing.T) {
	rules := []models.PreferenceRule{{Kind: models.PreferenceTimeOfDay, Value: models.TimeOfDayNoEarlyMorning, Weight: 1.0}}

	early, _ := ScoreSection(models.CourseSection{StartTime: "08:00", EndTime: "08:50", DayPattern: "MWF", Priority: 100}, rules, nil)
	shorthand, _ := ScoreSection(models.CourseSection{StartTime: "1:30", EndTime: "2:45", DayPattern: "MWF", Priority: 100}, rules, nil)
	late, _ := ScoreSection(models.CourseSection{StartTime: "10:00", EndTime: "10:50", DayPattern: "MWF", Priority: 100}, rules, nil)

	assert.Equal(t, 70.0, early)
	assert.Equal(t, 100.0, shorthand, "1:30 is an afternoon start")
	assert.Equal(t, 100.0, late)
}

func TestScoreSectionAfternoonBonus(t *testing.T) {
	rules := []models.PreferenceRule{{Kind: models.PreferenceTimeOfDay, Value: models.TimeOfDayAfternoon, Weight: 0.5}}

	score, explanations := ScoreSection(models.CourseSection{StartTime: "2:00", EndTime: "3:15", DayPattern: "TR"}, rules, nil)

	assert.Equal(t, 10.0, score)
	assert.Len(t, explanations, 1)
}

func TestScoreSectionDayPatternExactMatch(t *testing.T) {
	rules := []models.PreferenceRule{{Kind: models.PreferenceDayPattern, Value: "MWF", Weight: 0.8}}

	match, _ := ScoreSection(models.CourseSection{DayPattern: "MWF", StartTime: "10:00", EndTime: "10:50", Priority: 50}, rules, nil)
	subset, _ := ScoreSection(models.CourseSection{DayPattern: "MW", StartTime: "10:00", EndTime: "10:50", Priority: 50}, rules, nil)

	assert.InDelta(t, 70.0, match, 1e-9)
	assert.Equal(t, 50.0, subset)
}

func TestScoreSectionBackToBack(t *testing.T) {
	chosen := []models.CourseSection{
		{CourseCode: "ACC201", DayPattern: "MWF", StartTime: "09:00", EndTime: "09:50"},
		{CourseCode: "FIN301", DayPattern: "TR", StartTime: "11:00", EndTime: "12:15"},
	}
	candidate := models.CourseSection{CourseCode: "BUS311", DayPattern: "MW", StartTime: "10:00", EndTime: "10:50", Priority: 100}

	liked, likedWhy := ScoreSection(candidate, []models.PreferenceRule{{Kind: models.PreferenceBackToBack, Value: "true", Weight: 0.6}}, chosen)
	avoided, avoidedWhy := ScoreSection(candidate, []models.PreferenceRule{{Kind: models.PreferenceBackToBack, Value: "false", Weight: 0.6}}, chosen)

	assert.InDelta(t, 109.0, liked, 1e-9)
	assert.InDelta(t, 91.0, avoided, 1e-9)
	require.Len(t, likedWhy, 1)
	assert.Contains(t, likedWhy[0], "ACC201")
	require.Len(t, avoidedWhy, 1)
	assert.Contains(t, avoidedWhy[0], "prefer to avoid")
}

func TestScoreSectionBackToBackAppliesOnceBetweenTwoNeighbours(t *testing.T) {
	chosen := []models.CourseSection{
		{CourseCode: "ACC201", DayPattern: "MWF", StartTime: "09:00", EndTime: "09:50"},
		{CourseCode: "FIN301", DayPattern: "MWF", StartTime: "11:00", EndTime: "11:50"},
	}
	candidate := models.CourseSection{CourseCode: "BUS311", DayPattern: "MW", StartTime: "10:00", EndTime: "10:50", Priority: 100}

	liked, likedWhy := ScoreSection(candidate, []models.PreferenceRule{{Kind: models.PreferenceBackToBack, Value: "true", Weight: 0.6}}, chosen)
	avoided, avoidedWhy := ScoreSection(candidate, []models.PreferenceRule{{Kind: models.PreferenceBackToBack, Value: "false", Weight: 0.6}}, chosen)

	assert.InDelta(t, 109.0, liked, 1e-9)
	assert.InDelta(t, 91.0, avoided, 1e-9)
	require.Len(t, likedWhy, 1)
	assert.Contains(t, likedWhy[0], "ACC201")
	require.Len(t, avoidedWhy, 1)
}

func TestScoreSectionIgnoresOtherRules(t *testing.T) {
	rules := []models.PreferenceRule{{Kind: models.PreferenceOther, Value: "Keep Fridays light", Weight: 0.5}}

	score, explanations := ScoreSection(models.CourseSection{DayPattern: "F", StartTime: "08:00", EndTime: "08:50", Priority: 10}, rules, nil)

	assert.Equal(t, 10.0, score)
	assert.Empty(t, explanations)
}
