package service

import (
	"fmt"

	"github.com/parkermclaren/advisor-mvp/internal/models"
)

const (
	earlyMorningPenalty  = 30.0
	afternoonBonus       = 20.0
	dayPatternBonus      = 25.0
	backToBackAdjustment = 15.0
	earlyMorningCutoff   = 10
	afternoonStartHour   = 12
)

// ScoreSection rates a candidate against the student's preference rules and the
// sections already committed. It returns the priority-plus-adjustments score
// and one human-readable line per adjustment applied.
func ScoreSection(section models.CourseSection, rules []models.PreferenceRule, chosen []models.CourseSection) (float64, []string) {
	score := section.Priority
	var explanations []string

	if section.AlignmentScore != nil {
		score += *section.AlignmentScore
		line := fmt.Sprintf("Aligned with your goals %+.2f", *section.AlignmentScore)
		if section.AlignmentReason != "" {
			line = fmt.Sprintf("%s: %s", line, section.AlignmentReason)
		}
		explanations = append(explanations, line)
	}

	hour := startHour(section.StartTime)
	for _, rule := range rules {
		switch rule.Kind {
		case models.PreferenceTimeOfDay:
			switch rule.Value {
			case models.TimeOfDayNoEarlyMorning:
				if hour < earlyMorningCutoff {
					delta := earlyMorningPenalty * rule.Weight
					score -= delta
					explanations = append(explanations, fmt.Sprintf("Starts at %s, before 10am %+.1f", section.StartTime, -delta))
				}
			case models.TimeOfDayAfternoon:
				if hour >= afternoonStartHour {
					delta := afternoonBonus * rule.Weight
					score += delta
					explanations = append(explanations, fmt.Sprintf("Afternoon start fits your preference %+.1f", delta))
				}
			}
		case models.PreferenceDayPattern:
			if section.DayPattern == rule.Value {
				delta := dayPatternBonus * rule.Weight
				score += delta
				explanations = append(explanations, fmt.Sprintf("Meets on your preferred %s pattern %+.1f", rule.Value, delta))
			}
		case models.PreferenceBackToBack:
			neighbour, ok := firstAdjacent(section, chosen)
			if !ok {
				continue
			}
			delta := backToBackAdjustment * rule.Weight
			if rule.Enabled() {
				score += delta
				explanations = append(explanations, fmt.Sprintf("Back-to-back with %s %+.1f", neighbour.CourseCode, delta))
			} else {
				score -= delta
				explanations = append(explanations, fmt.Sprintf("Back-to-back with %s, which you prefer to avoid %+.1f", neighbour.CourseCode, -delta))
			}
		}
	}

	return score, explanations
}

// firstAdjacent reports the first chosen section that starts or ends right
// against section. The back-to-back adjustment applies once however many match.
func firstAdjacent(section models.CourseSection, chosen []models.CourseSection) (models.CourseSection, bool) {
	for _, other := range chosen {
		if sectionsAdjacent(timesOf(section), timesOf(other)) {
			return other, true
		}
	}
	return models.CourseSection{}, false
}

func timesOf(section models.CourseSection) sectionTimes {
	return sectionTimes{DayPattern: section.DayPattern, StartTime: section.StartTime, EndTime: section.EndTime}
}
