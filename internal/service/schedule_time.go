package service

import (
	"fmt"
	"strconv"
	"strings"
)

// backToBackGapMinutes is the widest gap still counted as back-to-back.
const backToBackGapMinutes = 15

var weekdayNames = []struct {
	Letter byte
	Name   string
}{
	{'M', "Monday"},
	{'T', "Tuesday"},
	{'W', "Wednesday"},
	{'R', "Thursday"},
	{'F', "Friday"},
}

// ParseClock converts an "HH:MM" (or "HH:MM:SS") clock string into minutes since
// midnight. Hours 1 through 7 are catalog shorthand for afternoon meetings and get
// 12 added; 0 and 8-23 are taken literally.
func ParseClock(raw string) (int, error) {
	parts := strings.Split(strings.TrimSpace(raw), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("invalid clock value %q", raw)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("invalid hour in %q", raw)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("invalid minute in %q", raw)
	}
	if hour >= 1 && hour <= 7 {
		hour += 12
	}
	return hour*60 + minute, nil
}

// TimeToMinutes is ParseClock for values already known to be well formed; it
// returns 0 when the value cannot be parsed.
func TimeToMinutes(raw string) int {
	minutes, err := ParseClock(raw)
	if err != nil {
		return 0
	}
	return minutes
}

// HasTimeConflict reports whether two meeting patterns share a day and their
// intervals overlap. Touching boundaries do not conflict.
func HasTimeConflict(pattern1, start1, end1, pattern2, start2, end2 string) bool {
	if !sharesDay(pattern1, pattern2) {
		return false
	}
	s1, e1 := TimeToMinutes(start1), TimeToMinutes(end1)
	s2, e2 := TimeToMinutes(start2), TimeToMinutes(end2)
	return !(e1 <= s2 || e2 <= s1)
}

func sectionsConflict(a, b sectionTimes) bool {
	return HasTimeConflict(a.DayPattern, a.StartTime, a.EndTime, b.DayPattern, b.StartTime, b.EndTime)
}

// sectionsAdjacent reports a same-day, non-overlapping pair separated by at most
// backToBackGapMinutes.
func sectionsAdjacent(a, b sectionTimes) bool {
	if !sharesDay(a.DayPattern, b.DayPattern) || sectionsConflict(a, b) {
		return false
	}
	s1, e1 := TimeToMinutes(a.StartTime), TimeToMinutes(a.EndTime)
	s2, e2 := TimeToMinutes(b.StartTime), TimeToMinutes(b.EndTime)
	gap := s2 - e1
	if s1 >= e2 {
		gap = s1 - e2
	}
	return gap >= 0 && gap <= backToBackGapMinutes
}

// sectionTimes is the subset of a section the time helpers need.
type sectionTimes struct {
	DayPattern string
	StartTime  string
	EndTime    string
}

func sharesDay(pattern1, pattern2 string) bool {
	for i := 0; i < len(pattern1); i++ {
		if strings.IndexByte(pattern2, pattern1[i]) >= 0 {
			return true
		}
	}
	return false
}

// validDayPattern accepts a non-empty set of distinct letters from MTWRF.
func validDayPattern(pattern string) bool {
	if pattern == "" {
		return false
	}
	seen := make(map[rune]bool, len(pattern))
	for _, r := range pattern {
		if !strings.ContainsRune("MTWRF", r) || seen[r] {
			return false
		}
		seen[r] = true
	}
	return true
}

func startHour(start string) int {
	return TimeToMinutes(start) / 60
}
