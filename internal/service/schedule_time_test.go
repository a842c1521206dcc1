package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeToMinutesAfternoonShorthand(t *testing.T) {
	assert.Equal(t, 810, TimeToMinutes("1:30"))
	assert.Equal(t, 810, TimeToMinutes("13:30"))
	assert.Equal(t, 600, TimeToMinutes("10:00"))
	assert.Equal(t, 0, TimeToMinutes("0:00"))
	assert.Equal(t, 7*60+12*60, TimeToMinutes("07:00"))
	assert.Equal(t, 8*60, TimeToMinutes("08:00"))
	assert.Equal(t, 23*60+59, TimeToMinutes("23:59"))
	assert.Equal(t, 9*60, TimeToMinutes("09:00:00"))
}

func TestParseClockRejectsMalformed(t *testing.T) {
	for _, raw := range []string{"", "9", "nine:00", "24:00", "10:60", "10:00:00:00"} {
		_, err := ParseClock(raw)
		require.Error(t, err, raw)
	}
	assert.Equal(t, 0, TimeToMinutes("garbage"))
}

func TestHasTimeConflictBoundaries(t *testing.T) {
	assert.False(t, HasTimeConflict("M", "09:00", "10:00", "M", "10:00", "11:00"), "touching boundary")
	assert.True(t, HasTimeConflict("M", "09:00", "10:01", "M", "10:00", "11:00"))
	assert.False(t, HasTimeConflict("T", "09:00", "10:00", "W", "09:00", "10:00"), "disjoint days")
	assert.True(t, HasTimeConflict("MWF", "11:00", "11:50", "TRF", "11:30", "12:20"))
	assert.True(t, HasTimeConflict("TR", "1:00", "2:15", "R", "13:30", "14:00"), "shorthand hours compare as PM")
}

func TestSectionsAdjacent(t *testing.T) {
	first := sectionTimes{DayPattern: "MWF", StartTime: "09:00", EndTime: "09:50"}
	assert.True(t, sectionsAdjacent(first, sectionTimes{DayPattern: "MW", StartTime: "10:00", EndTime: "10:50"}))
	assert.True(t, sectionsAdjacent(sectionTimes{DayPattern: "M", StartTime: "08:00", EndTime: "08:45"}, first))
	assert.False(t, sectionsAdjacent(first, sectionTimes{DayPattern: "MW", StartTime: "10:06", EndTime: "11:00"}))
	assert.False(t, sectionsAdjacent(first, sectionTimes{DayPattern: "TR", StartTime: "10:00", EndTime: "10:50"}))
	assert.False(t, sectionsAdjacent(first, sectionTimes{DayPattern: "M", StartTime: "09:30", EndTime: "10:30"}))
}

func TestValidDayPattern(t *testing.T) {
	assert.True(t, validDayPattern("MWF"))
	assert.True(t, validDayPattern("TR"))
	assert.False(t, validDayPattern(""))
	assert.False(t, validDayPattern("MM"))
	assert.False(t, validDayPattern("MS"))
}
