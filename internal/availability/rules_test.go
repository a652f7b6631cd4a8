package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noyou75/GitlabsApp-Backend-sub000/internal/schedule"
)

func weekdayTimetable() schedule.Weekly {
	return schedule.UniformWeekly(schedule.MustTimeInterval("0900", "1800"),
		time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday)
}

func TestInitialBlackoutClampedBeforeCutoff(t *testing.T) {
	// 17:30 local, cutoff 18:00: the 24h notice would push the blackout
	// into tomorrow, but the clamp limits it to end-of-today.
	now := tueAt(17, 30)
	blackout, ok := initialBlackout(now, 24*time.Hour, weekdayTimetable(), nil, time.UTC)

	require.True(t, ok)
	assert.Equal(t, now, blackout.Start)
	assert.Equal(t, tuesday.AddDate(0, 0, 1), blackout.End)
}

func TestInitialBlackoutNotClampedAfterCutoff(t *testing.T) {
	// 18:30 local, past the cutoff: the notice carries into tomorrow.
	// Wednesday 18:30 is after close, so the first compliant instant is
	// Thursday 09:00.
	now := tueAt(18, 30)
	blackout, ok := initialBlackout(now, 24*time.Hour, weekdayTimetable(), nil, time.UTC)

	require.True(t, ok)
	assert.Equal(t, now, blackout.Start)
	assert.Equal(t, time.Date(2026, time.March, 12, 9, 0, 0, 0, time.UTC), blackout.End)
}

func TestInitialBlackoutSkipsBlockedDay(t *testing.T) {
	// Wednesday fully blocked pushes the blackout end to Thursday open.
	now := tueAt(18, 30)
	blocked := []schedule.DateInterval{{
		Start: tuesday.AddDate(0, 0, 1),
		End:   tuesday.AddDate(0, 0, 2),
	}}
	blackout, ok := initialBlackout(now, 2*time.Hour, weekdayTimetable(), blocked, time.UTC)

	require.True(t, ok)
	assert.Equal(t, time.Date(2026, time.March, 12, 9, 0, 0, 0, time.UTC), blackout.End)
}

func TestInitialBlackoutEmptyWhenAlreadyCompliant(t *testing.T) {
	// Zero notice inside open hours: no blackout needed.
	_, ok := initialBlackout(tueAt(10, 0), 0, weekdayTimetable(), nil, time.UTC)
	assert.False(t, ok)
}

func TestInitialBlackoutCoversHorizonWhenNothingCompliant(t *testing.T) {
	// A closed timetable yields no compliant instant; the blackout spans
	// the search horizon. 19:00 start avoids the same-day clamp.
	now := tueAt(19, 0)
	blackout, ok := initialBlackout(now, time.Hour, schedule.Weekly{}, nil, time.UTC)

	require.True(t, ok)
	assert.Equal(t, tuesday.AddDate(0, 0, searchHorizonDays), blackout.End)
}

func TestPriorityCutoff(t *testing.T) {
	// Tuesday 10:00 + 2h lands inside office hours.
	cutoff, ok := priorityCutoff(tueAt(10, 0), 2*time.Hour, nil, time.UTC)
	require.True(t, ok)
	assert.Equal(t, tueAt(12, 0), cutoff)

	// Late evening rolls to the next office-hours open.
	cutoff, ok = priorityCutoff(tueAt(20, 0), 2*time.Hour, nil, time.UTC)
	require.True(t, ok)
	assert.Equal(t, time.Date(2026, time.March, 11, 9, 0, 0, 0, time.UTC), cutoff)
}

func TestClassifyPriority(t *testing.T) {
	cutoff := tueAt(12, 0)

	assert.True(t, classifyPriority(tueAt(11, 0), cutoff, true))
	assert.False(t, classifyPriority(tueAt(12, 0), cutoff, true))
	assert.False(t, classifyPriority(tueAt(13, 0), cutoff, true))
	assert.False(t, classifyPriority(tueAt(11, 0), cutoff, false))
}
