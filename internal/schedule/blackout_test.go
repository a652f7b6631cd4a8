package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveBlackoutsInLocation(t *testing.T) {
	loc, err := time.LoadLocation("America/Chicago")
	require.NoError(t, err)

	res := ResolveBlackouts([]BlackoutPeriod{
		{ID: "b1", Start: "2026-03-10 12:00", End: "2026-03-10 13:00"},
	}, loc)

	require.Len(t, res.Intervals, 1)
	assert.Empty(t, res.Dropped)
	assert.Equal(t, time.Date(2026, time.March, 10, 12, 0, 0, 0, loc), res.Intervals[0].Start)
	assert.Equal(t, time.Date(2026, time.March, 10, 13, 0, 0, 0, loc), res.Intervals[0].End)
}

func TestResolveBlackoutsDropsMalformedAndContinues(t *testing.T) {
	res := ResolveBlackouts([]BlackoutPeriod{
		{ID: "bad-start", Start: "not a date", End: "2026-03-10 13:00"},
		{ID: "ok", Start: "2026-03-11 09:00", End: "2026-03-11 10:00"},
		{ID: "inverted", Start: "2026-03-12 14:00", End: "2026-03-12 13:00"},
	}, time.UTC)

	require.Len(t, res.Intervals, 1)
	require.Len(t, res.Dropped, 2)
	assert.Equal(t, "bad-start", res.Dropped[0].ID)
	assert.Error(t, res.Dropped[0].Reason)
	assert.Equal(t, "inverted", res.Dropped[1].ID)
}

func TestDropPast(t *testing.T) {
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	intervals := []DateInterval{
		{Start: now.Add(-2 * time.Hour), End: now.Add(-time.Hour)},
		{Start: now.Add(-time.Hour), End: now.Add(time.Hour)},
		{Start: now.Add(time.Hour), End: now.Add(2 * time.Hour)},
	}

	got := DropPast(intervals, now)
	require.Len(t, got, 2)
	assert.Equal(t, intervals[1], got[0])
	assert.Equal(t, intervals[2], got[1])
}
