package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSimpleTimeRoundTrip(t *testing.T) {
	for _, s := range []string{"0000", "0930", "1700", "2359"} {
		parsed, err := ParseSimpleTime(s)
		require.NoError(t, err)
		assert.Equal(t, s, parsed.String())
	}
}

func TestParseSimpleTimeImpliedLeadingZero(t *testing.T) {
	parsed, err := ParseSimpleTime("930")
	require.NoError(t, err)
	assert.Equal(t, SimpleTime{Hour: 9, Minute: 30}, parsed)
	assert.Equal(t, "0930", parsed.String())
}

func TestParseSimpleTimeRejectsGarbage(t *testing.T) {
	for _, s := range []string{"", "9", "25", "2460", "0960", "12345", "ab30"} {
		_, err := ParseSimpleTime(s)
		assert.Error(t, err, "input %q", s)
	}
}

func TestNewTimeIntervalOrdering(t *testing.T) {
	nine, _ := ParseSimpleTime("0900")
	five, _ := ParseSimpleTime("1700")

	_, err := NewTimeInterval(nine, five)
	assert.NoError(t, err)

	_, err = NewTimeInterval(five, nine)
	assert.Error(t, err)

	_, err = NewTimeInterval(nine, nine)
	assert.Error(t, err)
}

func TestTimeIntervalOn(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	iv := MustTimeInterval("0900", "1700")
	date := time.Date(2026, time.March, 10, 0, 0, 0, 0, loc)
	di := iv.On(date, loc)

	assert.Equal(t, time.Date(2026, time.March, 10, 9, 0, 0, 0, loc), di.Start)
	assert.Equal(t, time.Date(2026, time.March, 10, 17, 0, 0, 0, loc), di.End)
}

func day(h, m int) time.Time {
	return time.Date(2026, time.March, 10, h, m, 0, 0, time.UTC)
}

func TestDateIntervalOverlapsHalfOpen(t *testing.T) {
	a := DateInterval{Start: day(9, 0), End: day(12, 0)}

	assert.True(t, a.Overlaps(DateInterval{Start: day(11, 0), End: day(13, 0)}))
	assert.True(t, a.Overlaps(DateInterval{Start: day(8, 0), End: day(9, 30)}))
	// Touching endpoints do not overlap.
	assert.False(t, a.Overlaps(DateInterval{Start: day(12, 0), End: day(13, 0)}))
	assert.False(t, a.Overlaps(DateInterval{Start: day(8, 0), End: day(9, 0)}))
}

func TestDateIntervalIntersect(t *testing.T) {
	a := DateInterval{Start: day(9, 0), End: day(12, 0)}

	got, ok := a.Intersect(DateInterval{Start: day(10, 0), End: day(14, 0)})
	require.True(t, ok)
	assert.Equal(t, DateInterval{Start: day(10, 0), End: day(12, 0)}, got)

	_, ok = a.Intersect(DateInterval{Start: day(12, 0), End: day(14, 0)})
	assert.False(t, ok)
}

func TestDateIntervalSubtractClips(t *testing.T) {
	open := DateInterval{Start: day(9, 0), End: day(17, 0)}

	// Interior blackout splits the span.
	pieces := open.Subtract(DateInterval{Start: day(12, 0), End: day(13, 0)})
	require.Len(t, pieces, 2)
	assert.Equal(t, DateInterval{Start: day(9, 0), End: day(12, 0)}, pieces[0])
	assert.Equal(t, DateInterval{Start: day(13, 0), End: day(17, 0)}, pieces[1])

	// Leading overlap clips the front.
	pieces = open.Subtract(DateInterval{Start: day(8, 0), End: day(10, 0)})
	require.Len(t, pieces, 1)
	assert.Equal(t, DateInterval{Start: day(10, 0), End: day(17, 0)}, pieces[0])

	// Full cover removes the span.
	pieces = open.Subtract(DateInterval{Start: day(8, 0), End: day(18, 0)})
	assert.Empty(t, pieces)

	// Disjoint leaves it untouched.
	pieces = open.Subtract(DateInterval{Start: day(18, 0), End: day(19, 0)})
	require.Len(t, pieces, 1)
	assert.Equal(t, open, pieces[0])
}

func TestSubtractAll(t *testing.T) {
	open := []DateInterval{{Start: day(9, 0), End: day(17, 0)}}
	busy := []DateInterval{
		{Start: day(12, 0), End: day(13, 0)},
		{Start: day(15, 0), End: day(15, 30)},
	}

	got := SubtractAll(open, busy)
	require.Len(t, got, 3)
	assert.Equal(t, DateInterval{Start: day(9, 0), End: day(12, 0)}, got[0])
	assert.Equal(t, DateInterval{Start: day(13, 0), End: day(15, 0)}, got[1])
	assert.Equal(t, DateInterval{Start: day(15, 30), End: day(17, 0)}, got[2])
}
