package schedule

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildWeeklyFallback(t *testing.T) {
	fallback := UniformWeekly(MustTimeInterval("0800", "1800"),
		time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday)

	built := BuildWeekly(nil, fallback)

	assert.Equal(t, fallback.Intervals(time.Monday), built.Intervals(time.Monday))
	assert.Empty(t, built.Intervals(time.Saturday))
	assert.Empty(t, built.Intervals(time.Sunday))
}

func TestBuildWeeklyDisabledDay(t *testing.T) {
	fallback := UniformWeekly(MustTimeInterval("0800", "1800"), time.Monday, time.Tuesday)
	overrides := WeeklyOverrides{
		time.Monday: {Disabled: true},
	}

	built := BuildWeekly(overrides, fallback)

	assert.Empty(t, built.Intervals(time.Monday))
	assert.Len(t, built.Intervals(time.Tuesday), 1)
}

func TestBuildWeeklyExplicitHoursWin(t *testing.T) {
	fallback := UniformWeekly(MustTimeInterval("0800", "1800"), time.Monday)
	custom := MustTimeInterval("1000", "1400")
	overrides := WeeklyOverrides{
		time.Monday: {Hours: []TimeInterval{custom}},
	}

	built := BuildWeekly(overrides, fallback)

	assert.Equal(t, []TimeInterval{custom}, built.Intervals(time.Monday))
}

func TestBuildWeeklyEmptyOverrideDegradesToFallback(t *testing.T) {
	fallback := UniformWeekly(MustTimeInterval("0800", "1800"), time.Monday)
	overrides := WeeklyOverrides{
		time.Monday: {},
	}

	built := BuildWeekly(overrides, fallback)

	assert.Equal(t, fallback.Intervals(time.Monday), built.Intervals(time.Monday))
}

func TestWeeklyOverridesDecodeFromStoredJSON(t *testing.T) {
	// Shape of the schedule JSONB column: weekday number keys, military
	// time strings.
	doc := `{"1":{"hours":[{"from":"0900","to":"1700"}]},"6":{"disabled":true}}`

	var overrides WeeklyOverrides
	require.NoError(t, json.Unmarshal([]byte(doc), &overrides))

	assert.Equal(t, []TimeInterval{MustTimeInterval("0900", "1700")}, overrides[time.Monday].Hours)
	assert.True(t, overrides[time.Saturday].Disabled)
}
