package schedule

import "time"

// Weekly maps a weekday to its ordered open intervals. A missing or empty
// entry means closed that day.
type Weekly map[time.Weekday][]TimeInterval

// Intervals returns the open intervals for a weekday, nil when closed.
func (w Weekly) Intervals(day time.Weekday) []TimeInterval {
	if w == nil {
		return nil
	}
	return w[day]
}

// UniformWeekly builds a timetable with the same single interval on each
// of the given weekdays.
func UniformWeekly(iv TimeInterval, days ...time.Weekday) Weekly {
	w := make(Weekly, len(days))
	for _, day := range days {
		w[day] = []TimeInterval{iv}
	}
	return w
}

// DayOverride adjusts a single weekday: either disabled outright or with
// explicit hours replacing the fallback.
type DayOverride struct {
	Disabled bool           `json:"disabled,omitempty"`
	Hours    []TimeInterval `json:"hours,omitempty"`
}

// WeeklyOverrides is a per-entity weekday adjustment set, typically
// decoded from stored schedule configuration.
type WeeklyOverrides map[time.Weekday]DayOverride

// BuildWeekly resolves per-weekday overrides against a fallback timetable.
// A disabled day is closed; explicit hours win over the fallback; an
// absent override degrades to the fallback entry. Never errors.
func BuildWeekly(overrides WeeklyOverrides, fallback Weekly) Weekly {
	out := make(Weekly, 7)
	for day := time.Sunday; day <= time.Saturday; day++ {
		override, ok := overrides[day]
		switch {
		case ok && override.Disabled:
			// closed
		case ok && len(override.Hours) > 0:
			out[day] = append([]TimeInterval(nil), override.Hours...)
		default:
			if hours := fallback.Intervals(day); len(hours) > 0 {
				out[day] = append([]TimeInterval(nil), hours...)
			}
		}
	}
	return out
}
