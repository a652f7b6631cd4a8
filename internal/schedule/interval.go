// Package schedule holds the calendar value types the availability engine
// computes with: wall-clock times of day, weekly timetables, concrete date
// intervals, and blackout periods. All interval comparisons are half-open
// [start, end).
package schedule

import (
	"encoding/json"
	"fmt"
	"time"
)

// SimpleTime is an hour/minute pair with no date or timezone attached.
type SimpleTime struct {
	Hour   int
	Minute int
}

// ParseSimpleTime parses a military-time string such as "0930" or "1700".
// Three-digit strings ("930") are accepted with an implied leading zero.
func ParseSimpleTime(s string) (SimpleTime, error) {
	if len(s) == 3 {
		s = "0" + s
	}
	if len(s) != 4 {
		return SimpleTime{}, fmt.Errorf("schedule: parse time %q: want HHMM", s)
	}
	var hour, minute int
	if _, err := fmt.Sscanf(s, "%02d%02d", &hour, &minute); err != nil {
		return SimpleTime{}, fmt.Errorf("schedule: parse time %q: %w", s, err)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return SimpleTime{}, fmt.Errorf("schedule: parse time %q: out of range", s)
	}
	return SimpleTime{Hour: hour, Minute: minute}, nil
}

// String renders the military-time form, round-tripping ParseSimpleTime.
func (t SimpleTime) String() string {
	return fmt.Sprintf("%02d%02d", t.Hour, t.Minute)
}

// MarshalJSON encodes the military-time string form.
func (t SimpleTime) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

// UnmarshalJSON decodes the military-time string form.
func (t *SimpleTime) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseSimpleTime(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Minutes returns the offset from midnight in minutes.
func (t SimpleTime) Minutes() int {
	return t.Hour*60 + t.Minute
}

// Before reports whether t is earlier in the day than other.
func (t SimpleTime) Before(other SimpleTime) bool {
	return t.Minutes() < other.Minutes()
}

// At anchors the time of day on a concrete date in the given location.
func (t SimpleTime) At(date time.Time, loc *time.Location) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour, t.Minute, 0, 0, loc)
}

// TimeInterval is an open span within a single weekday, from < to.
type TimeInterval struct {
	From SimpleTime `json:"from"`
	To   SimpleTime `json:"to"`
}

// NewTimeInterval builds a TimeInterval, rejecting empty or inverted spans.
func NewTimeInterval(from, to SimpleTime) (TimeInterval, error) {
	if !from.Before(to) {
		return TimeInterval{}, fmt.Errorf("schedule: interval %s-%s: from must precede to", from, to)
	}
	return TimeInterval{From: from, To: to}, nil
}

// MustTimeInterval is NewTimeInterval for statically known values.
func MustTimeInterval(from, to string) TimeInterval {
	f, err := ParseSimpleTime(from)
	if err != nil {
		panic(err)
	}
	t, err := ParseSimpleTime(to)
	if err != nil {
		panic(err)
	}
	iv, err := NewTimeInterval(f, t)
	if err != nil {
		panic(err)
	}
	return iv
}

// On projects the interval onto a concrete date in the given location.
func (iv TimeInterval) On(date time.Time, loc *time.Location) DateInterval {
	return DateInterval{
		Start: iv.From.At(date, loc),
		End:   iv.To.At(date, loc),
	}
}

// DateInterval is a concrete [Start, End) span of instants, Start < End.
// Intervals taking part in one computation share a reference timezone.
type DateInterval struct {
	Start time.Time
	End   time.Time
}

// NewDateInterval builds a DateInterval, rejecting empty or inverted spans.
func NewDateInterval(start, end time.Time) (DateInterval, error) {
	if !start.Before(end) {
		return DateInterval{}, fmt.Errorf("schedule: date interval: start %s must precede end %s", start, end)
	}
	return DateInterval{Start: start, End: end}, nil
}

// Duration returns End - Start.
func (di DateInterval) Duration() time.Duration {
	return di.End.Sub(di.Start)
}

// Contains reports whether t falls inside [Start, End).
func (di DateInterval) Contains(t time.Time) bool {
	return !t.Before(di.Start) && t.Before(di.End)
}

// Overlaps reports whether two half-open intervals share any instant.
func (di DateInterval) Overlaps(other DateInterval) bool {
	return di.Start.Before(other.End) && other.Start.Before(di.End)
}

// Intersect returns the overlapping portion of two intervals, if any.
func (di DateInterval) Intersect(other DateInterval) (DateInterval, bool) {
	start := di.Start
	if other.Start.After(start) {
		start = other.Start
	}
	end := di.End
	if other.End.Before(end) {
		end = other.End
	}
	if !start.Before(end) {
		return DateInterval{}, false
	}
	return DateInterval{Start: start, End: end}, true
}

// Subtract removes other from di, returning the zero, one, or two
// surviving pieces. A blackout inside an open span clips it rather than
// discarding the whole span.
func (di DateInterval) Subtract(other DateInterval) []DateInterval {
	if !di.Overlaps(other) {
		return []DateInterval{di}
	}
	var out []DateInterval
	if di.Start.Before(other.Start) {
		out = append(out, DateInterval{Start: di.Start, End: other.Start})
	}
	if other.End.Before(di.End) {
		out = append(out, DateInterval{Start: other.End, End: di.End})
	}
	return out
}

// SubtractAll removes every busy interval from every open interval.
func SubtractAll(open []DateInterval, busy []DateInterval) []DateInterval {
	for _, b := range busy {
		var next []DateInterval
		for _, o := range open {
			next = append(next, o.Subtract(b)...)
		}
		open = next
	}
	return open
}
