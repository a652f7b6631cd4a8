package schedule

import (
	"fmt"
	"time"
)

// BlackoutLayout is the stored wall-clock form of blackout bounds. The
// value carries no zone: it means this exact local time in whatever
// location the consuming computation runs in.
const BlackoutLayout = "2006-01-02 15:04"

// BlackoutPeriod is a zone-neutral local wall-clock closure window as
// stored on a specialist or market record.
type BlackoutPeriod struct {
	ID    string `json:"id"`
	Start string `json:"start"`
	End   string `json:"end"`
}

// DroppedBlackout records one blackout entry that failed to resolve.
type DroppedBlackout struct {
	ID     string
	Reason error
}

// Resolution is the outcome of resolving a blackout set: the intervals
// that resolved plus the entries that were dropped, so callers can tell
// partial data from total failure.
type Resolution struct {
	Intervals []DateInterval
	Dropped   []DroppedBlackout
}

// ResolveBlackouts interprets each blackout's wall-clock bounds directly
// in loc. Malformed entries never abort the whole set: they are recorded
// in Dropped and skipped.
func ResolveBlackouts(periods []BlackoutPeriod, loc *time.Location) Resolution {
	var res Resolution
	for _, p := range periods {
		iv, err := resolveBlackout(p, loc)
		if err != nil {
			res.Dropped = append(res.Dropped, DroppedBlackout{ID: p.ID, Reason: err})
			continue
		}
		res.Intervals = append(res.Intervals, iv)
	}
	return res
}

func resolveBlackout(p BlackoutPeriod, loc *time.Location) (DateInterval, error) {
	start, err := time.ParseInLocation(BlackoutLayout, p.Start, loc)
	if err != nil {
		return DateInterval{}, fmt.Errorf("schedule: blackout start %q: %w", p.Start, err)
	}
	end, err := time.ParseInLocation(BlackoutLayout, p.End, loc)
	if err != nil {
		return DateInterval{}, fmt.Errorf("schedule: blackout end %q: %w", p.End, err)
	}
	return NewDateInterval(start, end)
}

// DropPast filters out intervals that ended at or before now. Applied at
// the read boundary; stored blackout sets are never mutated.
func DropPast(intervals []DateInterval, now time.Time) []DateInterval {
	var out []DateInterval
	for _, iv := range intervals {
		if iv.End.After(now) {
			out = append(out, iv)
		}
	}
	return out
}
