package history

// Rounding of observation timestamps to clean hourly buckets.

import (
	"time"

	"fdf-monitor/internal/infra/fs"
)

const (
	// DefaultLowerBand: minute <= 2 stays in the current hour.
	DefaultLowerBand = 2
	// StrictLowerBand is the tighter variant, minute <= 1.
	StrictLowerBand = 1
	// DefaultUpperBand: minute >= 58 moves to the next hour.
	DefaultUpperBand = 58
)

// AlignToHour snaps t to the nearest hour using the default bands.
func AlignToHour(t time.Time) time.Time {
	return AlignToHourBands(t, DefaultLowerBand, DefaultUpperBand)
}

// AlignToHourBands snaps t to a top of hour. Exact hours are returned as is.
// Minutes at or above upper go forward, at or below lower go back, and
// anything in between rounds at the half hour.
func AlignToHourBands(t time.Time, lower, upper int) time.Time {
	if t.Minute() == 0 && t.Second() == 0 {
		return t
	}

	current := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, t.Location())
	next := current.Add(time.Hour)

	switch m := t.Minute(); {
	case m >= upper:
		return next
	case m <= lower:
		return current
	case m >= 30:
		return next
	default:
		return current
	}
}

// AlignRecords returns a copy of records with aligned timestamps and the number
// of rows whose timestamp changed.
func AlignRecords(records []fs.Record, lower, upper int) ([]fs.Record, int) {
	out := make([]fs.Record, len(records))
	changed := 0
	for i, r := range records {
		aligned := AlignToHourBands(r.Timestamp, lower, upper)
		if !aligned.Equal(r.Timestamp) {
			changed++
		}
		r.Timestamp = aligned
		out[i] = r
	}
	return out, changed
}
