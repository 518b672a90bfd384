package history

// Percentage change of the current total against a reference record taken
// from the stored history.

import (
	"time"

	"fdf-monitor/internal/infra/fs"
)

// Change is a comparison against one historical record.
type Change struct {
	Reference fs.Record
	Current   float64
	Percent   float64
}

// Up reports a non-negative change.
func (c Change) Up() bool { return c.Percent >= 0 }

// PercentChange returns (current-reference)/reference*100. It is not defined
// for a non-positive reference.
func PercentChange(current, reference float64) (float64, bool) {
	if reference <= 0 {
		return 0, false
	}
	return (current - reference) / reference * 100, true
}

// ClosestBefore picks, among records at or before now-window, the one closest
// to that cutoff. On equal distance the earlier position in records wins.
func ClosestBefore(records []fs.Record, now time.Time, window time.Duration) (fs.Record, bool) {
	cutoff := now.Add(-window)

	var best fs.Record
	var bestDiff time.Duration
	found := false
	for _, r := range records {
		if r.Timestamp.After(cutoff) {
			continue
		}
		diff := cutoff.Sub(r.Timestamp)
		if !found || diff < bestDiff {
			best, bestDiff, found = r, diff, true
		}
	}
	return best, found
}

// ChangeOver compares current with the record closest to now-window.
func ChangeOver(records []fs.Record, now time.Time, window time.Duration, current float64) (Change, bool) {
	ref, ok := ClosestBefore(records, now, window)
	if !ok {
		return Change{}, false
	}
	return changeAgainst(ref, current)
}

// YesterdayLast returns the last record, in file order, whose calendar date
// is before now's date.
func YesterdayLast(records []fs.Record, now time.Time) (fs.Record, bool) {
	today := dateOf(now, now.Location())

	var last fs.Record
	found := false
	for _, r := range records {
		if dateOf(r.Timestamp, now.Location()).Before(today) {
			last, found = r, true
		}
	}
	return last, found
}

// SinceYesterday compares current with the last record of any earlier day.
func SinceYesterday(records []fs.Record, now time.Time, current float64) (Change, bool) {
	ref, ok := YesterdayLast(records, now)
	if !ok {
		return Change{}, false
	}
	return changeAgainst(ref, current)
}

func changeAgainst(ref fs.Record, current float64) (Change, bool) {
	pct, ok := PercentChange(current, ref.TotalValue)
	if !ok {
		return Change{}, false
	}
	return Change{Reference: ref, Current: current, Percent: pct}, true
}

func dateOf(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
