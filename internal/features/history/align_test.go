package history

import (
	"testing"
	"time"

	"fdf-monitor/internal/infra/fs"

	"github.com/stretchr/testify/assert"
)

func at(h, m, s int) time.Time {
	return time.Date(2025, 6, 10, h, m, s, 0, time.UTC)
}

func TestAlignToHourBoundaries(t *testing.T) {
	cases := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{"exact hour unchanged", at(10, 0, 0), at(10, 0, 0)},
		{"seconds past the hour", at(10, 0, 30), at(10, 0, 0)},
		{"minute 2 current", at(10, 2, 59), at(10, 0, 0)},
		{"minute 29 current", at(10, 29, 59), at(10, 0, 0)},
		{"minute 30 next", at(10, 30, 0), at(11, 0, 0)},
		{"minute 57 next", at(10, 57, 0), at(11, 0, 0)},
		{"minute 58 next", at(10, 58, 45), at(11, 0, 0)},
		{"day rollover", at(23, 59, 59), time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, AlignToHour(tc.in))
		})
	}
}

func TestAlignToHourEveryMinute(t *testing.T) {
	for m := 0; m < 60; m++ {
		for _, s := range []int{0, 1, 59} {
			in := at(10, m, s)
			got := AlignToHour(in)

			assert.Zero(t, got.Minute(), "minute %d", m)
			assert.Zero(t, got.Second(), "minute %d", m)
			assert.Zero(t, got.Nanosecond(), "minute %d", m)
			assert.LessOrEqual(t, got.Sub(in).Abs(), time.Hour)

			assert.Equal(t, got, AlignToHour(got), "idempotent at minute %d", m)
		}
	}
}

func TestAlignStrictBand(t *testing.T) {
	// both bands land below the half hour, so they agree on every minute
	for m := 0; m < 60; m++ {
		in := at(7, m, 10)
		assert.Equal(t, AlignToHour(in), AlignToHourBands(in, StrictLowerBand, DefaultUpperBand))
	}
}

func TestAlignRecordsCountsChanges(t *testing.T) {
	records := []fs.Record{
		fs.NewRecord(at(9, 0, 0), 1, 0, 0),
		fs.NewRecord(at(9, 58, 50), 2, 0, 0),
		fs.NewRecord(at(11, 1, 3), 3, 0, 0),
	}

	aligned, changed := AlignRecords(records, DefaultLowerBand, DefaultUpperBand)

	assert.Equal(t, 2, changed)
	assert.Equal(t, at(9, 0, 0), aligned[0].Timestamp)
	assert.Equal(t, at(10, 0, 0), aligned[1].Timestamp)
	assert.Equal(t, at(11, 0, 0), aligned[2].Timestamp)
	assert.Equal(t, at(9, 58, 50), records[1].Timestamp, "input must not be modified")
	assert.Equal(t, 2.0, aligned[1].TotalValue)
}
