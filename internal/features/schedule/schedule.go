package schedule

// Schedules implement cron.Schedule so fixed offsets, jittered offsets and
// plain cron expressions all drive the same runner.

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// HourlyOffset fires once an hour at top-of-hour + Offset.
type HourlyOffset struct {
	Offset time.Duration
}

// Next returns this hour's slot if it has not passed yet, otherwise the next
// hour's. A slot equal to t counts as not passed.
func (s HourlyOffset) Next(t time.Time) time.Time {
	candidate := topOfHour(t).Add(s.Offset)
	if candidate.Before(t) {
		candidate = candidate.Add(time.Hour)
	}
	return candidate
}

// RandomOffset fires shortly after every top of hour, at a random delay in
// [Min, Max].
type RandomOffset struct {
	Min, Max time.Duration

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewRandomOffset(minDelay, maxDelay time.Duration, seed int64) *RandomOffset {
	return &RandomOffset{Min: minDelay, Max: maxDelay, rnd: rand.New(rand.NewSource(seed))}
}

func (s *RandomOffset) Next(t time.Time) time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rnd == nil {
		s.rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	jitter := s.Min
	if s.Max > s.Min {
		jitter += time.Duration(s.rnd.Int63n(int64(s.Max-s.Min) + 1))
	}
	return topOfHour(t).Add(time.Hour + jitter)
}

func topOfHour(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, t.Location())
}

var parser = cron.NewParser(cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// ParseCron accepts five or six field expressions and descriptors like @hourly.
func ParseCron(spec string) (cron.Schedule, error) {
	s, err := parser.Parse(spec)
	if err != nil {
		return nil, fmt.Errorf("parse cron %q: %w", spec, err)
	}
	return s, nil
}

// FromMode builds the schedule named by mode.
func FromMode(mode string, offset, jitterMin, jitterMax time.Duration, spec string) (cron.Schedule, error) {
	switch mode {
	case "", "fixed":
		return HourlyOffset{Offset: offset}, nil
	case "random":
		return NewRandomOffset(jitterMin, jitterMax, time.Now().UnixNano()), nil
	case "cron":
		return ParseCron(spec)
	default:
		return nil, fmt.Errorf("unknown schedule mode %q", mode)
	}
}
