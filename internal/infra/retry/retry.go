package retry

// Bounded retry loop with a fixed pause between attempts.
// Every error is retried; the caller decides what exhaustion means.
// The pause honours context cancellation.

import (
	"context"
	"errors"
	"fmt"
	"time"
)

const (
	DefaultMaxAttempts = 5
	DefaultInterval    = 5 * time.Second
)

type Options struct {
	MaxAttempts int
	Interval    time.Duration
	// OnFailure is called after every failed attempt, before the pause.
	OnFailure func(attempt int, err error)
}

func (o Options) normalized() Options {
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = DefaultMaxAttempts
	}
	if o.Interval < 0 {
		o.Interval = 0
	}
	return o
}

// ErrExhausted wraps the last error once every attempt has failed.
var ErrExhausted = errors.New("retry attempts exhausted")

// HTTPError carries a non-2xx status from an upstream API.
type HTTPError struct {
	StatusCode int
	Body       []byte
}

func (e *HTTPError) Error() string {
	if e == nil {
		return "http error: <nil>"
	}
	if len(e.Body) == 0 {
		return fmt.Sprintf("http error (%d)", e.StatusCode)
	}
	return fmt.Sprintf("http error (%d): %s", e.StatusCode, string(e.Body))
}

// Do runs fn until it succeeds, the attempts run out or ctx is done.
// It returns the number of attempts made. On exhaustion the error wraps both
// ErrExhausted and the last failure.
func Do(ctx context.Context, opts Options, fn func(ctx context.Context) error) (int, error) {
	opts = opts.normalized()

	var lastErr error
	for attempt := 1; attempt <= opts.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return attempt - 1, err
		}

		err := fn(ctx)
		if err == nil {
			return attempt, nil
		}
		lastErr = err
		if opts.OnFailure != nil {
			opts.OnFailure(attempt, err)
		}

		if attempt == opts.MaxAttempts {
			break
		}

		t := time.NewTimer(opts.Interval)
		select {
		case <-ctx.Done():
			t.Stop()
			return attempt, ctx.Err()
		case <-t.C:
		}
	}

	return opts.MaxAttempts, fmt.Errorf("%w after %d attempts: %w", ErrExhausted, opts.MaxAttempts, lastErr)
}
