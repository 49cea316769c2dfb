package httputil

import (
	"context"
	"errors"
	"strconv"
	"time"
)

// maxRetryDelay caps a single wait, whatever the server asks for.
const maxRetryDelay = 30 * time.Second

// RetryableError marks a transient fetch failure: a transport error, 429
// or a 5xx. After is the server's Retry-After, zero when it sent none.
type RetryableError struct {
	Err   error
	After time.Duration
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable reports whether err wraps a [RetryableError].
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// Retry calls fn until it succeeds, fails with an error that is not
// retryable, or has been called attempts times. Waits start at delay and
// double; a longer Retry-After from the server replaces the wait. Each wait
// is capped at 30 seconds and ends early when ctx is done.
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	var err error
	for n := 1; ; n++ {
		if err = fn(); err == nil {
			return nil
		}
		var re *RetryableError
		if !errors.As(err, &re) || n >= attempts {
			return err
		}

		wait := min(max(delay, re.After), maxRetryDelay)
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		delay *= 2
	}
}

// RetryWithBackoff is [Retry] with 3 attempts starting at one second.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	return Retry(ctx, 3, time.Second, fn)
}

// parseRetryAfter reads a Retry-After header given in seconds. HTTP dates
// and malformed values yield zero.
func parseRetryAfter(v string) time.Duration {
	secs, err := strconv.Atoi(v)
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
