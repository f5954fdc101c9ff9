package helpers

import (
	"context"
	mathrand "math/rand"
	"time"
)

// WaitRange bounds a randomized wait; each draw is uniform in [Min, Max].
type WaitRange struct {
	Min time.Duration
	Max time.Duration
}

// Duration draws a uniformly random duration from the range
func (r WaitRange) Duration() time.Duration {
	if r.Max <= r.Min {
		return r.Min
	}
	return r.Min + time.Duration(mathrand.Int63n(int64(r.Max-r.Min)))
}

// Sleeper abstracts blocking waits so tests can inject deterministic durations
type Sleeper interface {
	// Sleep blocks for a random duration within the range, or until the
	// context is cancelled, in which case it returns the context error.
	Sleep(ctx context.Context, r WaitRange) error
}

// RandomSleeper is the production Sleeper
type RandomSleeper struct{}

// Sleep blocks for a random duration within the range
func (RandomSleeper) Sleep(ctx context.Context, r WaitRange) error {
	return SleepContext(ctx, r.Duration())
}

// SleepContext sleeps for d or until ctx is cancelled
func SleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
