package client

import (
	"context"
	"time"
)

// Backoff returns the delay to wait after the given 0-based attempt
// failed: min(base * 2^attempt, limit). No jitter is applied.
func Backoff(attempt int, base, limit time.Duration) time.Duration {
	if attempt < 0 {
		attempt = 0
	}

	delay := base
	for i := 0; i < attempt; i++ {
		delay *= 2
		if delay >= limit {
			return limit
		}
	}

	if delay > limit {
		return limit
	}

	return delay
}

// Sleeper waits for d or until ctx is done, whichever comes first.
type Sleeper func(ctx context.Context, d time.Duration) error

// sleep is the default Sleeper backed by a timer that is always stopped.
func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
