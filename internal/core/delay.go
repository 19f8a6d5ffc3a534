package core

import (
	"context"
	"time"
)

// DelayUntil blocks until floor has elapsed since start, or ctx is done.
// It returns immediately when the floor has already passed.
func DelayUntil(ctx context.Context, start time.Time, floor time.Duration) error {
	remaining := floor - time.Since(start)
	if remaining <= 0 {
		return nil
	}

	timer := time.NewTimer(remaining)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
