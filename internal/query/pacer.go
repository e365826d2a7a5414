package query

import (
	"context"
	"time"
)

// Pacer waits between consecutive queries.
type Pacer interface {
	Wait(ctx context.Context) error
}

// FixedDelay pauses for a constant duration.
type FixedDelay time.Duration

// Wait blocks for the delay or until ctx is done.
func (d FixedDelay) Wait(ctx context.Context) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(time.Duration(d))
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
