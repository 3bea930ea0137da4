package guardrails

import (
	"context"
	"time"
)

// ForEntity bounds one entity's fetch and write by d without extending any parent deadline
// d <= 0 returns a cancelable child that inherits the parent deadline
func ForEntity(parent context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(parent)
	}
	if rem := Remaining(parent); rem > 0 && rem < d {
		return context.WithTimeout(parent, rem)
	}
	return context.WithTimeout(parent, d)
}

// Remaining returns the time until the deadline on ctx or zero when none is set or already expired
func Remaining(ctx context.Context) time.Duration {
	if dl, ok := ctx.Deadline(); ok {
		if d := time.Until(dl); d > 0 {
			return d
		}
	}
	return 0
}
