package repokit

import (
	"context"
	"fmt"
	"time"
)

// MustGuard pings every dependency st knows about and panics on the first failure
// a 5s deadline is applied when ctx has none
func MustGuard(ctx context.Context, st interface{ Guard(context.Context) error }) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
	}
	if err := st.Guard(ctx); err != nil {
		panic(fmt.Errorf("dependency guard failed: %w", err))
	}
}
