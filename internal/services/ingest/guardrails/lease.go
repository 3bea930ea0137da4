// Package guardrails holds the cross process lease and per entity budgets for ingest
package guardrails

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"tubepulse/internal/modkit/repokit"
	"tubepulse/internal/platform/store"
)

// ErrLeaseHeld signals another process owns the pass
var ErrLeaseHeld = errors.New("ingest: lease already held")

// LeaseFunc runs do while holding the named lease
type LeaseFunc func(ctx context.Context, do func(context.Context) error) error

// MakeLease claims the ingest_lease row called name for ttl, runs do, then releases it
// an expired lease is reclaimed; a live lease owned by someone else gives ErrLeaseHeld
func MakeLease(db repokit.TxRunner, name, owner string, ttl time.Duration) LeaseFunc {
	owner = fmt.Sprintf("%s:%d", owner, os.Getpid())
	if ttl <= 0 {
		ttl = time.Hour
	}
	interval := fmt.Sprintf("%d seconds", int64(ttl/time.Second))

	return func(ctx context.Context, do func(context.Context) error) error {
		var claimed bool
		err := db.Tx(ctx, func(q repokit.Queryer) error {
			var err error
			_, claimed, err = store.Optional(ctx, q, scanBool, `
				update ingest_lease
				   set owner = $2, expires_at = now() + ($3)::interval
				 where name = $1
				   and (expires_at <= now() or owner = $2)
				returning true
			`, name, owner, interval)
			return err
		})
		if err != nil {
			return err
		}
		if !claimed {
			return ErrLeaseHeld
		}
		defer func() {
			// release on a fresh context so a cancelled pass still frees the row
			rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
			defer cancel()
			_, _ = db.Exec(rctx, `update ingest_lease set expires_at = 'epoch' where name = $1 and owner = $2`, name, owner)
		}()
		return do(ctx)
	}
}

func scanBool(r store.Row) (bool, error) {
	var b bool
	err := r.Scan(&b)
	return b, err
}
