package guardrails

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"tubepulse/internal/modkit/repokit"
)

type boolRows struct {
	n    int
	vals []bool
}

func (r *boolRows) Next() bool { r.n++; return r.n <= len(r.vals) }
func (r *boolRows) Scan(dest ...any) error {
	*(dest[0].(*bool)) = r.vals[r.n-1]
	return nil
}
func (r *boolRows) Err() error        { return nil }
func (r *boolRows) Close()            {}
func (r *boolRows) Columns() []string { return []string{"bool"} }

type leaseDB struct {
	free  bool
	args  []any
	execs []string
}

func (d *leaseDB) Exec(_ context.Context, sql string, _ ...any) (repokit.CommandTag, error) {
	d.execs = append(d.execs, sql)
	return nil, nil
}
func (d *leaseDB) Query(_ context.Context, _ string, args ...any) (repokit.Rows, error) {
	d.args = args
	if d.free {
		return &boolRows{vals: []bool{true}}, nil
	}
	return &boolRows{}, nil
}
func (d *leaseDB) QueryRow(context.Context, string, ...any) repokit.Row { return nil }
func (d *leaseDB) Tx(_ context.Context, fn func(repokit.Queryer) error) error {
	return fn(d)
}

func TestLeaseClaimRunsAndReleases(t *testing.T) {
	t.Parallel()

	db := &leaseDB{free: true}
	ran := false
	err := MakeLease(db, "daily", "ingest", 90*time.Second)(context.Background(), func(context.Context) error {
		ran = true
		return nil
	})
	if err != nil || !ran {
		t.Fatalf("err=%v ran=%v", err, ran)
	}
	if db.args[0] != "daily" || !strings.HasPrefix(db.args[1].(string), "ingest:") || db.args[2] != "90 seconds" {
		t.Fatalf("claim args = %v", db.args)
	}
	if len(db.execs) != 1 || !strings.Contains(db.execs[0], "expires_at = 'epoch'") {
		t.Fatalf("lease should be released: %v", db.execs)
	}
}

func TestLeaseHeldSkipsWork(t *testing.T) {
	t.Parallel()

	db := &leaseDB{}
	err := MakeLease(db, "daily", "ingest", 0)(context.Background(), func(context.Context) error {
		t.Fatalf("do must not run without the lease")
		return nil
	})
	if !errors.Is(err, ErrLeaseHeld) {
		t.Fatalf("err = %v", err)
	}
	if db.args[2] != "3600 seconds" {
		t.Fatalf("default ttl = %v", db.args[2])
	}
}

func TestForEntityNeverExtendsParent(t *testing.T) {
	t.Parallel()

	parent, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	ctx, c2 := ForEntity(parent, time.Hour)
	defer c2()
	if rem := Remaining(ctx); rem <= 0 || rem > 50*time.Millisecond {
		t.Fatalf("remaining = %v", rem)
	}

	ctx, c3 := ForEntity(context.Background(), 0)
	defer c3()
	if _, ok := ctx.Deadline(); ok {
		t.Fatalf("zero budget should not set a deadline")
	}
	if Remaining(context.Background()) != 0 {
		t.Fatalf("no deadline gives zero")
	}
}
