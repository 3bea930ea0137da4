package store

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type pingTx struct {
	fakeQ
	err    error
	closed bool
}

func (p *pingTx) Tx(ctx context.Context, fn func(RowQuerier) error) error { return fn(p) }
func (p *pingTx) Ping(context.Context) error                            { return p.err }
func (p *pingTx) Close() error                                           { p.closed = true; return nil }

type pingCH struct {
	err    error
	closed bool
}

func (c *pingCH) Insert(context.Context, string, [][]any) error { return nil }
func (c *pingCH) Exec(context.Context, string, ...any) error     { return nil }
func (c *pingCH) Query(context.Context, string, ...any) (Rows, error) {
	return &fakeRows{}, nil
}
func (c *pingCH) Close() error               { c.closed = true; return nil }
func (c *pingCH) Ping(context.Context) error { return c.err }

func TestOpenWithNothingEnabled(t *testing.T) {
	t.Parallel()

	s, err := Open(context.Background(), Config{AppName: "t"})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if s.PG != nil || s.CH != nil {
		t.Fatalf("no backend should be opened")
	}
	if err := s.Guard(context.Background()); err != nil {
		t.Fatalf("Guard on empty store: %v", err)
	}
}

func TestGuardJoinsFailures(t *testing.T) {
	t.Parallel()

	s := &Store{
		PG: &pingTx{err: errors.New("pg down")},
		CH: &pingCH{err: errors.New("ch down")},
	}
	err := s.Guard(context.Background())
	if err == nil {
		t.Fatalf("expected guard error")
	}
	for _, want := range []string{"pg: pg down", "clickhouse: ch down"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("guard error %q missing %q", err, want)
		}
	}
	if got := len(s.Checks()); got != 2 {
		t.Fatalf("Checks = %d", got)
	}

	var nilStore *Store
	if nilStore.Guard(context.Background()) == nil {
		t.Fatalf("nil store should fail guard")
	}
}

func TestCloseClosesBackends(t *testing.T) {
	t.Parallel()

	pg := &pingTx{}
	chc := &pingCH{}
	s := &Store{PG: pg, CH: chc}
	if err := s.Close(context.Background()); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !pg.closed || !chc.closed {
		t.Fatalf("backends not closed pg=%v ch=%v", pg.closed, chc.closed)
	}
}
