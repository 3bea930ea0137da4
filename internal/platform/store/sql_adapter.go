package store

import (
	"context"
	"errors"
	"time"

	"tubepulse/internal/platform/store/pg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// pgxQuerier is what both *pgxpool.Pool and pgx.Tx offer
type pgxQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// traced implements RowQuerier over a pgxQuerier and reports each statement to the tracer
type traced struct {
	q      pgxQuerier
	tracer pg.QueryTracer
	slowMs int
}

func (t traced) Exec(ctx context.Context, sql string, args ...any) (CommandTag, error) {
	start := time.Now()
	ct, err := t.q.Exec(ctx, sql, args...)
	t.emit(ctx, sql, args, start, err)
	return tag{ct}, err
}

func (t traced) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	start := time.Now()
	rs, err := t.q.Query(ctx, sql, args...)
	t.emit(ctx, sql, args, start, err)
	if err != nil {
		return nil, err
	}
	return rows{r: rs}, nil
}

func (t traced) QueryRow(ctx context.Context, sql string, args ...any) Row {
	start := time.Now()
	r := t.q.QueryRow(ctx, sql, args...)
	return row{r: r, after: func(err error) {
		if errors.Is(err, pgx.ErrNoRows) {
			err = nil
		}
		t.emit(ctx, sql, args, start, err)
	}}
}

func (t traced) emit(ctx context.Context, sql string, args []any, start time.Time, err error) {
	if t.tracer == nil {
		return
	}
	elapsed := time.Since(start)
	t.tracer.OnQuery(ctx, pg.QueryEvent{
		SQL:       sql,
		Args:      args,
		ElapsedUS: elapsed.Microseconds(),
		Err:       err,
		Slow:      t.slowMs >= 0 && elapsed >= time.Duration(t.slowMs)*time.Millisecond,
	})
}

// pgAdapter is the pool level TxRunner
type pgAdapter struct {
	traced
	p *pg.PG
}

func newPGAdapter(p *pg.PG) *pgAdapter {
	return &pgAdapter{traced: traced{q: p.Pool, tracer: p.Tracer, slowMs: p.SlowMs}, p: p}
}

// Ping runs SELECT 1 through the pool
func (a *pgAdapter) Ping(ctx context.Context) error {
	if a == nil || a.p == nil {
		return errors.New("pg: nil adapter")
	}
	return a.p.Pool.Ping(ctx)
}

// Close closes the pool
func (a *pgAdapter) Close() error { a.p.Close(); return nil }

// Tx begins, runs fn with a tx bound querier, and commits or rolls back
func (a *pgAdapter) Tx(ctx context.Context, fn func(q RowQuerier) error) error {
	tx, err := a.p.Pool.Begin(ctx)
	if err != nil {
		return err
	}
	if err := fn(traced{q: tx, tracer: a.tracer, slowMs: a.slowMs}); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}

type row struct {
	r     pgx.Row
	after func(error)
}

func (x row) Scan(dst ...any) error {
	err := x.r.Scan(dst...)
	if x.after != nil {
		x.after(err)
	}
	return err
}

type rows struct{ r pgx.Rows }

func (x rows) Next() bool            { return x.r.Next() }
func (x rows) Scan(dst ...any) error { return x.r.Scan(dst...) }
func (x rows) Err() error            { return x.r.Err() }
func (x rows) Close()                { x.r.Close() }
func (x rows) Columns() []string {
	f := x.r.FieldDescriptions()
	out := make([]string, len(f))
	for i := range f {
		out[i] = f[i].Name
	}
	return out
}

type tag struct{ t pgconn.CommandTag }

func (t tag) String() string      { return t.t.String() }
func (t tag) RowsAffected() int64 { return t.t.RowsAffected() }
