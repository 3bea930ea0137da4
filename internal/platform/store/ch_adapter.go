package store

import (
	"context"
	"errors"

	"tubepulse/internal/platform/store/ch"
)

// clickhouseAdapter adapts *ch.CH to the Clickhouse seam
type clickhouseAdapter struct {
	inner *ch.CH
}

var _ Clickhouse = (*clickhouseAdapter)(nil)

func newCHAdapter(c *ch.CH) Clickhouse { return &clickhouseAdapter{inner: c} }

func (a *clickhouseAdapter) Insert(ctx context.Context, table string, rows [][]any) error {
	return a.inner.Insert(ctx, table, rows)
}

func (a *clickhouseAdapter) Exec(ctx context.Context, sql string, args ...any) error {
	return a.inner.Exec(ctx, sql, args...)
}

func (a *clickhouseAdapter) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	r, err := a.inner.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return chRows{r: r}, nil
}

func (a *clickhouseAdapter) Close() error { return a.inner.Close() }

// Ping verifies connectivity with ClickHouse
func (a *clickhouseAdapter) Ping(ctx context.Context) error {
	if a == nil || a.inner == nil {
		return errors.New("store: nil clickhouse adapter")
	}
	return a.inner.Ping(ctx)
}

// chRows wraps ch.Rows, whose Close returns an error, as store.Rows
type chRows struct{ r ch.Rows }

func (r chRows) Next() bool             { return r.r.Next() }
func (r chRows) Scan(dest ...any) error { return r.r.Scan(dest...) }
func (r chRows) Err() error             { return r.r.Err() }
func (r chRows) Close()                 { _ = r.r.Close() }
func (r chRows) Columns() []string      { return r.r.Columns() }
