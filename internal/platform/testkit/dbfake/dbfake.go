// Package dbfake is a recording RowQuerier for repo tests
package dbfake

import (
	"context"
	"reflect"
	"sync"

	perr "tubepulse/internal/platform/errors"
	"tubepulse/internal/platform/store"
)

// Tag is a fixed CommandTag
type Tag int64

// String implements store.CommandTag
func (Tag) String() string { return "" }

// RowsAffected implements store.CommandTag
func (t Tag) RowsAffected() int64 { return int64(t) }

// Rows yields fixed values; each Scan assigns value j into dest j, nil leaves a zero
type Rows struct {
	Data [][]any
	i    int
}

// Next advances to the following row
func (r *Rows) Next() bool { r.i++; return r.i <= len(r.Data) }

// Scan copies the current row into dest
func (r *Rows) Scan(dest ...any) error {
	for j, d := range dest {
		el := reflect.ValueOf(d).Elem()
		if v := r.Data[r.i-1][j]; v != nil {
			el.Set(reflect.ValueOf(v))
		} else {
			el.SetZero()
		}
	}
	return nil
}

// Err is always nil
func (r *Rows) Err() error { return nil }

// Close is a no op
func (r *Rows) Close() {}

// Columns is unused by repos
func (r *Rows) Columns() []string { return nil }

// Call is one recorded statement
type Call struct {
	SQL  string
	Args []any
}

// Q records statements and answers queries with Out or Err
// it also satisfies store.TxRunner by running fn against itself
type Q struct {
	Out [][]any
	Err error
	// Affected is what Exec reports, 1 when zero
	Affected int64

	mu    sync.Mutex
	calls []Call
}

func (q *Q) record(sql string, args []any) {
	q.mu.Lock()
	q.calls = append(q.calls, Call{SQL: sql, Args: args})
	q.mu.Unlock()
}

// Calls returns every recorded statement in order
func (q *Q) Calls() []Call {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]Call(nil), q.calls...)
}

// Last returns the most recent statement
func (q *Q) Last() Call {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.calls) == 0 {
		return Call{}
	}
	return q.calls[len(q.calls)-1]
}

// Exec implements store.RowQuerier
func (q *Q) Exec(_ context.Context, sql string, args ...any) (store.CommandTag, error) {
	q.record(sql, args)
	if q.Err != nil {
		return nil, q.Err
	}
	n := q.Affected
	if n == 0 {
		n = 1
	}
	return Tag(n), nil
}

// Query implements store.RowQuerier
func (q *Q) Query(_ context.Context, sql string, args ...any) (store.Rows, error) {
	q.record(sql, args)
	if q.Err != nil {
		return nil, q.Err
	}
	return &Rows{Data: q.Out}, nil
}

// QueryRow implements store.RowQuerier over the first Out row
func (q *Q) QueryRow(ctx context.Context, sql string, args ...any) store.Row {
	rs, err := q.Query(ctx, sql, args...)
	if err != nil {
		return errRow{err}
	}
	return firstRow{rs}
}

// Tx implements store.TxRunner
func (q *Q) Tx(_ context.Context, fn func(store.RowQuerier) error) error { return fn(q) }

type errRow struct{ err error }

func (r errRow) Scan(...any) error { return r.err }

type firstRow struct{ rs store.Rows }

func (r firstRow) Scan(dest ...any) error {
	if !r.rs.Next() {
		return perr.ErrNotFound
	}
	return r.rs.Scan(dest...)
}
