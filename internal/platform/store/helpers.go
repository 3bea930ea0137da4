package store

import (
	"context"
	"errors"
	"fmt"

	perr "tubepulse/internal/platform/errors"

	"github.com/jackc/pgx/v5"
)

// ExecOne runs a write and asserts exactly one row was affected
func ExecOne(ctx context.Context, q RowQuerier, sql string, args ...any) error {
	t, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if n := t.RowsAffected(); n != 1 {
		return fmt.Errorf("expected exactly one row affected, got %d", n)
	}
	return nil
}

// Scalar queries the first column of the first row into T
func Scalar[T any](ctx context.Context, q RowQuerier, sql string, args ...any) (T, error) {
	var v T
	if err := q.QueryRow(ctx, sql, args...).Scan(&v); err != nil {
		var zero T
		return zero, err
	}
	return v, nil
}

// Optional maps at most one row with scan; no row gives found=false and a nil error
func Optional[T any](ctx context.Context, q RowQuerier, scan func(Row) (T, error), sql string, args ...any) (T, bool, error) {
	var zero T
	item, err := One(ctx, q, scan, sql, args...)
	switch {
	case err == nil:
		return item, true, nil
	case errors.Is(err, perr.ErrNotFound), errors.Is(err, pgx.ErrNoRows):
		return zero, false, nil
	default:
		return zero, false, err
	}
}

// One maps exactly one row with scan; no row gives perr.ErrNotFound
func One[T any](ctx context.Context, q RowQuerier, scan func(Row) (T, error), sql string, args ...any) (T, error) {
	var zero T
	rs, err := q.Query(ctx, sql, args...)
	if err != nil {
		return zero, err
	}
	defer rs.Close()

	if !rs.Next() {
		if err := rs.Err(); err != nil {
			return zero, err
		}
		return zero, perr.ErrNotFound
	}
	item, err := scan(rs)
	if err != nil {
		return zero, err
	}
	if rs.Next() {
		return zero, errors.New("expected 1 row, got more")
	}
	return item, rs.Err()
}

// Many maps every row with scan; an empty result is a non nil empty slice
func Many[T any](ctx context.Context, q RowQuerier, scan func(Row) (T, error), sql string, args ...any) ([]T, error) {
	rs, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rs.Close()

	out := make([]T, 0)
	for rs.Next() {
		item, err := scan(rs)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	if err := rs.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
