package errors

import (
	"context"
	stderrs "errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func pgErr(code string) *pgconn.PgError { return &pgconn.PgError{Code: code} }

func TestDBErrorCodeMappings(t *testing.T) {
	t.Parallel()

	cases := []struct {
		code string
		want ErrorCode
	}{
		{"23505", ErrorCodeDuplicateKey},
		{"23503", ErrorCodeInvalidArgument},
		{"22P02", ErrorCodeInvalidArgument},
		{"22007", ErrorCodeInvalidArgument},
		{"23502", ErrorCodeValidation},
		{"23514", ErrorCodeValidation},
		{"57P03", ErrorCodeUnavailable},
		{"40001", ErrorCodeDB},
		{"XXXXX", ErrorCodeDB},
	}
	for _, c := range cases {
		got, ok := DBErrorCode(pgErr(c.code))
		if !ok {
			t.Fatalf("expected ok for %s", c.code)
		}
		if got != c.want {
			t.Fatalf("DBErrorCode(%s) = %v, want %v", c.code, got, c.want)
		}
	}

	if _, ok := DBErrorCode(stderrs.New("plain")); ok {
		t.Fatalf("plain error should not map")
	}
}

func TestFromPostgres(t *testing.T) {
	t.Parallel()

	if FromPostgres(nil, "x") != nil {
		t.Fatalf("nil should stay nil")
	}
	err := FromPostgresf(pgErr("23505"), "upsert %s", "cache")
	if !IsCode(err, ErrorCodeDuplicateKey) {
		t.Fatalf("code = %v", CodeOf(err))
	}
	if !IsDuplicateKey(err) {
		t.Fatalf("IsDuplicateKey should see through the wrap")
	}
	if got := CodeOf(FromPostgres(stderrs.New("closed pool"), "x")); got != ErrorCodeDB {
		t.Fatalf("non pg error code = %v", got)
	}
}

func TestIsRetryable(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"serialization", pgErr("40001"), true},
		{"deadlock wrapped", fmt.Errorf("tx: %w", pgErr("40P01")), true},
		{"unique", pgErr("23505"), false},
		{"commit text", stderrs.New("commit unexpectedly resulted in rollback"), true},
		{"cancelled", context.Canceled, false},
		{"deadline", fmt.Errorf("q: %w", context.DeadlineExceeded), false},
	}
	for _, c := range cases {
		if got := IsRetryable(c.err); got != c.want {
			t.Fatalf("%s: IsRetryable = %v, want %v", c.name, got, c.want)
		}
	}
}
