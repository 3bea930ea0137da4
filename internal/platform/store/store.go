// Package store provides the storage facade: postgres for snapshots, records and
// the search cache, clickhouse for the optional snapshot archive
package store

import (
	"context"
	"errors"
	"fmt"

	"tubepulse/internal/platform/logger"
)

// Store holds the opened backends; a nil seam means the backend is disabled
type Store struct {
	// Log is handed to subclients; zero value is a no op logger
	Log logger.Logger

	PG TxRunner
	CH Clickhouse
}

// Row exposes the minimal scan contract a single row needs
type Row interface {
	Scan(dest ...any) error
}

// Rows exposes iteration and scan for a result set
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close()
	Columns() []string
}

// CommandTag reports what a write did
type CommandTag interface {
	String() string
	RowsAffected() int64
}

// RowQuerier is the sql surface repos use
type RowQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) Row
}

// TxRunner runs fn inside one transaction, committing when fn returns nil
type TxRunner interface {
	RowQuerier
	Tx(ctx context.Context, fn func(q RowQuerier) error) error
}

// Clickhouse is the columnar seam; Insert takes rows in table column order
type Clickhouse interface {
	Insert(ctx context.Context, table string, rows [][]any) error
	Exec(ctx context.Context, sql string, args ...any) error
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	Close() error
}

// Pinger is any seam that can report readiness
type Pinger interface{ Ping(context.Context) error }

// Open constructs a Store with the backends enabled in cfg
func Open(ctx context.Context, cfg Config, opts ...Option) (*Store, error) {
	s := &Store{}
	for _, o := range opts {
		if err := o(s); err != nil {
			return nil, err
		}
	}
	s.Log = s.Log.With().Str("app", cfg.AppName).Logger()

	if cfg.PG.Enabled {
		p, err := openPG(ctx, cfg.PG, s)
		if err != nil {
			return nil, err
		}
		s.PG = p
	}

	if cfg.CH.Enabled {
		c, err := openCH(ctx, cfg, s)
		if err != nil {
			s.closePG()
			return nil, err
		}
		s.CH = c
	}

	return s, nil
}

// Guard pings every opened backend and joins the failures
func (s *Store) Guard(ctx context.Context) error {
	if s == nil {
		return errors.New("nil store")
	}
	checks := s.Checks()
	errs := make([]error, 0, len(checks))
	for name, p := range checks {
		if err := p.Ping(ctx); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

// Checks returns the opened backends that can be pinged, keyed by name
func (s *Store) Checks() map[string]Pinger {
	out := map[string]Pinger{}
	if p, ok := s.PG.(Pinger); ok {
		out["pg"] = p
	}
	if c, ok := s.CH.(Pinger); ok {
		out["clickhouse"] = c
	}
	return out
}

// Close closes all opened backends
func (s *Store) Close(_ context.Context) error {
	var errs []error
	if s.CH != nil {
		if err := s.CH.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := s.closePG(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (s *Store) closePG() error {
	if c, ok := s.PG.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
