package store

import (
	"context"
	"fmt"
	"time"

	chx "tubepulse/internal/platform/store/ch"
	"tubepulse/internal/platform/store/pg"
)

// sleep is a seam for the ping backoff
var sleep = func(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// openPG opens the pool and publishes the adapter only once a ping succeeds
func openPG(ctx context.Context, cfg PGConfig, s *Store) (*pgAdapter, error) {
	var tracer pg.QueryTracer
	if cfg.LogSQL {
		tracer = pg.Tracer(s.Log)
	}

	p, err := pg.Open(ctx, pg.Config{
		URL:      cfg.URL,
		MaxConns: cfg.MaxConns,
		SlowMs:   cfg.SlowQueryMs,
	}, tracer, nil)
	if err != nil {
		return nil, err
	}

	var lastErr error
	backoff := backoffStart
	for attempt := 1; attempt <= cfg.retries(); attempt++ {
		pctx, cancel := context.WithTimeout(ctx, cfg.pingTimeout())
		lastErr = p.Pool.Ping(pctx)
		cancel()
		if lastErr == nil {
			return newPGAdapter(p), nil
		}

		s.Log.Warn().Err(lastErr).Int("attempt", attempt).Dur("retry_in", backoff).Msg("postgres not ready")
		if err := sleep(ctx, backoff); err != nil {
			p.Close()
			return nil, err
		}
		backoff = min(backoff*2, backoffCeiling)
	}

	p.Close()
	return nil, fmt.Errorf("postgres ping failed after %d attempts: %w", cfg.retries(), lastErr)
}

func openCH(ctx context.Context, cfg Config, s *Store) (Clickhouse, error) {
	c, err := chx.Open(ctx, chx.Config{
		URL:        cfg.CH.URL,
		ClientInfo: chx.BuildClientInfo(cfg.AppName, cfg.CH.Role),
	})
	if err != nil {
		return nil, err
	}
	s.Log.Info().Str("role", cfg.CH.Role).Msg("clickhouse connected")
	return newCHAdapter(c), nil
}
