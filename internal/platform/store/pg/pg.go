// Package pg provides a postgres client on pgxpool with optional query tracing
package pg

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Config configures pgxpool
type Config struct {
	URL      string
	MaxConns int32
	SlowMs   int
}

// PG is a postgres pool with an optional tracer
type PG struct {
	Pool   *pgxpool.Pool
	Tracer QueryTracer
	SlowMs int
}

var newPool = pgxpool.NewWithConfig

// Open parses cfg.URL, applies limits and the optional mutator, and builds the pool
// the pool connects lazily so Open does not touch the network
func Open(ctx context.Context, cfg Config, tracer QueryTracer, mutate func(*pgxpool.Config)) (*PG, error) {
	pcfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, err
	}
	if cfg.MaxConns > 0 {
		pcfg.MaxConns = cfg.MaxConns
	}
	if pcfg.ConnConfig.RuntimeParams["application_name"] == "" {
		pcfg.ConnConfig.RuntimeParams["application_name"] = "tubepulse"
	}
	if mutate != nil {
		mutate(pcfg)
	}
	pool, err := newPool(ctx, pcfg)
	if err != nil {
		return nil, err
	}
	return &PG{Pool: pool, Tracer: tracer, SlowMs: cfg.SlowMs}, nil
}

// Close closes the pool; safe on nil
func (p *PG) Close() {
	if p != nil && p.Pool != nil {
		p.Pool.Close()
	}
}
