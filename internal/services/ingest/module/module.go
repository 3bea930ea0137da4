// Package module wires the ingest scheduler as a modkit module
package module

import (
	"tubepulse/internal/adapters/analytics"
	"tubepulse/internal/core/version"
	"tubepulse/internal/modkit"
	"tubepulse/internal/modkit/module"
	"tubepulse/internal/modkit/repokit"

	ingdom "tubepulse/internal/services/ingest/domain"
	"tubepulse/internal/services/ingest/guardrails"
	ingrepo "tubepulse/internal/services/ingest/repo"
	ingsvc "tubepulse/internal/services/ingest/service"
	snapmod "tubepulse/internal/services/snapshots/module"
)

// Name is the registry name of the module
const Name = "ingest"

// Ports exported by the ingest module
type Ports struct {
	Runner ingdom.RunnerPort
}

// New wires the scheduler over the snapshot module's writer and the analytics client
// src may be nil, in which case a client is built from ANALYTICS_ config
func New(deps modkit.Deps, snaps modkit.Module, src ingsvc.Fetcher) modkit.Mounted {
	opts := FromConfig(deps.Cfg)
	if src == nil {
		src = analytics.NewClient(analytics.FromConfig(deps.Cfg.Prefix("ANALYTICS_")))
	}
	writer := module.MustPortsOf[snapmod.Ports](snaps).Writer

	db := repokit.WithBeginHooks(deps.PG, repokit.StatementTimeout(opts.StatementLimit))

	var lease guardrails.LeaseFunc
	if opts.EnableLease {
		lease = guardrails.MakeLease(deps.PG, "daily", version.ServiceName+"-ingest", opts.LeaseTTL)
	}

	svc := ingsvc.New(db, ingrepo.NewPG(), writer, src, ingsvc.Config{
		Interval:      opts.Interval,
		Warmup:        opts.Warmup,
		EntityTimeout: opts.EntityTimeout,
		Concurrency:   opts.Concurrency,
		Dimensions:    opts.Dimensions,
	}, lease)
	svc.Tokens = TokensFromConfig(deps.Cfg)

	return modkit.New(
		modkit.WithName(Name),
		modkit.WithPorts(Ports{Runner: svc}),
	)
}
