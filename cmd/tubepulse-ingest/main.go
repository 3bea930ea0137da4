package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tubepulse/internal/modkit"
	"tubepulse/internal/modkit/module"
	"tubepulse/internal/platform/config"
	"tubepulse/internal/platform/logger"
	"tubepulse/internal/platform/store"
	"tubepulse/internal/platform/store/schema"
	ptime "tubepulse/internal/platform/time"

	ingestmod "tubepulse/internal/services/ingest/module"
	snapmod "tubepulse/internal/services/snapshots/module"
)

func main() { os.Exit(run()) }

// run returns the exit code so deferred closes happen before exit; 2 means some entities failed
func run() int {
	logger.Init(logger.FromEnv())
	l := logger.Named("tubepulse-ingest")

	root := config.New()
	ingCfg := root.Prefix("INGEST_")

	var (
		fMode    = flag.String("mode", ingCfg.MayEnum("MODE", "daemon", "daemon", "once"), "daemon ticks daily; once runs a single pass and exits")
		fDate    = flag.String("date", "", "UTC date YYYY-MM-DD for -mode once; default yesterday")
		fMigrate = flag.Bool("migrate", false, "apply the postgres schema and the clickhouse archive table first")
	)
	flag.Parse()

	if *fMode != "daemon" && *fMode != "once" {
		l.Panic().Str("mode", *fMode).Msg("-mode must be daemon or once")
	}
	if *fDate != "" && *fMode != "once" {
		l.Panic().Msg("-date only applies to -mode once")
	}
	target := ptime.Yesterday(time.Now())
	if *fDate != "" {
		d, err := ptime.ParseDate(*fDate)
		if err != nil {
			l.Panic().Err(err).Msg("bad -date")
		}
		target = d
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(ctx, store.FromEnv(root, "ingest"), store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	deps := modkit.FromStore(st, root)

	if *fMigrate {
		if err := schema.Apply(ctx, st.PG); err != nil {
			l.Panic().Err(err).Msg("schema apply failed")
		}
		if err := snapmod.Migrate(ctx, deps); err != nil {
			l.Panic().Err(err).Msg("archive table create failed")
		}
	}

	snaps := snapmod.New(deps)
	ing := ingestmod.New(deps, snaps, nil)
	runner := module.MustPortsOf[ingestmod.Ports](ing).Runner

	if *fMode == "once" {
		res, err := runner.RunOnce(ctx, target)
		if err != nil {
			l.Panic().Err(err).Msg("ingest pass failed")
		}
		l.Info().Str("run_id", res.RunID).Str("date", ptime.FormatDate(res.TargetDate)).
			Int("succeeded", res.Succeeded).Int("failed", res.Failed).Int("skipped_rows", res.SkippedRows).
			Bool("skipped", res.Skipped).Msg("ingest pass done")
		if res.Failed > 0 {
			return 2
		}
		return 0
	}

	if err := runner.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		l.Panic().Err(err).Msg("ingest scheduler stopped")
	}
	l.Info().Msg("ingest scheduler stopped")
	return 0
}
