package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tubepulse/internal/platform/config"
	"tubepulse/internal/platform/logger"
	phttp "tubepulse/internal/platform/net/http"
	"tubepulse/internal/platform/store"
	"tubepulse/internal/platform/store/schema"

	"tubepulse/internal/services/api"
)

func main() {
	logger.Init(logger.FromEnv())
	l := logger.Named("tubepulse-api")

	// service scoped config for HTTP etc (CORE_API_*)
	root := config.New()
	apiCfg := root.Prefix("CORE_API_")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(ctx, store.FromEnv(root, "api"), store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	if apiCfg.MayBool("MIGRATE", false) {
		if err := schema.Apply(ctx, st.PG); err != nil {
			l.Panic().Err(err).Msg("schema apply failed")
		}
	}

	// http server (reads CORE_API_PORT)
	srv := phttp.NewServer(apiCfg)
	api.Mount(srv.Router(), api.Options{
		Config:         apiCfg,
		Store:          st,
		EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
		EnableProfiler: apiCfg.MayBool("PROFILER", false),
	})

	if err := srv.Run(ctx, apiCfg.MayDuration("SHUTDOWN_GRACE", 10*time.Second)); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
	l.Info().Msg("http server drained")
}
