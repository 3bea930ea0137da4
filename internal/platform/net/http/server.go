package http

import (
	"context"
	"errors"
	"net"
	stdhttp "net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"tubepulse/internal/platform/config"
	"tubepulse/internal/platform/logger"
)

// Server is a thin wrapper over chi + stdlib http.Server
type Server struct {
	addr string
	mux  *chi.Mux
	srv  *stdhttp.Server
}

// NewServer creates a server listening on PORT under cfg, default :4000
// opts receive the *chi.Mux so callers can mount routes and middleware
func NewServer(cfg config.Conf, opts ...func(*chi.Mux)) *Server {
	addr := cfg.MayString("PORT", ":4000")
	m := chi.NewRouter()
	for _, o := range opts {
		o(m)
	}
	return &Server{
		addr: addr,
		mux:  m,
		srv: &stdhttp.Server{
			Addr:              addr,
			Handler:           m,
			ReadHeaderTimeout: 10 * time.Second,
			IdleTimeout:       cfg.MayDuration("IDLE_TIMEOUT", 90*time.Second),
		},
	}
}

// Router returns a Router facade over the internal chi mux
func (s *Server) Router() Router { return AdaptChi(s.mux) }

// Handler exposes the root handler, mainly for tests
func (s *Server) Handler() stdhttp.Handler { return s.mux }

// Addr returns the listening address
func (s *Server) Addr() string { return s.addr }

// Run serves until ctx is done, then shuts down within grace
func (s *Server) Run(ctx context.Context, grace time.Duration) error {
	s.srv.BaseContext = func(net.Listener) context.Context { return ctx }

	errc := make(chan error, 1)
	go func() {
		logger.Named("http").Info().Str("addr", s.addr).Msg("http listening")
		errc <- s.srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, stdhttp.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), grace)
	defer cancel()
	if err := s.srv.Shutdown(sctx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
		return err
	}
	return nil
}
