// Package logger provides the process zerolog root and context scoped children
package logger

import (
	"context"
	"io"
	"os"
	"runtime/debug"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"tubepulse/internal/platform/config/raw"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
)

// Options configures the logger
type Options struct {
	Level        string
	Format       string
	Service      string
	Writer       io.Writer
	WithCaller   bool
	StaticFields map[string]string
}

// FromEnv reads LOG_* through the raw reader so config can depend on logger
func FromEnv() Options {
	rc := raw.New().Prefix("LOG_")
	return Options{
		Level:      strings.ToLower(rc.Get("LEVEL", "info")),
		Format:     strings.ToLower(rc.Get("FORMAT", "console")),
		Service:    rc.Get("SERVICE", ""),
		WithCaller: rc.GetBool("CALLER", false),
	}
}

var (
	once   sync.Once
	root   atomic.Pointer[zerolog.Logger]
	inited atomic.Bool
)

// Logger is the project logging type
type Logger = zerolog.Logger

// Get returns the process root logger, initialising from env on first use
func Get() *Logger {
	if !inited.Load() {
		Init(FromEnv())
	}
	return root.Load()
}

// Init builds the root logger; only the first call has any effect
func Init(opt Options) {
	once.Do(func() {
		zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
		zerolog.TimeFieldFormat = time.RFC3339Nano

		var w io.Writer = os.Stdout
		if opt.Writer != nil {
			w = opt.Writer
		}
		if opt.Format == "console" {
			w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
		}

		zc := zerolog.New(w).Level(parseLevel(opt.Level)).With().Timestamp()
		if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
			zc = zc.Str("go_version", bi.GoVersion)
		}
		if opt.Service != "" {
			zc = zc.Str("service", opt.Service)
		}
		for k, v := range opt.StaticFields {
			zc = zc.Str(k, v)
		}

		log := zc.Logger()
		if opt.WithCaller {
			log = log.With().Caller().Logger()
		}

		root.Store(&log)
		inited.Store(true)
	})
}

// Set replaces the root logger, e.g. to capture output in tests
func Set(l Logger) {
	once.Do(func() {})
	root.Store(&l)
	inited.Store(true)
}

func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

type ctxKey struct{ name string }

var (
	keyRequestID = ctxKey{"request_id"}
	keyRunID     = ctxKey{"run_id"}
)

// WithRequest tags ctx with an http request id
func WithRequest(ctx context.Context, reqID string) context.Context {
	if reqID == "" {
		return ctx
	}
	return context.WithValue(ctx, keyRequestID, reqID)
}

// WithRun tags ctx with an ingestion run id
func WithRun(ctx context.Context, runID string) context.Context {
	if runID == "" {
		return ctx
	}
	return context.WithValue(ctx, keyRunID, runID)
}

// RunID returns the run id on ctx, if any
func RunID(ctx context.Context) string {
	s, _ := ctx.Value(keyRunID).(string)
	return s
}

// C returns a child of the root enriched with the ids found on ctx
func C(ctx context.Context) *Logger {
	b := Get().With()
	for _, k := range []ctxKey{keyRequestID, keyRunID} {
		if s, ok := ctx.Value(k).(string); ok && s != "" {
			b = b.Str(k.name, s)
		}
	}
	ll := b.Logger()
	return &ll
}

// Named returns a child logger with a component field
func Named(component string) *Logger {
	if component == "" {
		return Get()
	}
	ll := Get().With().Str("component", component).Logger()
	return &ll
}

// Nop returns a disabled logger for tests and optional deps
func Nop() Logger { return zerolog.Nop() }
