package pg

import (
	"context"
	"strings"

	"tubepulse/internal/platform/logger"

	"github.com/rs/zerolog"
)

// QueryEvent describes one finished statement
type QueryEvent struct {
	SQL       string
	Args      any
	ElapsedUS int64
	Err       error
	Slow      bool
}

// QueryTracer receives statement events
type QueryTracer interface {
	OnQuery(ctx context.Context, ev QueryEvent)
}

// Tracer logs every statement at debug and slow or failed ones at warn
// it pins its own level so SQL logging works whatever the root level is
func Tracer(root logger.Logger) QueryTracer {
	return &zlTracer{log: root.Level(zerolog.DebugLevel).With().Str("component", "pg").Logger()}
}

type zlTracer struct{ log logger.Logger }

func (z *zlTracer) OnQuery(ctx context.Context, ev QueryEvent) {
	evt := z.log.Debug()
	if ev.Slow || ev.Err != nil {
		evt = z.log.Warn()
	}
	if id := logger.RunID(ctx); id != "" {
		evt = evt.Str("run_id", id)
	}
	evt.Float64("elapsed_ms", float64(ev.ElapsedUS)/1000.0).
		Bool("slow", ev.Slow).
		Str("sql", compact(ev.SQL)).
		Interface("args", ev.Args).
		Err(ev.Err).
		Msg("pg query")
}

// compact folds runs of whitespace so multi line SQL fits on one log line
func compact(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
