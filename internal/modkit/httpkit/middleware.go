package httpkit

import (
	"compress/flate"
	"net/http"
	"time"

	"tubepulse/internal/platform/config"
	"tubepulse/internal/platform/net/middleware"
)

// StackOptions tunes CommonStack
type StackOptions struct {
	Origins []string
	Timeout time.Duration
	Slow    time.Duration
}

// StackFromConfig reads CORS_ORIGINS, TIMEOUT and SLOW under cfg
func StackFromConfig(cfg config.Conf) StackOptions {
	return StackOptions{
		Origins: cfg.MayCSV("CORS_ORIGINS", []string{"*"}),
		Timeout: cfg.MayDuration("TIMEOUT", 30*time.Second),
		Slow:    cfg.MayDuration("SLOW", 500*time.Millisecond),
	}
}

// CommonStack returns the baseline middleware for the api scope
func CommonStack(o StackOptions) []func(http.Handler) http.Handler {
	if o.Timeout <= 0 {
		o.Timeout = 30 * time.Second
	}
	return []func(http.Handler) http.Handler{
		middleware.RequestID(),
		middleware.RealIP(),
		middleware.Tag(),
		middleware.RecoverJSON,
		middleware.NoCache(),
		middleware.AccessLogZerolog(middleware.AccessLogOptions{Slow: o.Slow}),
		middleware.CORS(middleware.CORSOptions{AllowedOrigins: o.Origins}),
		middleware.Compress(flate.BestSpeed),
		middleware.StripSlashes(),
		middleware.Timeout(o.Timeout),
	}
}
