package module

import (
	"strings"
	"time"

	"tubepulse/internal/platform/config"
	"tubepulse/internal/platform/logger"
	snapdom "tubepulse/internal/services/snapshots/domain"
)

// Options for the ingest module
type Options struct {
	Interval       time.Duration
	Warmup         time.Duration
	EntityTimeout  time.Duration
	LeaseTTL       time.Duration
	EnableLease    bool
	Concurrency    int
	Dimensions     []snapdom.DimensionKind
	StatementLimit time.Duration
}

// FromConfig fills options from environment
// INGEST_INTERVAL (default 24h) is the time between passes
// INGEST_WARMUP (default 1m) delays the first pass after start
// INGEST_ENTITY_TIMEOUT (default 30s) bounds one entity's fetch and write
// INGEST_LEASE (default true) takes the ingest_lease row around each pass, INGEST_LEASE_TTL (default 1h)
// INGEST_CONCURRENCY (default 1) is the number of entities processed at once
// INGEST_DIMENSIONS (default none) lists breakdowns, e.g. demographic,device,traffic_source
// INGEST_STATEMENT_TIMEOUT (default 15s) bounds every bookkeeping statement server side
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("INGEST_")
	return Options{
		Interval:       c.MayDuration("INTERVAL", 24*time.Hour),
		Warmup:         c.MayDuration("WARMUP", time.Minute),
		EntityTimeout:  c.MayDuration("ENTITY_TIMEOUT", 30*time.Second),
		EnableLease:    c.MayBool("LEASE", true),
		LeaseTTL:       c.MayDuration("LEASE_TTL", time.Hour),
		Concurrency:    c.MayInt("CONCURRENCY", 1),
		Dimensions:     parseKinds(c.MayCSV("DIMENSIONS", nil)),
		StatementLimit: c.MayDuration("STATEMENT_TIMEOUT", 15*time.Second),
	}
}

func parseKinds(raw []string) []snapdom.DimensionKind {
	out := make([]snapdom.DimensionKind, 0, len(raw))
	for _, r := range raw {
		k, err := snapdom.ParseDimensionKind(r)
		if err != nil {
			logger.Get().Warn().Str("kind", r).Msg("ingest: unknown dimension kind ignored")
			continue
		}
		out = append(out, k)
	}
	return out
}

// TokensFromConfig resolves a credential ref to ANALYTICS_TOKEN_<REF>; an empty result falls back to the client token
func TokensFromConfig(cfg config.Conf) func(ref string) string {
	c := cfg.Prefix("ANALYTICS_TOKEN_")
	return func(ref string) string {
		ref = strings.TrimSpace(ref)
		if ref == "" {
			return ""
		}
		key := strings.Map(func(r rune) rune {
			if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
				return r
			}
			return '_'
		}, strings.ToUpper(ref))
		return c.MayString(key, "")
	}
}
