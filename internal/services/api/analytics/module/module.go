// Package module wires channel analytics into the API using modkit
package module

import (
	"tubepulse/internal/core/period"
	"tubepulse/internal/modkit"
	"tubepulse/internal/modkit/httpkit"
	"tubepulse/internal/modkit/module"
	"tubepulse/internal/modkit/swaggerkit"
	"tubepulse/internal/platform/config"
	"tubepulse/internal/platform/logger"
	"tubepulse/internal/services/api/analytics/domain"
	anhttp "tubepulse/internal/services/api/analytics/http"
	anrepo "tubepulse/internal/services/api/analytics/repo"
	ansvc "tubepulse/internal/services/api/analytics/service"
	snapmod "tubepulse/internal/services/snapshots/module"
)

// Prefix is the route prefix, relative to the versioned api root
const Prefix = "/channels/{channelID}/analytics"

// Ports exported by the analytics module
type Ports struct {
	Service domain.ServicePort
}

// Options for the analytics module
type Options struct {
	Segments period.Segments
}

// FromConfig fills options from environment
// ANALYTICS_DURATION_BOUNDS (default 60,1200) are the short and medium upper bounds in seconds
func FromConfig(cfg config.Conf) Options {
	def := period.DefaultSegments()
	bounds := cfg.Prefix("ANALYTICS_").MayInts("DURATION_BOUNDS", def.Bounds)
	segs, ok := period.NewSegments(bounds)
	if !ok {
		logger.Get().Warn().Ints("bounds", bounds).Msg("analytics: duration bounds must be two ascending positive values; using defaults")
	}
	return Options{Segments: segs}
}

// New constructs the analytics module over the snapshot module's reader
func New(deps modkit.Deps, snaps modkit.Module, opts ...modkit.Option) modkit.Mounted {
	o := FromConfig(deps.Cfg)
	reader := module.MustPortsOf[snapmod.Ports](snaps).Reader
	svc := ansvc.New(deps.PG, anrepo.NewPG(), reader, o.Segments)

	swaggerkit.Document(routes()...)

	return modkit.New(append([]modkit.Option{
		modkit.WithName("analytics"),
		modkit.WithPrefix(Prefix),
		modkit.WithPorts(Ports{Service: svc}),
		modkit.WithRegister(func(r httpkit.Router) { anhttp.Register(r, svc) }),
	}, opts...)...)
}

func routes() []swaggerkit.Route {
	base := "/api/v1" + Prefix
	return []swaggerkit.Route{
		{Method: "get", Path: base + "/trend", Summary: "Daily trend of total snapshots", Tag: "analytics"},
		{Method: "get", Path: base + "/weekday", Summary: "Views by upload weekday", Tag: "analytics"},
		{Method: "get", Path: base + "/hour", Summary: "Views by upload hour", Tag: "analytics"},
		{Method: "get", Path: base + "/duration", Summary: "Views by duration segment", Tag: "analytics"},
		{Method: "get", Path: base + "/summary", Summary: "Key metric summary", Tag: "analytics"},
		{Method: "get", Path: base + "/dimensions/{kind}", Summary: "Views by dimension value", Tag: "analytics"},
	}
}
