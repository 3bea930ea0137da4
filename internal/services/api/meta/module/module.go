// Package module wires meta endpoints into the API using modkit
package module

import (
	"time"

	"tubepulse/internal/modkit"
	"tubepulse/internal/modkit/httpkit"
	"tubepulse/internal/modkit/swaggerkit"
	"tubepulse/internal/platform/store"
	str "tubepulse/internal/platform/strings"
	metahttp "tubepulse/internal/services/api/meta/http"
)

// New constructs the meta module; checks are the backends /meta/ready pings
func New(deps modkit.Deps, service string, checks map[string]store.Pinger, opts ...modkit.Option) modkit.Mounted {
	pingers := make(map[string]metahttp.Pinger, len(checks))
	for name, p := range checks {
		pingers[name] = p
	}
	d := metahttp.Deps{
		ServiceName: str.Or(service, "tubepulse-api"),
		StartedAt:   time.Now(),
		Checks:      pingers,
		Timeout:     deps.Cfg.Prefix("META_").MayDuration("READY_TIMEOUT", 2*time.Second),
	}

	swaggerkit.Document(
		swaggerkit.Route{Method: "get", Path: "/api/v1/meta/health", Summary: "Liveness", Tag: "meta"},
		swaggerkit.Route{Method: "get", Path: "/api/v1/meta/ready", Summary: "Readiness with backend pings", Tag: "meta"},
		swaggerkit.Route{Method: "get", Path: "/api/v1/meta/version", Summary: "Build info", Tag: "meta"},
		swaggerkit.Route{Method: "get", Path: "/api/v1/meta/service", Summary: "Service uptime", Tag: "meta"},
	)

	return modkit.New(append([]modkit.Option{
		modkit.WithName("meta"),
		modkit.WithPrefix("/meta"),
		modkit.WithRegister(func(r httpkit.Router) { metahttp.Register(r, d) }),
	}, opts...)...)
}
