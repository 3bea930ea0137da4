// Package module wires the cached search gate into the API using modkit
package module

import (
	searchc "tubepulse/internal/adapters/search"
	"tubepulse/internal/modkit"
	"tubepulse/internal/modkit/httpkit"
	"tubepulse/internal/modkit/swaggerkit"
	"tubepulse/internal/services/api/search/domain"
	shttp "tubepulse/internal/services/api/search/http"
	srepo "tubepulse/internal/services/api/search/repo"
	ssvc "tubepulse/internal/services/api/search/service"
)

// Ports exported by the search module
type Ports struct {
	Service domain.ServicePort
}

// New constructs the search module; a nil client is built from SEARCH_* config
func New(deps modkit.Deps, client domain.Searcher, opts ...modkit.Option) modkit.Mounted {
	if client == nil {
		client = searchc.NewClient(searchc.FromConfig(deps.Cfg.Prefix("SEARCH_")))
	}
	svc := ssvc.New(deps.PG, srepo.NewPG(), client)

	swaggerkit.Document(swaggerkit.Route{
		Method: "get", Path: "/api/v1/search", Summary: "Keyword search cached per day", Tag: "search",
	})

	return modkit.New(append([]modkit.Option{
		modkit.WithName("search"),
		modkit.WithPrefix("/search"),
		modkit.WithPorts(Ports{Service: svc}),
		modkit.WithRegister(func(r httpkit.Router) { shttp.Register(r, svc) }),
	}, opts...)...)
}
