// Package module wires comment insights into the API using modkit
package module

import (
	"tubepulse/internal/modkit"
	"tubepulse/internal/modkit/httpkit"
	"tubepulse/internal/modkit/swaggerkit"
	"tubepulse/internal/services/api/comments/domain"
	cmhttp "tubepulse/internal/services/api/comments/http"
	cmrepo "tubepulse/internal/services/api/comments/repo"
	cmsvc "tubepulse/internal/services/api/comments/service"
)

// Ports exported by the comments module
type Ports struct {
	Service domain.ServicePort
}

// New constructs the comments module
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Mounted {
	svc := cmsvc.New(deps.PG, cmrepo.NewPG())

	swaggerkit.Document(
		swaggerkit.Route{Method: "post", Path: "/api/v1/comments/distribution", Summary: "Comment label distribution", Tag: "comments"},
		swaggerkit.Route{Method: "post", Path: "/api/v1/comments/representatives", Summary: "Most liked comment per label", Tag: "comments"},
		swaggerkit.Route{Method: "post", Path: "/api/v1/comments/top", Summary: "Latest or most liked comments", Tag: "comments"},
	)

	return modkit.New(append([]modkit.Option{
		modkit.WithName("comments"),
		modkit.WithPrefix("/comments"),
		modkit.WithPorts(Ports{Service: svc}),
		modkit.WithRegister(func(r httpkit.Router) { cmhttp.Register(r, svc) }),
	}, opts...)...)
}
