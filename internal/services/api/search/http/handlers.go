// Package http provides http transport for the cached search gate
package http

import (
	stdhttp "net/http"

	"tubepulse/internal/modkit/httpkit"
	"tubepulse/internal/services/api/search/domain"
	svc "tubepulse/internal/services/api/search/service"
)

// DefaultLimit is passed to the provider when the caller gives none
const DefaultLimit = 20

// Register mounts the search endpoint
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}
	httpkit.Get(r, "/", h.search)
}

type handlers struct{ svc svc.Service }

func (h *handlers) search(r *stdhttp.Request) (any, error) {
	limit, err := httpkit.QueryInt(r, "limit", DefaultLimit)
	if err != nil {
		return nil, err
	}
	return h.svc.Search(r.Context(), domain.Input{
		Keyword:  httpkit.Query(r, "keyword", ""),
		Category: httpkit.Query(r, "category", ""),
		Limit:    limit,
	})
}
