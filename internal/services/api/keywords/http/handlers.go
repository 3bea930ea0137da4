// Package http provides http transport for keyword ranking
package http

import (
	stdhttp "net/http"

	"tubepulse/internal/core/period"
	"tubepulse/internal/modkit/httpkit"
	"tubepulse/internal/services/api/keywords/domain"
	svc "tubepulse/internal/services/api/keywords/service"
)

// Register mounts the keyword endpoint; the router is already scoped to one channel
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}
	httpkit.Get(r, "/", h.top)
}

type handlers struct{ svc svc.Service }

func (h *handlers) top(r *stdhttp.Request) (any, error) {
	id, err := httpkit.RequiredParam(r, "channelID")
	if err != nil {
		return nil, err
	}
	limit, err := httpkit.QueryInt(r, "limit", domain.DefaultLimit)
	if err != nil {
		return nil, err
	}
	return h.svc.Top(r.Context(), domain.Input{
		ChannelID: id,
		Period:    period.Parse(httpkit.Query(r, "period", "")),
		Limit:     limit,
	})
}
