// Package http provides http transport for comment insights
package http

import (
	stdhttp "net/http"

	"tubepulse/internal/modkit/httpkit"
	"tubepulse/internal/services/api/comments/domain"
	svc "tubepulse/internal/services/api/comments/service"
)

// Register mounts comment endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}

	// label counts with percentages
	httpkit.PostJSON[domain.DistributionInput](r, "/distribution", h.distribution)

	// one comment per label
	httpkit.PostJSON[domain.RepresentativesInput](r, "/representatives", h.representatives)

	// latest or most liked
	httpkit.PostJSON[domain.TopInput](r, "/top", h.top)
}

type handlers struct{ svc svc.Service }

func (h *handlers) distribution(r *stdhttp.Request, in domain.DistributionInput) (any, error) {
	return h.svc.Distribution(r.Context(), in)
}

func (h *handlers) representatives(r *stdhttp.Request, in domain.RepresentativesInput) (any, error) {
	return h.svc.Representatives(r.Context(), in)
}

func (h *handlers) top(r *stdhttp.Request, in domain.TopInput) (any, error) {
	return h.svc.Top(r.Context(), in)
}
