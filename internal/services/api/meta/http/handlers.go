// Package http provides meta endpoints
package http

import (
	"context"
	"net/http"
	"slices"
	"time"

	"tubepulse/internal/core/version"
	"tubepulse/internal/modkit/httpkit"
)

// Pinger is satisfied by backends that expose Ping
type Pinger interface {
	Ping(context.Context) error
}

// Deps are the handler dependencies
type Deps struct {
	ServiceName string
	StartedAt   time.Time
	// Checks are the backends readiness pings, keyed by name
	Checks map[string]Pinger
	// Timeout bounds the readiness pings, 2s when zero
	Timeout time.Duration
}

type handlers struct {
	deps Deps
	now  func() time.Time
}

// Register mounts the meta routes
func Register(r httpkit.Router, d Deps) {
	if d.Timeout <= 0 {
		d.Timeout = 2 * time.Second
	}
	h := &handlers{deps: d, now: time.Now}

	httpkit.Get(r, "/health", h.health)
	httpkit.Get(r, "/ready", h.ready)
	httpkit.Get(r, "/version", h.version)
	httpkit.Get(r, "/service", h.service)
}

// HealthResponse is the liveness payload
type HealthResponse struct {
	OK      bool   `json:"ok"      example:"true"`
	Service string `json:"service" example:"tubepulse-api"`
	Started string `json:"started" example:"2025-09-03T13:00:00Z"`
	Now     string `json:"now"     example:"2025-09-03T13:05:00Z"`
}

// ReadyCheck describes a single dependency check
type ReadyCheck struct {
	Name   string `json:"name"   example:"pg"`
	Status string `json:"status" example:"ok"` // ok fail
	Error  string `json:"error,omitempty" example:"dial tcp 127.0.0.1:5432 connect: connection refused"`
}

// ReadyResponse summarizes readiness
type ReadyResponse struct {
	Status string       `json:"status" example:"ok"` // ok degraded fail
	Checks []ReadyCheck `json:"checks"`
	Now    string       `json:"now"    example:"2025-09-03T13:05:00Z"`
}

// ServiceResponse describes service info
type ServiceResponse struct {
	Name    string `json:"name"    example:"tubepulse-api"`
	Started string `json:"started" example:"2025-09-03T13:00:00Z"`
	Uptime  int64  `json:"uptime"  example:"300"`
}

func (h *handlers) stamp() string { return h.now().UTC().Format(time.RFC3339) }

func (h *handlers) health(_ *http.Request) (any, error) {
	return HealthResponse{
		OK:      true,
		Service: h.deps.ServiceName,
		Started: h.deps.StartedAt.UTC().Format(time.RFC3339),
		Now:     h.stamp(),
	}, nil
}

// ready pings every backend; a failure answers 503 so balancers drain the instance
func (h *handlers) ready(r *http.Request) (any, error) {
	ctx, cancel := context.WithTimeout(r.Context(), h.deps.Timeout)
	defer cancel()

	names := make([]string, 0, len(h.deps.Checks))
	for name := range h.deps.Checks {
		names = append(names, name)
	}
	slices.Sort(names)

	out := ReadyResponse{Status: "ok", Checks: make([]ReadyCheck, 0, len(names)), Now: h.stamp()}
	for _, name := range names {
		c := ReadyCheck{Name: name, Status: "ok"}
		if err := h.deps.Checks[name].Ping(ctx); err != nil {
			c.Status, c.Error = "fail", err.Error()
			out.Status = "fail"
		}
		out.Checks = append(out.Checks, c)
	}
	if len(names) == 0 {
		out.Status = "degraded"
	}
	if out.Status == "fail" {
		return httpkit.Response{Status: http.StatusServiceUnavailable, Body: out}, nil
	}
	return out, nil
}

func (h *handlers) version(_ *http.Request) (any, error) {
	return version.Info(h.deps.ServiceName), nil
}

func (h *handlers) service(_ *http.Request) (any, error) {
	return ServiceResponse{
		Name:    h.deps.ServiceName,
		Started: h.deps.StartedAt.UTC().Format(time.RFC3339),
		Uptime:  int64(h.now().Sub(h.deps.StartedAt) / time.Second),
	}, nil
}
