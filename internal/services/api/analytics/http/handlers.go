// Package http provides http transport for channel analytics
package http

import (
	stdhttp "net/http"
	"time"

	"tubepulse/internal/core/period"
	"tubepulse/internal/modkit/httpkit"
	perr "tubepulse/internal/platform/errors"
	"tubepulse/internal/services/api/analytics/domain"
	svc "tubepulse/internal/services/api/analytics/service"
	snapdom "tubepulse/internal/services/snapshots/domain"
)

// Register mounts analytics endpoints; the router is already scoped to one channel
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}

	httpkit.Get(r, "/trend", h.trend)
	httpkit.Get(r, "/weekday", h.weekday)
	httpkit.Get(r, "/hour", h.hour)
	httpkit.Get(r, "/duration", h.duration)
	httpkit.Get(r, "/summary", h.summary)
	httpkit.Get(r, "/dimensions/{kind}", h.dimensions)
}

type handlers struct{ svc svc.Service }

// input reads the channel path param, the lenient period token and an optional IANA tz
func input(r *stdhttp.Request) (domain.Input, error) {
	id, err := httpkit.RequiredParam(r, "channelID")
	if err != nil {
		return domain.Input{}, err
	}
	in := domain.Input{ChannelID: id, Period: period.Parse(httpkit.Query(r, "period", "")), Loc: time.UTC}
	if tz := httpkit.Query(r, "tz", ""); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return domain.Input{}, perr.WithField(perr.InvalidArgf("unknown time zone %q", tz), "tz")
		}
		in.Loc = loc
	}
	return in, nil
}

func (h *handlers) trend(r *stdhttp.Request) (any, error) {
	in, err := input(r)
	if err != nil {
		return nil, err
	}
	return h.svc.Trend(r.Context(), in)
}

func (h *handlers) weekday(r *stdhttp.Request) (any, error) {
	in, err := input(r)
	if err != nil {
		return nil, err
	}
	return h.svc.Weekday(r.Context(), in)
}

func (h *handlers) hour(r *stdhttp.Request) (any, error) {
	in, err := input(r)
	if err != nil {
		return nil, err
	}
	return h.svc.Hour(r.Context(), in)
}

func (h *handlers) duration(r *stdhttp.Request) (any, error) {
	in, err := input(r)
	if err != nil {
		return nil, err
	}
	return h.svc.Duration(r.Context(), in)
}

func (h *handlers) summary(r *stdhttp.Request) (any, error) {
	in, err := input(r)
	if err != nil {
		return nil, err
	}
	return h.svc.Summary(r.Context(), in)
}

func (h *handlers) dimensions(r *stdhttp.Request) (any, error) {
	in, err := input(r)
	if err != nil {
		return nil, err
	}
	kind, err := snapdom.ParseDimensionKind(httpkit.Param(r, "kind"))
	if err != nil {
		return nil, err
	}
	return h.svc.Dimensions(r.Context(), in, kind)
}
