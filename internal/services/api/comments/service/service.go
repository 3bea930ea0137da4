// Package service contains comment insight workflows
package service

import (
	"context"

	"tubepulse/internal/core/comments"
	"tubepulse/internal/core/labels"
	"tubepulse/internal/core/period"
	"tubepulse/internal/modkit/repokit"
	perr "tubepulse/internal/platform/errors"
	"tubepulse/internal/platform/logger"
	ptime "tubepulse/internal/platform/time"
	"tubepulse/internal/services/api/comments/domain"
	"tubepulse/internal/services/api/comments/repo"
)

// Service defines the comments service contract
type Service interface {
	domain.ServicePort
}

// Svc implements the comments service
type Svc struct {
	Repo repo.Repo
}

// New constructs a comments service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo]) *Svc {
	if db == nil {
		panic("comments.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("comments.Service requires a non nil Repo binder")
	}
	return &Svc{Repo: binder.Bind(db)}
}

// load resolves the date window and returns the live comments inside it
func (s *Svc) load(ctx context.Context, in domain.WindowInput) ([]comments.Record, error) {
	start, err := ptime.ParseDate(in.Start)
	if err != nil {
		return nil, perr.WithField(perr.InvalidArgf("%v", err), "start")
	}
	end, err := ptime.ParseDate(in.End)
	if err != nil {
		return nil, perr.WithField(perr.InvalidArgf("%v", err), "end")
	}
	w, err := period.Range(start, end)
	if err != nil {
		return nil, err
	}
	recs, err := s.Repo.Window(ctx, in.ChannelID, w.Start, w.End)
	if err != nil {
		return nil, err
	}
	out := comments.Filter{ChannelID: in.ChannelID, Window: w}.Apply(recs)
	logger.C(ctx).Debug().Str("channel_id", in.ChannelID).Int("comments", len(out)).Msg("comments window loaded")
	return out, nil
}

// Distribution counts comments per label of the requested kind
func (s *Svc) Distribution(ctx context.Context, in domain.DistributionInput) ([]comments.Category, error) {
	kind, err := labels.ParseKind(in.Kind)
	if err != nil {
		return nil, err
	}
	recs, err := s.load(ctx, in.WindowInput)
	if err != nil {
		return nil, err
	}
	return comments.Distribution(recs, kind), nil
}

// Representatives picks the most liked comment per label
func (s *Svc) Representatives(ctx context.Context, in domain.RepresentativesInput) ([]comments.Representative, error) {
	kind := labels.KindSentiment
	if in.Kind != "" {
		k, err := labels.ParseKind(in.Kind)
		if err != nil {
			return nil, err
		}
		kind = k
	}
	recs, err := s.load(ctx, in.WindowInput)
	if err != nil {
		return nil, err
	}
	return comments.Representatives(recs, kind), nil
}

// Top returns the latest or most liked comments of the window
func (s *Svc) Top(ctx context.Context, in domain.TopInput) ([]comments.Record, error) {
	order, err := comments.ParseOrder(in.Order)
	if err != nil {
		return nil, err
	}
	recs, err := s.load(ctx, in.WindowInput)
	if err != nil {
		return nil, err
	}
	return comments.Top(recs, order, in.Limit), nil
}
