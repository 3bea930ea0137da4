// Package service computes channel analytics from snapshots and the video catalog
package service

import (
	"context"
	"math"
	"time"

	"tubepulse/internal/core/period"
	"tubepulse/internal/modkit/repokit"
	"tubepulse/internal/services/api/analytics/domain"
	"tubepulse/internal/services/api/analytics/repo"
	snapdom "tubepulse/internal/services/snapshots/domain"
)

// Service defines the analytics service contract
type Service interface {
	domain.ServicePort
}

// Svc implements the analytics service
type Svc struct {
	Repo      repo.Repo
	Snapshots snapdom.Reader
	Segments  period.Segments
	Now       func() time.Time
}

// New constructs an analytics service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Repo], snaps snapdom.Reader, segs period.Segments) *Svc {
	if db == nil {
		panic("analytics.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("analytics.Service requires a non nil Repo binder")
	}
	if snaps == nil {
		panic("analytics.Service requires a snapshot reader")
	}
	return &Svc{Repo: binder.Bind(db), Snapshots: snaps, Segments: segs, Now: time.Now}
}

func (s *Svc) window(in domain.Input) period.Window {
	return in.Period.Window(s.Now().UTC())
}

func (s *Svc) days(ctx context.Context, in domain.Input, w period.Window) ([]period.Day, error) {
	from, to := w.Days()
	rows, err := s.Snapshots.Range(ctx, in.ChannelID, from, to, snapdom.DimTotal)
	if err != nil {
		return nil, err
	}
	out := make([]period.Day, 0, len(rows))
	for _, r := range rows {
		out = append(out, period.Day{
			Date:                   r.Date,
			Views:                  r.Views,
			WatchMinutes:           r.WatchMinutes,
			AverageDurationSeconds: r.AverageDurationSeconds,
			SubscribersGained:      r.SubscribersGained,
		})
	}
	return out, nil
}

// Trend returns one row per day with a total snapshot, in calendar order
func (s *Svc) Trend(ctx context.Context, in domain.Input) ([]period.Day, error) {
	return s.days(ctx, in, s.window(in))
}

// Summary totals the trend rows of the window
func (s *Svc) Summary(ctx context.Context, in domain.Input) (domain.SummaryOut, error) {
	w := s.window(in)
	days, err := s.days(ctx, in, w)
	if err != nil {
		return domain.SummaryOut{}, err
	}
	return domain.SummaryOut{Window: w, Summary: period.Summarize(days)}, nil
}

func (s *Svc) videos(ctx context.Context, in domain.Input) ([]period.Video, period.Window, error) {
	w := s.window(in)
	vs, err := s.Repo.Videos(ctx, in.ChannelID, w.Start, w.End)
	return vs, w, err
}

func loc(in domain.Input) *time.Location {
	if in.Loc == nil {
		return time.UTC
	}
	return in.Loc
}

// Weekday sums views of videos uploaded in the window by upload weekday, Monday first
func (s *Svc) Weekday(ctx context.Context, in domain.Input) ([]period.Bucket, error) {
	vs, w, err := s.videos(ctx, in)
	if err != nil {
		return nil, err
	}
	return period.ByWeekday(vs, w, loc(in)), nil
}

// Hour sums views of videos uploaded in the window by upload hour
func (s *Svc) Hour(ctx context.Context, in domain.Input) ([]period.Bucket, error) {
	vs, w, err := s.videos(ctx, in)
	if err != nil {
		return nil, err
	}
	return period.ByHour(vs, w, loc(in)), nil
}

// Duration splits views of videos uploaded in the window by duration segment
func (s *Svc) Duration(ctx context.Context, in domain.Input) ([]period.Share, error) {
	vs, w, err := s.videos(ctx, in)
	if err != nil {
		return nil, err
	}
	return period.ByDuration(vs, w, s.Segments), nil
}

// Dimensions sums views per dimension value over the window
// demographic rows carry only a viewer share, so their views are estimated from that day's total
func (s *Svc) Dimensions(ctx context.Context, in domain.Input, kind snapdom.DimensionKind) ([]period.Share, error) {
	from, to := s.window(in).Days()
	rows, err := s.Snapshots.Range(ctx, in.ChannelID, from, to, kind)
	if err != nil {
		return nil, err
	}

	var dayViews map[time.Time]int64
	if kind == snapdom.DimDemographic {
		totals, err := s.Snapshots.Range(ctx, in.ChannelID, from, to, snapdom.DimTotal)
		if err != nil {
			return nil, err
		}
		dayViews = make(map[time.Time]int64, len(totals))
		for _, t := range totals {
			dayViews[t.Date] = t.Views
		}
	}

	sums := map[string]int64{}
	for _, r := range rows {
		v := r.Views
		if dayViews != nil {
			v = int64(math.Round(r.ViewerPercentage / 100 * float64(dayViews[r.Date])))
		}
		sums[r.Dimension.Value] += v
	}
	return period.Breakdown(sums), nil
}
