package service

import (
	"context"
	"strings"
	"time"

	"tubepulse/internal/adapters/analytics"
	"tubepulse/internal/platform/logger"
	snapdom "tubepulse/internal/services/snapshots/domain"
)

// dimensionSpec says how to request one breakdown and how to name its rows
type dimensionSpec struct {
	dimensions []string
	metrics    []string
	value      func(analytics.Row) (string, error)
}

var dimensionSpecs = map[snapdom.DimensionKind]dimensionSpec{
	snapdom.DimDemographic: {
		dimensions: []string{analytics.ColAgeGroup, analytics.ColGender},
		metrics:    []string{analytics.ColViewerPercentage},
		value: func(r analytics.Row) (string, error) {
			g, err := r.String(analytics.ColGender)
			if err != nil {
				return "", err
			}
			a, err := r.String(analytics.ColAgeGroup)
			if err != nil {
				return "", err
			}
			return g + "|" + strings.TrimPrefix(a, "age"), nil
		},
	},
	snapdom.DimDevice: {
		dimensions: []string{analytics.ColDeviceType},
		metrics:    []string{analytics.ColViews, analytics.ColMinutesWatched},
		value:      func(r analytics.Row) (string, error) { return r.String(analytics.ColDeviceType) },
	},
	snapdom.DimTrafficSource: {
		dimensions: []string{analytics.ColTrafficSource},
		metrics:    []string{analytics.ColViews, analytics.ColMinutesWatched},
		value:      func(r analytics.Row) (string, error) { return r.String(analytics.ColTrafficSource) },
	},
}

// totals maps day rows by column name; bad rows are skipped and counted
func totals(ctx context.Context, entityID string, rep analytics.Report) ([]snapdom.Snapshot, int) {
	rows, errs := rep.Rows()
	skipped := len(errs)
	for _, err := range errs {
		logger.C(ctx).Debug().Err(err).Str("entity", entityID).Msg("ingest: row skipped")
	}
	out := make([]snapdom.Snapshot, 0, len(rows))
	for _, r := range rows {
		s, err := totalRow(entityID, r)
		if err != nil {
			skipped++
			logger.C(ctx).Debug().Err(err).Str("entity", entityID).Msg("ingest: row skipped")
			continue
		}
		out = append(out, s)
	}
	return out, skipped
}

func totalRow(entityID string, r analytics.Row) (snapdom.Snapshot, error) {
	var (
		s   snapdom.Snapshot
		err error
	)
	day, err := r.Date(analytics.ColDay)
	if err != nil {
		return s, err
	}
	s.Key = snapdom.NewKey(entityID, day, snapdom.Dimension{})
	if s.Views, err = r.Int(analytics.ColViews); err != nil {
		return s, err
	}
	if s.WatchMinutes, err = r.Int(analytics.ColMinutesWatched); err != nil {
		return s, err
	}
	if s.AverageDurationSeconds, err = r.Float(analytics.ColAverageDuration); err != nil {
		return s, err
	}
	if s.SubscribersGained, err = r.Int(analytics.ColSubscribersGained); err != nil {
		return s, err
	}
	if s.Likes, err = r.IntOr(analytics.ColLikes, 0); err != nil {
		return s, err
	}
	if s.Comments, err = r.IntOr(analytics.ColComments, 0); err != nil {
		return s, err
	}
	return s, nil
}

// breakdown maps dimension rows onto date; the provider returns no day column for them
func breakdown(ctx context.Context, entityID string, date time.Time, kind snapdom.DimensionKind, spec dimensionSpec, rep analytics.Report) ([]snapdom.Snapshot, int) {
	rows, errs := rep.Rows()
	skipped := len(errs)
	out := make([]snapdom.Snapshot, 0, len(rows))
	for _, r := range rows {
		s, err := dimensionRow(entityID, date, kind, spec, r)
		if err != nil {
			skipped++
			logger.C(ctx).Debug().Err(err).Str("entity", entityID).Str("kind", string(kind)).Msg("ingest: row skipped")
			continue
		}
		out = append(out, s)
	}
	return out, skipped
}

func dimensionRow(entityID string, date time.Time, kind snapdom.DimensionKind, spec dimensionSpec, r analytics.Row) (snapdom.Snapshot, error) {
	var s snapdom.Snapshot
	v, err := spec.value(r)
	if err != nil {
		return s, err
	}
	s.Key = snapdom.NewKey(entityID, date, snapdom.Dimension{Kind: kind, Value: v})
	if kind == snapdom.DimDemographic {
		s.ViewerPercentage, err = r.Float(analytics.ColViewerPercentage)
		return s, err
	}
	if s.Views, err = r.Int(analytics.ColViews); err != nil {
		return s, err
	}
	s.WatchMinutes, err = r.IntOr(analytics.ColMinutesWatched, 0)
	return s, err
}
