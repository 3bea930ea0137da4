// Package repo provides postgres and clickhouse access for snapshots
package repo

import (
	"context"
	"time"

	"tubepulse/internal/modkit/repokit"
	perr "tubepulse/internal/platform/errors"
	"tubepulse/internal/platform/store"
	"tubepulse/internal/services/snapshots/domain"
)

type (
	// PG binds the snapshot repo to a Queryer or an open tx
	PG struct{}
	// queries implements domain.StorageRepo
	queries struct{ q repokit.Queryer }
)

// NewPG returns the postgres binder
func NewPG() repokit.Binder[domain.StorageRepo] { return PG{} }

// Bind wires a Queryer to the repo
func (PG) Bind(q repokit.Queryer) domain.StorageRepo { return &queries{q: q} }

const upsertSQL = `
insert into snapshots (
	entity_id, day, dim_kind, dim_value,
	views, watch_minutes, avg_duration_seconds, subscribers_gained,
	likes, comments, viewer_percentage
) values ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
on conflict (entity_id, day, dim_kind, dim_value) do update set
	views = excluded.views,
	watch_minutes = excluded.watch_minutes,
	avg_duration_seconds = excluded.avg_duration_seconds,
	subscribers_gained = excluded.subscribers_gained,
	likes = excluded.likes,
	comments = excluded.comments,
	viewer_percentage = excluded.viewer_percentage,
	updated_at = now()
`

const selectCols = `
select entity_id, day, dim_kind, dim_value,
	views, watch_minutes, avg_duration_seconds, subscribers_gained,
	likes, comments, viewer_percentage, created_at, updated_at
from snapshots
`

func (r *queries) Upsert(ctx context.Context, s domain.Snapshot) error {
	_, err := r.q.Exec(ctx, upsertSQL,
		s.EntityID, s.Date.UTC(), string(s.Dimension.Kind), s.Dimension.Value,
		s.Views, s.WatchMinutes, s.AverageDurationSeconds, s.SubscribersGained,
		s.Likes, s.Comments, s.ViewerPercentage,
	)
	return perr.FromPostgresf(err, "snapshots: upsert %s", s.Key)
}

func (r *queries) Get(ctx context.Context, k domain.Key) (domain.Snapshot, bool, error) {
	s, ok, err := store.Optional(ctx, r.q, scanSnapshot,
		selectCols+`where entity_id = $1 and day = $2 and dim_kind = $3 and dim_value = $4`,
		k.EntityID, k.Date.UTC(), string(k.Dimension.Kind), k.Dimension.Value,
	)
	if err != nil {
		return domain.Snapshot{}, false, perr.FromPostgresf(err, "snapshots: get %s", k)
	}
	return s, ok, nil
}

func (r *queries) Range(ctx context.Context, entityID string, from, to time.Time, kind domain.DimensionKind) ([]domain.Snapshot, error) {
	out, err := store.Many(ctx, r.q, scanSnapshot,
		selectCols+`where entity_id = $1 and day between $2 and $3 and dim_kind = $4
order by day asc, dim_value asc`,
		entityID, from.UTC(), to.UTC(), string(kind),
	)
	if err != nil {
		return nil, perr.FromPostgresf(err, "snapshots: range %s", entityID)
	}
	return out, nil
}

func scanSnapshot(row store.Row) (domain.Snapshot, error) {
	var (
		s    domain.Snapshot
		kind string
	)
	err := row.Scan(
		&s.EntityID, &s.Date, &kind, &s.Dimension.Value,
		&s.Views, &s.WatchMinutes, &s.AverageDurationSeconds, &s.SubscribersGained,
		&s.Likes, &s.Comments, &s.ViewerPercentage, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return domain.Snapshot{}, err
	}
	s.Dimension.Kind = domain.DimensionKind(kind)
	s.Key = domain.NewKey(s.EntityID, s.Date, s.Dimension)
	return s, nil
}
