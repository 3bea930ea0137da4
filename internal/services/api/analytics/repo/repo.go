// Package repo provides postgres access to the video catalog for analytics
package repo

import (
	"context"
	"time"

	"tubepulse/internal/core/period"
	"tubepulse/internal/modkit/repokit"
	perr "tubepulse/internal/platform/errors"
	"tubepulse/internal/platform/store"
)

// Repo is the catalog surface analytics needs
type Repo interface {
	// Videos lists a channel's videos uploaded in [start, end] with their latest total views
	Videos(ctx context.Context, channelID string, start, end time.Time) ([]period.Video, error)
}

type (
	// PG binds the repo to a Queryer
	PG struct{}
	// queries implements Repo
	queries struct{ q repokit.Queryer }
)

// NewPG returns the postgres binder
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind wires a Queryer to the repo
func (PG) Bind(q repokit.Queryer) Repo { return &queries{q: q} }

func (r *queries) Videos(ctx context.Context, channelID string, start, end time.Time) ([]period.Video, error) {
	const sql = `
select id, uploaded_at, duration_seconds, view_count
from videos
where channel_id = $1 and uploaded_at between $2 and $3
order by uploaded_at asc, id asc
`
	out, err := store.Many(ctx, r.q, func(row store.Row) (period.Video, error) {
		var v period.Video
		err := row.Scan(&v.ID, &v.UploadedAt, &v.DurationSeconds, &v.Views)
		return v, err
	}, sql, channelID, start.UTC(), end.UTC())
	if err != nil {
		return nil, perr.FromPostgresf(err, "analytics: videos of %s", channelID)
	}
	return out, nil
}
