// Package repo reads the text fields of a channel's videos
package repo

import (
	"context"
	"time"

	"tubepulse/internal/modkit/repokit"
	perr "tubepulse/internal/platform/errors"
	"tubepulse/internal/platform/store"
)

// VideoText is the rankable text of one video
type VideoText struct {
	Title       string
	Description string
	Tags        []string
}

// Repo is the keyword corpus surface
type Repo interface {
	Texts(ctx context.Context, channelID string, start, end time.Time) ([]VideoText, error)
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

// Texts lists videos uploaded in [start, end], oldest first so ties rank by first use
func (r *queries) Texts(ctx context.Context, channelID string, start, end time.Time) ([]VideoText, error) {
	const sql = `
select title, description, tags
from videos
where channel_id = $1 and uploaded_at between $2 and $3
order by uploaded_at asc, id asc
`
	out, err := store.Many(ctx, r.q, func(row store.Row) (VideoText, error) {
		var v VideoText
		err := row.Scan(&v.Title, &v.Description, &v.Tags)
		return v, err
	}, sql, channelID, start.UTC(), end.UTC())
	if err != nil {
		return nil, perr.FromPostgresf(err, "keywords: texts of %s", channelID)
	}
	return out, nil
}
