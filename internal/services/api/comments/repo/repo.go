// Package repo provides postgres access to captured comments
package repo

import (
	"context"
	"time"

	"tubepulse/internal/core/comments"
	"tubepulse/internal/modkit/repokit"
	perr "tubepulse/internal/platform/errors"
	"tubepulse/internal/platform/store"
)

// Repo is the comment read surface
type Repo interface {
	// Window lists live comments on the channel's videos published in [start, end]
	Window(ctx context.Context, channelID string, start, end time.Time) ([]comments.Record, error)
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

const windowSQL = `
select c.id, c.video_id, v.channel_id, c.author, c.body, c.like_count,
       c.published_at, c.deleted, c.sentiment, c.speech_act
from comments c
join videos v on v.id = c.video_id
where v.channel_id = $1
  and c.published_at between $2 and $3
  and not c.deleted
order by c.published_at asc, c.id asc
`

func (r *queries) Window(ctx context.Context, channelID string, start, end time.Time) ([]comments.Record, error) {
	out, err := store.Many(ctx, r.q, scanRecord, windowSQL, channelID, start.UTC(), end.UTC())
	if err != nil {
		return nil, perr.FromPostgresf(err, "comments: window of %s", channelID)
	}
	return out, nil
}

func scanRecord(row store.Row) (comments.Record, error) {
	var c comments.Record
	err := row.Scan(&c.ID, &c.VideoID, &c.ChannelID, &c.Author, &c.Text, &c.LikeCount,
		&c.PublishedAt, &c.Deleted, &c.Sentiment, &c.SpeechAct)
	return c, err
}
