// Package repo stores search results in postgres keyed by keyword, day and category
package repo

import (
	"context"
	"encoding/json"

	"tubepulse/internal/modkit/repokit"
	perr "tubepulse/internal/platform/errors"
	"tubepulse/internal/platform/store"
	"tubepulse/internal/services/api/search/domain"
)

type (
	// PG binds the repo to a Queryer
	PG struct{}
	// queries implements domain.StorageRepo
	queries struct{ q repokit.Queryer }
)

// NewPG returns the postgres binder
func NewPG() repokit.Binder[domain.StorageRepo] { return PG{} }

// Bind wires a Queryer to the repo
func (PG) Bind(q repokit.Queryer) domain.StorageRepo { return &queries{q: q} }

const getSQL = `
select result
from search_cache
where keyword = $1 and collection_date = $2 and category = $3
`

// an existing row for the day is overwritten, not duplicated
const upsertSQL = `
insert into search_cache (keyword, collection_date, category, result)
values ($1, $2, $3, $4)
on conflict (keyword, collection_date, category) do update set
  result = excluded.result,
  updated_at = now()
`

func (r *queries) Get(ctx context.Context, k domain.Key) (json.RawMessage, bool, error) {
	blob, ok, err := store.Optional(ctx, r.q, func(row store.Row) (json.RawMessage, error) {
		var b []byte
		err := row.Scan(&b)
		return json.RawMessage(b), err
	}, getSQL, k.Keyword, k.CollectionDate, k.Category)
	if err != nil {
		return nil, false, perr.FromPostgresf(err, "search cache get %s", k)
	}
	return blob, ok, nil
}

func (r *queries) Upsert(ctx context.Context, k domain.Key, blob json.RawMessage) error {
	if _, err := r.q.Exec(ctx, upsertSQL, k.Keyword, k.CollectionDate, k.Category, blob); err != nil {
		return perr.FromPostgresf(err, "search cache upsert %s", k)
	}
	return nil
}
