// Package service gates the external search provider behind a per day cache
package service

import (
	"context"
	"encoding/json"
	"time"

	"golang.org/x/sync/singleflight"

	"tubepulse/internal/modkit/repokit"
	perr "tubepulse/internal/platform/errors"
	"tubepulse/internal/platform/logger"
	ptime "tubepulse/internal/platform/time"
	"tubepulse/internal/services/api/search/domain"
)

// Service defines the search service contract
type Service interface {
	domain.ServicePort
}

// Gate answers searches from the cache and calls the provider at most once per key per day
type Gate struct {
	Repo   domain.StorageRepo
	Client domain.Searcher
	Now    func() time.Time

	flight singleflight.Group
}

// New constructs a search gate
func New(db repokit.TxRunner, binder repokit.Binder[domain.StorageRepo], client domain.Searcher) *Gate {
	if db == nil {
		panic("search.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("search.Service requires a non nil Repo binder")
	}
	if client == nil {
		panic("search.Service requires a search client")
	}
	return &Gate{Repo: binder.Bind(db), Client: client, Now: time.Now}
}

// Search returns the cached blob for today or fetches, stores and returns a fresh one
func (g *Gate) Search(ctx context.Context, in domain.Input) (domain.Result, error) {
	key, err := domain.NewKey(in.Keyword, in.Category, g.Now())
	if err != nil {
		return domain.Result{}, err
	}
	log := logger.C(ctx).With().Str("search_key", key.String()).Logger()

	blob, ok, err := g.Repo.Get(ctx, key)
	if err != nil {
		return domain.Result{}, err
	}
	if ok {
		log.Debug().Msg("search cache hit")
		return result(key, blob, true), nil
	}

	v, err, shared := g.flight.Do(key.String(), func() (any, error) {
		// the flight outlives any one caller
		fctx := context.WithoutCancel(ctx)
		if blob, ok, err := g.Repo.Get(fctx, key); err != nil || ok {
			return blob, err
		}
		blob, err := g.Client.Search(fctx, key.Keyword, key.Category, in.Limit)
		if err != nil {
			return nil, external(err)
		}
		if err := g.Repo.Upsert(fctx, key, blob); err != nil {
			return nil, err
		}
		log.Info().Int("bytes", len(blob)).Msg("search cache filled")
		return blob, nil
	})
	if err != nil {
		log.Warn().Err(err).Bool("shared", shared).Msg("search miss failed")
		return domain.Result{}, err
	}
	return result(key, v.(json.RawMessage), false), nil
}

// external keeps provider codes and maps anything else to Unavailable
func external(err error) error {
	if perr.IsExternal(err) {
		return err
	}
	return perr.Wrap(err, perr.ErrorCodeUnavailable, "search provider failed")
}

func result(k domain.Key, blob json.RawMessage, cached bool) domain.Result {
	return domain.Result{
		Keyword:        k.Keyword,
		Category:       k.Category,
		CollectionDate: ptime.FormatDate(k.CollectionDate),
		Cached:         cached,
		Result:         blob,
	}
}
