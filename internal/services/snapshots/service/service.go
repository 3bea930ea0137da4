// Package service implements the snapshot store over a bound repo
package service

import (
	"context"
	"time"

	"tubepulse/internal/modkit/repokit"
	perr "tubepulse/internal/platform/errors"
	"tubepulse/internal/platform/logger"
	ptime "tubepulse/internal/platform/time"
	"tubepulse/internal/services/snapshots/domain"
)

// Service implements domain.Writer and domain.Reader
type Service struct {
	DB      repokit.TxRunner
	Binder  repokit.Binder[domain.StorageRepo]
	Archive domain.Archive
}

// New constructs the snapshot service; archive may be nil
func New(db repokit.TxRunner, binder repokit.Binder[domain.StorageRepo], archive domain.Archive) *Service {
	if db == nil {
		panic("snapshots.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("snapshots.Service requires a non nil Repo binder")
	}
	return &Service{DB: db, Binder: binder, Archive: archive}
}

var (
	_ domain.Writer = (*Service)(nil)
	_ domain.Reader = (*Service)(nil)
)

// Upsert writes one row, replacing any row with the same key
func (s *Service) Upsert(ctx context.Context, snap domain.Snapshot) error {
	if err := snap.Validate(); err != nil {
		return err
	}
	snap.Key = domain.NewKey(snap.EntityID, snap.Date, snap.Dimension)
	if err := s.Binder.Bind(s.DB).Upsert(ctx, snap); err != nil {
		return err
	}
	s.archive(ctx, []domain.Snapshot{snap})
	return nil
}

// UpsertMany writes the batch in one transaction
func (s *Service) UpsertMany(ctx context.Context, batch []domain.Snapshot) error {
	if len(batch) == 0 {
		return nil
	}
	for i := range batch {
		if err := batch[i].Validate(); err != nil {
			return err
		}
		batch[i].Key = domain.NewKey(batch[i].EntityID, batch[i].Date, batch[i].Dimension)
	}
	err := s.DB.Tx(ctx, func(q repokit.Queryer) error {
		r := s.Binder.Bind(q)
		for _, snap := range batch {
			if err := r.Upsert(ctx, snap); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if _, ok := perr.As(err); !ok {
			err = perr.Wrap(err, perr.ErrorCodeDB, "snapshots: upsert batch")
		}
		return err
	}
	s.archive(ctx, batch)
	return nil
}

// Get loads one row by key
func (s *Service) Get(ctx context.Context, k domain.Key) (domain.Snapshot, bool, error) {
	return s.Binder.Bind(s.DB).Get(ctx, domain.NewKey(k.EntityID, k.Date, k.Dimension))
}

// Range loads the rows of one dimension kind in the inclusive day range
func (s *Service) Range(ctx context.Context, entityID string, from, to time.Time, kind domain.DimensionKind) ([]domain.Snapshot, error) {
	from, to = ptime.Day(from), ptime.Day(to)
	if from.After(to) {
		return nil, perr.WithField(perr.InvalidArgf("snapshots: range start after end"), "from")
	}
	return s.Binder.Bind(s.DB).Range(ctx, entityID, from, to, kind)
}

// archive mirrors written rows; the mirror is not a read source so failures only warn
func (s *Service) archive(ctx context.Context, batch []domain.Snapshot) {
	if s.Archive == nil {
		return
	}
	if err := s.Archive.Append(ctx, batch); err != nil {
		logger.C(ctx).Warn().Err(err).Int("rows", len(batch)).Str("entity", batch[0].EntityID).
			Msg("snapshots: archive append failed")
	}
}
