// Package service runs the daily ingest passes
package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"tubepulse/internal/adapters/analytics"
	"tubepulse/internal/modkit/repokit"
	"tubepulse/internal/platform/logger"
	ptime "tubepulse/internal/platform/time"
	"tubepulse/internal/services/ingest/domain"
	"tubepulse/internal/services/ingest/guardrails"
	snapdom "tubepulse/internal/services/snapshots/domain"
)

// Fetcher is the analytics source
type Fetcher interface {
	Query(ctx context.Context, q analytics.Query) (analytics.Report, error)
}

// Config controls cadence and per pass behavior
type Config struct {
	Interval      time.Duration
	Warmup        time.Duration
	EntityTimeout time.Duration

	// Concurrency > 1 processes entities in parallel; keys never overlap across entities
	Concurrency int

	// Dimensions lists the sub breakdowns fetched after each entity's totals
	Dimensions []snapdom.DimensionKind
}

// Service owns the ticker and the pass logic
type Service struct {
	DB        repokit.TxRunner
	Binder    repokit.Binder[domain.StorageRepo]
	Snapshots snapdom.Writer
	Source    Fetcher
	Cfg       Config

	// Lease is optional; nil runs without the cross process guard
	Lease guardrails.LeaseFunc
	// Tokens resolves an entity credential ref to a bearer token; nil uses the client default
	Tokens func(ref string) string
	Now    func() time.Time
	NewID  func() string

	running sync.Mutex
}

// New constructs the ingest service
func New(
	db repokit.TxRunner,
	binder repokit.Binder[domain.StorageRepo],
	snaps snapdom.Writer,
	src Fetcher,
	cfg Config,
	lease guardrails.LeaseFunc,
) *Service {
	if db == nil {
		panic("ingest.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("ingest.Service requires a non nil Repo binder")
	}
	if snaps == nil || src == nil {
		panic("ingest.Service requires a snapshot writer and an analytics source")
	}
	if cfg.Interval <= 0 {
		cfg.Interval = 24 * time.Hour
	}
	return &Service{
		DB:        db,
		Binder:    binder,
		Snapshots: snaps,
		Source:    src,
		Cfg:       cfg,
		Lease:     lease,
		Now:       time.Now,
		NewID:     func() string { return uuid.NewString() },
	}
}

var _ domain.RunnerPort = (*Service)(nil)

// Run waits Warmup, runs a pass, then one pass per Interval until ctx is done
func (s *Service) Run(ctx context.Context) error {
	l := logger.C(ctx).With().Str("mod", "ingest").Logger()
	l.Info().Dur("warmup", s.Cfg.Warmup).Dur("interval", s.Cfg.Interval).Msg("ingest: scheduler started")

	warm := time.NewTimer(s.Cfg.Warmup)
	defer warm.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-warm.C:
	}

	t := time.NewTicker(s.Cfg.Interval)
	defer t.Stop()

	var wg sync.WaitGroup
	wg.Go(func() { s.tick(ctx) })
	for {
		select {
		case <-ctx.Done():
			wg.Wait()
			return ctx.Err()
		case <-t.C:
			wg.Go(func() { s.tick(ctx) })
		}
	}
}

// tick runs one pass for yesterday unless one is still running; it reports whether it ran
func (s *Service) tick(ctx context.Context) bool {
	if !s.running.TryLock() {
		logger.C(ctx).Warn().Str("mod", "ingest").Msg("ingest: previous pass still running; tick skipped")
		return false
	}
	defer s.running.Unlock()

	res, err := s.RunOnce(ctx, ptime.Yesterday(s.Now()))
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.C(ctx).Error().Err(err).Str("mod", "ingest").Msg("ingest: pass failed")
		return true
	}
	if res.Failed > 0 {
		logger.C(ctx).Warn().Int("failed", res.Failed).Str("run_id", res.RunID).
			Msg("ingest: pass finished with failures; the next cycle retries them")
	}
	return true
}

// RunOnce ingests date for every tracked entity under the lease
func (s *Service) RunOnce(ctx context.Context, date time.Time) (domain.RunResult, error) {
	res := domain.RunResult{RunID: s.NewID(), TargetDate: ptime.Day(date), StartedAt: s.Now().UTC()}
	ctx = logger.WithRun(ctx, res.RunID)
	l := logger.C(ctx).With().Str("mod", "ingest").Str("date", ptime.FormatDate(date)).Logger()

	pass := func(ctx context.Context) error {
		l.Info().Msg("ingest: pass start")
		var entities []domain.Entity
		err := s.DB.Tx(ctx, func(q repokit.Queryer) error {
			var err error
			entities, err = s.Binder.Bind(q).TrackedEntities(ctx)
			return err
		})
		if err != nil {
			return err
		}
		res.Entities = len(entities)
		s.ingestAll(ctx, entities, res.TargetDate, &res)
		res.FinishedAt = s.Now().UTC()
		l.Info().Int("entities", res.Entities).Int("succeeded", res.Succeeded).Int("failed", res.Failed).
			Int("skipped_rows", res.SkippedRows).Dur("took", res.FinishedAt.Sub(res.StartedAt)).Msg("ingest: pass done")
		return s.DB.Tx(ctx, func(q repokit.Queryer) error {
			return s.Binder.Bind(q).RecordRun(ctx, res)
		})
	}

	if s.Lease == nil {
		return res, pass(ctx)
	}
	if err := s.Lease(ctx, pass); err != nil {
		if errors.Is(err, guardrails.ErrLeaseHeld) {
			l.Info().Msg("ingest: lease held by another process; clean skip")
			res.Skipped = true
			return res, nil
		}
		return res, err
	}
	return res, nil
}

type outcome struct {
	skippedRows int
	err         error
}

func (s *Service) ingestAll(ctx context.Context, entities []domain.Entity, date time.Time, res *domain.RunResult) {
	var mu sync.Mutex
	record := func(e domain.Entity, o outcome) {
		mu.Lock()
		defer mu.Unlock()
		res.SkippedRows += o.skippedRows
		if o.err != nil {
			res.Failed++
			logger.C(ctx).Warn().Err(o.err).Str("entity", e.ID).Msg("ingest: entity failed; continuing")
			return
		}
		res.Succeeded++
	}

	if s.Cfg.Concurrency <= 1 {
		for _, e := range entities {
			if ctx.Err() != nil {
				return
			}
			record(e, s.ingestEntity(ctx, e, date))
		}
		return
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.Cfg.Concurrency)
	for _, e := range entities {
		g.Go(func() error {
			record(e, s.ingestEntity(gctx, e, date))
			return nil
		})
	}
	_ = g.Wait()
}

// ingestEntity writes the total row then each configured dimension; the first error fails the entity
func (s *Service) ingestEntity(ctx context.Context, e domain.Entity, date time.Time) outcome {
	ctx, cancel := guardrails.ForEntity(ctx, s.Cfg.EntityTimeout)
	defer cancel()

	var token string
	if s.Tokens != nil {
		token = s.Tokens(e.CredentialRef)
	}

	rep, err := s.Source.Query(ctx, analytics.Query{
		EntityID:   e.ID,
		Start:      date,
		End:        date,
		Metrics:    analytics.DailyMetrics,
		Dimensions: []string{analytics.ColDay},
		Token:      token,
	})
	if err != nil {
		return outcome{err: err}
	}
	snaps, skipped := totals(ctx, e.ID, rep)
	if len(snaps) == 0 {
		logger.C(ctx).Debug().Str("entity", e.ID).Msg("ingest: empty report")
	}
	if err := s.Snapshots.UpsertMany(ctx, snaps); err != nil {
		return outcome{skippedRows: skipped, err: err}
	}

	for _, kind := range s.Cfg.Dimensions {
		spec, ok := dimensionSpecs[kind]
		if !ok {
			continue
		}
		rep, err := s.Source.Query(ctx, analytics.Query{
			EntityID:   e.ID,
			Start:      date,
			End:        date,
			Metrics:    spec.metrics,
			Dimensions: spec.dimensions,
			Token:      token,
		})
		if err != nil {
			return outcome{skippedRows: skipped, err: err}
		}
		rows, n := breakdown(ctx, e.ID, date, kind, spec, rep)
		skipped += n
		if err := s.Snapshots.UpsertMany(ctx, rows); err != nil {
			return outcome{skippedRows: skipped, err: err}
		}
	}
	return outcome{skippedRows: skipped}
}
