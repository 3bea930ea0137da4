// Package repo provides postgres access for ingest bookkeeping
package repo

import (
	"context"

	"tubepulse/internal/modkit/repokit"
	perr "tubepulse/internal/platform/errors"
	"tubepulse/internal/platform/store"
	ptime "tubepulse/internal/platform/time"
	"tubepulse/internal/services/ingest/domain"
)

type (
	// PG binds the ingest repo to a Queryer or an open tx
	PG struct{}
	// queries implements domain.StorageRepo
	queries struct{ q repokit.Queryer }
)

// NewPG returns the postgres binder
func NewPG() repokit.Binder[domain.StorageRepo] { return PG{} }

// Bind wires a Queryer to the repo
func (PG) Bind(q repokit.Queryer) domain.StorageRepo { return &queries{q: q} }

func (r *queries) TrackedEntities(ctx context.Context) ([]domain.Entity, error) {
	out, err := store.Many(ctx, r.q, func(row store.Row) (domain.Entity, error) {
		var e domain.Entity
		err := row.Scan(&e.ID, &e.Title, &e.CredentialRef)
		return e, err
	}, `select id, title, credential_ref from channels where tracked order by id`)
	if err != nil {
		return nil, perr.FromPostgres(err, "ingest: list tracked channels")
	}
	return out, nil
}

func (r *queries) RecordRun(ctx context.Context, run domain.RunResult) error {
	_, err := r.q.Exec(ctx, `
insert into ingest_runs (run_id, target_date, started_at, finished_at, entities, succeeded, failed, skipped_rows)
values ($1, $2, $3, $4, $5, $6, $7, $8)
on conflict (run_id) do update set
	finished_at = excluded.finished_at,
	entities = excluded.entities,
	succeeded = excluded.succeeded,
	failed = excluded.failed,
	skipped_rows = excluded.skipped_rows
`, run.RunID, ptime.Day(run.TargetDate), run.StartedAt.UTC(), ptime.Ptr(run.FinishedAt),
		run.Entities, run.Succeeded, run.Failed, run.SkippedRows)
	return perr.FromPostgresf(err, "ingest: record run %s", run.RunID)
}
