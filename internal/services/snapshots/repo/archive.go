package repo

import (
	"context"
	"time"

	"tubepulse/internal/platform/store"
	"tubepulse/internal/services/snapshots/domain"
)

// ArchiveTable is the clickhouse mirror of the snapshots table
const ArchiveTable = "snapshots_archive"

// ArchiveDDL creates the mirror; rows are append only and deduplicated by nothing
const ArchiveDDL = `
CREATE TABLE IF NOT EXISTS snapshots_archive (
	entity_id            String,
	day                  Date,
	dim_kind             LowCardinality(String),
	dim_value            String,
	views                Int64,
	watch_minutes        Int64,
	avg_duration_seconds Float64,
	subscribers_gained   Int64,
	likes                Int64,
	comments             Int64,
	viewer_percentage    Float64,
	ingested_at          DateTime64(3, 'UTC')
) ENGINE = MergeTree
PARTITION BY toYYYYMM(day)
ORDER BY (entity_id, day, dim_kind, dim_value, ingested_at)
`

// CHArchive appends snapshot rows to clickhouse
type CHArchive struct {
	ch  store.Clickhouse
	now func() time.Time
}

// NewArchive returns nil when ch is nil so callers can skip the mirror
func NewArchive(ch store.Clickhouse, now func() time.Time) *CHArchive {
	if ch == nil {
		return nil
	}
	if now == nil {
		now = time.Now
	}
	return &CHArchive{ch: ch, now: now}
}

// Ensure creates the mirror table if it does not exist
func (a *CHArchive) Ensure(ctx context.Context) error {
	return a.ch.Exec(ctx, ArchiveDDL)
}

// Append inserts batch in table column order
func (a *CHArchive) Append(ctx context.Context, batch []domain.Snapshot) error {
	if len(batch) == 0 {
		return nil
	}
	at := a.now().UTC()
	rows := make([][]any, 0, len(batch))
	for _, s := range batch {
		rows = append(rows, []any{
			s.EntityID, s.Date.UTC(), string(s.Dimension.Kind), s.Dimension.Value,
			s.Views, s.WatchMinutes, s.AverageDurationSeconds, s.SubscribersGained,
			s.Likes, s.Comments, s.ViewerPercentage, at,
		})
	}
	return a.ch.Insert(ctx, ArchiveTable, rows)
}
