package domain

import (
	"context"
	"time"
)

// Writer persists snapshots; a write replaces any existing row with the same key
type Writer interface {
	Upsert(ctx context.Context, s Snapshot) error
	UpsertMany(ctx context.Context, batch []Snapshot) error
}

// Reader loads snapshots
type Reader interface {
	// Get returns found=false and a nil error for a missing key
	Get(ctx context.Context, k Key) (Snapshot, bool, error)

	// Range returns rows of one dimension kind with from <= day <= to, ordered by day then dimension value
	Range(ctx context.Context, entityID string, from, to time.Time, kind DimensionKind) ([]Snapshot, error)
}

// StorageRepo is the persistence surface bound to a queryer
type StorageRepo interface {
	Upsert(ctx context.Context, s Snapshot) error
	Get(ctx context.Context, k Key) (Snapshot, bool, error)
	Range(ctx context.Context, entityID string, from, to time.Time, kind DimensionKind) ([]Snapshot, error)
}

// Archive receives an append only copy of written rows
type Archive interface {
	Append(ctx context.Context, batch []Snapshot) error
}
