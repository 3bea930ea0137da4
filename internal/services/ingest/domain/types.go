// Package domain defines ingest entities, run results and ports
package domain

import (
	"context"
	"time"
)

// Entity is a tracked channel the scheduler pulls a daily report for
type Entity struct {
	ID    string
	Title string
	// CredentialRef names the token to use; empty means the client default
	CredentialRef string
}

// RunResult summarizes one scheduler pass
type RunResult struct {
	RunID       string    `json:"run_id"`
	TargetDate  time.Time `json:"target_date"`
	StartedAt   time.Time `json:"started_at"`
	FinishedAt  time.Time `json:"finished_at"`
	Entities    int       `json:"entities"`
	Succeeded   int       `json:"succeeded"`
	Failed      int       `json:"failed"`
	SkippedRows int       `json:"skipped_rows"`
	// Skipped is set when another pass held the lease
	Skipped bool `json:"skipped,omitempty"`
}

// RunnerPort is what binaries drive
type RunnerPort interface {
	// Run ticks until ctx is done
	Run(ctx context.Context) error
	// RunOnce ingests date for every tracked entity
	RunOnce(ctx context.Context, date time.Time) (RunResult, error)
}

// StorageRepo is the ingest bookkeeping surface
type StorageRepo interface {
	TrackedEntities(ctx context.Context) ([]Entity, error)
	RecordRun(ctx context.Context, r RunResult) error
}
