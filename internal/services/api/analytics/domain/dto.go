// Package domain defines the channel analytics read path inputs and ports
package domain

import (
	"context"
	"time"

	"tubepulse/internal/core/period"
	snapdom "tubepulse/internal/services/snapshots/domain"
)

// Input selects a channel and a period window; Loc is used for weekday and hour bucketing
type Input struct {
	ChannelID string
	Period    period.Token
	Loc       *time.Location
}

// SummaryOut is the key metric rollup with the resolved window
type SummaryOut struct {
	Window period.Window `json:"window"`
	period.Summary
}

// ServicePort is consumed by handlers and other modules
type ServicePort interface {
	Trend(ctx context.Context, in Input) ([]period.Day, error)
	Weekday(ctx context.Context, in Input) ([]period.Bucket, error)
	Hour(ctx context.Context, in Input) ([]period.Bucket, error)
	Duration(ctx context.Context, in Input) ([]period.Share, error)
	Summary(ctx context.Context, in Input) (SummaryOut, error)
	Dimensions(ctx context.Context, in Input, kind snapdom.DimensionKind) ([]period.Share, error)
}
