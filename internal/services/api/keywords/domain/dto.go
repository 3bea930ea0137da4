// Package domain holds DTOs for the keyword ranking contract
package domain

import (
	"context"

	"tubepulse/internal/core/keywords"
	"tubepulse/internal/core/period"
)

// Limit bounds for ranked keywords
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Input selects a channel window and how many terms to return
type Input struct {
	ChannelID string
	Period    period.Token
	Limit     int
}

// Out is a ranked keyword list with the window it covers
type Out struct {
	Window period.Window   `json:"window"`
	Terms  []keywords.Term `json:"terms"`
}

// ServicePort is consumed by handlers and other modules
type ServicePort interface {
	Top(ctx context.Context, in Input) (Out, error)
}
