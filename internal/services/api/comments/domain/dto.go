// Package domain holds DTOs for comment insight http and service contracts
package domain

import (
	"context"

	"tubepulse/internal/core/comments"
)

// Dates are calendar days, end inclusive

// WindowInput selects a channel's live comments published between two dates
type WindowInput struct {
	ChannelID string `json:"channel_id" validate:"required,max=64" example:"UC_x5XG1OV2P6uZZ5FSM9Ttw"`
	Start     string `json:"start" validate:"required,ymd" example:"2025-08-01"`
	End       string `json:"end" validate:"required,ymd" example:"2025-08-31"`
}

// DistributionInput groups the window by one label kind
type DistributionInput struct {
	WindowInput
	Kind string `json:"kind" validate:"required,oneof=sentiment speech_act" example:"sentiment"`
}

// RepresentativesInput picks one comment per label; kind defaults to sentiment
type RepresentativesInput struct {
	WindowInput
	Kind string `json:"kind,omitempty" validate:"omitempty,oneof=sentiment speech_act" example:"speech_act"`
}

// TopInput lists the latest or most liked comments; limit is clamped to [1, 100]
type TopInput struct {
	WindowInput
	Order string `json:"order,omitempty" validate:"omitempty,oneof=latest liked" example:"liked"`
	Limit int    `json:"limit,omitempty" example:"10"`
}

// ServicePort is consumed by handlers and other modules
type ServicePort interface {
	Distribution(ctx context.Context, in DistributionInput) ([]comments.Category, error)
	Representatives(ctx context.Context, in RepresentativesInput) ([]comments.Representative, error)
	Top(ctx context.Context, in TopInput) ([]comments.Record, error)
}
