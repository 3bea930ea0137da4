// Package net provides request context helpers shared by the http stack
package net

import (
	"context"

	chimw "github.com/go-chi/chi/v5/middleware"

	"tubepulse/internal/platform/logger"
)

// WithRequest stores reqID where both chi and the logger can find it
func WithRequest(ctx context.Context, reqID string) context.Context {
	if reqID == "" {
		return ctx
	}
	ctx = context.WithValue(ctx, chimw.RequestIDKey, reqID)
	return logger.WithRequest(ctx, reqID)
}

// RequestID returns the request id on ctx if present
func RequestID(ctx context.Context) string { return chimw.GetReqID(ctx) }
