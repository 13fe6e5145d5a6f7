// Package events records which backend served each pipeline stage, so
// backend accuracy can be compared after the fact. Recording is fire and
// forget: a sink failure never affects the reply.
package events

import (
	"context"
	"time"
)

// StageEvent is one stage outcome for one handled update.
type StageEvent struct {
	UserID    int64     `json:"user_id"`
	RequestID string    `json:"request_id"`
	Stage     string    `json:"stage"` // extract, improve, translate
	Method    string    `json:"method"`
	Success   bool      `json:"success"`
	Detail    string    `json:"detail,omitempty"`
	At        time.Time `json:"at"`
}

// Sink accepts stage events.
type Sink interface {
	Record(ctx context.Context, ev StageEvent)
}

// Nop is substituted when no sink is configured.
type Nop struct{}

// Record discards the event.
func (Nop) Record(context.Context, StageEvent) {}

type metaKey struct{}

// Meta ties events to the update being handled.
type Meta struct {
	UserID    int64
	RequestID string
}

// WithMeta attaches update metadata to the context.
func WithMeta(ctx context.Context, m Meta) context.Context {
	return context.WithValue(ctx, metaKey{}, m)
}

// MetaFrom reads update metadata back out; zero value when absent.
func MetaFrom(ctx context.Context) Meta {
	if m, ok := ctx.Value(metaKey{}).(Meta); ok {
		return m
	}
	return Meta{}
}
