// Package service defines the interfaces that wire the monitor's
// components together.
package service

import (
	"context"
	"time"

	"prowl/internal/model"
)

// MatchStore persists and queries product matches.
type MatchStore interface {
	SaveMatch(ctx context.Context, record *model.MatchRecord) error
	ListMatches(ctx context.Context, filter MatchFilter) ([]model.MatchRecord, error)
	CountMatches(ctx context.Context) (int64, error)
	Close() error
}

// MatchFilter narrows a match listing. Zero values mean "no filter";
// a zero Limit falls back to the store's default.
type MatchFilter struct {
	Product string
	Channel string
	Limit   int
}

// Notifier delivers a notification for one product match.
type Notifier interface {
	Notify(ctx context.Context, n model.Notification) error
}

// MessageSource produces channel messages for the monitor to process.
// Run blocks until ctx is done; Messages is closed when Run returns.
type MessageSource interface {
	Run(ctx context.Context) error
	Messages() <-chan model.Message
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
