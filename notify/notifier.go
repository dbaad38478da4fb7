// Package notify reports run results to humans. Notification failures
// never fail a run; the caller logs and moves on.
package notify

import (
	"context"

	"github.com/cloudreaper/reap/types"
)

// Notifier announces a run result.
type Notifier interface {
	Notify(ctx context.Context, result types.RunResult) error
}

// Nop is the notifier used when no channel is configured.
type Nop struct{}

func (Nop) Notify(context.Context, types.RunResult) error { return nil }
