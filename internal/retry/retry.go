// Package retry wraps cloud mutations in a bounded retry loop.
// Cloud control planes throw transient dependency errors on deletes,
// particularly when a resource is still releasing an attachment.
package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// Policy bounds a retry loop. The zero value retries nothing.
type Policy struct {
	MaxAttempts int
	Initial     time.Duration
	Step        time.Duration
}

// Default is the mutation retry policy: 3 attempts with linearly
// growing waits of 1s, 2s.
var Default = Policy{MaxAttempts: 3, Initial: time.Second, Step: time.Second}

// linear waits Initial, Initial+Step, Initial+2*Step, ...
type linear struct {
	policy Policy
	n      int
}

func (l *linear) NextBackOff() time.Duration {
	d := l.policy.Initial + time.Duration(l.n)*l.policy.Step
	l.n++
	return d
}

func (l *linear) Reset() { l.n = 0 }

// Do runs op until it succeeds, the attempt budget is spent, or ctx is
// done. A backoff.Permanent error stops immediately.
func (p Policy) Do(ctx context.Context, op func() error) error {
	if p.MaxAttempts <= 1 {
		return op()
	}
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		return struct{}{}, op()
	},
		backoff.WithBackOff(&linear{policy: p}),
		backoff.WithMaxTries(uint(p.MaxAttempts)),
	)
	return err
}

// Permanent marks err as non-retryable.
func Permanent(err error) error {
	return backoff.Permanent(err)
}
