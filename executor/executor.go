// Package executor applies a reclamation operation to a batch of
// candidate resources. It is the only package that calls the mutating
// side of a provider adapter.
package executor

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/cloudreaper/reap/internal/retry"
	"github.com/cloudreaper/reap/types"
)

// Mutator is the destructive half of a provider adapter.
type Mutator interface {
	Delete(ctx context.Context, r types.Resource) error
	Stop(ctx context.Context, r types.Resource) error
}

const defaultConcurrency = 4

// Options configures an Executor.
type Options struct {
	DryRun      bool
	Concurrency int
	Retry       retry.Policy
	Logger      zerolog.Logger
}

// Executor runs one operation against many resources with bounded
// parallelism. Failures are isolated per resource; one failed delete
// never aborts the batch.
type Executor struct {
	mutator Mutator
	opts    Options
}

// New creates an Executor over the given mutator.
func New(m Mutator, opts Options) *Executor {
	if opts.Concurrency <= 0 {
		opts.Concurrency = defaultConcurrency
	}
	return &Executor{mutator: m, opts: opts}
}

// Run applies op to every resource and reports the outcome. The
// returned result lists outcomes in input order regardless of worker
// scheduling. Stop is only defined for VMs; a batch that violates that
// is a caller bug and fails before any mutation.
func (e *Executor) Run(ctx context.Context, op types.Operation, resources []types.Resource) (*types.RunResult, error) {
	if op == types.OpStop {
		for _, r := range resources {
			if r.Kind != types.KindVM {
				return nil, fmt.Errorf("stop operation on %s %s: only vms can be stopped", r.Kind, r.ID)
			}
		}
	}

	result := &types.RunResult{
		Operation: op,
		DryRun:    e.opts.DryRun,
		StartedAt: time.Now(),
	}
	defer func() { result.Duration = time.Since(result.StartedAt) }()

	if e.opts.DryRun {
		for _, r := range resources {
			e.opts.Logger.Info().
				Str("resource_id", r.ID).
				Str("kind", string(r.Kind)).
				Str("operation", string(op)).
				Msg("dry-run: would execute")
			result.Accepted = append(result.Accepted, r)
		}
		return result, nil
	}

	errs := make([]error, len(resources))
	var g errgroup.Group
	g.SetLimit(e.opts.Concurrency)
	for i, r := range resources {
		if err := ctx.Err(); err != nil {
			errs[i] = err
			continue
		}
		g.Go(func() error {
			errs[i] = e.mutate(ctx, op, r)
			return nil
		})
	}
	_ = g.Wait()

	for i, r := range resources {
		if err := errs[i]; err != nil {
			e.opts.Logger.Error().
				Err(err).
				Str("resource_id", r.ID).
				Str("kind", string(r.Kind)).
				Str("operation", string(op)).
				Msg("mutation failed")
			result.Errored = append(result.Errored, types.Failure{Resource: r, Error: err.Error()})
			continue
		}
		e.opts.Logger.Info().
			Str("resource_id", r.ID).
			Str("kind", string(r.Kind)).
			Str("operation", string(op)).
			Msg("mutation applied")
		result.Accepted = append(result.Accepted, r)
	}
	return result, nil
}

func (e *Executor) mutate(ctx context.Context, op types.Operation, r types.Resource) error {
	return e.opts.Retry.Do(ctx, func() error {
		if op == types.OpStop {
			return e.mutator.Stop(ctx, r)
		}
		return e.mutator.Delete(ctx, r)
	})
}
