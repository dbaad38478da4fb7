package executor

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudreaper/reap/internal/retry"
	"github.com/cloudreaper/reap/types"
)

// fakeMutator records calls and fails the IDs it is told to fail.
type fakeMutator struct {
	mu      sync.Mutex
	deleted []string
	stopped []string
	failIDs map[string]error
}

func (f *fakeMutator) Delete(_ context.Context, r types.Resource) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.failIDs[r.ID]; ok {
		return err
	}
	f.deleted = append(f.deleted, r.ID)
	return nil
}

func (f *fakeMutator) Stop(_ context.Context, r types.Resource) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.failIDs[r.ID]; ok {
		return err
	}
	f.stopped = append(f.stopped, r.ID)
	return nil
}

func vm(id string) types.Resource {
	return types.Resource{ID: id, Kind: types.KindVM, Provider: "aws", Region: "us-east-1"}
}

func TestRun_DeletesAllCandidates(t *testing.T) {
	m := &fakeMutator{}
	e := New(m, Options{Logger: zerolog.Nop()})

	result, err := e.Run(context.Background(), types.OpDelete, []types.Resource{vm("i-1"), vm("i-2"), vm("i-3")})
	require.NoError(t, err)

	assert.Len(t, result.Accepted, 3)
	assert.Empty(t, result.Errored)
	assert.ElementsMatch(t, []string{"i-1", "i-2", "i-3"}, m.deleted)
}

func TestRun_DryRunMutatesNothing(t *testing.T) {
	m := &fakeMutator{}
	e := New(m, Options{DryRun: true, Logger: zerolog.Nop()})

	result, err := e.Run(context.Background(), types.OpDelete, []types.Resource{vm("i-1"), vm("i-2")})
	require.NoError(t, err)

	assert.True(t, result.DryRun)
	assert.Len(t, result.Accepted, 2)
	assert.Empty(t, m.deleted)
}

func TestRun_PartialFailureIsIsolated(t *testing.T) {
	m := &fakeMutator{failIDs: map[string]error{"i-2": errors.New("dependency violation")}}
	e := New(m, Options{Logger: zerolog.Nop()})

	result, err := e.Run(context.Background(), types.OpDelete, []types.Resource{vm("i-1"), vm("i-2"), vm("i-3")})
	require.NoError(t, err)

	assert.Len(t, result.Accepted, 2)
	require.Len(t, result.Errored, 1)
	assert.Equal(t, "i-2", result.Errored[0].Resource.ID)
	assert.Contains(t, result.Errored[0].Error, "dependency violation")
}

func TestRun_StopRejectsNonVMBatch(t *testing.T) {
	m := &fakeMutator{}
	e := New(m, Options{Logger: zerolog.Nop()})

	batch := []types.Resource{vm("i-1"), {ID: "disk-1", Kind: types.KindDisk}}
	_, err := e.Run(context.Background(), types.OpStop, batch)
	require.Error(t, err)
	assert.Empty(t, m.stopped, "nothing may run when the batch is invalid")
}

func TestRun_StopUsesStop(t *testing.T) {
	m := &fakeMutator{}
	e := New(m, Options{Logger: zerolog.Nop()})

	result, err := e.Run(context.Background(), types.OpStop, []types.Resource{vm("i-1")})
	require.NoError(t, err)

	assert.Len(t, result.Accepted, 1)
	assert.Equal(t, []string{"i-1"}, m.stopped)
	assert.Empty(t, m.deleted)
}

func TestRun_RetriesTransientFailures(t *testing.T) {
	var calls int
	m := &countingMutator{failUntil: 2, calls: &calls}
	e := New(m, Options{
		Retry:  retry.Policy{MaxAttempts: 3, Initial: time.Millisecond},
		Logger: zerolog.Nop(),
	})

	result, err := e.Run(context.Background(), types.OpDelete, []types.Resource{vm("i-1")})
	require.NoError(t, err)

	assert.Len(t, result.Accepted, 1)
	assert.Equal(t, 3, calls)
}

func TestRun_CancelledContextStopsScheduling(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m := &fakeMutator{}
	e := New(m, Options{Logger: zerolog.Nop()})

	result, err := e.Run(ctx, types.OpDelete, []types.Resource{vm("i-1"), vm("i-2")})
	require.NoError(t, err)

	assert.Empty(t, result.Accepted)
	assert.Len(t, result.Errored, 2)
}

func TestRun_EmptyBatch(t *testing.T) {
	e := New(&fakeMutator{}, Options{Logger: zerolog.Nop()})

	result, err := e.Run(context.Background(), types.OpDelete, nil)
	require.NoError(t, err)
	assert.Empty(t, result.Accepted)
	assert.Empty(t, result.Errored)
}

type countingMutator struct {
	mu        sync.Mutex
	failUntil int
	calls     *int
}

func (c *countingMutator) Delete(_ context.Context, _ types.Resource) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	*c.calls++
	if *c.calls <= c.failUntil {
		return errors.New("throttled")
	}
	return nil
}

func (c *countingMutator) Stop(ctx context.Context, r types.Resource) error {
	return c.Delete(ctx, r)
}
