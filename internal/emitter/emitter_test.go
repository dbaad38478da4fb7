package emitter

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudreaper/reap/types"
)

type recordingEmitter struct {
	emitted []types.RunResult
	closed  bool
	fail    error
}

func (r *recordingEmitter) Emit(_ context.Context, result types.RunResult) error {
	if r.fail != nil {
		return r.fail
	}
	r.emitted = append(r.emitted, result)
	return nil
}

func (r *recordingEmitter) Close() error {
	r.closed = true
	return nil
}

func TestMultiEmitterFansOut(t *testing.T) {
	a := &recordingEmitter{}
	b := &recordingEmitter{}
	m := NewMultiEmitter(a, b)

	result := types.RunResult{Provider: "aws", Kind: types.KindVM, Operation: types.OpDelete}
	require.NoError(t, m.Emit(context.Background(), result))

	assert.Len(t, a.emitted, 1)
	assert.Len(t, b.emitted, 1)

	require.NoError(t, m.Close())
	assert.True(t, a.closed)
	assert.True(t, b.closed)
}

func TestMultiEmitterReturnsFirstError(t *testing.T) {
	a := &recordingEmitter{fail: errors.New("backend down")}
	b := &recordingEmitter{}
	m := NewMultiEmitter(a, b)

	err := m.Emit(context.Background(), types.RunResult{})
	assert.Error(t, err)
	assert.Empty(t, b.emitted)
}

func TestPrometheusEmitterRecords(t *testing.T) {
	e, err := NewPrometheusEmitter()
	require.NoError(t, err)

	result := types.RunResult{
		Provider:  "gcp",
		Kind:      types.KindDisk,
		Operation: types.OpDelete,
		Accepted:  []types.Resource{{ID: "d-1"}},
		Duration:  3 * time.Second,
	}
	assert.NoError(t, e.Emit(context.Background(), result))
	assert.NoError(t, e.Close())
}
