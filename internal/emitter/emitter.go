// Package emitter defines the metrics output interface for run results.
package emitter

import (
	"context"

	"github.com/cloudreaper/reap/types"
)

// Emitter records a run result in a metrics backend.
type Emitter interface {
	Emit(ctx context.Context, result types.RunResult) error
	Close() error
}

// MultiEmitter fans out to multiple backends.
type MultiEmitter struct {
	emitters []Emitter
}

// NewMultiEmitter creates an emitter that sends to every backend.
func NewMultiEmitter(emitters ...Emitter) *MultiEmitter {
	return &MultiEmitter{emitters: emitters}
}

// Emit sends to all backends and returns the first error.
func (m *MultiEmitter) Emit(ctx context.Context, result types.RunResult) error {
	for _, e := range m.emitters {
		if err := e.Emit(ctx, result); err != nil {
			return err
		}
	}
	return nil
}

// Close closes all backends.
func (m *MultiEmitter) Close() error {
	for _, e := range m.emitters {
		if err := e.Close(); err != nil {
			return err
		}
	}
	return nil
}
