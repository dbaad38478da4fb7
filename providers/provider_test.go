package providers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudreaper/reap/types"
)

type stubAdapter struct {
	provider string
	kind     types.Kind
}

func (s *stubAdapter) Provider() string { return s.provider }
func (s *stubAdapter) Kind() types.Kind { return s.kind }
func (s *stubAdapter) List(context.Context) ([]types.Resource, error) { return nil, nil }
func (s *stubAdapter) Delete(context.Context, types.Resource) error   { return nil }
func (s *stubAdapter) Stop(context.Context, types.Resource) error     { return nil }

func TestRegistry(t *testing.T) {
	Register("test-cloud", types.KindVM, func(_ context.Context, _ Config) (ResourceAdapter, error) {
		return &stubAdapter{provider: "test-cloud", kind: types.KindVM}, nil
	})

	assert.True(t, Supports("test-cloud", types.KindVM))
	assert.False(t, Supports("test-cloud", types.KindKMSKey))

	a, err := Get(context.Background(), "test-cloud", types.KindVM, Config{})
	require.NoError(t, err)
	assert.Equal(t, "test-cloud", a.Provider())

	_, err = Get(context.Background(), "test-cloud", types.KindDisk, Config{})
	assert.Error(t, err)

	assert.Contains(t, Providers(), "test-cloud")
	assert.Equal(t, []types.Kind{types.KindVM}, KindsFor("test-cloud"))
}
