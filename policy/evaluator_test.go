package policy

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudreaper/reap/types"
)

var evalNow = time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

func newEvaluator(t *testing.T, cfg EvaluatorConfig) *Evaluator {
	t.Helper()
	if cfg.Now == nil {
		cfg.Now = func() time.Time { return evalNow }
	}
	cfg.Logger = zerolog.Nop()
	e, err := NewEvaluator(cfg)
	require.NoError(t, err)
	return e
}

func TestEvaluate_MalformedRejectedFirst(t *testing.T) {
	e := newEvaluator(t, EvaluatorConfig{})

	d := e.Evaluate(types.Resource{
		ID:      "i-bad",
		Kind:    types.KindVM,
		Invalid: "unparseable launch time",
		State:   "running",
	})
	assert.False(t, d.Eligible)
	assert.Equal(t, ReasonMalformed, d.Reason)
}

func TestEvaluate_StateFilter(t *testing.T) {
	e := newEvaluator(t, EvaluatorConfig{
		Criteria: types.Criteria{States: []string{"stopped"}},
	})

	d := e.Evaluate(types.Resource{
		ID:        "i-1",
		Kind:      types.KindVM,
		State:     "Running",
		CreatedAt: evalNow.Add(-100 * time.Hour),
	})
	assert.Equal(t, ReasonState, d.Reason)

	d = e.Evaluate(types.Resource{
		ID:        "i-2",
		Kind:      types.KindVM,
		State:     "STOPPED",
		CreatedAt: evalNow.Add(-100 * time.Hour),
	})
	assert.True(t, d.Eligible)
}

func TestEvaluate_NameStageOnlyForNamedKinds(t *testing.T) {
	e := newEvaluator(t, EvaluatorConfig{
		Criteria: types.Criteria{NameRegex: []string{"perftest_"}},
	})

	// VMs are tag-addressed; name patterns do not apply to them
	d := e.Evaluate(types.Resource{
		ID:        "i-1",
		Kind:      types.KindVM,
		CreatedAt: evalNow.Add(-time.Hour),
	})
	assert.True(t, d.Eligible)

	d = e.Evaluate(types.Resource{
		ID:        "key-1",
		Kind:      types.KindKeyPair,
		Name:      "prod-bastion",
		CreatedAt: evalNow.Add(-time.Hour),
	})
	assert.Equal(t, "name-no-include", d.Reason)

	d = e.Evaluate(types.Resource{
		ID:        "key-2",
		Kind:      types.KindKeyPair,
		Name:      "perftest_runner",
		CreatedAt: evalNow.Add(-time.Hour),
	})
	assert.True(t, d.Eligible)
}

func TestEvaluate_PipelineOrderStateBeforeTags(t *testing.T) {
	e := newEvaluator(t, EvaluatorConfig{
		Criteria: types.Criteria{
			States:     []string{"stopped"},
			FilterTags: types.TagSelector{"env": {"test"}},
		},
	})

	// Fails both stages; the state reason must win
	d := e.Evaluate(types.Resource{
		ID:    "i-1",
		Kind:  types.KindVM,
		State: "running",
		Tags:  map[string]string{"env": "prod"},
	})
	assert.Equal(t, ReasonState, d.Reason)
}

func TestEvaluate_AgeUsesAttachTimeForVMs(t *testing.T) {
	age := &types.Threshold{Hours: intp(10)}
	e := newEvaluator(t, EvaluatorConfig{
		Criteria: types.Criteria{Age: age},
	})

	// Created long ago but the NIC attach anchor is recent
	d := e.Evaluate(types.Resource{
		ID:         "i-1",
		Kind:       types.KindVM,
		CreatedAt:  evalNow.Add(-100 * time.Hour),
		AttachedAt: evalNow.Add(-2 * time.Hour),
	})
	assert.Equal(t, ReasonAge, d.Reason)

	d = e.Evaluate(types.Resource{
		ID:         "i-2",
		Kind:       types.KindVM,
		CreatedAt:  evalNow.Add(-100 * time.Hour),
		AttachedAt: evalNow.Add(-11 * time.Hour),
	})
	assert.True(t, d.Eligible)
}

func TestEvaluate_IPSkipsAgeStage(t *testing.T) {
	e := newEvaluator(t, EvaluatorConfig{
		Criteria: types.Criteria{Age: &types.Threshold{Days: intp(30)}},
	})

	// Reserved addresses carry no creation timestamp at all
	d := e.Evaluate(types.Resource{ID: "eip-1", Kind: types.KindIP})
	assert.True(t, d.Eligible)
}

func TestEvaluate_MissingTimestampForRequiredKinds(t *testing.T) {
	e := newEvaluator(t, EvaluatorConfig{
		Criteria: types.Criteria{Age: &types.Threshold{Days: intp(1)}},
	})

	for _, kind := range []types.Kind{types.KindVM, types.KindDisk, types.KindKeyPair, types.KindKMSKey} {
		d := e.Evaluate(types.Resource{ID: "r-1", Kind: kind})
		assert.Equal(t, ReasonNoTimestamp, d.Reason, "kind %s", kind)
	}

	// VPCs have no reliable creation time; absence is not an error
	d := e.Evaluate(types.Resource{ID: "vpc-1", Kind: types.KindVPC})
	assert.True(t, d.Eligible)
}

func TestEvaluate_RetentionTagOverridesThreshold(t *testing.T) {
	e := newEvaluator(t, EvaluatorConfig{
		Criteria: types.Criteria{Age: &types.Threshold{Days: intp(1)}},
	})

	// 2 days old, run threshold 1 day, but the tag demands 7
	d := e.Evaluate(types.Resource{
		ID:        "i-1",
		Kind:      types.KindVM,
		CreatedAt: evalNow.Add(-48 * time.Hour),
		Tags:      map[string]string{"retention_age": "7"},
	})
	assert.Equal(t, ReasonAge, d.Reason)

	// Object form with hours
	d = e.Evaluate(types.Resource{
		ID:        "i-2",
		Kind:      types.KindVM,
		CreatedAt: evalNow.Add(-48 * time.Hour),
		Tags:      map[string]string{"retention_age": "{'days': 1, 'hours': 12}"},
	})
	assert.True(t, d.Eligible)
}

func TestEvaluate_UnparseableRetentionTagFallsBack(t *testing.T) {
	e := newEvaluator(t, EvaluatorConfig{
		Criteria: types.Criteria{Age: &types.Threshold{Days: intp(1)}},
	})

	d := e.Evaluate(types.Resource{
		ID:        "i-1",
		Kind:      types.KindVM,
		CreatedAt: evalNow.Add(-48 * time.Hour),
		Tags:      map[string]string{"retention_age": "soon"},
	})
	assert.True(t, d.Eligible)
}

func TestEvaluate_DiskDetachAge(t *testing.T) {
	e := newEvaluator(t, EvaluatorConfig{
		Criteria: types.Criteria{
			Age:       &types.Threshold{Days: intp(1)},
			DetachAge: &types.Threshold{Hours: intp(24)},
		},
	})

	// Old disk, recently detached: keep it
	d := e.Evaluate(types.Resource{
		ID:         "disk-1",
		Kind:       types.KindDisk,
		CreatedAt:  evalNow.Add(-90 * 24 * time.Hour),
		DetachedAt: evalNow.Add(-2 * time.Hour),
	})
	assert.Equal(t, ReasonDetachAge, d.Reason)

	d = e.Evaluate(types.Resource{
		ID:         "disk-2",
		Kind:       types.KindDisk,
		CreatedAt:  evalNow.Add(-90 * 24 * time.Hour),
		DetachedAt: evalNow.Add(-48 * time.Hour),
	})
	assert.True(t, d.Eligible)

	// Detach threshold set but the provider gave no detach timestamp
	d = e.Evaluate(types.Resource{
		ID:        "disk-3",
		Kind:      types.KindDisk,
		CreatedAt: evalNow.Add(-90 * 24 * time.Hour),
	})
	assert.Equal(t, ReasonNoTimestamp, d.Reason)
}

func TestEvaluate_NoThresholdsAcceptsAgedResource(t *testing.T) {
	e := newEvaluator(t, EvaluatorConfig{})

	d := e.Evaluate(types.Resource{
		ID:        "i-1",
		Kind:      types.KindVM,
		CreatedAt: evalNow.Add(-time.Minute),
	})
	assert.True(t, d.Eligible)
}

func TestEvaluate_MissingAgeIneligiblePolicy(t *testing.T) {
	e := newEvaluator(t, EvaluatorConfig{MissingAge: MissingAgeIneligible})

	d := e.Evaluate(types.Resource{
		ID:        "i-1",
		Kind:      types.KindVM,
		CreatedAt: evalNow.Add(-time.Hour),
	})
	assert.Equal(t, ReasonAge, d.Reason)
}

func TestNewEvaluator_BadPatternFails(t *testing.T) {
	_, err := NewEvaluator(EvaluatorConfig{
		Criteria: types.Criteria{NameRegex: []string{"("}},
	})
	assert.Error(t, err)
}
