package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNameMatcher_ExcludeWinsOverInclude(t *testing.T) {
	m, err := NewNameMatcher([]string{"perftest_"}, []string{"perftest_keep"})
	require.NoError(t, err)

	ok, reason := m.Match("perftest_keep_node1", true)
	assert.False(t, ok)
	assert.Equal(t, "name-excluded", reason)

	ok, _ = m.Match("perftest_node2", true)
	assert.True(t, ok)
}

func TestNameMatcher_EmptyIncludeMatchesEverything(t *testing.T) {
	m, err := NewNameMatcher(nil, []string{"keep"})
	require.NoError(t, err)

	ok, _ := m.Match("scratch-node", true)
	assert.True(t, ok)

	ok, _ = m.Match("keep-node", true)
	assert.False(t, ok)
}

func TestNameMatcher_NoPatternsAcceptsMissingName(t *testing.T) {
	m, err := NewNameMatcher(nil, nil)
	require.NoError(t, err)

	ok, _ := m.Match("", false)
	assert.True(t, ok)
}

func TestNameMatcher_MissingNameRejectedWhenPatternsSet(t *testing.T) {
	m, err := NewNameMatcher([]string{"qa_"}, nil)
	require.NoError(t, err)

	ok, reason := m.Match("", false)
	assert.False(t, ok)
	assert.Equal(t, "no-name", reason)
}

func TestNameMatcher_SearchSemantics(t *testing.T) {
	// Patterns match anywhere in the name, like re.search
	m, err := NewNameMatcher([]string{"test_"}, nil)
	require.NoError(t, err)

	ok, _ := m.Match("node-test_3", true)
	assert.True(t, ok)
}

func TestNameMatcher_BadPatternFailsFast(t *testing.T) {
	_, err := NewNameMatcher([]string{"("}, nil)
	assert.Error(t, err)

	_, err = NewNameMatcher(nil, []string{"["})
	assert.Error(t, err)
}
