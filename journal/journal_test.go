package journal

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudreaper/reap/types"
)

func TestJournalRoundTrip(t *testing.T) {
	j, err := Open(t.TempDir())
	require.NoError(t, err)

	r := types.Resource{ID: "i-1", Kind: types.KindVM, Provider: "aws"}
	require.NoError(t, j.Append(EntryDecided, r.ID, r))
	require.NoError(t, j.Append(EntryExecuted, r.ID, r))
	require.NoError(t, j.AppendError(EntryFailed, "i-2", nil, errors.New("dependency violation")))
	require.NoError(t, j.Close())

	entries, err := Read(j.Path())
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, EntryDecided, entries[0].Type)
	assert.Equal(t, "i-1", entries[0].ResourceID)
	assert.Equal(t, EntryFailed, entries[2].Type)
	assert.Equal(t, "dependency violation", entries[2].Error)

	// Sequence numbers are strictly increasing from 1
	for i, entry := range entries {
		assert.Equal(t, int64(i+1), entry.Sequence)
	}
}

func TestJournalFilesArePerRun(t *testing.T) {
	dir := t.TempDir()

	a, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, a.Close())

	assert.Contains(t, a.Path(), "reap-")
	assert.Contains(t, a.Path(), ".jsonl")
}
