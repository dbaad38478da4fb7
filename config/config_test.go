package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "reap.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_EmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.Concurrency)
	assert.Equal(t, 3, cfg.Retry.MaxAttempts)
	assert.Equal(t, time.Hour, cfg.Daemon.Interval)
	assert.False(t, cfg.Slack.Enabled())
	assert.False(t, cfg.Influx.Enabled())
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
slack:
  token: xoxb-test
  channel: cleanup-reports
concurrency: 8
missing_age: never-eligible
kms_pending_window_days: 14
retry:
  max_attempts: 5
  initial: 2s
  step: 1s
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.True(t, cfg.Slack.Enabled())
	assert.Equal(t, 8, cfg.Concurrency)
	assert.Equal(t, "never-eligible", cfg.MissingAge)
	assert.Equal(t, int32(14), cfg.KMSPendingWindowDays)
	assert.Equal(t, 5, cfg.Retry.MaxAttempts)
	assert.Equal(t, 2*time.Second, cfg.Retry.Initial)

	// Untouched fields keep their defaults
	assert.Equal(t, "journal", cfg.JournalDir)
}

func TestLoad_RejectsBadValues(t *testing.T) {
	for _, content := range []string{
		"concurrency: -1",
		"missing_age: sometimes",
		"kms_pending_window_days: 3",
		"retry:\n  max_attempts: 0",
	} {
		_, err := Load(writeConfig(t, content))
		assert.Error(t, err, "config %q should be rejected", content)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/does/not/exist.yaml")
	assert.Error(t, err)
}
