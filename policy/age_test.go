package policy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/cloudreaper/reap/types"
)

func intp(v int) *int { return &v }

func TestOlderThan_DaysAndHoursCombineAdditively(t *testing.T) {
	threshold := &types.Threshold{Days: intp(3), Hours: intp(12)}
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	// 84 hours old, threshold 3*24+12 = 84 hours: boundary is inclusive
	assert.True(t, OlderThan(threshold, now, now.Add(-84*time.Hour), MissingAgeEligible))
	assert.False(t, OlderThan(threshold, now, now.Add(-83*time.Hour), MissingAgeEligible))
}

func TestOlderThan_DaysOnlyUsesWholeDays(t *testing.T) {
	threshold := &types.Threshold{Days: intp(3)}
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	// 71 hours is 2 whole days, under the 3 day threshold
	assert.False(t, OlderThan(threshold, now, now.Add(-71*time.Hour), MissingAgeEligible))
	assert.True(t, OlderThan(threshold, now, now.Add(-72*time.Hour), MissingAgeEligible))
}

func TestOlderThan_HoursOnly(t *testing.T) {
	threshold := &types.Threshold{Hours: intp(6)}
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	assert.True(t, OlderThan(threshold, now, now.Add(-6*time.Hour), MissingAgeEligible))
	assert.False(t, OlderThan(threshold, now, now.Add(-5*time.Hour), MissingAgeEligible))
}

func TestOlderThan_MissingThresholdFollowsPolicy(t *testing.T) {
	now := time.Now()
	anchor := now.Add(-time.Minute)

	assert.True(t, OlderThan(nil, now, anchor, MissingAgeEligible))
	assert.False(t, OlderThan(nil, now, anchor, MissingAgeIneligible))
	assert.True(t, OlderThan(&types.Threshold{}, now, anchor, MissingAgeEligible))
}

func TestOlderThan_MixedZonesCompareAsInstants(t *testing.T) {
	threshold := &types.Threshold{Hours: intp(1)}
	loc := time.FixedZone("UTC+5", 5*3600)

	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	// Same instant as now-2h, expressed in a different offset
	anchor := now.Add(-2 * time.Hour).In(loc)

	assert.True(t, OlderThan(threshold, now, anchor, MissingAgeEligible))
}

func TestParseMissingAgePolicy(t *testing.T) {
	p, err := ParseMissingAgePolicy("")
	assert.NoError(t, err)
	assert.Equal(t, MissingAgeEligible, p)

	p, err = ParseMissingAgePolicy("never-eligible")
	assert.NoError(t, err)
	assert.Equal(t, MissingAgeIneligible, p)

	_, err = ParseMissingAgePolicy("sometimes")
	assert.Error(t, err)
}
