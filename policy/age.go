// Package policy implements the filter-and-decide engine: tag matching,
// name matching, age thresholds and their per-kind composition.
package policy

import (
	"fmt"
	"time"

	"github.com/cloudreaper/reap/types"
)

// MissingAgePolicy pins down what an absent age threshold means.
// Historical revisions of the cleanup rules disagreed, so it is an
// explicit named setting instead of an implicit default.
type MissingAgePolicy string

const (
	// MissingAgeEligible treats "no threshold" as "always old enough".
	MissingAgeEligible MissingAgePolicy = "always-eligible"
	// MissingAgeIneligible treats "no threshold" as "never old enough".
	MissingAgeIneligible MissingAgePolicy = "never-eligible"
)

// ParseMissingAgePolicy validates a configured policy string.
func ParseMissingAgePolicy(s string) (MissingAgePolicy, error) {
	switch MissingAgePolicy(s) {
	case "", MissingAgeEligible:
		return MissingAgeEligible, nil
	case MissingAgeIneligible:
		return MissingAgeIneligible, nil
	}
	return "", fmt.Errorf("unknown missing-age policy %q", s)
}

// OlderThan reports whether the instant anchor is older than the
// threshold at time now. Both instants are normalized to UTC before
// subtracting.
//
// Days and hours combine additively into a single hour threshold.
// A days-only threshold compares whole elapsed days, not fractions.
func OlderThan(t *types.Threshold, now, anchor time.Time, missing MissingAgePolicy) bool {
	if t.IsZero() {
		return missing == MissingAgeEligible
	}

	elapsed := now.UTC().Sub(anchor.UTC())
	elapsedHours := elapsed.Hours()

	switch {
	case t.Days != nil && t.Hours != nil:
		thresholdHours := float64(*t.Days*24 + *t.Hours)
		return elapsedHours >= thresholdHours
	case t.Days != nil:
		elapsedDays := int(elapsedHours / 24)
		return elapsedDays >= *t.Days
	default:
		return elapsedHours >= float64(*t.Hours)
	}
}
