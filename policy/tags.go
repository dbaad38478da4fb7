package policy

import "github.com/cloudreaper/reap/types"

// Tag stage rejection reasons.
const (
	reasonExceptionTag = "exception-tag"
	reasonNoTags       = "notags"
	reasonNoFilterTag  = "no-filter-tag"
)

// MatchTags classifies a resource's tag set against the criteria's
// filter, exception and notags selectors. Stages run in strict order
// and short-circuit:
//
//  1. any exception tag present -> reject
//  2. ALL notags keys present (conjunction) -> reject
//  3. empty filter set -> accept
//  4. any filter tag present -> accept, otherwise reject
//
// An empty value list on any selector key is a wildcard for that key.
func MatchTags(tags map[string]string, c types.Criteria) (bool, string) {
	if len(c.ExceptionTags) > 0 {
		for k, v := range tags {
			if c.ExceptionTags.Matches(k, v) {
				return false, reasonExceptionTag
			}
		}
	}

	if len(c.NoTags) > 0 && hasAllTags(tags, c.NoTags) {
		return false, reasonNoTags
	}

	if len(c.FilterTags) == 0 {
		return true, ""
	}
	for k, v := range tags {
		if c.FilterTags.Matches(k, v) {
			return true, ""
		}
	}
	return false, reasonNoFilterTag
}

// hasAllTags reports whether every selector key is present on the
// resource with an allowed value. A partial match is not enough.
func hasAllTags(tags map[string]string, sel types.TagSelector) bool {
	for key := range sel {
		v, ok := tags[key]
		if !ok || !sel.Matches(key, v) {
			return false
		}
	}
	return true
}
