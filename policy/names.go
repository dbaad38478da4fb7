package policy

import (
	"fmt"
	"regexp"
)

// Name stage rejection reasons.
const (
	reasonNoName        = "no-name"
	reasonNameExcluded  = "name-excluded"
	reasonNameNoInclude = "name-no-include"
)

// NameMatcher evaluates resource names against include and exclude
// pattern lists. Matching is regular-expression search (unanchored),
// uniformly for both lists. The source mixed substring containment and
// regex search across providers; search subsumes substring for literal
// patterns, so one semantic covers both.
type NameMatcher struct {
	include []*regexp.Regexp
	exclude []*regexp.Regexp
}

// NewNameMatcher compiles the pattern lists. A bad pattern is a
// configuration error surfaced before any cloud call.
func NewNameMatcher(include, exclude []string) (*NameMatcher, error) {
	inc, err := compileAll(include)
	if err != nil {
		return nil, fmt.Errorf("name regex: %w", err)
	}
	exc, err := compileAll(exclude)
	if err != nil {
		return nil, fmt.Errorf("exception regex: %w", err)
	}
	return &NameMatcher{include: inc, exclude: exc}, nil
}

func compileAll(patterns []string) ([]*regexp.Regexp, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("pattern %q: %w", p, err)
		}
		compiled = append(compiled, re)
	}
	return compiled, nil
}

// IsEmpty reports whether no patterns are configured.
func (m *NameMatcher) IsEmpty() bool {
	return len(m.include) == 0 && len(m.exclude) == 0
}

// Match classifies a name. A missing name cannot be evaluated against a
// non-empty pattern list and is treated as a non-candidate. Exclusion
// wins over inclusion.
func (m *NameMatcher) Match(name string, hasName bool) (bool, string) {
	if m.IsEmpty() {
		return true, ""
	}
	if !hasName {
		return false, reasonNoName
	}
	for _, re := range m.exclude {
		if re.MatchString(name) {
			return false, reasonNameExcluded
		}
	}
	if len(m.include) == 0 {
		return true, ""
	}
	for _, re := range m.include {
		if re.MatchString(name) {
			return true, ""
		}
	}
	return false, reasonNameNoInclude
}
