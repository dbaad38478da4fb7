package types

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Operation is the destructive verb applied to eligible resources.
type Operation string

const (
	OpDelete Operation = "delete"
	OpStop   Operation = "stop"
)

// Threshold is an age/retention policy. Days and Hours are pointers so
// "unset" and "zero" stay distinguishable; both set means one additive
// threshold, not two independent checks.
type Threshold struct {
	Days  *int `json:"days,omitempty" yaml:"days,omitempty"`
	Hours *int `json:"hours,omitempty" yaml:"hours,omitempty"`
}

// IsZero reports whether no threshold was specified.
func (t *Threshold) IsZero() bool {
	return t == nil || (t.Days == nil && t.Hours == nil)
}

func (t *Threshold) String() string {
	if t.IsZero() {
		return "none"
	}
	parts := make([]string, 0, 2)
	if t.Days != nil {
		parts = append(parts, fmt.Sprintf("%dd", *t.Days))
	}
	if t.Hours != nil {
		parts = append(parts, fmt.Sprintf("%dh", *t.Hours))
	}
	return strings.Join(parts, "")
}

// ParseThreshold accepts either a bare integer (days) or a JSON object
// like {"days": 3, "hours": 12}. Single-quoted objects are tolerated
// because that is what operators paste from runbooks.
func ParseThreshold(s string) (*Threshold, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if days, err := strconv.Atoi(s); err == nil {
		return &Threshold{Days: &days}, nil
	}
	var t Threshold
	if err := json.Unmarshal([]byte(normalizeQuotes(s)), &t); err != nil {
		return nil, fmt.Errorf("invalid age threshold %q: %w", s, err)
	}
	if t.IsZero() {
		return nil, fmt.Errorf("age threshold %q has neither days nor hours", s)
	}
	return &t, nil
}

// TagSelector maps tag keys to allowed values. An empty value list is a
// wildcard: any value under that key matches.
type TagSelector map[string][]string

// Matches reports whether the tag (k, v) is selected.
func (s TagSelector) Matches(k, v string) bool {
	values, ok := s[k]
	if !ok {
		return false
	}
	if len(values) == 0 {
		return true
	}
	for _, allowed := range values {
		if v == allowed {
			return true
		}
	}
	return false
}

// ParseTagSelector parses a JSON object of key -> list-of-values, e.g.
// {"test_task": ["test", "stress-test"], "test_owner": []}.
func ParseTagSelector(s string) (TagSelector, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	var sel TagSelector
	if err := json.Unmarshal([]byte(normalizeQuotes(s)), &sel); err != nil {
		return nil, fmt.Errorf("invalid tag map %q: %w", s, err)
	}
	return sel, nil
}

// ParseStringList parses a JSON list of strings, e.g. ["perftest_", "qa_"].
func ParseStringList(s string) ([]string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	var list []string
	if err := json.Unmarshal([]byte(normalizeQuotes(s)), &list); err != nil {
		return nil, fmt.Errorf("invalid list %q: %w", s, err)
	}
	return list, nil
}

// normalizeQuotes turns python-style single-quoted literals into JSON.
// Keys and values with embedded quotes are not supported; the source
// format never produced them.
func normalizeQuotes(s string) string {
	if strings.Contains(s, "\"") {
		return s
	}
	return strings.ReplaceAll(s, "'", "\"")
}

// Criteria is the user-supplied policy for one run. Immutable once built.
type Criteria struct {
	FilterTags     TagSelector `json:"filter_tags,omitempty"`
	ExceptionTags  TagSelector `json:"exception_tags,omitempty"`
	NoTags         TagSelector `json:"notags,omitempty"`
	NameRegex      []string    `json:"name_regex,omitempty"`
	ExceptionRegex []string    `json:"exception_regex,omitempty"`
	Age            *Threshold  `json:"age,omitempty"`
	DetachAge      *Threshold  `json:"detach_age,omitempty"` // disks only
	States         []string    `json:"states,omitempty"`
	DryRun         bool        `json:"dry_run"`
}

// AllowsState reports whether the resource state passes the state filter.
// An empty state list means no restriction.
func (c Criteria) AllowsState(state string) bool {
	if len(c.States) == 0 {
		return true
	}
	for _, s := range c.States {
		if strings.EqualFold(s, state) {
			return true
		}
	}
	return false
}
