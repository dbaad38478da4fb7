package policy

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/cloudreaper/reap/types"
)

// Rejection reasons produced by the evaluator itself.
const (
	ReasonMalformed   = "malformed"
	ReasonState       = "state"
	ReasonNoTimestamp = "no-timestamp"
	ReasonAge         = "age"
	ReasonDetachAge   = "detach-age"
)

// RetentionTag is a per-resource override of the run's age threshold.
// Its value is a bare day count or a {days, hours} object.
const RetentionTag = "retention_age"

// Decision is the evaluator's verdict for one resource.
type Decision struct {
	Eligible bool
	Reason   string
}

func ineligible(reason string) Decision { return Decision{Reason: reason} }

// EvaluatorConfig assembles an Evaluator.
type EvaluatorConfig struct {
	Criteria   types.Criteria
	MissingAge MissingAgePolicy
	Now        func() time.Time // defaults to time.Now
	Logger     zerolog.Logger
}

// Evaluator combines the tag, name and age matchers into a single
// accept/reject decision per resource. The pipeline order is fixed:
// state, name, tags, age. Reordering changes outcomes.
type Evaluator struct {
	criteria types.Criteria
	names    *NameMatcher
	missing  MissingAgePolicy
	now      func() time.Time
	logger   zerolog.Logger
}

// NewEvaluator compiles the criteria. Pattern errors surface here,
// before any cloud call is made.
func NewEvaluator(cfg EvaluatorConfig) (*Evaluator, error) {
	names, err := NewNameMatcher(cfg.Criteria.NameRegex, cfg.Criteria.ExceptionRegex)
	if err != nil {
		return nil, err
	}
	missing := cfg.MissingAge
	if missing == "" {
		missing = MissingAgeEligible
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Evaluator{
		criteria: cfg.Criteria,
		names:    names,
		missing:  missing,
		now:      now,
		logger:   cfg.Logger,
	}, nil
}

// Evaluate decides whether a resource is a reclamation candidate.
// It performs no I/O and is safe for concurrent use.
func (e *Evaluator) Evaluate(r types.Resource) Decision {
	if r.Invalid != "" {
		return ineligible(ReasonMalformed)
	}

	if !e.criteria.AllowsState(r.State) {
		return ineligible(ReasonState)
	}

	if kindSupportsName(r.Kind) {
		if ok, reason := e.names.Match(r.Name, r.HasName()); !ok {
			return ineligible(reason)
		}
	}

	if ok, reason := MatchTags(r.Tags, e.criteria); !ok {
		return ineligible(reason)
	}

	return e.checkAge(r)
}

// checkAge applies the age threshold against the kind's anchor
// timestamp. Reserved IPs have no age semantics and skip the stage
// entirely.
func (e *Evaluator) checkAge(r types.Resource) Decision {
	if r.Kind == types.KindIP {
		return Decision{Eligible: true}
	}

	threshold := e.ageThreshold(r)
	anchor := ageAnchor(r)

	if anchor.IsZero() {
		if kindRequiresAge(r.Kind) {
			return ineligible(ReasonNoTimestamp)
		}
		// No meaningful age concept for this resource; nothing to compare.
	} else if !OlderThan(threshold, e.now(), anchor, e.missing) {
		return ineligible(ReasonAge)
	}

	if r.Kind == types.KindDisk && !e.criteria.DetachAge.IsZero() {
		if r.DetachedAt.IsZero() {
			return ineligible(ReasonNoTimestamp)
		}
		if !OlderThan(e.criteria.DetachAge, e.now(), r.DetachedAt, e.missing) {
			return ineligible(ReasonDetachAge)
		}
	}

	return Decision{Eligible: true}
}

// ageThreshold returns the run's threshold, unless the resource carries
// a parseable retention_age tag, which overrides it. Unparseable
// values are logged and ignored.
func (e *Evaluator) ageThreshold(r types.Resource) *types.Threshold {
	raw, ok := r.Tag(RetentionTag)
	if !ok {
		return e.criteria.Age
	}
	override, err := types.ParseThreshold(raw)
	if err != nil || override.IsZero() {
		e.logger.Warn().
			Str("resource_id", r.ID).
			Str("value", raw).
			Msg("ignoring unparseable retention_age tag")
		return e.criteria.Age
	}
	e.logger.Debug().
		Str("resource_id", r.ID).
		Str("retention_age", override.String()).
		Msg("retention_age tag overrides age threshold")
	return override
}

// ageAnchor selects the timestamp a kind's age is measured from.
// AWS VMs use NIC attach time as a proxy for actual runtime; disks use
// creation time here and last-detach time in the detach-age stage.
func ageAnchor(r types.Resource) time.Time {
	if r.Kind == types.KindVM && !r.AttachedAt.IsZero() {
		return r.AttachedAt
	}
	return r.CreatedAt
}

// kindSupportsName lists kinds whose adapters expose names that
// operators filter by pattern.
func kindSupportsName(k types.Kind) bool {
	switch k {
	case types.KindKeyPair, types.KindNIC, types.KindIP, types.KindDisk:
		return true
	}
	return false
}

// kindRequiresAge lists kinds that must carry an age anchor; a missing
// timestamp there means the provider data is incomplete, not that the
// resource is ageless.
func kindRequiresAge(k types.Kind) bool {
	switch k {
	case types.KindVM, types.KindDisk, types.KindKeyPair, types.KindKMSKey:
		return true
	}
	return false
}
