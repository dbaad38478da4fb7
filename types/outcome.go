package types

import "time"

// Rejection records an ineligible resource and why it was passed over.
type Rejection struct {
	Resource Resource `json:"resource"`
	Reason   string   `json:"reason"`
}

// Failure records a resource whose delete/stop call failed. These need
// operator follow-up and are reported separately from both buckets.
type Failure struct {
	Resource Resource `json:"resource"`
	Error    string   `json:"error"`
}

// RunResult is the outcome of one executor pass over a descriptor set.
type RunResult struct {
	Provider  string      `json:"provider"`
	Kind      Kind        `json:"kind"`
	Operation Operation   `json:"operation"`
	DryRun    bool        `json:"dry_run"`
	Accepted  []Resource  `json:"accepted"`
	Rejected  []Rejection `json:"rejected"`
	Errored   []Failure   `json:"errored"`
	StartedAt time.Time   `json:"started_at"`
	Duration  time.Duration `json:"duration"`
}

// AcceptedNames returns the human labels of accepted resources,
// falling back to IDs for nameless kinds.
func (r *RunResult) AcceptedNames() []string {
	names := make([]string, 0, len(r.Accepted))
	for _, res := range r.Accepted {
		if res.HasName() {
			names = append(names, res.Name)
		} else {
			names = append(names, res.ID)
		}
	}
	return names
}
