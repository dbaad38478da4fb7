package types

import "time"

// Kind identifies a reclaimable resource category.
type Kind string

const (
	KindVM      Kind = "vm"
	KindIP      Kind = "ip"
	KindDisk    Kind = "disk"
	KindKeyPair Kind = "keypair"
	KindNIC     Kind = "nic"
	KindVPC     Kind = "vpc"
	KindKMSKey  Kind = "kms"
)

// AllKinds lists every supported kind, in sweep order.
var AllKinds = []Kind{KindVM, KindIP, KindDisk, KindKeyPair, KindNIC, KindVPC, KindKMSKey}

// ValidKind reports whether k names a supported resource kind.
func ValidKind(k Kind) bool {
	for _, known := range AllKinds {
		if k == known {
			return true
		}
	}
	return false
}

// Resource is the normalized view of a cloud resource fed into the
// evaluation engine. Provider adapters flatten whatever the SDK returns
// (tag lists, label maps, pointer soup) into this shape.
type Resource struct {
	ID       string            `json:"id"`
	Name     string            `json:"name,omitempty"` // empty = provider has no name for it
	Provider string            `json:"provider"`
	Region   string            `json:"region,omitempty"` // region or zone
	Kind     Kind              `json:"kind"`
	State    string            `json:"state,omitempty"`
	Tags     map[string]string `json:"tags,omitempty"`

	// Age anchors. Zero value means the provider has no such instant
	// for this resource.
	CreatedAt  time.Time `json:"created_at,omitempty"`
	AttachedAt time.Time `json:"attached_at,omitempty"` // NIC attach time, VM proxy age on AWS
	DetachedAt time.Time `json:"detached_at,omitempty"` // last detach time, disk reclamation anchor

	// Invalid is set by adapters when provider data could not be
	// normalized (e.g. unparseable timestamp). The evaluator rejects
	// such resources as malformed instead of guessing.
	Invalid string `json:"invalid,omitempty"`
}

// HasName reports whether the provider exposed a usable name.
func (r Resource) HasName() bool {
	return r.Name != ""
}

// Tag returns the tag value and whether the key is present.
func (r Resource) Tag(key string) (string, bool) {
	if r.Tags == nil {
		return "", false
	}
	v, ok := r.Tags[key]
	return v, ok
}
