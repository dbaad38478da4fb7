package gcp

import (
	"fmt"
	"strings"
	"time"

	"github.com/cloudreaper/reap/types"
)

// lastPathComponent extracts the name from a GCE self-link URL, e.g.
// ".../zones/us-central1-a" becomes "us-central1-a".
func lastPathComponent(u string) string {
	if i := strings.LastIndexByte(u, '/'); i >= 0 {
		return u[i+1:]
	}
	return u
}

// setCreatedAt parses the RFC3339 creation timestamp. GCE returns
// timestamps as strings; a value that does not parse marks the
// resource malformed instead of silently dropping it.
func setCreatedAt(r *types.Resource, ts string) {
	if ts == "" {
		return
	}
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		r.Invalid = fmt.Sprintf("creation timestamp %q: %v", ts, err)
		return
	}
	r.CreatedAt = t
}

func errStopUnsupported(kind types.Kind) error {
	return fmt.Errorf("gcp %s does not support stop", kind)
}
