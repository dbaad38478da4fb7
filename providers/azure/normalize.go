package azure

import (
	"fmt"
	"strings"

	"github.com/cloudreaper/reap/types"
)

// tagMap flattens ARM tags, which arrive as map[string]*string.
func tagMap(tags map[string]*string) map[string]string {
	if len(tags) == 0 {
		return nil
	}
	m := make(map[string]string, len(tags))
	for k, v := range tags {
		if v == nil {
			m[k] = ""
			continue
		}
		m[k] = *v
	}
	return m
}

// resourceGroupFromID parses the resource group out of an ARM resource
// ID. Every mutating call needs it, and deriving it from the ID the
// resource was listed with avoids forcing --resource-group on every run.
func resourceGroupFromID(id string) string {
	parts := strings.Split(id, "/")
	for i, part := range parts {
		if strings.EqualFold(part, "resourceGroups") && i+1 < len(parts) {
			return parts[i+1]
		}
	}
	return ""
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func errStopUnsupported(kind types.Kind) error {
	return fmt.Errorf("azure %s does not support stop", kind)
}
