package azure

import (
	"testing"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/compute/armcompute/v5"
	"github.com/stretchr/testify/assert"
)

func strp(s string) *string { return &s }

func TestTagMap(t *testing.T) {
	got := tagMap(map[string]*string{
		"env":  strp("test"),
		"team": nil,
	})
	assert.Equal(t, map[string]string{"env": "test", "team": ""}, got)

	assert.Nil(t, tagMap(nil))
}

func TestResourceGroupFromID(t *testing.T) {
	id := "/subscriptions/sub-1/resourceGroups/rg-perf/providers/Microsoft.Compute/virtualMachines/vm-1"
	assert.Equal(t, "rg-perf", resourceGroupFromID(id))

	// Casing varies between API versions
	id = "/subscriptions/sub-1/resourcegroups/rg-perf/providers/Microsoft.Network/networkInterfaces/nic-1"
	assert.Equal(t, "rg-perf", resourceGroupFromID(id))

	assert.Equal(t, "", resourceGroupFromID("not-an-arm-id"))
}

func TestNormalizeDisk(t *testing.T) {
	created := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	detached := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)
	state := armcompute.DiskStateUnattached

	disk := &armcompute.Disk{
		ID:       strp("/subscriptions/s/resourceGroups/rg/providers/Microsoft.Compute/disks/scratch-1"),
		Name:     strp("scratch-1"),
		Location: strp("westeurope"),
		Tags:     map[string]*string{"env": strp("test")},
		Properties: &armcompute.DiskProperties{
			DiskState:               &state,
			TimeCreated:             &created,
			LastOwnershipUpdateTime: &detached,
		},
	}

	r := normalizeDisk(disk)
	assert.Equal(t, "scratch-1", r.Name)
	assert.Equal(t, "westeurope", r.Region)
	assert.Equal(t, created, r.CreatedAt)
	assert.Equal(t, detached, r.DetachedAt)
	assert.Equal(t, "Unattached", r.State)
	assert.Equal(t, map[string]string{"env": "test"}, r.Tags)
}
