package azure

import (
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/compute/armcompute/v5"

	"github.com/cloudreaper/reap/types"
)

type diskAdapter struct {
	clients *clients
}

func (a *diskAdapter) Provider() string { return "azure" }
func (a *diskAdapter) Kind() types.Kind { return types.KindDisk }

// List returns unattached managed disks. Attached disks follow their
// VM's lifecycle.
func (a *diskAdapter) List(ctx context.Context) ([]types.Resource, error) {
	var resources []types.Resource
	collect := func(page []*armcompute.Disk) {
		for _, disk := range page {
			if disk == nil || disk.ID == nil {
				continue
			}
			if disk.Properties == nil || disk.Properties.DiskState == nil ||
				*disk.Properties.DiskState != armcompute.DiskStateUnattached {
				continue
			}
			resources = append(resources, normalizeDisk(disk))
		}
	}

	if a.clients.group != "" {
		pager := a.clients.disks.NewListByResourceGroupPager(a.clients.group, nil)
		for pager.More() {
			page, err := pager.NextPage(ctx)
			if err != nil {
				return nil, fmt.Errorf("list disks in %s: %w", a.clients.group, err)
			}
			collect(page.Value)
		}
		return resources, nil
	}

	pager := a.clients.disks.NewListPager(nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list disks: %w", err)
		}
		collect(page.Value)
	}
	return resources, nil
}

func normalizeDisk(disk *armcompute.Disk) types.Resource {
	r := types.Resource{
		ID:       deref(disk.ID),
		Name:     deref(disk.Name),
		Provider: "azure",
		Region:   deref(disk.Location),
		Kind:     types.KindDisk,
		State:    string(armcompute.DiskStateUnattached),
		Tags:     tagMap(disk.Tags),
	}
	if disk.Properties != nil {
		if disk.Properties.TimeCreated != nil {
			r.CreatedAt = *disk.Properties.TimeCreated
		}
		// Ownership last changed when the disk detached from its VM.
		if disk.Properties.LastOwnershipUpdateTime != nil {
			r.DetachedAt = *disk.Properties.LastOwnershipUpdateTime
		}
	}
	return r
}

func (a *diskAdapter) Delete(ctx context.Context, r types.Resource) error {
	group := resourceGroupFromID(r.ID)
	poller, err := a.clients.disks.BeginDelete(ctx, group, r.Name, nil)
	if err != nil {
		return fmt.Errorf("delete disk %s: %w", r.Name, err)
	}
	if _, err := poller.PollUntilDone(ctx, nil); err != nil {
		return fmt.Errorf("delete disk %s: %w", r.Name, err)
	}
	return nil
}

func (a *diskAdapter) Stop(context.Context, types.Resource) error {
	return errStopUnsupported(types.KindDisk)
}
