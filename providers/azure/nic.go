package azure

import (
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/network/armnetwork/v5"

	"github.com/cloudreaper/reap/types"
)

type nicAdapter struct {
	clients *clients
}

func (a *nicAdapter) Provider() string { return "azure" }
func (a *nicAdapter) Kind() types.Kind { return types.KindNIC }

// List returns network interfaces not attached to any VM. Azure keeps
// the NIC around after a VM is deleted unless it was created with the
// VM's delete option, so these pile up.
func (a *nicAdapter) List(ctx context.Context) ([]types.Resource, error) {
	var resources []types.Resource
	collect := func(page []*armnetwork.Interface) {
		for _, nic := range page {
			if nic == nil || nic.ID == nil {
				continue
			}
			if nic.Properties == nil || nic.Properties.VirtualMachine != nil {
				continue
			}
			resources = append(resources, types.Resource{
				ID:       deref(nic.ID),
				Name:     deref(nic.Name),
				Provider: "azure",
				Region:   deref(nic.Location),
				Kind:     types.KindNIC,
				State:    "detached",
				Tags:     tagMap(nic.Tags),
			})
		}
	}

	if a.clients.group != "" {
		pager := a.clients.nics.NewListPager(a.clients.group, nil)
		for pager.More() {
			page, err := pager.NextPage(ctx)
			if err != nil {
				return nil, fmt.Errorf("list interfaces in %s: %w", a.clients.group, err)
			}
			collect(page.Value)
		}
		return resources, nil
	}

	pager := a.clients.nics.NewListAllPager(nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list interfaces: %w", err)
		}
		collect(page.Value)
	}
	return resources, nil
}

func (a *nicAdapter) Delete(ctx context.Context, r types.Resource) error {
	group := resourceGroupFromID(r.ID)
	poller, err := a.clients.nics.BeginDelete(ctx, group, r.Name, nil)
	if err != nil {
		return fmt.Errorf("delete interface %s: %w", r.Name, err)
	}
	if _, err := poller.PollUntilDone(ctx, nil); err != nil {
		return fmt.Errorf("delete interface %s: %w", r.Name, err)
	}
	return nil
}

func (a *nicAdapter) Stop(context.Context, types.Resource) error {
	return errStopUnsupported(types.KindNIC)
}
