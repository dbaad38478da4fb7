package azure

import (
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/network/armnetwork/v5"

	"github.com/cloudreaper/reap/types"
)

type ipAdapter struct {
	clients *clients
}

func (a *ipAdapter) Provider() string { return "azure" }
func (a *ipAdapter) Kind() types.Kind { return types.KindIP }

// List returns public IPs with no IP configuration, meaning nothing
// references them.
func (a *ipAdapter) List(ctx context.Context) ([]types.Resource, error) {
	var resources []types.Resource
	collect := func(page []*armnetwork.PublicIPAddress) {
		for _, ip := range page {
			if ip == nil || ip.ID == nil {
				continue
			}
			if ip.Properties == nil || ip.Properties.IPConfiguration != nil {
				continue
			}
			resources = append(resources, types.Resource{
				ID:       deref(ip.ID),
				Name:     deref(ip.Name),
				Provider: "azure",
				Region:   deref(ip.Location),
				Kind:     types.KindIP,
				State:    "unassociated",
				Tags:     tagMap(ip.Tags),
			})
		}
	}

	if a.clients.group != "" {
		pager := a.clients.ips.NewListPager(a.clients.group, nil)
		for pager.More() {
			page, err := pager.NextPage(ctx)
			if err != nil {
				return nil, fmt.Errorf("list public ips in %s: %w", a.clients.group, err)
			}
			collect(page.Value)
		}
		return resources, nil
	}

	pager := a.clients.ips.NewListAllPager(nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list public ips: %w", err)
		}
		collect(page.Value)
	}
	return resources, nil
}

func (a *ipAdapter) Delete(ctx context.Context, r types.Resource) error {
	group := resourceGroupFromID(r.ID)
	poller, err := a.clients.ips.BeginDelete(ctx, group, r.Name, nil)
	if err != nil {
		return fmt.Errorf("delete public ip %s: %w", r.Name, err)
	}
	if _, err := poller.PollUntilDone(ctx, nil); err != nil {
		return fmt.Errorf("delete public ip %s: %w", r.Name, err)
	}
	return nil
}

func (a *ipAdapter) Stop(context.Context, types.Resource) error {
	return errStopUnsupported(types.KindIP)
}
