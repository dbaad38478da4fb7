package gcp

import (
	"context"
	"fmt"

	"google.golang.org/api/compute/v1"

	"github.com/cloudreaper/reap/types"
)

const regionGlobal = "global"

type ipAdapter struct {
	clients *clients
}

func (a *ipAdapter) Provider() string { return "gcp" }
func (a *ipAdapter) Kind() types.Kind { return types.KindIP }

// List returns reserved addresses nothing uses, regional and global.
func (a *ipAdapter) List(ctx context.Context) ([]types.Resource, error) {
	regions, err := a.clients.regions(ctx)
	if err != nil {
		return nil, err
	}
	var resources []types.Resource
	for _, region := range regions {
		err := a.clients.svc.Addresses.List(a.clients.project, region).Pages(ctx, func(page *compute.AddressList) error {
			for _, addr := range page.Items {
				if r, ok := normalizeAddress(addr, region); ok {
					resources = append(resources, r)
				}
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("list addresses in %s: %w", region, err)
		}
	}

	err = a.clients.svc.GlobalAddresses.List(a.clients.project).Pages(ctx, func(page *compute.AddressList) error {
		for _, addr := range page.Items {
			if r, ok := normalizeAddress(addr, regionGlobal); ok {
				resources = append(resources, r)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list global addresses: %w", err)
	}
	return resources, nil
}

func normalizeAddress(addr *compute.Address, region string) (types.Resource, bool) {
	if addr.Status != "RESERVED" || len(addr.Users) > 0 {
		return types.Resource{}, false
	}
	r := types.Resource{
		ID:       addr.Name,
		Name:     addr.Name,
		Provider: "gcp",
		Region:   region,
		Kind:     types.KindIP,
		State:    "unassociated",
		Tags:     addr.Labels,
	}
	setCreatedAt(&r, addr.CreationTimestamp)
	return r, true
}

func (a *ipAdapter) Delete(ctx context.Context, r types.Resource) error {
	var err error
	if r.Region == regionGlobal {
		_, err = a.clients.svc.GlobalAddresses.Delete(a.clients.project, r.Name).Context(ctx).Do()
	} else {
		_, err = a.clients.svc.Addresses.Delete(a.clients.project, r.Region, r.Name).Context(ctx).Do()
	}
	if err != nil {
		return fmt.Errorf("delete address %s: %w", r.Name, err)
	}
	return nil
}

func (a *ipAdapter) Stop(context.Context, types.Resource) error {
	return errStopUnsupported(types.KindIP)
}
