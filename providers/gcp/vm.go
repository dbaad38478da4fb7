package gcp

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/compute/v1"

	"github.com/cloudreaper/reap/types"
)

type vmAdapter struct {
	clients *clients
}

func (a *vmAdapter) Provider() string { return "gcp" }
func (a *vmAdapter) Kind() types.Kind { return types.KindVM }

func (a *vmAdapter) List(ctx context.Context) ([]types.Resource, error) {
	zones, err := a.clients.zones(ctx)
	if err != nil {
		return nil, err
	}
	var resources []types.Resource
	for _, zone := range zones {
		err := a.clients.svc.Instances.List(a.clients.project, zone).Pages(ctx, func(page *compute.InstanceList) error {
			for _, inst := range page.Items {
				resources = append(resources, normalizeInstance(inst, zone))
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("list instances in %s: %w", zone, err)
		}
	}
	return resources, nil
}

// normalizeInstance maps a GCE instance. Labels are the tag map; GCE
// network tags are plain strings and carry no values to filter on.
func normalizeInstance(inst *compute.Instance, zone string) types.Resource {
	r := types.Resource{
		ID:       inst.Name,
		Name:     inst.Name,
		Provider: "gcp",
		Region:   zone,
		Kind:     types.KindVM,
		State:    strings.ToLower(inst.Status),
		Tags:     inst.Labels,
	}
	setCreatedAt(&r, inst.CreationTimestamp)
	return r
}

func (a *vmAdapter) Delete(ctx context.Context, r types.Resource) error {
	_, err := a.clients.svc.Instances.Delete(a.clients.project, r.Region, r.Name).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("delete instance %s: %w", r.Name, err)
	}
	return nil
}

func (a *vmAdapter) Stop(ctx context.Context, r types.Resource) error {
	_, err := a.clients.svc.Instances.Stop(a.clients.project, r.Region, r.Name).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("stop instance %s: %w", r.Name, err)
	}
	return nil
}
