package gcp

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/api/compute/v1"

	"github.com/cloudreaper/reap/types"
)

type diskAdapter struct {
	clients *clients
}

func (a *diskAdapter) Provider() string { return "gcp" }
func (a *diskAdapter) Kind() types.Kind { return types.KindDisk }

// List returns persistent disks with no users, i.e. not attached to
// any instance.
func (a *diskAdapter) List(ctx context.Context) ([]types.Resource, error) {
	zones, err := a.clients.zones(ctx)
	if err != nil {
		return nil, err
	}
	var resources []types.Resource
	for _, zone := range zones {
		err := a.clients.svc.Disks.List(a.clients.project, zone).Pages(ctx, func(page *compute.DiskList) error {
			for _, disk := range page.Items {
				if len(disk.Users) > 0 {
					continue
				}
				resources = append(resources, normalizeDisk(disk, zone))
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("list disks in %s: %w", zone, err)
		}
	}
	return resources, nil
}

func normalizeDisk(disk *compute.Disk, zone string) types.Resource {
	r := types.Resource{
		ID:       disk.Name,
		Name:     disk.Name,
		Provider: "gcp",
		Region:   zone,
		Kind:     types.KindDisk,
		State:    strings.ToLower(disk.Status),
		Tags:     disk.Labels,
	}
	setCreatedAt(&r, disk.CreationTimestamp)
	if disk.LastDetachTimestamp != "" {
		t, err := time.Parse(time.RFC3339, disk.LastDetachTimestamp)
		if err != nil {
			r.Invalid = fmt.Sprintf("detach timestamp %q: %v", disk.LastDetachTimestamp, err)
		} else {
			r.DetachedAt = t
		}
	}
	return r
}

func (a *diskAdapter) Delete(ctx context.Context, r types.Resource) error {
	_, err := a.clients.svc.Disks.Delete(a.clients.project, r.Region, r.Name).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("delete disk %s: %w", r.Name, err)
	}
	return nil
}

func (a *diskAdapter) Stop(context.Context, types.Resource) error {
	return errStopUnsupported(types.KindDisk)
}
