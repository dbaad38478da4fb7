// Package gcp implements resource adapters over the Compute Engine v1
// API. Instances and disks are zonal, addresses regional, so discovery
// walks the project's zone and region lists.
package gcp

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"google.golang.org/api/compute/v1"
	"google.golang.org/api/option"

	"github.com/cloudreaper/reap/providers"
	"github.com/cloudreaper/reap/types"
)

type clients struct {
	project string
	svc     *compute.Service
	logger  zerolog.Logger
}

func newClients(ctx context.Context, cfg providers.Config) (*clients, error) {
	if cfg.ProjectID == "" {
		return nil, fmt.Errorf("gcp: project id is required")
	}
	svc, err := compute.NewService(ctx, option.WithScopes(compute.ComputeScope))
	if err != nil {
		return nil, fmt.Errorf("compute client: %w", err)
	}
	return &clients{project: cfg.ProjectID, svc: svc, logger: cfg.Logger}, nil
}

func (c *clients) zones(ctx context.Context) ([]string, error) {
	out, err := c.svc.Zones.List(c.project).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("list zones: %w", err)
	}
	names := make([]string, 0, len(out.Items))
	for _, z := range out.Items {
		names = append(names, z.Name)
	}
	return names, nil
}

func (c *clients) regions(ctx context.Context) ([]string, error) {
	out, err := c.svc.Regions.List(c.project).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("list regions: %w", err)
	}
	names := make([]string, 0, len(out.Items))
	for _, r := range out.Items {
		names = append(names, r.Name)
	}
	return names, nil
}

func init() {
	register := func(kind types.Kind, build func(c *clients) providers.ResourceAdapter) {
		providers.Register("gcp", kind, func(ctx context.Context, cfg providers.Config) (providers.ResourceAdapter, error) {
			c, err := newClients(ctx, cfg)
			if err != nil {
				return nil, err
			}
			return build(c), nil
		})
	}

	register(types.KindVM, func(c *clients) providers.ResourceAdapter { return &vmAdapter{c} })
	register(types.KindDisk, func(c *clients) providers.ResourceAdapter { return &diskAdapter{c} })
	register(types.KindIP, func(c *clients) providers.ResourceAdapter { return &ipAdapter{c} })
}
