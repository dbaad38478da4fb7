// Package azure implements resource adapters over the Azure Resource
// Manager SDK. Credentials come from the default chain (environment,
// workload identity, managed identity, CLI).
package azure

import (
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/compute/armcompute/v5"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/network/armnetwork/v5"
	"github.com/rs/zerolog"

	"github.com/cloudreaper/reap/providers"
	"github.com/cloudreaper/reap/types"
)

type clients struct {
	subscription string
	group        string // optional narrowing to one resource group
	logger       zerolog.Logger

	vms   *armcompute.VirtualMachinesClient
	disks *armcompute.DisksClient
	ips   *armnetwork.PublicIPAddressesClient
	nics  *armnetwork.InterfacesClient
}

func newClients(_ context.Context, cfg providers.Config) (*clients, error) {
	if cfg.SubscriptionID == "" {
		return nil, fmt.Errorf("azure: subscription id is required")
	}
	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("azure credential: %w", err)
	}

	vms, err := armcompute.NewVirtualMachinesClient(cfg.SubscriptionID, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("vm client: %w", err)
	}
	disks, err := armcompute.NewDisksClient(cfg.SubscriptionID, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("disks client: %w", err)
	}
	ips, err := armnetwork.NewPublicIPAddressesClient(cfg.SubscriptionID, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("public ip client: %w", err)
	}
	nics, err := armnetwork.NewInterfacesClient(cfg.SubscriptionID, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("interfaces client: %w", err)
	}

	return &clients{
		subscription: cfg.SubscriptionID,
		group:        cfg.ResourceGroup,
		logger:       cfg.Logger,
		vms:          vms,
		disks:        disks,
		ips:          ips,
		nics:         nics,
	}, nil
}

func init() {
	register := func(kind types.Kind, build func(c *clients) providers.ResourceAdapter) {
		providers.Register("azure", kind, func(ctx context.Context, cfg providers.Config) (providers.ResourceAdapter, error) {
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
	register(types.KindNIC, func(c *clients) providers.ResourceAdapter { return &nicAdapter{c} })
}
