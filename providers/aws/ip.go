package aws

import (
	"context"
	"fmt"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"

	"github.com/cloudreaper/reap/types"
)

type ipAdapter struct {
	clients *clients
}

func (a *ipAdapter) Provider() string { return "aws" }
func (a *ipAdapter) Kind() types.Kind { return types.KindIP }

// List returns unassociated elastic IPs only. An address in use is
// never a reclamation candidate.
func (a *ipAdapter) List(ctx context.Context) ([]types.Resource, error) {
	return a.clients.forEachRegion(ctx, func(ctx context.Context, region string) ([]types.Resource, error) {
		out, err := a.clients.ec2For(region).DescribeAddresses(ctx, &ec2.DescribeAddressesInput{})
		if err != nil {
			return nil, fmt.Errorf("describe addresses: %w", err)
		}
		var resources []types.Resource
		for _, addr := range out.Addresses {
			if addr.AssociationId != nil {
				continue
			}
			tags := tagMap(addr.Tags)
			resources = append(resources, types.Resource{
				ID:       awssdk.ToString(addr.AllocationId),
				Name:     nameFrom(tags),
				Provider: "aws",
				Region:   region,
				Kind:     types.KindIP,
				State:    "unassociated",
				Tags:     tags,
			})
		}
		return resources, nil
	})
}

func (a *ipAdapter) Delete(ctx context.Context, r types.Resource) error {
	_, err := a.clients.ec2For(r.Region).ReleaseAddress(ctx, &ec2.ReleaseAddressInput{
		AllocationId: awssdk.String(r.ID),
	})
	if err != nil {
		return fmt.Errorf("release address %s: %w", r.ID, err)
	}
	return nil
}

func (a *ipAdapter) Stop(context.Context, types.Resource) error {
	return errStopUnsupported(types.KindIP)
}
