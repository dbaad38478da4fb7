package aws

import (
	"context"
	"fmt"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"

	"github.com/cloudreaper/reap/types"
)

type nicAdapter struct {
	clients *clients
}

func (a *nicAdapter) Provider() string { return "aws" }
func (a *nicAdapter) Kind() types.Kind { return types.KindNIC }

// List returns detached network interfaces. Attached interfaces belong
// to their instance's lifecycle and are cleaned up with it.
func (a *nicAdapter) List(ctx context.Context) ([]types.Resource, error) {
	return a.clients.forEachRegion(ctx, a.listRegion)
}

func (a *nicAdapter) listRegion(ctx context.Context, region string) ([]types.Resource, error) {
	var resources []types.Resource
	paginator := ec2.NewDescribeNetworkInterfacesPaginator(a.clients.ec2For(region), &ec2.DescribeNetworkInterfacesInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("describe network interfaces: %w", err)
		}
		for _, eni := range page.NetworkInterfaces {
			if eni.Status != ec2types.NetworkInterfaceStatusAvailable {
				continue
			}
			tags := tagMap(eni.TagSet)
			name := nameFrom(tags)
			if name == "" {
				name = awssdk.ToString(eni.Description)
			}
			resources = append(resources, types.Resource{
				ID:       awssdk.ToString(eni.NetworkInterfaceId),
				Name:     name,
				Provider: "aws",
				Region:   region,
				Kind:     types.KindNIC,
				State:    string(eni.Status),
				Tags:     tags,
			})
		}
	}
	return resources, nil
}

func (a *nicAdapter) Delete(ctx context.Context, r types.Resource) error {
	_, err := a.clients.ec2For(r.Region).DeleteNetworkInterface(ctx, &ec2.DeleteNetworkInterfaceInput{
		NetworkInterfaceId: awssdk.String(r.ID),
	})
	if err != nil {
		return fmt.Errorf("delete network interface %s: %w", r.ID, err)
	}
	return nil
}

func (a *nicAdapter) Stop(context.Context, types.Resource) error {
	return errStopUnsupported(types.KindNIC)
}
