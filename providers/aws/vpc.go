package aws

import (
	"context"
	"fmt"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"

	"github.com/cloudreaper/reap/types"
)

type vpcAdapter struct {
	clients *clients
}

func (a *vpcAdapter) Provider() string { return "aws" }
func (a *vpcAdapter) Kind() types.Kind { return types.KindVPC }

// List returns non-default VPCs. The default VPC is never a candidate.
func (a *vpcAdapter) List(ctx context.Context) ([]types.Resource, error) {
	return a.clients.forEachRegion(ctx, a.listRegion)
}

func (a *vpcAdapter) listRegion(ctx context.Context, region string) ([]types.Resource, error) {
	var resources []types.Resource
	paginator := ec2.NewDescribeVpcsPaginator(a.clients.ec2For(region), &ec2.DescribeVpcsInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("describe vpcs: %w", err)
		}
		for _, vpc := range page.Vpcs {
			if awssdk.ToBool(vpc.IsDefault) {
				continue
			}
			tags := tagMap(vpc.Tags)
			resources = append(resources, types.Resource{
				ID:       awssdk.ToString(vpc.VpcId),
				Name:     nameFrom(tags),
				Provider: "aws",
				Region:   region,
				Kind:     types.KindVPC,
				State:    string(vpc.State),
				Tags:     tags,
			})
		}
	}
	return resources, nil
}

// Delete removes the VPC itself. Dependent resources inside it make
// the call fail with a dependency violation, which the retry policy
// surfaces after its budget; emptying the VPC first is the operator's
// job.
func (a *vpcAdapter) Delete(ctx context.Context, r types.Resource) error {
	_, err := a.clients.ec2For(r.Region).DeleteVpc(ctx, &ec2.DeleteVpcInput{
		VpcId: awssdk.String(r.ID),
	})
	if err != nil {
		return fmt.Errorf("delete vpc %s: %w", r.ID, err)
	}
	return nil
}

func (a *vpcAdapter) Stop(context.Context, types.Resource) error {
	return errStopUnsupported(types.KindVPC)
}
