package aws

import (
	"context"
	"fmt"
	"time"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"

	"github.com/cloudreaper/reap/types"
)

type vmAdapter struct {
	clients *clients
}

func (a *vmAdapter) Provider() string { return "aws" }
func (a *vmAdapter) Kind() types.Kind { return types.KindVM }

func (a *vmAdapter) List(ctx context.Context) ([]types.Resource, error) {
	return a.clients.forEachRegion(ctx, a.listRegion)
}

func (a *vmAdapter) listRegion(ctx context.Context, region string) ([]types.Resource, error) {
	var resources []types.Resource
	paginator := ec2.NewDescribeInstancesPaginator(a.clients.ec2For(region), &ec2.DescribeInstancesInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("describe instances: %w", err)
		}
		for _, reservation := range page.Reservations {
			for _, inst := range reservation.Instances {
				if inst.State != nil && inst.State.Name == ec2types.InstanceStateNameTerminated {
					continue
				}
				resources = append(resources, normalizeInstance(inst, region))
			}
		}
	}
	return resources, nil
}

// normalizeInstance maps an EC2 instance. Launch time restarts on every
// stop/start cycle, so the primary NIC attach time is the age anchor
// when present; it survives restarts.
func normalizeInstance(inst ec2types.Instance, region string) types.Resource {
	tags := tagMap(inst.Tags)
	r := types.Resource{
		ID:       awssdk.ToString(inst.InstanceId),
		Name:     nameFrom(tags),
		Provider: "aws",
		Region:   region,
		Kind:     types.KindVM,
		Tags:     tags,
	}
	if inst.State != nil {
		r.State = string(inst.State.Name)
	}
	if inst.LaunchTime != nil {
		r.CreatedAt = *inst.LaunchTime
	}
	if t := earliestAttachTime(inst.NetworkInterfaces); !t.IsZero() {
		r.AttachedAt = t
	}
	return r
}

func earliestAttachTime(nics []ec2types.InstanceNetworkInterface) time.Time {
	var earliest time.Time
	for _, nic := range nics {
		if nic.Attachment == nil || nic.Attachment.AttachTime == nil {
			continue
		}
		t := *nic.Attachment.AttachTime
		if earliest.IsZero() || t.Before(earliest) {
			earliest = t
		}
	}
	return earliest
}

func (a *vmAdapter) Delete(ctx context.Context, r types.Resource) error {
	_, err := a.clients.ec2For(r.Region).TerminateInstances(ctx, &ec2.TerminateInstancesInput{
		InstanceIds: []string{r.ID},
	})
	if err != nil {
		return fmt.Errorf("terminate instance %s: %w", r.ID, err)
	}
	return nil
}

func (a *vmAdapter) Stop(ctx context.Context, r types.Resource) error {
	_, err := a.clients.ec2For(r.Region).StopInstances(ctx, &ec2.StopInstancesInput{
		InstanceIds: []string{r.ID},
	})
	if err != nil {
		return fmt.Errorf("stop instance %s: %w", r.ID, err)
	}
	return nil
}
