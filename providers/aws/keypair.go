package aws

import (
	"context"
	"fmt"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"

	"github.com/cloudreaper/reap/types"
)

type keyPairAdapter struct {
	clients *clients
}

func (a *keyPairAdapter) Provider() string { return "aws" }
func (a *keyPairAdapter) Kind() types.Kind { return types.KindKeyPair }

func (a *keyPairAdapter) List(ctx context.Context) ([]types.Resource, error) {
	return a.clients.forEachRegion(ctx, func(ctx context.Context, region string) ([]types.Resource, error) {
		out, err := a.clients.ec2For(region).DescribeKeyPairs(ctx, &ec2.DescribeKeyPairsInput{})
		if err != nil {
			return nil, fmt.Errorf("describe key pairs: %w", err)
		}
		var resources []types.Resource
		for _, kp := range out.KeyPairs {
			r := types.Resource{
				ID:       awssdk.ToString(kp.KeyPairId),
				Name:     awssdk.ToString(kp.KeyName),
				Provider: "aws",
				Region:   region,
				Kind:     types.KindKeyPair,
				Tags:     tagMap(kp.Tags),
			}
			if kp.CreateTime != nil {
				r.CreatedAt = *kp.CreateTime
			}
			resources = append(resources, r)
		}
		return resources, nil
	})
}

func (a *keyPairAdapter) Delete(ctx context.Context, r types.Resource) error {
	_, err := a.clients.ec2For(r.Region).DeleteKeyPair(ctx, &ec2.DeleteKeyPairInput{
		KeyPairId: awssdk.String(r.ID),
	})
	if err != nil {
		return fmt.Errorf("delete key pair %s: %w", r.Name, err)
	}
	return nil
}

func (a *keyPairAdapter) Stop(context.Context, types.Resource) error {
	return errStopUnsupported(types.KindKeyPair)
}
