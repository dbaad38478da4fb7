package aws

import (
	"context"
	"fmt"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"

	"github.com/cloudreaper/reap/providers"
	"github.com/cloudreaper/reap/types"
)

const nameTag = "Name"

func init() {
	register := func(kind types.Kind, build func(c *clients) providers.ResourceAdapter) {
		providers.Register("aws", kind, func(ctx context.Context, cfg providers.Config) (providers.ResourceAdapter, error) {
			c, err := newClients(ctx, cfg.Region, cfg.Logger)
			if err != nil {
				return nil, err
			}
			return build(c), nil
		})
	}

	register(types.KindVM, func(c *clients) providers.ResourceAdapter { return &vmAdapter{c} })
	register(types.KindIP, func(c *clients) providers.ResourceAdapter { return &ipAdapter{c} })
	register(types.KindKeyPair, func(c *clients) providers.ResourceAdapter { return &keyPairAdapter{c} })
	register(types.KindNIC, func(c *clients) providers.ResourceAdapter { return &nicAdapter{c} })
	register(types.KindVPC, func(c *clients) providers.ResourceAdapter { return &vpcAdapter{c} })

	providers.Register("aws", types.KindKMSKey, func(ctx context.Context, cfg providers.Config) (providers.ResourceAdapter, error) {
		c, err := newClients(ctx, cfg.Region, cfg.Logger)
		if err != nil {
			return nil, err
		}
		pending := cfg.KMSPendingWindowDays
		if pending <= 0 {
			pending = defaultKMSPendingDays
		}
		return &kmsAdapter{clients: c, pendingDays: pending}, nil
	})
}

// tagMap flattens an EC2 tag list. Nil keys are dropped.
func tagMap(tags []ec2types.Tag) map[string]string {
	if len(tags) == 0 {
		return nil
	}
	m := make(map[string]string, len(tags))
	for _, t := range tags {
		if t.Key == nil {
			continue
		}
		m[*t.Key] = awssdk.ToString(t.Value)
	}
	return m
}

// nameFrom returns the Name tag value, the EC2 naming convention.
func nameFrom(tags map[string]string) string {
	return tags[nameTag]
}

func errStopUnsupported(kind types.Kind) error {
	return fmt.Errorf("aws %s does not support stop", kind)
}
