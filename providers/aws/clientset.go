// Package aws implements resource adapters over the AWS SDK v2.
// Discovery fans out across every enabled region unless the run pins
// one; mutations go to the region the resource was discovered in.
package aws

import (
	"context"
	"fmt"
	"sync"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/kms"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/cloudreaper/reap/types"
)

const (
	fallbackRegion        = "us-east-1"
	regionConcurrency     = 8
	defaultKMSPendingDays = int32(7)
)

type clients struct {
	cfg     awssdk.Config
	regions []string
	logger  zerolog.Logger

	mu  sync.Mutex
	ec2 map[string]*ec2.Client
	kms map[string]*kms.Client
}

// newClients loads default credentials and resolves the region set to
// operate in. A pinned region skips the DescribeRegions round trip.
func newClients(ctx context.Context, region string, logger zerolog.Logger) (*clients, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	if cfg.Region == "" {
		cfg.Region = fallbackRegion
	}

	c := &clients{
		cfg:    cfg,
		logger: logger,
		ec2:    make(map[string]*ec2.Client),
		kms:    make(map[string]*kms.Client),
	}

	if region != "" {
		c.regions = []string{region}
		return c, nil
	}

	out, err := ec2.NewFromConfig(cfg).DescribeRegions(ctx, &ec2.DescribeRegionsInput{})
	if err != nil {
		return nil, fmt.Errorf("describe regions: %w", err)
	}
	for _, r := range out.Regions {
		c.regions = append(c.regions, awssdk.ToString(r.RegionName))
	}
	return c, nil
}

func (c *clients) ec2For(region string) *ec2.Client {
	c.mu.Lock()
	defer c.mu.Unlock()
	if client, ok := c.ec2[region]; ok {
		return client
	}
	client := ec2.NewFromConfig(c.cfg, func(o *ec2.Options) { o.Region = region })
	c.ec2[region] = client
	return client
}

func (c *clients) kmsFor(region string) *kms.Client {
	c.mu.Lock()
	defer c.mu.Unlock()
	if client, ok := c.kms[region]; ok {
		return client
	}
	client := kms.NewFromConfig(c.cfg, func(o *kms.Options) { o.Region = region })
	c.kms[region] = client
	return client
}

// forEachRegion runs fn per region concurrently and merges the results.
// The first region error aborts the sweep.
func (c *clients) forEachRegion(ctx context.Context, fn func(ctx context.Context, region string) ([]types.Resource, error)) ([]types.Resource, error) {
	var (
		mu  sync.Mutex
		all []types.Resource
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(regionConcurrency)
	for _, region := range c.regions {
		g.Go(func() error {
			resources, err := fn(gctx, region)
			if err != nil {
				return fmt.Errorf("region %s: %w", region, err)
			}
			mu.Lock()
			all = append(all, resources...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return all, nil
}
