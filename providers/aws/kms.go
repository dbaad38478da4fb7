package aws

import (
	"context"
	"fmt"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/kms"
	kmstypes "github.com/aws/aws-sdk-go-v2/service/kms/types"

	"github.com/cloudreaper/reap/types"
)

type kmsAdapter struct {
	clients     *clients
	pendingDays int32
}

func (a *kmsAdapter) Provider() string { return "aws" }
func (a *kmsAdapter) Kind() types.Kind { return types.KindKMSKey }

// List returns customer-managed keys. AWS-managed keys cannot be
// scheduled for deletion and are never listed.
func (a *kmsAdapter) List(ctx context.Context) ([]types.Resource, error) {
	return a.clients.forEachRegion(ctx, a.listRegion)
}

func (a *kmsAdapter) listRegion(ctx context.Context, region string) ([]types.Resource, error) {
	client := a.clients.kmsFor(region)
	var resources []types.Resource
	paginator := kms.NewListKeysPaginator(client, &kms.ListKeysInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list keys: %w", err)
		}
		for _, entry := range page.Keys {
			keyID := awssdk.ToString(entry.KeyId)
			desc, err := client.DescribeKey(ctx, &kms.DescribeKeyInput{KeyId: entry.KeyId})
			if err != nil {
				return nil, fmt.Errorf("describe key %s: %w", keyID, err)
			}
			meta := desc.KeyMetadata
			if meta == nil || meta.KeyManager != kmstypes.KeyManagerTypeCustomer {
				continue
			}
			if meta.KeyState == kmstypes.KeyStatePendingDeletion {
				continue
			}

			r := types.Resource{
				ID:       keyID,
				Provider: "aws",
				Region:   region,
				Kind:     types.KindKMSKey,
				State:    string(meta.KeyState),
			}
			if meta.CreationDate != nil {
				r.CreatedAt = *meta.CreationDate
			}
			tags, err := a.keyTags(ctx, client, entry.KeyId)
			if err != nil {
				return nil, err
			}
			r.Tags = tags
			resources = append(resources, r)
		}
	}
	return resources, nil
}

func (a *kmsAdapter) keyTags(ctx context.Context, client *kms.Client, keyID *string) (map[string]string, error) {
	out, err := client.ListResourceTags(ctx, &kms.ListResourceTagsInput{KeyId: keyID})
	if err != nil {
		return nil, fmt.Errorf("list tags for key %s: %w", awssdk.ToString(keyID), err)
	}
	if len(out.Tags) == 0 {
		return nil, nil
	}
	tags := make(map[string]string, len(out.Tags))
	for _, t := range out.Tags {
		tags[awssdk.ToString(t.TagKey)] = awssdk.ToString(t.TagValue)
	}
	return tags, nil
}

// Delete schedules the key for deletion after the pending window. KMS
// has no immediate delete; the window is the only safety net for key
// material, so it is configurable but never zero.
func (a *kmsAdapter) Delete(ctx context.Context, r types.Resource) error {
	_, err := a.clients.kmsFor(r.Region).ScheduleKeyDeletion(ctx, &kms.ScheduleKeyDeletionInput{
		KeyId:               awssdk.String(r.ID),
		PendingWindowInDays: awssdk.Int32(a.pendingDays),
	})
	if err != nil {
		return fmt.Errorf("schedule key deletion %s: %w", r.ID, err)
	}
	return nil
}

func (a *kmsAdapter) Stop(context.Context, types.Resource) error {
	return errStopUnsupported(types.KindKMSKey)
}
