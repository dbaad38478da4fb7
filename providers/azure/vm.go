package azure

import (
	"context"
	"fmt"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/compute/armcompute/v5"

	"github.com/cloudreaper/reap/types"
)

const powerStatePrefix = "PowerState/"

type vmAdapter struct {
	clients *clients
}

func (a *vmAdapter) Provider() string { return "azure" }
func (a *vmAdapter) Kind() types.Kind { return types.KindVM }

func (a *vmAdapter) List(ctx context.Context) ([]types.Resource, error) {
	var resources []types.Resource
	collect := func(page []*armcompute.VirtualMachine) error {
		for _, vm := range page {
			if vm == nil || vm.ID == nil {
				continue
			}
			resources = append(resources, a.normalize(ctx, vm))
		}
		return nil
	}

	if a.clients.group != "" {
		pager := a.clients.vms.NewListPager(a.clients.group, nil)
		for pager.More() {
			page, err := pager.NextPage(ctx)
			if err != nil {
				return nil, fmt.Errorf("list vms in %s: %w", a.clients.group, err)
			}
			if err := collect(page.Value); err != nil {
				return nil, err
			}
		}
		return resources, nil
	}

	pager := a.clients.vms.NewListAllPager(nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list vms: %w", err)
		}
		if err := collect(page.Value); err != nil {
			return nil, err
		}
	}
	return resources, nil
}

func (a *vmAdapter) normalize(ctx context.Context, vm *armcompute.VirtualMachine) types.Resource {
	r := types.Resource{
		ID:       deref(vm.ID),
		Name:     deref(vm.Name),
		Provider: "azure",
		Region:   deref(vm.Location),
		Kind:     types.KindVM,
		Tags:     tagMap(vm.Tags),
	}
	if vm.Properties != nil && vm.Properties.TimeCreated != nil {
		r.CreatedAt = *vm.Properties.TimeCreated
	}
	r.State = a.powerState(ctx, resourceGroupFromID(r.ID), r.Name)
	return r
}

// powerState reads the VM's instance view. The power state lives in a
// status code of the form "PowerState/running". An unreadable instance
// view leaves the state empty rather than failing the sweep.
func (a *vmAdapter) powerState(ctx context.Context, group, name string) string {
	view, err := a.clients.vms.InstanceView(ctx, group, name, nil)
	if err != nil {
		a.clients.logger.Warn().Err(err).Str("vm", name).Msg("instance view unavailable")
		return ""
	}
	for _, status := range view.Statuses {
		if status.Code == nil {
			continue
		}
		if state, ok := strings.CutPrefix(*status.Code, powerStatePrefix); ok {
			return state
		}
	}
	return ""
}

func (a *vmAdapter) Delete(ctx context.Context, r types.Resource) error {
	group := resourceGroupFromID(r.ID)
	poller, err := a.clients.vms.BeginDelete(ctx, group, r.Name, nil)
	if err != nil {
		return fmt.Errorf("delete vm %s: %w", r.Name, err)
	}
	if _, err := poller.PollUntilDone(ctx, nil); err != nil {
		return fmt.Errorf("delete vm %s: %w", r.Name, err)
	}
	return nil
}

func (a *vmAdapter) Stop(ctx context.Context, r types.Resource) error {
	group := resourceGroupFromID(r.ID)
	poller, err := a.clients.vms.BeginDeallocate(ctx, group, r.Name, nil)
	if err != nil {
		return fmt.Errorf("deallocate vm %s: %w", r.Name, err)
	}
	if _, err := poller.PollUntilDone(ctx, nil); err != nil {
		return fmt.Errorf("deallocate vm %s: %w", r.Name, err)
	}
	return nil
}
