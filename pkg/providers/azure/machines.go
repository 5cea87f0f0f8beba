package azure

import (
	"context"
	"fmt"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/compute/armcompute"
	"github.com/wbuck/azvm-manager/pkg/logger"
	"github.com/wbuck/azvm-manager/pkg/models"
)

const powerStateCodePrefix = "PowerState"

// PowerState returns the display status of the first instance view status
// whose code is a PowerState code, or "Unknown".
func PowerState(view *armcompute.VirtualMachineInstanceView) string {
	if view == nil {
		return models.PowerStateUnknown
	}
	for _, s := range view.Statuses {
		if s == nil || s.Code == nil {
			continue
		}
		if strings.Contains(*s.Code, powerStateCodePrefix) {
			if s.DisplayStatus == nil {
				return models.PowerStateUnknown
			}
			return *s.DisplayStatus
		}
	}
	return models.PowerStateUnknown
}

func (c *LiveClient) ListVirtualMachines(
	ctx context.Context,
	subscriptionID, resourceGroup string,
) ([]models.VirtualMachine, error) {
	client, err := c.virtualMachinesClient(subscriptionID)
	if err != nil {
		return nil, err
	}
	vms, err := listVirtualMachines(ctx, client, resourceGroup)
	if err != nil {
		return nil, err
	}

	// The list call carries no instance view, so power states need one
	// call per VM.
	for i := range vms {
		state, err := c.powerState(ctx, client, vms[i].ResourceGroup, vms[i].Name)
		if err != nil {
			return nil, err
		}
		vms[i].PowerState = state
	}
	return vms, nil
}

// ListVirtualMachineInventory lists the VMs of a resource group without
// fetching instance views. PowerState is left Unknown.
func (c *LiveClient) ListVirtualMachineInventory(
	ctx context.Context,
	subscriptionID, resourceGroup string,
) ([]models.VirtualMachine, error) {
	client, err := c.virtualMachinesClient(subscriptionID)
	if err != nil {
		return nil, err
	}
	return listVirtualMachines(ctx, client, resourceGroup)
}

func listVirtualMachines(
	ctx context.Context,
	client *armcompute.VirtualMachinesClient,
	resourceGroup string,
) ([]models.VirtualMachine, error) {
	logger.LogAzureAPIStart("ListVirtualMachines")
	var vms []models.VirtualMachine
	pager := client.NewListPager(resourceGroup, nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			logger.LogAzureAPIEnd("ListVirtualMachines", err)
			return nil, fmt.Errorf("failed to list virtual machines in %s: %w", resourceGroup, HandleAzureError(err))
		}
		for _, vm := range page.Value {
			m := toVirtualMachine(vm)
			if m.ResourceGroup == "" {
				m.ResourceGroup = resourceGroup
			}
			vms = append(vms, m)
		}
	}
	logger.LogAzureAPIEnd("ListVirtualMachines", nil)
	return vms, nil
}

func (c *LiveClient) ListAllVirtualMachines(ctx context.Context, subscriptionID string) ([]models.VirtualMachine, error) {
	client, err := c.virtualMachinesClient(subscriptionID)
	if err != nil {
		return nil, err
	}

	logger.LogAzureAPIStart("ListAllVirtualMachines")
	var vms []models.VirtualMachine
	pager := client.NewListAllPager(&armcompute.VirtualMachinesClientListAllOptions{
		StatusOnly: to.Ptr("true"),
	})
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			logger.LogAzureAPIEnd("ListAllVirtualMachines", err)
			return nil, fmt.Errorf("failed to list virtual machines: %w", HandleAzureError(err))
		}
		for _, vm := range page.Value {
			vms = append(vms, toVirtualMachine(vm))
		}
	}
	logger.LogAzureAPIEnd("ListAllVirtualMachines", nil)
	return vms, nil
}

func (c *LiveClient) GetVirtualMachine(
	ctx context.Context,
	subscriptionID, resourceGroup, name string,
) (models.VirtualMachine, error) {
	client, err := c.virtualMachinesClient(subscriptionID)
	if err != nil {
		return models.VirtualMachine{}, err
	}

	logger.LogAzureAPIStart("GetVirtualMachine")
	res, err := client.Get(ctx, resourceGroup, name, &armcompute.VirtualMachinesClientGetOptions{
		Expand: to.Ptr(armcompute.InstanceViewTypesInstanceView),
	})
	logger.LogAzureAPIEnd("GetVirtualMachine", err)
	if err != nil {
		return models.VirtualMachine{}, fmt.Errorf("failed to get virtual machine %s: %w", name, HandleAzureError(err))
	}
	return toVirtualMachine(&res.VirtualMachine), nil
}

func (c *LiveClient) GetPowerState(ctx context.Context, subscriptionID, resourceGroup, name string) (string, error) {
	client, err := c.virtualMachinesClient(subscriptionID)
	if err != nil {
		return "", err
	}
	return c.powerState(ctx, client, resourceGroup, name)
}

func (c *LiveClient) powerState(
	ctx context.Context,
	client *armcompute.VirtualMachinesClient,
	resourceGroup, name string,
) (string, error) {
	logger.LogAzureAPIStart("InstanceView")
	res, err := client.InstanceView(ctx, resourceGroup, name, nil)
	logger.LogAzureAPIEnd("InstanceView", err)
	if err != nil {
		return "", fmt.Errorf("failed to get instance view of %s: %w", name, HandleAzureError(err))
	}
	return PowerState(&res.VirtualMachineInstanceView), nil
}

// StartVirtualMachine submits a start request and returns once Azure has
// accepted it. Completion is observed through the power state.
func (c *LiveClient) StartVirtualMachine(ctx context.Context, subscriptionID, resourceGroup, name string) error {
	client, err := c.virtualMachinesClient(subscriptionID)
	if err != nil {
		return err
	}
	logger.LogAzureAPIStart("BeginStart")
	_, err = client.BeginStart(ctx, resourceGroup, name, nil)
	logger.LogAzureAPIEnd("BeginStart", err)
	if err != nil {
		return fmt.Errorf("failed to start %s: %w", name, HandleAzureError(err))
	}
	return nil
}

// DeallocateVirtualMachine is the stop counterpart of StartVirtualMachine.
// Deallocation releases the compute so the VM stops being billed.
func (c *LiveClient) DeallocateVirtualMachine(ctx context.Context, subscriptionID, resourceGroup, name string) error {
	client, err := c.virtualMachinesClient(subscriptionID)
	if err != nil {
		return err
	}
	logger.LogAzureAPIStart("BeginDeallocate")
	_, err = client.BeginDeallocate(ctx, resourceGroup, name, nil)
	logger.LogAzureAPIEnd("BeginDeallocate", err)
	if err != nil {
		return fmt.Errorf("failed to deallocate %s: %w", name, HandleAzureError(err))
	}
	return nil
}

func toVirtualMachine(vm *armcompute.VirtualMachine) models.VirtualMachine {
	if vm == nil {
		return models.VirtualMachine{}
	}
	out := models.VirtualMachine{
		ID:            deref(vm.ID),
		Name:          deref(vm.Name),
		ResourceGroup: resourceGroupFromID(deref(vm.ID)),
		Location:      deref(vm.Location),
		PowerState:    models.PowerStateUnknown,
		Tags:          derefTags(vm.Tags),
	}
	p := vm.Properties
	if p == nil {
		return out
	}
	if p.StorageProfile != nil {
		if img := p.StorageProfile.ImageReference; img != nil {
			out.OS = deref(img.Offer)
			out.SKU = deref(img.SKU)
			out.Version = deref(img.Version)
		}
		if out.OS == "" && p.StorageProfile.OSDisk != nil && p.StorageProfile.OSDisk.OSType != nil {
			out.OS = string(*p.StorageProfile.OSDisk.OSType)
		}
	}
	if p.InstanceView != nil {
		out.PowerState = PowerState(p.InstanceView)
	}
	return out
}
