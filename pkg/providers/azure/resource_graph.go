package azure

import (
	"context"
	"fmt"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resourcegraph/armresourcegraph"
	"github.com/wbuck/azvm-manager/pkg/logger"
	"github.com/wbuck/azvm-manager/pkg/models"
)

const vmGraphQuery = `Resources
| where type =~ 'microsoft.compute/virtualmachines'%s
| project id, name, resourceGroup, location, tags,
    os = tostring(properties.storageProfile.imageReference.offer),
    sku = tostring(properties.storageProfile.imageReference.sku),
    version = tostring(properties.storageProfile.imageReference.version),
    powerState = tostring(properties.extended.instanceView.powerState.displayStatus)
| order by name asc`

// SearchVirtualMachines lists VMs with their power state in one Resource
// Graph query instead of an instance view call per VM. resourceGroup may be
// empty to search the whole subscription.
func (c *LiveClient) SearchVirtualMachines(
	ctx context.Context,
	subscriptionID, resourceGroup string,
) ([]models.VirtualMachine, error) {
	return searchVirtualMachines(ctx, c.resourceGraphClient, subscriptionID, resourceGroup)
}

func searchVirtualMachines(
	ctx context.Context,
	client ResourceGraphClientAPI,
	subscriptionID, resourceGroup string,
) ([]models.VirtualMachine, error) {
	filter := ""
	if resourceGroup != "" {
		filter = fmt.Sprintf("\n| where resourceGroup =~ '%s'", strings.ReplaceAll(resourceGroup, "'", "''"))
	}

	request := armresourcegraph.QueryRequest{
		Query:         to.Ptr(fmt.Sprintf(vmGraphQuery, filter)),
		Subscriptions: []*string{to.Ptr(subscriptionID)},
		Options: &armresourcegraph.QueryRequestOptions{
			ResultFormat: to.Ptr(armresourcegraph.ResultFormatObjectArray),
		},
	}

	var vms []models.VirtualMachine
	for {
		logger.LogAzureAPIStart("SearchVirtualMachines")
		res, err := client.Resources(ctx, request, nil)
		logger.LogAzureAPIEnd("SearchVirtualMachines", err)
		if err != nil {
			return nil, fmt.Errorf("failed to query resources: %w", HandleAzureError(err))
		}

		rows, ok := res.Data.([]interface{})
		if !ok && res.Data != nil {
			return nil, fmt.Errorf("unexpected resource graph result type %T", res.Data)
		}
		for _, row := range rows {
			if m, ok := row.(map[string]interface{}); ok {
				vms = append(vms, vmFromGraphRow(m))
			}
		}

		if res.SkipToken == nil || *res.SkipToken == "" {
			return vms, nil
		}
		request.Options.SkipToken = res.SkipToken
	}
}

func vmFromGraphRow(row map[string]interface{}) models.VirtualMachine {
	str := func(key string) string {
		s, _ := row[key].(string)
		return s
	}
	vm := models.VirtualMachine{
		ID:            str("id"),
		Name:          str("name"),
		ResourceGroup: str("resourceGroup"),
		Location:      str("location"),
		OS:            str("os"),
		SKU:           str("sku"),
		Version:       str("version"),
		PowerState:    str("powerState"),
	}
	if vm.PowerState == "" {
		vm.PowerState = models.PowerStateUnknown
	}
	if tags, ok := row["tags"].(map[string]interface{}); ok && len(tags) > 0 {
		vm.Tags = make(map[string]string, len(tags))
		for k, v := range tags {
			vm.Tags[k] = fmt.Sprint(v)
		}
	}
	return vm
}
