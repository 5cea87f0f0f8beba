package azure

import (
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resources/armresources"
	"github.com/wbuck/azvm-manager/pkg/logger"
	"github.com/wbuck/azvm-manager/pkg/models"
)

func (c *LiveClient) GetResourceGroup(ctx context.Context, subscriptionID, name string) (models.ResourceGroup, error) {
	log := logger.Get()
	client, err := c.resourceGroupsClient(subscriptionID)
	if err != nil {
		return models.ResourceGroup{}, err
	}

	log.Debugf("Starting Resource Group Get for %s...", name)
	logger.LogAzureAPIStart("GetResourceGroup")
	result, err := client.Get(ctx, name, nil)
	logger.LogAzureAPIEnd("GetResourceGroup", err)
	if err != nil {
		return models.ResourceGroup{}, fmt.Errorf("failed to get resource group %s: %w", name, HandleAzureError(err))
	}
	return toResourceGroup(&result.ResourceGroup), nil
}

func (c *LiveClient) ListResourceGroups(ctx context.Context, subscriptionID string) ([]models.ResourceGroup, error) {
	client, err := c.resourceGroupsClient(subscriptionID)
	if err != nil {
		return nil, err
	}

	logger.LogAzureAPIStart("ListResourceGroups")
	var groups []models.ResourceGroup
	pager := client.NewListPager(nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			logger.LogAzureAPIEnd("ListResourceGroups", err)
			return nil, fmt.Errorf("failed to list resource groups: %w", HandleAzureError(err))
		}
		for _, rg := range page.Value {
			groups = append(groups, toResourceGroup(rg))
		}
	}
	logger.LogAzureAPIEnd("ListResourceGroups", nil)
	return groups, nil
}

func toResourceGroup(rg *armresources.ResourceGroup) models.ResourceGroup {
	if rg == nil {
		return models.ResourceGroup{}
	}
	out := models.ResourceGroup{
		ID:       deref(rg.ID),
		Name:     deref(rg.Name),
		Location: deref(rg.Location),
	}
	if rg.Properties != nil {
		out.ProvisioningState = deref(rg.Properties.ProvisioningState)
	}
	return out
}
