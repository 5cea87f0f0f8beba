package azure

import (
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/arm"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/compute/armcompute"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resourcegraph/armresourcegraph"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resources/armresources"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/subscription/armsubscription"
	"github.com/wbuck/azvm-manager/pkg/models"
)

// Clienter is everything the commands need from Azure Resource Manager.
type Clienter interface {
	// Subscriptions API
	ListSubscriptions(ctx context.Context) ([]models.Subscription, error)
	GetSubscription(ctx context.Context, subscriptionID string) (models.Subscription, error)

	// Resource Group API
	ListResourceGroups(ctx context.Context, subscriptionID string) ([]models.ResourceGroup, error)
	GetResourceGroup(ctx context.Context, subscriptionID, name string) (models.ResourceGroup, error)

	// Virtual Machine API
	ListVirtualMachines(ctx context.Context, subscriptionID, resourceGroup string) ([]models.VirtualMachine, error)
	ListVirtualMachineInventory(ctx context.Context, subscriptionID, resourceGroup string) ([]models.VirtualMachine, error)
	ListAllVirtualMachines(ctx context.Context, subscriptionID string) ([]models.VirtualMachine, error)
	GetVirtualMachine(ctx context.Context, subscriptionID, resourceGroup, name string) (models.VirtualMachine, error)
	GetPowerState(ctx context.Context, subscriptionID, resourceGroup, name string) (string, error)
	StartVirtualMachine(ctx context.Context, subscriptionID, resourceGroup, name string) error
	DeallocateVirtualMachine(ctx context.Context, subscriptionID, resourceGroup, name string) error

	// ResourceGraphClientAPI
	SearchVirtualMachines(ctx context.Context, subscriptionID, resourceGroup string) ([]models.VirtualMachine, error)
}

type ResourceGraphClientAPI interface {
	Resources(
		ctx context.Context,
		request armresourcegraph.QueryRequest,
		options *armresourcegraph.ClientResourcesOptions,
	) (armresourcegraph.ClientResourcesResponse, error)
}

// LiveClient wraps all Azure SDK calls. Subscription scoped SDK clients are
// built per call since the subscription comes from the command line.
type LiveClient struct {
	cred                azcore.TokenCredential
	options             *arm.ClientOptions
	subscriptionsClient *armsubscription.SubscriptionsClient
	resourceGraphClient ResourceGraphClientAPI
}

var _ Clienter = (*LiveClient)(nil)

// NewClientFunc is swapped out by command tests.
var NewClientFunc = func(credential string) (Clienter, error) {
	cred, err := NewCredential(credential)
	if err != nil {
		return nil, err
	}
	return NewClient(cred, nil)
}

// NewClient creates a LiveClient. options may be nil.
func NewClient(cred azcore.TokenCredential, options *arm.ClientOptions) (*LiveClient, error) {
	subscriptionsClient, err := armsubscription.NewSubscriptionsClient(cred, options)
	if err != nil {
		return nil, fmt.Errorf("failed to create subscriptions client: %w", err)
	}
	resourceGraphClient, err := armresourcegraph.NewClient(cred, options)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource graph client: %w", err)
	}
	return &LiveClient{
		cred:                cred,
		options:             options,
		subscriptionsClient: subscriptionsClient,
		resourceGraphClient: resourceGraphClient,
	}, nil
}

func (c *LiveClient) virtualMachinesClient(subscriptionID string) (*armcompute.VirtualMachinesClient, error) {
	client, err := armcompute.NewVirtualMachinesClient(subscriptionID, c.cred, c.options)
	if err != nil {
		return nil, fmt.Errorf("failed to create virtual machines client: %w", err)
	}
	return client, nil
}

func (c *LiveClient) resourceGroupsClient(subscriptionID string) (*armresources.ResourceGroupsClient, error) {
	client, err := armresources.NewResourceGroupsClient(subscriptionID, c.cred, c.options)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource groups client: %w", err)
	}
	return client, nil
}
