package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/wbuck/azvm-manager/pkg/models"
	"github.com/wbuck/azvm-manager/pkg/providers/azure"
)

var _ azure.Clienter = (*MockClienter)(nil)

type MockClienter struct {
	mock.Mock
}

func (m *MockClienter) ListSubscriptions(ctx context.Context) ([]models.Subscription, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Subscription), args.Error(1)
}

func (m *MockClienter) GetSubscription(ctx context.Context, subscriptionID string) (models.Subscription, error) {
	args := m.Called(ctx, subscriptionID)
	return args.Get(0).(models.Subscription), args.Error(1)
}

func (m *MockClienter) ListResourceGroups(ctx context.Context, subscriptionID string) ([]models.ResourceGroup, error) {
	args := m.Called(ctx, subscriptionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ResourceGroup), args.Error(1)
}

func (m *MockClienter) GetResourceGroup(
	ctx context.Context,
	subscriptionID, name string,
) (models.ResourceGroup, error) {
	args := m.Called(ctx, subscriptionID, name)
	return args.Get(0).(models.ResourceGroup), args.Error(1)
}

func (m *MockClienter) ListVirtualMachines(
	ctx context.Context,
	subscriptionID, resourceGroup string,
) ([]models.VirtualMachine, error) {
	args := m.Called(ctx, subscriptionID, resourceGroup)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.VirtualMachine), args.Error(1)
}

func (m *MockClienter) ListVirtualMachineInventory(
	ctx context.Context,
	subscriptionID, resourceGroup string,
) ([]models.VirtualMachine, error) {
	args := m.Called(ctx, subscriptionID, resourceGroup)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.VirtualMachine), args.Error(1)
}

func (m *MockClienter) ListAllVirtualMachines(
	ctx context.Context,
	subscriptionID string,
) ([]models.VirtualMachine, error) {
	args := m.Called(ctx, subscriptionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.VirtualMachine), args.Error(1)
}

func (m *MockClienter) SearchVirtualMachines(
	ctx context.Context,
	subscriptionID, resourceGroup string,
) ([]models.VirtualMachine, error) {
	args := m.Called(ctx, subscriptionID, resourceGroup)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.VirtualMachine), args.Error(1)
}

func (m *MockClienter) GetVirtualMachine(
	ctx context.Context,
	subscriptionID, resourceGroup, name string,
) (models.VirtualMachine, error) {
	args := m.Called(ctx, subscriptionID, resourceGroup, name)
	return args.Get(0).(models.VirtualMachine), args.Error(1)
}

func (m *MockClienter) GetPowerState(ctx context.Context, subscriptionID, resourceGroup, name string) (string, error) {
	args := m.Called(ctx, subscriptionID, resourceGroup, name)
	return args.String(0), args.Error(1)
}

func (m *MockClienter) StartVirtualMachine(ctx context.Context, subscriptionID, resourceGroup, name string) error {
	args := m.Called(ctx, subscriptionID, resourceGroup, name)
	return args.Error(0)
}

func (m *MockClienter) DeallocateVirtualMachine(ctx context.Context, subscriptionID, resourceGroup, name string) error {
	args := m.Called(ctx, subscriptionID, resourceGroup, name)
	return args.Error(0)
}
