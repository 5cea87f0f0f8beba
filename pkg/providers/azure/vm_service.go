package azure

import (
	"context"
	"fmt"

	"github.com/wbuck/azvm-manager/pkg/convergence"
	"github.com/wbuck/azvm-manager/pkg/logger"
	"github.com/wbuck/azvm-manager/pkg/models"
)

// VMService runs power commands over a batch of VMs in one resource group
// and waits until every VM reports the target power state.
type VMService struct {
	Client  Clienter
	Tracker convergence.Tracker
}

// Start starts the named VMs, or every VM in the group when names is empty,
// and returns the group's VMs once all of them are running.
func (s *VMService) Start(ctx context.Context, scope models.Scope, names []string) ([]models.VirtualMachine, error) {
	return s.run(ctx, scope, names, "Started", convergence.TargetRunning, s.Client.StartVirtualMachine)
}

// Stop deallocates the named VMs, or every VM in the group when names is
// empty.
func (s *VMService) Stop(ctx context.Context, scope models.Scope, names []string) ([]models.VirtualMachine, error) {
	return s.run(ctx, scope, names, "Stopped", convergence.TargetDeallocated, s.Client.DeallocateVirtualMachine)
}

func (s *VMService) run(
	ctx context.Context,
	scope models.Scope,
	names []string,
	label string,
	target convergence.TargetState,
	submit func(ctx context.Context, subscriptionID, resourceGroup, name string) error,
) ([]models.VirtualMachine, error) {
	l := logger.Get()
	if len(names) == 0 {
		vms, err := s.Client.ListVirtualMachines(ctx, scope.SubscriptionID, scope.ResourceGroup)
		if err != nil {
			return nil, err
		}
		for _, vm := range vms {
			names = append(names, vm.Name)
		}
	}

	set := convergence.NewSet(names)
	for _, name := range set.Remaining() {
		l.Infof("%s: submitting request for %s", label, name)
		if err := submit(ctx, scope.SubscriptionID, scope.ResourceGroup, name); err != nil {
			return nil, err
		}
	}

	tracker := s.Tracker
	if tracker.Label == "" {
		tracker.Label = label
	}
	rounds, err := tracker.Converge(ctx, set, target, func(ctx context.Context, name string) (string, error) {
		return s.Client.GetPowerState(ctx, scope.SubscriptionID, scope.ResourceGroup, name)
	})
	if err != nil {
		return nil, fmt.Errorf("failed waiting for %s: %w", target, err)
	}
	l.Infof("%s %d virtual machines in %d rounds", label, set.Total(), rounds)

	return s.Client.ListVirtualMachines(ctx, scope.SubscriptionID, scope.ResourceGroup)
}
