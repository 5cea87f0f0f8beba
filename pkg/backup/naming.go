package backup

import (
	"fmt"

	"github.com/wbuck/azvm-manager/pkg/models"
)

const (
	// FabricName is the only backup fabric IaaS VMs are registered in.
	FabricName = "Azure"

	DefaultPolicyName = "DefaultPolicy"

	containerPrefix     = "iaasvmcontainer;iaasvmcontainerv2;"
	protectedItemPrefix = "vm;iaasvmcontainerv2;"
)

// ContainerName is the protection container a VM is registered under.
func ContainerName(resourceGroup, vmName string) string {
	return containerPrefix + resourceGroup + ";" + vmName
}

// ProtectedItemName is the name of the protected item that represents a VM
// inside its container.
func ProtectedItemName(resourceGroup, vmName string) string {
	return protectedItemPrefix + resourceGroup + ";" + vmName
}

// DefaultPolicyID is the resource id of the vault's DefaultPolicy.
func DefaultPolicyID(subscriptionID, vaultResourceGroup, vaultName string) string {
	return fmt.Sprintf(
		"/subscriptions/%s/resourceGroups/%s/providers/%s/%s/backupPolicies/%s",
		subscriptionID, vaultResourceGroup, models.AzureResourceTypeVault.GetResourceLowerString(), vaultName, DefaultPolicyName,
	)
}

// Item is a single VM to register, with every name derived up front.
type Item struct {
	VM            models.VirtualMachine
	ResourceGroup string
	Container     string
	ProtectedItem string
	PolicyID      string
}

func (i Item) Ref() models.ResourceRef {
	return i.VM.Ref()
}

// SelectItems turns the VMs of a group into registration items. An empty
// filter selects every VM; otherwise only VMs whose name is listed. VMs
// without a name or id are skipped.
func SelectItems(scope models.Scope, vms []models.VirtualMachine, filter []string) []Item {
	allowed := make(map[string]struct{}, len(filter))
	for _, name := range filter {
		if name != "" {
			allowed[name] = struct{}{}
		}
	}

	vaultGroup := scope.VaultResourceGroup
	if vaultGroup == "" {
		vaultGroup = scope.ResourceGroup
	}
	policyID := DefaultPolicyID(scope.SubscriptionID, vaultGroup, scope.VaultName)

	items := make([]Item, 0, len(vms))
	for _, vm := range vms {
		if vm.Name == "" || vm.ID == "" {
			continue
		}
		if len(allowed) > 0 {
			if _, ok := allowed[vm.Name]; !ok {
				continue
			}
		}
		rg := vm.ResourceGroup
		if rg == "" {
			rg = scope.ResourceGroup
		}
		items = append(items, Item{
			VM:            vm,
			ResourceGroup: rg,
			Container:     ContainerName(rg, vm.Name),
			ProtectedItem: ProtectedItemName(rg, vm.Name),
			PolicyID:      policyID,
		})
	}
	return items
}
