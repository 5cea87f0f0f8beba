package models

import (
	"strings"
)

type ResourceTypes struct {
	ResourceString string
}

func (a *ResourceTypes) GetResourceLowerString() string {
	return strings.ToLower(a.ResourceString)
}

var AzureResourceTypeVM = ResourceTypes{
	ResourceString: "Microsoft.Compute/virtualMachines",
}

var AzureResourceTypeVault = ResourceTypes{
	ResourceString: "Microsoft.RecoveryServices/vaults",
}
