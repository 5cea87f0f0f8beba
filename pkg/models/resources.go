package models

// ResourceRef is the minimal identity needed to address a resource across
// submit, poll and list calls. The scope it lives in is passed alongside.
type ResourceRef struct {
	ID   string `json:"id"   yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// Scope addresses where resources live.
type Scope struct {
	SubscriptionID     string
	ResourceGroup      string
	VaultName          string
	VaultResourceGroup string
}

type Subscription struct {
	ID             string `json:"id"              yaml:"id"`
	SubscriptionID string `json:"subscription_id" yaml:"subscription_id"`
	DisplayName    string `json:"display_name"    yaml:"display_name"`
	State          string `json:"state"           yaml:"state"`
}

type ResourceGroup struct {
	ID                string `json:"id"                 yaml:"id"`
	Name              string `json:"name"               yaml:"name"`
	Location          string `json:"location"           yaml:"location"`
	ProvisioningState string `json:"provisioning_state" yaml:"provisioning_state"`
}

type VirtualMachine struct {
	ID            string            `json:"id"             yaml:"id"`
	Name          string            `json:"name"           yaml:"name"`
	ResourceGroup string            `json:"resource_group" yaml:"resource_group"`
	Location      string            `json:"location"       yaml:"location"`
	OS            string            `json:"os"             yaml:"os"`
	SKU           string            `json:"sku"            yaml:"sku"`
	Version       string            `json:"version"        yaml:"version"`
	PowerState    string            `json:"power_state"    yaml:"power_state"`
	Tags          map[string]string `json:"tags,omitempty" yaml:"tags,omitempty"`
}

func (vm VirtualMachine) Ref() ResourceRef {
	return ResourceRef{ID: vm.ID, Name: vm.Name}
}

// ProtectedItem is the backup registration result for a VM.
type ProtectedItem struct {
	ID               string `json:"id"                yaml:"id"`
	Name             string `json:"name"              yaml:"name"`
	FriendlyName     string `json:"friendly_name"     yaml:"friendly_name"`
	ProtectionState  string `json:"protection_state"  yaml:"protection_state"`
	ProtectionStatus string `json:"protection_status" yaml:"protection_status"`
	HealthStatus     string `json:"health_status"     yaml:"health_status"`
	PolicyID         string `json:"policy_id"         yaml:"policy_id"`
}
