package backup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/wbuck/azvm-manager/pkg/models"
)

func TestNames(t *testing.T) {
	assert.Equal(t, "iaasvmcontainer;iaasvmcontainerv2;rg1;vm1", ContainerName("rg1", "vm1"))
	assert.Equal(t, "vm;iaasvmcontainerv2;rg1;vm1", ProtectedItemName("rg1", "vm1"))
	assert.Equal(t,
		"/subscriptions/sub-1/resourceGroups/vault-rg/providers/microsoft.recoveryservices/vaults/vault-1/backupPolicies/DefaultPolicy",
		DefaultPolicyID("sub-1", "vault-rg", "vault-1"))
}

func TestSelectItems(t *testing.T) {
	scope := models.Scope{SubscriptionID: "sub-1", ResourceGroup: "rg1", VaultName: "vault-1"}
	vms := []models.VirtualMachine{
		{ID: "/vms/a", Name: "a"},
		{ID: "", Name: "no-id"},
		{ID: "/vms/none"},
		{ID: "/vms/b", Name: "b", ResourceGroup: "other-rg"},
		{ID: "/vms/c", Name: "c"},
	}

	tests := []struct {
		name   string
		filter []string
		want   []string
	}{
		{name: "empty filter selects all", filter: nil, want: []string{"a", "b", "c"}},
		{name: "filter restricts", filter: []string{"c", "a"}, want: []string{"a", "c"}},
		{name: "unknown names select nothing", filter: []string{"zzz"}, want: []string{}},
		{name: "skipped vm cannot be selected", filter: []string{"no-id"}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := SelectItems(scope, vms, tt.filter)
			got := make([]string, 0, len(items))
			for _, it := range items {
				got = append(got, it.VM.Name)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSelectItems_DerivesNames(t *testing.T) {
	scope := models.Scope{
		SubscriptionID:     "sub-1",
		ResourceGroup:      "rg1",
		VaultName:          "vault-1",
		VaultResourceGroup: "vault-rg",
	}
	items := SelectItems(scope, []models.VirtualMachine{
		{ID: "/vms/a", Name: "a"},
		{ID: "/vms/b", Name: "b", ResourceGroup: "rg2"},
	}, nil)

	assert.Equal(t, "iaasvmcontainer;iaasvmcontainerv2;rg1;a", items[0].Container)
	assert.Equal(t, "vm;iaasvmcontainerv2;rg2;b", items[1].ProtectedItem)
	assert.Equal(t, DefaultPolicyID("sub-1", "vault-rg", "vault-1"), items[0].PolicyID)
}

func TestSelectItems_VaultGroupFallsBackToResourceGroup(t *testing.T) {
	scope := models.Scope{SubscriptionID: "sub-1", ResourceGroup: "rg1", VaultName: "vault-1"}
	items := SelectItems(scope, []models.VirtualMachine{{ID: "/vms/a", Name: "a"}}, nil)

	assert.Equal(t, DefaultPolicyID("sub-1", "rg1", "vault-1"), items[0].PolicyID)
}
