package azure

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/arm"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/cloud"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/fake"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/wbuck/azvm-manager/pkg/backup"
	"github.com/wbuck/azvm-manager/pkg/lro"
	"github.com/wbuck/azvm-manager/pkg/models"
)

const fabricPath = "/subscriptions/sub-1/resourceGroups/vault-rg/providers/Microsoft.RecoveryServices/vaults/vault-1/backupFabrics/Azure"

type BackupClientTestSuite struct {
	suite.Suite
	routes map[string]http.HandlerFunc
	server *httptest.Server
	client *BackupClient
	scope  models.Scope
	item   backup.Item
}

func TestBackupClientSuite(t *testing.T) {
	suite.Run(t, new(BackupClientTestSuite))
}

func (s *BackupClientTestSuite) SetupTest() {
	s.routes = map[string]http.HandlerFunc{}
	// Item names contain ';', so route on the decoded path rather than
	// through ServeMux patterns.
	s.server = httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, ok := s.routes[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		h(w, r)
	}))

	client, err := NewBackupClient(&fake.TokenCredential{}, &arm.ClientOptions{
		ClientOptions: policy.ClientOptions{
			Cloud: cloud.Configuration{
				ActiveDirectoryAuthorityHost: "https://login.invalid/",
				Services: map[cloud.ServiceName]cloud.ServiceConfiguration{
					cloud.ResourceManager: {
						Audience: "https://management.core.windows.net/",
						Endpoint: s.server.URL,
					},
				},
			},
			Transport: s.server.Client(),
			Retry:     policy.RetryOptions{MaxRetries: -1},
		},
		DisableRPRegistration: true,
	})
	s.Require().NoError(err)
	s.client = client

	s.scope = models.Scope{
		SubscriptionID:     "sub-1",
		ResourceGroup:      "rg1",
		VaultName:          "vault-1",
		VaultResourceGroup: "vault-rg",
	}
	s.item = backup.SelectItems(s.scope, []models.VirtualMachine{{
		ID:       "/subscriptions/sub-1/resourceGroups/rg1/providers/Microsoft.Compute/virtualMachines/vm1",
		Name:     "vm1",
		Location: "eastus",
	}}, nil)[0]
}

func (s *BackupClientTestSuite) TearDownTest() {
	s.server.Close()
}

func (s *BackupClientTestSuite) handle(path string, h http.HandlerFunc) {
	s.routes[path] = h
}

func (s *BackupClientTestSuite) itemPath() string {
	return fabricPath + "/protectionContainers/iaasvmcontainer;iaasvmcontainerv2;rg1;vm1" +
		"/protectedItems/vm;iaasvmcontainerv2;rg1;vm1"
}

func (s *BackupClientTestSuite) TestSubmit() {
	var body map[string]interface{}
	s.handle(s.itemPath(), func(w http.ResponseWriter, r *http.Request) {
		s.Equal(http.MethodPut, r.Method)
		s.Equal(RecoveryServicesAPIVersion, r.URL.Query().Get("api-version"))
		s.True(strings.HasPrefix(r.Header.Get("Authorization"), "Bearer "))
		s.NoError(json.NewDecoder(r.Body).Decode(&body))

		w.Header().Set("Azure-AsyncOperation", s.server.URL+s.itemPath()+"/operationsStatus/op-1")
		w.Header().Set("Retry-After", "15")
		w.WriteHeader(http.StatusAccepted)
	})

	sub, err := s.client.Submit(context.Background(), s.scope, s.item)

	s.Require().NoError(err)
	s.Equal(http.StatusAccepted, sub.StatusCode)
	h, err := lro.Locate(sub.Header)
	s.Require().NoError(err)
	s.Equal("op-1", h.ID)
	s.Equal(15*time.Second, h.RetryAfter)

	props := body["properties"].(map[string]interface{})
	s.Equal("eastus", body["location"])
	s.Equal("AzureIaasVM", props["backupManagementType"])
	s.Equal("VM", props["workloadType"])
	s.Equal("iaasvmcontainer;iaasvmcontainerv2;rg1;vm1", props["containerName"])
	s.Equal(s.item.VM.ID, props["sourceResourceId"])
	s.Equal(backup.DefaultPolicyID("sub-1", "vault-rg", "vault-1"), props["policyId"])
	s.Equal("DefaultPolicy", props["policyName"])
}

func (s *BackupClientTestSuite) TestSubmitError() {
	s.handle(s.itemPath(), func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"code":"AuthorizationFailed","message":"denied"}}`))
	})

	_, err := s.client.Submit(context.Background(), s.scope, s.item)

	s.Require().Error(err)
	s.Contains(err.Error(), "not authorized")
}

func (s *BackupClientTestSuite) TestOperationStatus() {
	s.handle(s.itemPath()+"/operationsStatus/op-1", func(w http.ResponseWriter, r *http.Request) {
		s.Equal(http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"op-1","name":"op-1","status":"InProgress"}`))
	})

	status, err := s.client.OperationStatus(context.Background(), s.scope, s.item, "op-1")

	s.Require().NoError(err)
	s.Equal(lro.StatusInProgress, status)
}

func (s *BackupClientTestSuite) TestOperationResult() {
	s.handle(s.itemPath()+"/operationResults/op-1", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "/protectedItems/vm;iaasvmcontainerv2;rg1;vm1",
			"name": "vm;iaasvmcontainerv2;rg1;vm1",
			"properties": {
				"friendlyName": "vm1",
				"protectionState": "IRPending",
				"protectionStatus": "Healthy",
				"healthStatus": "Passed",
				"policyId": "/policies/DefaultPolicy"
			}
		}`))
	})

	item, err := s.client.OperationResult(context.Background(), s.scope, s.item, "op-1")

	s.Require().NoError(err)
	s.Equal(&models.ProtectedItem{
		ID:               "/protectedItems/vm;iaasvmcontainerv2;rg1;vm1",
		Name:             "vm;iaasvmcontainerv2;rg1;vm1",
		FriendlyName:     "vm1",
		ProtectionState:  "IRPending",
		ProtectionStatus: "Healthy",
		HealthStatus:     "Passed",
		PolicyID:         "/policies/DefaultPolicy",
	}, item)
}

func (s *BackupClientTestSuite) TestOperationResultNotReady() {
	s.handle(s.itemPath()+"/operationResults/op-1", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	})

	item, err := s.client.OperationResult(context.Background(), s.scope, s.item, "op-1")

	s.Error(err)
	s.Nil(item)
}

func (s *BackupClientTestSuite) TestRefresh() {
	s.handle(fabricPath+"/refreshContainers", func(w http.ResponseWriter, r *http.Request) {
		s.Equal(http.MethodPost, r.Method)
		w.Header().Set("Location", s.server.URL+fabricPath+"/operationResults/refresh-1")
		w.WriteHeader(http.StatusAccepted)
	})
	calls := 0
	s.handle(fabricPath+"/operationResults/refresh-1", func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 2 {
			w.WriteHeader(http.StatusAccepted)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	err := backup.RefreshVault(context.Background(), s.client, s.scope,
		lro.WithSleep(func(ctx context.Context, _ time.Duration) error { return nil }))

	s.Require().NoError(err)
	s.Equal(2, calls)
}

func TestBackupClient_VaultGroupFallsBack(t *testing.T) {
	c := &BackupClient{}
	path := c.vaultPath(models.Scope{SubscriptionID: "sub-1", ResourceGroup: "rg1", VaultName: "v"})

	assert.Equal(t, "/subscriptions/sub-1/resourceGroups/rg1/providers/Microsoft.RecoveryServices/vaults/v", path)
	require.NotContains(t, path, "//")
}
