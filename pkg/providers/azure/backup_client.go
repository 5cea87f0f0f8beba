package azure

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/arm"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
	"github.com/wbuck/azvm-manager/pkg/backup"
	"github.com/wbuck/azvm-manager/pkg/logger"
	"github.com/wbuck/azvm-manager/pkg/lro"
	"github.com/wbuck/azvm-manager/pkg/models"
)

const (
	backupModuleName    = "azvm/recoveryservicesbackup"
	backupModuleVersion = "v1.0.0"

	// RecoveryServicesAPIVersion is the Recovery Services backup REST API
	// version every request is sent with.
	RecoveryServicesAPIVersion = "2023-04-01"
)

// BackupAPI is the Recovery Services surface the recovery commands use.
type BackupAPI interface {
	backup.Registrar
	backup.Refresher
}

// BackupClient talks to the Recovery Services backup REST API through the
// ARM pipeline. It hands raw status codes and headers back so the
// operation handles can be located and polled by the caller.
type BackupClient struct {
	client *arm.Client
}

var _ BackupAPI = (*BackupClient)(nil)

// NewBackupClientFunc is swapped out by command tests.
var NewBackupClientFunc = func(credential string) (BackupAPI, error) {
	cred, err := NewCredential(credential)
	if err != nil {
		return nil, err
	}
	return NewBackupClient(cred, nil)
}

func NewBackupClient(cred azcore.TokenCredential, options *arm.ClientOptions) (*BackupClient, error) {
	client, err := arm.NewClient(backupModuleName, backupModuleVersion, cred, options)
	if err != nil {
		return nil, fmt.Errorf("failed to create recovery services client: %w", err)
	}
	return &BackupClient{client: client}, nil
}

type protectedItemRequest struct {
	Location   string                  `json:"location,omitempty"`
	Properties protectedItemProperties `json:"properties"`
}

type protectedItemProperties struct {
	ProtectedItemType    string `json:"protectedItemType"`
	BackupManagementType string `json:"backupManagementType"`
	WorkloadType         string `json:"workloadType"`
	ContainerName        string `json:"containerName"`
	SourceResourceID     string `json:"sourceResourceId"`
	PolicyID             string `json:"policyId"`
	PolicyName           string `json:"policyName"`
}

type operationStatusResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
	Error  *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

type protectedItemResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Properties struct {
		FriendlyName     string `json:"friendlyName"`
		ProtectionState  string `json:"protectionState"`
		ProtectionStatus string `json:"protectionStatus"`
		HealthStatus     string `json:"healthStatus"`
		PolicyID         string `json:"policyId"`
	} `json:"properties"`
}

// Submit puts a protected item for the VM using the vault's default policy.
func (c *BackupClient) Submit(ctx context.Context, scope models.Scope, item backup.Item) (lro.Submission, error) {
	body := protectedItemRequest{
		Location: item.VM.Location,
		Properties: protectedItemProperties{
			ProtectedItemType:    models.AzureResourceTypeVM.ResourceString,
			BackupManagementType: "AzureIaasVM",
			WorkloadType:         "VM",
			ContainerName:        item.Container,
			SourceResourceID:     item.VM.ID,
			PolicyID:             item.PolicyID,
			PolicyName:           backup.DefaultPolicyName,
		},
	}
	resp, err := c.do(ctx, http.MethodPut, c.protectedItemPath(scope, item), body, http.StatusOK, http.StatusAccepted)
	if err != nil {
		return lro.Submission{}, err
	}
	return lro.Submission{StatusCode: resp.StatusCode, Header: resp.Header}, nil
}

func (c *BackupClient) OperationStatus(
	ctx context.Context,
	scope models.Scope,
	item backup.Item,
	operationID string,
) (lro.Status, error) {
	path := c.protectedItemPath(scope, item) + "/operationsStatus/" + url.PathEscape(operationID)
	resp, err := c.do(ctx, http.MethodGet, path, nil, http.StatusOK)
	if err != nil {
		return lro.StatusNone, err
	}
	var op operationStatusResponse
	if err := runtime.UnmarshalAsJSON(resp, &op); err != nil {
		return lro.StatusNone, fmt.Errorf("failed to decode operation status: %w", err)
	}
	if op.Error != nil && op.Error.Message != "" {
		logger.Get().Debugf("Operation %s reported %s: %s", operationID, op.Error.Code, op.Error.Message)
	}
	return lro.ParseStatus(op.Status), nil
}

func (c *BackupClient) OperationResult(
	ctx context.Context,
	scope models.Scope,
	item backup.Item,
	operationID string,
) (*models.ProtectedItem, error) {
	path := c.protectedItemPath(scope, item) + "/operationResults/" + url.PathEscape(operationID)
	resp, err := c.do(ctx, http.MethodGet, path, nil, http.StatusOK, http.StatusAccepted, http.StatusNoContent)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("operation result for %s not available yet (status %d)", item.VM.Name, resp.StatusCode)
	}
	var pi protectedItemResponse
	if err := runtime.UnmarshalAsJSON(resp, &pi); err != nil {
		return nil, fmt.Errorf("failed to decode protected item: %w", err)
	}
	return &models.ProtectedItem{
		ID:               pi.ID,
		Name:             pi.Name,
		FriendlyName:     pi.Properties.FriendlyName,
		ProtectionState:  pi.Properties.ProtectionState,
		ProtectionStatus: pi.Properties.ProtectionStatus,
		HealthStatus:     pi.Properties.HealthStatus,
		PolicyID:         pi.Properties.PolicyID,
	}, nil
}

// SubmitRefresh asks the vault to discover protectable VMs.
func (c *BackupClient) SubmitRefresh(ctx context.Context, scope models.Scope) (lro.Submission, error) {
	path := c.fabricPath(scope) + "/refreshContainers"
	resp, err := c.do(ctx, http.MethodPost, path, nil, http.StatusAccepted)
	if err != nil {
		return lro.Submission{}, err
	}
	return lro.Submission{StatusCode: resp.StatusCode, Header: resp.Header}, nil
}

func (c *BackupClient) RefreshResult(ctx context.Context, scope models.Scope, operationID string) (int, error) {
	path := c.fabricPath(scope) + "/operationResults/" + url.PathEscape(operationID)
	resp, err := c.do(ctx, http.MethodGet, path, nil, http.StatusOK, http.StatusAccepted, http.StatusNoContent)
	if err != nil {
		return 0, err
	}
	return resp.StatusCode, nil
}

func (c *BackupClient) do(
	ctx context.Context,
	method, path string,
	body interface{},
	statusCodes ...int,
) (*http.Response, error) {
	req, err := runtime.NewRequest(ctx, method, runtime.JoinPaths(c.client.Endpoint(), path))
	if err != nil {
		return nil, err
	}
	reqQP := req.Raw().URL.Query()
	reqQP.Set("api-version", RecoveryServicesAPIVersion)
	req.Raw().URL.RawQuery = reqQP.Encode()
	req.Raw().Header["Accept"] = []string{"application/json"}
	if body != nil {
		if err := runtime.MarshalAsJSON(req, body); err != nil {
			return nil, err
		}
	}

	logger.LogAzureAPIStart(method + " " + path)
	resp, err := c.client.Pipeline().Do(req)
	logger.LogAzureAPIEnd(method+" "+path, err)
	if err != nil {
		return nil, err
	}
	if !runtime.HasStatusCode(resp, statusCodes...) {
		return nil, HandleAzureError(runtime.NewResponseError(resp))
	}
	return resp, nil
}

func (c *BackupClient) vaultPath(scope models.Scope) string {
	group := scope.VaultResourceGroup
	if group == "" {
		group = scope.ResourceGroup
	}
	return "/subscriptions/" + url.PathEscape(scope.SubscriptionID) +
		"/resourceGroups/" + url.PathEscape(group) +
		"/providers/" + models.AzureResourceTypeVault.ResourceString + "/" + url.PathEscape(scope.VaultName)
}

func (c *BackupClient) fabricPath(scope models.Scope) string {
	return c.vaultPath(scope) + "/backupFabrics/" + backup.FabricName
}

func (c *BackupClient) protectedItemPath(scope models.Scope, item backup.Item) string {
	return c.fabricPath(scope) +
		"/protectionContainers/" + url.PathEscape(item.Container) +
		"/protectedItems/" + url.PathEscape(item.ProtectedItem)
}
