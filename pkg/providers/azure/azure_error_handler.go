package azure

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
)

// HandleAzureError turns well known Azure failures into user-friendly
// messages. Other errors are returned unchanged.
func HandleAzureError(err error) error {
	if err == nil {
		return nil
	}
	if strings.Contains(err.Error(), "OperationNotAllowed") &&
		strings.Contains(err.Error(), "exceeding approved Total Regional Cores quota") {
		return fmt.Errorf("Azure Quota Exceeded: The operation could not be completed as it would exceed the approved Total Regional Cores quota. Please request a quota increase for your subscription at https://aka.ms/ProdportalCRP/#blade/Microsoft_Azure_Capacity/UsageAndQuota.ReactView")
	}

	var respErr *azcore.ResponseError
	if !errors.As(err, &respErr) {
		return err
	}
	switch {
	case respErr.ErrorCode == "AuthorizationFailed" || respErr.StatusCode == http.StatusForbidden:
		return fmt.Errorf("not authorized for this operation, check the role assignments of the signed in account: %w", err)
	case respErr.ErrorCode == "SubscriptionNotFound" || respErr.ErrorCode == "InvalidSubscriptionId":
		return fmt.Errorf("subscription not found, check the id or run 'az login' with the right tenant: %w", err)
	case respErr.ErrorCode == "ResourceGroupNotFound":
		return fmt.Errorf("resource group not found: %w", err)
	case respErr.ErrorCode == "ResourceNotFound" || respErr.StatusCode == http.StatusNotFound:
		return fmt.Errorf("resource not found: %w", err)
	}
	return err
}
