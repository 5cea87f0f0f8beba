package azure

import (
	"fmt"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
)

const (
	CredentialCLI     = "cli"
	CredentialDefault = "default"
)

// NewCredential returns the Azure CLI credential unless kind asks for the
// default credential chain.
func NewCredential(kind string) (azcore.TokenCredential, error) {
	var (
		cred azcore.TokenCredential
		err  error
	)
	switch strings.ToLower(kind) {
	case "", CredentialCLI:
		cred, err = azidentity.NewAzureCLICredential(nil)
	case CredentialDefault:
		cred, err = azidentity.NewDefaultAzureCredential(nil)
	default:
		return nil, fmt.Errorf("unknown azure credential %q, expected %q or %q", kind, CredentialCLI, CredentialDefault)
	}
	if err != nil {
		return nil, wrapAzureError(err)
	}
	return cred, nil
}

func wrapAzureError(err error) error {
	if err == nil {
		return nil
	}

	errMsg := err.Error()
	if strings.Contains(errMsg, "Failed to establish a new connection") {
		return fmt.Errorf("unable to connect to Azure. Please check your internet connection and try again: %w", err)
	}
	if strings.Contains(errMsg, "Max retries exceeded") {
		return fmt.Errorf("connection to Azure timed out. Please check your network and try again: %w", err)
	}
	if strings.Contains(errMsg, "Azure CLI not found on path") {
		return fmt.Errorf("Azure CLI not found. Please install it and run 'az login': %w", err)
	}
	return fmt.Errorf("an error occurred while connecting to Azure: %w", err)
}
