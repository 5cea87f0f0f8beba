package backup

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/wbuck/azvm-manager/pkg/lro"
	"github.com/wbuck/azvm-manager/pkg/models"
)

func TestRefreshVault_WaitsForNoContent(t *testing.T) {
	scope := models.Scope{SubscriptionID: "sub-1", ResourceGroup: "rg1", VaultName: "vault-1"}
	r := new(MockRefresher)
	location := http.Header{}
	location.Set(lro.HeaderLocation,
		"https://management.azure.com/subscriptions/sub-1/backupFabrics/Azure/operationResults/refresh-1")
	r.On("SubmitRefresh", mock.Anything, scope).
		Return(lro.Submission{StatusCode: http.StatusAccepted, Header: location}, nil).Once()
	r.On("RefreshResult", mock.Anything, scope, "refresh-1").Return(http.StatusAccepted, nil).Twice()
	r.On("RefreshResult", mock.Anything, scope, "refresh-1").Return(http.StatusNoContent, nil).Once()

	err := RefreshVault(context.Background(), r, scope, testPollOptions()...)

	require.NoError(t, err)
	r.AssertExpectations(t)
}

func TestRefreshVault_MissingHandle(t *testing.T) {
	scope := models.Scope{VaultName: "vault-1"}
	r := new(MockRefresher)
	r.On("SubmitRefresh", mock.Anything, scope).
		Return(lro.Submission{StatusCode: http.StatusAccepted, Header: http.Header{}}, nil).Once()

	err := RefreshVault(context.Background(), r, scope, testPollOptions()...)

	assert.ErrorIs(t, err, lro.ErrMissingOperationHandle)
	r.AssertNotCalled(t, "RefreshResult", mock.Anything, mock.Anything, mock.Anything)
}

func TestRefreshVault_SubmitError(t *testing.T) {
	scope := models.Scope{VaultName: "vault-1"}
	r := new(MockRefresher)
	r.On("SubmitRefresh", mock.Anything, scope).Return(lro.Submission{}, errors.New("vault not found")).Once()

	err := RefreshVault(context.Background(), r, scope)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "vault-1")
}
