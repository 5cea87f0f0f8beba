package backup

import (
	"context"

	"github.com/wbuck/azvm-manager/pkg/lro"
	"github.com/wbuck/azvm-manager/pkg/models"
)

// Registrar is the provider side of a protection registration.
type Registrar interface {
	// Submit requests protection for the item and returns the accepted
	// response so the operation handle can be located.
	Submit(ctx context.Context, scope models.Scope, item Item) (lro.Submission, error)
	OperationStatus(ctx context.Context, scope models.Scope, item Item, operationID string) (lro.Status, error)
	// OperationResult fetches the protected item produced by a finished
	// registration.
	OperationResult(ctx context.Context, scope models.Scope, item Item, operationID string) (*models.ProtectedItem, error)
}

// Refresher triggers discovery of new protectable VMs in a vault.
type Refresher interface {
	SubmitRefresh(ctx context.Context, scope models.Scope) (lro.Submission, error)
	// RefreshResult returns the status code of the refresh operation result
	// endpoint. 204 means discovery finished.
	RefreshResult(ctx context.Context, scope models.Scope, operationID string) (int, error)
}
