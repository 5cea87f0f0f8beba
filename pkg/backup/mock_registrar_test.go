package backup

import (
	"context"
	"net/http"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/wbuck/azvm-manager/pkg/lro"
	"github.com/wbuck/azvm-manager/pkg/models"
)

type MockRegistrar struct {
	mock.Mock
}

func (m *MockRegistrar) Submit(ctx context.Context, scope models.Scope, item Item) (lro.Submission, error) {
	args := m.Called(ctx, scope, item)
	return args.Get(0).(lro.Submission), args.Error(1)
}

func (m *MockRegistrar) OperationStatus(
	ctx context.Context,
	scope models.Scope,
	item Item,
	operationID string,
) (lro.Status, error) {
	args := m.Called(ctx, scope, item, operationID)
	return args.Get(0).(lro.Status), args.Error(1)
}

func (m *MockRegistrar) OperationResult(
	ctx context.Context,
	scope models.Scope,
	item Item,
	operationID string,
) (*models.ProtectedItem, error) {
	args := m.Called(ctx, scope, item, operationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ProtectedItem), args.Error(1)
}

type MockRefresher struct {
	mock.Mock
}

func (m *MockRefresher) SubmitRefresh(ctx context.Context, scope models.Scope) (lro.Submission, error) {
	args := m.Called(ctx, scope)
	return args.Get(0).(lro.Submission), args.Error(1)
}

func (m *MockRefresher) RefreshResult(ctx context.Context, scope models.Scope, operationID string) (int, error) {
	args := m.Called(ctx, scope, operationID)
	return args.Int(0), args.Error(1)
}

// accepted builds a 202 response whose handle ends in operationID.
func accepted(operationID string) lro.Submission {
	h := http.Header{}
	h.Set(lro.HeaderAsyncOperation,
		"https://management.azure.com/subscriptions/sub/providers/Microsoft.RecoveryServices/operationsStatus/"+operationID)
	h.Set(lro.HeaderRetryAfter, "10")
	return lro.Submission{StatusCode: http.StatusAccepted, Header: h}
}

func forVM(name string) interface{} {
	return mock.MatchedBy(func(item Item) bool { return item.VM.Name == name })
}

func noSleep(ctx context.Context, _ time.Duration) error {
	return ctx.Err()
}

func testPollOptions() []lro.Option {
	return []lro.Option{lro.WithSleep(noSleep)}
}
