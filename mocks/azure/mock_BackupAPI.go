package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/wbuck/azvm-manager/pkg/backup"
	"github.com/wbuck/azvm-manager/pkg/lro"
	"github.com/wbuck/azvm-manager/pkg/models"
	"github.com/wbuck/azvm-manager/pkg/providers/azure"
)

var _ azure.BackupAPI = (*MockBackupAPI)(nil)

type MockBackupAPI struct {
	mock.Mock
}

func (m *MockBackupAPI) Submit(ctx context.Context, scope models.Scope, item backup.Item) (lro.Submission, error) {
	args := m.Called(ctx, scope, item)
	return args.Get(0).(lro.Submission), args.Error(1)
}

func (m *MockBackupAPI) OperationStatus(
	ctx context.Context,
	scope models.Scope,
	item backup.Item,
	operationID string,
) (lro.Status, error) {
	args := m.Called(ctx, scope, item, operationID)
	return args.Get(0).(lro.Status), args.Error(1)
}

func (m *MockBackupAPI) OperationResult(
	ctx context.Context,
	scope models.Scope,
	item backup.Item,
	operationID string,
) (*models.ProtectedItem, error) {
	args := m.Called(ctx, scope, item, operationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ProtectedItem), args.Error(1)
}

func (m *MockBackupAPI) SubmitRefresh(ctx context.Context, scope models.Scope) (lro.Submission, error) {
	args := m.Called(ctx, scope)
	return args.Get(0).(lro.Submission), args.Error(1)
}

func (m *MockBackupAPI) RefreshResult(ctx context.Context, scope models.Scope, operationID string) (int, error) {
	args := m.Called(ctx, scope, operationID)
	return args.Int(0), args.Error(1)
}
