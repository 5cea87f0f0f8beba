package backup

import (
	"context"
	"fmt"

	"github.com/wbuck/azvm-manager/pkg/lro"
	"github.com/wbuck/azvm-manager/pkg/models"
)

// RefreshVault asks the vault to rediscover protectable VMs and waits until
// the refresh operation finishes. VMs created since the last discovery
// cannot be registered before this has run.
func RefreshVault(ctx context.Context, r Refresher, scope models.Scope, opts ...lro.Option) error {
	sub, err := r.SubmitRefresh(ctx, scope)
	if err != nil {
		return fmt.Errorf("failed to refresh vault %s: %w", scope.VaultName, err)
	}
	h, err := lro.Locate(sub.Header)
	if err != nil {
		return fmt.Errorf("failed to locate refresh operation for vault %s: %w", scope.VaultName, err)
	}
	err = lro.PollUntilNoContent(ctx, h, func(ctx context.Context, id string) (int, error) {
		return r.RefreshResult(ctx, scope, id)
	}, opts...)
	if err != nil {
		return fmt.Errorf("failed waiting for refresh of vault %s: %w", scope.VaultName, err)
	}
	return nil
}
