package cmd

import (
	"fmt"
	"io"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"

	"github.com/wbuck/azvm-manager/pkg/backup"
	"github.com/wbuck/azvm-manager/pkg/config"
	"github.com/wbuck/azvm-manager/pkg/display"
	"github.com/wbuck/azvm-manager/pkg/lro"
	"github.com/wbuck/azvm-manager/pkg/providers/azure"
	"github.com/wbuck/azvm-manager/pkg/table"
)

func (a *app) recoveryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recovery",
		Short: "Recovery Services commands",
	}
	cmd.AddCommand(a.recoveryBackupCmd())
	return cmd
}

func (a *app) recoveryBackupCmd() *cobra.Command {
	var sub, group, vaultName, vaultGroup, output string
	var names []string
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Protect virtual machines with the vault's default backup policy",
		Long: `Refresh the vault's view of the subscription, then register each selected
virtual machine for backup with DefaultPolicy and wait for every
registration to finish. Without --names every virtual machine of the
resource group is registered.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := display.ParseFormat(output)
			if err != nil {
				return err
			}
			scope, err := a.scope(sub, group)
			if err != nil {
				return err
			}
			if scope.VaultName, err = a.cfg.VaultName(vaultName); err != nil {
				return err
			}
			if scope.VaultResourceGroup, err = a.cfg.VaultResourceGroup(vaultGroup, scope.ResourceGroup); err != nil {
				return err
			}

			client, err := a.client()
			if err != nil {
				return err
			}
			backupClient, err := azure.NewBackupClientFunc(a.cfg.Azure.Credential)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			progress := display.NewProgress(cmd.ErrOrStderr(),
				fmt.Sprintf("Refreshing vault %s", scope.VaultName), "virtual machines")

			if err := backup.RefreshVault(ctx, backupClient, scope, pollOptions(a.cfg)...); err != nil {
				progress.Stop("")
				return err
			}

			progress.Message(fmt.Sprintf("Loading virtual machines in %s", scope.ResourceGroup))
			vms, err := client.ListVirtualMachineInventory(ctx, scope.SubscriptionID, scope.ResourceGroup)
			if err != nil {
				progress.Stop("")
				return err
			}

			progress.Message(fmt.Sprintf("Protecting virtual machines with %s", backup.DefaultPolicyName))
			orch := &backup.Orchestrator{
				Registrar:   backupClient,
				PollOptions: func() []lro.Option { return pollOptions(a.cfg) },
				Progress:    progress.Update,
				Label:       "Protected",
				Concurrency: a.cfg.Backup.Concurrency,
			}
			res, regErr := orch.Register(ctx, scope, vms, names)
			progress.Stop("")

			if err := printResult(cmd, format, res, func(w io.Writer) display.Renderer {
				return table.NewOutcomeTable(w, res.Outcomes)
			}); err != nil {
				return multierror.Append(err, regErr).ErrorOrNil()
			}
			if res.Total == 0 {
				display.Info(cmd.ErrOrStderr(), "No virtual machines selected")
				return regErr
			}
			display.Summary(cmd.ErrOrStderr(), res.Succeeded, res.Total, res.Summary())

			if regErr != nil {
				return fmt.Errorf("backup registration stopped after %d of %d virtual machines: %w",
					len(res.Outcomes), res.Total, regErr)
			}
			return res.Err()
		},
	}
	cmd.Flags().StringVar(&vaultName, "vault-name", "", "Recovery Services vault (defaults to the stored vault)")
	cmd.Flags().StringVar(&vaultGroup, "vault-group", "",
		"Resource group of the vault (defaults to the stored vault group, then the VM group)")
	cmd.Flags().StringSliceVarP(&names, "names", "n", nil, "Comma separated virtual machine names")
	addScopeFlags(cmd.Flags(), &sub, &group)
	addOutputFlag(cmd.Flags(), &output)
	return cmd
}

// pollOptions builds fresh poller options from config. Each call returns a
// new backoff so concurrent registrations do not share one.
func pollOptions(cfg *config.Config) []lro.Option {
	var opts []lro.Option
	if cfg.Poll.Timeout > 0 {
		opts = append(opts, lro.WithTimeout(cfg.Poll.Timeout))
	}
	if cfg.Poll.Backoff {
		opts = append(opts, lro.WithBackoff(lro.ExponentialBackoff(lro.DefaultRetryAfter, cfg.Poll.MaxInterval)))
	}
	return opts
}
