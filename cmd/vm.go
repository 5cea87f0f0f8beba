package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/wbuck/azvm-manager/pkg/convergence"
	"github.com/wbuck/azvm-manager/pkg/display"
	"github.com/wbuck/azvm-manager/pkg/models"
	"github.com/wbuck/azvm-manager/pkg/providers/azure"
	"github.com/wbuck/azvm-manager/pkg/table"
)

func (a *app) vmCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vm",
		Short: "Virtual machine commands",
	}
	cmd.AddCommand(
		a.vmGetCmd(),
		a.vmListCmd(),
		a.vmListAllCmd(),
		a.vmPowerCmd("start", "Start virtual machines and wait until they are running", "Starting", (*azure.VMService).Start),
		a.vmPowerCmd("stop", "Deallocate virtual machines and wait until they are stopped", "Stopping", (*azure.VMService).Stop),
	)
	return cmd
}

func (a *app) vmGetCmd() *cobra.Command {
	var sub, group, name, output string
	cmd := &cobra.Command{
		Use:   "get",
		Short: "Show one virtual machine with its power state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := display.ParseFormat(output)
			if err != nil {
				return err
			}
			scope, err := a.scope(sub, group)
			if err != nil {
				return err
			}
			client, err := a.client()
			if err != nil {
				return err
			}
			vm, err := client.GetVirtualMachine(cmd.Context(), scope.SubscriptionID, scope.ResourceGroup, name)
			if err != nil {
				return err
			}
			return printResult(cmd, format, vm, func(w io.Writer) display.Renderer {
				return table.NewVMTable(w, []models.VirtualMachine{vm}, false)
			})
		},
	}
	cmd.Flags().StringVarP(&name, "name", "n", "", "Virtual machine name")
	_ = cmd.MarkFlagRequired("name")
	addScopeFlags(cmd.Flags(), &sub, &group)
	addOutputFlag(cmd.Flags(), &output)
	return cmd
}

func (a *app) vmListCmd() *cobra.Command {
	var sub, group, output string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the virtual machines of a resource group",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := display.ParseFormat(output)
			if err != nil {
				return err
			}
			scope, err := a.scope(sub, group)
			if err != nil {
				return err
			}
			client, err := a.client()
			if err != nil {
				return err
			}
			vms, err := client.ListVirtualMachines(cmd.Context(), scope.SubscriptionID, scope.ResourceGroup)
			if err != nil {
				return err
			}
			return printVMs(cmd, format, vms, false)
		},
	}
	addScopeFlags(cmd.Flags(), &sub, &group)
	addOutputFlag(cmd.Flags(), &output)
	return cmd
}

func (a *app) vmListAllCmd() *cobra.Command {
	var sub, output string
	var graph bool
	cmd := &cobra.Command{
		Use:   "list-all",
		Short: "List every virtual machine of a subscription",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := display.ParseFormat(output)
			if err != nil {
				return err
			}
			subID, err := a.cfg.Subscription(sub)
			if err != nil {
				return err
			}
			client, err := a.client()
			if err != nil {
				return err
			}
			var vms []models.VirtualMachine
			if graph {
				vms, err = client.SearchVirtualMachines(cmd.Context(), subID, "")
			} else {
				vms, err = client.ListAllVirtualMachines(cmd.Context(), subID)
			}
			if err != nil {
				return err
			}
			return printVMs(cmd, format, vms, true)
		},
	}
	cmd.Flags().BoolVar(&graph, "graph", false, "Query Azure Resource Graph instead of the compute API")
	addScopeFlags(cmd.Flags(), &sub, nil)
	addOutputFlag(cmd.Flags(), &output)
	return cmd
}

type powerFunc func(*azure.VMService, context.Context, models.Scope, []string) ([]models.VirtualMachine, error)

func (a *app) vmPowerCmd(use, short, verb string, run powerFunc) *cobra.Command {
	var sub, group, output string
	var names []string
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Long: short + `.

Without --names every virtual machine of the resource group is affected.`,
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
			client, err := a.client()
			if err != nil {
				return err
			}

			progress := display.NewProgress(cmd.ErrOrStderr(),
				fmt.Sprintf("%s virtual machines in %s", verb, scope.ResourceGroup), "virtual machines")
			svc := &azure.VMService{
				Client: client,
				Tracker: convergence.Tracker{
					Interval: a.cfg.Poll.StateInterval,
					Timeout:  a.cfg.Poll.Timeout,
					Progress: progress.Update,
				},
			}
			vms, err := run(svc, cmd.Context(), scope, names)
			progress.Stop("")
			if err != nil {
				return err
			}
			return printVMs(cmd, format, vms, false)
		},
	}
	cmd.Flags().StringSliceVarP(&names, "names", "n", nil, "Comma separated virtual machine names")
	addScopeFlags(cmd.Flags(), &sub, &group)
	addOutputFlag(cmd.Flags(), &output)
	return cmd
}

func printVMs(cmd *cobra.Command, format display.Format, vms []models.VirtualMachine, withGroup bool) error {
	return printResult(cmd, format, vms, func(w io.Writer) display.Renderer {
		return table.NewVMTable(w, vms, withGroup)
	})
}
