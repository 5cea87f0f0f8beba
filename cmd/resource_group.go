package cmd

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/wbuck/azvm-manager/pkg/display"
	"github.com/wbuck/azvm-manager/pkg/models"
	"github.com/wbuck/azvm-manager/pkg/table"
)

func (a *app) resourceGroupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "rg",
		Aliases: []string{"group"},
		Short:   "Resource group commands",
	}
	cmd.AddCommand(a.resourceGroupGetCmd(), a.resourceGroupListCmd())
	return cmd
}

func (a *app) resourceGroupGetCmd() *cobra.Command {
	var sub, group, output string
	cmd := &cobra.Command{
		Use:   "get",
		Short: "Show one resource group",
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
			rg, err := client.GetResourceGroup(cmd.Context(), scope.SubscriptionID, scope.ResourceGroup)
			if err != nil {
				return err
			}
			return printResult(cmd, format, rg, func(w io.Writer) display.Renderer {
				return table.NewResourceGroupTable(w, []models.ResourceGroup{rg})
			})
		},
	}
	addScopeFlags(cmd.Flags(), &sub, &group)
	addOutputFlag(cmd.Flags(), &output)
	return cmd
}

func (a *app) resourceGroupListCmd() *cobra.Command {
	var sub, output string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the resource groups of a subscription",
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
			groups, err := client.ListResourceGroups(cmd.Context(), subID)
			if err != nil {
				return err
			}
			return printResult(cmd, format, groups, func(w io.Writer) display.Renderer {
				return table.NewResourceGroupTable(w, groups)
			})
		},
	}
	addScopeFlags(cmd.Flags(), &sub, nil)
	addOutputFlag(cmd.Flags(), &output)
	return cmd
}
