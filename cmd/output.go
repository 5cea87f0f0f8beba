package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/wbuck/azvm-manager/pkg/display"
	"github.com/wbuck/azvm-manager/pkg/models"
	"github.com/wbuck/azvm-manager/pkg/providers/azure"
)

func addOutputFlag(flags *pflag.FlagSet, output *string) {
	flags.StringVarP(output, "output", "o", string(display.FormatTable), "Output format: table, json or yaml")
}

func addScopeFlags(flags *pflag.FlagSet, sub, group *string) {
	flags.StringVarP(sub, "sub", "s", "", "Subscription id (defaults to the stored subscription)")
	if group != nil {
		flags.StringVarP(group, "group", "g", "", "Resource group (defaults to the stored resource group)")
	}
}

func printResult(cmd *cobra.Command, format display.Format, v interface{}, table func(io.Writer) display.Renderer) error {
	return display.Print(cmd.OutOrStdout(), format, v, table)
}

func (a *app) client() (azure.Clienter, error) {
	return azure.NewClientFunc(a.cfg.Azure.Credential)
}

// scope resolves subscription and resource group from flags and stored
// defaults and rejects group names Azure would refuse.
func (a *app) scope(sub, group string) (models.Scope, error) {
	scope, err := a.cfg.Scope(sub, group)
	if err != nil {
		return models.Scope{}, err
	}
	if !azure.IsValidResourceGroupName(scope.ResourceGroup) {
		return models.Scope{}, fmt.Errorf("invalid resource group name %q", scope.ResourceGroup)
	}
	return scope, nil
}
