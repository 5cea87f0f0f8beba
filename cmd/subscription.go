package cmd

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/wbuck/azvm-manager/pkg/display"
	"github.com/wbuck/azvm-manager/pkg/models"
	"github.com/wbuck/azvm-manager/pkg/table"
)

func (a *app) subscriptionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "sub",
		Aliases: []string{"subscription"},
		Short:   "Subscription commands",
	}
	cmd.AddCommand(a.subscriptionGetCmd(), a.subscriptionListCmd())
	return cmd
}

func (a *app) subscriptionGetCmd() *cobra.Command {
	var id, output string
	cmd := &cobra.Command{
		Use:   "get",
		Short: "Show one subscription",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := display.ParseFormat(output)
			if err != nil {
				return err
			}
			subID, err := a.cfg.Subscription(id)
			if err != nil {
				return err
			}
			client, err := a.client()
			if err != nil {
				return err
			}
			sub, err := client.GetSubscription(cmd.Context(), subID)
			if err != nil {
				return err
			}
			return printResult(cmd, format, sub, func(w io.Writer) display.Renderer {
				return table.NewSubscriptionTable(w, []models.Subscription{sub})
			})
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "Subscription id (defaults to the stored subscription)")
	addOutputFlag(cmd.Flags(), &output)
	return cmd
}

func (a *app) subscriptionListCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the subscriptions visible to the signed in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := display.ParseFormat(output)
			if err != nil {
				return err
			}
			client, err := a.client()
			if err != nil {
				return err
			}
			subs, err := client.ListSubscriptions(cmd.Context())
			if err != nil {
				return err
			}
			return printResult(cmd, format, subs, func(w io.Writer) display.Renderer {
				return table.NewSubscriptionTable(w, subs)
			})
		},
	}
	addOutputFlag(cmd.Flags(), &output)
	return cmd
}
