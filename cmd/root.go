package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/wbuck/azvm-manager/pkg/config"
	"github.com/wbuck/azvm-manager/pkg/logger"
)

var VersionNumber = "v0.1.0"

// app carries the state shared by every subcommand of one root command.
type app struct {
	cfgFile  string
	verbose  bool
	defaults config.Defaults

	v   *viper.Viper
	cfg *config.Config
}

// NewRootCmd builds the full command tree with its own viper instance.
func NewRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	rootCmd := &cobra.Command{
		Use:   "azvm",
		Short: "azvm manages Azure virtual machines and their backup protection",
		Long: `azvm lists subscriptions, resource groups and virtual machines, starts and
stops virtual machines and registers them with a Recovery Services vault,
waiting for every remote operation to finish.`,
		Version:           VersionNumber,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default is $HOME/.azvm.yaml)")
	flags.BoolVar(&a.verbose, "verbose", false, "Enable verbose output")
	flags.StringVar(&a.defaults.SubscriptionID, "set-sub", "", "Store a default subscription id")
	flags.StringVar(&a.defaults.ResourceGroup, "set-rg", "", "Store a default resource group")
	flags.StringVar(&a.defaults.VaultResourceGroup, "set-vault-rg", "", "Store a default vault resource group")
	flags.StringVar(&a.defaults.VaultName, "set-vault", "", "Store a default Recovery Services vault")

	rootCmd.AddCommand(
		a.subscriptionCmd(),
		a.resourceGroupCmd(),
		a.vmCmd(),
		a.recoveryCmd(),
	)

	return rootCmd
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if err := config.LoadDotEnv(".env"); err != nil {
		return err
	}
	if err := config.Init(a.v, a.cfgFile); err != nil {
		return err
	}

	if err := logger.Initialize(logger.Config{
		Level:         a.v.GetString(config.KeyLogLevel),
		FilePath:      a.v.GetString(config.KeyLogPath),
		Format:        a.v.GetString(config.KeyLogFormat),
		EnableConsole: a.verbose,
	}); err != nil {
		return err
	}

	if a.defaults != (config.Defaults{}) {
		path, err := config.SaveDefaults(a.v, a.defaults)
		if err != nil {
			return err
		}
		cmd.PrintErrf("Defaults saved to %s\n", path)
	}

	cfg, err := config.Load(a.v)
	if err != nil {
		return err
	}
	a.cfg = cfg

	l := logger.Get()
	l.Debugf("Running %s", cmd.CommandPath())
	cmd.SetContext(logger.IntoContext(cmd.Context(), l))
	return nil
}

// Execute runs the root command until it finishes or the process is
// interrupted. Interrupting stops local waiting only.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer logger.Sync()

	var err error
	logger.RecoverAndLog(func() {
		err = NewRootCmd().ExecuteContext(ctx)
	})
	if err != nil {
		return fmt.Errorf("azvm: %w", err)
	}
	return nil
}
