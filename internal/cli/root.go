package cli

import (
	"fmt"
	"os"

	"github.com/arigopay/backend/internal/config"
	"github.com/arigopay/backend/internal/logger"
	"github.com/spf13/cobra"
)

var (
	configFile string
	rootCmd    *cobra.Command
)

func init() {
	rootCmd = &cobra.Command{
		Use:   "arigopay",
		Short: "Arigo Pay settlement backend",
		Long: `Arigo Pay receives Paystack webhooks, verifies their signature and settles
charge.success and transfer.success events against user balances exactly once.`,
		RunE:          runServe, // Default action is serve
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", ".env", "Path to the env-format config file")
}

// Execute runs the root command
func Execute(version string) error {
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newMigrateCmd())
	rootCmd.AddCommand(newSignCmd())

	rootCmd.Version = version
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

// loadConfig reads configuration and initializes the global logger.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}
	if err := logger.Init(cfg.Log.Level, cfg.Log.Encoding); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, nil
}
