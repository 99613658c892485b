package cli

import (
	"context"
	"fmt"

	"github.com/arigopay/backend/internal/config"
	"github.com/arigopay/backend/internal/database"
	"github.com/arigopay/backend/internal/logger"
	"github.com/spf13/cobra"
)

var migrateSteps int

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate [up|down]",
		Short: "Apply or roll back the postgres schema",
		Long: `Apply or roll back the embedded postgres migrations.

Examples:
  arigopay migrate up
  arigopay migrate down --steps 1`,
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down"},
		RunE:      runMigrate,
	}
	cmd.Flags().IntVar(&migrateSteps, "steps", 1, "Number of migrations to roll back with down")
	return cmd
}

func runMigrate(cmd *cobra.Command, args []string) error {
	direction := "up"
	if len(args) == 1 {
		direction = args[0]
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.Store.Driver != config.StoreDriverPostgres {
		return fmt.Errorf("migrations apply to the postgres store only (store.driver=%s)", cfg.Store.Driver)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	db, err := database.InitDB(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	if direction == "down" {
		if err := database.RollbackMigrations(db, migrateSteps); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Rolled back %d migration(s)\n", migrateSteps)
		return nil
	}

	if err := database.RunMigrations(db); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Migrations applied")
	return nil
}
