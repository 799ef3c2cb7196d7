package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/taskboard-api/database"
	"github.com/taskboard-api/logger"
	"go.uber.org/zap"
)

var MigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, db, cleanup, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()
		return database.Migrate(db)
	},
}

var (
	sourceURL    string
	sourceDriver string
	targetURL    string
	targetDriver string
)

var CopyDataCmd = &cobra.Command{
	Use:   "copy-data",
	Short: "Copy every row from one database into another",
	Long: `Migrate the target schema, then copy users, profiles, projects, tasks,
dependencies and memberships from the source database. Rows whose primary key
already exists in the target are skipped.

The URLs default to SOURCE_DATABASE_URL and TARGET_DATABASE_URL.`,
	Example: `  taskboard copy-data --source postgres://old/taskboard --target postgres://new/taskboard
  taskboard copy-data --source-driver sqlite --source file:dev.db --target $DATABASE_URL`,
	RunE: runCopyData,
}

func init() {
	CopyDataCmd.Flags().StringVar(&sourceURL, "source", os.Getenv("SOURCE_DATABASE_URL"), "Source database URL")
	CopyDataCmd.Flags().StringVar(&sourceDriver, "source-driver", "postgres", "Source driver (postgres or sqlite)")
	CopyDataCmd.Flags().StringVar(&targetURL, "target", os.Getenv("TARGET_DATABASE_URL"), "Target database URL")
	CopyDataCmd.Flags().StringVar(&targetDriver, "target-driver", "postgres", "Target driver (postgres or sqlite)")
}

func runCopyData(cmd *cobra.Command, args []string) error {
	if sourceURL == "" || targetURL == "" {
		return fmt.Errorf("both --source and --target are required")
	}

	log, err := logger.Init("info", "console")
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx := cmd.Context()
	source, err := database.Open(ctx, sourceDriver, sourceURL, false)
	if err != nil {
		return fmt.Errorf("source: %w", err)
	}
	defer database.Close(source)

	target, err := database.Open(ctx, targetDriver, targetURL, false)
	if err != nil {
		return fmt.Errorf("target: %w", err)
	}
	defer database.Close(target)

	if err := database.Migrate(target); err != nil {
		return err
	}
	if err := database.CopyData(source, target); err != nil {
		log.Error("data copy failed", zap.Error(err))
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Data copy completed successfully")
	return nil
}
