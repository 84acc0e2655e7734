package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/tradeups-go/internal/infrastructure/database"
)

// NewMigrateCommand creates the migrate command
func NewMigrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			db, err := database.NewConnection(&cfg.Database)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer database.Close(db)

			if err := database.AutoMigrate(db); err != nil {
				return fmt.Errorf("failed to migrate: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "✓ %s schema is up to date\n", cfg.Database.Type)
			return nil
		},
	}

	return cmd
}
