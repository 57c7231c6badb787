package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"credvault/internal/infrastructure/migration"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE: func(_ *cobra.Command, _ []string) error {
		if err := migration.NewMigration(cfg, migration.DefaultEngine).Up(); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}

		color.Green("migrations applied")
		return nil
	},
}
