package cmd

import (
	"fmt"
	"log"

	"gamerx/internal/config"
	"gamerx/internal/database"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		db, err := database.NewConnection(cfg.DB)
		if err != nil {
			return fmt.Errorf("database connection failed: %w", err)
		}
		if err := database.Migrate(db); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		log.Println("Database migrated successfully.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
