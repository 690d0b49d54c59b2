package main

import (
	"log"

	"github.com/spf13/cobra"

	"guesthouse-backend/config"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			db, err := config.Open(cfg)
			if err != nil {
				return err
			}
			if err := config.Migrate(db); err != nil {
				return err
			}
			log.Println("✅ Migrations applied")
			return nil
		},
	}
}
