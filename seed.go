package main

import (
	"github.com/spf13/cobra"

	"guesthouse-backend/config"
)

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert demo data into an empty database",
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
			return config.SeedDatabase(db)
		},
	}
}
