package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"guesthouse-backend/config"
	"guesthouse-backend/services"
)

func quoteCmd() *cobra.Command {
	var (
		roomTypeID uint
		roomID     uint
		in         services.QuoteInput
	)
	cmd := &cobra.Command{
		Use:     "quote",
		Short:   "Print the price breakdown of a stay",
		Example: "  guesthouse quote --room-type 1 --check-in 2025-06-02 --check-out 2025-06-06 --guests 2",
		RunE: func(cmd *cobra.Command, args []string) error {
			if (roomTypeID == 0) == (roomID == 0) {
				return fmt.Errorf("exactly one of --room-type or --room is required")
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			db, err := config.Open(cfg)
			if err != nil {
				return err
			}
			svc := services.NewPricingService(db, cfg.Weekend)
			if in.Lang == "" {
				in.Lang = cfg.DefaultLanguage
			}

			var out interface{}
			if roomID != 0 {
				out, err = svc.QuoteRoom(context.Background(), roomID, in)
			} else {
				out, err = svc.QuoteRoomType(context.Background(), roomTypeID, in)
			}
			if err != nil {
				return err
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}
	cmd.Flags().UintVar(&roomTypeID, "room-type", 0, "room type id")
	cmd.Flags().UintVar(&roomID, "room", 0, "room id")
	cmd.Flags().StringVar(&in.CheckIn, "check-in", "", "check-in date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&in.CheckOut, "check-out", "", "check-out date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&in.GuestCount, "guests", 1, "guest count")
	cmd.Flags().StringVar(&in.Lang, "lang", "", "language for fee titles (hu, en, de)")
	_ = cmd.MarkFlagRequired("check-in")
	_ = cmd.MarkFlagRequired("check-out")
	return cmd
}
