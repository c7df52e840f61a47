package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/warp/caixa/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the terminal interface",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		o, store := openOrchestrator(ctx)
		if store != nil {
			defer store.Close()
		}

		return tui.Run(ctx, o, tui.WithCurrency(cfg.UI.Currency), tui.WithLogger(logger))
	},
}
