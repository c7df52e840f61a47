package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/warp/caixa/reconcile"
)

var totalsCmd = &cobra.Command{
	Use:   "totals",
	Short: "Print the totals of the stored reconciliation",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		o, store := openOrchestrator(ctx)
		if store != nil {
			defer store.Close()
		}

		printTotals(cmd.OutOrStdout(), o.Snapshot(), cfg.UI.Currency)
		return nil
	},
}

func printTotals(w io.Writer, snap reconcile.Snapshot, currency string) {
	f := func(v float64) string { return reconcile.FormatAmount(v, currency) }
	t := snap.Totals

	for _, c := range reconcile.Categories {
		fmt.Fprintf(w, "%-16s %3d  %14s\n", c.Label(), len(snap.State.List(c)), f(t.Total(c)))
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%-21s %14s\n", "Vale moeda", f(t.CashSubtotal))
	fmt.Fprintf(w, "%-21s %14s\n", "Total", f(t.GrandTotal))
	fmt.Fprintf(w, "%-21s %14s\n", "Resultado final", f(t.FinalResult))
	fmt.Fprintf(w, "%-21s %14s\n", "Ajuste sugerido", f(t.SuggestedAdjustment))
}
