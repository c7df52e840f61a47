/*
engine.go - Totals computation

PURPOSE:
  Derives every reconciliation figure from the four lists. Pure functions,
  no I/O, plain float64 arithmetic. Rounding belongs to the display layer.

FORMULAS:
  vale moeda      = notas + moedas
  total           = vale moeda + sangria
  resultado final = total - cofre
  ajuste sugerido = vale moeda - resultado final   (= cofre - sangria)

SEE ALSO:
  - types.go: State and Totals
  - orchestrator.go: Calls Compute after every mutation
*/
package reconcile

// Sum adds the values left to right. An empty list sums to zero.
func Sum(values []float64) float64 {
	var total float64
	for _, v := range values {
		total += v
	}
	return total
}

// Compute derives Totals from a State.
func Compute(s State) Totals {
	t := Totals{
		TotalNotes:       Sum(s.Notes),
		TotalCoins:       Sum(s.Coins),
		TotalWithdrawals: Sum(s.Withdrawals),
		TotalSafe:        Sum(s.Safe),
	}
	t.CashSubtotal = t.TotalNotes + t.TotalCoins
	t.GrandTotal = t.CashSubtotal + t.TotalWithdrawals
	t.FinalResult = t.GrandTotal - t.TotalSafe
	t.SuggestedAdjustment = t.CashSubtotal - t.FinalResult
	return t
}

// checkTotals fails when the totals of s do not fit in a float64.
func checkTotals(s State) error {
	if !Compute(s).Finite() {
		return ErrTotalOverflow
	}
	return nil
}
