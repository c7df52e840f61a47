package reconcile_test

import (
	"math"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/warp/caixa/reconcile"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func randomList(r *rand.Rand) []float64 {
	n := r.Intn(12)
	out := make([]float64, n)
	for i := range out {
		out[i] = math.Round(r.Float64()*50000) / 100
	}
	return out
}

func randomState(r *rand.Rand) reconcile.State {
	return reconcile.State{
		Notes:       randomList(r),
		Coins:       randomList(r),
		Withdrawals: randomList(r),
		Safe:        randomList(r),
	}
}

// =============================================================================
// COMPUTE TESTS
// =============================================================================

func TestCompute_EmptyState_AllZero(t *testing.T) {
	totals := reconcile.Compute(reconcile.EmptyState())
	assert.Equal(t, reconcile.Totals{}, totals)
}

func TestCompute_NilLists_AllZero(t *testing.T) {
	totals := reconcile.Compute(reconcile.State{})
	assert.Zero(t, totals.FinalResult)
	assert.Zero(t, totals.SuggestedAdjustment)
}

func TestCompute_ShiftClose(t *testing.T) {
	// GIVEN: 30 in notes, 5 withdrawn during the shift, 15 sent to the safe
	s := reconcile.State{
		Notes:       []float64{10, 20},
		Withdrawals: []float64{5},
		Safe:        []float64{15},
	}

	totals := reconcile.Compute(s)

	assert.Equal(t, 30.0, totals.TotalNotes)
	assert.Equal(t, 30.0, totals.CashSubtotal)
	assert.Equal(t, 35.0, totals.GrandTotal)
	assert.Equal(t, 20.0, totals.FinalResult)
	assert.Equal(t, 10.0, totals.SuggestedAdjustment)
}

func TestCompute_DuplicatesAreSeparateEntries(t *testing.T) {
	totals := reconcile.Compute(reconcile.State{Notes: []float64{10, 10, 10}})
	assert.Equal(t, 30.0, totals.TotalNotes)
}

func TestCompute_AdjustmentIdentity(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for i := 0; i < 500; i++ {
		s := randomState(r)
		totals := reconcile.Compute(s)

		assert.Equal(t, totals.CashSubtotal-totals.FinalResult, totals.SuggestedAdjustment)
		assert.InDelta(t, totals.TotalSafe-totals.TotalWithdrawals, totals.SuggestedAdjustment, 1e-6,
			"adjustment should reduce to safe - withdrawals for %+v", s)
	}
}

func TestSum(t *testing.T) {
	assert.Zero(t, reconcile.Sum(nil))
	assert.Equal(t, 0.30000000000000004, reconcile.Sum([]float64{0.1, 0.2}), "no rounding mid-computation")
}

func TestTotals_Total(t *testing.T) {
	totals := reconcile.Compute(reconcile.State{
		Notes: []float64{1}, Coins: []float64{2}, Withdrawals: []float64{3}, Safe: []float64{4},
	})
	assert.Equal(t, 1.0, totals.Total(reconcile.Notes))
	assert.Equal(t, 2.0, totals.Total(reconcile.Coins))
	assert.Equal(t, 3.0, totals.Total(reconcile.Withdrawals))
	assert.Equal(t, 4.0, totals.Total(reconcile.Safe))
	assert.Zero(t, totals.Total("troco"))
}

func TestParseCategory(t *testing.T) {
	c, err := reconcile.ParseCategory("sangria")
	assert.NoError(t, err)
	assert.Equal(t, reconcile.Withdrawals, c)

	_, err = reconcile.ParseCategory("troco")
	assert.ErrorIs(t, err, reconcile.ErrUnknownCategory)
	assert.True(t, reconcile.IsClientError(err))
}

func TestFormatBRL(t *testing.T) {
	assert.Equal(t, "R$1.234,50", reconcile.FormatBRL(1234.5))
	assert.Equal(t, "R$0,30", reconcile.FormatBRL(0.1+0.2))
	assert.Equal(t, "R$0,00", reconcile.FormatBRL(0))
	assert.Equal(t, "-R$12,00", reconcile.FormatBRL(-12))
}

func TestFormatBRL_NeverPanics(t *testing.T) {
	assert.Equal(t, "R$∞", reconcile.FormatBRL(math.Inf(1)))
	assert.Equal(t, "-R$∞", reconcile.FormatBRL(math.Inf(-1)))
	assert.Equal(t, reconcile.NotANumber, reconcile.FormatBRL(math.NaN()))
}

func TestFormatBRL_BeyondMinorUnitRange(t *testing.T) {
	// 1e17 reais is 1e19 centavos, past int64.
	assert.Equal(t, "R$100.000.000.000.000.000,00", reconcile.FormatBRL(1e17))
	assert.Equal(t, "-R$100.000.000.000.000.000,00", reconcile.FormatBRL(-1e17))

	huge := reconcile.FormatBRL(1e300)
	assert.True(t, strings.HasPrefix(huge, "R$1.000.000."), huge)
	assert.True(t, strings.HasSuffix(huge, ".000,00"), huge)
	assert.Len(t, strings.ReplaceAll(strings.TrimPrefix(huge, "R$"), ".", ""), 301+3)

	// Largest amounts money.Money still holds keep the plain path.
	assert.Equal(t, "R$1.000.000.000.000,00", reconcile.FormatBRL(1e12))
}

func TestTotals_Finite(t *testing.T) {
	assert.True(t, reconcile.Compute(reconcile.State{Notes: []float64{1e308}}).Finite())
	assert.False(t, reconcile.Compute(reconcile.State{Notes: []float64{1e308}, Coins: []float64{1e308}}).Finite())
}
