package reconcile_test

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/warp/caixa/reconcile"
	"github.com/warp/caixa/reconcile/store"
)

// =============================================================================
// TEST SETUP
// =============================================================================

// recordingKV wraps a memory store and records the order of calls.
type recordingKV struct {
	*store.Memory
	calls  []string
	setErr error
}

func (r *recordingKV) Set(ctx context.Context, key, value string) error {
	r.calls = append(r.calls, "set")
	if r.setErr != nil {
		return r.setErr
	}
	return r.Memory.Set(ctx, key, value)
}

func newOrchestrator(t *testing.T) (*reconcile.Orchestrator, *store.Memory) {
	t.Helper()
	kv := store.NewMemory()
	o := reconcile.New(kv, reconcile.WithLogger(zap.NewNop()))
	o.Load(context.Background())
	return o, kv
}

// =============================================================================
// END-TO-END
// =============================================================================

func TestOrchestrator_ShiftCloseEndToEnd(t *testing.T) {
	ctx := context.Background()
	o, kv := newOrchestrator(t)

	require.True(t, o.Editor(reconcile.Notes).Add(ctx, "10"))
	require.True(t, o.Editor(reconcile.Notes).Add(ctx, "20"))
	require.True(t, o.Editor(reconcile.Withdrawals).Add(ctx, "5"))
	require.True(t, o.Editor(reconcile.Safe).Add(ctx, "15"))

	totals := o.Totals()
	assert.Equal(t, 30.0, totals.TotalNotes)
	assert.Equal(t, 30.0, totals.CashSubtotal)
	assert.Equal(t, 35.0, totals.GrandTotal)
	assert.Equal(t, 20.0, totals.FinalResult)
	assert.Equal(t, 10.0, totals.SuggestedAdjustment)

	raw, ok, err := kv.Get(ctx, reconcile.DefaultKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `{"notas":[10,20],"moedas":[],"sangria":[5],"cofre":[15]}`, raw)
}

// =============================================================================
// DERIVED STATE
// =============================================================================

func TestOrchestrator_NoDrift(t *testing.T) {
	// GIVEN: a long random sequence of valid adds and removes
	ctx := context.Background()
	o, _ := newOrchestrator(t)
	r := rand.New(rand.NewSource(7))

	for i := 0; i < 300; i++ {
		c := reconcile.Categories[r.Intn(len(reconcile.Categories))]
		ed := o.Editor(c)
		if r.Intn(3) == 0 && len(ed.Values()) > 0 {
			ed.Remove(ctx, r.Intn(len(ed.Values())))
		} else {
			ed.AddValue(ctx, math.Round(r.Float64()*10000)/100+0.01)
		}

		// THEN: observed totals always equal a from-scratch recomputation
		snap := o.Snapshot()
		assert.Equal(t, reconcile.Compute(snap.State), snap.Totals)
	}
}

func TestOrchestrator_RecomputeThenPersistThenNotify(t *testing.T) {
	ctx := context.Background()
	kv := &recordingKV{Memory: store.NewMemory()}
	o := reconcile.New(kv)

	o.Subscribe(func(s reconcile.Snapshot) {
		kv.calls = append(kv.calls, "notify")
		// Observers see totals that already match the new state.
		assert.Equal(t, reconcile.Compute(s.State), s.Totals)
		// Observers may read back from the orchestrator.
		assert.Equal(t, s.Totals, o.Totals())
	})

	_, err := o.Replace(ctx, reconcile.Coins, []float64{0.5, 0.25})
	require.NoError(t, err)

	assert.Equal(t, []string{"set", "notify"}, kv.calls)
}

func TestOrchestrator_ReplaceRejectsUnknownCategory(t *testing.T) {
	o, kv := newOrchestrator(t)
	writes := kv.Writes()

	_, err := o.Replace(context.Background(), "troco", []float64{1})

	assert.ErrorIs(t, err, reconcile.ErrUnknownCategory)
	assert.Equal(t, writes, kv.Writes(), "nothing persisted")
}

func TestOrchestrator_ReplaceRejectsInvalidValues(t *testing.T) {
	o, _ := newOrchestrator(t)

	for _, bad := range [][]float64{{-1}, {math.NaN()}, {math.Inf(1)}} {
		_, err := o.Replace(context.Background(), reconcile.Notes, bad)
		assert.ErrorIs(t, err, reconcile.ErrInvalidValue)
	}
	assert.Empty(t, o.List(reconcile.Notes))
}

func TestOrchestrator_ReplaceCopiesInput(t *testing.T) {
	o, _ := newOrchestrator(t)
	in := []float64{1, 2}

	_, err := o.Replace(context.Background(), reconcile.Notes, in)
	require.NoError(t, err)
	in[0] = 99

	assert.Equal(t, []float64{1, 2}, o.List(reconcile.Notes))
}

func TestOrchestrator_ResetAll(t *testing.T) {
	ctx := context.Background()
	o, kv := newOrchestrator(t)
	_, err := o.ReplaceAll(ctx, reconcile.State{
		Notes: []float64{10}, Coins: []float64{1}, Withdrawals: []float64{2}, Safe: []float64{3},
	})
	require.NoError(t, err)
	writes := kv.Writes()

	snap := o.ResetAll(ctx)

	assert.Equal(t, reconcile.Totals{}, snap.Totals)
	assert.Equal(t, writes+1, kv.Writes(), "reset is one logical write")
	raw, _, _ := kv.Get(ctx, reconcile.DefaultKey)
	assert.JSONEq(t, `{"notas":[],"moedas":[],"sangria":[],"cofre":[]}`, raw)
}

// =============================================================================
// STORAGE FAILURES
// =============================================================================

func TestOrchestrator_NoStorage_RunsInMemory(t *testing.T) {
	ctx := context.Background()
	for name, kv := range map[string]reconcile.KV{
		"nil":         nil,
		"unavailable": store.Unavailable{},
	} {
		t.Run(name, func(t *testing.T) {
			o := reconcile.New(kv)
			o.Load(ctx)

			assert.True(t, o.Editor(reconcile.Notes).Add(ctx, "50"))
			assert.Equal(t, 50.0, o.Totals().CashSubtotal)
		})
	}
}

func TestOrchestrator_WriteFailureKeepsState(t *testing.T) {
	ctx := context.Background()
	kv := &recordingKV{Memory: store.NewMemory(), setErr: errors.New("disk full")}
	o := reconcile.New(kv)

	_, err := o.Replace(ctx, reconcile.Safe, []float64{100})

	require.NoError(t, err, "storage errors never reach the caller")
	assert.Equal(t, []float64{100}, o.List(reconcile.Safe))
}

func TestOrchestrator_LoadRestoresSavedState(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()
	first := reconcile.New(kv)
	first.Load(ctx)
	first.Editor(reconcile.Coins).Add(ctx, "0,25")
	first.Editor(reconcile.Coins).Add(ctx, "1")

	second := reconcile.New(kv)
	snap := second.Load(ctx)

	if diff := cmp.Diff(first.Snapshot(), snap); diff != "" {
		t.Errorf("restored snapshot mismatch (-want +got):\n%s", diff)
	}
}

func TestOrchestrator_CustomKey(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()
	o := reconcile.New(kv, reconcile.WithKey("caixa-2"))
	o.Editor(reconcile.Notes).Add(ctx, "2")

	_, ok, _ := kv.Get(ctx, "caixa-2")
	assert.True(t, ok)
	_, ok, _ = kv.Get(ctx, reconcile.DefaultKey)
	assert.False(t, ok)
}

// =============================================================================
// OVERFLOW
// =============================================================================

func TestOrchestrator_RejectsOverflowingTotals(t *testing.T) {
	// GIVEN: one huge but finite entry
	ctx := context.Background()
	o, kv := newOrchestrator(t)
	require.True(t, o.Editor(reconcile.Notes).Add(ctx, "1e308"))
	writes := kv.Writes()

	// WHEN: a second one would push the totals to +Inf
	assert.False(t, o.Editor(reconcile.Notes).Add(ctx, "1e308"))
	assert.False(t, o.Editor(reconcile.Coins).AddValue(ctx, 1e308))
	_, err := o.Replace(ctx, reconcile.Safe, []float64{math.MaxFloat64, math.MaxFloat64})
	assert.ErrorIs(t, err, reconcile.ErrTotalOverflow)
	assert.True(t, reconcile.IsClientError(err))
	_, err = o.ReplaceAll(ctx, reconcile.State{Withdrawals: []float64{1e308, 1e308}})
	assert.ErrorIs(t, err, reconcile.ErrTotalOverflow)

	// THEN: the state, its totals and the stored record are unchanged
	assert.Equal(t, []float64{1e308}, o.List(reconcile.Notes))
	assert.Empty(t, o.List(reconcile.Coins))
	assert.True(t, o.Totals().Finite())
	assert.Equal(t, writes, kv.Writes(), "nothing persisted")
}

// =============================================================================
// OBSERVERS
// =============================================================================

func TestOrchestrator_ObserverMayMutateAndSubscribe(t *testing.T) {
	ctx := context.Background()
	o, _ := newOrchestrator(t)

	var seen [][]float64
	var late int
	o.Subscribe(func(s reconcile.Snapshot) {
		seen = append(seen, s.State.Notes)
		if len(s.State.Notes) == 1 {
			// Runs after this delivery finishes, not inside it.
			o.Editor(reconcile.Notes).Add(ctx, "5")
			o.Subscribe(func(reconcile.Snapshot) { late++ })
		}
	})

	require.True(t, o.Editor(reconcile.Notes).Add(ctx, "10"))

	assert.Equal(t, [][]float64{{10}, {10, 5}}, seen)
	assert.Equal(t, 1, late)
	assert.Equal(t, []float64{10, 5}, o.List(reconcile.Notes))
}
