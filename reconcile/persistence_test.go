package reconcile_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/warp/caixa/reconcile"
	"github.com/warp/caixa/reconcile/store"
)

func TestEncodeDecode_RoundTrip(t *testing.T) {
	s := reconcile.State{
		Notes:       []float64{100, 50, 50, 2},
		Coins:       []float64{0.05, 1, 0.25},
		Withdrawals: []float64{},
		Safe:        []float64{300.1},
	}

	raw, err := reconcile.Encode(s)
	require.NoError(t, err)
	got, err := reconcile.Decode(raw)
	require.NoError(t, err)

	if diff := cmp.Diff(s, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestEncode_FieldNames(t *testing.T) {
	raw, err := reconcile.Encode(reconcile.State{Notes: []float64{1}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"notas":[1],"moedas":[],"sangria":[],"cofre":[]}`, raw)
}

func TestDecode_PartialRecord(t *testing.T) {
	got, err := reconcile.Decode(`{"notas":[5,5],"cofre":null}`)
	require.NoError(t, err)

	assert.Equal(t, []float64{5, 5}, got.Notes)
	assert.Equal(t, []float64{}, got.Coins)
	assert.Equal(t, []float64{}, got.Withdrawals)
	assert.Equal(t, []float64{}, got.Safe)
}

func TestDecode_Corrupt(t *testing.T) {
	for _, raw := range []string{
		`{not json`,
		`[1,2,3]`,
		`{"notas":"ten"}`,
		`{"notas":[1,"2"]}`,
		`{"sangria":[-5]}`,
		`{"notas":[1e308,1e308]}`,
		`{"notas":[1e308],"moedas":[1e308]}`,
	} {
		_, err := reconcile.Decode(raw)
		assert.ErrorIs(t, err, reconcile.ErrCorruptRecord, raw)
	}
}

func TestPersister_CorruptRecordDiscarded(t *testing.T) {
	// GIVEN: a record that cannot be parsed
	ctx := context.Background()
	kv := store.NewMemory()
	require.NoError(t, kv.Set(ctx, reconcile.DefaultKey, `{"notas":[1,`))
	core, logs := observer.New(zap.ErrorLevel)
	p := reconcile.NewPersister(kv, "", zap.New(core))

	// WHEN: loading it twice
	first := p.Load(ctx)
	second := p.Load(ctx)

	// THEN: both loads are empty, the record is gone, and the failure was logged once
	assert.Equal(t, reconcile.EmptyState(), first)
	assert.Equal(t, reconcile.EmptyState(), second)
	_, ok, _ := kv.Get(ctx, reconcile.DefaultKey)
	assert.False(t, ok)
	assert.Equal(t, 1, logs.Len())
}

func TestOrchestrator_LoadCorruptTwice(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemory()

	for i := 0; i < 2; i++ {
		require.NoError(t, kv.Set(ctx, reconcile.DefaultKey, "garbage"))
		o := reconcile.New(kv)
		snap := o.Load(ctx)
		assert.Equal(t, reconcile.Totals{}, snap.Totals)
		assert.Equal(t, reconcile.EmptyState(), snap.State)
	}
}

func TestPersister_Absent(t *testing.T) {
	p := reconcile.NewPersister(store.NewMemory(), "", nil)
	assert.Equal(t, reconcile.EmptyState(), p.Load(context.Background()))
}

func TestPersister_Unavailable(t *testing.T) {
	ctx := context.Background()
	p := reconcile.NewPersister(store.Unavailable{}, "", nil)

	assert.Equal(t, reconcile.EmptyState(), p.Load(ctx))
	assert.NoError(t, p.Save(ctx, reconcile.State{Notes: []float64{1}}))
}
