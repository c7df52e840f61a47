package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/caixa/reconcile"
	"github.com/warp/caixa/reconcile/store"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func newModel(t *testing.T) Model {
	t.Helper()
	o := reconcile.New(store.NewMemory())
	o.Load(context.Background())
	return New(context.Background(), o)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func apply(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		var ok bool
		m, ok = next.(Model)
		require.True(t, ok)
	}
	return m
}

func typeText(t *testing.T, m Model, s string) Model {
	t.Helper()
	for _, r := range s {
		m = apply(t, m, runes(string(r)))
	}
	return m
}

// ---------------------------------------------------------------------------
// List editing
// ---------------------------------------------------------------------------

func TestAddAcceptsAndClearsInput(t *testing.T) {
	m := newModel(t)

	m = typeText(t, m, "12,50")
	m = apply(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, []float64{12.5}, m.o.List(reconcile.Notes))
	assert.Empty(t, m.Input())
	assert.Contains(t, m.View(), "R$12,50")
}

func TestAddRejectsAndKeepsInput(t *testing.T) {
	m := newModel(t)

	m = typeText(t, m, "-5")
	m = apply(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Empty(t, m.o.List(reconcile.Notes))
	assert.Equal(t, "-5", m.Input())
}

func TestFocusCycles(t *testing.T) {
	m := newModel(t)
	assert.Equal(t, reconcile.Notes, m.Focused())

	m = apply(t, m, tea.KeyMsg{Type: tea.KeyTab}, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, reconcile.Withdrawals, m.Focused())

	m = apply(t, m, tea.KeyMsg{Type: tea.KeyShiftTab}, tea.KeyMsg{Type: tea.KeyShiftTab}, tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, reconcile.Safe, m.Focused())
}

func TestRemoveSelected(t *testing.T) {
	m := newModel(t)
	for _, v := range []string{"10", "20", "30"} {
		m = typeText(t, m, v)
		m = apply(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	}

	m = apply(t, m, tea.KeyMsg{Type: tea.KeyUp}, tea.KeyMsg{Type: tea.KeyCtrlX})

	assert.Equal(t, []float64{10, 30}, m.o.List(reconcile.Notes))
}

func TestResetAllAndEmptyHint(t *testing.T) {
	m := newModel(t)
	m = typeText(t, m, "10")
	m = apply(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	m = apply(t, m, tea.KeyMsg{Type: tea.KeyCtrlR})

	assert.Equal(t, reconcile.Totals{}, m.o.Totals())
	assert.Contains(t, m.View(), emptyHint)
}

func TestTotalsPanel(t *testing.T) {
	m := newModel(t)
	add := func(v string) {
		m = typeText(t, m, v)
		m = apply(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	}
	add("10")
	add("20")
	m = apply(t, m, tea.KeyMsg{Type: tea.KeyTab}, tea.KeyMsg{Type: tea.KeyTab})
	add("5")
	m = apply(t, m, tea.KeyMsg{Type: tea.KeyTab})
	add("15")

	view := m.View()
	assert.Contains(t, view, "R$35,00")
	assert.Contains(t, view, "R$20,00")
	assert.Contains(t, view, "R$10,00")
}

// ---------------------------------------------------------------------------
// Calculator overlay
// ---------------------------------------------------------------------------

func TestCalculatorCommitFillsInput(t *testing.T) {
	m := newModel(t)
	m = apply(t, m, tea.KeyMsg{Type: tea.KeyCtrlK})
	require.True(t, m.CalculatorOpen())

	m = typeText(t, m, "0.1+0.2")
	m = apply(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Contains(t, m.View(), "0.3")

	m = apply(t, m, tea.KeyMsg{Type: tea.KeyCtrlU})

	assert.False(t, m.CalculatorOpen())
	assert.Equal(t, "0.3", m.Input())
	assert.Empty(t, m.o.List(reconcile.Notes))

	m = apply(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, []float64{0.3}, m.o.List(reconcile.Notes))
}

func TestCalculatorErrorBlocksCommit(t *testing.T) {
	m := newModel(t)
	m = apply(t, m, tea.KeyMsg{Type: tea.KeyCtrlK})
	m = typeText(t, m, "1/0")
	m = apply(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Contains(t, m.View(), "Error")

	m = apply(t, m, tea.KeyMsg{Type: tea.KeyCtrlU})
	assert.True(t, m.CalculatorOpen())
	assert.Empty(t, m.Input())
}

func TestCalculatorEscapeCloses(t *testing.T) {
	m := newModel(t)
	m = apply(t, m, tea.KeyMsg{Type: tea.KeyCtrlK})
	m = typeText(t, m, "42")

	m = apply(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	assert.False(t, m.CalculatorOpen())
	assert.Empty(t, m.Input())
}

func TestCalculatorBackspace(t *testing.T) {
	m := newModel(t)
	m = apply(t, m, tea.KeyMsg{Type: tea.KeyCtrlK})
	m = typeText(t, m, "12")

	m = apply(t, m, tea.KeyMsg{Type: tea.KeyBackspace})

	require.NotNil(t, m.calc)
	assert.Equal(t, "1", m.calc.Display())
}

func TestHugeEntriesStillRender(t *testing.T) {
	m := newModel(t)
	for range 2 {
		m = typeText(t, m, "1e308")
		m = apply(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	}

	// The second entry would overflow the totals and stays in the input.
	assert.Equal(t, []float64{1e308}, m.o.List(reconcile.Notes))
	assert.Equal(t, "1e308", m.Input())
	assert.NotPanics(t, func() { _ = m.View() })
	assert.Contains(t, m.View(), "R$100.000.000")
}
