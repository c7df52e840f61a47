/*
Package reconcile provides the cash register reconciliation engine.

PURPOSE:
  A shift is closed by counting what is physically in the drawer and
  comparing it with what left it during the day. The engine keeps four
  ordered lists of amounts and derives every total from them:

    notas    counted bills
    moedas   counted coins
    sangria  cash withdrawn from the till during the shift
    cofre    cash deposited into the safe

KEY CONCEPTS IN THIS FILE (types.go):
  - Category: one of the four lists, with the JSON field name it is stored under
  - State: the four lists, the only canonical data
  - Totals: derived values, recomputed from State and never stored

DESIGN PRINCIPLES:
  1. Single source of truth: Totals are a pure function of State
  2. Single writer: only the Orchestrator mutates State
  3. Whole-list replacement: editors send the complete new list, never deltas

SEE ALSO:
  - engine.go: Totals computation
  - editor.go: Per-category add/remove
  - orchestrator.go: Owner of State, recompute + persist on every mutation
  - persistence.go: JSON record codec and load/save over the KV port
*/
package reconcile

import (
	"fmt"
	"math"
	"slices"
)

// =============================================================================
// CATEGORY - The four reconciliation lists
// =============================================================================

// Category identifies one of the four lists. The value is the field name used
// in the persisted record and in the API.
type Category string

const (
	Notes       Category = "notas"
	Coins       Category = "moedas"
	Withdrawals Category = "sangria"
	Safe        Category = "cofre"
)

// Categories lists every category in display order.
var Categories = []Category{Notes, Coins, Withdrawals, Safe}

// Label returns the human-readable title shown by the surfaces.
func (c Category) Label() string {
	switch c {
	case Notes:
		return "Notas"
	case Coins:
		return "Moedas"
	case Withdrawals:
		return "Sangria"
	case Safe:
		return "Cofre"
	default:
		return string(c)
	}
}

// Valid reports whether c is one of the four known categories.
func (c Category) Valid() bool {
	return slices.Contains(Categories, c)
}

// ParseCategory converts a string into a Category.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.Valid() {
		return "", &CategoryError{Name: s}
	}
	return c, nil
}

// =============================================================================
// STATE - The canonical data
// =============================================================================

// State holds the four ordered lists. Duplicate values are separate entries.
type State struct {
	Notes       []float64
	Coins       []float64
	Withdrawals []float64
	Safe        []float64
}

// EmptyState returns a state with four empty, non-nil lists.
func EmptyState() State {
	return State{
		Notes:       []float64{},
		Coins:       []float64{},
		Withdrawals: []float64{},
		Safe:        []float64{},
	}
}

// List returns the list for a category. Unknown categories return nil.
func (s State) List(c Category) []float64 {
	switch c {
	case Notes:
		return s.Notes
	case Coins:
		return s.Coins
	case Withdrawals:
		return s.Withdrawals
	case Safe:
		return s.Safe
	default:
		return nil
	}
}

// With returns a copy of s with the list for c replaced.
func (s State) With(c Category, values []float64) State {
	switch c {
	case Notes:
		s.Notes = values
	case Coins:
		s.Coins = values
	case Withdrawals:
		s.Withdrawals = values
	case Safe:
		s.Safe = values
	}
	return s
}

// Clone returns a deep copy with nil lists normalized to empty ones.
func (s State) Clone() State {
	return State{
		Notes:       cloneList(s.Notes),
		Coins:       cloneList(s.Coins),
		Withdrawals: cloneList(s.Withdrawals),
		Safe:        cloneList(s.Safe),
	}
}

// Validate checks every entry is finite and non-negative.
func (s State) Validate() error {
	for _, c := range Categories {
		if err := validateList(c, s.List(c)); err != nil {
			return err
		}
	}
	return nil
}

func validateList(c Category, values []float64) error {
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return &InvalidValueError{Category: c, Index: i, Value: v}
		}
	}
	return nil
}

func cloneList(values []float64) []float64 {
	out := make([]float64, len(values))
	copy(out, values)
	return out
}

// =============================================================================
// TOTALS - Derived values
// =============================================================================

// Totals is fully determined by a State. It is never persisted.
type Totals struct {
	TotalNotes       float64
	TotalCoins       float64
	TotalWithdrawals float64
	TotalSafe        float64

	// CashSubtotal is the "vale moeda": notes + coins in hand.
	CashSubtotal float64
	// GrandTotal adds the withdrawals back to the cash in hand.
	GrandTotal float64
	// FinalResult is the grand total minus what went to the safe.
	FinalResult float64
	// SuggestedAdjustment is CashSubtotal - FinalResult.
	SuggestedAdjustment float64
}

// Total returns the sum for a single category.
func (t Totals) Total(c Category) float64 {
	switch c {
	case Notes:
		return t.TotalNotes
	case Coins:
		return t.TotalCoins
	case Withdrawals:
		return t.TotalWithdrawals
	case Safe:
		return t.TotalSafe
	default:
		return 0
	}
}

// Finite reports whether every derived value is a finite number.
func (t Totals) Finite() bool {
	for _, v := range []float64{
		t.TotalNotes, t.TotalCoins, t.TotalWithdrawals, t.TotalSafe,
		t.CashSubtotal, t.GrandTotal, t.FinalResult, t.SuggestedAdjustment,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (t Totals) String() string {
	return fmt.Sprintf("notas=%v moedas=%v sangria=%v cofre=%v vale=%v total=%v final=%v ajuste=%v",
		t.TotalNotes, t.TotalCoins, t.TotalWithdrawals, t.TotalSafe,
		t.CashSubtotal, t.GrandTotal, t.FinalResult, t.SuggestedAdjustment)
}

// Snapshot is a read-only copy of the state together with its totals.
type Snapshot struct {
	State  State
	Totals Totals
}
