/*
editor.go - Per-category list editing

PURPOSE:
  An Editor is the add/remove surface for one of the four lists. It never
  holds the list itself: every change is computed as a complete new list
  and handed to the Orchestrator, which owns the canonical state.

INPUT RULES:
  - Add accepts a value only if it parses to a finite number > 0.
  - Anything else is dropped without an error; the list is unchanged.
  - Remove with an out-of-range index is a no-op.
*/
package reconcile

import (
	"context"
	"math"
	"slices"
)

// Editor edits the list of a single category.
type Editor struct {
	o        *Orchestrator
	category Category
}

// Category returns the list this editor works on.
func (e *Editor) Category() Category {
	return e.category
}

// Values returns a copy of the current list.
func (e *Editor) Values() []float64 {
	return e.o.List(e.category)
}

// Total returns the running total of the list.
func (e *Editor) Total() float64 {
	return e.o.Totals().Total(e.category)
}

// Add parses raw and appends it. Returns false when the input was rejected.
func (e *Editor) Add(ctx context.Context, raw string) bool {
	v, ok := ParseNumber(raw)
	if !ok {
		return false
	}
	return e.AddValue(ctx, v)
}

// AddValue appends an already numeric candidate, such as a calculator result.
func (e *Editor) AddValue(ctx context.Context, v float64) bool {
	if !Acceptable(v) {
		return false
	}
	changed, err := e.o.Edit(ctx, e.category, func(cur []float64) ([]float64, bool) {
		return append(cur, v), true
	})
	return err == nil && changed
}

// Remove deletes the entry at index. Returns false when index is out of range.
func (e *Editor) Remove(ctx context.Context, index int) bool {
	changed, err := e.o.Edit(ctx, e.category, func(cur []float64) ([]float64, bool) {
		if index < 0 || index >= len(cur) {
			return cur, false
		}
		return slices.Delete(cur, index, index+1), true
	})
	return err == nil && changed
}

// Acceptable reports whether v may be added to a list.
func Acceptable(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0
}
