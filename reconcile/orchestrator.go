/*
orchestrator.go - Owner of the reconciliation state

PURPOSE:
  The Orchestrator holds the four canonical lists. Editors, the API and
  the terminal surface request changes through it; nothing else keeps a
  writable reference to the lists.

MUTATION PIPELINE:
  Every mutation entry point (Replace, ReplaceAll, ResetAll, Edit) runs
  the same steps, synchronously and in this order:

    1. recompute  - Totals = Compute(state)
    2. persist    - the full state is written as one record
    3. notify     - observers receive the new Snapshot

  A change whose totals would not fit in a float64 (two entries of 1e308)
  is rejected with ErrTotalOverflow and nothing is written.

  Mutations are serialized by a mutex, so two requests arriving on the
  HTTP server at once behave like two events handled one after the other.

STORAGE FAILURES:
  A failed write is logged and the state stays in memory. No storage
  problem ever reaches the caller as an error.

USAGE:
  o := reconcile.New(kv, reconcile.WithLogger(logger))
  o.Load(ctx)
  o.Editor(reconcile.Notes).Add(ctx, "50")
  fmt.Println(o.Totals().CashSubtotal)
*/
package reconcile

import (
	"context"
	"slices"
	"sync"

	"go.uber.org/zap"
)

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the logger used for storage diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithKey overrides the storage key.
func WithKey(key string) Option {
	return func(o *Orchestrator) {
		o.key = key
	}
}

// Observer receives the snapshot produced by a mutation. Snapshots arrive in
// mutation order. An observer may read, mutate or subscribe; a mutation made
// from inside an observer is delivered after the current one finishes.
type Observer func(Snapshot)

// =============================================================================
// ORCHESTRATOR
// =============================================================================

// Orchestrator owns the State and keeps Totals and storage in step with it.
type Orchestrator struct {
	mu    sync.Mutex
	state State

	totals    Totals
	key       string
	persister *Persister
	logger    *zap.Logger
	editors   map[Category]*Editor

	// notifyMu guards the observer list and the delivery queue.
	notifyMu    sync.Mutex
	observers   []Observer
	pending     []Snapshot
	dispatching bool
}

// New creates an orchestrator with empty lists. A nil kv runs in memory only.
// Call Load to restore a previously saved state.
func New(kv KV, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		state:  EmptyState(),
		key:    DefaultKey,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	o.persister = NewPersister(kv, o.key, o.logger)
	o.totals = Compute(o.state)

	o.editors = make(map[Category]*Editor, len(Categories))
	for _, c := range Categories {
		o.editors[c] = &Editor{o: o, category: c}
	}
	return o
}

// Load restores the saved state and writes it back in normalized form.
func (o *Orchestrator) Load(ctx context.Context) Snapshot {
	o.mu.Lock()
	loaded := o.persister.Load(ctx)
	return o.commitLocked(ctx, loaded)
}

// Editor returns the list editor for c, or nil for an unknown category.
func (o *Orchestrator) Editor(c Category) *Editor {
	return o.editors[c]
}

// Subscribe registers an observer called after every mutation.
func (o *Orchestrator) Subscribe(fn Observer) {
	o.notifyMu.Lock()
	defer o.notifyMu.Unlock()
	o.observers = append(o.observers, fn)
}

// =============================================================================
// READS
// =============================================================================

// Snapshot returns a copy of the lists together with their totals.
func (o *Orchestrator) Snapshot() Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()
	return Snapshot{State: o.state.Clone(), Totals: o.totals}
}

// List returns a copy of one list.
func (o *Orchestrator) List(c Category) []float64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return cloneList(o.state.List(c))
}

// Totals returns the current derived values.
func (o *Orchestrator) Totals() Totals {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.totals
}

// =============================================================================
// MUTATIONS
// =============================================================================

// Replace swaps the whole list of a category.
func (o *Orchestrator) Replace(ctx context.Context, c Category, values []float64) (Snapshot, error) {
	if !c.Valid() {
		return o.Snapshot(), &CategoryError{Name: string(c)}
	}
	if err := validateList(c, values); err != nil {
		return o.Snapshot(), err
	}

	o.mu.Lock()
	next := o.state.With(c, cloneList(values))
	if err := checkTotals(next); err != nil {
		snap := Snapshot{State: o.state.Clone(), Totals: o.totals}
		o.mu.Unlock()
		return snap, err
	}
	return o.commitLocked(ctx, next), nil
}

// ReplaceAll swaps all four lists as one logical mutation.
func (o *Orchestrator) ReplaceAll(ctx context.Context, s State) (Snapshot, error) {
	if err := s.Validate(); err != nil {
		return o.Snapshot(), err
	}
	if err := checkTotals(s); err != nil {
		return o.Snapshot(), err
	}
	o.mu.Lock()
	return o.commitLocked(ctx, s.Clone()), nil
}

// ResetAll clears the four lists in one mutation.
func (o *Orchestrator) ResetAll(ctx context.Context) Snapshot {
	o.mu.Lock()
	return o.commitLocked(ctx, EmptyState())
}

// Edit runs fn on a copy of the current list and replaces the list with the
// result when fn reports a change. The read and the replace happen under
// the same lock, so concurrent edits are not lost.
func (o *Orchestrator) Edit(ctx context.Context, c Category, fn func([]float64) ([]float64, bool)) (bool, error) {
	if !c.Valid() {
		return false, &CategoryError{Name: string(c)}
	}

	o.mu.Lock()
	next, changed := fn(cloneList(o.state.List(c)))
	if !changed {
		o.mu.Unlock()
		return false, nil
	}
	if err := validateList(c, next); err != nil {
		o.mu.Unlock()
		return false, err
	}
	state := o.state.With(c, next)
	if err := checkTotals(state); err != nil {
		o.mu.Unlock()
		return false, err
	}
	o.commitLocked(ctx, state)
	return true, nil
}

// commitLocked installs next, recomputes, persists and notifies.
// It must be called with o.mu held and releases it.
func (o *Orchestrator) commitLocked(ctx context.Context, next State) Snapshot {
	o.state = next
	o.recompute()
	o.persist(ctx)
	snap := Snapshot{State: o.state.Clone(), Totals: o.totals}

	// Queued before mu is released so deliveries follow mutation order.
	o.notifyMu.Lock()
	o.pending = append(o.pending, snap)
	o.notifyMu.Unlock()
	o.mu.Unlock()

	o.dispatch()
	return snap
}

// dispatch delivers queued snapshots with no lock held. Only one goroutine
// delivers at a time; a caller that finds delivery in progress leaves its
// snapshot to that goroutine.
func (o *Orchestrator) dispatch() {
	o.notifyMu.Lock()
	if o.dispatching {
		o.notifyMu.Unlock()
		return
	}
	o.dispatching = true
	for len(o.pending) > 0 {
		snap := o.pending[0]
		o.pending = o.pending[1:]
		observers := slices.Clone(o.observers)
		o.notifyMu.Unlock()

		for _, fn := range observers {
			fn(snap)
		}

		o.notifyMu.Lock()
	}
	o.dispatching = false
	o.notifyMu.Unlock()
}

func (o *Orchestrator) recompute() {
	o.totals = Compute(o.state)
}

func (o *Orchestrator) persist(ctx context.Context) {
	if err := o.persister.Save(ctx, o.state); err != nil {
		o.logger.Warn("failed to persist state, keeping it in memory",
			zap.String("key", o.persister.Key()), zap.Error(err))
	}
}
