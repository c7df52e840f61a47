// Package store provides in-memory KV implementations.
package store

import (
	"context"
	"sync"

	"github.com/warp/caixa/reconcile"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

// Memory is a map-backed reconcile.KV.
type Memory struct {
	mu     sync.RWMutex
	values map[string]string
	writes int
}

func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	m.writes++
	return nil
}

func (m *Memory) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

// Writes returns how many Set calls succeeded.
func (m *Memory) Writes() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.writes
}

// =============================================================================
// UNAVAILABLE STORE - An environment without storage
// =============================================================================

// Unavailable fails every call with reconcile.ErrStorageUnavailable.
type Unavailable struct{}

func (Unavailable) Get(context.Context, string) (string, bool, error) {
	return "", false, reconcile.ErrStorageUnavailable
}

func (Unavailable) Set(context.Context, string, string) error {
	return reconcile.ErrStorageUnavailable
}

func (Unavailable) Remove(context.Context, string) error {
	return reconcile.ErrStorageUnavailable
}
