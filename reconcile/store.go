/*
store.go - Key-value port used by the persistence layer

PURPOSE:
  The reconciliation state lives under one string key in a string-keyed
  store. This interface is the only thing the engine knows about storage,
  so the engine runs the same against SQLite, memory, or nothing at all.

IMPLEMENTATIONS:
  - store/sqlite/sqlite.go: durable SQLite table
  - reconcile/store/memory.go: in-memory map (tests, ephemeral sessions)

UNAVAILABLE STORAGE:
  A nil KV, or one whose calls return ErrStorageUnavailable, means the
  environment has no storage. Loads and saves are skipped and the session
  runs purely in memory.
*/
package reconcile

import "context"

// DefaultKey is the key the record is stored under.
const DefaultKey = "cashCalculatorData"

// KV is a minimal string key-value store.
type KV interface {
	// Get returns the value and whether the key exists.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set writes the value atomically, replacing any previous one.
	Set(ctx context.Context, key, value string) error

	// Remove deletes the key. Removing a missing key is not an error.
	Remove(ctx context.Context, key string) error
}
