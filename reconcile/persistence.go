/*
persistence.go - Record codec and load/save over the KV port

RECORD FORMAT:
  One JSON object under a fixed key. Field names are fixed for
  compatibility with records written by earlier versions of the app:

    {"notas":[50,10],"moedas":[1.5],"sangria":[],"cofre":[20]}

LOAD RULES:
  - Key absent                      -> empty state
  - Field missing or null           -> that list is empty, the rest loads
  - Not JSON, wrong shape, negative
    or non-finite entries           -> logged, key removed, empty state
  - Storage unavailable             -> empty state, nothing logged above debug

  Removing a corrupt record means the next load sees an absent key instead
  of failing to parse the same bytes again.
*/
package reconcile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// record is the wire shape of the persisted state.
type record struct {
	Notas   []float64 `json:"notas"`
	Moedas  []float64 `json:"moedas"`
	Sangria []float64 `json:"sangria"`
	Cofre   []float64 `json:"cofre"`
}

// Encode serializes the full state.
func Encode(s State) (string, error) {
	s = s.Clone()
	b, err := json.Marshal(record{
		Notas:   s.Notes,
		Moedas:  s.Coins,
		Sangria: s.Withdrawals,
		Cofre:   s.Safe,
	})
	if err != nil {
		return "", fmt.Errorf("encode state: %w", err)
	}
	return string(b), nil
}

// Decode parses a stored record. Missing fields decode as empty lists.
func Decode(raw string) (State, error) {
	var r record
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		return EmptyState(), fmt.Errorf("%w: %v", ErrCorruptRecord, err)
	}
	s := State{
		Notes:       r.Notas,
		Coins:       r.Moedas,
		Withdrawals: r.Sangria,
		Safe:        r.Cofre,
	}.Clone()
	if err := s.Validate(); err != nil {
		return EmptyState(), fmt.Errorf("%w: %v", ErrCorruptRecord, err)
	}
	if err := checkTotals(s); err != nil {
		return EmptyState(), fmt.Errorf("%w: %v", ErrCorruptRecord, err)
	}
	return s, nil
}

// =============================================================================
// PERSISTER - Load/save the state under one key
// =============================================================================

// Persister reads and writes the state through a KV store.
type Persister struct {
	kv     KV
	key    string
	logger *zap.Logger
}

// NewPersister creates a persister. A nil kv disables storage.
func NewPersister(kv KV, key string, logger *zap.Logger) *Persister {
	if key == "" {
		key = DefaultKey
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Persister{kv: kv, key: key, logger: logger}
}

// Key returns the storage key.
func (p *Persister) Key() string {
	return p.key
}

// Available reports whether a store is configured.
func (p *Persister) Available() bool {
	return p.kv != nil
}

// Load returns the stored state, or an empty state when there is none or it
// cannot be used. It never fails.
func (p *Persister) Load(ctx context.Context) State {
	if p.kv == nil {
		return EmptyState()
	}

	raw, ok, err := p.kv.Get(ctx, p.key)
	if err != nil {
		if errors.Is(err, ErrStorageUnavailable) {
			p.logger.Debug("storage unavailable, starting in memory", zap.String("key", p.key))
		} else {
			p.logger.Warn("failed to read saved state", zap.String("key", p.key), zap.Error(err))
		}
		return EmptyState()
	}
	if !ok || raw == "" {
		return EmptyState()
	}

	s, err := Decode(raw)
	if err != nil {
		p.logger.Error("error parsing saved state, discarding it",
			zap.String("key", p.key), zap.Error(err))
		if rmErr := p.kv.Remove(ctx, p.key); rmErr != nil && !errors.Is(rmErr, ErrStorageUnavailable) {
			p.logger.Warn("failed to remove corrupt state", zap.String("key", p.key), zap.Error(rmErr))
		}
		return EmptyState()
	}
	return s
}

// Save writes the full state as one record.
func (p *Persister) Save(ctx context.Context, s State) error {
	if p.kv == nil {
		return nil
	}
	raw, err := Encode(s)
	if err != nil {
		return err
	}
	if err := p.kv.Set(ctx, p.key, raw); err != nil {
		if errors.Is(err, ErrStorageUnavailable) {
			return nil
		}
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}
