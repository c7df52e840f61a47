package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/warp/caixa/assetcache"
)

// =============================================================================
// ASSET CACHES - assetcache.Storage
// =============================================================================

// Open returns the named cache, creating it if needed.
func (s *Store) Open(ctx context.Context, name string) (assetcache.Cache, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO asset_caches (name, created_at) VALUES (?, ?)`, name, now())
	if err != nil {
		return nil, fmt.Errorf("open cache %s: %w", name, err)
	}
	return &assetCache{store: s, name: name}, nil
}

// Keys lists cache names in alphabetical order.
func (s *Store) Keys(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT name FROM asset_caches ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list caches: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Delete removes a cache and its entries.
func (s *Store) Delete(ctx context.Context, name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted bool
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM asset_entries WHERE cache_name = ?`, name); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM asset_caches WHERE name = ?`, name)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		deleted = n > 0
		return err
	})
	if err != nil {
		return false, fmt.Errorf("delete cache %s: %w", name, err)
	}
	return deleted, nil
}

type assetCache struct {
	store *Store
	name  string
}

func (c *assetCache) Match(ctx context.Context, key string) (*assetcache.Response, bool, error) {
	c.store.mu.RLock()
	defer c.store.mu.RUnlock()

	var (
		resp       assetcache.Response
		respType   string
		headerJSON string
	)
	err := c.store.db.QueryRowContext(ctx, `
		SELECT url, status, response_type, header_json, body
		FROM asset_entries WHERE cache_name = ? AND url = ?`, c.name, key).
		Scan(&resp.URL, &resp.Status, &respType, &headerJSON, &resp.Body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("match %s: %w", key, err)
	}

	resp.Type = assetcache.ResponseType(respType)
	resp.Header = make(http.Header)
	if err := json.Unmarshal([]byte(headerJSON), &resp.Header); err != nil {
		return nil, false, fmt.Errorf("decode headers for %s: %w", key, err)
	}
	return &resp, true, nil
}

func (c *assetCache) Put(ctx context.Context, key string, resp *assetcache.Response) error {
	headerJSON, err := json.Marshal(resp.Header)
	if err != nil {
		return fmt.Errorf("encode headers for %s: %w", key, err)
	}
	body := resp.Body
	if body == nil {
		body = []byte{}
	}

	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	_, err = c.store.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO asset_entries
			(cache_name, url, status, response_type, header_json, body, stored_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.name, key, resp.Status, string(resp.Type), string(headerJSON), body, now())
	if err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}
