package assetcache

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// ErrNetwork wraps failures reaching the network.
var ErrNetwork = errors.New("network fetch failed")

// Config configures a Worker.
type Config struct {
	CacheName string
	Precache  []string
	Policy    Policy
}

// Worker serves assets cache-first and keeps the cache versioned.
type Worker struct {
	storage Storage
	network Fetcher
	cfg     Config
	logger  *zap.Logger
}

// NewWorker creates a worker. Empty config fields take the defaults.
func NewWorker(storage Storage, network Fetcher, cfg Config, logger *zap.Logger) *Worker {
	if cfg.CacheName == "" {
		cfg.CacheName = DefaultCacheName
	}
	if cfg.Precache == nil {
		cfg.Precache = DefaultPrecache
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Worker{storage: storage, network: network, cfg: cfg, logger: logger}
}

// CacheName returns the current version tag.
func (w *Worker) CacheName() string {
	return w.cfg.CacheName
}

// =============================================================================
// LIFECYCLE
// =============================================================================

// Install fetches every precache URL and stores them together. If any of
// them fails nothing is stored.
func (w *Worker) Install(ctx context.Context) error {
	cache, err := w.storage.Open(ctx, w.cfg.CacheName)
	if err != nil {
		return fmt.Errorf("open cache %s: %w", w.cfg.CacheName, err)
	}

	w.logger.Info("caching app shell", zap.String("cache", w.cfg.CacheName), zap.Strings("urls", w.cfg.Precache))

	fetched := make(map[string]*Response, len(w.cfg.Precache))
	for _, raw := range w.cfg.Precache {
		key := Key(raw)
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, key, nil)
		if err != nil {
			return fmt.Errorf("precache %s: %w", raw, err)
		}
		resp, err := w.network.Fetch(ctx, req)
		if err != nil {
			return fmt.Errorf("precache %s: %w", raw, errors.Join(ErrNetwork, err))
		}
		if !resp.OK() {
			return fmt.Errorf("precache %s: status %d", raw, resp.Status)
		}
		fetched[key] = resp
	}

	for key, resp := range fetched {
		if err := cache.Put(ctx, key, resp); err != nil {
			return fmt.Errorf("precache %s: %w", key, err)
		}
	}
	return nil
}

// Activate deletes every cache that is not the current version and returns
// the names it removed.
func (w *Worker) Activate(ctx context.Context) ([]string, error) {
	names, err := w.storage.Keys(ctx)
	if err != nil {
		return nil, fmt.Errorf("list caches: %w", err)
	}

	var deleted []string
	for _, name := range names {
		if name == w.cfg.CacheName {
			continue
		}
		w.logger.Info("deleting old cache", zap.String("cache", name))
		if _, err := w.storage.Delete(ctx, name); err != nil {
			return deleted, fmt.Errorf("delete cache %s: %w", name, err)
		}
		deleted = append(deleted, name)
	}
	return deleted, nil
}

// =============================================================================
// FETCH
// =============================================================================

// Bypass reports whether req skips the cache entirely.
func Bypass(req *http.Request) bool {
	if req.Method != http.MethodGet {
		return true
	}
	return strings.HasPrefix(req.URL.String(), "chrome-extension://")
}

// Fetch answers req from the cache, or from the network storing a copy.
func (w *Worker) Fetch(ctx context.Context, req *http.Request) (*Response, error) {
	if Bypass(req) {
		return w.network.Fetch(ctx, req)
	}

	key := keyOf(req.URL)
	cache, err := w.storage.Open(ctx, w.cfg.CacheName)
	if err != nil {
		// A broken cache must not take the network path down with it.
		w.logger.Warn("cache unavailable", zap.String("cache", w.cfg.CacheName), zap.Error(err))
		return w.network.Fetch(ctx, req)
	}

	if cached, ok, err := cache.Match(ctx, key); err != nil {
		w.logger.Warn("cache lookup failed", zap.String("url", key), zap.Error(err))
	} else if ok {
		w.logger.Debug("serving from cache", zap.String("url", key))
		return cached, nil
	}

	resp, err := w.network.Fetch(ctx, req)
	if err != nil {
		w.logger.Error("fetch failed, offline?", zap.String("url", key), zap.Error(err))
		return nil, errors.Join(ErrNetwork, err)
	}

	if w.cfg.Policy.Cacheable(resp) {
		if err := cache.Put(ctx, key, resp.Clone()); err != nil {
			w.logger.Warn("failed to cache response", zap.String("url", key), zap.Error(err))
		}
	}
	return resp, nil
}

// ServeHTTP makes the worker usable as the catch-all route.
func (w *Worker) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	resp, err := w.Fetch(r.Context(), r)
	if err != nil {
		http.Error(rw, "fetch failed", http.StatusBadGateway)
		return
	}
	resp.WriteTo(rw)
}
