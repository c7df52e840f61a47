package main

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/warp/caixa/api"
	"github.com/warp/caixa/assetcache"
	"github.com/warp/caixa/store/sqlite"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the app shell",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// Reconciliation state
	o, store := openOrchestrator(ctx)
	if store != nil {
		defer store.Close()
	}

	// Offline asset cache
	worker, err := newAssetWorker(ctx, store)
	if err != nil {
		return err
	}

	// Handler and router
	handler := api.NewHandler(o, logger)
	handler.Currency = cfg.UI.Currency
	router := api.NewRouter(handler, api.RouterOptions{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Assets:         worker,
		Logger:         logger,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			zap.String("url", fmt.Sprintf("http://localhost:%d", cfg.Server.Port)),
			zap.String("storage", cfg.Database.Path))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	}

	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("server stopped")
	return nil
}

// newAssetWorker installs and activates the asset cache. Cache storage is
// the sqlite store when available, memory otherwise. Assets come from the
// upstream origin when configured, from the local shell directory otherwise.
// Precache failures are logged; the worker still serves from the network.
func newAssetWorker(ctx context.Context, store *sqlite.Store) (*assetcache.Worker, error) {
	var storage assetcache.Storage = assetcache.NewMemoryStorage()
	if store != nil {
		storage = store
	}

	var network assetcache.Fetcher = assetcache.HandlerFetcher{Handler: api.ShellHandler(cfg.Assets.Dir)}
	if cfg.Assets.Upstream != "" {
		upstream, err := url.Parse(cfg.Assets.Upstream)
		if err != nil {
			return nil, fmt.Errorf("invalid assets.upstream: %w", err)
		}
		network = assetcache.ClientFetcher{
			Client:   &http.Client{Timeout: 30 * time.Second},
			Upstream: upstream,
			Origin:   upstream,
		}
	}

	worker := assetcache.NewWorker(storage, network, assetcache.Config{
		CacheName: cfg.Assets.CacheName,
		Precache:  cfg.Assets.Precache,
		Policy:    cfg.CachePolicy(),
	}, logger)

	if err := worker.Install(ctx); err != nil {
		logger.Warn("asset precache failed, serving from network", zap.Error(err))
	}
	if _, err := worker.Activate(ctx); err != nil {
		logger.Warn("asset cache cleanup failed", zap.Error(err))
	}
	return worker, nil
}
