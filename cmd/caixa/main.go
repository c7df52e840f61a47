/*
main.go - Application entry point

PURPOSE:
  The caixa command: a cash register closing calculator with an HTTP API,
  a terminal interface and a one-shot totals report.

COMMANDS:
  serve    HTTP API + app shell behind the offline asset cache
  tui      Terminal interface
  totals   Print the totals of the stored reconciliation

CONFIGURATION:
  Defaults, then the TOML file ($CAIXA_CONFIG or ~/.config/caixa/config.toml),
  then CAIXA_* environment variables, then flags.

SEE ALSO:
  - config/config.go: Keys and defaults
  - serve.go: Server startup and graceful shutdown
*/
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/warp/caixa/config"
	"github.com/warp/caixa/reconcile"
	"github.com/warp/caixa/store/sqlite"
)

var (
	// Global flags
	verbose    bool
	configPath string

	v      = config.New()
	cfg    config.Config
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "caixa",
	Short: "Cash register closing calculator",
	Long: `caixa reconciles the cash drawer at the end of a shift.

Notes and coins counted, withdrawals taken during the shift and the amount
sent to the safe produce the final result and the suggested adjustment.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if configPath != "" {
			v.SetConfigFile(configPath)
		}

		var err error
		cfg, err = config.Load(v)
		if err != nil {
			return err
		}

		logger, err = buildLogger(cfg.Log.Level, verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func buildLogger(level string, verbose bool) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	if verbose {
		lvl = zapcore.DebugLevel
	}
	zc.Level = zap.NewAtomicLevelAt(lvl)
	return zc.Build()
}

// openOrchestrator opens the sqlite store and loads the saved state. When
// the database cannot be opened the orchestrator runs without storage.
func openOrchestrator(ctx context.Context) (*reconcile.Orchestrator, *sqlite.Store) {
	var kv reconcile.KV
	var store *sqlite.Store
	if cfg.Database.Path != "" {
		s, err := sqlite.New(cfg.Database.Path)
		if err != nil {
			logger.Warn("storage unavailable, running in memory",
				zap.String("path", cfg.Database.Path), zap.Error(err))
		} else {
			store = s
			kv = s
		}
	}

	o := reconcile.New(kv, reconcile.WithLogger(logger), reconcile.WithKey(cfg.Storage.Key))
	o.Load(ctx)
	return o, store
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (TOML)")
	rootCmd.PersistentFlags().String("db", "", "SQLite database path (empty disables storage)")
	_ = v.BindPFlag("database.path", rootCmd.PersistentFlags().Lookup("db"))

	serveCmd.Flags().Int("port", 0, "HTTP server port")
	serveCmd.Flags().String("assets", "", "App shell directory")
	_ = v.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
	_ = v.BindPFlag("assets.dir", serveCmd.Flags().Lookup("assets"))

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(totalsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
