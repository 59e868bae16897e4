// Package cli implements the secmaster command-line interface.
package cli

import (
	"context"
	"fmt"

	"github.com/epeers/secmaster/config"
	"github.com/epeers/secmaster/internal/cache"
	"github.com/epeers/secmaster/internal/database"
	"github.com/epeers/secmaster/internal/repository"
	"github.com/epeers/secmaster/internal/services"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Version is set at build time with -ldflags "-X .../internal/cli.Version=..."
var Version = "dev"

var (
	// Global flags
	logLevel string

	// Global config
	cfg *config.Config

	rootCmd = &cobra.Command{
		Use:   "secmaster",
		Short: "Security master and daily price store",
		Long: `secmaster stores security reference data, exchanges and price history
in PostgreSQL, keeps the prices_log coverage table in step with it and
records every update run in update_log.

Configuration comes from the environment (PG_URL, PORT, LOG_LEVEL,
INGEST_WORKERS, PG_MAX_CONNS, ADMIN_TOKEN) and an optional .env file.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == versionCmd.Name() {
				return nil
			}
			return initConfig()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"log level (debug, info, warn, error); overrides LOG_LEVEL")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(rebuildCmd)
	rootCmd.AddCommand(seedCmd)
}

func initConfig() error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		return err
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}
	log.SetLevel(level)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	return nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("secmaster %s\n", Version)
	},
}

// app holds the wired store and service layer shared by the subcommands
type app struct {
	db         *database.DB
	securities *repository.SecurityRepository
	exchanges  *repository.ExchangeRepository
	prices     *repository.PriceRepository
	pricesLog  *repository.PricesLogRepository
	updateLog  *repository.UpdateLogRepository
	ingest     *services.IngestService
	coverage   *services.CoverageService
}

func newApp(ctx context.Context) (*app, error) {
	db, err := database.New(ctx, cfg.PGURL, cfg.MaxConns)
	if err != nil {
		return nil, err
	}

	memCache := cache.NewMemoryCache(cache.DefaultTTL)

	a := &app{
		db:         db,
		securities: repository.NewSecurityRepository(db.Pool),
		exchanges:  repository.NewExchangeRepository(db.Pool),
		prices:     repository.NewPriceRepository(db.Pool),
		pricesLog:  repository.NewPricesLogRepository(db.Pool),
		updateLog:  repository.NewUpdateLogRepository(db.Pool),
	}
	a.ingest = services.NewIngestService(a.prices, a.securities, a.exchanges, a.updateLog, memCache, cfg.IngestWorkers)
	a.coverage = services.NewCoverageService(a.pricesLog, a.securities, a.updateLog, memCache)
	return a, nil
}

func (a *app) Close() {
	a.db.Close()
}
