package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/cenkalti/backoff/v4"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lukman83/envato-scrape/config"
	"github.com/lukman83/envato-scrape/internal/cache"
	"github.com/lukman83/envato-scrape/internal/envato"
	"github.com/lukman83/envato-scrape/internal/logger"
	"github.com/lukman83/envato-scrape/internal/metrics"
)

var (
	cfg        *config.Config
	appLogger  = logger.Nop()
	store      *cache.Store
	appMetrics *metrics.Metrics
)

var rootCmd = &cobra.Command{
	Use:               "envato-scrape",
	Short:             "Envato Scrape - crawl Envato Market into a local cache and report on it",
	Long:              "A CLI tool and MCP server that lists Envato Market categories, crawls search results into a local cache and prints sales reports as CSV.",
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// Execute runs the root command. The cache is flushed if it changed, even
// when the command fails, before the process exits.
func Execute() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer teardown()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file (default ./envato-scrape.yaml)")
	rootCmd.PersistentFlags().String("cache-file", "", "Path to the cache file (default from config)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
}

// setup loads config, builds the logger and loads the cache.
func setup(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("config")
	loaded, err := config.Load(path)
	if err != nil {
		return err
	}
	cfg = loaded

	// Override from flags
	if v, _ := cmd.Flags().GetString("cache-file"); v != "" {
		cfg.Cache.File = v
	}
	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		cfg.Log.Level = v
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	l, err := logger.New(
		logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format},
		logger.SentryConfig{DSN: cfg.Sentry.DSN, Environment: cfg.Sentry.Environment, Release: Version},
	)
	if err != nil {
		return err
	}
	appLogger = l
	appMetrics = metrics.New()

	store = cache.New(cfg.Cache.File)
	if err := store.Load(); err != nil {
		if cache.IsNotFound(err) {
			appLogger.Debug("no cache file yet, starting empty", zap.String("path", cfg.Cache.File))
		} else {
			appLogger.Warn("failed to load cache, starting empty",
				zap.String("path", cfg.Cache.File),
				zap.Error(err),
			)
		}
	}
	return nil
}

// teardown saves the cache if it is dirty and flushes the logger.
func teardown() {
	if store != nil {
		saved, err := store.MaybeSave()
		if err != nil {
			appLogger.Warn("failed to save cache", zap.String("path", store.Path()), zap.Error(err))
		} else if saved {
			appLogger.Debug("cache saved", zap.String("path", store.Path()))
		}
	}
	_ = appLogger.Sync()
}

// newAPIClient builds the Envato client from config. It fails with
// config.ErrMissingAPIKey before any request is made.
func newAPIClient() (*envato.Client, error) {
	key, err := cfg.RequireAPIKey()
	if err != nil {
		return nil, err
	}
	return envato.NewClient(envato.Config{
		BaseURL:       cfg.API.BaseURL,
		APIKey:        key,
		UserAgent:     cfg.API.UserAgent,
		Timeout:       cfg.API.Timeout,
		RatePerSecond: cfg.API.RatePerSecond,
		RateBurst:     cfg.API.RateBurst,
		Retry: envato.RetryPolicy{
			MaxAttempts: cfg.API.MaxRateLimitRetries,
			Fallback:    backoff.NewConstantBackOff(cfg.API.RetryFallback),
		},
	},
		envato.WithLogger(appLogger.Logger),
		envato.WithMetrics(appMetrics),
	), nil
}

// siteFlag parses the required --site flag.
func siteFlag(cmd *cobra.Command) (envato.Site, error) {
	raw, _ := cmd.Flags().GetString("site")
	return envato.ParseSite(raw)
}

// writeMetrics exports the registry when --metrics-file is set.
func writeMetrics(cmd *cobra.Command) {
	path, _ := cmd.Flags().GetString("metrics-file")
	if path == "" {
		return
	}
	if err := appMetrics.WriteTextfile(path); err != nil {
		appLogger.Warn("failed to write metrics", zap.String("path", path), zap.Error(err))
	}
}
