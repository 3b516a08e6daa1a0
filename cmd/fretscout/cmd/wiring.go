package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/fretscout/fretscout/internal/config"
	"github.com/fretscout/fretscout/internal/ebay"
	"github.com/fretscout/fretscout/internal/engine"
	"github.com/fretscout/fretscout/internal/notify"
	"github.com/fretscout/fretscout/internal/source"
	"github.com/fretscout/fretscout/internal/store"
	domain "github.com/fretscout/fretscout/pkg/types"
)

// loadConfig reads the config file at path, falling back to built-in
// defaults when the file does not exist. This lets commands like smoke run
// on environment credentials alone, without a YAML file on disk.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return config.Default(), nil
	}
	return cfg, err
}

// openStore opens the configured storage backend and runs migrations.
func openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	var (
		s   store.Store
		err error
	)
	switch cfg.Storage.Driver {
	case "postgres":
		s, err = store.NewPostgresStore(ctx, cfg.Storage.Postgres.DSN())
	default:
		s, err = store.OpenSQLite(cfg.Storage.SQLite.Path)
	}
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	if err := s.Migrate(ctx); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

// buildEngine assembles the search pipeline for the resolved mode. In live
// mode the eBay Browse client is wired behind the cached token provider and
// rate limiter; demo mode searches the stub source only.
func buildEngine(
	cfg *config.Config,
	mode domain.Mode,
	s store.Store,
	log *slog.Logger,
) *engine.Engine {
	opts := []engine.EngineOption{engine.WithLogger(log)}

	if creds := mode.Credentials(); creds != nil {
		tokenOpts := []ebay.TokenOption{}
		if cfg.Ebay.TokenURL != "" {
			tokenOpts = append(tokenOpts, ebay.WithTokenURL(cfg.Ebay.TokenURL))
		}
		if cfg.Ebay.Scope != "" {
			tokenOpts = append(tokenOpts, ebay.WithScope(cfg.Ebay.Scope))
		}
		tokens := ebay.NewCachingTokenProvider(ebay.NewTokenClient(*creds, tokenOpts...))

		limiter := ebay.NewRateLimiter(
			cfg.Ebay.RateLimit.PerSecond,
			cfg.Ebay.RateLimit.Burst,
			cfg.Ebay.RateLimit.DailyLimit,
		)

		marketplace := creds.MarketplaceID
		if cfg.Ebay.Marketplace != "" {
			marketplace = cfg.Ebay.Marketplace
		}
		browseOpts := []ebay.BrowseOption{
			ebay.WithRateLimiter(limiter),
			ebay.WithMarketplace(marketplace),
		}
		if cfg.Ebay.BrowseURL != "" {
			browseOpts = append(browseOpts, ebay.WithBrowseURL(cfg.Ebay.BrowseURL))
		}
		browse := ebay.NewBrowseClient(tokens, creds.Environment, browseOpts...)

		opts = append(opts, engine.WithLiveSource(source.NewEbay(browse)))
	}

	return engine.NewEngine(s, source.NewStub(), opts...)
}

// buildNotifier picks the configured notification backend.
func buildNotifier(cfg *config.Config, log *slog.Logger) notify.Notifier {
	if cfg.Notifications.Discord.Enabled {
		return notify.NewDiscordNotifier(cfg.Notifications.Discord.WebhookURL)
	}
	return notify.NewNoOpNotifier(log)
}

// searchOptions maps valuation config onto default pipeline options.
func searchOptions(cfg *config.Config) engine.SearchOptions {
	return engine.SearchOptions{
		MinScore:     cfg.Valuation.DefaultMinScore,
		HighConfOnly: cfg.Valuation.HighConfidenceOnly,
	}
}
