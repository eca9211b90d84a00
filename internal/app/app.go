// Package app wires configuration to the catalog and its adapters. Both
// binaries build their dependencies through it.
package app

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"recipebook/internal/catalog"
	"recipebook/internal/config"
	"recipebook/internal/platform/telegram"
	"recipebook/internal/recipe"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// OpenStore returns the dataset source selected by data.source. The closer
// releases whatever the store holds open.
func OpenStore(cfg *config.Config) (recipe.Store, io.Closer, error) {
	switch cfg.Data.Source {
	case config.SourcePostgres:
		store, err := recipe.NewPostgresStore(cfg.Database.URL)
		if err != nil {
			return nil, nil, fmt.Errorf("error creating postgresstore: %w", err)
		}
		return store, store, nil
	default:
		return recipe.NewFileStore(cfg.Data.Path), nopCloser{}, nil
	}
}

// LoadCatalog opens the configured store and loads the catalog from it.
func LoadCatalog(ctx context.Context, cfg *config.Config, log *zap.Logger) (*catalog.Catalog, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	store, closer, err := OpenStore(cfg)
	if err != nil {
		return nil, err
	}
	defer closer.Close()

	return catalog.New(ctx, store,
		catalog.WithLocation(loc),
		catalog.WithCacheSize(cfg.Cache.MaxEntries),
		catalog.WithLogger(log.Named("catalog")),
	)
}

// NewNotifier builds the Telegram notifier from configuration.
func NewNotifier(cfg *config.Config) *telegram.Notifier {
	return telegram.NewNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Telegram.AppURL)
}
