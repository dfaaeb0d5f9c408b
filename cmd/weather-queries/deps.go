package main

import (
	"context"
	"fmt"

	"github.com/i474232898/weather-queries/internal/config"
	"github.com/i474232898/weather-queries/internal/location"
	"github.com/i474232898/weather-queries/internal/store"
	"github.com/i474232898/weather-queries/internal/weather"
	"github.com/i474232898/weather-queries/internal/weather/providers"
)

// openStore returns the storage backend selected by DB_DRIVER. SQL
// backends get their schema created before use.
func openStore(ctx context.Context, cfg *config.AppConfig) (weather.Store, error) {
	if cfg.DBDriver == config.DriverMemory {
		return store.NewMemoryStore(), nil
	}

	sqlStore, err := store.Open(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.DBDriver, err)
	}
	if err := sqlStore.Migrate(ctx); err != nil {
		_ = sqlStore.Close()
		return nil, fmt.Errorf("migrate %s store: %w", cfg.DBDriver, err)
	}
	return sqlStore, nil
}

// newService wires the geocoder, the weather provider and the store.
func newService(cfg *config.AppConfig, st weather.Store) *weather.Service {
	// Shared HTTP client for outbound provider calls.
	client := providers.NewHTTPClient(cfg.HTTPTimeout)

	resolver := location.NewResolver(client, cfg.GeoapifyURL, cfg.GeoapifyAPIKey)
	provider := providers.NewOpenMeteoProvider(client, cfg.OpenMeteoURL)

	return weather.NewService(resolver, provider, st)
}
