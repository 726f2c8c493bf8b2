package factory

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/reliefgrid/reliefgrid/internal/cache"
	"github.com/reliefgrid/reliefgrid/internal/config"
	"github.com/reliefgrid/reliefgrid/internal/store"
	"github.com/reliefgrid/reliefgrid/internal/store/memory"
	"github.com/reliefgrid/reliefgrid/internal/store/sqlite"
)

// NewStore selects the record store backend based on cfg.StoreDriver.
// Consumers receive the store.Store interface only; the choice of backend
// is fixed here, at process startup.
func NewStore(cfg *config.Config) (store.Store, error) {
	switch cfg.StoreDriver {
	case "sqlite":
		return sqlite.New(cfg.SQLitePath)
	case "memory":
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER: %s", cfg.StoreDriver)
	}
}

// NewCache opens the lookup cache, on disk or in memory per config.
func NewCache(cfg *config.Config, log zerolog.Logger) (cache.Cache, error) {
	return cache.Open(cfg.CachePath, cfg.CacheInMemory, log)
}
