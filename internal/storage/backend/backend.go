// Package backend opens the storage.KV selected by configuration.
package backend

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mmynk/autorug/internal/config"
	"github.com/mmynk/autorug/internal/storage"
	"github.com/mmynk/autorug/internal/storage/memory"
	"github.com/mmynk/autorug/internal/storage/redis"
	"github.com/mmynk/autorug/internal/storage/sqlite"
)

// Open returns the store named by cfg.Driver. The caller closes it.
func Open(ctx context.Context, cfg config.StorageConfig) (storage.KV, error) {
	switch cfg.Driver {
	case "sqlite":
		store, err := sqlite.New(cfg.DBPath)
		if err != nil {
			return nil, err
		}
		slog.Info("Storage initialized", "driver", cfg.Driver, "database", cfg.DBPath)
		return store, nil
	case "redis":
		store, err := redis.New(ctx, redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return nil, err
		}
		slog.Info("Storage initialized", "driver", cfg.Driver, "addr", cfg.RedisAddr, "db", cfg.RedisDB)
		return store, nil
	case "memory":
		slog.Warn("Using in-memory storage, data is lost on exit")
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
