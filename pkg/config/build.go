package config

import (
	"context"
	"os"
	"path/filepath"

	"github.com/cloudplot/cloudplot/pkg/cache"
	"github.com/cloudplot/cloudplot/pkg/errors"
	"github.com/cloudplot/cloudplot/pkg/store"
	"github.com/cloudplot/cloudplot/pkg/store/memory"
	mongostore "github.com/cloudplot/cloudplot/pkg/store/mongo"
)

// OpenCache constructs the cache backend selected by the configuration.
func OpenCache(ctx context.Context, cfg CacheConfig) (cache.Cache, error) {
	switch cfg.Backend {
	case "none":
		return cache.NewNullCache(), nil

	case "redis":
		return cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})

	case "file", "":
		dir := cfg.Dir
		if dir == "" {
			base, err := os.UserCacheDir()
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInternal, err, "failed to locate user cache dir")
			}
			dir = filepath.Join(base, "cloudplot")
		}
		return cache.NewFileCache(dir)

	default:
		return nil, errors.New(errors.ErrCodeInvalidOptions, "unknown cache backend: %q", cfg.Backend)
	}
}

// OpenStore constructs the diagram store backend selected by the configuration.
func OpenStore(ctx context.Context, cfg StoreConfig) (store.Store, error) {
	switch cfg.Backend {
	case "mongo":
		return mongostore.NewStore(ctx, mongostore.Config{
			URI:        cfg.MongoURI,
			Database:   cfg.MongoDatabase,
			Collection: cfg.MongoCollection,
		})

	case "memory", "":
		return memory.NewStore(), nil

	default:
		return nil, errors.New(errors.ErrCodeInvalidOptions, "unknown store backend: %q", cfg.Backend)
	}
}
