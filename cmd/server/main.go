package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/redis/go-redis/v9"

	"linkcut/internal/cache"
	"linkcut/internal/config"
	"linkcut/internal/httpapi"
	applog "linkcut/internal/logger"
	"linkcut/internal/registry"
	"linkcut/internal/snowflake"
	"linkcut/internal/storage"
)

func main() {
	cfg := config.Load()
	applog.InitFromEnv()
	log := applog.Default()

	db, err := storage.Open(cfg.DBDriver, cfg.DBURL, applog.NewGormLogger(cfg.GormLogLevel))
	if err != nil {
		slog.Error("unable to open database", "driver", cfg.DBDriver, "err", err)
		os.Exit(1)
	}
	store := storage.NewGormStore(db, log)

	var resolveCache registry.ResolveCache
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			slog.Error("unable to connect to redis", "addr", cfg.RedisAddr, "err", err)
			os.Exit(1)
		}
		resolveCache = cache.NewRedisCache(rdb, cfg.CacheTTL, log)
		slog.Info("resolve cache enabled", "addr", cfg.RedisAddr, "ttl", cfg.CacheTTL)
	}

	ids, err := snowflake.New(cfg.NodeID)
	if err != nil {
		slog.Error("invalid node id", "node_id", cfg.NodeID, "err", err)
		os.Exit(1)
	}

	reg := registry.New(registry.Config{
		Store:      store,
		IDs:        ids,
		CodeLength: cfg.CodeLength,
		Cache:      resolveCache,
		Logger:     log,
	})

	app := httpapi.NewApp(httpapi.NewHandler(reg, cfg.BaseURL))

	slog.Info("starting server", "addr", cfg.Addr, "base_url", cfg.BaseURL, "db_driver", cfg.DBDriver)
	if err := app.Listen(cfg.Addr); err != nil {
		slog.Error("server failed", "err", err)
		os.Exit(1)
	}
}
