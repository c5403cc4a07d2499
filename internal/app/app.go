package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"herovault/internal/cache"
	"herovault/internal/config"
	"herovault/internal/repository"
	"herovault/internal/service"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// App bundles the connected stores and the gateway built on them
type App struct {
	Config  *config.Config
	Logger  *slog.Logger
	Repo    repository.PlayerRepo
	Redis   *redis.Client // nil when REDIS_URI is empty
	Gateway *service.Gateway

	closers []func(context.Context) error
}

// New connects the configured store and optional Redis and wires the gateway
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	a := &App{Config: cfg, Logger: logger}

	if err := a.openStore(ctx); err != nil {
		a.Close(ctx)
		return nil, err
	}

	var feed cache.PlayerFeed
	if cfg.RedisAddr == "" {
		logger.Info("redis disabled, using in-process feed")
		feed = cache.NewLocalFeed()
	} else {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		a.closers = append(a.closers, func(context.Context) error { return rdb.Close() })
		if err := rdb.Ping(ctx).Err(); err != nil {
			a.Close(ctx)
			return nil, fmt.Errorf("ping redis: %w", err)
		}
		logger.Info("connected to redis", "addr", cfg.RedisAddr)
		a.Redis = rdb
		feed = cache.NewRedisFeed(rdb, logger)
	}

	a.Gateway = service.NewGateway(a.Repo, feed, logger)
	if a.Redis != nil {
		a.Gateway.SetCache(cache.NewPlayerCache(a.Redis, cfg.CacheTTL))
		a.Gateway.SetLeaderboard(cache.NewLeaderboardCache(a.Redis))
	}
	return a, nil
}

func (a *App) openStore(ctx context.Context) error {
	switch a.Config.Store {
	case config.StoreSQLite:
		db, err := repository.OpenSQLite(ctx, a.Config.SQLitePath)
		if err != nil {
			return err
		}
		a.closers = append(a.closers, func(context.Context) error { return db.Close() })
		a.Repo = repository.NewSQLitePlayerRepo(db)
		a.Logger.Info("opened sqlite store", "path", a.Config.SQLitePath)

	case config.StoreMongo:
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(a.Config.MongoURI))
		if err != nil {
			return fmt.Errorf("connect mongo: %w", err)
		}
		a.closers = append(a.closers, client.Disconnect)

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx, nil); err != nil {
			return fmt.Errorf("ping mongo: %w", err)
		}
		a.Repo = repository.NewPlayerRepo(client.Database(a.Config.MongoDatabase))
		a.Logger.Info("connected to mongo", "database", a.Config.MongoDatabase)

	default:
		return fmt.Errorf("unknown store %q", a.Config.Store)
	}
	return nil
}

// Close releases connections in reverse order of opening
func (a *App) Close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
