// Package app assembles the service from configuration. Both binaries share it.
package app

import (
	"context"
	"database/sql"

	"github.com/redis/go-redis/v9"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"vessel-match-service/internal/adapters/cache"
	"vessel-match-service/internal/adapters/proximity"
	"vessel-match-service/internal/adapters/repositories"
	"vessel-match-service/internal/config"
	"vessel-match-service/internal/matching"
	"vessel-match-service/internal/platform/db"
	"vessel-match-service/internal/ports"
	"vessel-match-service/internal/services"
)

type App struct {
	Service   *services.MatchingService
	Repo      ports.OfferRepository
	Anchors   ports.PortAnchorStore
	Estimator *proximity.TableEstimator

	closers []func()
}

// Build opens the configured store and cache, loads port anchors and returns
// a ready service. Close releases everything Build opened.
func Build(ctx context.Context, cfg *config.Config) (_ *App, err error) {
	a := &App{}
	defer func() {
		if err != nil {
			a.Close()
		}
	}()

	if err := a.openStore(ctx, cfg.Store); err != nil {
		return nil, err
	}

	if cfg.Store.SeedOnStart && cfg.Store.SeedPath != "" {
		n, err := repositories.SeedFromJSON(ctx, a.Repo, cfg.Store.SeedPath)
		if err != nil {
			return nil, eris.Wrap(err, "app: seed offers")
		}
		zap.L().Info("seeded offers", zap.Int("count", n), zap.String("path", cfg.Store.SeedPath))
	}

	if err := a.loadAnchors(ctx, cfg.Store.AnchorsPath); err != nil {
		return nil, err
	}

	rc, err := a.openCache(ctx, cfg.Cache)
	if err != nil {
		return nil, err
	}

	engine := matching.NewEngine(cfg.Matching, a.Estimator)
	a.Service = services.NewMatchingService(a.Repo, rc, engine, services.Options{
		WarmupDelay: cfg.Preferences.Debounce(),
		Logger:      zap.L().Named("matching"),
	})
	a.closers = append(a.closers, a.Service.Close)
	return a, nil
}

func (a *App) openStore(ctx context.Context, cfg config.StoreConfig) error {
	switch cfg.Driver {
	case "memory":
		a.Repo = repositories.NewMemoryOfferRepository()

	case "sqlite":
		sqlDB, err := db.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return err
		}
		a.closers = append(a.closers, func() { _ = sqlDB.Close() })
		if err := repositories.InitSchema(ctx, sqlDB); err != nil {
			return err
		}
		a.Repo = repositories.NewSqliteOfferRepository(sqlDB)
		a.Anchors = repositories.NewSqliteAnchorStore(sqlDB)

	case "postgres":
		sqlDB, err := db.Open(cfg.DatabaseURL)
		if err != nil {
			return err
		}
		a.closers = append(a.closers, func() { _ = sqlDB.Close() })
		if err := repositories.InitPostgresSchema(ctx, sqlDB); err != nil {
			return err
		}
		pool, err := db.OpenPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		a.closers = append(a.closers, pool.Close)
		a.Repo = repositories.NewPostgresOfferRepository(pool)
		a.Anchors = repositories.NewPostgresAnchorStore(sqlDB)

	default:
		return eris.Errorf("app: unknown store driver %q", cfg.Driver)
	}
	return nil
}

// loadAnchors layers the built-in table, the optional YAML file and the
// anchor store, in that order.
func (a *App) loadAnchors(ctx context.Context, path string) error {
	anchors, err := proximity.DefaultAnchors()
	if err != nil {
		return eris.Wrap(err, "app: built-in anchors")
	}
	a.Estimator = proximity.NewTableEstimator(anchors)

	if path != "" {
		extra, err := proximity.LoadAnchorsFile(path)
		if err != nil {
			return err
		}
		a.Estimator.Add(extra)
	}
	if a.Anchors != nil {
		if err := a.Estimator.Refresh(ctx, a.Anchors); err != nil {
			return err
		}
	}
	return nil
}

func (a *App) openCache(ctx context.Context, cfg config.CacheConfig) (ports.RankingCache, error) {
	if cfg.Backend != "redis" {
		return cache.NewMemoryRankingCache(cfg.MaxEntries), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	a.closers = append(a.closers, func() { _ = client.Close() })
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, eris.Wrapf(err, "app: ping redis %s", cfg.Redis.Addr)
	}
	return cache.NewRedisRankingCache(client, "", cfg.Redis.TTL()), nil
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

// OpenSQL opens the configured SQL database for schema tooling. The memory
// driver has no database and yields nil.
func OpenSQL(cfg config.StoreConfig) (*sql.DB, error) {
	switch cfg.Driver {
	case "sqlite":
		return db.OpenSQLite(cfg.SQLitePath)
	case "postgres":
		return db.Open(cfg.DatabaseURL)
	default:
		return nil, nil
	}
}
