package main

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"tourguide/internal/adapters/observability"
	redisad "tourguide/internal/adapters/redis"
	"tourguide/internal/adapters/remote"
	"tourguide/internal/app"
	"tourguide/internal/shared"
	mysqlrepo "tourguide/internal/storage/mysql"
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()
	cfg := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	log.Info().
		Str("base", cfg.GPSBase).
		Int("workers", cfg.SyncWorkers).
		Msg("catalog sync starting")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	repo := mysqlrepo.New(db)

	client, err := remote.New("gps", cfg.GPSBase, cfg.GPSKey, cfg.RemoteRPS, cfg.RemoteTO)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize GPS client")
	}
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB, cfg.CachePfx)
	defer cache.Close()

	// the tracker reads the catalog through the same cache entry
	cached := app.NewCachedCatalog(repo, cache, cfg.CacheTTL)
	res, err := app.NewCatalogSyncService(remote.NewGPS(client), repo, cached, cfg.SyncWorkers).Sync(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("catalog sync failed")
	}
	log.Info().
		Int("fetched", res.Fetched).
		Int("upserted", res.Upserted).
		Int("skipped", res.Skipped).
		Int("failed", res.Failed).
		Msg("catalog sync completed")
}
