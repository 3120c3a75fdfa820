package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	server "tourguide/internal/adapters/http_server"
	"tourguide/internal/adapters/observability"
	redisad "tourguide/internal/adapters/redis"
	"tourguide/internal/adapters/remote"
	"tourguide/internal/app"
	"tourguide/internal/domain"
	"tourguide/internal/geo"
	"tourguide/internal/shared"
	mysqlrepo "tourguide/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gpsClient, err := remote.New("gps", cfg.GPSBase, cfg.GPSKey, cfg.RemoteRPS, cfg.RemoteTO)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize GPS client")
	}
	rewardsClient, err := remote.New("rewards", cfg.RewardsBase, cfg.RewardsKey, cfg.RemoteRPS, cfg.RemoteTO)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize rewards client")
	}
	gps := remote.NewGPS(gpsClient)

	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB, cfg.CachePfx)
	defer cache.Close()

	checks := map[string]server.Check{"redis": cache.Ping}

	var source domain.AttractionCatalog = gps
	if cfg.CatalogSource == "mysql" {
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("sql.Open failed")
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			log.Fatal().Err(err).Msg("db.Ping failed")
		}
		log.Info().Msg("database connection ok")
		repo := mysqlrepo.New(db)
		source = repo
		checks["mysql"] = repo.Ping
	}

	catalog := app.NewCachedCatalog(source, cache, cfg.CacheTTL)
	scorer := app.NewCachedScorer(app.NewRewardScorer(remote.NewRewards(rewardsClient)), cache, cfg.ScoreCacheTTL)
	prox := geo.NewProximity(cfg.ProximityBuffer, cfg.AttractionRange)
	pool := app.NewWorkerPool(cfg.ScoringWorkers)

	rewards := app.NewRewardService(catalog, scorer, prox, pool)
	nearby := app.NewNearbyService(scorer, prox, pool)

	users := app.NewUserRegistry()
	for i, id := range cfg.TrackUserIDs {
		users.Add(app.NewUser(id, fmt.Sprintf("user%d", i)))
	}
	svc := app.NewTourGuideService(users, gps, catalog, rewards, nearby, cfg.NearbyTopK)
	tracker := app.NewTracker(svc, cfg.TrackInterval, cfg.TrackWorkers)

	// admin http
	srv := server.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountProbes(&server.Probes{Draining: pool.Closed, Checks: checks})
	httpSrv := &http.Server{Addr: cfg.AdminAddr, Handler: srv.Mux(), ReadHeaderTimeout: 5 * time.Second}

	go func() {
		log.Info().Str("addr", cfg.AdminAddr).Msg("admin listening")
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("admin server failed")
		}
	}()

	log.Info().
		Int("users", len(cfg.TrackUserIDs)).
		Str("catalog", cfg.CatalogSource).
		Dur("interval", cfg.TrackInterval).
		Int("scoring_workers", pool.Size()).
		Msg("tracker starting")
	// scoring must not see the signal; workCtx is cancelled only once the grace period is over
	workCtx, cancelWork := context.WithCancel(context.Background())
	defer cancelWork()
	go tracker.Run(workCtx)

	<-ctx.Done()
	log.Info().Dur("grace", cfg.ShutdownGrace).Msg("shutdown requested")

	drainCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownGrace)
	defer cancel()
	_ = tracker.Shutdown(drainCtx, cancelWork)

	httpCtx, cancelHTTP := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelHTTP()
	if err := httpSrv.Shutdown(httpCtx); err != nil {
		log.Warn().Err(err).Msg("admin server shutdown")
	}
	log.Info().Msg("tracker stopped")
}
