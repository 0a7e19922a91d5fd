package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	diseasehandler "epiwatch/internal/disease/handler"
	diseaseservice "epiwatch/internal/disease/service"
	diseasestore "epiwatch/internal/disease/store"
	"epiwatch/internal/geolocation"
	httpapi "epiwatch/internal/http"
	"epiwatch/internal/news"
	"epiwatch/internal/platform/config"
	"epiwatch/internal/platform/httpserver"
	"epiwatch/internal/platform/logger"
	"epiwatch/internal/platform/metrics"
	"epiwatch/internal/platform/middleware"
	"epiwatch/internal/platform/postgres"
	platformredis "epiwatch/internal/platform/redis"
	popservice "epiwatch/internal/population/service"
	popstore "epiwatch/internal/population/store"
	regionhandler "epiwatch/internal/region/handler"
	regionmodels "epiwatch/internal/region/models"
	regionservice "epiwatch/internal/region/service"
	regionstore "epiwatch/internal/region/store"
)

// main wires high-level dependencies and keeps the server lifecycle small.
// Business logic lives in the internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel)
	ctx := context.Background()

	db, err := postgres.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("storage connection failed", "error", err.Error())
		os.Exit(1)
	}
	defer db.Close()

	// Geolocation is optional: without a database, current-region always
	// falls back to the configured default.
	var locator regionservice.Locator
	if cfg.GeoIPPath != "" {
		geo, err := geolocation.Open(cfg.GeoIPPath)
		if err != nil {
			log.Error("geolocation database failed to open", "path", cfg.GeoIPPath, "error", err.Error())
			os.Exit(1)
		}
		defer geo.Close()
		locator = geo
	}

	m := metrics.New()

	popSvc := popservice.New(popstore.NewPostgres(db))
	regionSvc := regionservice.New(regionstore.NewPostgres(db), locator, regionmodels.Parse(cfg.DefaultRegion))

	var searcher diseaseservice.Searcher
	if cfg.NewsAPIURL != "" {
		searcher = news.NewClient(cfg.NewsAPIURL, cfg.NewsAPIKey, m)
	}
	diseaseSvc := diseaseservice.New(diseasestore.NewPostgres(db), popSvc, regionSvc, searcher)

	throttle := buildThrottle(ctx, cfg, log)

	router := httpapi.New(httpapi.Deps{
		Logger:   log,
		Metrics:  m,
		Storage:  db,
		Throttle: throttle,
		Handlers: []httpapi.Registrar{
			regionhandler.New(regionSvc, log),
			diseasehandler.New(diseaseSvc, log),
		},
		StaticDir: cfg.StaticDir,
	})

	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting epiwatch", "addr", cfg.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err.Error())
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err.Error())
		os.Exit(1)
	}
}

// buildThrottle assembles the per-IP request limiter: Redis-backed when
// configured, in-process otherwise, disabled when the limit is zero.
func buildThrottle(ctx context.Context, cfg config.Server, log *slog.Logger) func(http.Handler) http.Handler {
	if cfg.ThrottleLimit <= 0 {
		return nil
	}

	rdb, err := platformredis.New(ctx, cfg.RedisURL)
	if err != nil {
		log.Error("redis connection failed", "error", err.Error())
		os.Exit(1)
	}

	var limiter middleware.Limiter
	if rdb != nil {
		limiter = middleware.NewRedisLimiter(rdb.Client, cfg.ThrottleLimit, cfg.ThrottleWindow)
	} else {
		limiter = middleware.NewMemoryLimiter(cfg.ThrottleLimit, cfg.ThrottleWindow)
	}
	return middleware.Throttle(limiter, log)
}
