package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gilby125/weekend-trip-api/api"
	"github.com/gilby125/weekend-trip-api/config"
	"github.com/gilby125/weekend-trip-api/db"
	"github.com/gilby125/weekend-trip-api/pkg/buildinfo"
	"github.com/gilby125/weekend-trip-api/pkg/cache"
	"github.com/gilby125/weekend-trip-api/pkg/health"
	"github.com/gilby125/weekend-trip-api/pkg/logger"
	"github.com/gilby125/weekend-trip-api/pkg/planner"
	"github.com/gilby125/weekend-trip-api/worker"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal(err, "Failed to load configuration")
	}

	logger.Init(logger.Config{
		Level:  cfg.LoggingConfig.Level,
		Format: cfg.LoggingConfig.Format,
	})
	logger.Info("Starting weekend trip API",
		"version", buildinfo.Version,
		"environment", cfg.Environment,
		"timezone", cfg.CalendarConfig.TimezoneName,
	)

	postgresDB, err := db.NewPostgresDB(cfg.PostgresConfig)
	if err != nil {
		logger.Fatal(err, "Failed to connect to PostgreSQL")
	}
	defer postgresDB.Close()

	if cfg.InitSchema {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err := postgresDB.InitSchema(ctx)
		cancel()
		if err != nil {
			logger.Fatal(err, "Failed to initialize PostgreSQL schema")
		}
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisConfig.Addr(),
		Password: cfg.RedisConfig.Password,
		DB:       cfg.RedisConfig.DB,
	})
	defer redisClient.Close()

	plannerOpts := []planner.Option{}
	var cacheManager *cache.CacheManager
	if cfg.CacheConfig.Enabled {
		cacheManager = cache.NewCacheManager(cache.NewRedisCache(redisClient, cfg.CacheConfig.Prefix))
		plannerOpts = append(plannerOpts, planner.WithCache(cacheManager, cfg.CacheConfig.PlanTTL))
	}
	datePlanner := planner.New(cfg.CalendarConfig.Location, plannerOpts...)

	healthChecker := health.NewHealthChecker(buildinfo.Version)
	healthChecker.AddChecker(&health.PostgresChecker{DB: postgresDB, Name: "postgres"})
	healthChecker.AddChecker(&health.RedisChecker{Client: redisClient, Name: "redis"})

	var warmer *worker.Warmer
	if cfg.WarmerConfig.Enabled && cacheManager != nil {
		elector := worker.NewLeaderElector(
			redisClient,
			cfg.WarmerConfig.LockKey,
			cfg.WarmerConfig.LockTTL,
			cfg.WarmerConfig.LockRenew,
			nil,
			nil,
		)
		warmer = worker.NewWarmer(datePlanner, cfg.WarmerConfig.Schedule, elector)
		if err := warmer.Start(); err != nil {
			logger.Fatal(err, "Failed to start cache warmer")
		}
		elector.Start()
		defer warmer.Stop()
		defer elector.Stop()

		healthChecker.AddChecker(&health.WarmerChecker{State: warmer.State, Name: "warmer"})
	} else {
		healthChecker.AddChecker(&health.WarmerChecker{Name: "warmer"})
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	api.RegisterRoutes(router, api.Deps{
		Config:    cfg,
		Planner:   datePlanner,
		Store:     postgresDB,
		Favorites: postgresDB,
		Cache:     cacheManager,
		Health:    healthChecker,
		Warmer:    warmer,
	})

	srv := &http.Server{
		Addr:              net.JoinHostPort(cfg.HTTPBindAddr, cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal(err, "Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error(err, "Server forced to shutdown")
	}

	logger.Info("Server exited")
}
