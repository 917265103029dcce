package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mcoot/partygames/internal/api"
	"github.com/mcoot/partygames/internal/config"
	"github.com/mcoot/partygames/internal/factory"
	"github.com/mcoot/partygames/internal/middleware"
	"github.com/mcoot/partygames/internal/services/auth"
	"github.com/mcoot/partygames/internal/services/session"
	"github.com/mcoot/partygames/internal/services/words"
	"github.com/mcoot/partygames/internal/storage/postgres"
	redisstorage "github.com/mcoot/partygames/internal/storage/redis"
)

const (
	// Idle clients are dropped from the rate limiter after this long
	limiterIdle = 10 * time.Minute

	// Event hubs with no subscribers are closed after this long
	hubIdle = 5 * time.Minute
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Set up logging
	logger := cfg.Logger()
	slog.SetDefault(logger)

	// Build factory config
	wordsCfg := words.DefaultConfig()
	wordsCfg.BaseURL = cfg.WordsAPIURL
	wordsCfg.Timeout = cfg.WordsAPITimeout

	authCfg := auth.DefaultConfig()
	authCfg.TokenCost = cfg.TokenCost

	factoryCfg := factory.Config{
		AuthConfig:    authCfg,
		SessionConfig: session.Config{TickInterval: cfg.TickInterval},
		WordsConfig:   &wordsCfg,
		Logger:        logger,
		StorageType:   cfg.StorageType,
	}

	// Configure Redis if storage type is redis
	if cfg.StorageType == factory.StorageTypeRedis {
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.RedisURL
		factoryCfg.RedisConfig = &redisCfg
	}
	if cfg.StorageType == factory.StorageTypePostgres {
		pgCfg := postgres.DefaultConfig()
		pgCfg.URL = cfg.DatabaseURL
		factoryCfg.PostgresConfig = &pgCfg
	}

	// Create application factory
	app, err := factory.New(factoryCfg)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Error("close error", slog.String("error", err.Error()))
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Seed the word cache so games work offline from the first start
	if cfg.WordsDir != "" {
		if _, err := app.WordsService.LoadDir(ctx, cfg.WordsDir); err != nil {
			logger.Warn("could not load word lists", slog.String("error", err.Error()))
		}
	}

	// Sessions kept in redis may have timers that were running at shutdown
	if err := app.SessionController.ResumeTimers(ctx); err != nil {
		logger.Warn("could not resume timers", slog.String("error", err.Error()))
	}

	limiter := middleware.NewClientLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	go func() {
		ticker := time.NewTicker(limiterIdle)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				limiter.Cleanup(limiterIdle)
				app.EventManager.CleanupIdle(hubIdle)
			case <-ctx.Done():
				return
			}
		}
	}()

	// Create API router
	router := api.NewRouter(api.RouterConfig{
		Logger:             logger,
		SessionController:  app.SessionController,
		EventManager:       app.EventManager,
		WordsService:       app.WordsService,
		PreferencesService: app.PreferencesService,
		RateLimiter:        limiter,
		AllowedOrigins:     cfg.AllowedOrigins,
	})

	// Create server
	serverConfig := api.DefaultServerConfig()
	serverConfig.Host = cfg.Host
	serverConfig.Port = cfg.Port
	server := api.NewServer(router, serverConfig, logger)

	// Handle graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutdown signal received")
		cancel()
	}()

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started", slog.String("addr", server.Addr()))

	// Wait for shutdown or error
	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			cancel()
			return
		}
	case <-ctx.Done():
		// Open event streams would otherwise hold shutdown until its timeout
		app.EventManager.Close()
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
		}
	}

	logger.Info("server stopped")
}
