package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/athletedex/internal/config"
	"github.com/kailas-cloud/athletedex/internal/db/postgres"
	dbRedis "github.com/kailas-cloud/athletedex/internal/db/redis"
	logpkg "github.com/kailas-cloud/athletedex/internal/logger"
	"github.com/kailas-cloud/athletedex/internal/metrics"
	"github.com/kailas-cloud/athletedex/internal/ratelimit"
	"github.com/kailas-cloud/athletedex/internal/repository/cache"
	"github.com/kailas-cloud/athletedex/internal/search"
	chiTransport "github.com/kailas-cloud/athletedex/internal/transport/chi"
	athleteuc "github.com/kailas-cloud/athletedex/internal/usecase/athlete"
	healthuc "github.com/kailas-cloud/athletedex/internal/usecase/health"
	"github.com/kailas-cloud/athletedex/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting athletedex API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("cache_addrs", cfg.Cache.Addrs),
		zap.Bool("rate_limit", cfg.RateLimit.IsEnabled()),
	)

	metrics.RegisterDomainMetrics(prometheus.DefaultRegisterer)

	// Relational store
	store, err := postgres.Open(postgres.Config{
		DSN:          cfg.Database.DSN,
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to open database", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	if cfg.Database.AutoMigrate {
		if err := store.AutoMigrate(ctx); err != nil {
			logger.Fatal("Failed to migrate database", zap.Error(err))
		}
	}
	logger.Info("Connected to database")

	// Response cache. The connection opens on first use; failures degrade to misses.
	respCache, cachePinger, closeCache := buildCache(cfg.Cache, logger)
	defer closeCache()

	engine := search.New(search.Options{
		Threshold:      cfg.Search.Threshold,
		MinMatchLength: cfg.Search.MinMatchLength,
		Limit:          cfg.Search.Limit,
	})

	athleteSvc := athleteuc.New(
		store, store, respCache, engine,
		time.Duration(cfg.Cache.ResponseTTLSec)*time.Second, logger,
	)
	healthSvc := healthuc.New(store, cachePinger)

	routerCfg := chiTransport.RouterConfig{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		CORSMaxAgeSec:  cfg.CORS.MaxAgeSec,
	}
	if cfg.RateLimit.IsEnabled() {
		routerCfg.APILimiter = ratelimit.New(ratelimit.NameAPI,
			time.Duration(cfg.RateLimit.API.WindowSec)*time.Second, cfg.RateLimit.API.Max)
		routerCfg.SearchLimiter = ratelimit.New(ratelimit.NameSearch,
			time.Duration(cfg.RateLimit.Search.WindowSec)*time.Second, cfg.RateLimit.Search.Max)
	}

	server := chiTransport.NewServer(athleteSvc, healthSvc, athleteSvc.TTL(), logger)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      chiTransport.NewRouter(server, routerCfg, logger),
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// buildCache returns the response cache, its health pinger (nil when caching is off) and a closer.
func buildCache(cfg config.CacheConfig, logger *zap.Logger) (*cache.Cache, healthuc.Pinger, func()) {
	cacheCfg := cache.Config{
		DefaultTTL: time.Duration(cfg.DefaultTTLSec) * time.Second,
		OpTimeout:  time.Duration(cfg.OpTimeoutMillis) * time.Millisecond,
	}
	if len(cfg.Addrs) == 0 || cfg.Addrs[0] == "" {
		logger.Warn("Cache disabled: no addresses configured")
		return cache.Disabled(logger), nil, func() {}
	}

	kv, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Addrs,
		Username: cfg.Username,
		Password: cfg.Password,
		DB:       cfg.DB,
		Timeout:  cacheCfg.OpTimeout,
		Backoff:  time.Duration(cfg.RedialBackoffMillis) * time.Millisecond,
	})
	if err != nil {
		logger.Warn("Cache disabled", zap.Error(err))
		return cache.Disabled(logger), nil, func() {}
	}
	return cache.New(kv, cacheCfg, metrics.CacheOperationsTotal, logger), kv, kv.Close
}
