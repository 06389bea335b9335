// Package main is the entry point for unwrap-svc.
//
// unwrap-svc exposes 2-D phase unwrapping over an HTTP/JSON API. A wrapped
// phase image (values in [-pi, pi]) is turned into integer residues on a dual
// grid, the residues are routed through a minimum-cost-flow network over a
// rectangular grid graph (primal-dual solver with a successive-shortest-paths
// tail), and the flow-corrected gradients are integrated back into an
// unwrapped image.
//
// # Configuration
//
// Configuration is loaded with the following priority (highest to lowest):
//  1. Environment variables (prefix: PHASEFLOW_)
//  2. Config files (config.yaml, config/config.yaml, /etc/phaseflow/config.yaml)
//  3. Default values
//
// Key options (environment variable format):
//
//	PHASEFLOW_HTTP_PORT             - API port (default: 8080)
//	PHASEFLOW_LOG_LEVEL             - debug, info, warn, error (default: info)
//	PHASEFLOW_LOG_FORMAT            - json, text (default: json)
//	PHASEFLOW_METRICS_ENABLED       - Prometheus endpoint (default: true)
//	PHASEFLOW_METRICS_PORT          - Metrics port (default: 9090)
//	PHASEFLOW_TRACING_ENABLED       - OpenTelemetry tracing (default: false)
//	PHASEFLOW_TRACING_ENDPOINT      - OTLP endpoint (default: localhost:4317)
//	PHASEFLOW_CACHE_ENABLED         - Result caching (default: false)
//	PHASEFLOW_CACHE_DRIVER          - memory, redis (default: memory)
//	PHASEFLOW_DATABASE_ENABLED      - Run history in PostgreSQL (default: false)
//	PHASEFLOW_SOLVER_ALGORITHM      - dial, dijkstra (default: dial)
//	PHASEFLOW_SOLVER_MAX_ITERATIONS - Primal-dual cutoff, 0 = unbounded
//
// # Endpoints
//
//	POST /v1/unwrap   - unwrap a wrapped phase image
//	GET  /v1/history  - recent unwrap runs (requires database.enabled)
//	GET  /healthz     - liveness probe
//	GET  /metrics     - Prometheus scrape endpoint (separate port)
package main

import (
	"context"
	"fmt"
	"os"

	"phaseflow/pkg/cache"
	"phaseflow/pkg/config"
	"phaseflow/pkg/database"
	"phaseflow/pkg/logger"
	"phaseflow/pkg/metrics"
	"phaseflow/pkg/server"
	"phaseflow/pkg/telemetry"
	"phaseflow/services/unwrap-svc/internal/handlers"
	"phaseflow/services/unwrap-svc/internal/repository"
	"phaseflow/services/unwrap-svc/internal/service"
)

func main() {
	cfg, err := config.NewLoader().Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.InitWithConfig(logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		FilePath:   cfg.Log.FilePath,
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAge,
		Compress:   cfg.Log.Compress,
	})
	logger.Log.Info("Starting unwrap-svc",
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	ctx := context.Background()

	if cfg.Metrics.Enabled {
		m := metrics.Init(cfg.Metrics.Namespace, cfg.Metrics.Subsystem)
		m.SetServiceInfo(cfg.App.Version, cfg.App.Environment)
		go func() {
			if err := metrics.Serve(cfg.Metrics.Port, cfg.Metrics.Path); err != nil {
				logger.Log.Error("Metrics server failed", "error", err)
			}
		}()
	}

	tp, err := telemetry.Init(ctx, telemetry.Config{
		Enabled:     cfg.Tracing.Enabled,
		Endpoint:    cfg.Tracing.Endpoint,
		ServiceName: cfg.Tracing.ServiceName,
		Version:     cfg.App.Version,
		Environment: cfg.App.Environment,
		SampleRate:  cfg.Tracing.SampleRate,
	})
	if err != nil {
		logger.Fatal("Failed to initialize tracing", "error", err)
	}
	defer func() {
		if err := tp.Shutdown(ctx); err != nil {
			logger.Log.Warn("Tracing shutdown failed", "error", err)
		}
	}()

	var unwrapCache *cache.UnwrapCache
	if cfg.Cache.Enabled {
		backend, err := cache.New(&cache.Options{
			Backend:       cfg.Cache.Driver,
			DefaultTTL:    cfg.Cache.DefaultTTL,
			MaxEntries:    cfg.Cache.MaxEntries,
			RedisAddr:     cfg.Cache.Addr(),
			RedisPassword: cfg.Cache.Password,
			RedisDB:       cfg.Cache.DB,
		})
		if err != nil {
			logger.Fatal("Failed to initialize cache", "error", err)
		}
		unwrapCache = cache.NewUnwrapCache(backend, cfg.Cache.DefaultTTL)
		defer unwrapCache.Close()
		logger.Log.Info("Result cache enabled", "driver", cfg.Cache.Driver)
	}

	var repo repository.Repository
	if cfg.Database.Enabled {
		db, err := database.NewPostgresDB(ctx, &cfg.Database)
		if err != nil {
			logger.Fatal("Failed to connect to database", "error", err)
		}
		defer db.Close()

		if cfg.Database.AutoMigrate {
			if err := repository.Migrate(ctx, db); err != nil {
				logger.Fatal("Failed to run migrations", "error", err)
			}
		}
		repo = repository.NewPostgres(db)
		logger.Log.Info("Run history enabled", "database", cfg.Database.Database)
	}

	svc := service.New(cfg, unwrapCache, repo)
	h := handlers.New(svc, cfg)

	if err := server.New(cfg, h.Routes()).Run(ctx); err != nil {
		logger.Fatal("HTTP server failed", "error", err)
	}

	logger.Log.Info("unwrap-svc stopped")
}
