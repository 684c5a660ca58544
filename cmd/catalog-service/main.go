package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"edushare/internal/auth"
	"edushare/internal/config"
	"edushare/internal/infrastructure/logger"
	"edushare/internal/infrastructure/metrics"
	"edushare/internal/infrastructure/mysql"
	"edushare/internal/infrastructure/postgres"
	"edushare/internal/product"
	"edushare/internal/product/repository"
	"edushare/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	zapLogger, err := logger.New(cfg.Log.Level, "catalog-service")
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer zapLogger.Sync()

	var repo product.Repository
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		pool, err := postgres.NewPool(context.Background(), cfg.Database)
		if err != nil {
			zapLogger.Fatal("connecting to database", zap.Error(err))
		}
		defer pool.Close()
		repo = repository.NewPostgresRepository(pool)
	default:
		db, err := mysql.NewConnection(cfg.Database)
		if err != nil {
			zapLogger.Fatal("connecting to database", zap.Error(err))
		}
		defer db.Close()
		repo = repository.NewMySQLRepository(db)
	}
	zapLogger.Info("database connected", zap.String("driver", cfg.Database.Driver))

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	serverMetrics := metrics.NewServerMetrics("catalog", registry)

	productCtrl := product.NewModule(repo, zapLogger)
	authClient := auth.NewClient(cfg.Auth.ServiceURL, cfg.Auth.Timeout)

	router := server.NewCatalogRouter(productCtrl, server.Deps{
		Auth:     auth.Middleware(authClient, zapLogger),
		Metrics:  serverMetrics,
		Gatherer: registry,
		Logger:   zapLogger,
		Service:  "catalog-service",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := server.New(cfg.Server, router, zapLogger)
	if err := srv.Run(ctx); err != nil {
		zapLogger.Fatal("server error", zap.Error(err))
	}

	zapLogger.Info("server stopped gracefully")
}
