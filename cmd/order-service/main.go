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
	"edushare/internal/infrastructure/kafka"
	"edushare/internal/infrastructure/logger"
	"edushare/internal/infrastructure/metrics"
	"edushare/internal/infrastructure/mysql"
	"edushare/internal/infrastructure/postgres"
	"edushare/internal/order"
	"edushare/internal/order/events"
	"edushare/internal/order/usecase"
	"edushare/internal/server"
)

type eventPublisher interface {
	usecase.EventPublisher
	Close() error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	zapLogger, err := logger.New(cfg.Log.Level, "order-service")
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer zapLogger.Sync()

	var repo usecase.OrderRepository
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		pool, err := postgres.NewPool(context.Background(), cfg.Database)
		if err != nil {
			zapLogger.Fatal("connecting to database", zap.Error(err))
		}
		defer pool.Close()
		repo = order.NewPostgresRepository(pool)
	default:
		db, err := mysql.NewConnection(cfg.Database)
		if err != nil {
			zapLogger.Fatal("connecting to database", zap.Error(err))
		}
		defer db.Close()
		repo = order.NewMySQLRepository(db)
	}
	zapLogger.Info("database connected", zap.String("driver", cfg.Database.Driver))

	var publisher eventPublisher = events.NopPublisher{}
	if kc := kafka.NewClient(cfg.Kafka.Brokers); kc.Enabled() {
		publisher = events.NewKafkaPublisher(kc.NewWriter(cfg.Kafka.Topic))
		zapLogger.Info("share events enabled", zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))
	}
	defer publisher.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	serverMetrics := metrics.NewServerMetrics("order", registry)

	orderCtrl := order.NewModule(repo, publisher, serverMetrics, cfg, zapLogger)
	authClient := auth.NewClient(cfg.Auth.ServiceURL, cfg.Auth.Timeout)

	router := server.NewOrderRouter(orderCtrl, server.Deps{
		Auth:     auth.Middleware(authClient, zapLogger),
		Metrics:  serverMetrics,
		Gatherer: registry,
		Logger:   zapLogger,
		Service:  "order-service",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := server.New(cfg.Server, router, zapLogger)
	if err := srv.Run(ctx); err != nil {
		zapLogger.Fatal("server error", zap.Error(err))
	}

	zapLogger.Info("server stopped gracefully")
}
