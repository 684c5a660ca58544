package order

import (
	"database/sql"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"edushare/internal/config"
	"edushare/internal/infrastructure/metrics"
	"edushare/internal/order/catalog"
	"edushare/internal/order/controller"
	orderrepo "edushare/internal/order/repository"
	"edushare/internal/order/service"
	"edushare/internal/order/usecase"
)

// NewMySQLRepository and NewPostgresRepository pick the storage backend
// selected by DB_DRIVER.
func NewMySQLRepository(db *sql.DB) usecase.OrderRepository {
	return orderrepo.NewMySQLOrderRepository(db)
}

func NewPostgresRepository(pool *pgxpool.Pool) usecase.OrderRepository {
	return orderrepo.NewPostgresOrderRepository(pool)
}

func NewModule(
	repo usecase.OrderRepository,
	publisher usecase.EventPublisher,
	m *metrics.ServerMetrics,
	cfg *config.Config,
	logger *zap.Logger,
) *controller.OrderController {
	catalogClient := catalog.NewClient(cfg.Catalog.ServiceURL, cfg.Catalog.Timeout)
	validator := service.NewItemValidator(catalogClient, cfg.Catalog.MaxConcurrency, m, logger)

	create := usecase.NewCreateOrderUseCase(validator, repo, publisher, m, logger, cfg.Order.PersistenceTimeout)
	transition := usecase.NewTransitionStatusUseCase(repo, publisher, m, logger, cfg.Order.PersistenceTimeout)
	query := usecase.NewQueryOrdersUseCase(repo)

	return controller.NewOrderController(create, transition, query, logger)
}
