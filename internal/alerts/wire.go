package alerts

import (
	"database/sql"

	"go.uber.org/zap"

	catalogrepo "github.com/omkar-009/stockflow-inventory/internal/catalog/repository"
	"github.com/omkar-009/stockflow-inventory/internal/config"
	ledgerrepo "github.com/omkar-009/stockflow-inventory/internal/ledger/repository"
	"github.com/omkar-009/stockflow-inventory/internal/velocity"
	warehouserepo "github.com/omkar-009/stockflow-inventory/internal/warehouse/repository"
)

func NewModule(db *sql.DB, cfg *config.Config, logger *zap.Logger) *Engine {
	productRepo := catalogrepo.NewMySQLProductRepository(db)
	stockRepo := ledgerrepo.NewMySQLStockRepository(db)
	movementRepo := ledgerrepo.NewMySQLMovementRepository(db)
	batchRepo := warehouserepo.NewMySQLBatchRepository(db)

	estimator := velocity.NewEstimator(movementRepo, cfg.Alerts.VelocityWindowDays)

	return NewEngine(
		productRepo,
		stockRepo,
		estimator,
		batchRepo,
		cfg.Alerts.StockoutHorizonDays,
		cfg.Alerts.StockoutCriticalDays,
		cfg.Alerts.ExpiryWindowDays,
		logger,
	)
}
