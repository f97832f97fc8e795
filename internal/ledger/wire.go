package ledger

import (
	"database/sql"

	"go.uber.org/zap"

	"github.com/omkar-009/stockflow-inventory/internal/config"
	"github.com/omkar-009/stockflow-inventory/internal/ledger/repository"
)

func NewModule(db *sql.DB, cfg *config.Config, logger *zap.Logger) *Store {
	stockRepo := repository.NewMySQLStockRepository(db)
	movementRepo := repository.NewMySQLMovementRepository(db)

	return NewStore(db, stockRepo, movementRepo, logger, cfg.Ledger.TxTimeout)
}
