package fulfillment

import (
	"go.uber.org/zap"

	"github.com/omkar-009/stockflow-inventory/internal/alerts"
	"github.com/omkar-009/stockflow-inventory/internal/config"
	"github.com/omkar-009/stockflow-inventory/internal/ledger"
)

func NewModule(store *ledger.Store, engine *alerts.Engine, sink NotificationSink, cfg *config.Config, logger *zap.Logger) *Coordinator {
	return NewCoordinator(store, engine, sink, logger, cfg.Ledger.MaxRetryAttempts)
}
