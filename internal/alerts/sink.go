package alerts

import (
	"context"

	"go.uber.org/zap"

	"github.com/omkar-009/stockflow-inventory/internal/domain"
)

// LogSink is the default notification sink: it writes alerts to the
// application log. Used when no message broker is configured.
type LogSink struct {
	logger *zap.Logger
}

func NewLogSink(logger *zap.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) PublishAlerts(_ context.Context, alerts []domain.Alert) error {
	for _, alert := range alerts {
		s.logger.Warn("stock alert",
			zap.String("type", string(alert.Type)),
			zap.Int("productId", alert.ProductID),
			zap.String("sku", alert.SKU),
			zap.Int("currentStock", alert.CurrentStock),
			zap.String("priority", string(alert.Priority)),
			zap.String("message", alert.Message))
	}
	return nil
}
