package alerts

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/omkar-009/stockflow-inventory/internal/domain"
)

type CatalogReader interface {
	FindProduct(ctx context.Context, productID int) (*domain.Product, error)
	ListActiveByCompany(ctx context.Context, companyID int) ([]domain.Product, error)
}

type StockReader interface {
	TotalByProduct(ctx context.Context, productID int) (int, error)
}

type BatchReader interface {
	ListExpiringByCompany(ctx context.Context, companyID int, from, until time.Time) ([]domain.ExpiringBatch, error)
}

type VelocityEstimator interface {
	CalculateVelocity(ctx context.Context, productID int) (float64, error)
}

// Engine classifies stock state into alerts. It is a pure function of
// committed state at call time: nothing is persisted, nothing deduplicated.
type Engine struct {
	catalog          CatalogReader
	stock            StockReader
	velocity         VelocityEstimator
	batches          BatchReader
	horizonDays      int
	criticalDays     int
	expiryWindowDays int
	logger           *zap.Logger
	now              func() time.Time
}

func NewEngine(
	catalog CatalogReader,
	stock StockReader,
	velocity VelocityEstimator,
	batches BatchReader,
	horizonDays, criticalDays, expiryWindowDays int,
	logger *zap.Logger,
) *Engine {
	if horizonDays <= 0 {
		horizonDays = 7
	}
	if criticalDays <= 0 {
		criticalDays = 3
	}
	if expiryWindowDays <= 0 {
		expiryWindowDays = 30
	}
	return &Engine{
		catalog:          catalog,
		stock:            stock,
		velocity:         velocity,
		batches:          batches,
		horizonDays:      horizonDays,
		criticalDays:     criticalDays,
		expiryWindowDays: expiryWindowDays,
		logger:           logger,
		now:              time.Now,
	}
}

// Evaluate runs the low-stock and stockout-risk checks for one product.
// The checks are independent; zero, one or both alerts may fire.
func (e *Engine) Evaluate(ctx context.Context, productID int) ([]domain.Alert, error) {
	product, err := e.catalog.FindProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	return e.evaluateProduct(ctx, *product)
}

func (e *Engine) evaluateProduct(ctx context.Context, product domain.Product) ([]domain.Alert, error) {
	if !product.IsActive {
		return nil, nil
	}

	totalStock, err := e.stock.TotalByProduct(ctx, product.ID)
	if err != nil {
		return nil, fmt.Errorf("reading total stock for product %d: %w", product.ID, err)
	}

	generatedAt := e.now().UTC()
	var alerts []domain.Alert

	if totalStock <= product.LowStockThreshold {
		priority := domain.PriorityMedium
		if totalStock <= product.ReorderPoint {
			priority = domain.PriorityHigh
		}
		alerts = append(alerts, domain.Alert{
			Type:         domain.AlertLowStock,
			ProductID:    product.ID,
			ProductName:  product.Name,
			SKU:          product.SKU,
			CurrentStock: totalStock,
			Threshold:    product.LowStockThreshold,
			Message: fmt.Sprintf("Low stock alert: %s (%s) is below threshold. Current: %d, Threshold: %d",
				product.Name, product.SKU, totalStock, product.LowStockThreshold),
			Priority:    priority,
			GeneratedAt: generatedAt,
		})
	}

	dailyRate, err := e.velocity.CalculateVelocity(ctx, product.ID)
	if err != nil {
		return nil, fmt.Errorf("estimating velocity for product %d: %w", product.ID, err)
	}
	// Zero velocity means depletion cannot be estimated; the risk check
	// never fires in that case.
	if dailyRate > 0 {
		daysUntilStockout := int(math.Floor(float64(totalStock) / dailyRate))
		if daysUntilStockout <= e.horizonDays {
			priority := domain.PriorityHigh
			if daysUntilStockout <= e.criticalDays {
				priority = domain.PriorityCritical
			}
			days := daysUntilStockout
			alerts = append(alerts, domain.Alert{
				Type:              domain.AlertStockoutRisk,
				ProductID:         product.ID,
				ProductName:       product.Name,
				SKU:               product.SKU,
				CurrentStock:      totalStock,
				Threshold:         product.LowStockThreshold,
				DaysUntilStockout: &days,
				Message: fmt.Sprintf("Stockout risk: %s (%s) may run out in %d days. Current stock: %d",
					product.Name, product.SKU, daysUntilStockout, totalStock),
				Priority:    priority,
				GeneratedAt: generatedAt,
			})
		}
	}

	return alerts, nil
}

// EvaluateCompany evaluates every active product of a company. Cancellation
// is honored between products; a partial run is safe because alerts are
// recomputed from scratch on every call.
func (e *Engine) EvaluateCompany(ctx context.Context, companyID int) ([]domain.Alert, error) {
	products, err := e.catalog.ListActiveByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}

	var alerts []domain.Alert
	for _, product := range products {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		productAlerts, err := e.evaluateProduct(ctx, product)
		if err != nil {
			return nil, err
		}
		alerts = append(alerts, productAlerts...)
	}

	return alerts, nil
}

// EvaluateExpiring fires an EXPIRING_SOON alert per batch whose expiry date
// falls inside the window. A non-positive windowDays uses the configured
// default.
func (e *Engine) EvaluateExpiring(ctx context.Context, companyID, windowDays int) ([]domain.Alert, error) {
	if windowDays <= 0 {
		windowDays = e.expiryWindowDays
	}

	now := e.now().UTC()
	until := now.AddDate(0, 0, windowDays)

	batches, err := e.batches.ListExpiringByCompany(ctx, companyID, now, until)
	if err != nil {
		return nil, err
	}

	alerts := make([]domain.Alert, 0, len(batches))
	for _, batch := range batches {
		warehouseID := batch.WarehouseID
		expiryDate := batch.ExpiryDate
		priority := domain.PriorityMedium
		if !expiryDate.After(now.AddDate(0, 0, 7)) {
			priority = domain.PriorityHigh
		}
		alerts = append(alerts, domain.Alert{
			Type:          domain.AlertExpiringSoon,
			ProductID:     batch.ProductID,
			ProductName:   batch.ProductName,
			SKU:           batch.SKU,
			WarehouseID:   &warehouseID,
			WarehouseName: batch.WarehouseName,
			CurrentStock:  batch.Quantity,
			Threshold:     windowDays,
			ExpiryDate:    &expiryDate,
			Message: fmt.Sprintf("Product %s (%d units) is expiring on %s",
				batch.ProductName, batch.Quantity, expiryDate.Format("2006-01-02")),
			Priority:    priority,
			GeneratedAt: now,
		})
	}

	e.logger.Debug("expiring inventory evaluated",
		zap.Int("companyId", companyID),
		zap.Int("windowDays", windowDays),
		zap.Int("alertCount", len(alerts)))

	return alerts, nil
}
