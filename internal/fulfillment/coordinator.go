package fulfillment

import (
	"context"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/omkar-009/stockflow-inventory/internal/domain"
	apperrors "github.com/omkar-009/stockflow-inventory/internal/errors"
	"github.com/omkar-009/stockflow-inventory/internal/ledger"
)

type LedgerStore interface {
	AdjustMany(ctx context.Context, adjustments []ledger.Adjustment) ([]domain.StockRecord, error)
}

type AlertEvaluator interface {
	Evaluate(ctx context.Context, productID int) ([]domain.Alert, error)
}

type NotificationSink interface {
	PublishAlerts(ctx context.Context, alerts []domain.Alert) error
}

// Request is one order to fulfill. It is never persisted here; the order
// service stores the resulting order once fulfillment succeeds.
type Request struct {
	CompanyID  int
	CustomerID int
	Lines      []Line
}

type Line struct {
	ProductID  int
	LocationID int
	Quantity   int
	UnitPrice  float64
}

type LineResult struct {
	ProductID  int
	LocationID int
	Quantity   int
	UnitPrice  float64
	LineTotal  float64
}

type Result struct {
	OrderRef    string
	TotalAmount float64
	Lines       []LineResult
}

// Coordinator applies an order's stock decrements as one atomic multi-key
// ledger call and triggers alert evaluation after the commit. Alerting is
// best-effort: its failures are logged and never fail the order.
type Coordinator struct {
	store            LedgerStore
	engine           AlertEvaluator
	sink             NotificationSink
	logger           *zap.Logger
	maxRetryAttempts int

	jobCtx     context.Context
	cancelJobs context.CancelFunc
	jobs       sync.WaitGroup
}

func NewCoordinator(
	store LedgerStore,
	engine AlertEvaluator,
	sink NotificationSink,
	logger *zap.Logger,
	maxRetryAttempts int,
) *Coordinator {
	if maxRetryAttempts <= 0 {
		maxRetryAttempts = 3
	}
	jobCtx, cancelJobs := context.WithCancel(context.Background())
	return &Coordinator{
		store:            store,
		engine:           engine,
		sink:             sink,
		logger:           logger,
		maxRetryAttempts: maxRetryAttempts,
		jobCtx:           jobCtx,
		cancelJobs:       cancelJobs,
	}
}

// Fulfill applies every line of the order or none of them. On success the
// total amount is the plain sum of quantity times unit price per line.
func (c *Coordinator) Fulfill(ctx context.Context, req Request) (*Result, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	orderRef := uuid.New().String()
	logger := c.logger.With(zap.String("orderRef", orderRef), zap.Int("companyId", req.CompanyID))
	logger.Info("fulfillment started", zap.Int("lineCount", len(req.Lines)))

	adjustments := buildAdjustments(req, orderRef)

	if _, err := c.adjustWithRetry(ctx, adjustments, logger); err != nil {
		if ise, ok := apperrors.IsInsufficientStockError(err); ok {
			logger.Warn("fulfillment rejected",
				zap.Int("productId", ise.ProductID),
				zap.Int("locationId", ise.LocationID),
				zap.Int("requested", ise.Requested),
				zap.Int("available", ise.Available))
		}
		return nil, err
	}

	result := &Result{
		OrderRef: orderRef,
		Lines:    make([]LineResult, len(req.Lines)),
	}
	for i, line := range req.Lines {
		lineTotal := float64(line.Quantity) * line.UnitPrice
		result.Lines[i] = LineResult{
			ProductID:  line.ProductID,
			LocationID: line.LocationID,
			Quantity:   line.Quantity,
			UnitPrice:  line.UnitPrice,
			LineTotal:  lineTotal,
		}
		result.TotalAmount += lineTotal
	}

	logger.Info("fulfillment committed", zap.Float64("totalAmount", result.TotalAmount))

	c.triggerAlertEvaluation(orderRef, distinctProductIDs(req.Lines))

	return result, nil
}

// Close cancels in-flight alert evaluations and waits for them. Called on
// process shutdown.
func (c *Coordinator) Close() {
	c.cancelJobs()
	c.jobs.Wait()
}

// adjustWithRetry retries only deadlock conflicts, with backoff and jitter.
// Lock timeouts surface to the caller unretried.
func (c *Coordinator) adjustWithRetry(ctx context.Context, adjustments []ledger.Adjustment, logger *zap.Logger) ([]domain.StockRecord, error) {
	backoffs := []time.Duration{0, 100 * time.Millisecond, 200 * time.Millisecond}

	var lastErr error
	for attempt := 1; attempt <= c.maxRetryAttempts; attempt++ {
		records, err := c.store.AdjustMany(ctx, adjustments)
		if err == nil {
			return records, nil
		}
		lastErr = err

		if _, ok := apperrors.IsConflictError(err); !ok {
			return nil, err
		}
		if attempt == c.maxRetryAttempts {
			break
		}

		base := backoffs[len(backoffs)-1]
		if attempt <= len(backoffs) {
			base = backoffs[attempt-1]
		}
		sleep := time.Duration(float64(base) * (0.8 + rand.Float64()*0.4))
		logger.Warn("ledger conflict, retrying",
			zap.Int("attempt", attempt),
			zap.Int("maxAttempts", c.maxRetryAttempts),
			zap.Duration("backoff", sleep))
		time.Sleep(sleep)
	}

	return nil, lastErr
}

// triggerAlertEvaluation runs after the ledger commit, decoupled from the
// request. Evaluation stops cooperatively between products on shutdown.
func (c *Coordinator) triggerAlertEvaluation(orderRef string, productIDs []int) {
	c.jobs.Add(1)
	go func() {
		defer c.jobs.Done()

		ctx, cancel := context.WithTimeout(c.jobCtx, 30*time.Second)
		defer cancel()

		for _, productID := range productIDs {
			select {
			case <-ctx.Done():
				c.logger.Warn("alert evaluation cancelled", zap.String("orderRef", orderRef))
				return
			default:
			}

			alerts, err := c.engine.Evaluate(ctx, productID)
			if err != nil {
				c.logger.Error("alert evaluation failed",
					zap.String("orderRef", orderRef),
					zap.Int("productId", productID),
					zap.Error(err))
				continue
			}
			if len(alerts) == 0 {
				continue
			}
			if err := c.sink.PublishAlerts(ctx, alerts); err != nil {
				c.logger.Error("alert publish failed",
					zap.String("orderRef", orderRef),
					zap.Int("productId", productID),
					zap.Error(err))
			}
		}
	}()
}

// validateRequest re-checks the load-bearing invariants even though the
// HTTP layer validates structure first.
func validateRequest(req Request) error {
	var details []apperrors.ValidationDetail

	if req.CompanyID <= 0 {
		details = append(details, apperrors.ValidationDetail{
			Field:   "companyId",
			Message: "companyId must be a positive integer",
		})
	}
	if len(req.Lines) == 0 {
		details = append(details, apperrors.ValidationDetail{
			Field:   "lines",
			Message: "lines must not be empty",
		})
	}
	for idx, line := range req.Lines {
		prefix := "lines[" + strconv.Itoa(idx) + "]"
		if line.ProductID <= 0 {
			details = append(details, apperrors.ValidationDetail{
				Field:   prefix + ".productId",
				Message: "productId must be a positive integer",
			})
		}
		if line.LocationID <= 0 {
			details = append(details, apperrors.ValidationDetail{
				Field:   prefix + ".locationId",
				Message: "locationId must be a positive integer",
			})
		}
		if line.Quantity <= 0 {
			details = append(details, apperrors.ValidationDetail{
				Field:   prefix + ".quantity",
				Message: "quantity must be positive",
			})
		}
		if line.UnitPrice < 0 {
			details = append(details, apperrors.ValidationDetail{
				Field:   prefix + ".unitPrice",
				Message: "unitPrice must be non-negative",
			})
		}
	}

	if len(details) > 0 {
		return apperrors.NewValidationError("validation failed", details...)
	}
	return nil
}

// buildAdjustments merges lines touching the same key into one delta so the
// ledger sees each key exactly once.
func buildAdjustments(req Request, orderRef string) []ledger.Adjustment {
	merged := make(map[domain.StockKey]int)
	order := make([]domain.StockKey, 0, len(req.Lines))
	for _, line := range req.Lines {
		key := domain.StockKey{ProductID: line.ProductID, LocationID: line.LocationID}
		if _, seen := merged[key]; !seen {
			order = append(order, key)
		}
		merged[key] -= line.Quantity
	}

	adjustments := make([]ledger.Adjustment, 0, len(order))
	for _, key := range order {
		adjustments = append(adjustments, ledger.Adjustment{
			Key:       key,
			Delta:     merged[key],
			Reason:    domain.MovementReasonSale,
			CompanyID: req.CompanyID,
			OrderID:   &orderRef,
		})
	}
	return adjustments
}

func distinctProductIDs(lines []Line) []int {
	seen := make(map[int]bool, len(lines))
	ids := make([]int, 0, len(lines))
	for _, line := range lines {
		if seen[line.ProductID] {
			continue
		}
		seen[line.ProductID] = true
		ids = append(ids, line.ProductID)
	}
	return ids
}
