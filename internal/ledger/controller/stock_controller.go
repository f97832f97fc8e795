package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/omkar-009/stockflow-inventory/internal/domain"
	"github.com/omkar-009/stockflow-inventory/internal/dto"
	apperrors "github.com/omkar-009/stockflow-inventory/internal/errors"
	"github.com/omkar-009/stockflow-inventory/internal/infrastructure/validation"
	"github.com/omkar-009/stockflow-inventory/internal/ledger"
)

type LedgerStore interface {
	Adjust(ctx context.Context, adj ledger.Adjustment) (*domain.StockRecord, error)
	Reserve(ctx context.Context, key domain.StockKey, amount int) (*domain.StockRecord, error)
	Release(ctx context.Context, key domain.StockKey, amount int) (*domain.StockRecord, error)
	CommitReserved(ctx context.Context, key domain.StockKey, amount, companyID int, orderID *string) (*domain.StockRecord, error)
}

type StockReader interface {
	ListByProduct(ctx context.Context, productID int) ([]domain.StockRecord, error)
}

type CatalogReader interface {
	FindProduct(ctx context.Context, productID int) (*domain.Product, error)
}

type WarehouseReader interface {
	FindByID(ctx context.Context, warehouseID int) (*domain.Warehouse, error)
}

// StockController exposes the ledger primitives over HTTP: restocks, manual
// removals, the reservation lifecycle and per-product snapshots.
type StockController struct {
	store      LedgerStore
	stock      StockReader
	catalog    CatalogReader
	warehouses WarehouseReader
	logger     *zap.Logger
}

func NewStockController(
	store LedgerStore,
	stock StockReader,
	catalog CatalogReader,
	warehouses WarehouseReader,
	logger *zap.Logger,
) *StockController {
	return &StockController{
		store:      store,
		stock:      stock,
		catalog:    catalog,
		warehouses: warehouses,
		logger:     logger,
	}
}

// AddStock records a restock, creating the stock row on first use.
func (c *StockController) AddStock(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	var req dto.StockAdjustRequest
	if !c.decodeAndValidate(w, r, traceID, &req, logger) {
		return
	}
	if !c.checkReferences(w, r.Context(), traceID, req.ProductID, req.LocationID, logger) {
		return
	}

	record, err := c.store.Adjust(r.Context(), ledger.Adjustment{
		Key:       domain.StockKey{ProductID: req.ProductID, LocationID: req.LocationID},
		Delta:     req.Quantity,
		Reason:    domain.MovementReasonRestock,
		CompanyID: req.CompanyID,
	})
	if err != nil {
		c.handleError(w, traceID, err, logger)
		return
	}

	c.writeJSON(w, http.StatusCreated, toStockRecordDTO(record))
}

// RemoveStock records a manual decrement, bounded by available stock.
func (c *StockController) RemoveStock(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	var req dto.StockAdjustRequest
	if !c.decodeAndValidate(w, r, traceID, &req, logger) {
		return
	}
	if !c.checkReferences(w, r.Context(), traceID, req.ProductID, req.LocationID, logger) {
		return
	}

	record, err := c.store.Adjust(r.Context(), ledger.Adjustment{
		Key:       domain.StockKey{ProductID: req.ProductID, LocationID: req.LocationID},
		Delta:     -req.Quantity,
		Reason:    domain.MovementReasonSale,
		CompanyID: req.CompanyID,
	})
	if err != nil {
		c.handleError(w, traceID, err, logger)
		return
	}

	c.writeJSON(w, http.StatusOK, toStockRecordDTO(record))
}

// Reserve holds available stock without changing on-hand quantity.
func (c *StockController) Reserve(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	var req dto.ReservationRequest
	if !c.decodeAndValidate(w, r, traceID, &req, logger) {
		return
	}

	record, err := c.store.Reserve(r.Context(), domain.StockKey{ProductID: req.ProductID, LocationID: req.LocationID}, req.Quantity)
	if err != nil {
		c.handleError(w, traceID, err, logger)
		return
	}

	c.writeJSON(w, http.StatusOK, toStockRecordDTO(record))
}

// Release returns held stock to the available pool.
func (c *StockController) Release(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	var req dto.ReservationRequest
	if !c.decodeAndValidate(w, r, traceID, &req, logger) {
		return
	}

	record, err := c.store.Release(r.Context(), domain.StockKey{ProductID: req.ProductID, LocationID: req.LocationID}, req.Quantity)
	if err != nil {
		c.handleError(w, traceID, err, logger)
		return
	}

	c.writeJSON(w, http.StatusOK, toStockRecordDTO(record))
}

// Commit consumes held stock, completing a reserve -> commit lifecycle.
func (c *StockController) Commit(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	var req dto.ReservationCommitRequest
	if !c.decodeAndValidate(w, r, traceID, &req, logger) {
		return
	}

	record, err := c.store.CommitReserved(r.Context(),
		domain.StockKey{ProductID: req.ProductID, LocationID: req.LocationID},
		req.Quantity, req.CompanyID, req.OrderRef)
	if err != nil {
		c.handleError(w, traceID, err, logger)
		return
	}

	c.writeJSON(w, http.StatusOK, toStockRecordDTO(record))
}

// ProductInventory returns the per-location snapshot for one product.
func (c *StockController) ProductInventory(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	productID, err := strconv.Atoi(chi.URLParam(r, "productID"))
	if err != nil || productID <= 0 {
		c.writeValidationError(w, traceID, "invalid productID", apperrors.ValidationDetail{
			Field:   "productID",
			Message: "productID must be a positive integer",
		})
		return
	}

	product, err := c.catalog.FindProduct(r.Context(), productID)
	if err != nil {
		c.handleError(w, traceID, err, logger)
		return
	}

	records, err := c.stock.ListByProduct(r.Context(), productID)
	if err != nil {
		c.handleError(w, traceID, err, logger)
		return
	}

	rows := make([]dto.ProductInventoryRow, 0, len(records))
	for _, record := range records {
		row := dto.ProductInventoryRow{
			LocationID:       record.LocationID,
			Quantity:         record.Quantity,
			ReservedQuantity: record.ReservedQuantity,
			Available:        record.Available(),
			LastUpdated:      record.LastUpdated,
		}
		if warehouse, err := c.warehouses.FindByID(r.Context(), record.LocationID); err == nil {
			row.WarehouseName = warehouse.Name
			row.WarehouseCode = warehouse.Code
		}
		rows = append(rows, row)
	}

	c.writeJSON(w, http.StatusOK, dto.ProductInventoryResponse{
		ProductID: product.ID,
		SKU:       product.SKU,
		Name:      product.Name,
		Inventory: rows,
	})
}

func (c *StockController) checkReferences(w http.ResponseWriter, ctx context.Context, traceID string, productID, locationID int, logger *zap.Logger) bool {
	if _, err := c.catalog.FindProduct(ctx, productID); err != nil {
		c.handleError(w, traceID, err, logger)
		return false
	}
	if _, err := c.warehouses.FindByID(ctx, locationID); err != nil {
		c.handleError(w, traceID, err, logger)
		return false
	}
	return true
}

func (c *StockController) decodeAndValidate(w http.ResponseWriter, r *http.Request, traceID string, req any, logger *zap.Logger) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		c.writeValidationError(w, traceID, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return false
	}
	if err := validation.Struct(req); err != nil {
		ve, _ := apperrors.IsValidationError(err)
		c.writeValidationError(w, traceID, ve.Message, ve.Details...)
		return false
	}
	return true
}

func (c *StockController) handleError(w http.ResponseWriter, traceID string, err error, logger *zap.Logger) {
	if ve, ok := apperrors.IsValidationError(err); ok {
		c.writeValidationError(w, traceID, ve.Message, ve.Details...)
		return
	}
	if _, ok := apperrors.IsNotFoundError(err); ok {
		c.writeError(w, traceID, http.StatusNotFound, "NOT_FOUND", err.Error())
		return
	}
	if ise, ok := apperrors.IsInsufficientStockError(err); ok {
		c.writeErrorWithKey(w, traceID, http.StatusUnprocessableEntity, "INSUFFICIENT_STOCK", err.Error(), ise.ProductID, ise.LocationID)
		return
	}
	if iae, ok := apperrors.IsInsufficientAvailableError(err); ok {
		c.writeErrorWithKey(w, traceID, http.StatusUnprocessableEntity, "INSUFFICIENT_AVAILABLE", err.Error(), iae.ProductID, iae.LocationID)
		return
	}
	if _, ok := apperrors.IsConflictError(err); ok {
		c.writeError(w, traceID, http.StatusConflict, "CONFLICT", err.Error())
		return
	}
	if _, ok := apperrors.IsTimeoutError(err); ok {
		c.writeError(w, traceID, http.StatusServiceUnavailable, "TIMEOUT", err.Error())
		return
	}

	logger.Error("unexpected error", zap.Error(err))
	c.writeError(w, traceID, http.StatusInternalServerError, "INTERNAL_ERROR", "an unexpected error occurred")
}

func (c *StockController) writeError(w http.ResponseWriter, traceID string, status int, code, message string) {
	c.writeJSON(w, status, dto.ErrorResponse{
		TraceID:   traceID,
		Status:    status,
		Code:      code,
		Message:   message,
		Timestamp: time.Now().UTC(),
	})
}

func (c *StockController) writeErrorWithKey(w http.ResponseWriter, traceID string, status int, code, message string, productID, locationID int) {
	c.writeJSON(w, status, dto.ErrorResponse{
		TraceID:    traceID,
		Status:     status,
		Code:       code,
		Message:    message,
		ProductID:  &productID,
		LocationID: &locationID,
		Timestamp:  time.Now().UTC(),
	})
}

type validationErrorResponse struct {
	Error   string                       `json:"error"`
	TraceID string                       `json:"traceId"`
	Message string                       `json:"message"`
	Details []apperrors.ValidationDetail `json:"details"`
}

func (c *StockController) writeValidationError(w http.ResponseWriter, traceID, message string, details ...apperrors.ValidationDetail) {
	c.writeJSON(w, http.StatusBadRequest, validationErrorResponse{
		Error:   "VALIDATION_ERROR",
		TraceID: traceID,
		Message: message,
		Details: details,
	})
}

func (c *StockController) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		c.logger.Error("failed to encode response", zap.Error(err))
	}
}

func toStockRecordDTO(record *domain.StockRecord) dto.StockRecordDTO {
	return dto.StockRecordDTO{
		ProductID:        record.ProductID,
		LocationID:       record.LocationID,
		Quantity:         record.Quantity,
		ReservedQuantity: record.ReservedQuantity,
		Available:        record.Available(),
		LastUpdated:      record.LastUpdated,
	}
}
