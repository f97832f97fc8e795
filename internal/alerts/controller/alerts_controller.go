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
)

type AlertEngine interface {
	EvaluateCompany(ctx context.Context, companyID int) ([]domain.Alert, error)
	EvaluateExpiring(ctx context.Context, companyID, windowDays int) ([]domain.Alert, error)
}

type SupplierReader interface {
	FindPreferredSupplier(ctx context.Context, productID int) (*domain.SupplierRef, error)
}

type AlertsController struct {
	engine    AlertEngine
	suppliers SupplierReader
	logger    *zap.Logger
}

func NewAlertsController(engine AlertEngine, suppliers SupplierReader, logger *zap.Logger) *AlertsController {
	return &AlertsController{
		engine:    engine,
		suppliers: suppliers,
		logger:    logger,
	}
}

// LowStockAlerts lists low-stock and stockout-risk alerts for a company,
// recomputed from committed state on every call.
func (c *AlertsController) LowStockAlerts(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	companyID, err := strconv.Atoi(chi.URLParam(r, "companyID"))
	if err != nil || companyID <= 0 {
		c.writeValidationError(w, traceID, "companyID must be a positive integer")
		return
	}

	alerts, err := c.engine.EvaluateCompany(r.Context(), companyID)
	if err != nil {
		c.handleError(w, traceID, err, logger)
		return
	}

	// Supplier hints are best-effort; a lookup failure leaves the field
	// empty instead of failing the listing.
	supplierCache := make(map[int]*dto.SupplierDTO)
	out := make([]dto.AlertDTO, 0, len(alerts))
	for _, alert := range alerts {
		alertDTO := toAlertDTO(alert)
		supplier, cached := supplierCache[alert.ProductID]
		if !cached {
			ref, err := c.suppliers.FindPreferredSupplier(r.Context(), alert.ProductID)
			if err != nil {
				logger.Warn("supplier lookup failed", zap.Int("productId", alert.ProductID), zap.Error(err))
			} else if ref != nil {
				supplier = &dto.SupplierDTO{ID: ref.ID, Name: ref.Name, Email: ref.Email}
			}
			supplierCache[alert.ProductID] = supplier
		}
		alertDTO.Supplier = supplier
		out = append(out, alertDTO)
	}

	c.writeJSON(w, http.StatusOK, dto.AlertListResponse{
		Alerts:      out,
		TotalAlerts: len(out),
	})
}

// ExpiringInventory lists batches expiring inside the window. The window
// defaults from config and can be overridden with ?days=N.
func (c *AlertsController) ExpiringInventory(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	companyID, err := strconv.Atoi(chi.URLParam(r, "companyID"))
	if err != nil || companyID <= 0 {
		c.writeValidationError(w, traceID, "companyID must be a positive integer")
		return
	}

	windowDays := 0
	if raw := r.URL.Query().Get("days"); raw != "" {
		windowDays, err = strconv.Atoi(raw)
		if err != nil || windowDays <= 0 {
			c.writeValidationError(w, traceID, "days must be a positive integer")
			return
		}
	}

	alerts, err := c.engine.EvaluateExpiring(r.Context(), companyID, windowDays)
	if err != nil {
		c.handleError(w, traceID, err, logger)
		return
	}

	out := make([]dto.AlertDTO, 0, len(alerts))
	for _, alert := range alerts {
		out = append(out, toAlertDTO(alert))
	}

	c.writeJSON(w, http.StatusOK, dto.AlertListResponse{
		Alerts:      out,
		TotalAlerts: len(out),
	})
}

func (c *AlertsController) handleError(w http.ResponseWriter, traceID string, err error, logger *zap.Logger) {
	if _, ok := apperrors.IsNotFoundError(err); ok {
		c.writeError(w, traceID, http.StatusNotFound, "NOT_FOUND", err.Error())
		return
	}
	if _, ok := apperrors.IsTimeoutError(err); ok {
		c.writeError(w, traceID, http.StatusServiceUnavailable, "TIMEOUT", err.Error())
		return
	}

	logger.Error("unexpected error", zap.Error(err))
	c.writeError(w, traceID, http.StatusInternalServerError, "INTERNAL_ERROR", "an unexpected error occurred")
}

func (c *AlertsController) writeError(w http.ResponseWriter, traceID string, status int, code, message string) {
	c.writeJSON(w, status, dto.ErrorResponse{
		TraceID:   traceID,
		Status:    status,
		Code:      code,
		Message:   message,
		Timestamp: time.Now().UTC(),
	})
}

func (c *AlertsController) writeValidationError(w http.ResponseWriter, traceID, message string) {
	c.writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{
		TraceID:   traceID,
		Status:    http.StatusBadRequest,
		Code:      "VALIDATION_ERROR",
		Message:   message,
		Timestamp: time.Now().UTC(),
	})
}

func (c *AlertsController) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		c.logger.Error("failed to encode response", zap.Error(err))
	}
}

func toAlertDTO(alert domain.Alert) dto.AlertDTO {
	return dto.AlertDTO{
		Type:              string(alert.Type),
		ProductID:         alert.ProductID,
		ProductName:       alert.ProductName,
		SKU:               alert.SKU,
		WarehouseID:       alert.WarehouseID,
		WarehouseName:     alert.WarehouseName,
		CurrentStock:      alert.CurrentStock,
		Threshold:         alert.Threshold,
		DaysUntilStockout: alert.DaysUntilStockout,
		ExpiryDate:        alert.ExpiryDate,
		Priority:          string(alert.Priority),
		Message:           alert.Message,
		GeneratedAt:       alert.GeneratedAt,
	}
}
