package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/omkar-009/stockflow-inventory/internal/dto"
	apperrors "github.com/omkar-009/stockflow-inventory/internal/errors"
	"github.com/omkar-009/stockflow-inventory/internal/fulfillment"
	"github.com/omkar-009/stockflow-inventory/internal/infrastructure/validation"
)

type FulfillmentCoordinator interface {
	Fulfill(ctx context.Context, req fulfillment.Request) (*fulfillment.Result, error)
}

type FulfillmentController struct {
	coordinator FulfillmentCoordinator
	logger      *zap.Logger
}

func NewFulfillmentController(coordinator FulfillmentCoordinator, logger *zap.Logger) *FulfillmentController {
	return &FulfillmentController{
		coordinator: coordinator,
		logger:      logger,
	}
}

func (c *FulfillmentController) Fulfill(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	var req dto.FulfillmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		c.writeValidationError(w, traceID, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	if err := validation.Struct(req); err != nil {
		ve, _ := apperrors.IsValidationError(err)
		c.writeValidationError(w, traceID, ve.Message, ve.Details...)
		return
	}

	lines := make([]fulfillment.Line, len(req.Items))
	for i, item := range req.Items {
		lines[i] = fulfillment.Line{
			ProductID:  item.ProductID,
			LocationID: item.LocationID,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
		}
	}

	result, err := c.coordinator.Fulfill(r.Context(), fulfillment.Request{
		CompanyID:  req.CompanyID,
		CustomerID: req.CustomerID,
		Lines:      lines,
	})
	if err != nil {
		c.handleError(w, traceID, err, logger)
		return
	}

	respLines := make([]dto.FulfillmentLineDTO, len(result.Lines))
	for i, line := range result.Lines {
		respLines[i] = dto.FulfillmentLineDTO{
			ProductID:  line.ProductID,
			LocationID: line.LocationID,
			Quantity:   line.Quantity,
			UnitPrice:  line.UnitPrice,
			LineTotal:  line.LineTotal,
		}
	}

	c.writeJSON(w, http.StatusCreated, dto.FulfillmentResponse{
		TraceID:     traceID,
		OrderRef:    result.OrderRef,
		TotalAmount: result.TotalAmount,
		Lines:       respLines,
		Timestamp:   time.Now().UTC(),
	})
}

func (c *FulfillmentController) handleError(w http.ResponseWriter, traceID string, err error, logger *zap.Logger) {
	if ve, ok := apperrors.IsValidationError(err); ok {
		c.writeValidationError(w, traceID, ve.Message, ve.Details...)
		return
	}

	if _, ok := apperrors.IsNotFoundError(err); ok {
		c.writeError(w, traceID, http.StatusNotFound, "NOT_FOUND", err.Error(), nil, nil)
		return
	}

	if ise, ok := apperrors.IsInsufficientStockError(err); ok {
		c.writeError(w, traceID, http.StatusUnprocessableEntity, "INSUFFICIENT_STOCK", err.Error(), &ise.ProductID, &ise.LocationID)
		return
	}

	if iae, ok := apperrors.IsInsufficientAvailableError(err); ok {
		c.writeError(w, traceID, http.StatusUnprocessableEntity, "INSUFFICIENT_AVAILABLE", err.Error(), &iae.ProductID, &iae.LocationID)
		return
	}

	if _, ok := apperrors.IsConflictError(err); ok {
		c.writeError(w, traceID, http.StatusConflict, "CONFLICT", err.Error(), nil, nil)
		return
	}

	if _, ok := apperrors.IsTimeoutError(err); ok {
		c.writeError(w, traceID, http.StatusServiceUnavailable, "TIMEOUT", err.Error(), nil, nil)
		return
	}

	logger.Error("unexpected error", zap.Error(err))
	c.writeError(w, traceID, http.StatusInternalServerError, "INTERNAL_ERROR", "an unexpected error occurred", nil, nil)
}

func (c *FulfillmentController) writeError(w http.ResponseWriter, traceID string, status int, code, message string, productID, locationID *int) {
	c.writeJSON(w, status, dto.ErrorResponse{
		TraceID:    traceID,
		Status:     status,
		Code:       code,
		Message:    message,
		ProductID:  productID,
		LocationID: locationID,
		Timestamp:  time.Now().UTC(),
	})
}

type validationErrorResponse struct {
	Error   string                       `json:"error"`
	TraceID string                       `json:"traceId"`
	Message string                       `json:"message"`
	Details []apperrors.ValidationDetail `json:"details"`
}

func (c *FulfillmentController) writeValidationError(w http.ResponseWriter, traceID, message string, details ...apperrors.ValidationDetail) {
	c.writeJSON(w, http.StatusBadRequest, validationErrorResponse{
		Error:   "VALIDATION_ERROR",
		TraceID: traceID,
		Message: message,
		Details: details,
	})
}

func (c *FulfillmentController) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		c.logger.Error("failed to encode response", zap.Error(err))
	}
}
