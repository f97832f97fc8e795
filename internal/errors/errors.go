package errors

import "fmt"

type ValidationDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError marks malformed or missing request fields. The caller must
// change the request before retrying.
type ValidationError struct {
	Message string
	Details []ValidationDetail
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(message string, details ...ValidationDetail) *ValidationError {
	return &ValidationError{
		Message: message,
		Details: details,
	}
}

func IsValidationError(err error) (*ValidationError, bool) {
	if ve, ok := err.(*ValidationError); ok {
		return ve, true
	}
	return nil, false
}

// NotFoundError marks an unknown product, location or stock record.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

func NewNotFoundError(message string) *NotFoundError {
	return &NotFoundError{Message: message}
}

func IsNotFoundError(err error) (*NotFoundError, bool) {
	if nfe, ok := err.(*NotFoundError); ok {
		return nfe, true
	}
	return nil, false
}

// InsufficientStockError rejects a decrement that would drive on-hand
// quantity below the reserved amount, or below zero. It names the offending
// product and location so a multi-line rejection stays actionable.
type InsufficientStockError struct {
	ProductID  int
	LocationID int
	Requested  int
	Available  int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d at location %d: requested %d, available %d",
		e.ProductID, e.LocationID, e.Requested, e.Available)
}

func NewInsufficientStockError(productID, locationID, requested, available int) *InsufficientStockError {
	return &InsufficientStockError{
		ProductID:  productID,
		LocationID: locationID,
		Requested:  requested,
		Available:  available,
	}
}

func IsInsufficientStockError(err error) (*InsufficientStockError, bool) {
	if ise, ok := err.(*InsufficientStockError); ok {
		return ise, true
	}
	return nil, false
}

// InsufficientAvailableError rejects a reservation larger than the
// unreserved quantity.
type InsufficientAvailableError struct {
	ProductID  int
	LocationID int
	Requested  int
	Available  int
}

func (e *InsufficientAvailableError) Error() string {
	return fmt.Sprintf("insufficient available stock for product %d at location %d: requested %d, available %d",
		e.ProductID, e.LocationID, e.Requested, e.Available)
}

func NewInsufficientAvailableError(productID, locationID, requested, available int) *InsufficientAvailableError {
	return &InsufficientAvailableError{
		ProductID:  productID,
		LocationID: locationID,
		Requested:  requested,
		Available:  available,
	}
}

func IsInsufficientAvailableError(err error) (*InsufficientAvailableError, bool) {
	if iae, ok := err.(*InsufficientAvailableError); ok {
		return iae, true
	}
	return nil, false
}

// ConflictError marks transient contention (a deadlock victim, a state
// conflict). The caller may retry with backoff.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

func NewConflictError(message string) *ConflictError {
	return &ConflictError{Message: message}
}

func IsConflictError(err error) (*ConflictError, bool) {
	if ce, ok := err.(*ConflictError); ok {
		return ce, true
	}
	return nil, false
}

// TimeoutError marks a ledger operation that gave up waiting for row locks.
// Retryable by the caller; the coordinator never retries it automatically.
type TimeoutError struct {
	Message string
}

func (e *TimeoutError) Error() string {
	return e.Message
}

func NewTimeoutError(message string) *TimeoutError {
	return &TimeoutError{Message: message}
}

func IsTimeoutError(err error) (*TimeoutError, bool) {
	if te, ok := err.(*TimeoutError); ok {
		return te, true
	}
	return nil, false
}

// InternalError wraps an unexpected datastore failure, fatal to the request.
type InternalError struct {
	Message string
	Cause   error
}

func (e *InternalError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *InternalError) Unwrap() error {
	return e.Cause
}

func NewInternalError(message string, cause error) *InternalError {
	return &InternalError{
		Message: message,
		Cause:   cause,
	}
}

func IsInternalError(err error) (*InternalError, bool) {
	if ie, ok := err.(*InternalError); ok {
		return ie, true
	}
	return nil, false
}
