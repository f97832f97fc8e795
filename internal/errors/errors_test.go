package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotFoundError_Creation(t *testing.T) {
	message := "order not found"
	err := NewNotFoundError(message)

	assert.NotNil(t, err)
	assert.Equal(t, message, err.Message)
	assert.Equal(t, message, err.Error())
}

func TestNotFoundError_IsNotFoundError(t *testing.T) {
	err := NewNotFoundError("test not found")

	notFoundErr, ok := IsNotFoundError(err)
	assert.True(t, ok)
	assert.NotNil(t, notFoundErr)
	assert.Equal(t, "test not found", notFoundErr.Message)
}

func TestNotFoundError_IsNotFoundError_WithOtherError(t *testing.T) {
	err := errors.New("some other error")

	notFoundErr, ok := IsNotFoundError(err)
	assert.False(t, ok)
	assert.Nil(t, notFoundErr)
}

func TestNotFoundError_ErrorInterface(t *testing.T) {
	var err error = NewNotFoundError("entity not found")
	assert.NotNil(t, err)
	assert.Equal(t, "entity not found", err.Error())
}

func TestValidationError_Creation(t *testing.T) {
	message := "validation failed"
	details := []ValidationDetail{
		{Field: "email", Message: "invalid email"},
		{Field: "name", Message: "required field"},
	}

	err := NewValidationError(message, details...)

	assert.NotNil(t, err)
	assert.Equal(t, message, err.Message)
	assert.Equal(t, message, err.Error())
	assert.Len(t, err.Details, 2)
}

func TestInternalError_Creation(t *testing.T) {
	cause := errors.New("database error")
	err := NewInternalError("failed to query database", cause)

	assert.NotNil(t, err)
	assert.Equal(t, "failed to query database", err.Message)
	assert.Equal(t, cause, err.Cause)
	assert.Contains(t, err.Error(), "failed to query database")
	assert.Contains(t, err.Error(), "database error")
}

func TestInternalError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := NewInternalError("wrapper", cause)

	assert.Equal(t, cause, err.Unwrap())
	assert.True(t, errors.Is(err, cause))
}

func TestInternalError_NilCause(t *testing.T) {
	err := NewInternalError("no cause", nil)

	assert.Equal(t, "no cause", err.Error())
	assert.Nil(t, err.Unwrap())
}

func TestInsufficientStockError_Creation(t *testing.T) {
	err := NewInsufficientStockError(7, 3, 10, 4)

	assert.Equal(t, 7, err.ProductID)
	assert.Equal(t, 3, err.LocationID)
	assert.Equal(t, 10, err.Requested)
	assert.Equal(t, 4, err.Available)
	assert.Contains(t, err.Error(), "insufficient stock")
}

func TestInsufficientStockError_IsInsufficientStockError(t *testing.T) {
	err := NewInsufficientStockError(1, 1, 5, 0)

	ise, ok := IsInsufficientStockError(err)
	assert.True(t, ok)
	assert.Equal(t, 5, ise.Requested)

	ise, ok = IsInsufficientStockError(errors.New("other"))
	assert.False(t, ok)
	assert.Nil(t, ise)
}

func TestInsufficientAvailableError_IsInsufficientAvailableError(t *testing.T) {
	err := NewInsufficientAvailableError(2, 4, 6, 1)

	iae, ok := IsInsufficientAvailableError(err)
	assert.True(t, ok)
	assert.Equal(t, 2, iae.ProductID)
	assert.Equal(t, 4, iae.LocationID)

	_, ok = IsInsufficientAvailableError(NewInsufficientStockError(2, 4, 6, 1))
	assert.False(t, ok)
}

func TestConflictError_IsConflictError(t *testing.T) {
	err := NewConflictError("deadlock detected, retry the operation")

	conflictErr, ok := IsConflictError(err)
	assert.True(t, ok)
	assert.Equal(t, "deadlock detected, retry the operation", conflictErr.Message)

	_, ok = IsConflictError(NewTimeoutError("timed out"))
	assert.False(t, ok)
}

func TestTimeoutError_IsTimeoutError(t *testing.T) {
	err := NewTimeoutError("ledger transaction timed out")

	timeoutErr, ok := IsTimeoutError(err)
	assert.True(t, ok)
	assert.Equal(t, "ledger transaction timed out", timeoutErr.Message)

	_, ok = IsTimeoutError(NewConflictError("conflict"))
	assert.False(t, ok)
}
