package velocity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type mockMovementReader struct {
	SumConsumptionSinceFunc func(ctx context.Context, productID int, since time.Time) (int, error)
}

func (m *mockMovementReader) SumConsumptionSince(ctx context.Context, productID int, since time.Time) (int, error) {
	return m.SumConsumptionSinceFunc(ctx, productID, since)
}

func TestCalculateVelocity_AveragesOverWindow(t *testing.T) {
	movements := &mockMovementReader{
		SumConsumptionSinceFunc: func(ctx context.Context, productID int, since time.Time) (int, error) {
			return 90, nil
		},
	}

	estimator := NewEstimator(movements, 30)

	rate, err := estimator.CalculateVelocity(context.Background(), 1)
	assert.NoError(t, err)
	assert.Equal(t, 3.0, rate)
}

func TestCalculateVelocity_NoConsumptionReturnsZero(t *testing.T) {
	movements := &mockMovementReader{
		SumConsumptionSinceFunc: func(ctx context.Context, productID int, since time.Time) (int, error) {
			return 0, nil
		},
	}

	estimator := NewEstimator(movements, 30)

	rate, err := estimator.CalculateVelocity(context.Background(), 1)
	assert.NoError(t, err)
	assert.Equal(t, 0.0, rate)
}

func TestCalculateVelocity_NetRestockClampsToZero(t *testing.T) {
	// Restock-dominated history can make the net consumption negative;
	// the rate must still be zero, never negative.
	movements := &mockMovementReader{
		SumConsumptionSinceFunc: func(ctx context.Context, productID int, since time.Time) (int, error) {
			return -40, nil
		},
	}

	estimator := NewEstimator(movements, 30)

	rate, err := estimator.CalculateVelocity(context.Background(), 1)
	assert.NoError(t, err)
	assert.Equal(t, 0.0, rate)
}

func TestCalculateVelocity_WindowBoundary(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	var gotSince time.Time

	movements := &mockMovementReader{
		SumConsumptionSinceFunc: func(ctx context.Context, productID int, since time.Time) (int, error) {
			gotSince = since
			return 30, nil
		},
	}

	estimator := NewEstimator(movements, 30)
	estimator.now = func() time.Time { return now }

	rate, err := estimator.CalculateVelocity(context.Background(), 1)
	assert.NoError(t, err)
	assert.Equal(t, 1.0, rate)
	assert.Equal(t, now.AddDate(0, 0, -30), gotSince)
}

func TestCalculateVelocity_PropagatesReadError(t *testing.T) {
	movements := &mockMovementReader{
		SumConsumptionSinceFunc: func(ctx context.Context, productID int, since time.Time) (int, error) {
			return 0, errors.New("connection refused")
		},
	}

	estimator := NewEstimator(movements, 30)

	_, err := estimator.CalculateVelocity(context.Background(), 1)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "product 1")
}

func TestNewEstimator_DefaultWindow(t *testing.T) {
	estimator := NewEstimator(&mockMovementReader{}, 0)
	assert.Equal(t, 30, estimator.windowDays)
}
