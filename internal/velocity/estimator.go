package velocity

import (
	"context"
	"fmt"
	"time"
)

type MovementReader interface {
	SumConsumptionSince(ctx context.Context, productID int, since time.Time) (int, error)
}

// Estimator derives the average daily consumption rate of a product from
// the movement log. Pure read; safe to call concurrently and arbitrarily
// often.
type Estimator struct {
	movements  MovementReader
	windowDays int
	now        func() time.Time
}

func NewEstimator(movements MovementReader, windowDays int) *Estimator {
	if windowDays <= 0 {
		windowDays = 30
	}
	return &Estimator{
		movements:  movements,
		windowDays: windowDays,
		now:        time.Now,
	}
}

// CalculateVelocity returns units consumed per day over the trailing window.
// Zero when no consumption happened in the window; never negative.
func (e *Estimator) CalculateVelocity(ctx context.Context, productID int) (float64, error) {
	since := e.now().UTC().AddDate(0, 0, -e.windowDays)

	consumed, err := e.movements.SumConsumptionSince(ctx, productID, since)
	if err != nil {
		return 0, fmt.Errorf("summing consumption for product %d: %w", productID, err)
	}
	if consumed <= 0 {
		return 0, nil
	}

	return float64(consumed) / float64(e.windowDays), nil
}
