package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStockRecord_Available(t *testing.T) {
	record := StockRecord{Quantity: 10, ReservedQuantity: 3}
	assert.Equal(t, 7, record.Available())
}

func TestStockRecord_Available_FullyReserved(t *testing.T) {
	record := StockRecord{Quantity: 5, ReservedQuantity: 5}
	assert.Equal(t, 0, record.Available())
}

func TestStockRecord_Available_NeverNegative(t *testing.T) {
	record := StockRecord{Quantity: 2, ReservedQuantity: 5}
	assert.Equal(t, 0, record.Available())
}

func TestStockRecord_Key(t *testing.T) {
	record := StockRecord{ProductID: 7, LocationID: 3}
	assert.Equal(t, StockKey{ProductID: 7, LocationID: 3}, record.Key())
}

func TestStockKey_Less_ByProduct(t *testing.T) {
	a := StockKey{ProductID: 1, LocationID: 9}
	b := StockKey{ProductID: 2, LocationID: 1}

	assert.True(t, a.Less(b))
	assert.False(t, b.Less(a))
}

func TestStockKey_Less_ByLocationWithinProduct(t *testing.T) {
	a := StockKey{ProductID: 1, LocationID: 1}
	b := StockKey{ProductID: 1, LocationID: 2}

	assert.True(t, a.Less(b))
	assert.False(t, b.Less(a))
}

func TestStockKey_Less_Equal(t *testing.T) {
	a := StockKey{ProductID: 1, LocationID: 1}

	assert.False(t, a.Less(a))
}
