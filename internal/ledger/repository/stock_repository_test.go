package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omkar-009/stockflow-inventory/internal/domain"
	apperrors "github.com/omkar-009/stockflow-inventory/internal/errors"
	"github.com/omkar-009/stockflow-inventory/internal/testutil"
)

func TestTotalByProduct_Integration(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLStockRepository(db)

	_, err := db.Exec("INSERT INTO stock_records (product_id, location_id, quantity, reserved_quantity) VALUES (1, 1, 30, 5), (1, 2, 20, 0), (2, 1, 7, 0)")
	require.NoError(t, err)

	// Totals span every location of the product.
	total, err := repo.TotalByProduct(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 50, total)

	// Unknown product totals to zero, not an error.
	total, err = repo.TotalByProduct(context.Background(), 99)
	require.NoError(t, err)
	assert.Equal(t, 0, total)
}

func TestFindByKey_Integration_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLStockRepository(db)

	_, err := repo.FindByKey(context.Background(), domain.StockKey{ProductID: 99, LocationID: 1})
	_, ok := apperrors.IsNotFoundError(err)
	assert.True(t, ok)
}

func TestListByProduct_Integration_OrderedByLocation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLStockRepository(db)

	_, err := db.Exec("INSERT INTO stock_records (product_id, location_id, quantity, reserved_quantity) VALUES (1, 3, 10, 0), (1, 1, 20, 2)")
	require.NoError(t, err)

	records, err := repo.ListByProduct(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, 1, records[0].LocationID)
	assert.Equal(t, 18, records[0].Available())
	assert.Equal(t, 3, records[1].LocationID)
}
