package ledger

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/omkar-009/stockflow-inventory/internal/domain"
	apperrors "github.com/omkar-009/stockflow-inventory/internal/errors"
	"github.com/omkar-009/stockflow-inventory/internal/ledger/repository"
	"github.com/omkar-009/stockflow-inventory/internal/testutil"
)

func TestSortAdjustments_CanonicalOrder(t *testing.T) {
	input := []Adjustment{
		{Key: domain.StockKey{ProductID: 2, LocationID: 1}},
		{Key: domain.StockKey{ProductID: 1, LocationID: 2}},
		{Key: domain.StockKey{ProductID: 1, LocationID: 1}},
	}

	ordered := sortAdjustments(input)

	assert.Equal(t, domain.StockKey{ProductID: 1, LocationID: 1}, ordered[0].Key)
	assert.Equal(t, domain.StockKey{ProductID: 1, LocationID: 2}, ordered[1].Key)
	assert.Equal(t, domain.StockKey{ProductID: 2, LocationID: 1}, ordered[2].Key)

	// The caller's slice is left untouched.
	assert.Equal(t, domain.StockKey{ProductID: 2, LocationID: 1}, input[0].Key)
}

func TestAdjustMany_RejectsEmptyAndZeroDeltas(t *testing.T) {
	store := NewStore(nil, nil, nil, zap.NewNop(), time.Second)

	_, err := store.AdjustMany(context.Background(), nil)
	_, ok := apperrors.IsValidationError(err)
	assert.True(t, ok)

	_, err = store.AdjustMany(context.Background(), []Adjustment{
		{Key: domain.StockKey{ProductID: 1, LocationID: 1}, Delta: 0},
	})
	_, ok = apperrors.IsValidationError(err)
	assert.True(t, ok)
}

// --- integration tests; skipped when MySQL is unavailable ---

func setupStore(t *testing.T) (*Store, *sql.DB) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)

	stockRepo := repository.NewMySQLStockRepository(db)
	movementRepo := repository.NewMySQLMovementRepository(db)
	store := NewStore(db, stockRepo, movementRepo, zap.NewNop(), 5*time.Second)

	return store, db
}

func seedStock(t *testing.T, db *sql.DB, productID, locationID, quantity, reserved int) {
	_, err := db.Exec(
		"INSERT INTO stock_records (product_id, location_id, quantity, reserved_quantity) VALUES (?, ?, ?, ?)",
		productID, locationID, quantity, reserved)
	require.NoError(t, err)
}

func readStock(t *testing.T, db *sql.DB, productID, locationID int) (int, int) {
	var quantity, reserved int
	err := db.QueryRow(
		"SELECT quantity, reserved_quantity FROM stock_records WHERE product_id = ? AND location_id = ?",
		productID, locationID).Scan(&quantity, &reserved)
	require.NoError(t, err)
	return quantity, reserved
}

func TestAdjustMany_Integration_MultiKeyCommit(t *testing.T) {
	store, db := setupStore(t)
	defer testutil.CleanupTestDB(t, db)

	seedStock(t, db, 1, 1, 50, 0)
	seedStock(t, db, 2, 1, 30, 0)

	records, err := store.AdjustMany(context.Background(), []Adjustment{
		{Key: domain.StockKey{ProductID: 1, LocationID: 1}, Delta: -5, Reason: domain.MovementReasonSale, CompanyID: 10},
		{Key: domain.StockKey{ProductID: 2, LocationID: 1}, Delta: -3, Reason: domain.MovementReasonSale, CompanyID: 10},
	})
	require.NoError(t, err)
	assert.Len(t, records, 2)

	quantity, _ := readStock(t, db, 1, 1)
	assert.Equal(t, 45, quantity)
	quantity, _ = readStock(t, db, 2, 1)
	assert.Equal(t, 27, quantity)

	var movements int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM movement_events").Scan(&movements))
	assert.Equal(t, 2, movements)
}

func TestAdjustMany_Integration_AtomicRollback(t *testing.T) {
	store, db := setupStore(t)
	defer testutil.CleanupTestDB(t, db)

	seedStock(t, db, 1, 1, 50, 0)
	seedStock(t, db, 2, 1, 2, 0)

	_, err := store.AdjustMany(context.Background(), []Adjustment{
		{Key: domain.StockKey{ProductID: 1, LocationID: 1}, Delta: -5, Reason: domain.MovementReasonSale, CompanyID: 10},
		{Key: domain.StockKey{ProductID: 2, LocationID: 1}, Delta: -3, Reason: domain.MovementReasonSale, CompanyID: 10},
	})

	ise, ok := apperrors.IsInsufficientStockError(err)
	require.True(t, ok)
	assert.Equal(t, 2, ise.ProductID)
	assert.Equal(t, 3, ise.Requested)
	assert.Equal(t, 2, ise.Available)

	// Neither row changed and no movement was written.
	quantity, _ := readStock(t, db, 1, 1)
	assert.Equal(t, 50, quantity)
	quantity, _ = readStock(t, db, 2, 1)
	assert.Equal(t, 2, quantity)

	var movements int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM movement_events").Scan(&movements))
	assert.Equal(t, 0, movements)
}

func TestAdjustMany_Integration_UpsertOnRestock(t *testing.T) {
	store, db := setupStore(t)
	defer testutil.CleanupTestDB(t, db)

	records, err := store.AdjustMany(context.Background(), []Adjustment{
		{Key: domain.StockKey{ProductID: 9, LocationID: 4}, Delta: 25, Reason: domain.MovementReasonRestock, CompanyID: 10},
	})
	require.NoError(t, err)
	assert.Equal(t, 25, records[0].Quantity)

	quantity, reserved := readStock(t, db, 9, 4)
	assert.Equal(t, 25, quantity)
	assert.Equal(t, 0, reserved)
}

func TestAdjustMany_Integration_NegativeOnUnknownKeyFails(t *testing.T) {
	store, db := setupStore(t)
	defer testutil.CleanupTestDB(t, db)

	_, err := store.AdjustMany(context.Background(), []Adjustment{
		{Key: domain.StockKey{ProductID: 9, LocationID: 4}, Delta: -1, Reason: domain.MovementReasonSale, CompanyID: 10},
	})

	ise, ok := apperrors.IsInsufficientStockError(err)
	require.True(t, ok)
	assert.Equal(t, 0, ise.Available)
}

func TestAdjustMany_Integration_RecountWritesNoMovement(t *testing.T) {
	store, db := setupStore(t)
	defer testutil.CleanupTestDB(t, db)

	seedStock(t, db, 1, 1, 50, 0)

	_, err := store.AdjustMany(context.Background(), []Adjustment{
		{Key: domain.StockKey{ProductID: 1, LocationID: 1}, Delta: -4, Reason: domain.MovementReasonRecount, CompanyID: 10},
	})
	require.NoError(t, err)

	var movements int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM movement_events").Scan(&movements))
	assert.Equal(t, 0, movements)
}

func TestAdjustMany_Integration_ReservedCoverage(t *testing.T) {
	store, db := setupStore(t)
	defer testutil.CleanupTestDB(t, db)

	// 10 on hand, 8 reserved: only 2 are sellable directly.
	seedStock(t, db, 1, 1, 10, 8)

	_, err := store.AdjustMany(context.Background(), []Adjustment{
		{Key: domain.StockKey{ProductID: 1, LocationID: 1}, Delta: -3, Reason: domain.MovementReasonSale, CompanyID: 10},
	})
	ise, ok := apperrors.IsInsufficientStockError(err)
	require.True(t, ok)
	assert.Equal(t, 2, ise.Available)

	_, err = store.AdjustMany(context.Background(), []Adjustment{
		{Key: domain.StockKey{ProductID: 1, LocationID: 1}, Delta: -2, Reason: domain.MovementReasonSale, CompanyID: 10},
	})
	require.NoError(t, err)

	quantity, reserved := readStock(t, db, 1, 1)
	assert.Equal(t, 8, quantity)
	assert.Equal(t, 8, reserved)
}

func TestAdjustMany_Integration_OppositeOrdersDoNotDeadlock(t *testing.T) {
	store, db := setupStore(t)
	defer testutil.CleanupTestDB(t, db)

	seedStock(t, db, 1, 1, 1000, 0)
	seedStock(t, db, 2, 1, 1000, 0)

	forward := []Adjustment{
		{Key: domain.StockKey{ProductID: 1, LocationID: 1}, Delta: -1, Reason: domain.MovementReasonSale, CompanyID: 10},
		{Key: domain.StockKey{ProductID: 2, LocationID: 1}, Delta: -1, Reason: domain.MovementReasonSale, CompanyID: 10},
	}
	reverse := []Adjustment{
		{Key: domain.StockKey{ProductID: 2, LocationID: 1}, Delta: -1, Reason: domain.MovementReasonSale, CompanyID: 10},
		{Key: domain.StockKey{ProductID: 1, LocationID: 1}, Delta: -1, Reason: domain.MovementReasonSale, CompanyID: 10},
	}

	const iterations = 20
	var wg sync.WaitGroup
	errs := make(chan error, iterations*2)

	for i := 0; i < iterations; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := store.AdjustMany(context.Background(), forward)
			errs <- err
		}()
		go func() {
			defer wg.Done()
			_, err := store.AdjustMany(context.Background(), reverse)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}

	quantity, _ := readStock(t, db, 1, 1)
	assert.Equal(t, 1000-iterations*2, quantity)
	quantity, _ = readStock(t, db, 2, 1)
	assert.Equal(t, 1000-iterations*2, quantity)
}

func TestAdjustMany_Integration_NoOversell(t *testing.T) {
	store, db := setupStore(t)
	defer testutil.CleanupTestDB(t, db)

	const initial = 10
	const attempts = 25
	seedStock(t, db, 1, 1, initial, 0)

	var wg sync.WaitGroup
	var successes, insufficient int
	var mu sync.Mutex

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Adjust(context.Background(), Adjustment{
				Key:       domain.StockKey{ProductID: 1, LocationID: 1},
				Delta:     -1,
				Reason:    domain.MovementReasonSale,
				CompanyID: 10,
			})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				successes++
			} else if _, ok := apperrors.IsInsufficientStockError(err); ok {
				insufficient++
			} else {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, initial, successes)
	assert.Equal(t, attempts-initial, insufficient)

	quantity, _ := readStock(t, db, 1, 1)
	assert.Equal(t, 0, quantity)
}

func TestAdjustMany_Integration_MovementRoundTrip(t *testing.T) {
	store, db := setupStore(t)
	defer testutil.CleanupTestDB(t, db)

	key := domain.StockKey{ProductID: 1, LocationID: 1}

	_, err := store.Adjust(context.Background(), Adjustment{Key: key, Delta: 40, Reason: domain.MovementReasonRestock, CompanyID: 10})
	require.NoError(t, err)
	_, err = store.Adjust(context.Background(), Adjustment{Key: key, Delta: -40, Reason: domain.MovementReasonSale, CompanyID: 10})
	require.NoError(t, err)

	quantity, _ := readStock(t, db, 1, 1)
	assert.Equal(t, 0, quantity)

	var net int
	require.NoError(t, db.QueryRow("SELECT COALESCE(SUM(quantity), 0) FROM movement_events WHERE product_id = 1").Scan(&net))
	assert.Equal(t, 0, net)
}

func TestReservationLifecycle_Integration(t *testing.T) {
	store, db := setupStore(t)
	defer testutil.CleanupTestDB(t, db)

	seedStock(t, db, 1, 1, 20, 0)
	key := domain.StockKey{ProductID: 1, LocationID: 1}

	record, err := store.Reserve(context.Background(), key, 5)
	require.NoError(t, err)
	assert.Equal(t, 20, record.Quantity)
	assert.Equal(t, 5, record.ReservedQuantity)
	assert.Equal(t, 15, record.Available())

	// Reserving past the available pool fails.
	_, err = store.Reserve(context.Background(), key, 16)
	_, ok := apperrors.IsInsufficientAvailableError(err)
	assert.True(t, ok)

	record, err = store.Release(context.Background(), key, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, record.ReservedQuantity)

	// Releasing more than is held is a conflict.
	_, err = store.Release(context.Background(), key, 4)
	_, ok = apperrors.IsConflictError(err)
	assert.True(t, ok)

	record, err = store.CommitReserved(context.Background(), key, 3, 10, nil)
	require.NoError(t, err)
	assert.Equal(t, 17, record.Quantity)
	assert.Equal(t, 0, record.ReservedQuantity)

	// The commit wrote a sale movement.
	var net int
	require.NoError(t, db.QueryRow("SELECT COALESCE(SUM(quantity), 0) FROM movement_events WHERE product_id = 1").Scan(&net))
	assert.Equal(t, -3, net)
}

func TestReserve_Integration_UnknownKeyIsNotFound(t *testing.T) {
	store, db := setupStore(t)
	defer testutil.CleanupTestDB(t, db)

	_, err := store.Reserve(context.Background(), domain.StockKey{ProductID: 99, LocationID: 1}, 1)
	_, ok := apperrors.IsNotFoundError(err)
	assert.True(t, ok)
}
