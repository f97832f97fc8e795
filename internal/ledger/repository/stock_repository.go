package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/omkar-009/stockflow-inventory/internal/domain"
	"github.com/omkar-009/stockflow-inventory/internal/errors"
)

type MySQLStockRepository struct {
	db *sql.DB
}

func NewMySQLStockRepository(db *sql.DB) *MySQLStockRepository {
	return &MySQLStockRepository{db: db}
}

// FindByKey returns a read-committed snapshot of one stock row.
func (r *MySQLStockRepository) FindByKey(ctx context.Context, key domain.StockKey) (*domain.StockRecord, error) {
	query := `
		SELECT id, product_id, location_id, quantity, reserved_quantity, last_updated
		FROM stock_records
		WHERE product_id = ? AND location_id = ?
	`

	var record domain.StockRecord
	err := r.db.QueryRowContext(ctx, query, key.ProductID, key.LocationID).Scan(
		&record.ID, &record.ProductID, &record.LocationID,
		&record.Quantity, &record.ReservedQuantity, &record.LastUpdated,
	)

	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("no stock record for product %d at location %d", key.ProductID, key.LocationID))
	}
	if err != nil {
		return nil, fmt.Errorf("querying stock record: %w", err)
	}

	return &record, nil
}

// FindByKeyForUpdate locks the stock row for the rest of the transaction.
// Returns (nil, nil) when the row does not exist so callers can upsert.
func (r *MySQLStockRepository) FindByKeyForUpdate(ctx context.Context, tx *sql.Tx, key domain.StockKey) (*domain.StockRecord, error) {
	query := `
		SELECT id, product_id, location_id, quantity, reserved_quantity, last_updated
		FROM stock_records
		WHERE product_id = ? AND location_id = ?
		FOR UPDATE
	`

	var record domain.StockRecord
	err := tx.QueryRowContext(ctx, query, key.ProductID, key.LocationID).Scan(
		&record.ID, &record.ProductID, &record.LocationID,
		&record.Quantity, &record.ReservedQuantity, &record.LastUpdated,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("locking stock record: %w", err)
	}

	return &record, nil
}

// Insert creates the row for a (product, location) pair on its first stock
// addition.
func (r *MySQLStockRepository) Insert(ctx context.Context, tx *sql.Tx, record domain.StockRecord) (int, error) {
	query := `
		INSERT INTO stock_records (product_id, location_id, quantity, reserved_quantity, last_updated)
		VALUES (?, ?, ?, ?, NOW())
	`

	result, err := tx.ExecContext(ctx, query,
		record.ProductID, record.LocationID, record.Quantity, record.ReservedQuantity,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting stock record: %w", err)
	}

	lastInsertID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}

	return int(lastInsertID), nil
}

// UpdateQuantities overwrites quantity and reserved_quantity for a locked
// row. Invariant checks happen in the ledger store before this is called.
func (r *MySQLStockRepository) UpdateQuantities(ctx context.Context, tx *sql.Tx, id, quantity, reservedQuantity int) error {
	query := `UPDATE stock_records SET quantity = ?, reserved_quantity = ?, last_updated = NOW() WHERE id = ?`

	result, err := tx.ExecContext(ctx, query, quantity, reservedQuantity, id)
	if err != nil {
		return fmt.Errorf("updating stock record: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("stock record %d not found", id))
	}

	return nil
}

// ListByProduct returns all stock rows for a product across locations.
func (r *MySQLStockRepository) ListByProduct(ctx context.Context, productID int) ([]domain.StockRecord, error) {
	query := `
		SELECT id, product_id, location_id, quantity, reserved_quantity, last_updated
		FROM stock_records
		WHERE product_id = ?
		ORDER BY location_id
	`

	rows, err := r.db.QueryContext(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("listing stock records: %w", err)
	}
	defer rows.Close()

	var records []domain.StockRecord
	for rows.Next() {
		var record domain.StockRecord
		err := rows.Scan(
			&record.ID, &record.ProductID, &record.LocationID,
			&record.Quantity, &record.ReservedQuantity, &record.LastUpdated,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning stock record row: %w", err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating stock record rows: %w", err)
	}

	return records, nil
}

// TotalByProduct sums on-hand quantity for a product across all locations.
// Recomputed on every call; the alert engine never caches it.
func (r *MySQLStockRepository) TotalByProduct(ctx context.Context, productID int) (int, error) {
	query := `SELECT COALESCE(SUM(quantity), 0) FROM stock_records WHERE product_id = ?`

	var total int
	if err := r.db.QueryRowContext(ctx, query, productID).Scan(&total); err != nil {
		return 0, fmt.Errorf("summing stock for product: %w", err)
	}

	return total, nil
}
