package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/omkar-009/stockflow-inventory/internal/domain"
)

// MySQLBatchRepository reads batch-level expiry data owned by the
// inventory-batch service. Only consumed by the alert engine.
type MySQLBatchRepository struct {
	db *sql.DB
}

func NewMySQLBatchRepository(db *sql.DB) *MySQLBatchRepository {
	return &MySQLBatchRepository{db: db}
}

// ListExpiringByCompany returns batches expiring inside [from, until] for
// active products of the company, as flat aggregates joined with product and
// warehouse names.
func (r *MySQLBatchRepository) ListExpiringByCompany(ctx context.Context, companyID int, from, until time.Time) ([]domain.ExpiringBatch, error) {
	query := `
		SELECT p.id, p.name, p.sku, w.id, w.name, b.quantity, b.expiry_date
		FROM inventory_batches b
		JOIN products p ON p.id = b.product_id
		JOIN warehouses w ON w.id = b.warehouse_id
		WHERE w.company_id = ?
		  AND p.is_active = 1
		  AND b.quantity > 0
		  AND b.expiry_date BETWEEN ? AND ?
		ORDER BY b.expiry_date
	`

	rows, err := r.db.QueryContext(ctx, query, companyID, from, until)
	if err != nil {
		return nil, fmt.Errorf("listing expiring batches: %w", err)
	}
	defer rows.Close()

	var batches []domain.ExpiringBatch
	for rows.Next() {
		var batch domain.ExpiringBatch
		err := rows.Scan(
			&batch.ProductID, &batch.ProductName, &batch.SKU,
			&batch.WarehouseID, &batch.WarehouseName,
			&batch.Quantity, &batch.ExpiryDate,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning expiring batch row: %w", err)
		}
		batches = append(batches, batch)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating expiring batch rows: %w", err)
	}

	return batches, nil
}
