package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/omkar-009/stockflow-inventory/internal/domain"
	"github.com/omkar-009/stockflow-inventory/internal/errors"
)

// MySQLProductRepository reads catalog metadata owned by the catalog
// service. The ledger core never writes these tables.
type MySQLProductRepository struct {
	db *sql.DB
}

func NewMySQLProductRepository(db *sql.DB) *MySQLProductRepository {
	return &MySQLProductRepository{db: db}
}

func (r *MySQLProductRepository) FindProduct(ctx context.Context, productID int) (*domain.Product, error) {
	query := `
		SELECT id, company_id, name, sku, low_stock_threshold, reorder_point, is_active
		FROM products
		WHERE id = ?
	`

	var product domain.Product
	err := r.db.QueryRowContext(ctx, query, productID).Scan(
		&product.ID, &product.CompanyID, &product.Name, &product.SKU,
		&product.LowStockThreshold, &product.ReorderPoint, &product.IsActive,
	)

	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("product with id %d not found", productID))
	}
	if err != nil {
		return nil, fmt.Errorf("querying product by id: %w", err)
	}

	return &product, nil
}

func (r *MySQLProductRepository) ListActiveByCompany(ctx context.Context, companyID int) ([]domain.Product, error) {
	query := `
		SELECT id, company_id, name, sku, low_stock_threshold, reorder_point, is_active
		FROM products
		WHERE company_id = ? AND is_active = 1
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("listing products by company: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var product domain.Product
		err := rows.Scan(
			&product.ID, &product.CompanyID, &product.Name, &product.SKU,
			&product.LowStockThreshold, &product.ReorderPoint, &product.IsActive,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning product row: %w", err)
		}
		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating product rows: %w", err)
	}

	return products, nil
}

// FindPreferredSupplier returns the preferred supplier for a product, or
// (nil, nil) when none is linked. Used only as an alert hint.
func (r *MySQLProductRepository) FindPreferredSupplier(ctx context.Context, productID int) (*domain.SupplierRef, error) {
	query := `
		SELECT s.id, s.name, s.contact_email
		FROM product_suppliers ps
		JOIN suppliers s ON s.id = ps.supplier_id
		WHERE ps.product_id = ?
		ORDER BY ps.is_preferred DESC, ps.id
		LIMIT 1
	`

	var supplier domain.SupplierRef
	err := r.db.QueryRowContext(ctx, query, productID).Scan(&supplier.ID, &supplier.Name, &supplier.Email)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying preferred supplier: %w", err)
	}

	return &supplier, nil
}
