package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/omkar-009/stockflow-inventory/internal/domain"
	"github.com/omkar-009/stockflow-inventory/internal/errors"
)

// MySQLWarehouseRepository reads storage locations owned by the warehouse
// service, for existence checks and company scoping.
type MySQLWarehouseRepository struct {
	db *sql.DB
}

func NewMySQLWarehouseRepository(db *sql.DB) *MySQLWarehouseRepository {
	return &MySQLWarehouseRepository{db: db}
}

func (r *MySQLWarehouseRepository) FindByID(ctx context.Context, warehouseID int) (*domain.Warehouse, error) {
	query := `
		SELECT id, company_id, name, code, is_active
		FROM warehouses
		WHERE id = ?
	`

	var warehouse domain.Warehouse
	err := r.db.QueryRowContext(ctx, query, warehouseID).Scan(
		&warehouse.ID, &warehouse.CompanyID, &warehouse.Name, &warehouse.Code, &warehouse.IsActive,
	)

	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("warehouse with id %d not found", warehouseID))
	}
	if err != nil {
		return nil, fmt.Errorf("querying warehouse by id: %w", err)
	}

	return &warehouse, nil
}

func (r *MySQLWarehouseRepository) ListByCompany(ctx context.Context, companyID int) ([]domain.Warehouse, error) {
	query := `
		SELECT id, company_id, name, code, is_active
		FROM warehouses
		WHERE company_id = ?
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("listing warehouses by company: %w", err)
	}
	defer rows.Close()

	var warehouses []domain.Warehouse
	for rows.Next() {
		var warehouse domain.Warehouse
		err := rows.Scan(
			&warehouse.ID, &warehouse.CompanyID, &warehouse.Name, &warehouse.Code, &warehouse.IsActive,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning warehouse row: %w", err)
		}
		warehouses = append(warehouses, warehouse)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating warehouse rows: %w", err)
	}

	return warehouses, nil
}
