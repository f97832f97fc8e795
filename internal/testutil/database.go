package testutil

import (
	"database/sql"
	"fmt"
	"os"
	"testing"

	_ "github.com/go-sql-driver/mysql"
)

// SetupTestDB opens the integration-test database. Tests are skipped when
// the database is unreachable so the suite still runs without MySQL.
// The DSN can be overridden with STOCKFLOW_TEST_DSN.
func SetupTestDB(t *testing.T) *sql.DB {
	dsn := os.Getenv("STOCKFLOW_TEST_DSN")
	if dsn == "" {
		dsn = "root:@tcp(localhost:3306)/stockflow_test?parseTime=true"
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.Ping(); err != nil {
		t.Skipf("test database not available: %v", err)
	}

	return db
}

// CleanupTestDB empties every table touched by the integration tests and
// closes the connection.
func CleanupTestDB(t *testing.T, db *sql.DB) {
	if db == nil {
		return
	}

	tables := []string{
		"movement_events",
		"inventory_batches",
		"product_suppliers",
		"stock_records",
		"suppliers",
		"products",
		"warehouses",
	}
	for _, table := range tables {
		if _, err := db.Exec(fmt.Sprintf("DELETE FROM %s", table)); err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}

	db.Close()
}

// SetupTestTables creates the schema the integration tests run against.
func SetupTestTables(t *testing.T, db *sql.DB) {
	createProductsTable := `
	CREATE TABLE IF NOT EXISTS products (
		id INT NOT NULL AUTO_INCREMENT PRIMARY KEY,
		company_id INT NOT NULL,
		name VARCHAR(255) NOT NULL,
		sku VARCHAR(100) NOT NULL,
		low_stock_threshold INT NOT NULL DEFAULT 10,
		reorder_point INT NOT NULL DEFAULT 5,
		is_active TINYINT(1) NOT NULL DEFAULT 1,
		UNIQUE KEY uq_company_sku (company_id, sku),
		INDEX idx_company (company_id)
	)`

	createWarehousesTable := `
	CREATE TABLE IF NOT EXISTS warehouses (
		id INT NOT NULL AUTO_INCREMENT PRIMARY KEY,
		company_id INT NOT NULL,
		name VARCHAR(255) NOT NULL,
		code VARCHAR(50) NOT NULL,
		is_active TINYINT(1) NOT NULL DEFAULT 1,
		INDEX idx_company (company_id)
	)`

	createStockRecordsTable := `
	CREATE TABLE IF NOT EXISTS stock_records (
		id INT NOT NULL AUTO_INCREMENT PRIMARY KEY,
		product_id INT NOT NULL,
		location_id INT NOT NULL,
		quantity INT NOT NULL DEFAULT 0,
		reserved_quantity INT NOT NULL DEFAULT 0,
		last_updated DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uq_product_location (product_id, location_id),
		INDEX idx_product (product_id)
	)`

	createMovementEventsTable := `
	CREATE TABLE IF NOT EXISTS movement_events (
		id VARCHAR(36) NOT NULL PRIMARY KEY,
		product_id INT NOT NULL,
		company_id INT NOT NULL,
		location_id INT NOT NULL,
		quantity INT NOT NULL,
		reason VARCHAR(20) NOT NULL,
		order_id VARCHAR(36),
		occurred_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		INDEX idx_product_time (product_id, occurred_at),
		INDEX idx_company (company_id)
	)`

	createSuppliersTable := `
	CREATE TABLE IF NOT EXISTS suppliers (
		id INT NOT NULL AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		contact_email VARCHAR(150) NOT NULL
	)`

	createProductSuppliersTable := `
	CREATE TABLE IF NOT EXISTS product_suppliers (
		product_id INT NOT NULL,
		supplier_id INT NOT NULL,
		is_preferred TINYINT(1) NOT NULL DEFAULT 0,
		PRIMARY KEY (product_id, supplier_id)
	)`

	createInventoryBatchesTable := `
	CREATE TABLE IF NOT EXISTS inventory_batches (
		id INT NOT NULL AUTO_INCREMENT PRIMARY KEY,
		product_id INT NOT NULL,
		warehouse_id INT NOT NULL,
		quantity INT NOT NULL DEFAULT 0,
		expiry_date DATE,
		INDEX idx_expiry (expiry_date)
	)`

	tables := []struct {
		name  string
		query string
	}{
		{"products", createProductsTable},
		{"warehouses", createWarehousesTable},
		{"stock_records", createStockRecordsTable},
		{"movement_events", createMovementEventsTable},
		{"suppliers", createSuppliersTable},
		{"product_suppliers", createProductSuppliersTable},
		{"inventory_batches", createInventoryBatchesTable},
	}

	for _, tbl := range tables {
		if _, err := db.Exec(tbl.query); err != nil {
			t.Logf("failed to create table %s: %v", tbl.name, err)
		}
	}
}
