package domain

import "time"

// Warehouse is a storage location, owned by the warehouse service and
// consumed read-only for company scoping.
type Warehouse struct {
	ID        int
	CompanyID int
	Name      string
	Code      string
	IsActive  bool
}

// ExpiringBatch is a flat aggregate of one inventory batch close to its
// expiry date, joined with the product and warehouse it belongs to.
type ExpiringBatch struct {
	ProductID     int
	ProductName   string
	SKU           string
	WarehouseID   int
	WarehouseName string
	Quantity      int
	ExpiryDate    time.Time
}
