package domain

// Product is catalog metadata consumed read-only by the core. The catalog
// service owns it; the ledger never writes these fields.
type Product struct {
	ID                int
	CompanyID         int
	Name              string
	SKU               string
	LowStockThreshold int
	ReorderPoint      int
	IsActive          bool
}

// SupplierRef is a hint attached to low-stock alerts so a reorder can be
// started without a second catalog lookup.
type SupplierRef struct {
	ID    int
	Name  string
	Email string
}
