package domain

import "time"

// StockRecord is the authoritative on-hand/reserved quantity for one product
// at one storage location. Identity is (ProductID, LocationID); rows are
// created on first stock addition and mutated only through the ledger store.
type StockRecord struct {
	ID               int
	ProductID        int
	LocationID       int
	Quantity         int
	ReservedQuantity int
	LastUpdated      time.Time
}

// Available returns the quantity eligible for new reservation or sale.
func (s StockRecord) Available() int {
	available := s.Quantity - s.ReservedQuantity
	if available < 0 {
		return 0
	}
	return available
}

// Key returns the record's identity.
func (s StockRecord) Key() StockKey {
	return StockKey{ProductID: s.ProductID, LocationID: s.LocationID}
}

// StockKey identifies one stock record.
type StockKey struct {
	ProductID  int
	LocationID int
}

// Less orders keys ascending by (ProductID, LocationID). Multi-key ledger
// operations lock rows in this order so two overlapping calls cannot
// deadlock each other.
func (k StockKey) Less(other StockKey) bool {
	if k.ProductID != other.ProductID {
		return k.ProductID < other.ProductID
	}
	return k.LocationID < other.LocationID
}
