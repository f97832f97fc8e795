package domain

import "time"

type AlertType string

const (
	AlertLowStock     AlertType = "LOW_STOCK"
	AlertStockoutRisk AlertType = "STOCKOUT_RISK"
	AlertExpiringSoon AlertType = "EXPIRING_SOON"
)

type AlertPriority string

const (
	PriorityMedium   AlertPriority = "MEDIUM"
	PriorityHigh     AlertPriority = "HIGH"
	PriorityCritical AlertPriority = "CRITICAL"
)

// Alert is computed on demand from committed ledger state and never
// persisted. Repeated evaluation may re-emit the same alert; deduplication
// belongs to the notification sink.
type Alert struct {
	Type              AlertType
	ProductID         int
	ProductName       string
	SKU               string
	WarehouseID       *int
	WarehouseName     string
	CurrentStock      int
	Threshold         int
	DaysUntilStockout *int
	ExpiryDate        *time.Time
	Message           string
	Priority          AlertPriority
	GeneratedAt       time.Time
}
