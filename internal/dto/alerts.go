package dto

import "time"

type SupplierDTO struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"contactEmail,omitempty"`
}

type AlertDTO struct {
	Type              string       `json:"type"`
	ProductID         int          `json:"productId"`
	ProductName       string       `json:"productName"`
	SKU               string       `json:"sku"`
	WarehouseID       *int         `json:"warehouseId,omitempty"`
	WarehouseName     string       `json:"warehouseName,omitempty"`
	CurrentStock      int          `json:"currentStock"`
	Threshold         int          `json:"threshold"`
	DaysUntilStockout *int         `json:"daysUntilStockout"`
	ExpiryDate        *time.Time   `json:"expiryDate,omitempty"`
	Supplier          *SupplierDTO `json:"supplier,omitempty"`
	Priority          string       `json:"priority"`
	Message           string       `json:"message"`
	GeneratedAt       time.Time    `json:"generatedAt"`
}

type AlertListResponse struct {
	Alerts      []AlertDTO `json:"alerts"`
	TotalAlerts int        `json:"total_alerts"`
}
