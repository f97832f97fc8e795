package dto

import "time"

type StockAdjustRequest struct {
	CompanyID  int    `json:"companyId" validate:"required,gt=0"`
	ProductID  int    `json:"productId" validate:"required,gt=0"`
	LocationID int    `json:"locationId" validate:"required,gt=0"`
	Quantity   int    `json:"quantity" validate:"required,gt=0"`
	Notes      string `json:"notes,omitempty"`
}

type ReservationRequest struct {
	ProductID  int `json:"productId" validate:"required,gt=0"`
	LocationID int `json:"locationId" validate:"required,gt=0"`
	Quantity   int `json:"quantity" validate:"required,gt=0"`
}

type ReservationCommitRequest struct {
	CompanyID  int     `json:"companyId" validate:"required,gt=0"`
	ProductID  int     `json:"productId" validate:"required,gt=0"`
	LocationID int     `json:"locationId" validate:"required,gt=0"`
	Quantity   int     `json:"quantity" validate:"required,gt=0"`
	OrderRef   *string `json:"orderRef,omitempty"`
}

type StockRecordDTO struct {
	ProductID        int       `json:"productId"`
	LocationID       int       `json:"locationId"`
	Quantity         int       `json:"quantity"`
	ReservedQuantity int       `json:"reservedQuantity"`
	Available        int       `json:"available"`
	LastUpdated      time.Time `json:"lastUpdated"`
}

type ProductInventoryRow struct {
	LocationID       int       `json:"locationId"`
	WarehouseName    string    `json:"warehouseName"`
	WarehouseCode    string    `json:"warehouseCode"`
	Quantity         int       `json:"quantity"`
	ReservedQuantity int       `json:"reservedQuantity"`
	Available        int       `json:"available"`
	LastUpdated      time.Time `json:"lastUpdated"`
}

type ProductInventoryResponse struct {
	ProductID int                   `json:"productId"`
	SKU       string                `json:"sku"`
	Name      string                `json:"name"`
	Inventory []ProductInventoryRow `json:"inventory"`
}
