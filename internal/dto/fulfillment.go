package dto

import "time"

type FulfillmentRequest struct {
	CompanyID  int               `json:"companyId" validate:"required,gt=0"`
	CustomerID int               `json:"customerId" validate:"required,gt=0"`
	Items      []FulfillmentItem `json:"items" validate:"required,min=1,max=100,dive"`
}

type FulfillmentItem struct {
	ProductID  int     `json:"productId" validate:"required,gt=0"`
	LocationID int     `json:"locationId" validate:"required,gt=0"`
	Quantity   int     `json:"quantity" validate:"required,gt=0"`
	UnitPrice  float64 `json:"unitPrice" validate:"gte=0"`
}

type FulfillmentResponse struct {
	TraceID     string               `json:"traceId"`
	OrderRef    string               `json:"orderRef"`
	TotalAmount float64              `json:"totalAmount"`
	Lines       []FulfillmentLineDTO `json:"lines"`
	Timestamp   time.Time            `json:"timestamp"`
}

type FulfillmentLineDTO struct {
	ProductID  int     `json:"productId"`
	LocationID int     `json:"locationId"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unitPrice"`
	LineTotal  float64 `json:"lineTotal"`
}

type ErrorResponse struct {
	TraceID    string    `json:"traceId"`
	Status     int       `json:"status"`
	Code       string    `json:"code"`
	Message    string    `json:"message"`
	ProductID  *int      `json:"productId,omitempty"`
	LocationID *int      `json:"locationId,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}
