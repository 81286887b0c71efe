package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalesOrderLineRequest línea de pedido enviada por el cliente.
// El subtotal lo calcula el servidor.
type SalesOrderLineRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// CreateSalesOrderRequest body para POST /api/sales-orders.
type CreateSalesOrderRequest struct {
	ClientID     string                  `json:"client_id"`
	OrderDate    time.Time               `json:"order_date"`
	DeliveryDate time.Time               `json:"delivery_date"`
	Observation  string                  `json:"observation,omitempty"`
	Lines        []SalesOrderLineRequest `json:"lines"`
}

// EditSalesOrderRequest body para PUT /api/sales-orders/:id.
type EditSalesOrderRequest struct {
	DeliveryDate time.Time               `json:"delivery_date"`
	Observation  string                  `json:"observation,omitempty"`
	Lines        []SalesOrderLineRequest `json:"lines"`
}

// AdvanceSalesOrderRequest body para POST /api/sales-orders/:id/advance.
type AdvanceSalesOrderRequest struct {
	TargetStatus string `json:"target_status"`
}

// SalesOrderLineResponse línea con subtotal calculado.
type SalesOrderLineResponse struct {
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// SalesOrderResponse pedido en respuestas.
type SalesOrderResponse struct {
	ID           string                   `json:"id"`
	ClientID     string                   `json:"client_id"`
	OrderDate    time.Time                `json:"order_date"`
	DeliveryDate time.Time                `json:"delivery_date"`
	Status       string                   `json:"status"`
	Lines        []SalesOrderLineResponse `json:"lines"`
	TotalAmount  decimal.Decimal          `json:"total_amount"`
	Observation  string                   `json:"observation,omitempty"`
}
