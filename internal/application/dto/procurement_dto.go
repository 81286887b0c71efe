package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// QuotationLineRequest línea de cotización enviada por el cliente.
// El subtotal NO se acepta del cliente: lo calcula el servidor.
type QuotationLineRequest struct {
	RawMaterialID string          `json:"raw_material_id"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	Quantity      decimal.Decimal `json:"quantity"`
}

// CreateQuotationRequest body para POST /api/quotations.
type CreateQuotationRequest struct {
	SupplierID   string                 `json:"supplier_id"`
	ValidityDays int                    `json:"validity_days"`
	Lines        []QuotationLineRequest `json:"lines"`
}

// QuotationLineResponse línea con subtotal calculado.
type QuotationLineResponse struct {
	RawMaterialID string          `json:"raw_material_id"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	Quantity      decimal.Decimal `json:"quantity"`
	Subtotal      decimal.Decimal `json:"subtotal"`
}

// QuotationResponse cotización en respuestas.
type QuotationResponse struct {
	ID           string                  `json:"id"`
	SupplierID   string                  `json:"supplier_id"`
	Lines        []QuotationLineResponse `json:"lines"`
	TotalAmount  decimal.Decimal         `json:"total_amount"`
	ValidityDays int                     `json:"validity_days"`
	Status       string                  `json:"status"`
	CreatedAt    time.Time               `json:"created_at"`
}

// CreatePurchaseOrderRequest body para POST /api/purchase-orders.
type CreatePurchaseOrderRequest struct {
	QuotationID string `json:"quotation_id"`
	Observation string `json:"observation,omitempty"`
}

// ReceiveItemRequest recepción de una materia prima contra la orden.
type ReceiveItemRequest struct {
	RawMaterialID    string          `json:"raw_material_id"`
	QuantityReceived decimal.Decimal `json:"quantity_received"`
}

// ReceiveRequest body para POST /api/purchase-orders/:id/receipts.
type ReceiveRequest struct {
	Items []ReceiveItemRequest `json:"items"`
}

// UpdatePurchaseOrderRequest body para PUT /api/purchase-orders/:id.
// Status vacío = conservar el estado actual (solo cambia la observación).
type UpdatePurchaseOrderRequest struct {
	Status      string `json:"status,omitempty"`
	Observation string `json:"observation,omitempty"`
}

// ReceivedLineResponse recepción registrada.
type ReceivedLineResponse struct {
	RawMaterialID    string          `json:"raw_material_id"`
	QuantityReceived decimal.Decimal `json:"quantity_received"`
	ReceivedAt       time.Time       `json:"received_at"`
	ReceivedBy       string          `json:"received_by"`
}

// PurchaseOrderResponse orden de compra en respuestas.
type PurchaseOrderResponse struct {
	ID            string                 `json:"id"`
	QuotationID   string                 `json:"quotation_id"`
	Status        string                 `json:"status"`
	Observation   string                 `json:"observation,omitempty"`
	ReceivedLines []ReceivedLineResponse `json:"received_lines"`
	CreatedAt     time.Time              `json:"created_at"`
	UpdatedAt     time.Time              `json:"updated_at"`
}
