package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterMovementRequest body para POST /api/inventory/movements.
// Quantity siempre es una magnitud positiva; el signo lo deriva el servidor del tipo.
type RegisterMovementRequest struct {
	ItemKind      string          `json:"item_kind"` // raw_material | product
	ItemID        string          `json:"item_id"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitOfMeasure string          `json:"unit_of_measure"`
	Type          string          `json:"type"` // ENTRADA | SALIDA
	Reason        string          `json:"reason"`
	Reference     string          `json:"reference,omitempty"`
}

// MovementResponse asiento del libro en respuestas.
type MovementResponse struct {
	ID            string          `json:"id"`
	ItemKind      string          `json:"item_kind"`
	ItemID        string          `json:"item_id"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitOfMeasure string          `json:"unit_of_measure"`
	Type          string          `json:"type"`
	Reason        string          `json:"reason"`
	Reference     string          `json:"reference,omitempty"`
	Timestamp     time.Time       `json:"timestamp"`
	RecordedBy    string          `json:"recorded_by"`
}

// StockResponse stock actual derivado del libro.
type StockResponse struct {
	ItemKind     string          `json:"item_kind"`
	ItemID       string          `json:"item_id"`
	CurrentStock decimal.Decimal `json:"current_stock"`
}
