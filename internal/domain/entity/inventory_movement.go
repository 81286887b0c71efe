package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ItemKind distingue qué inventario afecta un movimiento.
type ItemKind string

const (
	ItemKindRawMaterial ItemKind = "raw_material" // materia prima
	ItemKindProduct     ItemKind = "product"      // producto terminado
)

// IsValid verifica que el kind pertenezca a la enumeración.
func (k ItemKind) IsValid() bool {
	return k == ItemKindRawMaterial || k == ItemKindProduct
}

// MovementType tipo de movimiento del libro de inventario.
type MovementType string

const (
	MovementTypeEntrada MovementType = "ENTRADA"
	MovementTypeSalida  MovementType = "SALIDA"
)

// IsValid verifica que el tipo pertenezca a la enumeración.
func (t MovementType) IsValid() bool {
	return t == MovementTypeEntrada || t == MovementTypeSalida
}

// InventoryMovement es un asiento inmutable del libro de inventario.
// Quantity se guarda con signo: positiva para ENTRADA, negativa para SALIDA.
// El stock actual de un ítem es la suma de todos sus asientos; los asientos
// nunca se actualizan ni se borran (las correcciones son asientos compensatorios).
type InventoryMovement struct {
	ID            string
	ItemKind      ItemKind
	ItemID        string
	Quantity      decimal.Decimal
	UnitOfMeasure string
	Type          MovementType
	Reason        string
	Reference     string // ej. ID de orden de compra u orden de producción
	Timestamp     time.Time
	RecordedBy    string
}
