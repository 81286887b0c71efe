package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// FormulaComponent materia prima requerida para producir una unidad del producto.
type FormulaComponent struct {
	RawMaterialID   string
	QuantityPerUnit decimal.Decimal
}

// Formula (bill of materials) composición de materias primas de un producto.
// La usa el chequeo de suficiencia de stock y la orden de producción al consumir.
type Formula struct {
	ID         string
	ProductID  string
	Components []FormulaComponent
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
