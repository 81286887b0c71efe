package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product producto terminado del catálogo (lo que se fabrica y se vende).
// El stock se deriva del libro de movimientos; la composición vive en Formula.
type Product struct {
	ID            string
	SKU           string // código único
	Name          string
	Description   string
	Price         decimal.Decimal // precio de venta
	UnitOfMeasure string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
