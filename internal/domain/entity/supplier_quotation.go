package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// QuotationStatus estado de una cotización de proveedor.
type QuotationStatus string

const (
	QuotationStatusPending  QuotationStatus = "PENDING"
	QuotationStatusApproved QuotationStatus = "APPROVED"
	QuotationStatusRejected QuotationStatus = "REJECTED"
	QuotationStatusExpired  QuotationStatus = "EXPIRED"
)

// IsValid verifica que el estado pertenezca a la enumeración.
func (s QuotationStatus) IsValid() bool {
	switch s {
	case QuotationStatusPending, QuotationStatusApproved, QuotationStatusRejected, QuotationStatusExpired:
		return true
	}
	return false
}

// IsTerminal indica si el estado es terminal (APPROVED/REJECTED/EXPIRED).
func (s QuotationStatus) IsTerminal() bool {
	return s != QuotationStatusPending
}

// CanTransitionTo tabla de transiciones: solo PENDING sale hacia los terminales.
func (s QuotationStatus) CanTransitionTo(target QuotationStatus) bool {
	if s != QuotationStatusPending {
		return false
	}
	return target == QuotationStatusApproved || target == QuotationStatusRejected || target == QuotationStatusExpired
}

// QuotationLine línea de una cotización: precio ofertado por materia prima.
// Subtotal = UnitPrice * Quantity (calculado por el servidor, nunca del cliente).
type QuotationLine struct {
	RawMaterialID string
	UnitPrice     decimal.Decimal
	Quantity      decimal.Decimal
	Subtotal      decimal.Decimal
}

// SupplierQuotation cotización de precios de un proveedor para materias primas.
// Una vez aprobada es inmutable salvo por el vínculo con su orden de compra.
type SupplierQuotation struct {
	ID           string
	SupplierID   string
	Lines        []QuotationLine
	TotalAmount  decimal.Decimal
	ValidityDays int
	Status       QuotationStatus
	CreatedAt    time.Time
}

// ExpiresAt fecha límite de validez de la cotización.
func (q *SupplierQuotation) ExpiresAt() time.Time {
	return q.CreatedAt.AddDate(0, 0, q.ValidityDays)
}

// IsDue indica si la cotización ya venció a la fecha dada.
func (q *SupplierQuotation) IsDue(now time.Time) bool {
	return now.After(q.ExpiresAt())
}

// OrderedQuantity cantidad ordenada de una materia prima en la cotización
// (cero si la materia prima no está cotizada).
func (q *SupplierQuotation) OrderedQuantity(rawMaterialID string) decimal.Decimal {
	total := decimal.Zero
	for _, l := range q.Lines {
		if l.RawMaterialID == rawMaterialID {
			total = total.Add(l.Quantity)
		}
	}
	return total
}
