package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseOrderStatus estado de una orden de compra.
type PurchaseOrderStatus string

const (
	PurchaseOrderStatusPending           PurchaseOrderStatus = "PENDING"
	PurchaseOrderStatusSent              PurchaseOrderStatus = "SENT"
	PurchaseOrderStatusPartiallyReceived PurchaseOrderStatus = "PARTIALLY_RECEIVED"
	PurchaseOrderStatusReceived          PurchaseOrderStatus = "RECEIVED"
	PurchaseOrderStatusCancelled         PurchaseOrderStatus = "CANCELLED"
)

// IsValid verifica que el estado pertenezca a la enumeración.
func (s PurchaseOrderStatus) IsValid() bool {
	switch s {
	case PurchaseOrderStatusPending, PurchaseOrderStatusSent, PurchaseOrderStatusPartiallyReceived,
		PurchaseOrderStatusReceived, PurchaseOrderStatusCancelled:
		return true
	}
	return false
}

// IsTerminal indica si el estado es terminal.
func (s PurchaseOrderStatus) IsTerminal() bool {
	return s == PurchaseOrderStatusReceived || s == PurchaseOrderStatusCancelled
}

// CanReceive indica si la orden admite intentar una recepción. Solo CANCELLED
// corta aquí: una orden RECEIVED pasa el filtro y el rechazo sale del chequeo
// de acumulados como sobre-recepción, no como transición inválida.
func (s PurchaseOrderStatus) CanReceive() bool {
	return s != PurchaseOrderStatusCancelled
}

// CanEdit indica si la orden admite edición directa (estado/observación).
// RECEIVED y PARTIALLY_RECEIVED solo se alcanzan vía recepción, nunca por edición:
// un cambio directo a RECEIVED dejaría entrar stock sin pasar por el libro.
func (s PurchaseOrderStatus) CanEdit() bool {
	return s == PurchaseOrderStatusPending || s == PurchaseOrderStatusSent || s == PurchaseOrderStatusPartiallyReceived
}

// CanTransitionTo tabla de transiciones por edición directa.
// PARTIALLY_RECEIVED y RECEIVED quedan fuera: son resultado exclusivo de Receive.
func (s PurchaseOrderStatus) CanTransitionTo(target PurchaseOrderStatus) bool {
	switch s {
	case PurchaseOrderStatusPending:
		return target == PurchaseOrderStatusSent || target == PurchaseOrderStatusCancelled
	case PurchaseOrderStatusSent, PurchaseOrderStatusPartiallyReceived:
		return target == PurchaseOrderStatusCancelled
	}
	return false
}

// ReceivedLine recepción parcial de una materia prima contra la orden.
type ReceivedLine struct {
	RawMaterialID    string
	QuantityReceived decimal.Decimal
	ReceivedAt       time.Time
	ReceivedBy       string
}

// PurchaseOrder compromiso de compra contra una cotización aprobada.
// QuotationID es único: a lo más una orden de compra por cotización.
type PurchaseOrder struct {
	ID            string
	QuotationID   string
	Status        PurchaseOrderStatus
	Observation   string
	ReceivedLines []ReceivedLine
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// CumulativeReceived cantidad acumulada recibida de una materia prima.
func (po *PurchaseOrder) CumulativeReceived(rawMaterialID string) decimal.Decimal {
	total := decimal.Zero
	for _, l := range po.ReceivedLines {
		if l.RawMaterialID == rawMaterialID {
			total = total.Add(l.QuantityReceived)
		}
	}
	return total
}

// FullyReceived indica si cada línea de la cotización llegó completa.
func (po *PurchaseOrder) FullyReceived(quotation *SupplierQuotation) bool {
	for _, line := range quotation.Lines {
		if po.CumulativeReceived(line.RawMaterialID).LessThan(quotation.OrderedQuantity(line.RawMaterialID)) {
			return false
		}
	}
	return true
}
