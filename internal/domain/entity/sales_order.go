package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalesOrderStatus estado de un pedido.
type SalesOrderStatus string

const (
	SalesOrderStatusPending          SalesOrderStatus = "PENDING"
	SalesOrderStatusInProduction     SalesOrderStatus = "IN_PRODUCTION"
	SalesOrderStatusReadyForDelivery SalesOrderStatus = "READY_FOR_DELIVERY"
	SalesOrderStatusShipped          SalesOrderStatus = "SHIPPED"
	SalesOrderStatusDelivered        SalesOrderStatus = "DELIVERED"
	SalesOrderStatusCancelled        SalesOrderStatus = "CANCELLED"
)

// IsValid verifica que el estado pertenezca a la enumeración.
func (s SalesOrderStatus) IsValid() bool {
	switch s {
	case SalesOrderStatusPending, SalesOrderStatusInProduction, SalesOrderStatusReadyForDelivery,
		SalesOrderStatusShipped, SalesOrderStatusDelivered, SalesOrderStatusCancelled:
		return true
	}
	return false
}

// IsTerminal indica si el estado es terminal.
func (s SalesOrderStatus) IsTerminal() bool {
	return s == SalesOrderStatusDelivered || s == SalesOrderStatusCancelled
}

// CanCancel solo un pedido PENDING puede cancelarse o borrarse por el usuario.
func (s SalesOrderStatus) CanCancel() bool {
	return s == SalesOrderStatusPending
}

// CanEdit el pedido es editable hasta confirmar la entrega.
func (s SalesOrderStatus) CanEdit() bool {
	return !s.IsTerminal()
}

// CanAdvanceTo transiciones legales de avance por acción directa del usuario.
// PENDING->IN_PRODUCTION y IN_PRODUCTION->READY_FOR_DELIVERY las maneja
// exclusivamente la orden de producción, no el avance directo.
func (s SalesOrderStatus) CanAdvanceTo(target SalesOrderStatus) bool {
	switch s {
	case SalesOrderStatusReadyForDelivery:
		return target == SalesOrderStatusShipped || target == SalesOrderStatusDelivered
	case SalesOrderStatusShipped:
		return target == SalesOrderStatusDelivered
	}
	return false
}

// SalesOrderLine línea de pedido: producto terminado, cantidad y precio.
// Subtotal = UnitPrice * Quantity (calculado por el servidor).
type SalesOrderLine struct {
	ProductID string
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	Subtotal  decimal.Decimal
}

// SalesOrder pedido de un cliente por productos terminados.
// Invariante: TotalAmount == suma de los subtotales de sus líneas.
type SalesOrder struct {
	ID           string
	ClientID     string
	OrderDate    time.Time
	DeliveryDate time.Time
	Status       SalesOrderStatus
	Lines        []SalesOrderLine
	TotalAmount  decimal.Decimal
	Observation  string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
