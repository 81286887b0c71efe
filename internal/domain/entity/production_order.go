package entity

import "time"

// ProductionOrderStatus estado de una orden de producción.
type ProductionOrderStatus string

const (
	ProductionOrderStatusInProgress ProductionOrderStatus = "IN_PROGRESS"
	ProductionOrderStatusFinished   ProductionOrderStatus = "FINISHED"
)

// IsValid verifica que el estado pertenezca a la enumeración.
func (s ProductionOrderStatus) IsValid() bool {
	return s == ProductionOrderStatusInProgress || s == ProductionOrderStatusFinished
}

// CanTransitionTo única transición legal: IN_PROGRESS -> FINISHED.
func (s ProductionOrderStatus) CanTransitionTo(target ProductionOrderStatus) bool {
	return s == ProductionOrderStatusInProgress && target == ProductionOrderStatusFinished
}

// ProductionOrder unidad de trabajo de fabricación contra un pedido.
// Un pedido tiene a lo más una orden de producción activa (IN_PROGRESS).
type ProductionOrder struct {
	ID           string
	SalesOrderID string
	OperatorID   string
	StartDate    time.Time
	EndDate      *time.Time // nil hasta terminar
	Status       ProductionOrderStatus
	CreatedAt    time.Time
}
