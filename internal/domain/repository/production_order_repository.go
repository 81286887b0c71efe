package repository

import (
	"time"

	"github.com/cvallejo/planta-api/internal/domain/entity"
)

// ProductionOrderRepository puerto de persistencia para órdenes de producción.
type ProductionOrderRepository interface {
	Create(order *entity.ProductionOrder) error
	GetByID(id string) (*entity.ProductionOrder, error)
	// GetActiveBySalesOrder orden IN_PROGRESS del pedido, nil si no hay.
	GetActiveBySalesOrder(salesOrderID string) (*entity.ProductionOrder, error)
	Finish(id string, endDate time.Time) error
	List(limit, offset int) ([]*entity.ProductionOrder, error)
	ListBySalesOrder(salesOrderID string) ([]*entity.ProductionOrder, error)
}
