package repository

import "github.com/cvallejo/planta-api/internal/domain/entity"

// SalesOrderRepository puerto de persistencia para pedidos.
type SalesOrderRepository interface {
	Create(order *entity.SalesOrder) error
	GetByID(id string) (*entity.SalesOrder, error)
	// GetByIDForUpdate bloquea la fila para serializar el cambio de estado
	// frente a creación/cierre de órdenes de producción concurrentes.
	GetByIDForUpdate(id string) (*entity.SalesOrder, error)
	// Update reemplaza cabecera y líneas (borrar + reinsertar líneas).
	Update(order *entity.SalesOrder) error
	UpdateStatus(id string, status entity.SalesOrderStatus) error
	Delete(id string) error
	List(limit, offset int) ([]*entity.SalesOrder, error)
	ListByClient(clientID string, limit, offset int) ([]*entity.SalesOrder, error)
}
