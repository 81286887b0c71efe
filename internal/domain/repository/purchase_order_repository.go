package repository

import "github.com/cvallejo/planta-api/internal/domain/entity"

// PurchaseOrderRepository puerto de persistencia para órdenes de compra.
type PurchaseOrderRepository interface {
	Create(po *entity.PurchaseOrder) error
	GetByID(id string) (*entity.PurchaseOrder, error)
	// GetByIDForUpdate bloquea la fila (SELECT FOR UPDATE) para serializar
	// recepciones concurrentes sobre la misma orden.
	GetByIDForUpdate(id string) (*entity.PurchaseOrder, error)
	GetByQuotationID(quotationID string) (*entity.PurchaseOrder, error)
	UpdateStatus(id string, status entity.PurchaseOrderStatus, observation string) error
	AddReceipt(poID string, line entity.ReceivedLine) error
	Delete(id string) error
	List(limit, offset int) ([]*entity.PurchaseOrder, error)
}
