package procurement

import (
	"context"

	"github.com/cvallejo/planta-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD con los
// repositorios del ciclo de compras atados a esa tx. La recepción de mercancía
// exige que asientos del libro, recepciones, estado de la orden y auditoría
// se confirmen como una sola unidad.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		quoteRepo repository.SupplierQuotationRepository,
		poRepo repository.PurchaseOrderRepository,
		movRepo repository.InventoryMovementRepository,
		auditRepo repository.AuditEventRepository,
	) error) error
}
