package sales

import (
	"context"

	"github.com/cvallejo/planta-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD con el
// repositorio de pedidos y el de auditoría atados a esa tx.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		salesRepo repository.SalesOrderRepository,
		auditRepo repository.AuditEventRepository,
	) error) error
}
