package inventory

import (
	"context"

	"github.com/cvallejo/planta-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza que el asiento del libro y su
// evento de auditoría se confirmen juntos.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.InventoryMovementRepository,
		auditRepo repository.AuditEventRepository,
	) error) error
}
