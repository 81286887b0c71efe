package production

import (
	"context"

	"github.com/cvallejo/planta-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD con los
// repositorios de producción atados a esa tx. Crear una orden exige revalidar
// el chequeo de stock y voltear el pedido a IN_PRODUCTION en la misma unidad;
// terminar exige los asientos duales (SALIDA materias primas, ENTRADA producto)
// junto con el cierre de la orden y el avance del pedido.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		prodRepo repository.ProductionOrderRepository,
		salesRepo repository.SalesOrderRepository,
		movRepo repository.InventoryMovementRepository,
		auditRepo repository.AuditEventRepository,
	) error) error
}
