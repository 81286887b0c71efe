package audit

import (
	"context"

	"github.com/cvallejo/planta-api/internal/domain/entity"
)

// Notifier reenvía un evento de auditoría a un sink externo después del commit.
// Es best-effort: un fallo del sink no deshace la transacción de negocio
// (el evento ya quedó persistido en audit_events).
type Notifier interface {
	Notify(ctx context.Context, event *entity.AuditEvent)
}

// NopNotifier implementación nula para cuando no hay sink configurado.
type NopNotifier struct{}

// Notify no hace nada.
func (NopNotifier) Notify(context.Context, *entity.AuditEvent) {}
