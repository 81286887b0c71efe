package repository

import "github.com/cvallejo/planta-api/internal/domain/entity"

// AuditEventRepository puerto de persistencia para eventos de auditoría.
// Se escribe dentro de la misma transacción que la transición que registra.
type AuditEventRepository interface {
	Create(event *entity.AuditEvent) error
	// List filtra por entidad y/o entityID (vacíos = sin filtro), timestamp descendente.
	List(entityName, entityID string, limit, offset int) ([]*entity.AuditEvent, error)
}
