package audit

import (
	"time"

	"github.com/google/uuid"

	"github.com/cvallejo/planta-api/internal/domain/entity"
	"github.com/cvallejo/planta-api/internal/domain/repository"
)

// NewEvent arma un evento de auditoría con ID y timestamp asignados.
func NewEvent(entityName, entityID, action, previous, newValue, actor string, now time.Time) *entity.AuditEvent {
	return &entity.AuditEvent{
		ID:            uuid.New().String(),
		Entity:        entityName,
		EntityID:      entityID,
		Action:        action,
		PreviousValue: previous,
		NewValue:      newValue,
		Actor:         actor,
		Timestamp:     now,
	}
}

// ListUseCase consulta del rastro de auditoría.
type ListUseCase struct {
	repo repository.AuditEventRepository
}

// NewListUseCase construye el caso de uso.
func NewListUseCase(repo repository.AuditEventRepository) *ListUseCase {
	return &ListUseCase{repo: repo}
}

// List eventos filtrados por entidad y/o entityID, más recientes primero.
func (uc *ListUseCase) List(entityName, entityID string, limit, offset int) ([]*entity.AuditEvent, error) {
	return uc.repo.List(entityName, entityID, limit, offset)
}
