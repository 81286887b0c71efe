package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/cvallejo/planta-api/internal/domain/entity"
	"github.com/cvallejo/planta-api/internal/domain/repository"
)

var _ repository.AuditEventRepository = (*AuditEventRepo)(nil)

// AuditEventRepo implementación sobre PostgreSQL (usable con pool o tx).
// Los eventos se insertan en la misma transacción que la transición que registran.
type AuditEventRepo struct {
	q Querier
}

// NewAuditEventRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAuditEventRepository(q Querier) *AuditEventRepo {
	return &AuditEventRepo{q: q}
}

// Create persiste un evento de auditoría.
func (r *AuditEventRepo) Create(event *entity.AuditEvent) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	query := `
		INSERT INTO audit_events (id, entity, entity_id, action, previous_value, new_value, actor, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		event.ID, event.Entity, event.EntityID, event.Action,
		event.PreviousValue, event.NewValue, event.Actor, event.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("create audit event: %w", err)
	}
	return nil
}

// List eventos filtrados por entidad y/o entityID, timestamp descendente.
func (r *AuditEventRepo) List(entityName, entityID string, limit, offset int) ([]*entity.AuditEvent, error) {
	query := `
		SELECT id, entity, entity_id, action, previous_value, new_value, actor, timestamp
		FROM audit_events`
	args := []any{}
	pos := 1
	clause := " WHERE"
	if entityName != "" {
		query += fmt.Sprintf("%s entity = $%d", clause, pos)
		args = append(args, entityName)
		pos++
		clause = " AND"
	}
	if entityID != "" {
		query += fmt.Sprintf("%s entity_id = $%d", clause, pos)
		args = append(args, entityID)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY timestamp DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	defer rows.Close()
	var list []*entity.AuditEvent
	for rows.Next() {
		var e entity.AuditEvent
		if err := rows.Scan(&e.ID, &e.Entity, &e.EntityID, &e.Action,
			&e.PreviousValue, &e.NewValue, &e.Actor, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}
