package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/cvallejo/planta-api/internal/domain/entity"
	"github.com/cvallejo/planta-api/internal/domain/repository"
)

var _ repository.InventoryMovementRepository = (*InventoryMovementRepo)(nil)

// InventoryMovementRepo implementación sobre PostgreSQL (usable con pool o tx).
// La tabla es de solo inserción: no hay UPDATE ni DELETE sobre asientos.
type InventoryMovementRepo struct {
	q Querier
}

// NewInventoryMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryMovementRepository(q Querier) *InventoryMovementRepo {
	return &InventoryMovementRepo{q: q}
}

// Create persiste un asiento del libro de inventario.
func (r *InventoryMovementRepo) Create(movement *entity.InventoryMovement) error {
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	query := `
		INSERT INTO inventory_movements (id, item_kind, item_id, quantity, unit_of_measure, type, reason, reference, timestamp, recorded_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		movement.ID, movement.ItemKind, movement.ItemID, movement.Quantity,
		movement.UnitOfMeasure, movement.Type, movement.Reason, movement.Reference,
		movement.Timestamp, movement.RecordedBy,
	)
	if err != nil {
		return fmt.Errorf("create inventory movement: %w", err)
	}
	return nil
}

// GetByID obtiene un asiento por ID.
func (r *InventoryMovementRepo) GetByID(id string) (*entity.InventoryMovement, error) {
	query := `
		SELECT id, item_kind, item_id, quantity, unit_of_measure, type, reason, reference, timestamp, recorded_by
		FROM inventory_movements WHERE id = $1`
	var m entity.InventoryMovement
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&m.ID, &m.ItemKind, &m.ItemID, &m.Quantity, &m.UnitOfMeasure,
		&m.Type, &m.Reason, &m.Reference, &m.Timestamp, &m.RecordedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return &m, nil
}

// SumByItem stock actual de un ítem: suma de cantidades firmadas de sus asientos.
func (r *InventoryMovementRepo) SumByItem(kind entity.ItemKind, itemID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(quantity), 0)
		FROM inventory_movements WHERE item_kind = $1 AND item_id = $2`
	var sum decimal.Decimal
	if err := r.q.QueryRow(context.Background(), query, kind, itemID).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("sum by item: %w", err)
	}
	return sum, nil
}

// ListByItem lista asientos de un ítem en un rango de fechas, orden cronológico.
func (r *InventoryMovementRepo) ListByItem(kind entity.ItemKind, itemID string, from, to *time.Time, movType entity.MovementType, limit, offset int) ([]*entity.InventoryMovement, error) {
	query := `
		SELECT id, item_kind, item_id, quantity, unit_of_measure, type, reason, reference, timestamp, recorded_by
		FROM inventory_movements WHERE item_kind = $1 AND item_id = $2`
	args := []any{kind, itemID}
	pos := 3
	if from != nil {
		query += fmt.Sprintf(" AND timestamp >= $%d", pos)
		args = append(args, *from)
		pos++
	}
	if to != nil {
		query += fmt.Sprintf(" AND timestamp <= $%d", pos)
		args = append(args, *to)
		pos++
	}
	if movType != "" {
		query += fmt.Sprintf(" AND type = $%d", pos)
		args = append(args, movType)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY timestamp ASC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list by item: %w", err)
	}
	defer rows.Close()
	var list []*entity.InventoryMovement
	for rows.Next() {
		var m entity.InventoryMovement
		if err := rows.Scan(&m.ID, &m.ItemKind, &m.ItemID, &m.Quantity, &m.UnitOfMeasure,
			&m.Type, &m.Reason, &m.Reference, &m.Timestamp, &m.RecordedBy); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
