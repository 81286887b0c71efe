package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/cvallejo/planta-api/internal/domain/entity"
)

// InventoryMovementRepository puerto de persistencia del libro de inventario.
// Solo inserta y consulta: los asientos nunca se actualizan ni se borran.
type InventoryMovementRepository interface {
	Create(movement *entity.InventoryMovement) error
	GetByID(id string) (*entity.InventoryMovement, error)
	// SumByItem suma las cantidades firmadas de un ítem (stock actual derivado).
	SumByItem(kind entity.ItemKind, itemID string) (decimal.Decimal, error)
	// ListByItem lista asientos de un ítem en un rango, timestamp ascendente.
	// movType vacío = todos los tipos.
	ListByItem(kind entity.ItemKind, itemID string, from, to *time.Time, movType entity.MovementType, limit, offset int) ([]*entity.InventoryMovement, error)
}
