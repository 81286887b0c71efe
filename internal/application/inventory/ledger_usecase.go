package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cvallejo/planta-api/internal/application/audit"
	"github.com/cvallejo/planta-api/internal/application/dto"
	"github.com/cvallejo/planta-api/internal/domain"
	"github.com/cvallejo/planta-api/internal/domain/entity"
	"github.com/cvallejo/planta-api/internal/domain/repository"
)

// LedgerUseCase opera el libro de inventario: asientos inmutables de ENTRADA y
// SALIDA, stock actual derivado por suma y reportes por rango. Las correcciones
// son asientos compensatorios, nunca updates.
type LedgerUseCase struct {
	txRunner TxRunner
	movRepo  repository.InventoryMovementRepository
	notifier audit.Notifier
}

// NewLedgerUseCase construye el caso de uso.
func NewLedgerUseCase(txRunner TxRunner, movRepo repository.InventoryMovementRepository, notifier audit.Notifier) *LedgerUseCase {
	if notifier == nil {
		notifier = audit.NopNotifier{}
	}
	return &LedgerUseCase{txRunner: txRunner, movRepo: movRepo, notifier: notifier}
}

// RecordMovement registra un asiento. El caller pasa siempre una magnitud
// positiva; el signo se deriva del tipo (ENTRADA positivo, SALIDA negativo).
// Asiento y evento de auditoría se confirman en la misma transacción.
func (uc *LedgerUseCase) RecordMovement(ctx context.Context, actor string, in dto.RegisterMovementRequest) (string, error) {
	kind := entity.ItemKind(in.ItemKind)
	movType := entity.MovementType(in.Type)
	if !kind.IsValid() || !movType.IsValid() || in.ItemID == "" || in.UnitOfMeasure == "" {
		return "", domain.ErrInvalidInput
	}
	if !in.Quantity.GreaterThan(decimal.Zero) {
		return "", domain.ErrInvalidInput
	}

	now := time.Now()
	mov := buildMovement(kind, in.ItemID, in.Quantity, in.UnitOfMeasure, movType, in.Reason, in.Reference, actor, now)

	event := audit.NewEvent("inventory_movement", mov.ID, "record", "", string(movType), actor, now)
	err := uc.txRunner.Run(ctx, func(movRepo repository.InventoryMovementRepository, auditRepo repository.AuditEventRepository) error {
		if err := movRepo.Create(mov); err != nil {
			return err
		}
		return auditRepo.Create(event)
	})
	if err != nil {
		return "", err
	}
	uc.notifier.Notify(ctx, event)
	return mov.ID, nil
}

// CurrentStock stock actual de un ítem: suma de las cantidades firmadas de
// todos sus asientos.
func (uc *LedgerUseCase) CurrentStock(ctx context.Context, kind entity.ItemKind, itemID string) (decimal.Decimal, error) {
	if !kind.IsValid() || itemID == "" {
		return decimal.Zero, domain.ErrInvalidInput
	}
	return uc.movRepo.SumByItem(kind, itemID)
}

// MovementsInRange asientos de un ítem en un rango de fechas, timestamp
// ascendente. movType vacío = todos.
func (uc *LedgerUseCase) MovementsInRange(ctx context.Context, kind entity.ItemKind, itemID string, from, to *time.Time, movType entity.MovementType, limit, offset int) ([]*entity.InventoryMovement, error) {
	if !kind.IsValid() || itemID == "" {
		return nil, domain.ErrInvalidInput
	}
	if movType != "" && !movType.IsValid() {
		return nil, domain.ErrInvalidInput
	}
	return uc.movRepo.ListByItem(kind, itemID, from, to, movType, limit, offset)
}

// RecordEntradaInTx registra una ENTRADA usando el repositorio de la
// transacción del caller (recepciones de compra, producto terminado).
// El caller ya validó la magnitud.
func (uc *LedgerUseCase) RecordEntradaInTx(
	movRepo repository.InventoryMovementRepository,
	kind entity.ItemKind, itemID string,
	quantity decimal.Decimal, unitOfMeasure, reason, reference, actor string,
	now time.Time,
) error {
	return movRepo.Create(buildMovement(kind, itemID, quantity, unitOfMeasure, entity.MovementTypeEntrada, reason, reference, actor, now))
}

// RecordSalidaInTx registra una SALIDA en la transacción del caller (consumo
// de materias primas en producción). El caller verificó suficiencia antes.
func (uc *LedgerUseCase) RecordSalidaInTx(
	movRepo repository.InventoryMovementRepository,
	kind entity.ItemKind, itemID string,
	quantity decimal.Decimal, unitOfMeasure, reason, reference, actor string,
	now time.Time,
) error {
	return movRepo.Create(buildMovement(kind, itemID, quantity, unitOfMeasure, entity.MovementTypeSalida, reason, reference, actor, now))
}

// buildMovement aplica el signo según el tipo y arma el asiento.
func buildMovement(kind entity.ItemKind, itemID string, quantity decimal.Decimal, unitOfMeasure string, movType entity.MovementType, reason, reference, actor string, now time.Time) *entity.InventoryMovement {
	signed := quantity
	if movType == entity.MovementTypeSalida {
		signed = quantity.Neg()
	}
	return &entity.InventoryMovement{
		ID:            uuid.New().String(),
		ItemKind:      kind,
		ItemID:        itemID,
		Quantity:      signed,
		UnitOfMeasure: unitOfMeasure,
		Type:          movType,
		Reason:        reason,
		Reference:     reference,
		Timestamp:     now,
		RecordedBy:    actor,
	}
}
