package procurement

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cvallejo/planta-api/internal/application/audit"
	"github.com/cvallejo/planta-api/internal/application/dto"
	"github.com/cvallejo/planta-api/internal/application/inventory"
	"github.com/cvallejo/planta-api/internal/domain"
	"github.com/cvallejo/planta-api/internal/domain/entity"
	"github.com/cvallejo/planta-api/internal/domain/repository"
)

const purchaseOrderEntity = "purchase_order"

// PurchaseOrderUseCase máquina de estados de órdenes de compra:
// PENDING -> SENT -> {PARTIALLY_RECEIVED, RECEIVED}; no-RECEIVED -> CANCELLED.
// La recepción es la ÚNICA vía por la que la compra mete stock al libro:
// el estado RECEIVED no es alcanzable por edición directa.
type PurchaseOrderUseCase struct {
	txRunner        TxRunner
	poRepo          repository.PurchaseOrderRepository
	quoteRepo       repository.SupplierQuotationRepository
	rawMaterialRepo repository.RawMaterialRepository
	supplierRepo    repository.SupplierRepository
	ledger          *inventory.LedgerUseCase
	notifier        audit.Notifier
	pdfGen          PurchaseOrderPDFGenerator
}

// NewPurchaseOrderUseCase construye el caso de uso. pdfGen puede ser nil si
// no se expone la impresión de órdenes.
func NewPurchaseOrderUseCase(
	txRunner TxRunner,
	poRepo repository.PurchaseOrderRepository,
	quoteRepo repository.SupplierQuotationRepository,
	rawMaterialRepo repository.RawMaterialRepository,
	supplierRepo repository.SupplierRepository,
	ledger *inventory.LedgerUseCase,
	notifier audit.Notifier,
	pdfGen PurchaseOrderPDFGenerator,
) *PurchaseOrderUseCase {
	if notifier == nil {
		notifier = audit.NopNotifier{}
	}
	return &PurchaseOrderUseCase{
		txRunner:        txRunner,
		poRepo:          poRepo,
		quoteRepo:       quoteRepo,
		rawMaterialRepo: rawMaterialRepo,
		supplierRepo:    supplierRepo,
		ledger:          ledger,
		notifier:        notifier,
		pdfGen:          pdfGen,
	}
}

// Create crea la orden desde una cotización APROBADA que no tenga ya una
// orden (a lo más una por cotización; además hay unique constraint en DB).
func (uc *PurchaseOrderUseCase) Create(ctx context.Context, actor string, in dto.CreatePurchaseOrderRequest) (*dto.PurchaseOrderResponse, error) {
	if in.QuotationID == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	po := &entity.PurchaseOrder{
		ID:          uuid.New().String(),
		QuotationID: in.QuotationID,
		Status:      entity.PurchaseOrderStatusPending,
		Observation: in.Observation,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	event := audit.NewEvent(purchaseOrderEntity, po.ID, "create", "", string(entity.PurchaseOrderStatusPending), actor, now)
	err := uc.txRunner.Run(ctx, func(
		quoteRepo repository.SupplierQuotationRepository,
		poRepo repository.PurchaseOrderRepository,
		_ repository.InventoryMovementRepository,
		auditRepo repository.AuditEventRepository,
	) error {
		quotation, err := quoteRepo.GetByID(in.QuotationID)
		if err != nil {
			return err
		}
		if quotation == nil {
			return domain.ErrNotFound
		}
		if quotation.Status != entity.QuotationStatusApproved {
			return domain.ErrQuotationNotApproved
		}
		existing, err := poRepo.GetByQuotationID(in.QuotationID)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrDuplicatePurchaseOrder
		}
		if err := poRepo.Create(po); err != nil {
			return err
		}
		return auditRepo.Create(event)
	})
	if err != nil {
		return nil, err
	}
	uc.notifier.Notify(ctx, event)
	return toPurchaseOrderResponse(po), nil
}

// Receive registra una recepción (posiblemente parcial) contra la orden.
// Serializada por bloqueo de fila sobre la orden: dos recepciones concurrentes
// no pueden pasar el chequeo de sobre-recepción contra un acumulado viejo.
// Asientos ENTRADA, recepciones, estado y auditoría se confirman juntos.
func (uc *PurchaseOrderUseCase) Receive(ctx context.Context, actor, poID string, items []dto.ReceiveItemRequest) (*dto.PurchaseOrderResponse, error) {
	if poID == "" || len(items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	for _, item := range items {
		if item.RawMaterialID == "" || !item.QuantityReceived.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
	}

	// Unidades de medida para los asientos (solo lectura, fuera de la tx)
	units := make(map[string]string, len(items))
	for _, item := range items {
		if _, ok := units[item.RawMaterialID]; ok {
			continue
		}
		rm, err := uc.rawMaterialRepo.GetByID(item.RawMaterialID)
		if err != nil {
			return nil, err
		}
		if rm == nil {
			return nil, domain.ErrNotFound
		}
		units[item.RawMaterialID] = rm.UnitOfMeasure
	}

	now := time.Now()
	var (
		result *entity.PurchaseOrder
		event  *entity.AuditEvent
	)
	err := uc.txRunner.Run(ctx, func(
		quoteRepo repository.SupplierQuotationRepository,
		poRepo repository.PurchaseOrderRepository,
		movRepo repository.InventoryMovementRepository,
		auditRepo repository.AuditEventRepository,
	) error {
		po, err := poRepo.GetByIDForUpdate(poID)
		if err != nil {
			return err
		}
		if po == nil {
			return domain.ErrNotFound
		}
		if !po.Status.CanReceive() {
			return domain.NewStateTransitionError(purchaseOrderEntity, string(po.Status), string(entity.PurchaseOrderStatusReceived))
		}
		quotation, err := quoteRepo.GetByID(po.QuotationID)
		if err != nil {
			return err
		}
		if quotation == nil {
			return domain.ErrNotFound
		}

		// Validar acumulados ANTES de cualquier efecto
		cumulative := make(map[string]decimal.Decimal, len(items))
		for _, item := range items {
			ordered := quotation.OrderedQuantity(item.RawMaterialID)
			if ordered.IsZero() {
				return domain.ErrInvalidInput // materia prima no cotizada
			}
			prev, ok := cumulative[item.RawMaterialID]
			if !ok {
				prev = po.CumulativeReceived(item.RawMaterialID)
			}
			next := prev.Add(item.QuantityReceived)
			if next.GreaterThan(ordered) {
				return &domain.OverReceiptError{
					PurchaseOrderID: poID,
					RawMaterialID:   item.RawMaterialID,
					Ordered:         ordered,
					Cumulative:      prev,
					Attempted:       item.QuantityReceived,
				}
			}
			cumulative[item.RawMaterialID] = next
		}

		// ENTRADA al libro y recepción por cada ítem
		for _, item := range items {
			if err := uc.ledger.RecordEntradaInTx(
				movRepo, entity.ItemKindRawMaterial, item.RawMaterialID,
				item.QuantityReceived, units[item.RawMaterialID],
				"recepción de compra", poID, actor, now,
			); err != nil {
				return err
			}
			line := entity.ReceivedLine{
				RawMaterialID:    item.RawMaterialID,
				QuantityReceived: item.QuantityReceived,
				ReceivedAt:       now,
				ReceivedBy:       actor,
			}
			if err := poRepo.AddReceipt(poID, line); err != nil {
				return err
			}
			po.ReceivedLines = append(po.ReceivedLines, line)
		}

		// Recalcular estado: completa -> RECEIVED, si no PARTIALLY_RECEIVED
		previous := po.Status
		newStatus := entity.PurchaseOrderStatusPartiallyReceived
		if po.FullyReceived(quotation) {
			newStatus = entity.PurchaseOrderStatusReceived
		}
		if err := poRepo.UpdateStatus(poID, newStatus, po.Observation); err != nil {
			return err
		}
		po.Status = newStatus
		po.UpdatedAt = now
		result = po

		event = audit.NewEvent(purchaseOrderEntity, poID, "receive", string(previous), string(newStatus), actor, now)
		return auditRepo.Create(event)
	})
	if err != nil {
		return nil, err
	}
	uc.notifier.Notify(ctx, event)
	return toPurchaseOrderResponse(result), nil
}

// Update edición directa de estado/observación. Solo mientras la orden siga
// en PENDING, SENT o PARTIALLY_RECEIVED; RECEIVED y CANCELLED son inmutables.
// Los estados de recepción no son alcanzables por esta vía.
func (uc *PurchaseOrderUseCase) Update(ctx context.Context, actor, poID string, in dto.UpdatePurchaseOrderRequest) error {
	now := time.Now()
	var event *entity.AuditEvent
	err := uc.txRunner.Run(ctx, func(
		_ repository.SupplierQuotationRepository,
		poRepo repository.PurchaseOrderRepository,
		_ repository.InventoryMovementRepository,
		auditRepo repository.AuditEventRepository,
	) error {
		po, err := poRepo.GetByIDForUpdate(poID)
		if err != nil {
			return err
		}
		if po == nil {
			return domain.ErrNotFound
		}
		if !po.Status.CanEdit() {
			return domain.ErrImmutableState
		}
		newStatus := po.Status
		if in.Status != "" {
			target := entity.PurchaseOrderStatus(in.Status)
			if !target.IsValid() {
				return domain.ErrInvalidInput
			}
			if !po.Status.CanTransitionTo(target) {
				return domain.NewStateTransitionError(purchaseOrderEntity, string(po.Status), string(target))
			}
			newStatus = target
		}
		observation := po.Observation
		if in.Observation != "" {
			observation = in.Observation
		}
		if err := poRepo.UpdateStatus(poID, newStatus, observation); err != nil {
			return err
		}
		event = audit.NewEvent(purchaseOrderEntity, poID, "edit", string(po.Status), string(newStatus), actor, now)
		return auditRepo.Create(event)
	})
	if err != nil {
		return err
	}
	uc.notifier.Notify(ctx, event)
	return nil
}

// Delete solo mientras PENDING.
func (uc *PurchaseOrderUseCase) Delete(ctx context.Context, actor, poID string) error {
	now := time.Now()
	var event *entity.AuditEvent
	err := uc.txRunner.Run(ctx, func(
		_ repository.SupplierQuotationRepository,
		poRepo repository.PurchaseOrderRepository,
		_ repository.InventoryMovementRepository,
		auditRepo repository.AuditEventRepository,
	) error {
		po, err := poRepo.GetByIDForUpdate(poID)
		if err != nil {
			return err
		}
		if po == nil {
			return domain.ErrNotFound
		}
		if po.Status != entity.PurchaseOrderStatusPending {
			return domain.NewStateTransitionError(purchaseOrderEntity, string(po.Status), "DELETED")
		}
		if err := poRepo.Delete(poID); err != nil {
			return err
		}
		event = audit.NewEvent(purchaseOrderEntity, poID, "delete", string(po.Status), "", actor, now)
		return auditRepo.Create(event)
	})
	if err != nil {
		return err
	}
	uc.notifier.Notify(ctx, event)
	return nil
}

// GetByID orden por ID.
func (uc *PurchaseOrderUseCase) GetByID(ctx context.Context, id string) (*dto.PurchaseOrderResponse, error) {
	po, err := uc.poRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if po == nil {
		return nil, domain.ErrNotFound
	}
	return toPurchaseOrderResponse(po), nil
}

// List órdenes de compra.
func (uc *PurchaseOrderUseCase) List(ctx context.Context, limit, offset int) ([]*dto.PurchaseOrderResponse, error) {
	pos, err := uc.poRepo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.PurchaseOrderResponse, 0, len(pos))
	for _, po := range pos {
		out = append(out, toPurchaseOrderResponse(po))
	}
	return out, nil
}

func toPurchaseOrderResponse(po *entity.PurchaseOrder) *dto.PurchaseOrderResponse {
	resp := &dto.PurchaseOrderResponse{
		ID:          po.ID,
		QuotationID: po.QuotationID,
		Status:      string(po.Status),
		Observation: po.Observation,
		CreatedAt:   po.CreatedAt,
		UpdatedAt:   po.UpdatedAt,
	}
	for _, l := range po.ReceivedLines {
		resp.ReceivedLines = append(resp.ReceivedLines, dto.ReceivedLineResponse{
			RawMaterialID:    l.RawMaterialID,
			QuantityReceived: l.QuantityReceived,
			ReceivedAt:       l.ReceivedAt,
			ReceivedBy:       l.ReceivedBy,
		})
	}
	return resp
}
