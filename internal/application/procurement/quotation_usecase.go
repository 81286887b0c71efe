package procurement

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

const quotationEntity = "supplier_quotation"

// QuotationUseCase máquina de estados de cotizaciones de proveedor:
// PENDING -> APPROVED | REJECTED | EXPIRED. Una cotización aprobada es la
// puerta de entrada a la orden de compra.
type QuotationUseCase struct {
	txRunner        TxRunner
	quoteRepo       repository.SupplierQuotationRepository
	supplierRepo    repository.SupplierRepository
	rawMaterialRepo repository.RawMaterialRepository
	notifier        audit.Notifier
}

// NewQuotationUseCase construye el caso de uso.
func NewQuotationUseCase(
	txRunner TxRunner,
	quoteRepo repository.SupplierQuotationRepository,
	supplierRepo repository.SupplierRepository,
	rawMaterialRepo repository.RawMaterialRepository,
	notifier audit.Notifier,
) *QuotationUseCase {
	if notifier == nil {
		notifier = audit.NopNotifier{}
	}
	return &QuotationUseCase{
		txRunner:        txRunner,
		quoteRepo:       quoteRepo,
		supplierRepo:    supplierRepo,
		rawMaterialRepo: rawMaterialRepo,
		notifier:        notifier,
	}
}

// Create valida líneas (cantidad y precio positivos), calcula subtotales y
// total en el servidor (nunca confía en un total del cliente) y persiste la
// cotización en PENDING.
func (uc *QuotationUseCase) Create(ctx context.Context, actor string, in dto.CreateQuotationRequest) (*dto.QuotationResponse, error) {
	if in.SupplierID == "" || len(in.Lines) == 0 || in.ValidityDays <= 0 {
		return nil, domain.ErrInvalidInput
	}
	supplier, err := uc.supplierRepo.GetByID(in.SupplierID)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, domain.ErrNotFound
	}

	now := time.Now()
	quotation := &entity.SupplierQuotation{
		ID:           uuid.New().String(),
		SupplierID:   in.SupplierID,
		ValidityDays: in.ValidityDays,
		Status:       entity.QuotationStatusPending,
		CreatedAt:    now,
	}
	total := decimal.Zero
	for _, l := range in.Lines {
		if l.RawMaterialID == "" || !l.Quantity.GreaterThan(decimal.Zero) || !l.UnitPrice.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		rm, err := uc.rawMaterialRepo.GetByID(l.RawMaterialID)
		if err != nil {
			return nil, err
		}
		if rm == nil {
			return nil, domain.ErrNotFound
		}
		subtotal := l.UnitPrice.Mul(l.Quantity)
		quotation.Lines = append(quotation.Lines, entity.QuotationLine{
			RawMaterialID: l.RawMaterialID,
			UnitPrice:     l.UnitPrice,
			Quantity:      l.Quantity,
			Subtotal:      subtotal,
		})
		total = total.Add(subtotal)
	}
	quotation.TotalAmount = total

	event := audit.NewEvent(quotationEntity, quotation.ID, "create", "", string(entity.QuotationStatusPending), actor, now)
	err = uc.txRunner.Run(ctx, func(
		quoteRepo repository.SupplierQuotationRepository,
		_ repository.PurchaseOrderRepository,
		_ repository.InventoryMovementRepository,
		auditRepo repository.AuditEventRepository,
	) error {
		if err := quoteRepo.Create(quotation); err != nil {
			return err
		}
		return auditRepo.Create(event)
	})
	if err != nil {
		return nil, err
	}
	uc.notifier.Notify(ctx, event)
	return toQuotationResponse(quotation), nil
}

// Approve transición PENDING -> APPROVED. Una cotización PENDING ya vencida
// se expira en el acto y la aprobación se rechaza.
func (uc *QuotationUseCase) Approve(ctx context.Context, actor, id string) error {
	return uc.transition(ctx, actor, id, entity.QuotationStatusApproved, "approve")
}

// Reject transición PENDING -> REJECTED.
func (uc *QuotationUseCase) Reject(ctx context.Context, actor, id string) error {
	return uc.transition(ctx, actor, id, entity.QuotationStatusRejected, "reject")
}

func (uc *QuotationUseCase) transition(ctx context.Context, actor, id string, target entity.QuotationStatus, action string) error {
	now := time.Now()
	var event *entity.AuditEvent
	err := uc.txRunner.Run(ctx, func(
		quoteRepo repository.SupplierQuotationRepository,
		_ repository.PurchaseOrderRepository,
		_ repository.InventoryMovementRepository,
		auditRepo repository.AuditEventRepository,
	) error {
		quotation, err := quoteRepo.GetByID(id)
		if err != nil {
			return err
		}
		if quotation == nil {
			return domain.ErrNotFound
		}
		// Guardia perezosa: vencida y aún PENDING -> EXPIRED antes de decidir
		if quotation.Status == entity.QuotationStatusPending && quotation.IsDue(now) {
			if err := quoteRepo.UpdateStatus(id, entity.QuotationStatusExpired); err != nil {
				return err
			}
			expired := audit.NewEvent(quotationEntity, id, "expire", string(entity.QuotationStatusPending), string(entity.QuotationStatusExpired), "system", now)
			if err := auditRepo.Create(expired); err != nil {
				return err
			}
			return domain.NewStateTransitionError(quotationEntity, string(entity.QuotationStatusExpired), string(target))
		}
		if !quotation.Status.CanTransitionTo(target) {
			return domain.NewStateTransitionError(quotationEntity, string(quotation.Status), string(target))
		}
		if err := quoteRepo.UpdateStatus(id, target); err != nil {
			return err
		}
		event = audit.NewEvent(quotationEntity, id, action, string(quotation.Status), string(target), actor, now)
		return auditRepo.Create(event)
	})
	if err != nil {
		return err
	}
	uc.notifier.Notify(ctx, event)
	return nil
}

// ExpireDue barre las cotizaciones PENDING vencidas y las pasa a EXPIRED.
// La invoca un ticker del proceso, no un usuario. Devuelve cuántas expiró.
func (uc *QuotationUseCase) ExpireDue(ctx context.Context, now time.Time) (int, error) {
	due, err := uc.quoteRepo.ListDuePending(now)
	if err != nil {
		return 0, err
	}
	expired := 0
	for _, quotation := range due {
		event := audit.NewEvent(quotationEntity, quotation.ID, "expire", string(entity.QuotationStatusPending), string(entity.QuotationStatusExpired), "system", now)
		err := uc.txRunner.Run(ctx, func(
			quoteRepo repository.SupplierQuotationRepository,
			_ repository.PurchaseOrderRepository,
			_ repository.InventoryMovementRepository,
			auditRepo repository.AuditEventRepository,
		) error {
			current, err := quoteRepo.GetByID(quotation.ID)
			if err != nil {
				return err
			}
			// Pudo aprobarse/rechazarse entre el listado y esta tx
			if current == nil || current.Status != entity.QuotationStatusPending {
				return nil
			}
			if err := quoteRepo.UpdateStatus(quotation.ID, entity.QuotationStatusExpired); err != nil {
				return err
			}
			return auditRepo.Create(event)
		})
		if err != nil {
			return expired, err
		}
		expired++
		uc.notifier.Notify(ctx, event)
	}
	return expired, nil
}

// Delete solo mientras PENDING: las aprobadas/rechazadas se conservan por
// integridad del rastro de auditoría.
func (uc *QuotationUseCase) Delete(ctx context.Context, actor, id string) error {
	now := time.Now()
	var event *entity.AuditEvent
	err := uc.txRunner.Run(ctx, func(
		quoteRepo repository.SupplierQuotationRepository,
		_ repository.PurchaseOrderRepository,
		_ repository.InventoryMovementRepository,
		auditRepo repository.AuditEventRepository,
	) error {
		quotation, err := quoteRepo.GetByID(id)
		if err != nil {
			return err
		}
		if quotation == nil {
			return domain.ErrNotFound
		}
		if quotation.Status != entity.QuotationStatusPending {
			return domain.NewStateTransitionError(quotationEntity, string(quotation.Status), "DELETED")
		}
		if err := quoteRepo.Delete(id); err != nil {
			return err
		}
		event = audit.NewEvent(quotationEntity, id, "delete", string(quotation.Status), "", actor, now)
		return auditRepo.Create(event)
	})
	if err != nil {
		return err
	}
	uc.notifier.Notify(ctx, event)
	return nil
}

// GetByID cotización por ID.
func (uc *QuotationUseCase) GetByID(ctx context.Context, id string) (*dto.QuotationResponse, error) {
	quotation, err := uc.quoteRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if quotation == nil {
		return nil, domain.ErrNotFound
	}
	return toQuotationResponse(quotation), nil
}

// List cotizaciones, opcionalmente por proveedor.
func (uc *QuotationUseCase) List(ctx context.Context, supplierID string, limit, offset int) ([]*dto.QuotationResponse, error) {
	var (
		quotations []*entity.SupplierQuotation
		err        error
	)
	if supplierID != "" {
		quotations, err = uc.quoteRepo.ListBySupplier(supplierID, limit, offset)
	} else {
		quotations, err = uc.quoteRepo.List(limit, offset)
	}
	if err != nil {
		return nil, err
	}
	out := make([]*dto.QuotationResponse, 0, len(quotations))
	for _, q := range quotations {
		out = append(out, toQuotationResponse(q))
	}
	return out, nil
}

func toQuotationResponse(q *entity.SupplierQuotation) *dto.QuotationResponse {
	resp := &dto.QuotationResponse{
		ID:           q.ID,
		SupplierID:   q.SupplierID,
		TotalAmount:  q.TotalAmount,
		ValidityDays: q.ValidityDays,
		Status:       string(q.Status),
		CreatedAt:    q.CreatedAt,
	}
	for _, l := range q.Lines {
		resp.Lines = append(resp.Lines, dto.QuotationLineResponse{
			RawMaterialID: l.RawMaterialID,
			UnitPrice:     l.UnitPrice,
			Quantity:      l.Quantity,
			Subtotal:      l.Subtotal,
		})
	}
	return resp
}
