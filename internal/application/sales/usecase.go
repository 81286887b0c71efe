package sales

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

const salesOrderEntity = "sales_order"

// SalesOrderUseCase ciclo de vida del pedido:
// PENDING -> IN_PRODUCTION -> READY_FOR_DELIVERY -> SHIPPED -> DELIVERED,
// con PENDING -> CANCELLED. Los tramos de producción los maneja la orden de
// producción; aquí van las acciones directas del usuario.
type SalesOrderUseCase struct {
	txRunner    TxRunner
	salesRepo   repository.SalesOrderRepository
	clientRepo  repository.ClientRepository
	prodCatRepo repository.ProductRepository
	notifier    audit.Notifier
}

// NewSalesOrderUseCase construye el caso de uso.
func NewSalesOrderUseCase(
	txRunner TxRunner,
	salesRepo repository.SalesOrderRepository,
	clientRepo repository.ClientRepository,
	productRepo repository.ProductRepository,
	notifier audit.Notifier,
) *SalesOrderUseCase {
	if notifier == nil {
		notifier = audit.NopNotifier{}
	}
	return &SalesOrderUseCase{
		txRunner:    txRunner,
		salesRepo:   salesRepo,
		clientRepo:  clientRepo,
		prodCatRepo: productRepo,
		notifier:    notifier,
	}
}

// Create valida líneas, calcula subtotales y total en el servidor y persiste
// el pedido en PENDING.
func (uc *SalesOrderUseCase) Create(ctx context.Context, actor string, in dto.CreateSalesOrderRequest) (*dto.SalesOrderResponse, error) {
	if in.ClientID == "" || len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	client, err := uc.clientRepo.GetByID(in.ClientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.ErrNotFound
	}

	now := time.Now()
	orderDate := in.OrderDate
	if orderDate.IsZero() {
		orderDate = now
	}
	lines, total, err := uc.buildLines(in.Lines)
	if err != nil {
		return nil, err
	}
	order := &entity.SalesOrder{
		ID:           uuid.New().String(),
		ClientID:     in.ClientID,
		OrderDate:    orderDate,
		DeliveryDate: in.DeliveryDate,
		Status:       entity.SalesOrderStatusPending,
		Lines:        lines,
		TotalAmount:  total,
		Observation:  in.Observation,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	event := audit.NewEvent(salesOrderEntity, order.ID, "create", "", string(entity.SalesOrderStatusPending), actor, now)
	err = uc.txRunner.Run(ctx, func(salesRepo repository.SalesOrderRepository, auditRepo repository.AuditEventRepository) error {
		if err := salesRepo.Create(order); err != nil {
			return err
		}
		return auditRepo.Create(event)
	})
	if err != nil {
		return nil, err
	}
	uc.notifier.Notify(ctx, event)
	return toSalesOrderResponse(order), nil
}

// Edit recalcula el total desde las líneas recibidas. Editable en cualquier
// estado no terminal (hasta confirmar la entrega).
func (uc *SalesOrderUseCase) Edit(ctx context.Context, actor, id string, in dto.EditSalesOrderRequest) (*dto.SalesOrderResponse, error) {
	if len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	lines, total, err := uc.buildLines(in.Lines)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	var (
		result *entity.SalesOrder
		event  *entity.AuditEvent
	)
	err = uc.txRunner.Run(ctx, func(salesRepo repository.SalesOrderRepository, auditRepo repository.AuditEventRepository) error {
		order, err := salesRepo.GetByIDForUpdate(id)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if !order.Status.CanEdit() {
			return domain.ErrImmutableState
		}
		order.Lines = lines
		order.TotalAmount = total
		// Observación omitida conserva la anterior, igual que en la edición
		// de órdenes de compra
		if in.Observation != "" {
			order.Observation = in.Observation
		}
		if !in.DeliveryDate.IsZero() {
			order.DeliveryDate = in.DeliveryDate
		}
		order.UpdatedAt = now
		if err := salesRepo.Update(order); err != nil {
			return err
		}
		result = order
		event = audit.NewEvent(salesOrderEntity, id, "edit", string(order.Status), string(order.Status), actor, now)
		return auditRepo.Create(event)
	})
	if err != nil {
		return nil, err
	}
	uc.notifier.Notify(ctx, event)
	return toSalesOrderResponse(result), nil
}

// Cancel legal solo desde PENDING.
func (uc *SalesOrderUseCase) Cancel(ctx context.Context, actor, id string) error {
	now := time.Now()
	var event *entity.AuditEvent
	err := uc.txRunner.Run(ctx, func(salesRepo repository.SalesOrderRepository, auditRepo repository.AuditEventRepository) error {
		order, err := salesRepo.GetByIDForUpdate(id)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if !order.Status.CanCancel() {
			return domain.NewStateTransitionError(salesOrderEntity, string(order.Status), string(entity.SalesOrderStatusCancelled))
		}
		if err := salesRepo.UpdateStatus(id, entity.SalesOrderStatusCancelled); err != nil {
			return err
		}
		event = audit.NewEvent(salesOrderEntity, id, "cancel", string(order.Status), string(entity.SalesOrderStatusCancelled), actor, now)
		return auditRepo.Create(event)
	})
	if err != nil {
		return err
	}
	uc.notifier.Notify(ctx, event)
	return nil
}

// Advance transiciones directas del usuario: READY_FOR_DELIVERY -> SHIPPED,
// READY_FOR_DELIVERY -> DELIVERED, SHIPPED -> DELIVERED. Nada más.
func (uc *SalesOrderUseCase) Advance(ctx context.Context, actor, id string, target entity.SalesOrderStatus) error {
	if !target.IsValid() {
		return domain.ErrInvalidInput
	}
	now := time.Now()
	var event *entity.AuditEvent
	err := uc.txRunner.Run(ctx, func(salesRepo repository.SalesOrderRepository, auditRepo repository.AuditEventRepository) error {
		order, err := salesRepo.GetByIDForUpdate(id)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if !order.Status.CanAdvanceTo(target) {
			return domain.NewStateTransitionError(salesOrderEntity, string(order.Status), string(target))
		}
		if err := salesRepo.UpdateStatus(id, target); err != nil {
			return err
		}
		event = audit.NewEvent(salesOrderEntity, id, "advance", string(order.Status), string(target), actor, now)
		return auditRepo.Create(event)
	})
	if err != nil {
		return err
	}
	uc.notifier.Notify(ctx, event)
	return nil
}

// Delete solo desde PENDING.
func (uc *SalesOrderUseCase) Delete(ctx context.Context, actor, id string) error {
	now := time.Now()
	var event *entity.AuditEvent
	err := uc.txRunner.Run(ctx, func(salesRepo repository.SalesOrderRepository, auditRepo repository.AuditEventRepository) error {
		order, err := salesRepo.GetByIDForUpdate(id)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if order.Status != entity.SalesOrderStatusPending {
			return domain.NewStateTransitionError(salesOrderEntity, string(order.Status), "DELETED")
		}
		if err := salesRepo.Delete(id); err != nil {
			return err
		}
		event = audit.NewEvent(salesOrderEntity, id, "delete", string(order.Status), "", actor, now)
		return auditRepo.Create(event)
	})
	if err != nil {
		return err
	}
	uc.notifier.Notify(ctx, event)
	return nil
}

// GetByID pedido por ID.
func (uc *SalesOrderUseCase) GetByID(ctx context.Context, id string) (*dto.SalesOrderResponse, error) {
	order, err := uc.salesRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	return toSalesOrderResponse(order), nil
}

// List pedidos, opcionalmente por cliente.
func (uc *SalesOrderUseCase) List(ctx context.Context, clientID string, limit, offset int) ([]*dto.SalesOrderResponse, error) {
	var (
		orders []*entity.SalesOrder
		err    error
	)
	if clientID != "" {
		orders, err = uc.salesRepo.ListByClient(clientID, limit, offset)
	} else {
		orders, err = uc.salesRepo.List(limit, offset)
	}
	if err != nil {
		return nil, err
	}
	out := make([]*dto.SalesOrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, toSalesOrderResponse(o))
	}
	return out, nil
}

// buildLines valida cantidades y precios positivos y calcula subtotales.
func (uc *SalesOrderUseCase) buildLines(in []dto.SalesOrderLineRequest) ([]entity.SalesOrderLine, decimal.Decimal, error) {
	var lines []entity.SalesOrderLine
	total := decimal.Zero
	for _, l := range in {
		if l.ProductID == "" || !l.Quantity.GreaterThan(decimal.Zero) || !l.UnitPrice.GreaterThan(decimal.Zero) {
			return nil, decimal.Zero, domain.ErrInvalidInput
		}
		product, err := uc.prodCatRepo.GetByID(l.ProductID)
		if err != nil {
			return nil, decimal.Zero, err
		}
		if product == nil {
			return nil, decimal.Zero, domain.ErrNotFound
		}
		subtotal := l.UnitPrice.Mul(l.Quantity)
		lines = append(lines, entity.SalesOrderLine{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Subtotal:  subtotal,
		})
		total = total.Add(subtotal)
	}
	return lines, total, nil
}

func toSalesOrderResponse(o *entity.SalesOrder) *dto.SalesOrderResponse {
	resp := &dto.SalesOrderResponse{
		ID:           o.ID,
		ClientID:     o.ClientID,
		OrderDate:    o.OrderDate,
		DeliveryDate: o.DeliveryDate,
		Status:       string(o.Status),
		TotalAmount:  o.TotalAmount,
		Observation:  o.Observation,
	}
	for _, l := range o.Lines {
		resp.Lines = append(resp.Lines, dto.SalesOrderLineResponse{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Subtotal:  l.Subtotal,
		})
	}
	return resp
}
