package production

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cvallejo/planta-api/internal/application/audit"
	"github.com/cvallejo/planta-api/internal/application/dto"
	"github.com/cvallejo/planta-api/internal/application/inventory"
	"github.com/cvallejo/planta-api/internal/application/stock"
	"github.com/cvallejo/planta-api/internal/domain"
	"github.com/cvallejo/planta-api/internal/domain/entity"
	"github.com/cvallejo/planta-api/internal/domain/repository"
	domstock "github.com/cvallejo/planta-api/internal/domain/stock"
)

const (
	productionOrderEntity = "production_order"
	salesOrderEntity      = "sales_order"
)

// ProductionOrderUseCase órdenes de producción: IN_PROGRESS -> FINISHED.
// Crear exige stock suficiente y pedido sin orden activa; terminar es la única
// vía que descuenta materia prima por consumo de producción.
type ProductionOrderUseCase struct {
	txRunner        TxRunner
	checker         *stock.CheckerUseCase
	prodRepo        repository.ProductionOrderRepository
	salesRepo       repository.SalesOrderRepository
	productRepo     repository.ProductRepository
	rawMaterialRepo repository.RawMaterialRepository
	ledger          *inventory.LedgerUseCase
	notifier        audit.Notifier
}

// NewProductionOrderUseCase construye el caso de uso.
func NewProductionOrderUseCase(
	txRunner TxRunner,
	checker *stock.CheckerUseCase,
	prodRepo repository.ProductionOrderRepository,
	salesRepo repository.SalesOrderRepository,
	productRepo repository.ProductRepository,
	rawMaterialRepo repository.RawMaterialRepository,
	ledger *inventory.LedgerUseCase,
	notifier audit.Notifier,
) *ProductionOrderUseCase {
	if notifier == nil {
		notifier = audit.NopNotifier{}
	}
	return &ProductionOrderUseCase{
		txRunner:        txRunner,
		checker:         checker,
		prodRepo:        prodRepo,
		salesRepo:       salesRepo,
		productRepo:     productRepo,
		rawMaterialRepo: rawMaterialRepo,
		ledger:          ledger,
		notifier:        notifier,
	}
}

// Create crea la orden de producción para un pedido PENDING.
// El chequeo de stock se revalida DENTRO de la misma transacción que crea la
// orden y voltea el pedido a IN_PRODUCTION (el resultado de un chequeo previo
// puede quedar viejo si otra operación consumió stock entre tanto).
func (uc *ProductionOrderUseCase) Create(ctx context.Context, actor string, in dto.CreateProductionOrderRequest) (*dto.ProductionOrderResponse, error) {
	if in.SalesOrderID == "" || in.OperatorID == "" {
		return nil, domain.ErrInvalidInput
	}
	startDate := in.StartDate
	if startDate.IsZero() {
		startDate = time.Now()
	}

	// Fórmulas fuera de la tx (solo lectura, cambian rara vez)
	order, err := uc.salesRepo.GetByID(in.SalesOrderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	formulas, err := uc.checker.LoadFormulas(order.Lines)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	prodOrder := &entity.ProductionOrder{
		ID:           uuid.New().String(),
		SalesOrderID: in.SalesOrderID,
		OperatorID:   in.OperatorID,
		StartDate:    startDate,
		Status:       entity.ProductionOrderStatusInProgress,
		CreatedAt:    now,
	}
	var events []*entity.AuditEvent
	err = uc.txRunner.Run(ctx, func(
		prodRepo repository.ProductionOrderRepository,
		salesRepo repository.SalesOrderRepository,
		movRepo repository.InventoryMovementRepository,
		auditRepo repository.AuditEventRepository,
	) error {
		// Bloquea el pedido: serializa contra otra creación/cierre concurrente
		locked, err := salesRepo.GetByIDForUpdate(in.SalesOrderID)
		if err != nil {
			return err
		}
		if locked == nil {
			return domain.ErrNotFound
		}
		if locked.Status != entity.SalesOrderStatusPending {
			return domain.NewStateTransitionError(salesOrderEntity, string(locked.Status), string(entity.SalesOrderStatusInProduction))
		}
		active, err := prodRepo.GetActiveBySalesOrder(in.SalesOrderID)
		if err != nil {
			return err
		}
		if active != nil {
			return domain.ErrDuplicateProductionOrder
		}

		required, err := domstock.RequiredMaterials(locked.Lines, formulas)
		if err != nil {
			return err
		}
		sufficient, shortages, err := uc.checker.CompareAgainstLedger(required, movRepo)
		if err != nil {
			return err
		}
		if !sufficient {
			return &domain.InsufficientStockError{SalesOrderID: in.SalesOrderID, Shortages: shortages}
		}

		if err := prodRepo.Create(prodOrder); err != nil {
			return err
		}
		if err := salesRepo.UpdateStatus(in.SalesOrderID, entity.SalesOrderStatusInProduction); err != nil {
			return err
		}
		events = []*entity.AuditEvent{
			audit.NewEvent(productionOrderEntity, prodOrder.ID, "create", "", string(entity.ProductionOrderStatusInProgress), actor, now),
			audit.NewEvent(salesOrderEntity, in.SalesOrderID, "advance", string(entity.SalesOrderStatusPending), string(entity.SalesOrderStatusInProduction), actor, now),
		}
		for _, ev := range events {
			if err := auditRepo.Create(ev); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	for _, ev := range events {
		uc.notifier.Notify(ctx, ev)
	}
	return toProductionOrderResponse(prodOrder), nil
}

// Finish única transición legal: IN_PROGRESS -> FINISHED. En una sola
// transacción: SALIDA por cada materia prima agregada según fórmula, ENTRADA
// por cada producto terminado del pedido, endDate = now y el pedido pasa a
// READY_FOR_DELIVERY.
func (uc *ProductionOrderUseCase) Finish(ctx context.Context, actor, id string) (*dto.ProductionOrderResponse, error) {
	prodOrder, err := uc.prodRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if prodOrder == nil {
		return nil, domain.ErrNotFound
	}
	if !prodOrder.Status.CanTransitionTo(entity.ProductionOrderStatusFinished) {
		return nil, domain.NewStateTransitionError(productionOrderEntity, string(prodOrder.Status), string(entity.ProductionOrderStatusFinished))
	}

	now := time.Now()
	var events []*entity.AuditEvent
	err = uc.txRunner.Run(ctx, func(
		prodRepo repository.ProductionOrderRepository,
		salesRepo repository.SalesOrderRepository,
		movRepo repository.InventoryMovementRepository,
		auditRepo repository.AuditEventRepository,
	) error {
		// Bloquea el pedido y relee la orden dentro de la tx: un Finish
		// concurrente sobre la misma orden debe fallar, no duplicar asientos
		locked, err := salesRepo.GetByIDForUpdate(prodOrder.SalesOrderID)
		if err != nil {
			return err
		}
		if locked == nil {
			return domain.ErrNotFound
		}
		current, err := prodRepo.GetByID(id)
		if err != nil {
			return err
		}
		if current == nil {
			return domain.ErrNotFound
		}
		if !current.Status.CanTransitionTo(entity.ProductionOrderStatusFinished) {
			return domain.NewStateTransitionError(productionOrderEntity, string(current.Status), string(entity.ProductionOrderStatusFinished))
		}

		// Consumos y unidades calculados desde las líneas BLOQUEADAS: una
		// edición del pedido confirmada antes de tomar el bloqueo no puede
		// desalinear las SALIDAs respecto de las ENTRADAs
		formulas, err := uc.checker.LoadFormulas(locked.Lines)
		if err != nil {
			return err
		}
		required, err := domstock.RequiredMaterials(locked.Lines, formulas)
		if err != nil {
			return err
		}
		rawUnits, err := uc.rawMaterialUnits(required)
		if err != nil {
			return err
		}
		productUnits, err := uc.productUnits(locked.Lines)
		if err != nil {
			return err
		}

		// SALIDA por materia prima consumida (agregado por fórmula)
		for _, rawMaterialID := range sortedKeys(required) {
			if err := uc.ledger.RecordSalidaInTx(
				movRepo, entity.ItemKindRawMaterial, rawMaterialID,
				required[rawMaterialID], rawUnits[rawMaterialID],
				"consumo de producción", id, actor, now,
			); err != nil {
				return err
			}
		}
		// ENTRADA por producto terminado
		for _, line := range locked.Lines {
			if err := uc.ledger.RecordEntradaInTx(
				movRepo, entity.ItemKindProduct, line.ProductID,
				line.Quantity, productUnits[line.ProductID],
				"producto terminado", id, actor, now,
			); err != nil {
				return err
			}
		}

		if err := prodRepo.Finish(id, now); err != nil {
			return err
		}
		if err := salesRepo.UpdateStatus(prodOrder.SalesOrderID, entity.SalesOrderStatusReadyForDelivery); err != nil {
			return err
		}
		events = []*entity.AuditEvent{
			audit.NewEvent(productionOrderEntity, id, "finish", string(entity.ProductionOrderStatusInProgress), string(entity.ProductionOrderStatusFinished), actor, now),
			audit.NewEvent(salesOrderEntity, prodOrder.SalesOrderID, "advance", string(locked.Status), string(entity.SalesOrderStatusReadyForDelivery), actor, now),
		}
		for _, ev := range events {
			if err := auditRepo.Create(ev); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	for _, ev := range events {
		uc.notifier.Notify(ctx, ev)
	}
	prodOrder.Status = entity.ProductionOrderStatusFinished
	prodOrder.EndDate = &now
	return toProductionOrderResponse(prodOrder), nil
}

// GetByID orden por ID.
func (uc *ProductionOrderUseCase) GetByID(ctx context.Context, id string) (*dto.ProductionOrderResponse, error) {
	prodOrder, err := uc.prodRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if prodOrder == nil {
		return nil, domain.ErrNotFound
	}
	return toProductionOrderResponse(prodOrder), nil
}

// List órdenes de producción, opcionalmente por pedido.
func (uc *ProductionOrderUseCase) List(ctx context.Context, salesOrderID string, limit, offset int) ([]*dto.ProductionOrderResponse, error) {
	var (
		orders []*entity.ProductionOrder
		err    error
	)
	if salesOrderID != "" {
		orders, err = uc.prodRepo.ListBySalesOrder(salesOrderID)
	} else {
		orders, err = uc.prodRepo.List(limit, offset)
	}
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ProductionOrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, toProductionOrderResponse(o))
	}
	return out, nil
}

func (uc *ProductionOrderUseCase) rawMaterialUnits(required map[string]decimal.Decimal) (map[string]string, error) {
	units := make(map[string]string, len(required))
	for rawMaterialID := range required {
		rm, err := uc.rawMaterialRepo.GetByID(rawMaterialID)
		if err != nil {
			return nil, err
		}
		if rm == nil {
			return nil, domain.ErrNotFound
		}
		units[rawMaterialID] = rm.UnitOfMeasure
	}
	return units, nil
}

func (uc *ProductionOrderUseCase) productUnits(lines []entity.SalesOrderLine) (map[string]string, error) {
	units := make(map[string]string, len(lines))
	for _, line := range lines {
		if _, ok := units[line.ProductID]; ok {
			continue
		}
		product, err := uc.productRepo.GetByID(line.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, domain.ErrNotFound
		}
		units[line.ProductID] = product.UnitOfMeasure
	}
	return units, nil
}

func sortedKeys(m map[string]decimal.Decimal) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func toProductionOrderResponse(o *entity.ProductionOrder) *dto.ProductionOrderResponse {
	return &dto.ProductionOrderResponse{
		ID:           o.ID,
		SalesOrderID: o.SalesOrderID,
		OperatorID:   o.OperatorID,
		StartDate:    o.StartDate,
		EndDate:      o.EndDate,
		Status:       string(o.Status),
	}
}
