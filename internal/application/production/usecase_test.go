package production_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cvallejo/planta-api/internal/application/dto"
	"github.com/cvallejo/planta-api/internal/application/inventory"
	"github.com/cvallejo/planta-api/internal/application/production"
	appstock "github.com/cvallejo/planta-api/internal/application/stock"
	"github.com/cvallejo/planta-api/internal/domain"
	"github.com/cvallejo/planta-api/internal/domain/entity"
	"github.com/cvallejo/planta-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type fakeProdRepo struct {
	orders map[string]*entity.ProductionOrder
}

func (r *fakeProdRepo) Create(order *entity.ProductionOrder) error {
	r.orders[order.ID] = order
	return nil
}

func (r *fakeProdRepo) GetByID(id string) (*entity.ProductionOrder, error) {
	return r.orders[id], nil
}

func (r *fakeProdRepo) GetActiveBySalesOrder(salesOrderID string) (*entity.ProductionOrder, error) {
	for _, o := range r.orders {
		if o.SalesOrderID == salesOrderID && o.Status == entity.ProductionOrderStatusInProgress {
			return o, nil
		}
	}
	return nil, nil
}

func (r *fakeProdRepo) Finish(id string, endDate time.Time) error {
	if o, ok := r.orders[id]; ok {
		o.Status = entity.ProductionOrderStatusFinished
		o.EndDate = &endDate
	}
	return nil
}

func (r *fakeProdRepo) List(limit, offset int) ([]*entity.ProductionOrder, error) { return nil, nil }
func (r *fakeProdRepo) ListBySalesOrder(salesOrderID string) ([]*entity.ProductionOrder, error) {
	return nil, nil
}

type fakeSalesRepo struct {
	orders map[string]*entity.SalesOrder
}

func (r *fakeSalesRepo) Create(order *entity.SalesOrder) error { return nil }
func (r *fakeSalesRepo) GetByID(id string) (*entity.SalesOrder, error) {
	return r.orders[id], nil
}
func (r *fakeSalesRepo) GetByIDForUpdate(id string) (*entity.SalesOrder, error) {
	return r.orders[id], nil
}
func (r *fakeSalesRepo) Update(order *entity.SalesOrder) error { return nil }
func (r *fakeSalesRepo) UpdateStatus(id string, status entity.SalesOrderStatus) error {
	if o, ok := r.orders[id]; ok {
		o.Status = status
	}
	return nil
}
func (r *fakeSalesRepo) Delete(id string) error                               { return nil }
func (r *fakeSalesRepo) List(limit, offset int) ([]*entity.SalesOrder, error) { return nil, nil }
func (r *fakeSalesRepo) ListByClient(clientID string, limit, offset int) ([]*entity.SalesOrder, error) {
	return nil, nil
}

type fakeMovementRepo struct {
	movements []*entity.InventoryMovement
}

func (r *fakeMovementRepo) Create(m *entity.InventoryMovement) error {
	r.movements = append(r.movements, m)
	return nil
}

func (r *fakeMovementRepo) GetByID(id string) (*entity.InventoryMovement, error) { return nil, nil }

func (r *fakeMovementRepo) SumByItem(kind entity.ItemKind, itemID string) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, m := range r.movements {
		if m.ItemKind == kind && m.ItemID == itemID {
			total = total.Add(m.Quantity)
		}
	}
	return total, nil
}

func (r *fakeMovementRepo) ListByItem(kind entity.ItemKind, itemID string, from, to *time.Time, movType entity.MovementType, limit, offset int) ([]*entity.InventoryMovement, error) {
	return nil, nil
}

func (r *fakeMovementRepo) byType(movType entity.MovementType) []*entity.InventoryMovement {
	var out []*entity.InventoryMovement
	for _, m := range r.movements {
		if m.Type == movType {
			out = append(out, m)
		}
	}
	return out
}

type fakeAuditRepo struct {
	events []*entity.AuditEvent
}

func (r *fakeAuditRepo) Create(event *entity.AuditEvent) error {
	r.events = append(r.events, event)
	return nil
}

func (r *fakeAuditRepo) List(entityName, entityID string, limit, offset int) ([]*entity.AuditEvent, error) {
	return r.events, nil
}

type fakeFormulaRepo struct {
	byProduct map[string]*entity.Formula
}

func (r *fakeFormulaRepo) Create(formula *entity.Formula) error       { return nil }
func (r *fakeFormulaRepo) GetByID(id string) (*entity.Formula, error) { return nil, nil }
func (r *fakeFormulaRepo) GetByProductID(productID string) (*entity.Formula, error) {
	return r.byProduct[productID], nil
}
func (r *fakeFormulaRepo) Update(formula *entity.Formula) error              { return nil }
func (r *fakeFormulaRepo) Delete(id string) error                            { return nil }
func (r *fakeFormulaRepo) List(limit, offset int) ([]*entity.Formula, error) { return nil, nil }

type fakeProductRepo struct {
	products map[string]*entity.Product
}

func (r *fakeProductRepo) Create(p *entity.Product) error             { return nil }
func (r *fakeProductRepo) GetByID(id string) (*entity.Product, error) { return r.products[id], nil }
func (r *fakeProductRepo) GetBySKU(sku string) (*entity.Product, error) {
	return nil, nil
}
func (r *fakeProductRepo) Update(p *entity.Product) error { return nil }
func (r *fakeProductRepo) Delete(id string) error         { return nil }
func (r *fakeProductRepo) List(search string, limit, offset int) ([]*entity.Product, error) {
	return nil, nil
}

type fakeRawMaterialRepo struct {
	materials map[string]*entity.RawMaterial
}

func (r *fakeRawMaterialRepo) Create(m *entity.RawMaterial) error { return nil }
func (r *fakeRawMaterialRepo) GetByID(id string) (*entity.RawMaterial, error) {
	return r.materials[id], nil
}
func (r *fakeRawMaterialRepo) GetByCode(code string) (*entity.RawMaterial, error) { return nil, nil }
func (r *fakeRawMaterialRepo) Update(m *entity.RawMaterial) error                 { return nil }
func (r *fakeRawMaterialRepo) Delete(id string) error                             { return nil }
func (r *fakeRawMaterialRepo) List(search string, limit, offset int) ([]*entity.RawMaterial, error) {
	return nil, nil
}

type fakeTxRunner struct {
	prodRepo  *fakeProdRepo
	salesRepo *fakeSalesRepo
	movRepo   *fakeMovementRepo
	auditRepo *fakeAuditRepo
}

func (r *fakeTxRunner) Run(ctx context.Context, fn func(
	prodRepo repository.ProductionOrderRepository,
	salesRepo repository.SalesOrderRepository,
	movRepo repository.InventoryMovementRepository,
	auditRepo repository.AuditEventRepository,
) error) error {
	return fn(r.prodRepo, r.salesRepo, r.movRepo, r.auditRepo)
}

type fakeLedgerTxRunner struct {
	movRepo   *fakeMovementRepo
	auditRepo *fakeAuditRepo
}

func (r *fakeLedgerTxRunner) Run(ctx context.Context, fn func(
	movRepo repository.InventoryMovementRepository,
	auditRepo repository.AuditEventRepository,
) error) error {
	return fn(r.movRepo, r.auditRepo)
}

// ──────────────────────────────────────────────────────────────────────────────
// Escenario: pedido de 10 tortas; fórmula 2kg harina + 0.5kg azúcar por unidad
// ──────────────────────────────────────────────────────────────────────────────

type productionEnv struct {
	uc          *production.ProductionOrderUseCase
	prodRepo    *fakeProdRepo
	salesRepo   *fakeSalesRepo
	movRepo     *fakeMovementRepo
	formulaRepo *fakeFormulaRepo
	productRepo *fakeProductRepo
}

// newProductionEnv arma el escenario; seedStock precarga ENTRADAs al libro.
func newProductionEnv(seedStock map[string]int64) *productionEnv {
	prodRepo := &fakeProdRepo{orders: map[string]*entity.ProductionOrder{}}
	salesRepo := &fakeSalesRepo{orders: map[string]*entity.SalesOrder{
		"so-1": {
			ID:     "so-1",
			Status: entity.SalesOrderStatusPending,
			Lines: []entity.SalesOrderLine{
				{ProductID: "torta", Quantity: decimal.NewFromInt(10)},
			},
		},
	}}
	movRepo := &fakeMovementRepo{}
	for itemID, qty := range seedStock {
		movRepo.movements = append(movRepo.movements, &entity.InventoryMovement{
			ItemKind: entity.ItemKindRawMaterial,
			ItemID:   itemID,
			Quantity: decimal.NewFromInt(qty),
			Type:     entity.MovementTypeEntrada,
		})
	}
	auditRepo := &fakeAuditRepo{}
	formulaRepo := &fakeFormulaRepo{byProduct: map[string]*entity.Formula{
		"torta": {ProductID: "torta", Components: []entity.FormulaComponent{
			{RawMaterialID: "harina", QuantityPerUnit: decimal.NewFromInt(2)},
			{RawMaterialID: "azucar", QuantityPerUnit: decimal.NewFromFloat(0.5)},
		}},
	}}
	productRepo := &fakeProductRepo{products: map[string]*entity.Product{
		"torta": {ID: "torta", SKU: "PT-001", Name: "Torta tres leches", UnitOfMeasure: "un"},
	}}
	rawMaterialRepo := &fakeRawMaterialRepo{materials: map[string]*entity.RawMaterial{
		"harina": {ID: "harina", Code: "MP-001", Name: "Harina de trigo", UnitOfMeasure: "kg"},
		"azucar": {ID: "azucar", Code: "MP-002", Name: "Azúcar refinada", UnitOfMeasure: "kg"},
	}}

	checker := appstock.NewCheckerUseCase(salesRepo, formulaRepo, movRepo)
	ledger := inventory.NewLedgerUseCase(&fakeLedgerTxRunner{movRepo: movRepo, auditRepo: auditRepo}, movRepo, nil)
	uc := production.NewProductionOrderUseCase(
		&fakeTxRunner{prodRepo: prodRepo, salesRepo: salesRepo, movRepo: movRepo, auditRepo: auditRepo},
		checker, prodRepo, salesRepo, productRepo, rawMaterialRepo, ledger, nil,
	)
	return &productionEnv{
		uc: uc, prodRepo: prodRepo, salesRepo: salesRepo, movRepo: movRepo,
		formulaRepo: formulaRepo, productRepo: productRepo,
	}
}

func createReq() dto.CreateProductionOrderRequest {
	return dto.CreateProductionOrderRequest{SalesOrderID: "so-1", OperatorID: "op-1"}
}

// ──────────────────────────────────────────────────────────────────────────────
// Create
// ──────────────────────────────────────────────────────────────────────────────

func TestProductionCreate_ConStockSuficiente(t *testing.T) {
	// requerido: 20kg harina, 5kg azúcar
	env := newProductionEnv(map[string]int64{"harina": 25, "azucar": 5})

	resp, err := env.uc.Create(context.Background(), "user-1", createReq())
	require.NoError(t, err)

	assert.Equal(t, string(entity.ProductionOrderStatusInProgress), resp.Status)
	assert.Equal(t, "so-1", resp.SalesOrderID)
	assert.Equal(t, entity.SalesOrderStatusInProduction, env.salesRepo.orders["so-1"].Status,
		"crear la orden voltea el pedido a IN_PRODUCTION en la misma transacción")
}

func TestProductionCreate_StockInsuficiente(t *testing.T) {
	env := newProductionEnv(map[string]int64{"harina": 12}) // faltan 8kg harina y 5kg azúcar

	_, err := env.uc.Create(context.Background(), "user-1", createReq())
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "so-1", stockErr.SalesOrderID)
	require.Len(t, stockErr.Shortages, 2)
	assert.Equal(t, "azucar", stockErr.Shortages[0].RawMaterialID)
	assert.True(t, decimal.NewFromInt(5).Equal(stockErr.Shortages[0].Missing))
	assert.Equal(t, "harina", stockErr.Shortages[1].RawMaterialID)
	assert.True(t, decimal.NewFromInt(8).Equal(stockErr.Shortages[1].Missing))

	assert.Empty(t, env.prodRepo.orders, "no debe crearse ninguna orden")
	assert.Equal(t, entity.SalesOrderStatusPending, env.salesRepo.orders["so-1"].Status,
		"el pedido no debe moverse")
}

func TestProductionCreate_PedidoNoPendingRechazado(t *testing.T) {
	env := newProductionEnv(map[string]int64{"harina": 25, "azucar": 5})
	env.salesRepo.orders["so-1"].Status = entity.SalesOrderStatusShipped

	_, err := env.uc.Create(context.Background(), "user-1", createReq())
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestProductionCreate_UnaActivaPorPedido(t *testing.T) {
	env := newProductionEnv(map[string]int64{"harina": 100, "azucar": 100})
	ctx := context.Background()

	_, err := env.uc.Create(ctx, "user-1", createReq())
	require.NoError(t, err)

	// El pedido quedó IN_PRODUCTION; para aislar la regla de unicidad lo
	// regresamos a PENDING y reintentamos con la orden activa aún viva
	env.salesRepo.orders["so-1"].Status = entity.SalesOrderStatusPending
	_, err = env.uc.Create(ctx, "user-1", createReq())
	assert.ErrorIs(t, err, domain.ErrDuplicateProductionOrder)
}

// ──────────────────────────────────────────────────────────────────────────────
// Finish — asientos duales y avance del pedido
// ──────────────────────────────────────────────────────────────────────────────

func TestProductionFinish_AsientosDualesYAvance(t *testing.T) {
	env := newProductionEnv(map[string]int64{"harina": 25, "azucar": 5})
	ctx := context.Background()

	created, err := env.uc.Create(ctx, "user-1", createReq())
	require.NoError(t, err)

	resp, err := env.uc.Finish(ctx, "user-1", created.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.ProductionOrderStatusFinished), resp.Status)
	require.NotNil(t, resp.EndDate)

	// SALIDA por materia prima agregada según fórmula
	salidas := env.movRepo.byType(entity.MovementTypeSalida)
	require.Len(t, salidas, 2)
	assert.Equal(t, "azucar", salidas[0].ItemID) // orden determinista por ID
	assert.True(t, decimal.NewFromInt(-5).Equal(salidas[0].Quantity))
	assert.Equal(t, "harina", salidas[1].ItemID)
	assert.True(t, decimal.NewFromInt(-20).Equal(salidas[1].Quantity))
	assert.Equal(t, created.ID, salidas[0].Reference, "cada asiento referencia la orden")

	// ENTRADA por producto terminado
	stockProducto, err := env.movRepo.SumByItem(entity.ItemKindProduct, "torta")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(10).Equal(stockProducto))

	// Stock de materia prima descontado
	stockHarina, err := env.movRepo.SumByItem(entity.ItemKindRawMaterial, "harina")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(5).Equal(stockHarina), "25 - 20 = 5")

	assert.Equal(t, entity.SalesOrderStatusReadyForDelivery, env.salesRepo.orders["so-1"].Status)
}

// Un pedido editado después de crear la orden (legal mientras IN_PRODUCTION)
// debe cerrarse con las líneas vigentes: SALIDAs y ENTRADAs salen del mismo
// estado bloqueado, nunca de una lectura previa.
func TestProductionFinish_UsaLineasVigentesDelPedido(t *testing.T) {
	env := newProductionEnv(map[string]int64{"harina": 100, "azucar": 100})
	ctx := context.Background()

	created, err := env.uc.Create(ctx, "user-1", createReq())
	require.NoError(t, err)

	// Edición confirmada entre la creación y el cierre: se suman 4 galletas
	env.formulaRepo.byProduct["galleta"] = &entity.Formula{
		ProductID: "galleta",
		Components: []entity.FormulaComponent{
			{RawMaterialID: "harina", QuantityPerUnit: decimal.NewFromInt(1)},
		},
	}
	env.productRepo.products["galleta"] = &entity.Product{
		ID: "galleta", SKU: "PT-002", Name: "Galleta de avena", UnitOfMeasure: "un",
	}
	env.salesRepo.orders["so-1"].Lines = append(env.salesRepo.orders["so-1"].Lines,
		entity.SalesOrderLine{ProductID: "galleta", Quantity: decimal.NewFromInt(4)})

	_, err = env.uc.Finish(ctx, "user-1", created.ID)
	require.NoError(t, err)

	// SALIDA de harina agregada sobre las líneas vigentes: 20 (tortas) + 4
	salidas := env.movRepo.byType(entity.MovementTypeSalida)
	require.Len(t, salidas, 2)
	assert.Equal(t, "harina", salidas[1].ItemID)
	assert.True(t, decimal.NewFromInt(-24).Equal(salidas[1].Quantity))

	// ENTRADA también para el producto agregado, con su unidad real
	stockGalleta, err := env.movRepo.SumByItem(entity.ItemKindProduct, "galleta")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(4).Equal(stockGalleta))
	for _, m := range env.movRepo.byType(entity.MovementTypeEntrada) {
		if m.ItemKind == entity.ItemKindProduct && m.ItemID == "galleta" {
			assert.Equal(t, "un", m.UnitOfMeasure)
		}
	}
}

// Si la edición agregó un producto sin catálogo, el cierre falla antes de
// registrar cualquier asiento.
func TestProductionFinish_ProductoSinCatalogoCortaAntesDeAsientos(t *testing.T) {
	env := newProductionEnv(map[string]int64{"harina": 100, "azucar": 100})
	ctx := context.Background()

	created, err := env.uc.Create(ctx, "user-1", createReq())
	require.NoError(t, err)
	movimientos := len(env.movRepo.movements)

	env.formulaRepo.byProduct["galleta"] = &entity.Formula{
		ProductID: "galleta",
		Components: []entity.FormulaComponent{
			{RawMaterialID: "harina", QuantityPerUnit: decimal.NewFromInt(1)},
		},
	}
	env.salesRepo.orders["so-1"].Lines = append(env.salesRepo.orders["so-1"].Lines,
		entity.SalesOrderLine{ProductID: "galleta", Quantity: decimal.NewFromInt(4)})

	_, err = env.uc.Finish(ctx, "user-1", created.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Len(t, env.movRepo.movements, movimientos, "sin asientos nuevos")
	assert.Equal(t, entity.ProductionOrderStatusInProgress, env.prodRepo.orders[created.ID].Status)
}

func TestProductionFinish_DobleCierreRechazado(t *testing.T) {
	env := newProductionEnv(map[string]int64{"harina": 25, "azucar": 5})
	ctx := context.Background()

	created, err := env.uc.Create(ctx, "user-1", createReq())
	require.NoError(t, err)
	_, err = env.uc.Finish(ctx, "user-1", created.ID)
	require.NoError(t, err)

	entradas := len(env.movRepo.byType(entity.MovementTypeEntrada))

	_, err = env.uc.Finish(ctx, "user-1", created.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Len(t, env.movRepo.byType(entity.MovementTypeEntrada), entradas,
		"un doble cierre no puede duplicar asientos")
}

func TestProductionFinish_OrdenInexistente(t *testing.T) {
	env := newProductionEnv(nil)

	_, err := env.uc.Finish(context.Background(), "user-1", "po-fantasma")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
