package sales_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cvallejo/planta-api/internal/application/dto"
	"github.com/cvallejo/planta-api/internal/application/sales"
	"github.com/cvallejo/planta-api/internal/domain"
	"github.com/cvallejo/planta-api/internal/domain/entity"
	"github.com/cvallejo/planta-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type fakeSalesRepo struct {
	orders map[string]*entity.SalesOrder
}

func (r *fakeSalesRepo) Create(order *entity.SalesOrder) error {
	r.orders[order.ID] = order
	return nil
}

func (r *fakeSalesRepo) GetByID(id string) (*entity.SalesOrder, error) {
	return r.orders[id], nil
}

func (r *fakeSalesRepo) GetByIDForUpdate(id string) (*entity.SalesOrder, error) {
	return r.orders[id], nil
}

func (r *fakeSalesRepo) Update(order *entity.SalesOrder) error {
	r.orders[order.ID] = order
	return nil
}

func (r *fakeSalesRepo) UpdateStatus(id string, status entity.SalesOrderStatus) error {
	if o, ok := r.orders[id]; ok {
		o.Status = status
	}
	return nil
}

func (r *fakeSalesRepo) Delete(id string) error {
	delete(r.orders, id)
	return nil
}

func (r *fakeSalesRepo) List(limit, offset int) ([]*entity.SalesOrder, error) {
	var out []*entity.SalesOrder
	for _, o := range r.orders {
		out = append(out, o)
	}
	return out, nil
}

func (r *fakeSalesRepo) ListByClient(clientID string, limit, offset int) ([]*entity.SalesOrder, error) {
	var out []*entity.SalesOrder
	for _, o := range r.orders {
		if o.ClientID == clientID {
			out = append(out, o)
		}
	}
	return out, nil
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

type fakeClientRepo struct {
	clients map[string]*entity.Client
}

func (r *fakeClientRepo) Create(c *entity.Client) error             { return nil }
func (r *fakeClientRepo) GetByID(id string) (*entity.Client, error) { return r.clients[id], nil }
func (r *fakeClientRepo) Update(c *entity.Client) error             { return nil }
func (r *fakeClientRepo) Delete(id string) error                    { return nil }
func (r *fakeClientRepo) List(search string, limit, offset int) ([]*entity.Client, error) {
	return nil, nil
}

type fakeProductRepo struct {
	products map[string]*entity.Product
}

func (r *fakeProductRepo) Create(p *entity.Product) error               { return nil }
func (r *fakeProductRepo) GetByID(id string) (*entity.Product, error)   { return r.products[id], nil }
func (r *fakeProductRepo) GetBySKU(sku string) (*entity.Product, error) { return nil, nil }
func (r *fakeProductRepo) Update(p *entity.Product) error               { return nil }
func (r *fakeProductRepo) Delete(id string) error                       { return nil }
func (r *fakeProductRepo) List(search string, limit, offset int) ([]*entity.Product, error) {
	return nil, nil
}

type fakeTxRunner struct {
	salesRepo *fakeSalesRepo
	auditRepo *fakeAuditRepo
}

func (r *fakeTxRunner) Run(ctx context.Context, fn func(
	salesRepo repository.SalesOrderRepository,
	auditRepo repository.AuditEventRepository,
) error) error {
	return fn(r.salesRepo, r.auditRepo)
}

type salesEnv struct {
	uc        *sales.SalesOrderUseCase
	salesRepo *fakeSalesRepo
	auditRepo *fakeAuditRepo
}

func newSalesEnv() *salesEnv {
	salesRepo := &fakeSalesRepo{orders: map[string]*entity.SalesOrder{}}
	auditRepo := &fakeAuditRepo{}
	clientRepo := &fakeClientRepo{clients: map[string]*entity.Client{
		"cl-1": {ID: "cl-1", NIT: "800987654", Name: "Distribuidora Norte"},
	}}
	productRepo := &fakeProductRepo{products: map[string]*entity.Product{
		"torta":   {ID: "torta", SKU: "PT-001", Name: "Torta tres leches", UnitOfMeasure: "un"},
		"galleta": {ID: "galleta", SKU: "PT-002", Name: "Galleta surtida", UnitOfMeasure: "un"},
	}}
	uc := sales.NewSalesOrderUseCase(
		&fakeTxRunner{salesRepo: salesRepo, auditRepo: auditRepo},
		salesRepo, clientRepo, productRepo, nil,
	)
	return &salesEnv{uc: uc, salesRepo: salesRepo, auditRepo: auditRepo}
}

func (env *salesEnv) createOrder(t *testing.T) *dto.SalesOrderResponse {
	t.Helper()
	resp, err := env.uc.Create(context.Background(), "user-1", dto.CreateSalesOrderRequest{
		ClientID: "cl-1",
		Lines: []dto.SalesOrderLineRequest{
			{ProductID: "torta", Quantity: decimal.NewFromInt(10), UnitPrice: decimal.NewFromInt(500)},
			{ProductID: "galleta", Quantity: decimal.NewFromInt(100), UnitPrice: decimal.NewFromInt(20)},
		},
	})
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// Create / Edit
// ──────────────────────────────────────────────────────────────────────────────

func TestSalesCreate_TotalesDelServidor(t *testing.T) {
	env := newSalesEnv()
	resp := env.createOrder(t)

	assert.Equal(t, string(entity.SalesOrderStatusPending), resp.Status)
	require.Len(t, resp.Lines, 2)
	assert.True(t, decimal.NewFromInt(5000).Equal(resp.Lines[0].Subtotal), "10 * 500")
	assert.True(t, decimal.NewFromInt(2000).Equal(resp.Lines[1].Subtotal), "100 * 20")
	assert.True(t, decimal.NewFromInt(7000).Equal(resp.TotalAmount),
		"TotalAmount = suma de subtotales")
}

func TestSalesCreate_Validaciones(t *testing.T) {
	env := newSalesEnv()
	ctx := context.Background()

	_, err := env.uc.Create(ctx, "user-1", dto.CreateSalesOrderRequest{
		ClientID: "cl-fantasma",
		Lines: []dto.SalesOrderLineRequest{
			{ProductID: "torta", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(1)},
		},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound, "cliente inexistente")

	_, err = env.uc.Create(ctx, "user-1", dto.CreateSalesOrderRequest{ClientID: "cl-1"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "sin líneas")

	_, err = env.uc.Create(ctx, "user-1", dto.CreateSalesOrderRequest{
		ClientID: "cl-1",
		Lines: []dto.SalesOrderLineRequest{
			{ProductID: "torta", Quantity: decimal.NewFromInt(-1), UnitPrice: decimal.NewFromInt(1)},
		},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "cantidad negativa")
}

func TestSalesEdit_RecalculaTotal(t *testing.T) {
	env := newSalesEnv()
	order := env.createOrder(t)

	resp, err := env.uc.Edit(context.Background(), "user-1", order.ID, dto.EditSalesOrderRequest{
		Lines: []dto.SalesOrderLineRequest{
			{ProductID: "torta", Quantity: decimal.NewFromInt(4), UnitPrice: decimal.NewFromInt(500)},
		},
	})
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(2000).Equal(resp.TotalAmount),
		"el total se recalcula siempre de las líneas nuevas")
	require.Len(t, resp.Lines, 1)
}

// Una edición que omite la observación conserva la anterior; una no vacía
// la reemplaza.
func TestSalesEdit_ObservacionOmitidaSeConserva(t *testing.T) {
	env := newSalesEnv()
	ctx := context.Background()
	order := env.createOrder(t)
	env.salesRepo.orders[order.ID].Observation = "entregar refrigerado"

	resp, err := env.uc.Edit(ctx, "user-1", order.ID, dto.EditSalesOrderRequest{
		Lines: []dto.SalesOrderLineRequest{
			{ProductID: "torta", Quantity: decimal.NewFromInt(4), UnitPrice: decimal.NewFromInt(500)},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "entregar refrigerado", resp.Observation)

	resp, err = env.uc.Edit(ctx, "user-1", order.ID, dto.EditSalesOrderRequest{
		Lines: []dto.SalesOrderLineRequest{
			{ProductID: "torta", Quantity: decimal.NewFromInt(4), UnitPrice: decimal.NewFromInt(500)},
		},
		Observation: "entregar congelado",
	})
	require.NoError(t, err)
	assert.Equal(t, "entregar congelado", resp.Observation)
}

func TestSalesEdit_TerminalInmutable(t *testing.T) {
	env := newSalesEnv()
	order := env.createOrder(t)
	env.salesRepo.orders[order.ID].Status = entity.SalesOrderStatusDelivered

	_, err := env.uc.Edit(context.Background(), "user-1", order.ID, dto.EditSalesOrderRequest{
		Lines: []dto.SalesOrderLineRequest{
			{ProductID: "torta", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(1)},
		},
	})
	assert.ErrorIs(t, err, domain.ErrImmutableState)
}

// ──────────────────────────────────────────────────────────────────────────────
// Cancel / Delete — solo desde PENDING
// ──────────────────────────────────────────────────────────────────────────────

func TestSalesCancel_SoloPending(t *testing.T) {
	env := newSalesEnv()
	ctx := context.Background()
	order := env.createOrder(t)

	require.NoError(t, env.uc.Cancel(ctx, "user-1", order.ID))
	assert.Equal(t, entity.SalesOrderStatusCancelled, env.salesRepo.orders[order.ID].Status)

	otra := env.createOrder(t)
	env.salesRepo.orders[otra.ID].Status = entity.SalesOrderStatusInProduction
	err := env.uc.Cancel(ctx, "user-1", otra.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition,
		"en producción ya se consumió materia prima: no se cancela")
}

func TestSalesDelete_SoloPending(t *testing.T) {
	env := newSalesEnv()
	ctx := context.Background()

	order := env.createOrder(t)
	require.NoError(t, env.uc.Delete(ctx, "user-1", order.ID))
	assert.Nil(t, env.salesRepo.orders[order.ID])

	otra := env.createOrder(t)
	env.salesRepo.orders[otra.ID].Status = entity.SalesOrderStatusShipped
	assert.ErrorIs(t, env.uc.Delete(ctx, "user-1", otra.ID), domain.ErrInvalidTransition)
}

// ──────────────────────────────────────────────────────────────────────────────
// Advance — solo los tramos posteriores a producción
// ──────────────────────────────────────────────────────────────────────────────

func TestSalesAdvance_TramoDeEntrega(t *testing.T) {
	env := newSalesEnv()
	ctx := context.Background()
	order := env.createOrder(t)
	env.salesRepo.orders[order.ID].Status = entity.SalesOrderStatusReadyForDelivery

	require.NoError(t, env.uc.Advance(ctx, "user-1", order.ID, entity.SalesOrderStatusShipped))
	assert.Equal(t, entity.SalesOrderStatusShipped, env.salesRepo.orders[order.ID].Status)

	require.NoError(t, env.uc.Advance(ctx, "user-1", order.ID, entity.SalesOrderStatusDelivered))
	assert.Equal(t, entity.SalesOrderStatusDelivered, env.salesRepo.orders[order.ID].Status)
}

func TestSalesAdvance_EntregaDirectaSinDespacho(t *testing.T) {
	env := newSalesEnv()
	order := env.createOrder(t)
	env.salesRepo.orders[order.ID].Status = entity.SalesOrderStatusReadyForDelivery

	require.NoError(t, env.uc.Advance(context.Background(), "user-1", order.ID, entity.SalesOrderStatusDelivered))
	assert.Equal(t, entity.SalesOrderStatusDelivered, env.salesRepo.orders[order.ID].Status)
}

func TestSalesAdvance_TramosDeProduccionProhibidos(t *testing.T) {
	env := newSalesEnv()
	ctx := context.Background()
	order := env.createOrder(t) // PENDING

	err := env.uc.Advance(ctx, "user-1", order.ID, entity.SalesOrderStatusInProduction)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition,
		"PENDING -> IN_PRODUCTION lo maneja la orden de producción")

	env.salesRepo.orders[order.ID].Status = entity.SalesOrderStatusInProduction
	err = env.uc.Advance(ctx, "user-1", order.ID, entity.SalesOrderStatusReadyForDelivery)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition,
		"IN_PRODUCTION -> READY_FOR_DELIVERY solo al cerrar producción")
}

func TestSalesAdvance_EstadoInvalido(t *testing.T) {
	env := newSalesEnv()
	order := env.createOrder(t)

	err := env.uc.Advance(context.Background(), "user-1", order.ID, "EMPACADO")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Cada transición deja su evento en el rastro de auditoría.
func TestSalesAdvance_RegistraAuditoria(t *testing.T) {
	env := newSalesEnv()
	order := env.createOrder(t)
	env.salesRepo.orders[order.ID].Status = entity.SalesOrderStatusReadyForDelivery
	antes := len(env.auditRepo.events)

	require.NoError(t, env.uc.Advance(context.Background(), "user-1", order.ID, entity.SalesOrderStatusShipped))

	require.Len(t, env.auditRepo.events, antes+1)
	ev := env.auditRepo.events[len(env.auditRepo.events)-1]
	assert.Equal(t, "sales_order", ev.Entity)
	assert.Equal(t, "advance", ev.Action)
	assert.Equal(t, string(entity.SalesOrderStatusReadyForDelivery), ev.PreviousValue)
	assert.Equal(t, string(entity.SalesOrderStatusShipped), ev.NewValue)
	assert.Equal(t, "user-1", ev.Actor)
}
