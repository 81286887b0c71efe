package stock_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appstock "github.com/cvallejo/planta-api/internal/application/stock"
	"github.com/cvallejo/planta-api/internal/domain"
	"github.com/cvallejo/planta-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes — solo los métodos que el chequeo toca hacen trabajo real
// ──────────────────────────────────────────────────────────────────────────────

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
func (r *fakeSalesRepo) Update(order *entity.SalesOrder) error                        { return nil }
func (r *fakeSalesRepo) UpdateStatus(id string, status entity.SalesOrderStatus) error { return nil }
func (r *fakeSalesRepo) Delete(id string) error                                       { return nil }
func (r *fakeSalesRepo) List(limit, offset int) ([]*entity.SalesOrder, error)         { return nil, nil }
func (r *fakeSalesRepo) ListByClient(clientID string, limit, offset int) ([]*entity.SalesOrder, error) {
	return nil, nil
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

type fakeStockRepo struct {
	stock map[string]decimal.Decimal
}

func (r *fakeStockRepo) Create(m *entity.InventoryMovement) error             { return nil }
func (r *fakeStockRepo) GetByID(id string) (*entity.InventoryMovement, error) { return nil, nil }
func (r *fakeStockRepo) SumByItem(kind entity.ItemKind, itemID string) (decimal.Decimal, error) {
	return r.stock[itemID], nil
}
func (r *fakeStockRepo) ListByItem(kind entity.ItemKind, itemID string, from, to *time.Time, movType entity.MovementType, limit, offset int) ([]*entity.InventoryMovement, error) {
	return nil, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Escenario: pedido de 10 unidades de "torta", fórmula 2kg harina + 0.5kg azúcar
// ──────────────────────────────────────────────────────────────────────────────

func buildCheckerScenario(stock map[string]decimal.Decimal) *appstock.CheckerUseCase {
	salesRepo := &fakeSalesRepo{orders: map[string]*entity.SalesOrder{
		"so-1": {
			ID:     "so-1",
			Status: entity.SalesOrderStatusPending,
			Lines: []entity.SalesOrderLine{
				{ProductID: "torta", Quantity: decimal.NewFromInt(10)},
			},
		},
	}}
	formulaRepo := &fakeFormulaRepo{byProduct: map[string]*entity.Formula{
		"torta": {ProductID: "torta", Components: []entity.FormulaComponent{
			{RawMaterialID: "harina", QuantityPerUnit: decimal.NewFromInt(2)},
			{RawMaterialID: "azucar", QuantityPerUnit: decimal.NewFromFloat(0.5)},
		}},
	}}
	return appstock.NewCheckerUseCase(salesRepo, formulaRepo, &fakeStockRepo{stock: stock})
}

func TestCheckStock_Suficiente(t *testing.T) {
	uc := buildCheckerScenario(map[string]decimal.Decimal{
		"harina": decimal.NewFromInt(20), // requerido exacto
		"azucar": decimal.NewFromInt(8),
	})

	res, err := uc.CheckStock(context.Background(), "so-1")
	require.NoError(t, err)
	assert.True(t, res.Sufficient)
	assert.Equal(t, "so-1", res.SalesOrderID)
	for _, s := range res.Shortages {
		assert.True(t, s.Missing.IsZero())
	}
}

func TestCheckStock_ConFaltantes(t *testing.T) {
	uc := buildCheckerScenario(map[string]decimal.Decimal{
		"harina": decimal.NewFromInt(12),
		// azucar sin stock
	})

	res, err := uc.CheckStock(context.Background(), "so-1")
	require.NoError(t, err)
	assert.False(t, res.Sufficient)

	require.Len(t, res.Shortages, 2)
	// Ordenado por ID de materia prima
	assert.Equal(t, "azucar", res.Shortages[0].RawMaterialID)
	assert.True(t, decimal.NewFromInt(5).Equal(res.Shortages[0].Missing))
	assert.Equal(t, "harina", res.Shortages[1].RawMaterialID)
	assert.True(t, decimal.NewFromInt(8).Equal(res.Shortages[1].Missing), "20 requeridos - 12 en stock")
}

// El chequeo es de solo lectura: dos ejecuciones seguidas sobre el mismo
// estado dan el mismo resultado.
func TestCheckStock_Idempotente(t *testing.T) {
	uc := buildCheckerScenario(map[string]decimal.Decimal{
		"harina": decimal.NewFromInt(12),
	})
	ctx := context.Background()

	primera, err := uc.CheckStock(ctx, "so-1")
	require.NoError(t, err)
	segunda, err := uc.CheckStock(ctx, "so-1")
	require.NoError(t, err)

	assert.Equal(t, primera.Sufficient, segunda.Sufficient)
	assert.Equal(t, primera.Shortages, segunda.Shortages)
}

func TestCheckStock_PedidoInexistente(t *testing.T) {
	uc := buildCheckerScenario(nil)

	_, err := uc.CheckStock(context.Background(), "so-fantasma")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCheckStock_ProductoSinFormula(t *testing.T) {
	salesRepo := &fakeSalesRepo{orders: map[string]*entity.SalesOrder{
		"so-1": {
			ID:     "so-1",
			Status: entity.SalesOrderStatusPending,
			Lines:  []entity.SalesOrderLine{{ProductID: "sin-formula", Quantity: decimal.NewFromInt(1)}},
		},
	}}
	uc := appstock.NewCheckerUseCase(salesRepo, &fakeFormulaRepo{byProduct: map[string]*entity.Formula{}}, &fakeStockRepo{})

	_, err := uc.CheckStock(context.Background(), "so-1")
	assert.ErrorIs(t, err, domain.ErrFormulaNotFound)
}
