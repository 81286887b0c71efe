package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cvallejo/planta-api/internal/application/dto"
	"github.com/cvallejo/planta-api/internal/application/inventory"
	"github.com/cvallejo/planta-api/internal/domain"
	"github.com/cvallejo/planta-api/internal/domain/entity"
	"github.com/cvallejo/planta-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

type fakeMovementRepo struct {
	movements []*entity.InventoryMovement
}

func (r *fakeMovementRepo) Create(m *entity.InventoryMovement) error {
	r.movements = append(r.movements, m)
	return nil
}

func (r *fakeMovementRepo) GetByID(id string) (*entity.InventoryMovement, error) {
	for _, m := range r.movements {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, nil
}

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
	var out []*entity.InventoryMovement
	for _, m := range r.movements {
		if m.ItemKind != kind || m.ItemID != itemID {
			continue
		}
		if from != nil && m.Timestamp.Before(*from) {
			continue
		}
		if to != nil && m.Timestamp.After(*to) {
			continue
		}
		if movType != "" && m.Type != movType {
			continue
		}
		out = append(out, m)
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
	var out []*entity.AuditEvent
	for _, e := range r.events {
		if entityName != "" && e.Entity != entityName {
			continue
		}
		if entityID != "" && e.EntityID != entityID {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

// fakeTxRunner pasa siempre los mismos repos: sin transacción real, pero con
// la misma forma que el runner de producción.
type fakeTxRunner struct {
	movRepo   *fakeMovementRepo
	auditRepo *fakeAuditRepo
}

func (r *fakeTxRunner) Run(ctx context.Context, fn func(
	movRepo repository.InventoryMovementRepository,
	auditRepo repository.AuditEventRepository,
) error) error {
	return fn(r.movRepo, r.auditRepo)
}

func newLedgerForTest() (*inventory.LedgerUseCase, *fakeMovementRepo, *fakeAuditRepo) {
	movRepo := &fakeMovementRepo{}
	auditRepo := &fakeAuditRepo{}
	uc := inventory.NewLedgerUseCase(&fakeTxRunner{movRepo: movRepo, auditRepo: auditRepo}, movRepo, nil)
	return uc, movRepo, auditRepo
}

func movementReq(movType string, qty int64) dto.RegisterMovementRequest {
	return dto.RegisterMovementRequest{
		ItemKind:      string(entity.ItemKindRawMaterial),
		ItemID:        "rm-harina",
		Quantity:      decimal.NewFromInt(qty),
		UnitOfMeasure: "kg",
		Type:          movType,
		Reason:        "ajuste de prueba",
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// RecordMovement
// ──────────────────────────────────────────────────────────────────────────────

func TestRecordMovement_EntradaGuardaCantidadPositiva(t *testing.T) {
	uc, movRepo, auditRepo := newLedgerForTest()

	id, err := uc.RecordMovement(context.Background(), "user-1", movementReq("ENTRADA", 100))
	require.NoError(t, err)
	require.NotEmpty(t, id)

	require.Len(t, movRepo.movements, 1)
	mov := movRepo.movements[0]
	assert.True(t, decimal.NewFromInt(100).Equal(mov.Quantity),
		"ENTRADA se guarda con signo positivo")
	assert.Equal(t, entity.MovementTypeEntrada, mov.Type)
	assert.Equal(t, "user-1", mov.RecordedBy)

	require.Len(t, auditRepo.events, 1, "el asiento genera su evento de auditoría")
	assert.Equal(t, "inventory_movement", auditRepo.events[0].Entity)
	assert.Equal(t, id, auditRepo.events[0].EntityID)
}

func TestRecordMovement_SalidaDerivaSignoNegativo(t *testing.T) {
	uc, movRepo, _ := newLedgerForTest()

	_, err := uc.RecordMovement(context.Background(), "user-1", movementReq("SALIDA", 30))
	require.NoError(t, err)

	require.Len(t, movRepo.movements, 1)
	assert.True(t, decimal.NewFromInt(-30).Equal(movRepo.movements[0].Quantity),
		"el servidor deriva el signo del tipo; el caller siempre manda magnitud positiva")
}

func TestRecordMovement_RechazaEntradasInvalidas(t *testing.T) {
	uc, movRepo, _ := newLedgerForTest()
	ctx := context.Background()

	casos := []struct {
		nombre string
		mutar  func(*dto.RegisterMovementRequest)
	}{
		{"cantidad cero", func(r *dto.RegisterMovementRequest) { r.Quantity = decimal.Zero }},
		{"cantidad negativa", func(r *dto.RegisterMovementRequest) { r.Quantity = decimal.NewFromInt(-5) }},
		{"tipo desconocido", func(r *dto.RegisterMovementRequest) { r.Type = "AJUSTE" }},
		{"kind desconocido", func(r *dto.RegisterMovementRequest) { r.ItemKind = "bodega" }},
		{"sin item", func(r *dto.RegisterMovementRequest) { r.ItemID = "" }},
		{"sin unidad", func(r *dto.RegisterMovementRequest) { r.UnitOfMeasure = "" }},
	}
	for _, c := range casos {
		req := movementReq("ENTRADA", 10)
		c.mutar(&req)
		_, err := uc.RecordMovement(ctx, "user-1", req)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "caso: %s", c.nombre)
	}
	assert.Empty(t, movRepo.movements, "ninguna entrada inválida debe persistirse")
}

// ──────────────────────────────────────────────────────────────────────────────
// CurrentStock — stock derivado por suma
// ──────────────────────────────────────────────────────────────────────────────

func TestCurrentStock_SumaAsientosFirmados(t *testing.T) {
	uc, _, _ := newLedgerForTest()
	ctx := context.Background()

	_, err := uc.RecordMovement(ctx, "user-1", movementReq("ENTRADA", 100))
	require.NoError(t, err)
	_, err = uc.RecordMovement(ctx, "user-1", movementReq("SALIDA", 30))
	require.NoError(t, err)
	_, err = uc.RecordMovement(ctx, "user-1", movementReq("ENTRADA", 5))
	require.NoError(t, err)

	stock, err := uc.CurrentStock(ctx, entity.ItemKindRawMaterial, "rm-harina")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(75).Equal(stock), "100 - 30 + 5 = 75")
}

func TestCurrentStock_SinAsientosEsCero(t *testing.T) {
	uc, _, _ := newLedgerForTest()

	stock, err := uc.CurrentStock(context.Background(), entity.ItemKindProduct, "p-nuevo")
	require.NoError(t, err)
	assert.True(t, stock.IsZero())
}

func TestCurrentStock_PuedeSerNegativo(t *testing.T) {
	uc, _, _ := newLedgerForTest()
	ctx := context.Background()

	// El libro no bloquea salidas: la suficiencia la valida producción
	_, err := uc.RecordMovement(ctx, "user-1", movementReq("SALIDA", 10))
	require.NoError(t, err)

	stock, err := uc.CurrentStock(ctx, entity.ItemKindRawMaterial, "rm-harina")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(-10).Equal(stock))
}

// ──────────────────────────────────────────────────────────────────────────────
// MovementsInRange
// ──────────────────────────────────────────────────────────────────────────────

func TestMovementsInRange_FiltraPorTipo(t *testing.T) {
	uc, _, _ := newLedgerForTest()
	ctx := context.Background()

	_, err := uc.RecordMovement(ctx, "user-1", movementReq("ENTRADA", 100))
	require.NoError(t, err)
	_, err = uc.RecordMovement(ctx, "user-1", movementReq("SALIDA", 30))
	require.NoError(t, err)

	salidas, err := uc.MovementsInRange(ctx, entity.ItemKindRawMaterial, "rm-harina", nil, nil, entity.MovementTypeSalida, 50, 0)
	require.NoError(t, err)
	require.Len(t, salidas, 1)
	assert.Equal(t, entity.MovementTypeSalida, salidas[0].Type)

	todos, err := uc.MovementsInRange(ctx, entity.ItemKindRawMaterial, "rm-harina", nil, nil, "", 50, 0)
	require.NoError(t, err)
	assert.Len(t, todos, 2, "tipo vacío lista todos")
}

func TestMovementsInRange_TipoInvalidoRechazado(t *testing.T) {
	uc, _, _ := newLedgerForTest()

	_, err := uc.MovementsInRange(context.Background(), entity.ItemKindRawMaterial, "rm-harina", nil, nil, "AJUSTE", 50, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
