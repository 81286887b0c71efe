package entity_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/cvallejo/planta-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Cotizaciones — PENDING -> APPROVED | REJECTED | EXPIRED
// ──────────────────────────────────────────────────────────────────────────────

func TestQuotationStatus_TransicionesDesdePending(t *testing.T) {
	pending := entity.QuotationStatusPending

	assert.True(t, pending.CanTransitionTo(entity.QuotationStatusApproved))
	assert.True(t, pending.CanTransitionTo(entity.QuotationStatusRejected))
	assert.True(t, pending.CanTransitionTo(entity.QuotationStatusExpired))
	assert.False(t, pending.CanTransitionTo(entity.QuotationStatusPending),
		"PENDING -> PENDING no es una transición")
}

func TestQuotationStatus_TerminalesNoSalen(t *testing.T) {
	for _, from := range []entity.QuotationStatus{
		entity.QuotationStatusApproved,
		entity.QuotationStatusRejected,
		entity.QuotationStatusExpired,
	} {
		assert.True(t, from.IsTerminal(), "%s debe ser terminal", from)
		for _, to := range []entity.QuotationStatus{
			entity.QuotationStatusPending,
			entity.QuotationStatusApproved,
			entity.QuotationStatusRejected,
			entity.QuotationStatusExpired,
		} {
			assert.False(t, from.CanTransitionTo(to),
				"%s -> %s debe estar prohibida", from, to)
		}
	}
}

func TestQuotation_ExpiresAtYDue(t *testing.T) {
	created := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	q := &entity.SupplierQuotation{
		CreatedAt:    created,
		ValidityDays: 15,
		Status:       entity.QuotationStatusPending,
	}

	assert.Equal(t, time.Date(2026, 1, 25, 12, 0, 0, 0, time.UTC), q.ExpiresAt())
	assert.False(t, q.IsDue(created.AddDate(0, 0, 14)), "antes del límite no está vencida")
	assert.False(t, q.IsDue(q.ExpiresAt()), "el día límite exacto aún es válida")
	assert.True(t, q.IsDue(created.AddDate(0, 0, 16)), "pasado el límite está vencida")
}

func TestQuotation_OrderedQuantityAgregaLineasRepetidas(t *testing.T) {
	q := &entity.SupplierQuotation{
		Lines: []entity.QuotationLine{
			{RawMaterialID: "rm-1", Quantity: decimal.NewFromInt(30)},
			{RawMaterialID: "rm-2", Quantity: decimal.NewFromInt(5)},
			{RawMaterialID: "rm-1", Quantity: decimal.NewFromInt(20)},
		},
	}

	assert.True(t, decimal.NewFromInt(50).Equal(q.OrderedQuantity("rm-1")),
		"dos líneas de la misma materia prima deben sumarse")
	assert.True(t, decimal.NewFromInt(5).Equal(q.OrderedQuantity("rm-2")))
	assert.True(t, q.OrderedQuantity("rm-9").IsZero(), "no cotizada = cero")
}

// ──────────────────────────────────────────────────────────────────────────────
// Órdenes de compra
// ──────────────────────────────────────────────────────────────────────────────

func TestPurchaseOrderStatus_CanReceive(t *testing.T) {
	assert.True(t, entity.PurchaseOrderStatusPending.CanReceive())
	assert.True(t, entity.PurchaseOrderStatusSent.CanReceive())
	assert.True(t, entity.PurchaseOrderStatusPartiallyReceived.CanReceive())
	assert.True(t, entity.PurchaseOrderStatusReceived.CanReceive(),
		"una orden completa pasa el filtro: el rechazo es por sobre-recepción")
	assert.False(t, entity.PurchaseOrderStatusCancelled.CanReceive())
}

// Los estados de recepción solo se alcanzan vía Receive, nunca por edición.
func TestPurchaseOrderStatus_EdicionNoAlcanzaEstadosDeRecepcion(t *testing.T) {
	for _, from := range []entity.PurchaseOrderStatus{
		entity.PurchaseOrderStatusPending,
		entity.PurchaseOrderStatusSent,
		entity.PurchaseOrderStatusPartiallyReceived,
	} {
		assert.False(t, from.CanTransitionTo(entity.PurchaseOrderStatusReceived),
			"%s -> RECEIVED por edición debe estar prohibida", from)
		assert.False(t, from.CanTransitionTo(entity.PurchaseOrderStatusPartiallyReceived),
			"%s -> PARTIALLY_RECEIVED por edición debe estar prohibida", from)
	}
}

func TestPurchaseOrderStatus_TransicionesDeEdicion(t *testing.T) {
	assert.True(t, entity.PurchaseOrderStatusPending.CanTransitionTo(entity.PurchaseOrderStatusSent))
	assert.True(t, entity.PurchaseOrderStatusPending.CanTransitionTo(entity.PurchaseOrderStatusCancelled))
	assert.True(t, entity.PurchaseOrderStatusSent.CanTransitionTo(entity.PurchaseOrderStatusCancelled))
	assert.True(t, entity.PurchaseOrderStatusPartiallyReceived.CanTransitionTo(entity.PurchaseOrderStatusCancelled))

	assert.False(t, entity.PurchaseOrderStatusSent.CanTransitionTo(entity.PurchaseOrderStatusPending),
		"no hay vuelta atrás a PENDING")
	assert.False(t, entity.PurchaseOrderStatusReceived.CanTransitionTo(entity.PurchaseOrderStatusCancelled),
		"RECEIVED es terminal")
	assert.False(t, entity.PurchaseOrderStatusCancelled.CanTransitionTo(entity.PurchaseOrderStatusSent))
}

func TestPurchaseOrder_CumulativeReceivedYFullyReceived(t *testing.T) {
	quotation := &entity.SupplierQuotation{
		Lines: []entity.QuotationLine{
			{RawMaterialID: "rm-1", Quantity: decimal.NewFromInt(50)},
			{RawMaterialID: "rm-2", Quantity: decimal.NewFromInt(10)},
		},
	}
	po := &entity.PurchaseOrder{
		ReceivedLines: []entity.ReceivedLine{
			{RawMaterialID: "rm-1", QuantityReceived: decimal.NewFromInt(20)},
			{RawMaterialID: "rm-1", QuantityReceived: decimal.NewFromInt(30)},
		},
	}

	assert.True(t, decimal.NewFromInt(50).Equal(po.CumulativeReceived("rm-1")))
	assert.True(t, po.CumulativeReceived("rm-2").IsZero())
	assert.False(t, po.FullyReceived(quotation), "rm-2 aún no llega")

	po.ReceivedLines = append(po.ReceivedLines, entity.ReceivedLine{
		RawMaterialID: "rm-2", QuantityReceived: decimal.NewFromInt(10),
	})
	assert.True(t, po.FullyReceived(quotation), "todas las líneas completas")
}

// ──────────────────────────────────────────────────────────────────────────────
// Pedidos
// ──────────────────────────────────────────────────────────────────────────────

func TestSalesOrderStatus_AvanceDirectoDelUsuario(t *testing.T) {
	ready := entity.SalesOrderStatusReadyForDelivery
	shipped := entity.SalesOrderStatusShipped

	assert.True(t, ready.CanAdvanceTo(entity.SalesOrderStatusShipped))
	assert.True(t, ready.CanAdvanceTo(entity.SalesOrderStatusDelivered),
		"entrega directa sin despacho intermedio es legal")
	assert.True(t, shipped.CanAdvanceTo(entity.SalesOrderStatusDelivered))
}

// Los tramos de producción los maneja la orden de producción: el avance
// directo no puede tocarlos.
func TestSalesOrderStatus_TramosDeProduccionNoAvanzanDirecto(t *testing.T) {
	assert.False(t, entity.SalesOrderStatusPending.CanAdvanceTo(entity.SalesOrderStatusInProduction))
	assert.False(t, entity.SalesOrderStatusInProduction.CanAdvanceTo(entity.SalesOrderStatusReadyForDelivery))
	assert.False(t, entity.SalesOrderStatusPending.CanAdvanceTo(entity.SalesOrderStatusShipped))
	assert.False(t, entity.SalesOrderStatusDelivered.CanAdvanceTo(entity.SalesOrderStatusShipped),
		"DELIVERED es terminal")
}

func TestSalesOrderStatus_CancelYEdit(t *testing.T) {
	assert.True(t, entity.SalesOrderStatusPending.CanCancel())
	assert.False(t, entity.SalesOrderStatusInProduction.CanCancel(),
		"en producción ya no se cancela")
	assert.False(t, entity.SalesOrderStatusShipped.CanCancel())

	assert.True(t, entity.SalesOrderStatusShipped.CanEdit())
	assert.False(t, entity.SalesOrderStatusDelivered.CanEdit())
	assert.False(t, entity.SalesOrderStatusCancelled.CanEdit())
}

// ──────────────────────────────────────────────────────────────────────────────
// Órdenes de producción — única transición IN_PROGRESS -> FINISHED
// ──────────────────────────────────────────────────────────────────────────────

func TestProductionOrderStatus_UnicaTransicion(t *testing.T) {
	assert.True(t, entity.ProductionOrderStatusInProgress.CanTransitionTo(entity.ProductionOrderStatusFinished))
	assert.False(t, entity.ProductionOrderStatusFinished.CanTransitionTo(entity.ProductionOrderStatusInProgress))
	assert.False(t, entity.ProductionOrderStatusFinished.CanTransitionTo(entity.ProductionOrderStatusFinished),
		"doble cierre prohibido")
}

// ──────────────────────────────────────────────────────────────────────────────
// Enumeraciones de inventario
// ──────────────────────────────────────────────────────────────────────────────

func TestItemKindYMovementType_IsValid(t *testing.T) {
	assert.True(t, entity.ItemKindRawMaterial.IsValid())
	assert.True(t, entity.ItemKindProduct.IsValid())
	assert.False(t, entity.ItemKind("bodega").IsValid())

	assert.True(t, entity.MovementTypeEntrada.IsValid())
	assert.True(t, entity.MovementTypeSalida.IsValid())
	assert.False(t, entity.MovementType("AJUSTE").IsValid())
	assert.False(t, entity.MovementType("entrada").IsValid(), "los tipos son case-sensitive")
}
