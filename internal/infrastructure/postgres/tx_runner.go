package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cvallejo/planta-api/internal/application/inventory"
	"github.com/cvallejo/planta-api/internal/application/procurement"
	"github.com/cvallejo/planta-api/internal/application/production"
	"github.com/cvallejo/planta-api/internal/application/sales"
	"github.com/cvallejo/planta-api/internal/domain/repository"
)

var _ inventory.TxRunner = (*InventoryTxRunner)(nil)
var _ procurement.TxRunner = (*ProcurementTxRunner)(nil)
var _ production.TxRunner = (*ProductionTxRunner)(nil)
var _ sales.TxRunner = (*SalesTxRunner)(nil)

// runInTx inicia una transacción, ejecuta fn y hace Commit o Rollback.
func runInTx(ctx context.Context, pool *pgxpool.Pool, fn func(tx pgx.Tx) error) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// InventoryTxRunner transacciones del libro de inventario (asiento + auditoría).
type InventoryTxRunner struct {
	pool *pgxpool.Pool
}

// NewInventoryTxRunner construye el runner con el pool.
func NewInventoryTxRunner(pool *pgxpool.Pool) *InventoryTxRunner {
	return &InventoryTxRunner{pool: pool}
}

// Run ejecuta fn con repos atados a la transacción.
func (r *InventoryTxRunner) Run(ctx context.Context, fn func(
	movRepo repository.InventoryMovementRepository,
	auditRepo repository.AuditEventRepository,
) error) error {
	return runInTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(NewInventoryMovementRepository(tx), NewAuditEventRepository(tx))
	})
}

// ProcurementTxRunner transacciones del ciclo de compras (cotización, orden,
// recepción contra el libro y auditoría).
type ProcurementTxRunner struct {
	pool *pgxpool.Pool
}

// NewProcurementTxRunner construye el runner con el pool.
func NewProcurementTxRunner(pool *pgxpool.Pool) *ProcurementTxRunner {
	return &ProcurementTxRunner{pool: pool}
}

// Run ejecuta fn con repos atados a la transacción.
func (r *ProcurementTxRunner) Run(ctx context.Context, fn func(
	quoteRepo repository.SupplierQuotationRepository,
	poRepo repository.PurchaseOrderRepository,
	movRepo repository.InventoryMovementRepository,
	auditRepo repository.AuditEventRepository,
) error) error {
	return runInTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(
			NewSupplierQuotationRepository(tx),
			NewPurchaseOrderRepository(tx),
			NewInventoryMovementRepository(tx),
			NewAuditEventRepository(tx),
		)
	})
}

// ProductionTxRunner transacciones de producción (orden, pedido, asientos
// duales del libro y auditoría).
type ProductionTxRunner struct {
	pool *pgxpool.Pool
}

// NewProductionTxRunner construye el runner con el pool.
func NewProductionTxRunner(pool *pgxpool.Pool) *ProductionTxRunner {
	return &ProductionTxRunner{pool: pool}
}

// Run ejecuta fn con repos atados a la transacción.
func (r *ProductionTxRunner) Run(ctx context.Context, fn func(
	prodRepo repository.ProductionOrderRepository,
	salesRepo repository.SalesOrderRepository,
	movRepo repository.InventoryMovementRepository,
	auditRepo repository.AuditEventRepository,
) error) error {
	return runInTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(
			NewProductionOrderRepository(tx),
			NewSalesOrderRepository(tx),
			NewInventoryMovementRepository(tx),
			NewAuditEventRepository(tx),
		)
	})
}

// SalesTxRunner transacciones de pedidos (pedido + auditoría).
type SalesTxRunner struct {
	pool *pgxpool.Pool
}

// NewSalesTxRunner construye el runner con el pool.
func NewSalesTxRunner(pool *pgxpool.Pool) *SalesTxRunner {
	return &SalesTxRunner{pool: pool}
}

// Run ejecuta fn con repos atados a la transacción.
func (r *SalesTxRunner) Run(ctx context.Context, fn func(
	salesRepo repository.SalesOrderRepository,
	auditRepo repository.AuditEventRepository,
) error) error {
	return runInTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(NewSalesOrderRepository(tx), NewAuditEventRepository(tx))
	})
}
