package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/cvallejo/planta-api/internal/domain/entity"
	"github.com/cvallejo/planta-api/internal/domain/repository"
)

var _ repository.ProductionOrderRepository = (*ProductionOrderRepo)(nil)

// ProductionOrderRepo implementación sobre PostgreSQL (usable con pool o tx).
type ProductionOrderRepo struct {
	q Querier
}

// NewProductionOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProductionOrderRepository(q Querier) *ProductionOrderRepo {
	return &ProductionOrderRepo{q: q}
}

// Create persiste la orden de producción.
func (r *ProductionOrderRepo) Create(order *entity.ProductionOrder) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	query := `
		INSERT INTO production_orders (id, sales_order_id, operator_id, start_date, end_date, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		order.ID, order.SalesOrderID, order.OperatorID, order.StartDate,
		order.EndDate, order.Status, order.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create production order: %w", err)
	}
	return nil
}

// GetByID obtiene una orden de producción por ID.
func (r *ProductionOrderRepo) GetByID(id string) (*entity.ProductionOrder, error) {
	query := `
		SELECT id, sales_order_id, operator_id, start_date, end_date, status, created_at
		FROM production_orders WHERE id = $1`
	return r.getOne(query, id)
}

// GetActiveBySalesOrder orden IN_PROGRESS del pedido, nil si no hay.
func (r *ProductionOrderRepo) GetActiveBySalesOrder(salesOrderID string) (*entity.ProductionOrder, error) {
	query := `
		SELECT id, sales_order_id, operator_id, start_date, end_date, status, created_at
		FROM production_orders WHERE sales_order_id = $1 AND status = $2`
	return r.getOne(query, salesOrderID, entity.ProductionOrderStatusInProgress)
}

func (r *ProductionOrderRepo) getOne(query string, args ...any) (*entity.ProductionOrder, error) {
	var o entity.ProductionOrder
	err := r.q.QueryRow(context.Background(), query, args...).Scan(
		&o.ID, &o.SalesOrderID, &o.OperatorID, &o.StartDate, &o.EndDate, &o.Status, &o.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get production order: %w", err)
	}
	return &o, nil
}

// Finish cierra la orden: estado FINISHED y fecha de fin.
func (r *ProductionOrderRepo) Finish(id string, endDate time.Time) error {
	query := `
		UPDATE production_orders SET status = $1, end_date = $2 WHERE id = $3`
	tag, err := r.q.Exec(context.Background(), query, entity.ProductionOrderStatusFinished, endDate, id)
	if err != nil {
		return fmt.Errorf("finish production order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("finish production order: no existe %s", id)
	}
	return nil
}

// List órdenes ordenadas por fecha de creación descendente.
func (r *ProductionOrderRepo) List(limit, offset int) ([]*entity.ProductionOrder, error) {
	query := `
		SELECT id, sales_order_id, operator_id, start_date, end_date, status, created_at
		FROM production_orders ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	return r.list(query, limit, offset)
}

// ListBySalesOrder todas las órdenes (activas y cerradas) de un pedido.
func (r *ProductionOrderRepo) ListBySalesOrder(salesOrderID string) ([]*entity.ProductionOrder, error) {
	query := `
		SELECT id, sales_order_id, operator_id, start_date, end_date, status, created_at
		FROM production_orders WHERE sales_order_id = $1 ORDER BY created_at ASC`
	return r.list(query, salesOrderID)
}

func (r *ProductionOrderRepo) list(query string, args ...any) ([]*entity.ProductionOrder, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list production orders: %w", err)
	}
	defer rows.Close()
	var list []*entity.ProductionOrder
	for rows.Next() {
		var o entity.ProductionOrder
		if err := rows.Scan(&o.ID, &o.SalesOrderID, &o.OperatorID, &o.StartDate, &o.EndDate, &o.Status, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan production order: %w", err)
		}
		list = append(list, &o)
	}
	return list, rows.Err()
}
