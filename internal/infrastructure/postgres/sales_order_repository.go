package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/cvallejo/planta-api/internal/domain/entity"
	"github.com/cvallejo/planta-api/internal/domain/repository"
)

var _ repository.SalesOrderRepository = (*SalesOrderRepo)(nil)

// SalesOrderRepo implementación sobre PostgreSQL (usable con pool o tx).
type SalesOrderRepo struct {
	q Querier
}

// NewSalesOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSalesOrderRepository(q Querier) *SalesOrderRepo {
	return &SalesOrderRepo{q: q}
}

// Create persiste cabecera y líneas del pedido.
func (r *SalesOrderRepo) Create(order *entity.SalesOrder) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	query := `
		INSERT INTO sales_orders (id, client_id, order_date, delivery_date, status, total_amount, observation, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		order.ID, order.ClientID, order.OrderDate, order.DeliveryDate, order.Status,
		order.TotalAmount, order.Observation, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create sales order: %w", err)
	}
	return r.insertLines(order.ID, order.Lines)
}

// GetByID obtiene un pedido con sus líneas.
func (r *SalesOrderRepo) GetByID(id string) (*entity.SalesOrder, error) {
	return r.getBy(`WHERE id = $1`, id)
}

// GetByIDForUpdate obtiene el pedido bloqueando su fila (SELECT FOR UPDATE).
// Serializa el cambio de estado frente a órdenes de producción concurrentes.
func (r *SalesOrderRepo) GetByIDForUpdate(id string) (*entity.SalesOrder, error) {
	return r.getBy(`WHERE id = $1 FOR UPDATE`, id)
}

func (r *SalesOrderRepo) getBy(clause, arg string) (*entity.SalesOrder, error) {
	query := `
		SELECT id, client_id, order_date, delivery_date, status, total_amount, observation, created_at, updated_at
		FROM sales_orders ` + clause
	var o entity.SalesOrder
	err := r.q.QueryRow(context.Background(), query, arg).Scan(
		&o.ID, &o.ClientID, &o.OrderDate, &o.DeliveryDate, &o.Status,
		&o.TotalAmount, &o.Observation, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sales order: %w", err)
	}
	lines, err := r.loadLines(o.ID)
	if err != nil {
		return nil, err
	}
	o.Lines = lines
	return &o, nil
}

// Update reemplaza cabecera y líneas (borrar + reinsertar líneas).
func (r *SalesOrderRepo) Update(order *entity.SalesOrder) error {
	ctx := context.Background()
	query := `
		UPDATE sales_orders
		SET client_id = $1, order_date = $2, delivery_date = $3, status = $4,
			total_amount = $5, observation = $6, updated_at = $7
		WHERE id = $8`
	tag, err := r.q.Exec(ctx, query,
		order.ClientID, order.OrderDate, order.DeliveryDate, order.Status,
		order.TotalAmount, order.Observation, order.UpdatedAt, order.ID,
	)
	if err != nil {
		return fmt.Errorf("update sales order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update sales order: no existe %s", order.ID)
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM sales_order_lines WHERE sales_order_id = $1`, order.ID); err != nil {
		return fmt.Errorf("delete sales order lines: %w", err)
	}
	return r.insertLines(order.ID, order.Lines)
}

// UpdateStatus cambia solo el estado del pedido.
func (r *SalesOrderRepo) UpdateStatus(id string, status entity.SalesOrderStatus) error {
	tag, err := r.q.Exec(context.Background(),
		`UPDATE sales_orders SET status = $1, updated_at = NOW() WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("update sales order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update sales order status: no existe %s", id)
	}
	return nil
}

// Delete elimina el pedido y sus líneas.
func (r *SalesOrderRepo) Delete(id string) error {
	ctx := context.Background()
	if _, err := r.q.Exec(ctx, `DELETE FROM sales_order_lines WHERE sales_order_id = $1`, id); err != nil {
		return fmt.Errorf("delete sales order lines: %w", err)
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM sales_orders WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete sales order: %w", err)
	}
	return nil
}

// List pedidos ordenados por fecha de pedido descendente.
func (r *SalesOrderRepo) List(limit, offset int) ([]*entity.SalesOrder, error) {
	query := `
		SELECT id, client_id, order_date, delivery_date, status, total_amount, observation, created_at, updated_at
		FROM sales_orders ORDER BY order_date DESC LIMIT $1 OFFSET $2`
	return r.list(query, limit, offset)
}

// ListByClient pedidos de un cliente.
func (r *SalesOrderRepo) ListByClient(clientID string, limit, offset int) ([]*entity.SalesOrder, error) {
	query := `
		SELECT id, client_id, order_date, delivery_date, status, total_amount, observation, created_at, updated_at
		FROM sales_orders WHERE client_id = $1 ORDER BY order_date DESC LIMIT $2 OFFSET $3`
	return r.list(query, clientID, limit, offset)
}

func (r *SalesOrderRepo) list(query string, args ...any) ([]*entity.SalesOrder, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sales orders: %w", err)
	}
	defer rows.Close()
	var list []*entity.SalesOrder
	for rows.Next() {
		var o entity.SalesOrder
		if err := rows.Scan(&o.ID, &o.ClientID, &o.OrderDate, &o.DeliveryDate, &o.Status,
			&o.TotalAmount, &o.Observation, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan sales order: %w", err)
		}
		list = append(list, &o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, o := range list {
		lines, err := r.loadLines(o.ID)
		if err != nil {
			return nil, err
		}
		o.Lines = lines
	}
	return list, nil
}

func (r *SalesOrderRepo) insertLines(orderID string, lines []entity.SalesOrderLine) error {
	for i, line := range lines {
		query := `
			INSERT INTO sales_order_lines (sales_order_id, position, product_id, quantity, unit_price, subtotal)
			VALUES ($1, $2, $3, $4, $5, $6)`
		if _, err := r.q.Exec(context.Background(), query,
			orderID, i, line.ProductID, line.Quantity, line.UnitPrice, line.Subtotal,
		); err != nil {
			return fmt.Errorf("insert sales order line: %w", err)
		}
	}
	return nil
}

func (r *SalesOrderRepo) loadLines(orderID string) ([]entity.SalesOrderLine, error) {
	query := `
		SELECT product_id, quantity, unit_price, subtotal
		FROM sales_order_lines WHERE sales_order_id = $1 ORDER BY position ASC`
	rows, err := r.q.Query(context.Background(), query, orderID)
	if err != nil {
		return nil, fmt.Errorf("load sales order lines: %w", err)
	}
	defer rows.Close()
	var lines []entity.SalesOrderLine
	for rows.Next() {
		var l entity.SalesOrderLine
		if err := rows.Scan(&l.ProductID, &l.Quantity, &l.UnitPrice, &l.Subtotal); err != nil {
			return nil, fmt.Errorf("scan sales order line: %w", err)
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}
