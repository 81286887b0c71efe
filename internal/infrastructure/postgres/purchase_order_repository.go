package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/cvallejo/planta-api/internal/domain"
	"github.com/cvallejo/planta-api/internal/domain/entity"
	"github.com/cvallejo/planta-api/internal/domain/repository"
)

var _ repository.PurchaseOrderRepository = (*PurchaseOrderRepo)(nil)

// PurchaseOrderRepo implementación sobre PostgreSQL (usable con pool o tx).
// quotation_id lleva constraint UNIQUE: a lo más una orden por cotización.
type PurchaseOrderRepo struct {
	q Querier
}

// NewPurchaseOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseOrderRepository(q Querier) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{q: q}
}

// Create persiste la orden de compra.
func (r *PurchaseOrderRepo) Create(po *entity.PurchaseOrder) error {
	if po.ID == "" {
		po.ID = uuid.New().String()
	}
	query := `
		INSERT INTO purchase_orders (id, quotation_id, status, observation, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		po.ID, po.QuotationID, po.Status, po.Observation, po.CreatedAt, po.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicatePurchaseOrder
		}
		return fmt.Errorf("create purchase order: %w", err)
	}
	return nil
}

// GetByID obtiene una orden con sus recepciones acumuladas.
func (r *PurchaseOrderRepo) GetByID(id string) (*entity.PurchaseOrder, error) {
	return r.getBy(`WHERE id = $1`, id)
}

// GetByIDForUpdate obtiene la orden bloqueando su fila (SELECT FOR UPDATE).
// Solo tiene sentido dentro de una transacción: serializa recepciones concurrentes.
func (r *PurchaseOrderRepo) GetByIDForUpdate(id string) (*entity.PurchaseOrder, error) {
	return r.getBy(`WHERE id = $1 FOR UPDATE`, id)
}

// GetByQuotationID obtiene la orden vinculada a una cotización, nil si no hay.
func (r *PurchaseOrderRepo) GetByQuotationID(quotationID string) (*entity.PurchaseOrder, error) {
	return r.getBy(`WHERE quotation_id = $1`, quotationID)
}

func (r *PurchaseOrderRepo) getBy(clause, arg string) (*entity.PurchaseOrder, error) {
	query := `
		SELECT id, quotation_id, status, observation, created_at, updated_at
		FROM purchase_orders ` + clause
	var po entity.PurchaseOrder
	err := r.q.QueryRow(context.Background(), query, arg).Scan(
		&po.ID, &po.QuotationID, &po.Status, &po.Observation, &po.CreatedAt, &po.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase order: %w", err)
	}
	receipts, err := r.loadReceipts(po.ID)
	if err != nil {
		return nil, err
	}
	po.ReceivedLines = receipts
	return &po, nil
}

// UpdateStatus cambia estado y observación de la orden.
func (r *PurchaseOrderRepo) UpdateStatus(id string, status entity.PurchaseOrderStatus, observation string) error {
	query := `
		UPDATE purchase_orders SET status = $1, observation = $2, updated_at = NOW() WHERE id = $3`
	tag, err := r.q.Exec(context.Background(), query, status, observation, id)
	if err != nil {
		return fmt.Errorf("update purchase order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update purchase order status: no existe %s", id)
	}
	return nil
}

// AddReceipt registra una recepción parcial contra la orden.
func (r *PurchaseOrderRepo) AddReceipt(poID string, line entity.ReceivedLine) error {
	query := `
		INSERT INTO purchase_order_receipts (id, purchase_order_id, raw_material_id, quantity_received, received_at, received_by)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		uuid.New().String(), poID, line.RawMaterialID, line.QuantityReceived, line.ReceivedAt, line.ReceivedBy,
	)
	if err != nil {
		return fmt.Errorf("add receipt: %w", err)
	}
	return nil
}

// Delete elimina la orden y sus recepciones.
func (r *PurchaseOrderRepo) Delete(id string) error {
	ctx := context.Background()
	if _, err := r.q.Exec(ctx, `DELETE FROM purchase_order_receipts WHERE purchase_order_id = $1`, id); err != nil {
		return fmt.Errorf("delete receipts: %w", err)
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM purchase_orders WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete purchase order: %w", err)
	}
	return nil
}

// List órdenes ordenadas por fecha de creación descendente.
func (r *PurchaseOrderRepo) List(limit, offset int) ([]*entity.PurchaseOrder, error) {
	query := `
		SELECT id, quotation_id, status, observation, created_at, updated_at
		FROM purchase_orders ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list purchase orders: %w", err)
	}
	defer rows.Close()
	var list []*entity.PurchaseOrder
	for rows.Next() {
		var po entity.PurchaseOrder
		if err := rows.Scan(&po.ID, &po.QuotationID, &po.Status, &po.Observation, &po.CreatedAt, &po.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan purchase order: %w", err)
		}
		list = append(list, &po)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, po := range list {
		receipts, err := r.loadReceipts(po.ID)
		if err != nil {
			return nil, err
		}
		po.ReceivedLines = receipts
	}
	return list, nil
}

func (r *PurchaseOrderRepo) loadReceipts(poID string) ([]entity.ReceivedLine, error) {
	query := `
		SELECT raw_material_id, quantity_received, received_at, received_by
		FROM purchase_order_receipts WHERE purchase_order_id = $1 ORDER BY received_at ASC`
	rows, err := r.q.Query(context.Background(), query, poID)
	if err != nil {
		return nil, fmt.Errorf("load receipts: %w", err)
	}
	defer rows.Close()
	var lines []entity.ReceivedLine
	for rows.Next() {
		var l entity.ReceivedLine
		if err := rows.Scan(&l.RawMaterialID, &l.QuantityReceived, &l.ReceivedAt, &l.ReceivedBy); err != nil {
			return nil, fmt.Errorf("scan receipt: %w", err)
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}
