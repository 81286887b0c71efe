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

var _ repository.SupplierQuotationRepository = (*SupplierQuotationRepo)(nil)

// SupplierQuotationRepo implementación sobre PostgreSQL (usable con pool o tx).
type SupplierQuotationRepo struct {
	q Querier
}

// NewSupplierQuotationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSupplierQuotationRepository(q Querier) *SupplierQuotationRepo {
	return &SupplierQuotationRepo{q: q}
}

// Create persiste cabecera y líneas de la cotización.
func (r *SupplierQuotationRepo) Create(quotation *entity.SupplierQuotation) error {
	if quotation.ID == "" {
		quotation.ID = uuid.New().String()
	}
	ctx := context.Background()
	query := `
		INSERT INTO supplier_quotations (id, supplier_id, total_amount, validity_days, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query,
		quotation.ID, quotation.SupplierID, quotation.TotalAmount,
		quotation.ValidityDays, quotation.Status, quotation.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create quotation: %w", err)
	}
	for i, line := range quotation.Lines {
		lineQuery := `
			INSERT INTO supplier_quotation_lines (quotation_id, position, raw_material_id, unit_price, quantity, subtotal)
			VALUES ($1, $2, $3, $4, $5, $6)`
		if _, err := r.q.Exec(ctx, lineQuery,
			quotation.ID, i, line.RawMaterialID, line.UnitPrice, line.Quantity, line.Subtotal,
		); err != nil {
			return fmt.Errorf("create quotation line: %w", err)
		}
	}
	return nil
}

// GetByID obtiene una cotización con sus líneas.
func (r *SupplierQuotationRepo) GetByID(id string) (*entity.SupplierQuotation, error) {
	query := `
		SELECT id, supplier_id, total_amount, validity_days, status, created_at
		FROM supplier_quotations WHERE id = $1`
	var q entity.SupplierQuotation
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&q.ID, &q.SupplierID, &q.TotalAmount, &q.ValidityDays, &q.Status, &q.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get quotation: %w", err)
	}
	lines, err := r.loadLines(q.ID)
	if err != nil {
		return nil, err
	}
	q.Lines = lines
	return &q, nil
}

// UpdateStatus cambia el estado de la cotización.
func (r *SupplierQuotationRepo) UpdateStatus(id string, status entity.QuotationStatus) error {
	tag, err := r.q.Exec(context.Background(),
		`UPDATE supplier_quotations SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("update quotation status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update quotation status: no existe %s", id)
	}
	return nil
}

// Delete elimina la cotización y sus líneas.
func (r *SupplierQuotationRepo) Delete(id string) error {
	ctx := context.Background()
	if _, err := r.q.Exec(ctx, `DELETE FROM supplier_quotation_lines WHERE quotation_id = $1`, id); err != nil {
		return fmt.Errorf("delete quotation lines: %w", err)
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM supplier_quotations WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete quotation: %w", err)
	}
	return nil
}

// List cotizaciones ordenadas por fecha de creación descendente.
func (r *SupplierQuotationRepo) List(limit, offset int) ([]*entity.SupplierQuotation, error) {
	query := `
		SELECT id, supplier_id, total_amount, validity_days, status, created_at
		FROM supplier_quotations ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	return r.list(query, limit, offset)
}

// ListBySupplier cotizaciones de un proveedor.
func (r *SupplierQuotationRepo) ListBySupplier(supplierID string, limit, offset int) ([]*entity.SupplierQuotation, error) {
	query := `
		SELECT id, supplier_id, total_amount, validity_days, status, created_at
		FROM supplier_quotations WHERE supplier_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	return r.list(query, supplierID, limit, offset)
}

// ListDuePending cotizaciones PENDING cuya validez venció a la fecha dada.
func (r *SupplierQuotationRepo) ListDuePending(now time.Time) ([]*entity.SupplierQuotation, error) {
	query := `
		SELECT id, supplier_id, total_amount, validity_days, status, created_at
		FROM supplier_quotations
		WHERE status = $1 AND created_at + validity_days * INTERVAL '1 day' < $2
		ORDER BY created_at ASC`
	return r.list(query, entity.QuotationStatusPending, now)
}

func (r *SupplierQuotationRepo) list(query string, args ...any) ([]*entity.SupplierQuotation, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list quotations: %w", err)
	}
	defer rows.Close()
	var list []*entity.SupplierQuotation
	for rows.Next() {
		var q entity.SupplierQuotation
		if err := rows.Scan(&q.ID, &q.SupplierID, &q.TotalAmount, &q.ValidityDays, &q.Status, &q.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan quotation: %w", err)
		}
		list = append(list, &q)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, q := range list {
		lines, err := r.loadLines(q.ID)
		if err != nil {
			return nil, err
		}
		q.Lines = lines
	}
	return list, nil
}

func (r *SupplierQuotationRepo) loadLines(quotationID string) ([]entity.QuotationLine, error) {
	query := `
		SELECT raw_material_id, unit_price, quantity, subtotal
		FROM supplier_quotation_lines WHERE quotation_id = $1 ORDER BY position ASC`
	rows, err := r.q.Query(context.Background(), query, quotationID)
	if err != nil {
		return nil, fmt.Errorf("load quotation lines: %w", err)
	}
	defer rows.Close()
	var lines []entity.QuotationLine
	for rows.Next() {
		var l entity.QuotationLine
		if err := rows.Scan(&l.RawMaterialID, &l.UnitPrice, &l.Quantity, &l.Subtotal); err != nil {
			return nil, fmt.Errorf("scan quotation line: %w", err)
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}
