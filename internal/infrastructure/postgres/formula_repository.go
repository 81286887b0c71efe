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

var _ repository.FormulaRepository = (*FormulaRepo)(nil)

// FormulaRepo implementación sobre PostgreSQL (usable con pool o tx).
// product_id lleva constraint UNIQUE: una fórmula por producto.
type FormulaRepo struct {
	q Querier
}

// NewFormulaRepository construye el adaptador. Pasar pool o tx (Querier).
func NewFormulaRepository(q Querier) *FormulaRepo {
	return &FormulaRepo{q: q}
}

// Create persiste la fórmula y sus componentes.
func (r *FormulaRepo) Create(formula *entity.Formula) error {
	if formula.ID == "" {
		formula.ID = uuid.New().String()
	}
	query := `
		INSERT INTO formulas (id, product_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4)`
	_, err := r.q.Exec(context.Background(), query,
		formula.ID, formula.ProductID, formula.CreatedAt, formula.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create formula: %w", err)
	}
	return r.insertComponents(formula.ID, formula.Components)
}

// GetByID obtiene una fórmula con sus componentes.
func (r *FormulaRepo) GetByID(id string) (*entity.Formula, error) {
	return r.getBy(`WHERE id = $1`, id)
}

// GetByProductID obtiene la fórmula de un producto, nil si no tiene.
func (r *FormulaRepo) GetByProductID(productID string) (*entity.Formula, error) {
	return r.getBy(`WHERE product_id = $1`, productID)
}

func (r *FormulaRepo) getBy(clause, arg string) (*entity.Formula, error) {
	query := `
		SELECT id, product_id, created_at, updated_at
		FROM formulas ` + clause
	var f entity.Formula
	err := r.q.QueryRow(context.Background(), query, arg).Scan(
		&f.ID, &f.ProductID, &f.CreatedAt, &f.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get formula: %w", err)
	}
	components, err := r.loadComponents(f.ID)
	if err != nil {
		return nil, err
	}
	f.Components = components
	return &f, nil
}

// Update reemplaza los componentes de la fórmula.
func (r *FormulaRepo) Update(formula *entity.Formula) error {
	ctx := context.Background()
	tag, err := r.q.Exec(ctx,
		`UPDATE formulas SET updated_at = $1 WHERE id = $2`, formula.UpdatedAt, formula.ID)
	if err != nil {
		return fmt.Errorf("update formula: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update formula: no existe %s", formula.ID)
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM formula_components WHERE formula_id = $1`, formula.ID); err != nil {
		return fmt.Errorf("delete formula components: %w", err)
	}
	return r.insertComponents(formula.ID, formula.Components)
}

// Delete elimina la fórmula y sus componentes.
func (r *FormulaRepo) Delete(id string) error {
	ctx := context.Background()
	if _, err := r.q.Exec(ctx, `DELETE FROM formula_components WHERE formula_id = $1`, id); err != nil {
		return fmt.Errorf("delete formula components: %w", err)
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM formulas WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete formula: %w", err)
	}
	return nil
}

// List fórmulas con componentes.
func (r *FormulaRepo) List(limit, offset int) ([]*entity.Formula, error) {
	query := `
		SELECT id, product_id, created_at, updated_at
		FROM formulas ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list formulas: %w", err)
	}
	defer rows.Close()
	var list []*entity.Formula
	for rows.Next() {
		var f entity.Formula
		if err := rows.Scan(&f.ID, &f.ProductID, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan formula: %w", err)
		}
		list = append(list, &f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, f := range list {
		components, err := r.loadComponents(f.ID)
		if err != nil {
			return nil, err
		}
		f.Components = components
	}
	return list, nil
}

func (r *FormulaRepo) insertComponents(formulaID string, components []entity.FormulaComponent) error {
	for _, c := range components {
		query := `
			INSERT INTO formula_components (formula_id, raw_material_id, quantity_per_unit)
			VALUES ($1, $2, $3)`
		if _, err := r.q.Exec(context.Background(), query, formulaID, c.RawMaterialID, c.QuantityPerUnit); err != nil {
			return fmt.Errorf("insert formula component: %w", err)
		}
	}
	return nil
}

func (r *FormulaRepo) loadComponents(formulaID string) ([]entity.FormulaComponent, error) {
	query := `
		SELECT raw_material_id, quantity_per_unit
		FROM formula_components WHERE formula_id = $1`
	rows, err := r.q.Query(context.Background(), query, formulaID)
	if err != nil {
		return nil, fmt.Errorf("load formula components: %w", err)
	}
	defer rows.Close()
	var components []entity.FormulaComponent
	for rows.Next() {
		var c entity.FormulaComponent
		if err := rows.Scan(&c.RawMaterialID, &c.QuantityPerUnit); err != nil {
			return nil, fmt.Errorf("scan formula component: %w", err)
		}
		components = append(components, c)
	}
	return components, rows.Err()
}
