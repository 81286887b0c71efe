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
	"github.com/cvallejo/planta-api/pkg/normalize"
)

var _ repository.RawMaterialRepository = (*RawMaterialRepo)(nil)

// RawMaterialRepo implementación sobre PostgreSQL (usable con pool o tx).
// search_name guarda nombre+código normalizados (minúsculas, sin tildes)
// para búsqueda sin depender de la extensión unaccent.
type RawMaterialRepo struct {
	q Querier
}

// NewRawMaterialRepository construye el adaptador. Pasar pool o tx (Querier).
func NewRawMaterialRepository(q Querier) *RawMaterialRepo {
	return &RawMaterialRepo{q: q}
}

// Create persiste una materia prima.
func (r *RawMaterialRepo) Create(m *entity.RawMaterial) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	query := `
		INSERT INTO raw_materials (id, code, name, description, unit_of_measure, search_name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		m.ID, m.Code, m.Name, m.Description, m.UnitOfMeasure,
		normalize.SearchTerm(m.Name+" "+m.Code), m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create raw material: %w", err)
	}
	return nil
}

// GetByID obtiene una materia prima por ID.
func (r *RawMaterialRepo) GetByID(id string) (*entity.RawMaterial, error) {
	return r.getBy(`WHERE id = $1`, id)
}

// GetByCode obtiene una materia prima por código único.
func (r *RawMaterialRepo) GetByCode(code string) (*entity.RawMaterial, error) {
	return r.getBy(`WHERE code = $1`, code)
}

func (r *RawMaterialRepo) getBy(clause, arg string) (*entity.RawMaterial, error) {
	query := `
		SELECT id, code, name, description, unit_of_measure, created_at, updated_at
		FROM raw_materials ` + clause
	var m entity.RawMaterial
	err := r.q.QueryRow(context.Background(), query, arg).Scan(
		&m.ID, &m.Code, &m.Name, &m.Description, &m.UnitOfMeasure, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get raw material: %w", err)
	}
	return &m, nil
}

// Update edita la materia prima.
func (r *RawMaterialRepo) Update(m *entity.RawMaterial) error {
	query := `
		UPDATE raw_materials
		SET code = $1, name = $2, description = $3, unit_of_measure = $4, search_name = $5, updated_at = $6
		WHERE id = $7`
	tag, err := r.q.Exec(context.Background(), query,
		m.Code, m.Name, m.Description, m.UnitOfMeasure,
		normalize.SearchTerm(m.Name+" "+m.Code), m.UpdatedAt, m.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update raw material: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update raw material: no existe %s", m.ID)
	}
	return nil
}

// Delete elimina la materia prima.
func (r *RawMaterialRepo) Delete(id string) error {
	if _, err := r.q.Exec(context.Background(), `DELETE FROM raw_materials WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete raw material: %w", err)
	}
	return nil
}

// List materias primas con búsqueda opcional (search ya normalizado).
func (r *RawMaterialRepo) List(search string, limit, offset int) ([]*entity.RawMaterial, error) {
	query := `
		SELECT id, code, name, description, unit_of_measure, created_at, updated_at
		FROM raw_materials`
	args := []any{}
	pos := 1
	if search != "" {
		query += fmt.Sprintf(" WHERE search_name LIKE '%%' || $%d || '%%'", pos)
		args = append(args, search)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY name ASC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list raw materials: %w", err)
	}
	defer rows.Close()
	var list []*entity.RawMaterial
	for rows.Next() {
		var m entity.RawMaterial
		if err := rows.Scan(&m.ID, &m.Code, &m.Name, &m.Description, &m.UnitOfMeasure, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan raw material: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
