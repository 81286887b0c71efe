package repository

import "github.com/cvallejo/planta-api/internal/domain/entity"

// FormulaRepository puerto de persistencia para fórmulas (bill of materials).
type FormulaRepository interface {
	Create(formula *entity.Formula) error
	GetByID(id string) (*entity.Formula, error)
	GetByProductID(productID string) (*entity.Formula, error)
	// Update reemplaza los componentes de la fórmula.
	Update(formula *entity.Formula) error
	Delete(id string) error
	List(limit, offset int) ([]*entity.Formula, error)
}
