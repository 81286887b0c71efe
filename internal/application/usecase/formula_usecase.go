package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cvallejo/planta-api/internal/application/dto"
	"github.com/cvallejo/planta-api/internal/domain"
	"github.com/cvallejo/planta-api/internal/domain/entity"
	"github.com/cvallejo/planta-api/internal/domain/repository"
)

// FormulaUseCase casos de uso CRUD para fórmulas (bill of materials).
// Una fórmula por producto; componentes con cantidad positiva y sin repetir.
type FormulaUseCase struct {
	repo            repository.FormulaRepository
	productRepo     repository.ProductRepository
	rawMaterialRepo repository.RawMaterialRepository
}

// NewFormulaUseCase construye el caso de uso.
func NewFormulaUseCase(
	repo repository.FormulaRepository,
	productRepo repository.ProductRepository,
	rawMaterialRepo repository.RawMaterialRepository,
) *FormulaUseCase {
	return &FormulaUseCase{repo: repo, productRepo: productRepo, rawMaterialRepo: rawMaterialRepo}
}

// Create crea la fórmula de un producto que no tenga una.
func (uc *FormulaUseCase) Create(in dto.FormulaRequest) (*entity.Formula, error) {
	if in.ProductID == "" || len(in.Components) == 0 {
		return nil, domain.ErrInvalidInput
	}
	product, err := uc.productRepo.GetByID(in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	existing, err := uc.repo.GetByProductID(in.ProductID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	components, err := uc.buildComponents(in.Components)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	formula := &entity.Formula{
		ID:         uuid.New().String(),
		ProductID:  in.ProductID,
		Components: components,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := uc.repo.Create(formula); err != nil {
		return nil, err
	}
	return formula, nil
}

// Update reemplaza los componentes de la fórmula.
func (uc *FormulaUseCase) Update(id string, in dto.FormulaRequest) (*entity.Formula, error) {
	formula, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if formula == nil {
		return nil, domain.ErrNotFound
	}
	if len(in.Components) == 0 {
		return nil, domain.ErrInvalidInput
	}
	components, err := uc.buildComponents(in.Components)
	if err != nil {
		return nil, err
	}
	formula.Components = components
	formula.UpdatedAt = time.Now()
	if err := uc.repo.Update(formula); err != nil {
		return nil, err
	}
	return formula, nil
}

// GetByProductID fórmula del producto.
func (uc *FormulaUseCase) GetByProductID(productID string) (*entity.Formula, error) {
	formula, err := uc.repo.GetByProductID(productID)
	if err != nil {
		return nil, err
	}
	if formula == nil {
		return nil, domain.ErrFormulaNotFound
	}
	return formula, nil
}

// Delete elimina la fórmula.
func (uc *FormulaUseCase) Delete(id string) error {
	formula, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if formula == nil {
		return domain.ErrNotFound
	}
	return uc.repo.Delete(id)
}

// List fórmulas.
func (uc *FormulaUseCase) List(limit, offset int) ([]*entity.Formula, error) {
	return uc.repo.List(limit, offset)
}

func (uc *FormulaUseCase) buildComponents(in []dto.FormulaComponentRequest) ([]entity.FormulaComponent, error) {
	seen := make(map[string]bool, len(in))
	components := make([]entity.FormulaComponent, 0, len(in))
	for _, c := range in {
		if c.RawMaterialID == "" || !c.QuantityPerUnit.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		if seen[c.RawMaterialID] {
			return nil, domain.ErrDuplicate
		}
		seen[c.RawMaterialID] = true
		rm, err := uc.rawMaterialRepo.GetByID(c.RawMaterialID)
		if err != nil {
			return nil, err
		}
		if rm == nil {
			return nil, domain.ErrNotFound
		}
		components = append(components, entity.FormulaComponent{
			RawMaterialID:   c.RawMaterialID,
			QuantityPerUnit: c.QuantityPerUnit,
		})
	}
	return components, nil
}
