package stock

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/cvallejo/planta-api/internal/application/dto"
	"github.com/cvallejo/planta-api/internal/domain"
	"github.com/cvallejo/planta-api/internal/domain/entity"
	"github.com/cvallejo/planta-api/internal/domain/repository"
	domstock "github.com/cvallejo/planta-api/internal/domain/stock"
)

// CheckerUseCase chequeo de suficiencia de stock para un pedido.
// Solo lectura: re-ejecutable en cualquier momento sin efectos secundarios,
// porque las compras pueden cambiar el stock entre chequeos.
type CheckerUseCase struct {
	salesRepo   repository.SalesOrderRepository
	formulaRepo repository.FormulaRepository
	movRepo     repository.InventoryMovementRepository
}

// NewCheckerUseCase construye el caso de uso.
func NewCheckerUseCase(
	salesRepo repository.SalesOrderRepository,
	formulaRepo repository.FormulaRepository,
	movRepo repository.InventoryMovementRepository,
) *CheckerUseCase {
	return &CheckerUseCase{salesRepo: salesRepo, formulaRepo: formulaRepo, movRepo: movRepo}
}

// CheckStock explota las fórmulas del pedido, agrega el requerido por materia
// prima y lo compara contra el stock derivado del libro.
func (uc *CheckerUseCase) CheckStock(ctx context.Context, salesOrderID string) (*dto.StockCheckResponse, error) {
	order, err := uc.salesRepo.GetByID(salesOrderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}

	formulas, err := uc.LoadFormulas(order.Lines)
	if err != nil {
		return nil, err
	}
	required, err := domstock.RequiredMaterials(order.Lines, formulas)
	if err != nil {
		return nil, err
	}

	sufficient, shortages, err := uc.CompareAgainstLedger(required, uc.movRepo)
	if err != nil {
		return nil, err
	}
	return &dto.StockCheckResponse{
		SalesOrderID: salesOrderID,
		Sufficient:   sufficient,
		Shortages:    shortages,
	}, nil
}

// LoadFormulas fórmulas de los productos de las líneas, indexadas por ProductID.
func (uc *CheckerUseCase) LoadFormulas(lines []entity.SalesOrderLine) (map[string]*entity.Formula, error) {
	formulas := make(map[string]*entity.Formula, len(lines))
	for _, line := range lines {
		if _, ok := formulas[line.ProductID]; ok {
			continue
		}
		formula, err := uc.formulaRepo.GetByProductID(line.ProductID)
		if err != nil {
			return nil, err
		}
		if formula == nil {
			return nil, domain.ErrFormulaNotFound
		}
		formulas[line.ProductID] = formula
	}
	return formulas, nil
}

// CompareAgainstLedger compara el requerido contra las sumas del libro usando
// el repositorio dado. La orden de producción lo invoca con el repositorio
// atado a su transacción para revalidar el chequeo antes de crear.
func (uc *CheckerUseCase) CompareAgainstLedger(required map[string]decimal.Decimal, movRepo repository.InventoryMovementRepository) (bool, []domain.Shortage, error) {
	available := make(map[string]decimal.Decimal, len(required))
	for rawMaterialID := range required {
		current, err := movRepo.SumByItem(entity.ItemKindRawMaterial, rawMaterialID)
		if err != nil {
			return false, nil, err
		}
		available[rawMaterialID] = current
	}
	sufficient, shortages := domstock.Compare(required, available)
	return sufficient, shortages, nil
}
