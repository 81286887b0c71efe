package stock

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/cvallejo/planta-api/internal/domain"
	"github.com/cvallejo/planta-api/internal/domain/entity"
)

// RequiredMaterials explota las fórmulas de un pedido (servicio de dominio puro).
// Por cada línea multiplica QuantityPerUnit * cantidad pedida y agrega el
// requerido por materia prima a través de TODAS las líneas (agregación, no por línea).
// formulas va indexado por ProductID; si falta la fórmula de algún producto
// retorna ErrFormulaNotFound.
func RequiredMaterials(lines []entity.SalesOrderLine, formulas map[string]*entity.Formula) (map[string]decimal.Decimal, error) {
	required := make(map[string]decimal.Decimal)
	for _, line := range lines {
		formula, ok := formulas[line.ProductID]
		if !ok || formula == nil {
			return nil, domain.ErrFormulaNotFound
		}
		for _, comp := range formula.Components {
			required[comp.RawMaterialID] = required[comp.RawMaterialID].Add(comp.QuantityPerUnit.Mul(line.Quantity))
		}
	}
	return required, nil
}

// Compare cruza el requerido contra el stock disponible y arma el reporte de
// faltantes: missing = max(0, required - currentStock). Suficiente sii no hay
// missing > 0.
func Compare(required map[string]decimal.Decimal, available map[string]decimal.Decimal) (bool, []domain.Shortage) {
	ids := make([]string, 0, len(required))
	for id := range required {
		ids = append(ids, id)
	}
	sort.Strings(ids) // reporte determinista

	var shortages []domain.Shortage
	for _, rawMaterialID := range ids {
		req := required[rawMaterialID]
		current := available[rawMaterialID]
		missing := req.Sub(current)
		if missing.LessThanOrEqual(decimal.Zero) {
			missing = decimal.Zero
		}
		shortages = append(shortages, domain.Shortage{
			RawMaterialID: rawMaterialID,
			CurrentStock:  current,
			Required:      req,
			Missing:       missing,
		})
	}
	sufficient := true
	for _, s := range shortages {
		if s.Missing.GreaterThan(decimal.Zero) {
			sufficient = false
			break
		}
	}
	return sufficient, shortages
}
