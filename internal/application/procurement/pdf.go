package procurement

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/cvallejo/planta-api/internal/domain"
	"github.com/cvallejo/planta-api/internal/domain/entity"
)

// PurchaseOrderPDFLine línea enriquecida para la representación impresa:
// datos de la cotización más el acumulado recibido contra la orden.
type PurchaseOrderPDFLine struct {
	RawMaterialCode string
	RawMaterialName string
	UnitOfMeasure   string
	Quantity        decimal.Decimal
	UnitPrice       decimal.Decimal
	Subtotal        decimal.Decimal
	Received        decimal.Decimal
}

// PurchaseOrderPDFGenerator genera la representación PDF de una orden de compra.
type PurchaseOrderPDFGenerator interface {
	GeneratePurchaseOrderPDF(
		ctx context.Context,
		po *entity.PurchaseOrder,
		quotation *entity.SupplierQuotation,
		supplier *entity.Supplier,
		lines []PurchaseOrderPDFLine,
	) ([]byte, error)
}

// GeneratePDF arma los datos de la orden (cotización, proveedor, materiales)
// y delega la generación al adaptador PDF.
func (uc *PurchaseOrderUseCase) GeneratePDF(ctx context.Context, poID string) ([]byte, error) {
	if uc.pdfGen == nil {
		return nil, domain.ErrInvalidInput
	}
	po, err := uc.poRepo.GetByID(poID)
	if err != nil {
		return nil, err
	}
	if po == nil {
		return nil, domain.ErrNotFound
	}
	quotation, err := uc.quoteRepo.GetByID(po.QuotationID)
	if err != nil {
		return nil, err
	}
	if quotation == nil {
		return nil, domain.ErrNotFound
	}
	supplier, err := uc.supplierRepo.GetByID(quotation.SupplierID)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, domain.ErrNotFound
	}

	lines := make([]PurchaseOrderPDFLine, 0, len(quotation.Lines))
	for _, l := range quotation.Lines {
		rm, err := uc.rawMaterialRepo.GetByID(l.RawMaterialID)
		if err != nil {
			return nil, err
		}
		line := PurchaseOrderPDFLine{
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Subtotal:  l.Subtotal,
			Received:  po.CumulativeReceived(l.RawMaterialID),
		}
		if rm != nil {
			line.RawMaterialCode = rm.Code
			line.RawMaterialName = rm.Name
			line.UnitOfMeasure = rm.UnitOfMeasure
		}
		lines = append(lines, line)
	}
	return uc.pdfGen.GeneratePurchaseOrderPDF(ctx, po, quotation, supplier, lines)
}
