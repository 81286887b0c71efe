package repository

import (
	"time"

	"github.com/cvallejo/planta-api/internal/domain/entity"
)

// SupplierQuotationRepository puerto de persistencia para cotizaciones de proveedor.
type SupplierQuotationRepository interface {
	Create(quotation *entity.SupplierQuotation) error
	GetByID(id string) (*entity.SupplierQuotation, error)
	UpdateStatus(id string, status entity.QuotationStatus) error
	Delete(id string) error
	List(limit, offset int) ([]*entity.SupplierQuotation, error)
	ListBySupplier(supplierID string, limit, offset int) ([]*entity.SupplierQuotation, error)
	// ListDuePending cotizaciones PENDING cuya validez ya venció a la fecha dada.
	ListDuePending(now time.Time) ([]*entity.SupplierQuotation, error)
}
