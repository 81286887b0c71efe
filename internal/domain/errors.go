package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound                 = errors.New("recurso no encontrado")
	ErrUserNotFound             = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists       = errors.New("el email ya está registrado")
	ErrInvalidInput             = errors.New("entrada inválida")
	ErrDuplicate                = errors.New("recurso duplicado")
	ErrUnauthorized             = errors.New("no autorizado")
	ErrForbidden                = errors.New("acceso denegado")
	ErrInvalidTransition        = errors.New("transición de estado no permitida")
	ErrInsufficientStock        = errors.New("stock insuficiente de materia prima")
	ErrOverReceipt              = errors.New("la recepción excede la cantidad ordenada")
	ErrQuotationNotApproved     = errors.New("la cotización no está aprobada")
	ErrDuplicatePurchaseOrder   = errors.New("la cotización ya tiene una orden de compra")
	ErrDuplicateProductionOrder = errors.New("el pedido ya tiene una orden de producción activa")
	ErrImmutableState           = errors.New("el registro está en un estado terminal y no admite cambios")
	ErrFormulaNotFound          = errors.New("el producto no tiene fórmula registrada")
)

// StateTransitionError detalla una transición rechazada: entidad, estado actual
// y estado destino, para que el caller pueda armar un mensaje accionable.
type StateTransitionError struct {
	Entity string
	From   string
	To     string
}

func (e *StateTransitionError) Error() string {
	return fmt.Sprintf("%s: transición %s -> %s no permitida", e.Entity, e.From, e.To)
}

// Is permite errors.Is(err, ErrInvalidTransition).
func (e *StateTransitionError) Is(target error) bool { return target == ErrInvalidTransition }

// NewStateTransitionError construye el error de transición.
func NewStateTransitionError(entity, from, to string) error {
	return &StateTransitionError{Entity: entity, From: from, To: to}
}

// Shortage faltante de una materia prima para cubrir producción.
type Shortage struct {
	RawMaterialID string          `json:"raw_material_id"`
	CurrentStock  decimal.Decimal `json:"current_stock"`
	Required      decimal.Decimal `json:"required"`
	Missing       decimal.Decimal `json:"missing"`
}

// InsufficientStockError acompaña los faltantes para que el caller pueda
// iniciar el ciclo de compras sin re-ejecutar el chequeo.
type InsufficientStockError struct {
	SalesOrderID string
	Shortages    []Shortage
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("pedido %s: stock insuficiente en %d materias primas", e.SalesOrderID, len(e.Shortages))
}

// Is permite errors.Is(err, ErrInsufficientStock).
func (e *InsufficientStockError) Is(target error) bool { return target == ErrInsufficientStock }

// OverReceiptError detalla una recepción que excede lo ordenado en una línea.
type OverReceiptError struct {
	PurchaseOrderID string
	RawMaterialID   string
	Ordered         decimal.Decimal
	Cumulative      decimal.Decimal
	Attempted       decimal.Decimal
}

func (e *OverReceiptError) Error() string {
	return fmt.Sprintf("orden de compra %s: recibir %s de la materia prima %s excede lo ordenado (%s, acumulado %s)",
		e.PurchaseOrderID, e.Attempted, e.RawMaterialID, e.Ordered, e.Cumulative)
}

// Is permite errors.Is(err, ErrOverReceipt).
func (e *OverReceiptError) Is(target error) bool { return target == ErrOverReceipt }
