package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/cvallejo/planta-api/internal/application/dto"
	"github.com/cvallejo/planta-api/internal/domain"
)

// respondError traduce errores de dominio a respuestas HTTP.
// Los errores estructurados (transición ilegal, stock insuficiente,
// sobre-recepción) devuelven su detalle en el cuerpo.
func respondError(c *fiber.Ctx, err error) error {
	var transitionErr *domain.StateTransitionError
	if errors.As(err, &transitionErr) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"code":    "INVALID_TRANSITION",
			"message": transitionErr.Error(),
			"entity":  transitionErr.Entity,
			"from":    transitionErr.From,
			"to":      transitionErr.To,
		})
	}
	var stockErr *domain.InsufficientStockError
	if errors.As(err, &stockErr) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"code":           "INSUFFICIENT_STOCK",
			"message":        stockErr.Error(),
			"sales_order_id": stockErr.SalesOrderID,
			"shortages":      stockErr.Shortages,
		})
	}
	var overErr *domain.OverReceiptError
	if errors.As(err, &overErr) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"code":              "OVER_RECEIPT",
			"message":           overErr.Error(),
			"purchase_order_id": overErr.PurchaseOrderID,
			"raw_material_id":   overErr.RawMaterialID,
			"ordered":           overErr.Ordered,
			"cumulative":        overErr.Cumulative,
			"attempted":         overErr.Attempted,
		})
	}

	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound), errors.Is(err, domain.ErrFormulaNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "credenciales inválidas"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado"})
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "EMAIL_EXISTS", Message: "el email ya está registrado"})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: err.Error()})
	case errors.Is(err, domain.ErrDuplicatePurchaseOrder):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE_PURCHASE_ORDER", Message: "la cotización ya tiene una orden de compra"})
	case errors.Is(err, domain.ErrDuplicateProductionOrder):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE_PRODUCTION_ORDER", Message: "el pedido ya tiene una orden de producción activa"})
	case errors.Is(err, domain.ErrQuotationNotApproved):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "QUOTATION_NOT_APPROVED", Message: "la cotización no está aprobada"})
	case errors.Is(err, domain.ErrImmutableState):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "IMMUTABLE_STATE", Message: "el registro ya no admite cambios"})
	case errors.Is(err, domain.ErrInvalidTransition):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INVALID_TRANSITION", Message: err.Error()})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}

// pageParams lee limit/offset con los defaults de PageRequest.
func pageParams(c *fiber.Ctx) (int, int) {
	var p dto.PageRequest
	_ = c.QueryParser(&p)
	p.DefaultPage()
	return p.Limit, p.Offset
}
