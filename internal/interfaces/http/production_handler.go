package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/cvallejo/planta-api/internal/application/dto"
	"github.com/cvallejo/planta-api/internal/application/production"
	"github.com/cvallejo/planta-api/internal/application/stock"
)

// ProductionHandler maneja órdenes de producción y chequeo de stock (protegido).
type ProductionHandler struct {
	uc      *production.ProductionOrderUseCase
	checker *stock.CheckerUseCase
}

// NewProductionHandler construye el handler.
func NewProductionHandler(uc *production.ProductionOrderUseCase, checker *stock.CheckerUseCase) *ProductionHandler {
	return &ProductionHandler{uc: uc, checker: checker}
}

// CheckStock godoc
// @Summary      Chequeo de suficiencia de stock para un pedido
// @Description  Explota las fórmulas de los productos del pedido y compara el requerido
//
//	total contra el stock derivado del libro. Solo lectura: no reserva nada.
//
// @Tags         production
// @Security     Bearer
// @Produce      json
// @Param        sales_order_id  path  string  true  "ID del pedido"
// @Success      200  {object}  dto.StockCheckResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/production-orders/stock-check/{sales_order_id} [get]
func (h *ProductionHandler) CheckStock(c *fiber.Ctx) error {
	resp, err := h.checker.CheckStock(c.Context(), c.Params("sales_order_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// Create godoc
// @Summary      Crear orden de producción
// @Description  Exige pedido PENDING sin orden activa y stock suficiente (revalidado
//
//	dentro de la transacción). Voltea el pedido a IN_PRODUCTION.
//
// @Tags         production
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductionOrderRequest  true  "sales_order_id, operator_id, start_date"
// @Success      201   {object}  dto.ProductionOrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/production-orders [post]
func (h *ProductionHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductionOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	resp, err := h.uc.Create(c.Context(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// Finish godoc
// @Summary      Terminar orden de producción
// @Description  SALIDA de materias primas consumidas y ENTRADA del producto terminado
//
//	en el libro, cierre de la orden y pedido a READY_FOR_DELIVERY, todo atómico.
//
// @Tags         production
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la orden de producción"
// @Success      200  {object}  dto.ProductionOrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/production-orders/{id}/finish [post]
func (h *ProductionHandler) Finish(c *fiber.Ctx) error {
	resp, err := h.uc.Finish(c.Context(), GetUserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// GetByID godoc
// @Summary      Orden de producción por ID
// @Tags         production
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la orden"
// @Success      200  {object}  dto.ProductionOrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/production-orders/{id} [get]
func (h *ProductionHandler) GetByID(c *fiber.Ctx) error {
	resp, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}

// List godoc
// @Summary      Listar órdenes de producción
// @Tags         production
// @Security     Bearer
// @Produce      json
// @Param        sales_order_id  query  string  false  "Filtrar por pedido"
// @Param        limit           query  int     false  "default 20"
// @Param        offset          query  int     false  "default 0"
// @Success      200  {array}  dto.ProductionOrderResponse
// @Router       /api/production-orders [get]
func (h *ProductionHandler) List(c *fiber.Ctx) error {
	limit, offset := pageParams(c)
	resp, err := h.uc.List(c.Context(), c.Query("sales_order_id"), limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(resp)
}
