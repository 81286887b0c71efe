package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/cvallejo/planta-api/internal/application/dto"
	"github.com/cvallejo/planta-api/internal/application/usecase"
	"github.com/cvallejo/planta-api/internal/domain/entity"
)

// FormulaHandler maneja fórmulas de producción (protegido).
type FormulaHandler struct {
	uc *usecase.FormulaUseCase
}

// NewFormulaHandler construye el handler.
func NewFormulaHandler(uc *usecase.FormulaUseCase) *FormulaHandler {
	return &FormulaHandler{uc: uc}
}

// Create godoc
// @Summary      Crear fórmula
// @Description  Composición de materias primas por unidad de producto. Una por producto.
// @Tags         formulas
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.FormulaRequest  true  "product_id y components"
// @Success      201   {object}  dto.FormulaResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/formulas [post]
func (h *FormulaHandler) Create(c *fiber.Ctx) error {
	var in dto.FormulaRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	f, err := h.uc.Create(in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toFormulaResponse(f))
}

// GetByProductID godoc
// @Summary      Fórmula de un producto
// @Tags         formulas
// @Security     Bearer
// @Produce      json
// @Param        product_id  path  string  true  "ID del producto"
// @Success      200  {object}  dto.FormulaResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/formulas/product/{product_id} [get]
func (h *FormulaHandler) GetByProductID(c *fiber.Ctx) error {
	f, err := h.uc.GetByProductID(c.Params("product_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toFormulaResponse(f))
}

// Update godoc
// @Summary      Editar fórmula
// @Description  Reemplaza los componentes.
// @Tags         formulas
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string              true  "ID de la fórmula"
// @Param        body  body  dto.FormulaRequest  true  "components"
// @Success      200   {object}  dto.FormulaResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/formulas/{id} [put]
func (h *FormulaHandler) Update(c *fiber.Ctx) error {
	var in dto.FormulaRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	f, err := h.uc.Update(c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toFormulaResponse(f))
}

// Delete godoc
// @Summary      Eliminar fórmula
// @Tags         formulas
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la fórmula"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/formulas/{id} [delete]
func (h *FormulaHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "fórmula eliminada"})
}

// List godoc
// @Summary      Listar fórmulas
// @Tags         formulas
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "default 20"
// @Param        offset  query  int  false  "default 0"
// @Success      200  {array}  dto.FormulaResponse
// @Router       /api/formulas [get]
func (h *FormulaHandler) List(c *fiber.Ctx) error {
	limit, offset := pageParams(c)
	list, err := h.uc.List(limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.FormulaResponse, 0, len(list))
	for _, f := range list {
		out = append(out, toFormulaResponse(f))
	}
	return c.JSON(out)
}

func toFormulaResponse(f *entity.Formula) dto.FormulaResponse {
	resp := dto.FormulaResponse{
		ID:        f.ID,
		ProductID: f.ProductID,
	}
	for _, comp := range f.Components {
		resp.Components = append(resp.Components, dto.FormulaComponentRequest{
			RawMaterialID:   comp.RawMaterialID,
			QuantityPerUnit: comp.QuantityPerUnit,
		})
	}
	return resp
}
