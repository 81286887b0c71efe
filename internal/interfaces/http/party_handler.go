package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/cvallejo/planta-api/internal/application/dto"
	"github.com/cvallejo/planta-api/internal/application/usecase"
)

// SupplierHandler maneja el catálogo de proveedores (protegido).
type SupplierHandler struct {
	uc *usecase.SupplierUseCase
}

// NewSupplierHandler construye el handler.
func NewSupplierHandler(uc *usecase.SupplierUseCase) *SupplierHandler {
	return &SupplierHandler{uc: uc}
}

// Create godoc
// @Summary      Crear proveedor
// @Tags         suppliers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PartyRequest  true  "nit, name, contacto"
// @Success      201   {object}  dto.PartyResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/suppliers [post]
func (h *SupplierHandler) Create(c *fiber.Ctx) error {
	var in dto.PartyRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	s, err := h.uc.Create(in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.PartyResponse{
		ID: s.ID, NIT: s.NIT, Name: s.Name, Email: s.Email, Phone: s.Phone, Address: s.Address,
	})
}

// GetByID godoc
// @Summary      Proveedor por ID
// @Tags         suppliers
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID"
// @Success      200  {object}  dto.PartyResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/suppliers/{id} [get]
func (h *SupplierHandler) GetByID(c *fiber.Ctx) error {
	s, err := h.uc.GetByID(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.PartyResponse{
		ID: s.ID, NIT: s.NIT, Name: s.Name, Email: s.Email, Phone: s.Phone, Address: s.Address,
	})
}

// Update godoc
// @Summary      Editar proveedor
// @Tags         suppliers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string            true  "ID"
// @Param        body  body  dto.PartyRequest  true  "campos a editar"
// @Success      200   {object}  dto.PartyResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/suppliers/{id} [put]
func (h *SupplierHandler) Update(c *fiber.Ctx) error {
	var in dto.PartyRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	s, err := h.uc.Update(c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.PartyResponse{
		ID: s.ID, NIT: s.NIT, Name: s.Name, Email: s.Email, Phone: s.Phone, Address: s.Address,
	})
}

// Delete godoc
// @Summary      Eliminar proveedor
// @Tags         suppliers
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/suppliers/{id} [delete]
func (h *SupplierHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "proveedor eliminado"})
}

// List godoc
// @Summary      Listar proveedores
// @Tags         suppliers
// @Security     Bearer
// @Produce      json
// @Param        search  query  string  false  "término de búsqueda"
// @Param        limit   query  int     false  "default 20"
// @Param        offset  query  int     false  "default 0"
// @Success      200  {array}  dto.PartyResponse
// @Router       /api/suppliers [get]
func (h *SupplierHandler) List(c *fiber.Ctx) error {
	limit, offset := pageParams(c)
	list, err := h.uc.List(c.Query("search"), limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.PartyResponse, 0, len(list))
	for _, s := range list {
		out = append(out, dto.PartyResponse{
			ID: s.ID, NIT: s.NIT, Name: s.Name, Email: s.Email, Phone: s.Phone, Address: s.Address,
		})
	}
	return c.JSON(out)
}

// ClientHandler maneja el catálogo de clientes (protegido).
type ClientHandler struct {
	uc *usecase.ClientUseCase
}

// NewClientHandler construye el handler.
func NewClientHandler(uc *usecase.ClientUseCase) *ClientHandler {
	return &ClientHandler{uc: uc}
}

// Create godoc
// @Summary      Crear cliente
// @Tags         clients
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PartyRequest  true  "nit, name, contacto"
// @Success      201   {object}  dto.PartyResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/clients [post]
func (h *ClientHandler) Create(c *fiber.Ctx) error {
	var in dto.PartyRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	cl, err := h.uc.Create(in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.PartyResponse{
		ID: cl.ID, NIT: cl.NIT, Name: cl.Name, Email: cl.Email, Phone: cl.Phone, Address: cl.Address,
	})
}

// GetByID godoc
// @Summary      Cliente por ID
// @Tags         clients
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID"
// @Success      200  {object}  dto.PartyResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/clients/{id} [get]
func (h *ClientHandler) GetByID(c *fiber.Ctx) error {
	cl, err := h.uc.GetByID(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.PartyResponse{
		ID: cl.ID, NIT: cl.NIT, Name: cl.Name, Email: cl.Email, Phone: cl.Phone, Address: cl.Address,
	})
}

// Update godoc
// @Summary      Editar cliente
// @Tags         clients
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string            true  "ID"
// @Param        body  body  dto.PartyRequest  true  "campos a editar"
// @Success      200   {object}  dto.PartyResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/clients/{id} [put]
func (h *ClientHandler) Update(c *fiber.Ctx) error {
	var in dto.PartyRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	cl, err := h.uc.Update(c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.PartyResponse{
		ID: cl.ID, NIT: cl.NIT, Name: cl.Name, Email: cl.Email, Phone: cl.Phone, Address: cl.Address,
	})
}

// Delete godoc
// @Summary      Eliminar cliente
// @Tags         clients
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/clients/{id} [delete]
func (h *ClientHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "cliente eliminado"})
}

// List godoc
// @Summary      Listar clientes
// @Tags         clients
// @Security     Bearer
// @Produce      json
// @Param        search  query  string  false  "término de búsqueda"
// @Param        limit   query  int     false  "default 20"
// @Param        offset  query  int     false  "default 0"
// @Success      200  {array}  dto.PartyResponse
// @Router       /api/clients [get]
func (h *ClientHandler) List(c *fiber.Ctx) error {
	limit, offset := pageParams(c)
	list, err := h.uc.List(c.Query("search"), limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.PartyResponse, 0, len(list))
	for _, cl := range list {
		out = append(out, dto.PartyResponse{
			ID: cl.ID, NIT: cl.NIT, Name: cl.Name, Email: cl.Email, Phone: cl.Phone, Address: cl.Address,
		})
	}
	return c.JSON(out)
}
