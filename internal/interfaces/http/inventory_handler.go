package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/cvallejo/planta-api/internal/application/dto"
	"github.com/cvallejo/planta-api/internal/application/inventory"
	"github.com/cvallejo/planta-api/internal/domain"
	"github.com/cvallejo/planta-api/internal/domain/entity"
)

// InventoryHandler maneja el libro de inventario (protegido).
type InventoryHandler struct {
	ledger *inventory.LedgerUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(ledger *inventory.LedgerUseCase) *InventoryHandler {
	return &InventoryHandler{ledger: ledger}
}

// RegisterMovement godoc
// @Summary      Registrar asiento de inventario
// @Description  ENTRADA o SALIDA manual. La cantidad es una magnitud positiva; el signo lo deriva el servidor.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovementRequest  true  "item_kind, item_id, quantity, unit_of_measure, type, reason"
// @Success      201   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *InventoryHandler) RegisterMovement(c *fiber.Ctx) error {
	var in dto.RegisterMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	id, err := h.ledger.RecordMovement(c.Context(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id})
}

// GetStock godoc
// @Summary      Stock actual de un ítem
// @Description  Derivado del libro: suma de cantidades firmadas de todos sus asientos.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        kind  path  string  true  "raw_material | product"
// @Param        id    path  string  true  "ID del ítem"
// @Success      200   {object}  dto.StockResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/inventory/stock/{kind}/{id} [get]
func (h *InventoryHandler) GetStock(c *fiber.Ctx) error {
	kind := entity.ItemKind(c.Params("kind"))
	itemID := c.Params("id")
	if !kind.IsValid() || itemID == "" {
		return respondError(c, domain.ErrInvalidInput)
	}
	stock, err := h.ledger.CurrentStock(c.Context(), kind, itemID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.StockResponse{
		ItemKind:     string(kind),
		ItemID:       itemID,
		CurrentStock: stock,
	})
}

// ListMovements godoc
// @Summary      Kardex de un ítem
// @Description  Asientos del ítem en un rango de fechas, orden cronológico.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        kind  path   string  true   "raw_material | product"
// @Param        id    path   string  true   "ID del ítem"
// @Param        from  query  string  false  "RFC3339"
// @Param        to    query  string  false  "RFC3339"
// @Param        type  query  string  false  "ENTRADA | SALIDA"
// @Success      200   {array}   dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements/{kind}/{id} [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	kind := entity.ItemKind(c.Params("kind"))
	itemID := c.Params("id")
	if !kind.IsValid() || itemID == "" {
		return respondError(c, domain.ErrInvalidInput)
	}
	var from, to *time.Time
	if s := c.Query("from"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return respondError(c, domain.ErrInvalidInput)
		}
		from = &t
	}
	if s := c.Query("to"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return respondError(c, domain.ErrInvalidInput)
		}
		to = &t
	}
	movType := entity.MovementType(c.Query("type"))
	if movType != "" && !movType.IsValid() {
		return respondError(c, domain.ErrInvalidInput)
	}
	limit, offset := pageParams(c)

	movements, err := h.ledger.MovementsInRange(c.Context(), kind, itemID, from, to, movType, limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.MovementResponse, 0, len(movements))
	for _, m := range movements {
		out = append(out, dto.MovementResponse{
			ID:            m.ID,
			ItemKind:      string(m.ItemKind),
			ItemID:        m.ItemID,
			Quantity:      m.Quantity,
			UnitOfMeasure: m.UnitOfMeasure,
			Type:          string(m.Type),
			Reason:        m.Reason,
			Reference:     m.Reference,
			Timestamp:     m.Timestamp,
			RecordedBy:    m.RecordedBy,
		})
	}
	return c.JSON(out)
}
