package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/cvallejo/planta-api/internal/application/audit"
)

// AuditHandler expone la consulta del rastro de auditoría (protegido).
type AuditHandler struct {
	uc *audit.ListUseCase
}

// NewAuditHandler construye el handler.
func NewAuditHandler(uc *audit.ListUseCase) *AuditHandler {
	return &AuditHandler{uc: uc}
}

type auditEventResponse struct {
	ID            string    `json:"id"`
	Entity        string    `json:"entity"`
	EntityID      string    `json:"entity_id"`
	Action        string    `json:"action"`
	PreviousValue string    `json:"previous_value,omitempty"`
	NewValue      string    `json:"new_value,omitempty"`
	Actor         string    `json:"actor"`
	Timestamp     time.Time `json:"timestamp"`
}

// List godoc
// @Summary      Consultar rastro de auditoría
// @Description  Una fila por transición de estado, del más reciente al más antiguo.
// @Tags         audit
// @Security     Bearer
// @Produce      json
// @Param        entity     query  string  false  "sales_order | purchase_order | supplier_quotation | production_order | inventory_movement"
// @Param        entity_id  query  string  false  "Filtrar por registro"
// @Param        limit      query  int     false  "default 20"
// @Param        offset     query  int     false  "default 0"
// @Success      200  {array}  auditEventResponse
// @Router       /api/audit-events [get]
func (h *AuditHandler) List(c *fiber.Ctx) error {
	limit, offset := pageParams(c)
	events, err := h.uc.List(c.Query("entity"), c.Query("entity_id"), limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]auditEventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, auditEventResponse{
			ID:            e.ID,
			Entity:        e.Entity,
			EntityID:      e.EntityID,
			Action:        e.Action,
			PreviousValue: e.PreviousValue,
			NewValue:      e.NewValue,
			Actor:         e.Actor,
			Timestamp:     e.Timestamp,
		})
	}
	return c.JSON(out)
}
