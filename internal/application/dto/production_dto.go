package dto

import (
	"time"

	"github.com/cvallejo/planta-api/internal/domain"
)

// CreateProductionOrderRequest body para POST /api/production-orders.
type CreateProductionOrderRequest struct {
	SalesOrderID string    `json:"sales_order_id"`
	OperatorID   string    `json:"operator_id"`
	StartDate    time.Time `json:"start_date"`
}

// ProductionOrderResponse orden de producción en respuestas.
type ProductionOrderResponse struct {
	ID           string     `json:"id"`
	SalesOrderID string     `json:"sales_order_id"`
	OperatorID   string     `json:"operator_id"`
	StartDate    time.Time  `json:"start_date"`
	EndDate      *time.Time `json:"end_date,omitempty"`
	Status       string     `json:"status"`
}

// StockCheckResponse resultado del chequeo de suficiencia de stock.
type StockCheckResponse struct {
	SalesOrderID string            `json:"sales_order_id"`
	Sufficient   bool              `json:"sufficient"`
	Shortages    []domain.Shortage `json:"shortages"`
}
