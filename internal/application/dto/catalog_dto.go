package dto

import "github.com/shopspring/decimal"

// RawMaterialRequest alta/edición de materia prima.
type RawMaterialRequest struct {
	Code          string `json:"code"`
	Name          string `json:"name"`
	Description   string `json:"description,omitempty"`
	UnitOfMeasure string `json:"unit_of_measure"`
}

// ProductRequest alta/edición de producto terminado.
type ProductRequest struct {
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	Price         decimal.Decimal `json:"price"`
	UnitOfMeasure string          `json:"unit_of_measure"`
}

// FormulaComponentRequest componente de una fórmula.
type FormulaComponentRequest struct {
	RawMaterialID   string          `json:"raw_material_id"`
	QuantityPerUnit decimal.Decimal `json:"quantity_per_unit"`
}

// FormulaRequest alta/edición de fórmula (bill of materials).
type FormulaRequest struct {
	ProductID  string                    `json:"product_id"`
	Components []FormulaComponentRequest `json:"components"`
}

// PartyRequest alta/edición de proveedor o cliente.
type PartyRequest struct {
	NIT     string `json:"nit"`
	Name    string `json:"name"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

// RawMaterialResponse materia prima en respuestas.
type RawMaterialResponse struct {
	ID            string `json:"id"`
	Code          string `json:"code"`
	Name          string `json:"name"`
	Description   string `json:"description,omitempty"`
	UnitOfMeasure string `json:"unit_of_measure"`
}

// ProductResponse producto terminado en respuestas.
type ProductResponse struct {
	ID            string          `json:"id"`
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	Price         decimal.Decimal `json:"price"`
	UnitOfMeasure string          `json:"unit_of_measure"`
}

// FormulaResponse fórmula en respuestas.
type FormulaResponse struct {
	ID         string                    `json:"id"`
	ProductID  string                    `json:"product_id"`
	Components []FormulaComponentRequest `json:"components"`
}

// PartyResponse proveedor o cliente en respuestas.
type PartyResponse struct {
	ID      string `json:"id"`
	NIT     string `json:"nit"`
	Name    string `json:"name"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}
