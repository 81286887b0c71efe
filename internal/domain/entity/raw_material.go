package entity

import "time"

// RawMaterial materia prima del catálogo. El stock no vive aquí:
// se deriva del libro de movimientos de inventario.
type RawMaterial struct {
	ID            string
	Code          string // código único
	Name          string
	Description   string
	UnitOfMeasure string // kg, l, un, m, etc.
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
