package entity

import "time"

// Supplier proveedor de materias primas.
type Supplier struct {
	ID        string
	NIT       string // identificación tributaria, única
	Name      string
	Email     string
	Phone     string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
