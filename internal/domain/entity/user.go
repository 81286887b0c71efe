package entity

import "time"

// Roles de usuario de la aplicación.
const (
	RoleAdmin      = "admin"
	RoleVentas     = "ventas"
	RoleCompras    = "compras"
	RoleProduccion = "produccion"
)

// User usuario de la aplicación. Su ID es el actor que queda registrado
// en movimientos de inventario y eventos de auditoría.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	Role         string
	Status       string // active, disabled
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
