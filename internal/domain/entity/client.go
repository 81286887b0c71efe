package entity

import "time"

// Client cliente que hace pedidos de productos terminados.
type Client struct {
	ID        string
	NIT       string // identificación tributaria, única
	Name      string
	Email     string
	Phone     string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
