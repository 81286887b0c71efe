package entity

import "time"

// AuditEvent evento de auditoría: una fila por transición de estado.
// PreviousValue/NewValue son los estados (u otros valores) antes y después.
type AuditEvent struct {
	ID            string
	Entity        string // sales_order, purchase_order, supplier_quotation, production_order, inventory_movement
	EntityID      string
	Action        string // create, approve, reject, expire, receive, finish, cancel, advance, edit, delete, record
	PreviousValue string
	NewValue      string
	Actor         string
	Timestamp     time.Time
}
