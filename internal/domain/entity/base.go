package entity

import "time"

// Base carries the fields every stored document has.
type Base struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenant_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Meta exposes the shared fields to generic persistence code.
func (b *Base) Meta() *Base {
	return b
}
