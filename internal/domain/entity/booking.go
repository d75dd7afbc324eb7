package entity

import (
	"time"

	"github.com/sangkips/salon-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// Booking is an appointment for a service at a branch
type Booking struct {
	Base
	Reference    string             `json:"reference"`
	BranchID     string             `json:"branch_id"`
	ClientID     string             `json:"client_id,omitempty"`
	CustomerName string             `json:"customer_name"`
	Phone        string             `json:"phone,omitempty"`
	Email        string             `json:"email,omitempty"`
	ServiceID    string             `json:"service_id,omitempty"`
	ServiceName  string             `json:"service_name"`
	StaffName    string             `json:"staff_name,omitempty"`
	Price        decimal.Decimal    `json:"price"`
	Duration     int                `json:"duration"` // minutes
	StartsAt     time.Time          `json:"starts_at"`
	Status       enum.BookingStatus `json:"status"`
	Notes        string             `json:"notes,omitempty"`
}

// EndsAt is the start plus the booked duration.
func (b *Booking) EndsAt() time.Time {
	return b.StartsAt.Add(time.Duration(b.Duration) * time.Minute)
}
