package request

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/sangkips/salon-api/internal/domain/enum"
)

// BookingRequest represents a booking create or update request
type BookingRequest struct {
	BranchID     string           `json:"branch_id"`
	ClientID     string           `json:"client_id"`
	CustomerName string           `json:"customer_name" binding:"required,max=255"`
	Phone        string           `json:"phone"`
	Email        string           `json:"email" binding:"omitempty,email"`
	ServiceID    string           `json:"service_id"`
	ServiceName  string           `json:"service_name"`
	StaffName    string           `json:"staff_name"`
	Price        *decimal.Decimal `json:"price"`
	Duration     int              `json:"duration" binding:"min=0"`
	StartsAt     time.Time        `json:"starts_at" binding:"required"`
	Notes        string           `json:"notes"`
}

type BookingStatusRequest struct {
	Status enum.BookingStatus `json:"status" binding:"required"`
}

// BookingFilterRequest represents booking filter parameters
type BookingFilterRequest struct {
	Search   string    `form:"search"`
	Status   string    `form:"status"`
	BranchID string    `form:"branch_id"`
	ClientID string    `form:"client_id"`
	From     time.Time `form:"from" time_format:"2006-01-02"`
	To       time.Time `form:"to" time_format:"2006-01-02"`
	Page     int       `form:"page"`
	PerPage  int       `form:"per_page"`
}
