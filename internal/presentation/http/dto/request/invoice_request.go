package request

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/sangkips/salon-api/internal/domain/entity"
	"github.com/sangkips/salon-api/internal/domain/enum"
)

type CustomerRequest struct {
	ClientID string `json:"client_id"`
	Name     string `json:"name" binding:"required,max=255"`
	Email    string `json:"email" binding:"omitempty,email"`
	Phone    string `json:"phone" binding:"omitempty,max=50"`
}

type LineItemRequest struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name" binding:"max=255"`
	Price     decimal.Decimal `json:"price"`
	Quantity  *int            `json:"quantity" binding:"omitempty,min=1"`
}

type StaffTipRequest struct {
	Name string          `json:"name" binding:"required"`
	Tip  decimal.Decimal `json:"tip"`
}

// InvoiceRequest represents an invoice create or replace request
type InvoiceRequest struct {
	BranchID       string                `json:"branch_id"`
	Customer       CustomerRequest       `json:"customer" binding:"required"`
	Service        string                `json:"service" binding:"required,max=255"`
	Price          decimal.Decimal       `json:"price"`
	Products       []LineItemRequest     `json:"products" binding:"dive"`
	ServiceCharges decimal.Decimal       `json:"service_charges"`
	Discount       decimal.Decimal       `json:"discount"`
	DiscountType   enum.DiscountType     `json:"discount_type"`
	Tax            *decimal.Decimal      `json:"tax"`
	ServiceTip     decimal.Decimal       `json:"service_tip"`
	TeamMembers    []StaffTipRequest     `json:"team_members" binding:"dive"`
	PaymentMethods []enum.PaymentMethod  `json:"payment_methods"`
	PaymentAmounts entity.PaymentAmounts `json:"payment_amounts"`
	Status         enum.InvoiceStatus    `json:"status"`
	IssueDate      *time.Time            `json:"issue_date"`
	DueDate        *time.Time            `json:"due_date"`
	Notes          string                `json:"notes"`
}

// InvoiceFilterRequest represents invoice filter parameters
type InvoiceFilterRequest struct {
	Search   string    `form:"search"`
	Status   string    `form:"status"`
	BranchID string    `form:"branch_id"`
	ClientID string    `form:"client_id"`
	From     time.Time `form:"from" time_format:"2006-01-02"`
	To       time.Time `form:"to" time_format:"2006-01-02"`
	Page     int       `form:"page"`
	PerPage  int       `form:"per_page"`
}

type InvoiceStatusRequest struct {
	Status enum.InvoiceStatus `json:"status" binding:"required"`
}

type PaymentRequest struct {
	Method enum.PaymentMethod `json:"method" binding:"required"`
	Amount decimal.Decimal    `json:"amount"`
}

type PaymentMethodsRequest struct {
	Methods []enum.PaymentMethod `json:"methods"`
}
