package repository

import (
	"github.com/sangkips/salon-api/internal/domain/enum"
	"github.com/sangkips/salon-api/pkg/pagination"
)

// InvoiceFilterParams contains filtering parameters for invoice queries
type InvoiceFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	Status     enum.InvoiceStatus
	BranchID   string
	ClientID   string
	IssuedIn   DateRange
}

// FeedbackFilterParams contains filtering parameters for feedback queries
type FeedbackFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	Status     enum.FeedbackStatus
	BranchID   string
	Rating     int
}

// BookingFilterParams contains filtering parameters for booking queries
type BookingFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	Status     enum.BookingStatus
	BranchID   string
	ClientID   string
	StartsIn   DateRange
}

// ProductFilterParams contains filtering parameters for product queries
type ProductFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	CategoryID string
	Status     enum.RecordStatus
	LowStock   bool
}

// ServiceFilterParams contains filtering parameters for service queries
type ServiceFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	CategoryID string
	Status     enum.RecordStatus
}

// CategoryFilterParams contains filtering parameters for category queries
type CategoryFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	Type       enum.CategoryType
}

// ClientFilterParams contains filtering parameters for client queries
type ClientFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	Status     enum.ClientStatus
	BranchID   string
}

// BranchFilterParams contains filtering parameters for branch queries
type BranchFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	Status     enum.RecordStatus
}
