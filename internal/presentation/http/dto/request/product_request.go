package request

import (
	"github.com/shopspring/decimal"

	"github.com/sangkips/salon-api/internal/domain/enum"
)

// ProductRequest represents a product create or update request
type ProductRequest struct {
	CategoryID        string            `json:"category_id"`
	Name              string            `json:"name" binding:"required,min=2,max=255"`
	SKU               string            `json:"sku" binding:"omitempty,max=100"`
	Description       string            `json:"description"`
	Price             decimal.Decimal   `json:"price"`
	Cost              decimal.Decimal   `json:"cost"`
	Stock             int               `json:"stock" binding:"min=0"`
	LowStockThreshold int               `json:"low_stock_threshold" binding:"min=0"`
	UnitsSold         int               `json:"units_sold" binding:"min=0"`
	Status            enum.RecordStatus `json:"status"`
}

type StockAdjustmentRequest struct {
	Delta int `json:"delta" binding:"required"`
}

// ProductFilterRequest represents product filter parameters
type ProductFilterRequest struct {
	Search     string `form:"search"`
	CategoryID string `form:"category_id"`
	Status     string `form:"status"`
	LowStock   bool   `form:"low_stock"`
	Page       int    `form:"page"`
	PerPage    int    `form:"per_page"`
}

type CategoryRequest struct {
	Name        string            `json:"name" binding:"required,max=100"`
	Type        enum.CategoryType `json:"type" binding:"required"`
	Description string            `json:"description"`
}

// ServiceRequest represents a menu service create or update request
type ServiceRequest struct {
	CategoryID  string            `json:"category_id"`
	Name        string            `json:"name" binding:"required,max=255"`
	Description string            `json:"description"`
	Price       decimal.Decimal   `json:"price"`
	Duration    int               `json:"duration" binding:"min=0"`
	Status      enum.RecordStatus `json:"status"`
}

// CatalogFilterRequest filters categories and menu services
type CatalogFilterRequest struct {
	Search     string `form:"search"`
	Type       string `form:"type"`
	CategoryID string `form:"category_id"`
	Status     string `form:"status"`
	Page       int    `form:"page"`
	PerPage    int    `form:"per_page"`
}
