package entity

import (
	"github.com/sangkips/salon-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// Product represents a retail product sold at the salon
type Product struct {
	Base
	CategoryID        string            `json:"category_id,omitempty"`
	Name              string            `json:"name"`
	SKU               string            `json:"sku"`
	Description       string            `json:"description,omitempty"`
	Price             decimal.Decimal   `json:"price"`
	Cost              decimal.Decimal   `json:"cost"`
	Stock             int               `json:"stock"`
	LowStockThreshold int               `json:"low_stock_threshold"`
	UnitsSold         int               `json:"units_sold"`
	Status            enum.RecordStatus `json:"status"`
}

// IsLowStock checks if the product is at or below its alert threshold
func (p *Product) IsLowStock() bool {
	return p.Stock <= p.LowStockThreshold
}

// InventoryValue is stock on hand valued at cost.
func (p *Product) InventoryValue() decimal.Decimal {
	return p.Cost.Mul(decimal.NewFromInt(int64(p.Stock)))
}

// Service is a bookable treatment on the menu
type Service struct {
	Base
	CategoryID  string            `json:"category_id,omitempty"`
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	Price       decimal.Decimal   `json:"price"`
	Duration    int               `json:"duration"` // minutes
	Status      enum.RecordStatus `json:"status"`
}
