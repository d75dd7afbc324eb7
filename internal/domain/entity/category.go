package entity

import "github.com/sangkips/salon-api/internal/domain/enum"

// Category groups products or services
type Category struct {
	Base
	Name        string            `json:"name"`
	Slug        string            `json:"slug"`
	Type        enum.CategoryType `json:"type"`
	Description string            `json:"description,omitempty"`
}

// Branch is a physical salon location
type Branch struct {
	Base
	Name    string            `json:"name"`
	Address string            `json:"address,omitempty"`
	Phone   string            `json:"phone,omitempty"`
	Email   string            `json:"email,omitempty"`
	Manager string            `json:"manager,omitempty"`
	Status  enum.RecordStatus `json:"status"`
}
