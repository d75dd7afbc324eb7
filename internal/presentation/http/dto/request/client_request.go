package request

import "github.com/sangkips/salon-api/internal/domain/enum"

// ClientRequest represents a client create or update request
type ClientRequest struct {
	Name              string            `json:"name" binding:"required,max=255"`
	Email             string            `json:"email" binding:"omitempty,email"`
	Phone             string            `json:"phone" binding:"omitempty,max=50"`
	Address           string            `json:"address"`
	Notes             string            `json:"notes"`
	PreferredBranchID string            `json:"preferred_branch_id"`
	Status            enum.ClientStatus `json:"status"`
}

// ClientFilterRequest represents client filter parameters
type ClientFilterRequest struct {
	Search   string `form:"search"`
	Status   string `form:"status"`
	BranchID string `form:"branch_id"`
	Page     int    `form:"page"`
	PerPage  int    `form:"per_page"`
}

// BranchRequest represents a branch create or update request
type BranchRequest struct {
	Name    string            `json:"name" binding:"required,max=255"`
	Address string            `json:"address"`
	Phone   string            `json:"phone"`
	Email   string            `json:"email" binding:"omitempty,email"`
	Manager string            `json:"manager"`
	Status  enum.RecordStatus `json:"status"`
}
