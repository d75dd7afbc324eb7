package request

import "github.com/sangkips/salon-api/internal/domain/enum"

// FeedbackRequest represents a feedback create or update request
type FeedbackRequest struct {
	BranchID     string              `json:"branch_id"`
	ClientID     string              `json:"client_id"`
	CustomerName string              `json:"customer_name" binding:"required,max=255"`
	Email        string              `json:"email" binding:"omitempty,email"`
	Service      string              `json:"service"`
	StaffName    string              `json:"staff_name"`
	Rating       int                 `json:"rating" binding:"required,min=1,max=5"`
	Comment      string              `json:"comment" binding:"max=2000"`
	Status       enum.FeedbackStatus `json:"status"`
}

type FeedbackResponseRequest struct {
	Response string `json:"response" binding:"required,max=2000"`
}

// FeedbackFilterRequest represents feedback filter parameters
type FeedbackFilterRequest struct {
	Search   string `form:"search"`
	Status   string `form:"status"`
	BranchID string `form:"branch_id"`
	Rating   int    `form:"rating" binding:"omitempty,min=1,max=5"`
	Page     int    `form:"page"`
	PerPage  int    `form:"per_page"`
}
