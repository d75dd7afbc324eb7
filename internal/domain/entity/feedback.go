package entity

import "github.com/sangkips/salon-api/internal/domain/enum"

// Feedback is a customer review of a visit
type Feedback struct {
	Base
	BranchID     string              `json:"branch_id"`
	ClientID     string              `json:"client_id,omitempty"`
	CustomerName string              `json:"customer_name"`
	Email        string              `json:"email,omitempty"`
	Service      string              `json:"service,omitempty"`
	StaffName    string              `json:"staff_name,omitempty"`
	Rating       int                 `json:"rating"`
	Comment      string              `json:"comment,omitempty"`
	Response     string              `json:"response,omitempty"`
	Status       enum.FeedbackStatus `json:"status"`
}
