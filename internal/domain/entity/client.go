package entity

import (
	"time"

	"github.com/sangkips/salon-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// Client represents a customer in the CRM
type Client struct {
	Base
	Name              string            `json:"name"`
	Email             string            `json:"email,omitempty"`
	Phone             string            `json:"phone,omitempty"`
	Address           string            `json:"address,omitempty"`
	Notes             string            `json:"notes,omitempty"`
	PreferredBranchID string            `json:"preferred_branch_id,omitempty"`
	Status            enum.ClientStatus `json:"status"`
	TotalVisits       int               `json:"total_visits"`
	TotalSpent        decimal.Decimal   `json:"total_spent"`
	LastVisit         *time.Time        `json:"last_visit,omitempty"`
}

// RecordVisit adds a paid visit to the client's history.
func (c *Client) RecordVisit(amount decimal.Decimal, at time.Time) {
	c.TotalVisits++
	c.TotalSpent = c.TotalSpent.Add(amount)
	if c.LastVisit == nil || at.After(*c.LastVisit) {
		c.LastVisit = &at
	}
}
