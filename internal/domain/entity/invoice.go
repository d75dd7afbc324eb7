package entity

import (
	"time"

	"github.com/sangkips/salon-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// Invoice is a bill for one salon visit: a single service line, any
// products sold alongside it, charges, discount, tax, tips and the
// payments collected against it. Derived totals are never stored.
type Invoice struct {
	Base
	BranchID       string               `json:"branch_id"`
	InvoiceNumber  string               `json:"invoice_number"`
	Customer       InvoiceCustomer      `json:"customer"`
	ServiceName    string               `json:"service"`
	ServicePrice   decimal.Decimal      `json:"price"`
	Products       []LineItem           `json:"products"`
	ServiceCharges decimal.Decimal      `json:"service_charges"`
	Discount       decimal.Decimal      `json:"discount"`
	DiscountType   enum.DiscountType    `json:"discount_type"`
	Tax            decimal.Decimal      `json:"tax"`
	ServiceTip     decimal.Decimal      `json:"service_tip"`
	TeamMembers    []StaffTip           `json:"team_members"`
	PaymentMethods []enum.PaymentMethod `json:"payment_methods"`
	PaymentAmounts PaymentAmounts       `json:"payment_amounts"`
	Status         enum.InvoiceStatus   `json:"status"`
	IssueDate      time.Time            `json:"issue_date"`
	DueDate        *time.Time           `json:"due_date,omitempty"`
	Notes          string               `json:"notes,omitempty"`
	CreatedBy      string               `json:"created_by,omitempty"`

	// VisitRecordedAt is set once the invoice has counted towards the
	// client's visits.
	VisitRecordedAt *time.Time `json:"visit_recorded_at,omitempty"`
}

type InvoiceCustomer struct {
	ClientID string `json:"client_id,omitempty"`
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

// LineItem is a priced, quantity-bearing row of an invoice.
type LineItem struct {
	ProductID string          `json:"product_id,omitempty"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

// Amount is unit price times quantity.
func (l LineItem) Amount() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// StaffTip is the tip left for one team member.
type StaffTip struct {
	Name string          `json:"name"`
	Tip  decimal.Decimal `json:"tip"`
}

// PaymentAmounts holds the amount tendered per payment method.
type PaymentAmounts map[enum.PaymentMethod]decimal.Decimal

// LineItems returns the service as an implicit single-quantity item
// followed by the products.
func (i *Invoice) LineItems() []LineItem {
	items := make([]LineItem, 0, len(i.Products)+1)
	items = append(items, LineItem{Name: i.ServiceName, UnitPrice: i.ServicePrice, Quantity: 1})
	return append(items, i.Products...)
}

func (i *Invoice) IsPaymentSelected(m enum.PaymentMethod) bool {
	for _, selected := range i.PaymentMethods {
		if selected == m {
			return true
		}
	}
	return false
}

// SelectPaymentMethod marks the method as used and records its amount.
func (i *Invoice) SelectPaymentMethod(m enum.PaymentMethod, amount decimal.Decimal) {
	if !i.IsPaymentSelected(m) {
		i.PaymentMethods = append(i.PaymentMethods, m)
	}
	if i.PaymentAmounts == nil {
		i.PaymentAmounts = PaymentAmounts{}
	}
	i.PaymentAmounts[m] = amount
}

// DeselectPaymentMethod removes the method and resets its amount to zero.
func (i *Invoice) DeselectPaymentMethod(m enum.PaymentMethod) {
	kept := i.PaymentMethods[:0]
	for _, selected := range i.PaymentMethods {
		if selected != m {
			kept = append(kept, selected)
		}
	}
	i.PaymentMethods = kept
	if i.PaymentAmounts != nil {
		i.PaymentAmounts[m] = decimal.Zero
	}
}

// SetPaymentMethods replaces the selection. Duplicates are dropped and every
// method left out of the selection has its amount reset to zero.
func (i *Invoice) SetPaymentMethods(methods []enum.PaymentMethod) {
	selected := make([]enum.PaymentMethod, 0, len(methods))
	for _, m := range methods {
		dup := false
		for _, s := range selected {
			if s == m {
				dup = true
				break
			}
		}
		if !dup {
			selected = append(selected, m)
		}
	}
	i.PaymentMethods = selected
	i.SanitizePayments()
}

// SanitizePayments zeroes the amount of every unselected method and fills
// in the missing ones, so the stored document always carries all four.
func (i *Invoice) SanitizePayments() {
	amounts := make(PaymentAmounts, len(enum.PaymentMethods()))
	for _, m := range enum.PaymentMethods() {
		amounts[m] = decimal.Zero
		if i.IsPaymentSelected(m) {
			if v, ok := i.PaymentAmounts[m]; ok {
				amounts[m] = v
			}
		}
	}
	i.PaymentAmounts = amounts
}

// IsEditable reports whether the invoice may still be changed.
func (i *Invoice) IsEditable() bool {
	return i.Status != enum.InvoiceStatusCancelled
}
