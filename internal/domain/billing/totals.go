package billing

import (
	"github.com/sangkips/salon-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Totals holds every derived figure of an invoice.
type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Discount decimal.Decimal `json:"discount"`
	Tax      decimal.Decimal `json:"tax"`
	Tips     decimal.Decimal `json:"tips"`
	Total    decimal.Decimal `json:"total"`
	Paid     decimal.Decimal `json:"paid"`
	Balance  decimal.Decimal `json:"balance"`
}

// Compute derives all totals in one pass over the invoice.
func Compute(inv *entity.Invoice) Totals {
	if inv == nil {
		return Totals{}
	}

	subtotal := ComputeSubtotal(inv)
	discount := discountOn(inv, subtotal)
	tax := taxOn(inv, subtotal.Sub(discount))
	tips := ComputeTotalTips(inv)
	total := subtotal.Sub(discount).Add(tax).Add(tips)
	paid := ComputeTotalPaid(inv)

	return Totals{
		Subtotal: subtotal,
		Discount: discount,
		Tax:      tax,
		Tips:     tips,
		Total:    total,
		Paid:     paid,
		Balance:  total.Sub(paid),
	}
}

// IsSettled reports whether nothing is left to pay.
func (t Totals) IsSettled() bool {
	return !t.Balance.IsPositive()
}

// Rounded returns a copy rounded to currency precision for display.
func (t Totals) Rounded() Totals {
	return Totals{
		Subtotal: Round(t.Subtotal),
		Discount: Round(t.Discount),
		Tax:      Round(t.Tax),
		Tips:     Round(t.Tips),
		Total:    Round(t.Total),
		Paid:     Round(t.Paid),
		Balance:  Round(t.Balance),
	}
}

// Round rounds half away from zero to currency precision.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(displayPlaces)
}
