// Package billing derives every monetary figure shown on an invoice from its
// stored fields. The functions are pure: the edit form, the list view, the
// exports and the dashboard all call them, so the numbers cannot drift.
//
// Amounts stay exact through the whole chain. Round only when presenting.
package billing

import (
	"github.com/sangkips/salon-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

const displayPlaces = 2

var hundred = decimal.NewFromInt(100)

// ComputeSubtotal is the sum of every line item plus the flat service
// charges.
func ComputeSubtotal(inv *entity.Invoice) decimal.Decimal {
	if inv == nil {
		return decimal.Zero
	}
	subtotal := decimal.Zero
	for _, item := range inv.LineItems() {
		subtotal = subtotal.Add(item.Amount())
	}
	return subtotal.Add(inv.ServiceCharges)
}

// ComputeDiscount reads the stored discount as an amount or as a percentage
// of the current subtotal, depending on the discount type.
func ComputeDiscount(inv *entity.Invoice) decimal.Decimal {
	if inv == nil {
		return decimal.Zero
	}
	return discountOn(inv, ComputeSubtotal(inv))
}

// ComputeTax applies the tax rate to the discounted subtotal. Tips are
// never taxed.
func ComputeTax(inv *entity.Invoice) decimal.Decimal {
	if inv == nil {
		return decimal.Zero
	}
	subtotal := ComputeSubtotal(inv)
	return taxOn(inv, subtotal.Sub(discountOn(inv, subtotal)))
}

// ComputeTotalTips is the service tip plus every staff tip.
func ComputeTotalTips(inv *entity.Invoice) decimal.Decimal {
	if inv == nil {
		return decimal.Zero
	}
	tips := inv.ServiceTip
	for _, member := range inv.TeamMembers {
		tips = tips.Add(member.Tip)
	}
	return tips
}

func ComputeTotal(inv *entity.Invoice) decimal.Decimal {
	return Compute(inv).Total
}

// ComputeTotalPaid sums the amounts of the selected payment methods only.
func ComputeTotalPaid(inv *entity.Invoice) decimal.Decimal {
	if inv == nil {
		return decimal.Zero
	}
	paid := decimal.Zero
	for method, amount := range inv.PaymentAmounts {
		if inv.IsPaymentSelected(method) {
			paid = paid.Add(amount)
		}
	}
	return paid
}

// ComputeBalance is total minus paid. A negative balance is an overpayment.
func ComputeBalance(inv *entity.Invoice) decimal.Decimal {
	return Compute(inv).Balance
}

func discountOn(inv *entity.Invoice, subtotal decimal.Decimal) decimal.Decimal {
	if inv.DiscountType.IsPercentage() {
		return subtotal.Mul(inv.Discount).Div(hundred)
	}
	return inv.Discount
}

func taxOn(inv *entity.Invoice, base decimal.Decimal) decimal.Decimal {
	return base.Mul(inv.Tax).Div(hundred)
}
