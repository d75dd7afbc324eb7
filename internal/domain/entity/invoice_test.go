package entity

import (
	"testing"

	"github.com/sangkips/salon-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

func TestDeselectPaymentMethodResetsAmount(t *testing.T) {
	inv := &Invoice{}
	inv.SelectPaymentMethod(enum.PaymentMethodCash, decimal.NewFromInt(30))
	inv.SelectPaymentMethod(enum.PaymentMethodCard, decimal.NewFromInt(20))

	inv.DeselectPaymentMethod(enum.PaymentMethodCash)

	if inv.IsPaymentSelected(enum.PaymentMethodCash) {
		t.Fatalf("cash should no longer be selected")
	}
	if !inv.PaymentAmounts[enum.PaymentMethodCash].IsZero() {
		t.Fatalf("deselected amount should be zero, got %s", inv.PaymentAmounts[enum.PaymentMethodCash])
	}
	if !inv.PaymentAmounts[enum.PaymentMethodCard].Equal(decimal.NewFromInt(20)) {
		t.Fatalf("card amount should be kept")
	}
}

func TestSetPaymentMethodsDropsDuplicatesAndZeroesOthers(t *testing.T) {
	inv := &Invoice{
		PaymentMethods: []enum.PaymentMethod{enum.PaymentMethodCheck},
		PaymentAmounts: PaymentAmounts{
			enum.PaymentMethodCheck:   decimal.NewFromInt(15),
			enum.PaymentMethodDigital: decimal.NewFromInt(5),
		},
	}

	inv.SetPaymentMethods([]enum.PaymentMethod{enum.PaymentMethodDigital, enum.PaymentMethodDigital})

	if len(inv.PaymentMethods) != 1 || inv.PaymentMethods[0] != enum.PaymentMethodDigital {
		t.Fatalf("unexpected selection %v", inv.PaymentMethods)
	}
	if !inv.PaymentAmounts[enum.PaymentMethodCheck].IsZero() {
		t.Fatalf("check was deselected and must be zero")
	}
	if !inv.PaymentAmounts[enum.PaymentMethodDigital].Equal(decimal.NewFromInt(5)) {
		t.Fatalf("digital amount should be kept")
	}
	if len(inv.PaymentAmounts) != 4 {
		t.Fatalf("expected every method to be present, got %v", inv.PaymentAmounts)
	}
}

func TestLineItemsPutsServiceFirst(t *testing.T) {
	inv := &Invoice{
		ServiceName:  "Haircut",
		ServicePrice: decimal.NewFromInt(35),
		Products:     []LineItem{{Name: "Wax", UnitPrice: decimal.NewFromInt(10), Quantity: 2}},
	}
	items := inv.LineItems()
	if len(items) != 2 || items[0].Name != "Haircut" || items[0].Quantity != 1 {
		t.Fatalf("unexpected items %+v", items)
	}
	if !items[1].Amount().Equal(decimal.NewFromInt(20)) {
		t.Fatalf("expected product amount 20, got %s", items[1].Amount())
	}
}
