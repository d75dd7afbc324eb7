package service

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/sangkips/salon-api/internal/config"
	"github.com/sangkips/salon-api/internal/domain/entity"
	"github.com/sangkips/salon-api/internal/domain/enum"
	"github.com/sangkips/salon-api/internal/domain/repository"
	"github.com/sangkips/salon-api/pkg/apperror"
	"github.com/sangkips/salon-api/pkg/csvexport"
	"github.com/sangkips/salon-api/pkg/pagination"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newInvoiceService(st *stores) *InvoiceService {
	return NewInvoiceService(st.invoices, st.branches, st.clients, config.InvoiceConfig{NumberPrefix: "INV-", DefaultTax: dec("5")})
}

func haircutInput() *InvoiceInput {
	return &InvoiceInput{
		Customer:       entity.InvoiceCustomer{Name: "Jane"},
		ServiceName:    "Haircut",
		ServicePrice:   dec("35"),
		Products:       []entity.LineItem{{Name: "Pomade", UnitPrice: dec("10"), Quantity: 2}},
		ServiceCharges: dec("5"),
		Discount:       dec("10"),
		ServiceTip:     dec("5"),
		TeamMembers:    []entity.StaffTip{{Name: "Mike", Tip: dec("3")}},
	}
}

func assertStatus(t *testing.T, err error, code int) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with status %d", code)
	}
	if got := apperror.GetAppError(err).Code; got != code {
		t.Fatalf("expected status %d, got %d (%v)", code, got, err)
	}
}

func TestCreateInvoiceComputesTotals(t *testing.T) {
	st := newStores()
	svc := newInvoiceService(st)

	view, err := svc.CreateInvoice(tenantCtx(), haircutInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if !strings.HasPrefix(view.InvoiceNumber, "INV-") {
		t.Fatalf("unexpected number %q", view.InvoiceNumber)
	}
	if view.Status != enum.InvoiceStatusDraft || view.DiscountType != enum.DiscountTypeFixed {
		t.Fatalf("expected draft with fixed discount, got %s/%s", view.Status, view.DiscountType)
	}
	if !view.Tax.Equal(dec("5")) {
		t.Fatalf("default tax not applied: %s", view.Tax)
	}
	if !view.Totals.Total.Equal(dec("60.5")) || !view.Totals.Balance.Equal(dec("60.5")) {
		t.Fatalf("unexpected totals %+v", view.Totals)
	}
	if len(view.PaymentAmounts) != 4 {
		t.Fatalf("payment amounts should carry every method, got %v", view.PaymentAmounts)
	}
}

func TestCreateInvoiceValidation(t *testing.T) {
	st := newStores()
	svc := newInvoiceService(st)

	cases := map[string]func(*InvoiceInput){
		"missing customer":   func(in *InvoiceInput) { in.Customer.Name = " " },
		"negative price":     func(in *InvoiceInput) { in.ServicePrice = dec("-1") },
		"zero quantity":      func(in *InvoiceInput) { in.Products[0].Quantity = 0 },
		"duplicate staff":    func(in *InvoiceInput) { in.TeamMembers = append(in.TeamMembers, entity.StaffTip{Name: "mike"}) },
		"bad payment method": func(in *InvoiceInput) { in.PaymentMethods = []enum.PaymentMethod{"crypto"} },
		"negative tip":       func(in *InvoiceInput) { in.ServiceTip = dec("-2") },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			in := haircutInput()
			mutate(in)
			_, err := svc.CreateInvoice(tenantCtx(), in)
			assertStatus(t, err, http.StatusUnprocessableEntity)
		})
	}
	if st.invoices.count() != 0 {
		t.Fatalf("invalid invoices must not be stored")
	}
}

func TestCreateInvoiceRequiresTenant(t *testing.T) {
	svc := newInvoiceService(newStores())
	_, err := svc.CreateInvoice(context.Background(), haircutInput())
	if !errors.Is(err, apperror.ErrTenantRequired) {
		t.Fatalf("expected tenant error, got %v", err)
	}
}

func TestCreateInvoiceChecksReferences(t *testing.T) {
	svc := newInvoiceService(newStores())
	in := haircutInput()
	in.BranchID = "missing"
	_, err := svc.CreateInvoice(tenantCtx(), in)
	assertStatus(t, err, http.StatusNotFound)
}

func TestRecordPaymentSettlesInvoiceAndRecordsVisit(t *testing.T) {
	st := newStores()
	svc := newInvoiceService(st)
	ctx := tenantCtx()

	client := &entity.Client{Name: "Jane"}
	if err := st.clients.Create(ctx, client); err != nil {
		t.Fatalf("seed client: %v", err)
	}

	in := haircutInput()
	in.Customer.ClientID = client.ID
	view, err := svc.CreateInvoice(ctx, in)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	view, err = svc.RecordPayment(ctx, view.ID, enum.PaymentMethodCash, dec("30"))
	if err != nil {
		t.Fatalf("pay cash: %v", err)
	}
	if view.Status != enum.InvoiceStatusDraft || !view.Totals.Balance.Equal(dec("30.5")) {
		t.Fatalf("partial payment: status %s balance %s", view.Status, view.Totals.Balance)
	}

	view, err = svc.RecordPayment(ctx, view.ID, enum.PaymentMethodCard, dec("40"))
	if err != nil {
		t.Fatalf("pay card: %v", err)
	}
	if view.Status != enum.InvoiceStatusPaid || !view.Totals.Balance.Equal(dec("-9.5")) {
		t.Fatalf("expected paid with overpayment, got %s %s", view.Status, view.Totals.Balance)
	}

	stored, _ := st.clients.GetByID(ctx, client.ID)
	if stored.TotalVisits != 1 || !stored.TotalSpent.Equal(dec("60.5")) || stored.LastVisit == nil {
		t.Fatalf("visit not recorded: %+v", stored)
	}
}

func TestPaidInvoiceCountsOneVisit(t *testing.T) {
	st := newStores()
	svc := newInvoiceService(st)
	ctx := tenantCtx()

	client := &entity.Client{Name: "Jane"}
	if err := st.clients.Create(ctx, client); err != nil {
		t.Fatalf("seed client: %v", err)
	}

	in := haircutInput()
	in.Customer.ClientID = client.ID
	in.Status = enum.InvoiceStatusPaid
	view, err := svc.CreateInvoice(ctx, in)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	for _, status := range []enum.InvoiceStatus{enum.InvoiceStatusSent, enum.InvoiceStatusPaid, enum.InvoiceStatusOverdue, enum.InvoiceStatusPaid} {
		if _, err := svc.UpdateInvoiceStatus(ctx, view.ID, status); err != nil {
			t.Fatalf("status %s: %v", status, err)
		}
	}
	if _, err := svc.UpdateInvoice(ctx, view.ID, in); err != nil {
		t.Fatalf("update: %v", err)
	}

	stored, _ := st.clients.GetByID(ctx, client.ID)
	if stored.TotalVisits != 1 || !stored.TotalSpent.Equal(dec("60.5")) {
		t.Fatalf("visits=%d spent=%s, want 1 and 60.5", stored.TotalVisits, stored.TotalSpent)
	}
	inv, _ := st.invoices.GetByID(ctx, view.ID)
	if inv.VisitRecordedAt == nil {
		t.Fatal("visit marker not stored on the invoice")
	}
}

func TestSetPaymentMethodsZeroesDeselected(t *testing.T) {
	st := newStores()
	svc := newInvoiceService(st)
	ctx := tenantCtx()

	in := haircutInput()
	in.PaymentMethods = []enum.PaymentMethod{enum.PaymentMethodCash, enum.PaymentMethodCard}
	in.PaymentAmounts = entity.PaymentAmounts{enum.PaymentMethodCash: dec("30"), enum.PaymentMethodCard: dec("20")}
	view, err := svc.CreateInvoice(ctx, in)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !view.Totals.Paid.Equal(dec("50")) {
		t.Fatalf("expected 50 paid, got %s", view.Totals.Paid)
	}

	view, err = svc.SetPaymentMethods(ctx, view.ID, []enum.PaymentMethod{enum.PaymentMethodCard})
	if err != nil {
		t.Fatalf("set methods: %v", err)
	}
	if !view.PaymentAmounts[enum.PaymentMethodCash].IsZero() || !view.Totals.Paid.Equal(dec("20")) {
		t.Fatalf("cash should be reset: %v paid %s", view.PaymentAmounts, view.Totals.Paid)
	}
}

func TestUpdateInvoiceKeepsNumberAndDiscountValue(t *testing.T) {
	st := newStores()
	svc := newInvoiceService(st)
	ctx := tenantCtx()

	created, err := svc.CreateInvoice(ctx, haircutInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	in := haircutInput()
	in.DiscountType = enum.DiscountTypePercentage
	updated, err := svc.UpdateInvoice(ctx, created.ID, in)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.InvoiceNumber != created.InvoiceNumber {
		t.Fatalf("number changed from %s to %s", created.InvoiceNumber, updated.InvoiceNumber)
	}
	if !updated.Discount.Equal(dec("10")) || !updated.Totals.Discount.Equal(dec("6")) {
		t.Fatalf("expected stored 10 and computed 6, got %s / %s", updated.Discount, updated.Totals.Discount)
	}
	if !updated.Tax.Equal(dec("5")) {
		t.Fatalf("tax should be kept when not given, got %s", updated.Tax)
	}
}

func TestCancelledInvoiceIsImmutable(t *testing.T) {
	st := newStores()
	svc := newInvoiceService(st)
	ctx := tenantCtx()

	view, _ := svc.CreateInvoice(ctx, haircutInput())
	if _, err := svc.UpdateInvoiceStatus(ctx, view.ID, enum.InvoiceStatusCancelled); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	_, err := svc.RecordPayment(ctx, view.ID, enum.PaymentMethodCash, dec("1"))
	assertStatus(t, err, http.StatusConflict)
	_, err = svc.UpdateInvoiceStatus(ctx, view.ID, enum.InvoiceStatusDraft)
	assertStatus(t, err, http.StatusConflict)
}

func TestListInvoicesFiltersAndPaginates(t *testing.T) {
	st := newStores()
	svc := newInvoiceService(st)
	ctx := tenantCtx()

	for _, name := range []string{"Alice", "Bob", "Alicia"} {
		in := haircutInput()
		in.Customer.Name = name
		if _, err := svc.CreateInvoice(ctx, in); err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
	}

	result, err := svc.ListInvoices(ctx, &repository.InvoiceFilterParams{
		Search:     "ali",
		Pagination: &pagination.PaginationParams{Page: 1, PerPage: 1},
	})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if result.Pagination.Total != 2 || len(result.Items) != 1 {
		t.Fatalf("expected 2 matches on a page of 1, got %+v", result.Pagination)
	}
	if result.Items[0].Customer.Name != "Alicia" {
		t.Fatalf("expected newest first, got %s", result.Items[0].Customer.Name)
	}
	if !result.Items[0].Totals.Total.Equal(dec("60.5")) {
		t.Fatalf("list items should carry totals")
	}
}

func TestExportInvoicesCSV(t *testing.T) {
	st := newStores()
	svc := newInvoiceService(st)
	ctx := tenantCtx()

	branch := &entity.Branch{Name: "Downtown"}
	_ = st.branches.Create(ctx, branch)

	in := haircutInput()
	in.BranchID = branch.ID
	in.Customer.Name = `Jane "JJ" Doe`
	if _, err := svc.CreateInvoice(ctx, in); err != nil {
		t.Fatalf("create: %v", err)
	}

	var buf bytes.Buffer
	if err := svc.ExportInvoicesCSV(ctx, &buf, nil); err != nil {
		t.Fatalf("export: %v", err)
	}

	header, rows, err := csvexport.Parse(&buf)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(header) != len(invoiceExportHeader) || len(rows) != 1 {
		t.Fatalf("unexpected export shape: %v / %d rows", header, len(rows))
	}
	row := rows[0]
	if row[2] != `Jane "JJ" Doe` || row[4] != "Downtown" || row[10] != "60.5" {
		t.Fatalf("unexpected row %v", row)
	}
}
