package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sangkips/salon-api/internal/config"
	"github.com/sangkips/salon-api/internal/domain/billing"
	"github.com/sangkips/salon-api/internal/domain/entity"
	"github.com/sangkips/salon-api/internal/domain/enum"
	"github.com/sangkips/salon-api/internal/domain/repository"
	"github.com/sangkips/salon-api/internal/domain/stats"
	infraRepo "github.com/sangkips/salon-api/internal/infrastructure/repository"
	"github.com/sangkips/salon-api/pkg/apperror"
	"github.com/sangkips/salon-api/pkg/csvexport"
	"github.com/sangkips/salon-api/pkg/pagination"
	"github.com/sangkips/salon-api/pkg/utils"
)

const invoiceNumberAttempts = 3

// InvoiceService handles invoice-related operations
type InvoiceService struct {
	invoiceRepo repository.InvoiceRepository
	branchRepo  repository.BranchRepository
	clientRepo  repository.ClientRepository
	cfg         config.InvoiceConfig
	now         func() time.Time
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(
	invoiceRepo repository.InvoiceRepository,
	branchRepo repository.BranchRepository,
	clientRepo repository.ClientRepository,
	cfg config.InvoiceConfig,
) *InvoiceService {
	if cfg.NumberPrefix == "" {
		cfg.NumberPrefix = "INV-"
	}
	return &InvoiceService{
		invoiceRepo: invoiceRepo,
		branchRepo:  branchRepo,
		clientRepo:  clientRepo,
		cfg:         cfg,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// InvoiceView is an invoice together with its derived totals.
type InvoiceView struct {
	entity.Invoice
	Totals billing.Totals `json:"totals"`
}

// NewInvoiceView computes the totals of inv, rounded for display.
func NewInvoiceView(inv entity.Invoice) InvoiceView {
	return InvoiceView{Invoice: inv, Totals: billing.Compute(&inv).Rounded()}
}

// InvoiceInput carries the editable fields of an invoice
type InvoiceInput struct {
	BranchID       string
	Customer       entity.InvoiceCustomer
	ServiceName    string
	ServicePrice   decimal.Decimal
	Products       []entity.LineItem
	ServiceCharges decimal.Decimal
	Discount       decimal.Decimal
	DiscountType   enum.DiscountType
	// Tax is a percentage. Nil means the configured default.
	Tax            *decimal.Decimal
	ServiceTip     decimal.Decimal
	TeamMembers    []entity.StaffTip
	PaymentMethods []enum.PaymentMethod
	PaymentAmounts entity.PaymentAmounts
	Status         enum.InvoiceStatus
	IssueDate      time.Time
	DueDate        *time.Time
	Notes          string
	CreatedBy      string
}

func (in *InvoiceInput) validate() error {
	v := &apperror.Validator{}

	v.Check(strings.TrimSpace(in.Customer.Name) != "", "customer.name", "is required")
	v.Check(strings.TrimSpace(in.ServiceName) != "", "service", "is required")
	v.Check(!in.ServicePrice.IsNegative(), "price", "must not be negative")
	v.Check(!in.ServiceCharges.IsNegative(), "service_charges", "must not be negative")
	v.Check(!in.Discount.IsNegative(), "discount", "must not be negative")
	v.Check(in.DiscountType == "" || in.DiscountType.IsValid(), "discount_type", "must be fixed or percentage")
	if in.Tax != nil {
		v.Check(!in.Tax.IsNegative(), "tax", "must not be negative")
	}
	v.Check(!in.ServiceTip.IsNegative(), "service_tip", "must not be negative")
	v.Check(in.Status == "" || in.Status.IsValid(), "status", "unknown status %q", in.Status)

	for i, p := range in.Products {
		v.Check(strings.TrimSpace(p.Name) != "" || p.ProductID != "", fmt.Sprintf("products[%d].name", i), "is required")
		v.Check(!p.UnitPrice.IsNegative(), fmt.Sprintf("products[%d].price", i), "must not be negative")
		v.Check(p.Quantity >= 1, fmt.Sprintf("products[%d].quantity", i), "must be at least 1")
	}

	seen := make(map[string]bool, len(in.TeamMembers))
	for i, m := range in.TeamMembers {
		name := strings.ToLower(strings.TrimSpace(m.Name))
		field := fmt.Sprintf("team_members[%d]", i)
		v.Check(name != "", field+".name", "is required")
		v.Check(name == "" || !seen[name], field+".name", "%q is listed twice", m.Name)
		v.Check(!m.Tip.IsNegative(), field+".tip", "must not be negative")
		seen[name] = true
	}

	for _, m := range in.PaymentMethods {
		v.Check(m.IsValid(), "payment_methods", "unknown payment method %q", m)
	}
	for m, amount := range in.PaymentAmounts {
		v.Check(!amount.IsNegative(), "payment_amounts."+m.String(), "must not be negative")
	}

	return v.Err()
}

func (in *InvoiceInput) applyTo(inv *entity.Invoice, defaultTax decimal.Decimal) {
	inv.BranchID = strings.TrimSpace(in.BranchID)
	inv.Customer = entity.InvoiceCustomer{
		ClientID: strings.TrimSpace(in.Customer.ClientID),
		Name:     strings.TrimSpace(in.Customer.Name),
		Email:    strings.TrimSpace(in.Customer.Email),
		Phone:    strings.TrimSpace(in.Customer.Phone),
	}
	inv.ServiceName = strings.TrimSpace(in.ServiceName)
	inv.ServicePrice = in.ServicePrice
	inv.Products = append([]entity.LineItem{}, in.Products...)
	inv.ServiceCharges = in.ServiceCharges
	inv.Discount = in.Discount
	inv.DiscountType = in.DiscountType
	if inv.DiscountType == "" {
		inv.DiscountType = enum.DiscountTypeFixed
	}
	inv.Tax = defaultTax
	if in.Tax != nil {
		inv.Tax = *in.Tax
	}
	inv.ServiceTip = in.ServiceTip
	inv.TeamMembers = append([]entity.StaffTip{}, in.TeamMembers...)
	inv.PaymentAmounts = entity.PaymentAmounts{}
	for m, amount := range in.PaymentAmounts {
		inv.PaymentAmounts[m] = amount
	}
	inv.SetPaymentMethods(in.PaymentMethods)
	if !in.IssueDate.IsZero() {
		inv.IssueDate = in.IssueDate.UTC()
	}
	inv.DueDate = in.DueDate
	inv.Notes = in.Notes
}

// CreateInvoice validates and stores a new invoice
func (s *InvoiceService) CreateInvoice(ctx context.Context, input *InvoiceInput) (*InvoiceView, error) {
	if _, ok := infraRepo.GetTenantID(ctx); !ok {
		return nil, apperror.ErrTenantRequired
	}
	if err := input.validate(); err != nil {
		return nil, err
	}
	if err := s.checkReferences(ctx, input); err != nil {
		return nil, err
	}

	inv := &entity.Invoice{
		Status:    enum.InvoiceStatusDraft,
		IssueDate: s.now(),
		CreatedBy: input.CreatedBy,
	}
	input.applyTo(inv, s.cfg.DefaultTax)
	if input.Status != "" {
		inv.Status = input.Status
	}

	number, err := s.nextInvoiceNumber(ctx)
	if err != nil {
		return nil, err
	}
	inv.InvoiceNumber = number

	visit := s.markVisit(inv)
	if err := s.invoiceRepo.Create(ctx, inv); err != nil {
		return nil, err
	}
	if visit {
		if err := s.recordVisit(ctx, inv); err != nil {
			return nil, err
		}
	}

	view := NewInvoiceView(*inv)
	return &view, nil
}

func (s *InvoiceService) nextInvoiceNumber(ctx context.Context) (string, error) {
	for i := 0; i < invoiceNumberAttempts; i++ {
		number := utils.GenerateInvoiceNo(s.cfg.NumberPrefix)
		existing, err := s.invoiceRepo.GetByNumber(ctx, number)
		if err != nil {
			return "", err
		}
		if existing == nil {
			return number, nil
		}
	}
	return "", apperror.NewConflictError("Could not allocate a unique invoice number")
}

func (s *InvoiceService) checkReferences(ctx context.Context, input *InvoiceInput) error {
	if id := strings.TrimSpace(input.BranchID); id != "" {
		branch, err := s.branchRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if branch == nil {
			return apperror.NewNotFoundError("Branch")
		}
	}
	if id := strings.TrimSpace(input.Customer.ClientID); id != "" {
		client, err := s.clientRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if client == nil {
			return apperror.NewNotFoundError("Client")
		}
	}
	return nil
}

// GetInvoice retrieves an invoice by ID
func (s *InvoiceService) GetInvoice(ctx context.Context, id string) (*InvoiceView, error) {
	inv, err := s.getInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	view := NewInvoiceView(*inv)
	return &view, nil
}

func (s *InvoiceService) getInvoice(ctx context.Context, id string) (*entity.Invoice, error) {
	inv, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}
	return inv, nil
}

// ListInvoices lists invoices matching the filters, newest first
func (s *InvoiceService) ListInvoices(ctx context.Context, params *repository.InvoiceFilterParams) (*pagination.PaginatedResult[InvoiceView], error) {
	invoices, err := s.filteredInvoices(ctx, params)
	if err != nil {
		return nil, err
	}

	var page *pagination.PaginationParams
	if params != nil {
		page = params.Pagination
	}
	return pagination.Map(pagination.Paginate(invoices, page), NewInvoiceView), nil
}

func (s *InvoiceService) filteredInvoices(ctx context.Context, params *repository.InvoiceFilterParams) ([]entity.Invoice, error) {
	invoices, err := s.invoiceRepo.List(ctx, repository.OrderBy{Field: "createdAt", Desc: true})
	if err != nil {
		return nil, err
	}
	if params == nil {
		return invoices, nil
	}
	return stats.Filter(invoices, invoicePredicates(params)...), nil
}

func invoicePredicates(params *repository.InvoiceFilterParams) []stats.Predicate[entity.Invoice] {
	preds := []stats.Predicate[entity.Invoice]{
		stats.Search(params.Search, func(inv entity.Invoice) []string {
			return []string{inv.InvoiceNumber, inv.Customer.Name, inv.Customer.Email, inv.Customer.Phone, inv.ServiceName}
		}),
		stats.Equals(params.Status.String(), func(inv entity.Invoice) string { return inv.Status.String() }),
		stats.Equals(params.BranchID, func(inv entity.Invoice) string { return inv.BranchID }),
		stats.Equals(params.ClientID, func(inv entity.Invoice) string { return inv.Customer.ClientID }),
	}
	if !params.IssuedIn.IsZero() {
		preds = append(preds, func(inv entity.Invoice) bool { return params.IssuedIn.Contains(inv.IssueDate) })
	}
	return preds
}

// UpdateInvoice replaces the editable fields of an invoice. The number and
// author are kept.
func (s *InvoiceService) UpdateInvoice(ctx context.Context, id string, input *InvoiceInput) (*InvoiceView, error) {
	inv, err := s.getInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	if !inv.IsEditable() {
		return nil, apperror.NewConflictError("Cancelled invoices cannot be changed")
	}
	if err := input.validate(); err != nil {
		return nil, err
	}
	if err := s.checkReferences(ctx, input); err != nil {
		return nil, err
	}

	input.applyTo(inv, inv.Tax)
	if input.Status != "" {
		inv.Status = input.Status
	}

	return s.save(ctx, inv)
}

// UpdateInvoiceStatus moves an invoice to a new status
func (s *InvoiceService) UpdateInvoiceStatus(ctx context.Context, id string, status enum.InvoiceStatus) (*InvoiceView, error) {
	if !status.IsValid() {
		return nil, apperror.NewValidationError([]apperror.FieldError{{Field: "status", Message: fmt.Sprintf("unknown status %q", status)}})
	}

	inv, err := s.getInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	if !inv.IsEditable() && status != inv.Status {
		return nil, apperror.NewConflictError("Cancelled invoices cannot be changed")
	}

	inv.Status = status
	return s.save(ctx, inv)
}

// RecordPayment selects a payment method and sets the amount tendered with
// it. An invoice with nothing left to pay is marked paid.
func (s *InvoiceService) RecordPayment(ctx context.Context, id string, method enum.PaymentMethod, amount decimal.Decimal) (*InvoiceView, error) {
	v := &apperror.Validator{}
	v.Check(method.IsValid(), "method", "unknown payment method %q", method)
	v.Check(!amount.IsNegative(), "amount", "must not be negative")
	if err := v.Err(); err != nil {
		return nil, err
	}

	inv, err := s.getInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	if !inv.IsEditable() {
		return nil, apperror.NewConflictError("Cancelled invoices cannot be changed")
	}

	inv.SelectPaymentMethod(method, amount)
	inv.SanitizePayments()
	if billing.Compute(inv).IsSettled() && inv.Status != enum.InvoiceStatusPaid {
		inv.Status = enum.InvoiceStatusPaid
	}

	return s.save(ctx, inv)
}

// SetPaymentMethods replaces the selected payment methods. Amounts of
// deselected methods are reset to zero.
func (s *InvoiceService) SetPaymentMethods(ctx context.Context, id string, methods []enum.PaymentMethod) (*InvoiceView, error) {
	v := &apperror.Validator{}
	for _, m := range methods {
		v.Check(m.IsValid(), "payment_methods", "unknown payment method %q", m)
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	inv, err := s.getInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	if !inv.IsEditable() {
		return nil, apperror.NewConflictError("Cancelled invoices cannot be changed")
	}

	inv.SetPaymentMethods(methods)
	return s.save(ctx, inv)
}

func (s *InvoiceService) save(ctx context.Context, inv *entity.Invoice) (*InvoiceView, error) {
	visit := s.markVisit(inv)
	if err := s.invoiceRepo.Update(ctx, inv); err != nil {
		return nil, err
	}
	if visit {
		if err := s.recordVisit(ctx, inv); err != nil {
			return nil, err
		}
	}
	view := NewInvoiceView(*inv)
	return &view, nil
}

// markVisit stamps a paid invoice of a known client the first time it is
// paid. It reports whether the client's history still needs the visit.
func (s *InvoiceService) markVisit(inv *entity.Invoice) bool {
	if inv.Status != enum.InvoiceStatusPaid || inv.VisitRecordedAt != nil || inv.Customer.ClientID == "" {
		return false
	}
	now := s.now()
	inv.VisitRecordedAt = &now
	return true
}

// recordVisit adds a paid invoice to the linked client's history.
func (s *InvoiceService) recordVisit(ctx context.Context, inv *entity.Invoice) error {
	client, err := s.clientRepo.GetByID(ctx, inv.Customer.ClientID)
	if err != nil || client == nil {
		return err
	}
	client.RecordVisit(billing.Round(billing.ComputeTotal(inv)), inv.IssueDate)
	return s.clientRepo.Update(ctx, client)
}

// DeleteInvoice deletes an invoice
func (s *InvoiceService) DeleteInvoice(ctx context.Context, id string) error {
	if _, err := s.getInvoice(ctx, id); err != nil {
		return err
	}
	return s.invoiceRepo.Delete(ctx, id)
}

var invoiceExportHeader = []string{
	"Invoice Number", "Date", "Customer", "Service", "Branch", "Status",
	"Subtotal", "Discount", "Tax", "Tips", "Total", "Paid", "Balance",
}

// ExportInvoicesCSV writes the filtered invoices as CSV
func (s *InvoiceService) ExportInvoicesCSV(ctx context.Context, w io.Writer, params *repository.InvoiceFilterParams) error {
	table, err := s.exportTable(ctx, params)
	if err != nil {
		return err
	}
	return csvexport.Write(w, table)
}

// ExportInvoicesXLSX writes the filtered invoices as a spreadsheet
func (s *InvoiceService) ExportInvoicesXLSX(ctx context.Context, w io.Writer, params *repository.InvoiceFilterParams) error {
	table, err := s.exportTable(ctx, params)
	if err != nil {
		return err
	}
	return csvexport.WriteXLSX(w, "Invoices", table)
}

func (s *InvoiceService) exportTable(ctx context.Context, params *repository.InvoiceFilterParams) (csvexport.Table, error) {
	invoices, err := s.filteredInvoices(ctx, params)
	if err != nil {
		return csvexport.Table{}, err
	}
	branches, err := branchNames(ctx, s.branchRepo)
	if err != nil {
		return csvexport.Table{}, err
	}

	table := csvexport.Table{Header: invoiceExportHeader}
	for i := range invoices {
		inv := &invoices[i]
		t := billing.Compute(inv).Rounded()
		table.AddRow(
			csvexport.String(inv.InvoiceNumber),
			csvexport.String(formatDate(inv.IssueDate)),
			csvexport.String(inv.Customer.Name),
			csvexport.String(inv.ServiceName),
			csvexport.String(branches[inv.BranchID]),
			csvexport.String(inv.Status.String()),
			csvexport.Number(t.Subtotal),
			csvexport.Number(t.Discount),
			csvexport.Number(t.Tax),
			csvexport.Number(t.Tips),
			csvexport.Number(t.Total),
			csvexport.Number(t.Paid),
			csvexport.Number(t.Balance),
		)
	}
	return table, nil
}
