package repository

import (
	"context"
	"strings"

	"cloud.google.com/go/firestore"

	"github.com/sangkips/salon-api/internal/domain/entity"
	"github.com/sangkips/salon-api/internal/domain/enum"
	domainRepo "github.com/sangkips/salon-api/internal/domain/repository"
)

const invoicesCollection = "invoices"

type invoiceRepository struct {
	*collection[entity.Invoice, *entity.Invoice]
}

// NewInvoiceRepository creates a new invoice repository
func NewInvoiceRepository(client *firestore.Client) domainRepo.InvoiceRepository {
	return &invoiceRepository{
		collection: newCollection[entity.Invoice](client, invoicesCollection, mapper[entity.Invoice]{
			encode: encodeInvoice,
			decode: decodeInvoice,
		}),
	}
}

func (r *invoiceRepository) GetByNumber(ctx context.Context, number string) (*entity.Invoice, error) {
	return r.findOne(ctx, "invoiceNumber", strings.TrimSpace(number))
}

func encodeInvoice(inv *entity.Invoice) map[string]interface{} {
	products := make([]map[string]interface{}, 0, len(inv.Products))
	for _, p := range inv.Products {
		products = append(products, map[string]interface{}{
			"productId": p.ProductID,
			"name":      p.Name,
			"price":     money(p.UnitPrice),
			"quantity":  p.Quantity,
		})
	}

	team := make([]map[string]interface{}, 0, len(inv.TeamMembers))
	for _, m := range inv.TeamMembers {
		team = append(team, map[string]interface{}{"name": m.Name, "tip": money(m.Tip)})
	}

	methods := make([]string, 0, len(inv.PaymentMethods))
	for _, m := range inv.PaymentMethods {
		methods = append(methods, m.String())
	}

	amounts := make(map[string]interface{}, len(enum.PaymentMethods()))
	for _, m := range enum.PaymentMethods() {
		amounts[m.String()] = money(inv.PaymentAmounts[m])
	}

	doc := map[string]interface{}{
		"branchId":      inv.BranchID,
		"invoiceNumber": inv.InvoiceNumber,
		"customer": map[string]interface{}{
			"clientId": inv.Customer.ClientID,
			"name":     inv.Customer.Name,
			"email":    inv.Customer.Email,
			"phone":    inv.Customer.Phone,
		},
		"service":        inv.ServiceName,
		"price":          money(inv.ServicePrice),
		"products":       products,
		"serviceCharges": money(inv.ServiceCharges),
		"discount":       money(inv.Discount),
		"discountType":   inv.DiscountType.String(),
		"tax":            money(inv.Tax),
		"serviceTip":     money(inv.ServiceTip),
		"teamMembers":    team,
		"paymentMethods": methods,
		"paymentAmounts": amounts,
		"status":         inv.Status.String(),
		"issueDate":      inv.IssueDate.UTC(),
		"dueDate":        optionalTime(inv.DueDate),
		"notes":          inv.Notes,
		"createdBy":      inv.CreatedBy,
	}
	if inv.VisitRecordedAt != nil {
		doc["visitRecordedAt"] = inv.VisitRecordedAt.UTC()
	}
	return doc
}

func decodeInvoice(data map[string]interface{}) entity.Invoice {
	inv := entity.Invoice{
		BranchID:       stringField(data, "branchId"),
		InvoiceNumber:  stringField(data, "invoiceNumber"),
		Customer:       decodeInvoiceCustomer(data),
		ServiceName:    stringField(data, "service"),
		ServicePrice:   amountField(data, "price"),
		ServiceCharges: amountField(data, "serviceCharges"),
		Discount:       amountField(data, "discount"),
		Tax:            amountField(data, "tax"),
		ServiceTip:     amountField(data, "serviceTip"),
		Status:         enum.InvoiceStatus(strings.ToLower(stringField(data, "status"))),
		IssueDate:      timeField(data, "issueDate"),
		DueDate:        timePtrField(data, "dueDate"),
		Notes:          stringField(data, "notes"),
		CreatedBy:      stringField(data, "createdBy"),
	}
	inv.VisitRecordedAt = timePtrField(data, "visitRecordedAt")

	if dt, ok := enum.ParseDiscountType(stringField(data, "discountType")); ok {
		inv.DiscountType = dt
	} else {
		inv.DiscountType = enum.DiscountTypeFixed
	}

	inv.Products = make([]entity.LineItem, 0)
	for _, raw := range sliceField(data, "products") {
		p, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		qty := intField(p, "quantity")
		if qty < 1 {
			qty = 1
		}
		inv.Products = append(inv.Products, entity.LineItem{
			ProductID: stringField(p, "productId"),
			Name:      stringField(p, "name"),
			UnitPrice: amountField(p, "price"),
			Quantity:  qty,
		})
	}

	inv.TeamMembers = make([]entity.StaffTip, 0)
	for _, raw := range sliceField(data, "teamMembers") {
		m, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		inv.TeamMembers = append(inv.TeamMembers, entity.StaffTip{
			Name: stringField(m, "name"),
			Tip:  amountField(m, "tip"),
		})
	}

	inv.PaymentMethods = make([]enum.PaymentMethod, 0)
	for _, s := range stringSlice(data, "paymentMethods") {
		if m, ok := enum.ParsePaymentMethod(s); ok && !inv.IsPaymentSelected(m) {
			inv.PaymentMethods = append(inv.PaymentMethods, m)
		}
	}

	amounts := mapField(data, "paymentAmounts")
	inv.PaymentAmounts = make(entity.PaymentAmounts, len(enum.PaymentMethods()))
	for _, m := range enum.PaymentMethods() {
		inv.PaymentAmounts[m] = amountField(amounts, m.String())
	}

	return inv
}

// decodeInvoiceCustomer accepts the customer as a nested object or, for
// older documents, as a plain name with flat contact fields.
func decodeInvoiceCustomer(data map[string]interface{}) entity.InvoiceCustomer {
	if name, ok := data["customer"].(string); ok {
		return entity.InvoiceCustomer{
			ClientID: stringField(data, "clientId"),
			Name:     strings.TrimSpace(name),
			Email:    stringField(data, "customerEmail"),
			Phone:    stringField(data, "customerPhone"),
		}
	}

	c := mapField(data, "customer")
	return entity.InvoiceCustomer{
		ClientID: stringField(c, "clientId"),
		Name:     stringField(c, "name"),
		Email:    stringField(c, "email"),
		Phone:    stringField(c, "phone"),
	}
}
