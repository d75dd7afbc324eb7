package handler

import (
	"context"
	"io"

	"github.com/gin-gonic/gin"

	"github.com/sangkips/salon-api/internal/application/service"
	"github.com/sangkips/salon-api/internal/domain/entity"
	"github.com/sangkips/salon-api/internal/domain/enum"
	"github.com/sangkips/salon-api/internal/domain/repository"
	"github.com/sangkips/salon-api/internal/presentation/http/dto/request"
	"github.com/sangkips/salon-api/internal/presentation/http/dto/response"
)

// InvoiceHandler handles invoice-related HTTP requests
type InvoiceHandler struct {
	invoiceService *service.InvoiceService
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(invoiceService *service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

func invoiceInput(req *request.InvoiceRequest, userID string) *service.InvoiceInput {
	input := &service.InvoiceInput{
		BranchID: req.BranchID,
		Customer: entity.InvoiceCustomer{
			ClientID: req.Customer.ClientID,
			Name:     req.Customer.Name,
			Email:    req.Customer.Email,
			Phone:    req.Customer.Phone,
		},
		ServiceName:    req.Service,
		ServicePrice:   req.Price,
		ServiceCharges: req.ServiceCharges,
		Discount:       req.Discount,
		DiscountType:   req.DiscountType,
		Tax:            req.Tax,
		ServiceTip:     req.ServiceTip,
		PaymentMethods: req.PaymentMethods,
		PaymentAmounts: req.PaymentAmounts,
		Status:         req.Status,
		DueDate:        req.DueDate,
		Notes:          req.Notes,
		CreatedBy:      userID,
	}
	if req.IssueDate != nil {
		input.IssueDate = *req.IssueDate
	}
	for _, p := range req.Products {
		qty := 1
		if p.Quantity != nil {
			qty = *p.Quantity
		}
		input.Products = append(input.Products, entity.LineItem{
			ProductID: p.ProductID,
			Name:      p.Name,
			UnitPrice: p.Price,
			Quantity:  qty,
		})
	}
	for _, m := range req.TeamMembers {
		input.TeamMembers = append(input.TeamMembers, entity.StaffTip{Name: m.Name, Tip: m.Tip})
	}
	return input
}

func (h *InvoiceHandler) filterParams(c *gin.Context) (*repository.InvoiceFilterParams, bool) {
	var filter request.InvoiceFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return nil, false
	}
	status, ok := parseOptional(filter.Status, enum.ParseInvoiceStatus)
	if !ok {
		response.BadRequest(c, "Invalid invoice status")
		return nil, false
	}

	return &repository.InvoiceFilterParams{
		Pagination: pageParams(filter.Page, filter.PerPage),
		Search:     filter.Search,
		Status:     status,
		BranchID:   filter.BranchID,
		ClientID:   filter.ClientID,
		IssuedIn:   dateRange(filter.From, filter.To),
	}, true
}

// List handles listing invoices
func (h *InvoiceHandler) List(c *gin.Context) {
	params, ok := h.filterParams(c)
	if !ok {
		return
	}

	result, err := h.invoiceService.ListInvoices(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Invoices retrieved successfully", result)
}

// Create handles creating an invoice
func (h *InvoiceHandler) Create(c *gin.Context) {
	var req request.InvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	invoice, err := h.invoiceService.CreateInvoice(c.Request.Context(), invoiceInput(&req, GetUserID(c)))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Invoice created successfully", invoice)
}

// Get handles getting a single invoice with its computed totals
func (h *InvoiceHandler) Get(c *gin.Context) {
	invoice, err := h.invoiceService.GetInvoice(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice retrieved successfully", invoice)
}

func (h *InvoiceHandler) Update(c *gin.Context) {
	var req request.InvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	invoice, err := h.invoiceService.UpdateInvoice(c.Request.Context(), c.Param("id"), invoiceInput(&req, GetUserID(c)))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice updated successfully", invoice)
}

func (h *InvoiceHandler) UpdateStatus(c *gin.Context) {
	var req request.InvoiceStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	invoice, err := h.invoiceService.UpdateInvoiceStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice status updated successfully", invoice)
}

// RecordPayment handles selecting a payment method with its amount
func (h *InvoiceHandler) RecordPayment(c *gin.Context) {
	var req request.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	invoice, err := h.invoiceService.RecordPayment(c.Request.Context(), c.Param("id"), req.Method, req.Amount)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment recorded successfully", invoice)
}

func (h *InvoiceHandler) SetPaymentMethods(c *gin.Context) {
	var req request.PaymentMethodsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	invoice, err := h.invoiceService.SetPaymentMethods(c.Request.Context(), c.Param("id"), req.Methods)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment methods updated successfully", invoice)
}

func (h *InvoiceHandler) Delete(c *gin.Context) {
	if err := h.invoiceService.DeleteInvoice(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// Export handles downloading the filtered invoices as CSV, or as an Excel
// workbook with format=xlsx
func (h *InvoiceHandler) Export(c *gin.Context) {
	params, ok := h.filterParams(c)
	if !ok {
		return
	}

	if c.Query("format") == "xlsx" {
		exportFile(c, xlsxContentType, exportName("invoices", "xlsx"), func(ctx context.Context, w io.Writer) error {
			return h.invoiceService.ExportInvoicesXLSX(ctx, w, params)
		})
		return
	}
	exportFile(c, csvContentType, exportName("invoices", "csv"), func(ctx context.Context, w io.Writer) error {
		return h.invoiceService.ExportInvoicesCSV(ctx, w, params)
	})
}
