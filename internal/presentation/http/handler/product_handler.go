package handler

import (
	"context"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sangkips/salon-api/internal/application/service"
	"github.com/sangkips/salon-api/internal/domain/enum"
	"github.com/sangkips/salon-api/internal/domain/repository"
	"github.com/sangkips/salon-api/internal/presentation/http/dto/request"
	"github.com/sangkips/salon-api/internal/presentation/http/dto/response"
	"github.com/sangkips/salon-api/pkg/csvexport"
)

const maxImportSize = 5 << 20

// ProductHandler handles retail product HTTP requests
type ProductHandler struct {
	productService *service.ProductService
}

// NewProductHandler creates a new product handler
func NewProductHandler(productService *service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

func productInput(req *request.ProductRequest) *service.ProductInput {
	return &service.ProductInput{
		CategoryID:        req.CategoryID,
		Name:              req.Name,
		SKU:               req.SKU,
		Description:       req.Description,
		Price:             req.Price,
		Cost:              req.Cost,
		Stock:             req.Stock,
		LowStockThreshold: req.LowStockThreshold,
		UnitsSold:         req.UnitsSold,
		Status:            req.Status,
	}
}

func (h *ProductHandler) filterParams(c *gin.Context) (*repository.ProductFilterParams, bool) {
	var filter request.ProductFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return nil, false
	}
	status, ok := parseOptional(filter.Status, enum.ParseRecordStatus)
	if !ok {
		response.BadRequest(c, "Invalid product status")
		return nil, false
	}
	return &repository.ProductFilterParams{
		Pagination: pageParams(filter.Page, filter.PerPage),
		Search:     filter.Search,
		CategoryID: filter.CategoryID,
		Status:     status,
		LowStock:   filter.LowStock,
	}, true
}

// List handles listing products
func (h *ProductHandler) List(c *gin.Context) {
	params, ok := h.filterParams(c)
	if !ok {
		return
	}

	result, err := h.productService.ListProducts(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Products retrieved successfully", result)
}

// Create handles creating a product
func (h *ProductHandler) Create(c *gin.Context) {
	var req request.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	product, err := h.productService.CreateProduct(c.Request.Context(), productInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Product created successfully", product)
}

// Get handles getting a single product
func (h *ProductHandler) Get(c *gin.Context) {
	product, err := h.productService.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Product retrieved successfully", product)
}

func (h *ProductHandler) Update(c *gin.Context) {
	var req request.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	product, err := h.productService.UpdateProduct(c.Request.Context(), c.Param("id"), productInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Product updated successfully", product)
}

// AdjustStock adds to or removes from the stock on hand
func (h *ProductHandler) AdjustStock(c *gin.Context) {
	var req request.StockAdjustmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	product, err := h.productService.AdjustStock(c.Request.Context(), c.Param("id"), req.Delta)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Stock adjusted successfully", product)
}

func (h *ProductHandler) Delete(c *gin.Context) {
	if err := h.productService.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

func (h *ProductHandler) Export(c *gin.Context) {
	params, ok := h.filterParams(c)
	if !ok {
		return
	}

	exportFile(c, csvContentType, exportName("products", "csv"), func(ctx context.Context, w io.Writer) error {
		return h.productService.ExportProductsCSV(ctx, w, params)
	})
}

// ImportProducts handles a CSV or Excel upload in the "file" form field.
// Rows that fail are reported in the result; the rest are created.
func (h *ProductHandler) ImportProducts(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImportSize)

	f, fh, err := c.Request.FormFile("file")
	if err != nil {
		response.BadRequest(c, "file is required")
		return
	}
	defer f.Close()

	var records [][]string
	switch strings.ToLower(filepath.Ext(fh.Filename)) {
	case ".xlsx":
		records, err = csvexport.ReadXLSX(f)
	case ".csv", "":
		var header []string
		var rows [][]string
		header, rows, err = csvexport.Parse(f)
		if err == nil {
			records = append([][]string{header}, rows...)
		}
	default:
		response.BadRequest(c, "Only .csv and .xlsx files can be imported")
		return
	}
	if err != nil {
		response.BadRequest(c, "Could not read file: "+err.Error())
		return
	}

	result, err := h.productService.ImportProductRecords(c.Request.Context(), records)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Products imported", result)
}

// CategoryHandler handles category HTTP requests
type CategoryHandler struct {
	categoryService *service.CategoryService
}

func NewCategoryHandler(categoryService *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

func (h *CategoryHandler) List(c *gin.Context) {
	var filter request.CatalogFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}
	kind, ok := parseOptional(filter.Type, enum.ParseCategoryType)
	if !ok {
		response.BadRequest(c, "Invalid category type")
		return
	}

	result, err := h.categoryService.ListCategories(c.Request.Context(), &repository.CategoryFilterParams{
		Pagination: pageParams(filter.Page, filter.PerPage),
		Search:     filter.Search,
		Type:       kind,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Categories retrieved successfully", result)
}

func (h *CategoryHandler) Create(c *gin.Context) {
	var req request.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	category, err := h.categoryService.CreateCategory(c.Request.Context(), &service.CategoryInput{
		Name:        req.Name,
		Type:        req.Type,
		Description: req.Description,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Category created successfully", category)
}

func (h *CategoryHandler) Get(c *gin.Context) {
	category, err := h.categoryService.GetCategory(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Category retrieved successfully", category)
}

func (h *CategoryHandler) Update(c *gin.Context) {
	var req request.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	category, err := h.categoryService.UpdateCategory(c.Request.Context(), c.Param("id"), &service.CategoryInput{
		Name:        req.Name,
		Type:        req.Type,
		Description: req.Description,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Category updated successfully", category)
}

func (h *CategoryHandler) Delete(c *gin.Context) {
	if err := h.categoryService.DeleteCategory(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// MenuHandler handles the bookable services of the salon
type MenuHandler struct {
	menuService *service.MenuService
}

func NewMenuHandler(menuService *service.MenuService) *MenuHandler {
	return &MenuHandler{menuService: menuService}
}

func serviceInput(req *request.ServiceRequest) *service.ServiceInput {
	return &service.ServiceInput{
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Duration:    req.Duration,
		Status:      req.Status,
	}
}

func (h *MenuHandler) List(c *gin.Context) {
	var filter request.CatalogFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}
	status, ok := parseOptional(filter.Status, enum.ParseRecordStatus)
	if !ok {
		response.BadRequest(c, "Invalid service status")
		return
	}

	result, err := h.menuService.ListServices(c.Request.Context(), &repository.ServiceFilterParams{
		Pagination: pageParams(filter.Page, filter.PerPage),
		Search:     filter.Search,
		CategoryID: filter.CategoryID,
		Status:     status,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Services retrieved successfully", result)
}

func (h *MenuHandler) Create(c *gin.Context) {
	var req request.ServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	sv, err := h.menuService.CreateService(c.Request.Context(), serviceInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Service created successfully", sv)
}

func (h *MenuHandler) Get(c *gin.Context) {
	sv, err := h.menuService.GetService(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Service retrieved successfully", sv)
}

func (h *MenuHandler) Update(c *gin.Context) {
	var req request.ServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	sv, err := h.menuService.UpdateService(c.Request.Context(), c.Param("id"), serviceInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Service updated successfully", sv)
}

func (h *MenuHandler) Delete(c *gin.Context) {
	if err := h.menuService.DeleteService(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
