package service

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

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

// ProductService handles retail product operations
type ProductService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
}

// NewProductService creates a new product service
func NewProductService(productRepo repository.ProductRepository, categoryRepo repository.CategoryRepository) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
	}
}

// ProductInput represents the create/update product input
type ProductInput struct {
	CategoryID        string
	Name              string
	SKU               string
	Description       string
	Price             decimal.Decimal
	Cost              decimal.Decimal
	Stock             int
	LowStockThreshold int
	UnitsSold         int
	Status            enum.RecordStatus
}

func (in *ProductInput) validate() error {
	v := &apperror.Validator{}
	v.Check(strings.TrimSpace(in.Name) != "", "name", "is required")
	v.Check(!in.Price.IsNegative(), "price", "must not be negative")
	v.Check(!in.Cost.IsNegative(), "cost", "must not be negative")
	v.Check(in.Stock >= 0, "stock", "must not be negative")
	v.Check(in.LowStockThreshold >= 0, "low_stock_threshold", "must not be negative")
	v.Check(in.UnitsSold >= 0, "units_sold", "must not be negative")
	v.Check(in.Status == "" || in.Status.IsValid(), "status", "unknown status %q", in.Status)
	return v.Err()
}

func (in *ProductInput) applyTo(p *entity.Product) {
	p.CategoryID = strings.TrimSpace(in.CategoryID)
	p.Name = strings.TrimSpace(in.Name)
	p.Description = in.Description
	p.Price = in.Price
	p.Cost = in.Cost
	p.Stock = in.Stock
	p.LowStockThreshold = in.LowStockThreshold
	p.UnitsSold = in.UnitsSold
	if in.Status != "" {
		p.Status = in.Status
	}
}

// CreateProduct creates a new product. A SKU is generated when none is given.
func (s *ProductService) CreateProduct(ctx context.Context, input *ProductInput) (*entity.Product, error) {
	if _, ok := infraRepo.GetTenantID(ctx); !ok {
		return nil, apperror.ErrTenantRequired
	}
	if err := input.validate(); err != nil {
		return nil, err
	}
	if err := checkCategory(ctx, s.categoryRepo, input.CategoryID, enum.CategoryTypeProduct); err != nil {
		return nil, err
	}

	sku := strings.ToUpper(strings.TrimSpace(input.SKU))
	if sku == "" {
		sku = utils.GenerateSKU()
	}
	if err := s.checkSKU(ctx, sku, ""); err != nil {
		return nil, err
	}

	product := &entity.Product{SKU: sku, Status: enum.RecordStatusActive}
	input.applyTo(product)

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *ProductService) checkSKU(ctx context.Context, sku, selfID string) error {
	existing, err := s.productRepo.GetBySKU(ctx, sku)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != selfID {
		return apperror.NewConflictError(fmt.Sprintf("Product SKU '%s' already exists", sku))
	}
	return nil
}

// checkCategory verifies that a referenced category exists and groups the
// right kind of item.
func checkCategory(ctx context.Context, repo repository.CategoryRepository, id string, want enum.CategoryType) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil
	}
	category, err := repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if category == nil {
		return apperror.NewNotFoundError("Category")
	}
	if category.Type != "" && category.Type != want {
		return apperror.NewValidationError([]apperror.FieldError{{
			Field:   "category_id",
			Message: fmt.Sprintf("category %q groups %ss", category.Name, category.Type),
		}})
	}
	return nil
}

// GetProduct retrieves a product by ID
func (s *ProductService) GetProduct(ctx context.Context, id string) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	return product, nil
}

// ListProducts lists products matching the filters, by name
func (s *ProductService) ListProducts(ctx context.Context, params *repository.ProductFilterParams) (*pagination.PaginatedResult[entity.Product], error) {
	products, err := s.filtered(ctx, params)
	if err != nil {
		return nil, err
	}
	var page *pagination.PaginationParams
	if params != nil {
		page = params.Pagination
	}
	return pagination.Paginate(products, page), nil
}

func (s *ProductService) filtered(ctx context.Context, params *repository.ProductFilterParams) ([]entity.Product, error) {
	products, err := s.productRepo.List(ctx, repository.OrderBy{Field: "name"})
	if err != nil {
		return nil, err
	}
	if params == nil {
		return products, nil
	}

	preds := []stats.Predicate[entity.Product]{
		stats.Search(params.Search, func(p entity.Product) []string { return []string{p.Name, p.SKU, p.Description} }),
		stats.Equals(params.CategoryID, func(p entity.Product) string { return p.CategoryID }),
		stats.Equals(params.Status.String(), func(p entity.Product) string { return p.Status.String() }),
	}
	if params.LowStock {
		preds = append(preds, func(p entity.Product) bool { return p.IsLowStock() })
	}
	return stats.Filter(products, preds...), nil
}

// UpdateProduct updates a product
func (s *ProductService) UpdateProduct(ctx context.Context, id string, input *ProductInput) (*entity.Product, error) {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := input.validate(); err != nil {
		return nil, err
	}
	if err := checkCategory(ctx, s.categoryRepo, input.CategoryID, enum.CategoryTypeProduct); err != nil {
		return nil, err
	}
	if sku := strings.ToUpper(strings.TrimSpace(input.SKU)); sku != "" && sku != product.SKU {
		if err := s.checkSKU(ctx, sku, product.ID); err != nil {
			return nil, err
		}
		product.SKU = sku
	}
	input.applyTo(product)

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// AdjustStock adds delta to the stock on hand. Stock never goes below zero.
func (s *ProductService) AdjustStock(ctx context.Context, id string, delta int) (*entity.Product, error) {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if product.Stock+delta < 0 {
		return nil, apperror.NewBadRequestError(fmt.Sprintf("Insufficient stock for %s: %d available", product.Name, product.Stock))
	}
	product.Stock += delta

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteProduct deletes a product
func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	if _, err := s.GetProduct(ctx, id); err != nil {
		return err
	}
	return s.productRepo.Delete(ctx, id)
}

var productExportHeader = []string{"SKU", "Name", "Category", "Price", "Cost", "Stock", "Low Stock Threshold", "Units Sold", "Status"}

// ExportProductsCSV writes the filtered products as CSV. The file can be
// imported back.
func (s *ProductService) ExportProductsCSV(ctx context.Context, w io.Writer, params *repository.ProductFilterParams) error {
	products, err := s.filtered(ctx, params)
	if err != nil {
		return err
	}
	categories, err := s.categoryRepo.List(ctx, repository.OrderBy{})
	if err != nil {
		return err
	}
	names := make(map[string]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}

	table := csvexport.Table{Header: productExportHeader}
	for _, p := range products {
		table.AddRow(
			csvexport.String(p.SKU),
			csvexport.String(p.Name),
			csvexport.String(names[p.CategoryID]),
			csvexport.Number(p.Price),
			csvexport.Number(p.Cost),
			csvexport.Int(p.Stock),
			csvexport.Int(p.LowStockThreshold),
			csvexport.Int(p.UnitsSold),
			csvexport.String(p.Status.String()),
		)
	}
	return csvexport.Write(w, table)
}

// ImportProductRow is one data row of a product import file
type ImportProductRow struct {
	// Row is the 1-based line in the source file, 0 when unknown.
	Row               int
	SKU               string
	Name              string
	CategoryName      string
	Price             decimal.Decimal
	Cost              decimal.Decimal
	Stock             int
	LowStockThreshold int
	Status            string
}

// ImportResult contains the result of a product import operation
type ImportResult struct {
	TotalRows  int              `json:"total_rows"`
	Successful int              `json:"successful"`
	Failed     int              `json:"failed"`
	Errors     []ImportRowError `json:"errors,omitempty"`
}

// ImportRowError describes an error for a specific row during import
type ImportRowError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ParseProductRows maps the rows of an import file to products. The first
// row is the header; columns are matched by name so the export format and
// hand-made sheets both work. Unparseable cells are reported per row.
func ParseProductRows(records [][]string) ([]ImportProductRow, []ImportRowError) {
	if len(records) == 0 {
		return nil, []ImportRowError{{Row: 1, Field: "header", Message: "File is empty"}}
	}

	cols := make(map[string]int, len(records[0]))
	for i, h := range records[0] {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	if _, ok := cols["name"]; !ok {
		return nil, []ImportRowError{{Row: 1, Field: "name", Message: "Missing Name column"}}
	}

	rows := make([]ImportProductRow, 0, len(records)-1)
	var errs []ImportRowError
	for i, rec := range records[1:] {
		rowNum := i + 2
		cell := func(names ...string) string {
			for _, n := range names {
				if idx, ok := cols[n]; ok && idx < len(rec) {
					return strings.TrimSpace(rec[idx])
				}
			}
			return ""
		}

		row := ImportProductRow{
			Row:          rowNum,
			SKU:          cell("sku", "code"),
			Name:         cell("name"),
			CategoryName: cell("category"),
			Status:       cell("status"),
		}

		ok := true
		parseMoney := func(field string, dst *decimal.Decimal, names ...string) {
			raw := cell(names...)
			if raw == "" {
				return
			}
			d, err := decimal.NewFromString(raw)
			if err != nil {
				errs = append(errs, ImportRowError{Row: rowNum, Field: field, Message: fmt.Sprintf("%q is not a number", raw)})
				ok = false
				return
			}
			*dst = d
		}
		parseInt := func(field string, dst *int, names ...string) {
			raw := cell(names...)
			if raw == "" {
				return
			}
			n, err := strconv.Atoi(raw)
			if err != nil {
				errs = append(errs, ImportRowError{Row: rowNum, Field: field, Message: fmt.Sprintf("%q is not a whole number", raw)})
				ok = false
				return
			}
			*dst = n
		}
		parseMoney("price", &row.Price, "price", "selling price")
		parseMoney("cost", &row.Cost, "cost", "buying price")
		parseInt("stock", &row.Stock, "stock", "quantity")
		parseInt("low_stock_threshold", &row.LowStockThreshold, "low stock threshold", "quantity alert")

		if ok {
			rows = append(rows, row)
		}
	}
	return rows, errs
}

// ImportProducts validates and creates products from parsed import rows.
// Rows that fail are reported and skipped; the others are stored.
func (s *ProductService) ImportProducts(ctx context.Context, rows []ImportProductRow) (*ImportResult, error) {
	if _, ok := infraRepo.GetTenantID(ctx); !ok {
		return nil, apperror.ErrTenantRequired
	}

	result := &ImportResult{TotalRows: len(rows)}

	categories, err := s.categoryRepo.List(ctx, repository.OrderBy{})
	if err != nil {
		return nil, err
	}
	categoryIDs := make(map[string]string, len(categories))
	for _, c := range categories {
		categoryIDs[strings.ToLower(c.Name)] = c.ID
	}

	seenSKUs := make(map[string]int)
	for i, row := range rows {
		rowNum := row.Row
		if rowNum == 0 {
			rowNum = i + 2
		}

		input := &ProductInput{
			Name:              row.Name,
			SKU:               row.SKU,
			Price:             row.Price,
			Cost:              row.Cost,
			Stock:             row.Stock,
			LowStockThreshold: row.LowStockThreshold,
		}
		if row.Status != "" {
			status, ok := enum.ParseRecordStatus(row.Status)
			if !ok {
				result.Errors = append(result.Errors, ImportRowError{Row: rowNum, Field: "status", Message: fmt.Sprintf("Unknown status '%s'", row.Status)})
				continue
			}
			input.Status = status
		}
		if row.CategoryName != "" {
			id, ok := categoryIDs[strings.ToLower(strings.TrimSpace(row.CategoryName))]
			if !ok {
				result.Errors = append(result.Errors, ImportRowError{Row: rowNum, Field: "category", Message: fmt.Sprintf("Unknown category '%s'", row.CategoryName)})
				continue
			}
			input.CategoryID = id
		}

		if sku := strings.ToUpper(strings.TrimSpace(row.SKU)); sku != "" {
			if prev, dup := seenSKUs[sku]; dup {
				result.Errors = append(result.Errors, ImportRowError{
					Row:     rowNum,
					Field:   "sku",
					Message: fmt.Sprintf("Duplicate SKU '%s' (same as row %d)", sku, prev),
				})
				continue
			}
			seenSKUs[sku] = rowNum
		}

		if _, err := s.CreateProduct(ctx, input); err != nil {
			result.Errors = append(result.Errors, importError(rowNum, err))
			continue
		}
		result.Successful++
	}

	result.Failed = len(result.Errors)
	return result, nil
}

func importError(row int, err error) ImportRowError {
	appErr := apperror.GetAppError(err)
	if len(appErr.Errors) > 0 {
		return ImportRowError{Row: row, Field: appErr.Errors[0].Field, Message: appErr.Errors[0].Message}
	}
	return ImportRowError{Row: row, Message: appErr.Message}
}

// ImportProductRecords parses the rows of an import file and imports every
// row that parsed cleanly.
func (s *ProductService) ImportProductRecords(ctx context.Context, records [][]string) (*ImportResult, error) {
	rows, parseErrs := ParseProductRows(records)
	if len(rows) == 0 && len(parseErrs) > 0 && parseErrs[0].Row == 1 {
		return nil, apperror.NewBadRequestError(parseErrs[0].Message)
	}

	result, err := s.ImportProducts(ctx, rows)
	if err != nil {
		return nil, err
	}

	failedRows := make(map[int]bool)
	for _, e := range parseErrs {
		failedRows[e.Row] = true
	}
	result.TotalRows += len(failedRows)
	result.Failed += len(failedRows)
	result.Errors = append(parseErrs, result.Errors...)
	return result, nil
}
