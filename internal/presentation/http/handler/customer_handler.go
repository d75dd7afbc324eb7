package handler

import (
	"context"
	"io"

	"github.com/gin-gonic/gin"

	"github.com/sangkips/salon-api/internal/application/service"
	"github.com/sangkips/salon-api/internal/domain/enum"
	"github.com/sangkips/salon-api/internal/domain/repository"
	"github.com/sangkips/salon-api/internal/presentation/http/dto/request"
	"github.com/sangkips/salon-api/internal/presentation/http/dto/response"
)

// ClientHandler handles salon client HTTP requests
type ClientHandler struct {
	clientService *service.ClientService
}

// NewClientHandler creates a new client handler
func NewClientHandler(clientService *service.ClientService) *ClientHandler {
	return &ClientHandler{clientService: clientService}
}

func clientInput(req *request.ClientRequest) *service.ClientInput {
	return &service.ClientInput{
		Name:              req.Name,
		Email:             req.Email,
		Phone:             req.Phone,
		Address:           req.Address,
		Notes:             req.Notes,
		PreferredBranchID: req.PreferredBranchID,
		Status:            req.Status,
	}
}

func (h *ClientHandler) filterParams(c *gin.Context) (*repository.ClientFilterParams, bool) {
	var filter request.ClientFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return nil, false
	}
	status, ok := parseOptional(filter.Status, enum.ParseClientStatus)
	if !ok {
		response.BadRequest(c, "Invalid client status")
		return nil, false
	}
	return &repository.ClientFilterParams{
		Pagination: pageParams(filter.Page, filter.PerPage),
		Search:     filter.Search,
		Status:     status,
		BranchID:   filter.BranchID,
	}, true
}

// List handles listing clients
func (h *ClientHandler) List(c *gin.Context) {
	params, ok := h.filterParams(c)
	if !ok {
		return
	}

	result, err := h.clientService.ListClients(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Clients retrieved successfully", result)
}

// Create handles creating a client
func (h *ClientHandler) Create(c *gin.Context) {
	var req request.ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	client, err := h.clientService.CreateClient(c.Request.Context(), clientInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Client created successfully", client)
}

// Get handles getting a single client
func (h *ClientHandler) Get(c *gin.Context) {
	client, err := h.clientService.GetClient(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Client retrieved successfully", client)
}

// Update handles updating a client
func (h *ClientHandler) Update(c *gin.Context) {
	var req request.ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	client, err := h.clientService.UpdateClient(c.Request.Context(), c.Param("id"), clientInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Client updated successfully", client)
}

// Delete handles deleting a client
func (h *ClientHandler) Delete(c *gin.Context) {
	if err := h.clientService.DeleteClient(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

func (h *ClientHandler) Export(c *gin.Context) {
	params, ok := h.filterParams(c)
	if !ok {
		return
	}

	exportFile(c, csvContentType, exportName("clients", "csv"), func(ctx context.Context, w io.Writer) error {
		return h.clientService.ExportClientsCSV(ctx, w, params)
	})
}

// BranchHandler handles salon location HTTP requests
type BranchHandler struct {
	branchService *service.BranchService
}

// NewBranchHandler creates a new branch handler
func NewBranchHandler(branchService *service.BranchService) *BranchHandler {
	return &BranchHandler{branchService: branchService}
}

func branchInput(req *request.BranchRequest) *service.BranchInput {
	return &service.BranchInput{
		Name:    req.Name,
		Address: req.Address,
		Phone:   req.Phone,
		Email:   req.Email,
		Manager: req.Manager,
		Status:  req.Status,
	}
}

func (h *BranchHandler) List(c *gin.Context) {
	var filter request.CatalogFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}
	status, ok := parseOptional(filter.Status, enum.ParseRecordStatus)
	if !ok {
		response.BadRequest(c, "Invalid branch status")
		return
	}

	result, err := h.branchService.ListBranches(c.Request.Context(), &repository.BranchFilterParams{
		Pagination: pageParams(filter.Page, filter.PerPage),
		Search:     filter.Search,
		Status:     status,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Branches retrieved successfully", result)
}

func (h *BranchHandler) Create(c *gin.Context) {
	var req request.BranchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	branch, err := h.branchService.CreateBranch(c.Request.Context(), branchInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Branch created successfully", branch)
}

func (h *BranchHandler) Get(c *gin.Context) {
	branch, err := h.branchService.GetBranch(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Branch retrieved successfully", branch)
}

func (h *BranchHandler) Update(c *gin.Context) {
	var req request.BranchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	branch, err := h.branchService.UpdateBranch(c.Request.Context(), c.Param("id"), branchInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Branch updated successfully", branch)
}

func (h *BranchHandler) Delete(c *gin.Context) {
	if err := h.branchService.DeleteBranch(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
