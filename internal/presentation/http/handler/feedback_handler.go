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

// FeedbackHandler handles customer review HTTP requests
type FeedbackHandler struct {
	feedbackService *service.FeedbackService
}

func NewFeedbackHandler(feedbackService *service.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{feedbackService: feedbackService}
}

func feedbackInput(req *request.FeedbackRequest) *service.FeedbackInput {
	return &service.FeedbackInput{
		BranchID:     req.BranchID,
		ClientID:     req.ClientID,
		CustomerName: req.CustomerName,
		Email:        req.Email,
		Service:      req.Service,
		StaffName:    req.StaffName,
		Rating:       req.Rating,
		Comment:      req.Comment,
		Status:       req.Status,
	}
}

func (h *FeedbackHandler) filterParams(c *gin.Context) (*repository.FeedbackFilterParams, bool) {
	var filter request.FeedbackFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return nil, false
	}
	status, ok := parseOptional(filter.Status, enum.ParseFeedbackStatus)
	if !ok {
		response.BadRequest(c, "Invalid feedback status")
		return nil, false
	}
	return &repository.FeedbackFilterParams{
		Pagination: pageParams(filter.Page, filter.PerPage),
		Search:     filter.Search,
		Status:     status,
		BranchID:   filter.BranchID,
		Rating:     filter.Rating,
	}, true
}

func (h *FeedbackHandler) List(c *gin.Context) {
	params, ok := h.filterParams(c)
	if !ok {
		return
	}

	result, err := h.feedbackService.ListFeedback(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Feedback retrieved successfully", result)
}

// Stats summarizes the reviews matching the list filters
func (h *FeedbackHandler) Stats(c *gin.Context) {
	params, ok := h.filterParams(c)
	if !ok {
		return
	}

	stats, err := h.feedbackService.FeedbackStats(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Feedback stats retrieved successfully", stats)
}

func (h *FeedbackHandler) Create(c *gin.Context) {
	var req request.FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	feedback, err := h.feedbackService.CreateFeedback(c.Request.Context(), feedbackInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Feedback created successfully", feedback)
}

func (h *FeedbackHandler) Get(c *gin.Context) {
	feedback, err := h.feedbackService.GetFeedback(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Feedback retrieved successfully", feedback)
}

func (h *FeedbackHandler) Update(c *gin.Context) {
	var req request.FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	feedback, err := h.feedbackService.UpdateFeedback(c.Request.Context(), c.Param("id"), feedbackInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Feedback updated successfully", feedback)
}

func (h *FeedbackHandler) Respond(c *gin.Context) {
	var req request.FeedbackResponseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	feedback, err := h.feedbackService.RespondToFeedback(c.Request.Context(), c.Param("id"), req.Response)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Response saved successfully", feedback)
}

func (h *FeedbackHandler) Delete(c *gin.Context) {
	if err := h.feedbackService.DeleteFeedback(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

func (h *FeedbackHandler) Export(c *gin.Context) {
	params, ok := h.filterParams(c)
	if !ok {
		return
	}

	exportFile(c, csvContentType, exportName("feedback", "csv"), func(ctx context.Context, w io.Writer) error {
		return h.feedbackService.ExportFeedbackCSV(ctx, w, params)
	})
}
