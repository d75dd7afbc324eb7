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

// BookingHandler handles appointment HTTP requests
type BookingHandler struct {
	bookingService *service.BookingService
}

func NewBookingHandler(bookingService *service.BookingService) *BookingHandler {
	return &BookingHandler{bookingService: bookingService}
}

func bookingInput(req *request.BookingRequest) *service.BookingInput {
	return &service.BookingInput{
		BranchID:     req.BranchID,
		ClientID:     req.ClientID,
		CustomerName: req.CustomerName,
		Phone:        req.Phone,
		Email:        req.Email,
		ServiceID:    req.ServiceID,
		ServiceName:  req.ServiceName,
		StaffName:    req.StaffName,
		Price:        req.Price,
		Duration:     req.Duration,
		StartsAt:     req.StartsAt,
		Notes:        req.Notes,
	}
}

func (h *BookingHandler) filterParams(c *gin.Context) (*repository.BookingFilterParams, bool) {
	var filter request.BookingFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return nil, false
	}
	status, ok := parseOptional(filter.Status, enum.ParseBookingStatus)
	if !ok {
		response.BadRequest(c, "Invalid booking status")
		return nil, false
	}
	return &repository.BookingFilterParams{
		Pagination: pageParams(filter.Page, filter.PerPage),
		Search:     filter.Search,
		Status:     status,
		BranchID:   filter.BranchID,
		ClientID:   filter.ClientID,
		StartsIn:   dateRange(filter.From, filter.To),
	}, true
}

func (h *BookingHandler) List(c *gin.Context) {
	params, ok := h.filterParams(c)
	if !ok {
		return
	}

	result, err := h.bookingService.ListBookings(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Bookings retrieved successfully", result)
}

func (h *BookingHandler) Create(c *gin.Context) {
	var req request.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	booking, err := h.bookingService.CreateBooking(c.Request.Context(), bookingInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Booking created successfully", booking)
}

func (h *BookingHandler) Get(c *gin.Context) {
	booking, err := h.bookingService.GetBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Booking retrieved successfully", booking)
}

func (h *BookingHandler) Update(c *gin.Context) {
	var req request.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	booking, err := h.bookingService.UpdateBooking(c.Request.Context(), c.Param("id"), bookingInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Booking updated successfully", booking)
}

func (h *BookingHandler) UpdateStatus(c *gin.Context) {
	var req request.BookingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	booking, err := h.bookingService.UpdateBookingStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Booking status updated successfully", booking)
}

func (h *BookingHandler) Delete(c *gin.Context) {
	if err := h.bookingService.DeleteBooking(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

func (h *BookingHandler) Export(c *gin.Context) {
	params, ok := h.filterParams(c)
	if !ok {
		return
	}

	exportFile(c, csvContentType, exportName("bookings", "csv"), func(ctx context.Context, w io.Writer) error {
		return h.bookingService.ExportBookingsCSV(ctx, w, params)
	})
}
