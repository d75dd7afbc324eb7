package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

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

// BookingService handles appointments
type BookingService struct {
	bookingRepo repository.BookingRepository
	serviceRepo repository.ServiceRepository
	branchRepo  repository.BranchRepository
}

// NewBookingService creates a new booking service
func NewBookingService(
	bookingRepo repository.BookingRepository,
	serviceRepo repository.ServiceRepository,
	branchRepo repository.BranchRepository,
) *BookingService {
	return &BookingService{
		bookingRepo: bookingRepo,
		serviceRepo: serviceRepo,
		branchRepo:  branchRepo,
	}
}

// BookingInput represents the create/update booking input
type BookingInput struct {
	BranchID     string
	ClientID     string
	CustomerName string
	Phone        string
	Email        string
	ServiceID    string
	ServiceName  string
	StaffName    string
	// Price and Duration default to the menu service when unset.
	Price    *decimal.Decimal
	Duration int
	StartsAt time.Time
	Notes    string
}

func (in *BookingInput) validate() error {
	v := &apperror.Validator{}
	v.Check(strings.TrimSpace(in.CustomerName) != "", "customer_name", "is required")
	v.Check(strings.TrimSpace(in.ServiceName) != "" || in.ServiceID != "", "service_name", "is required")
	v.Check(!in.StartsAt.IsZero(), "starts_at", "is required")
	v.Check(in.Duration >= 0, "duration", "must not be negative")
	if in.Price != nil {
		v.Check(!in.Price.IsNegative(), "price", "must not be negative")
	}
	return v.Err()
}

// applyTo copies the input onto b, filling service details from the menu.
func (in *BookingInput) applyTo(b *entity.Booking, svc *entity.Service) {
	b.BranchID = strings.TrimSpace(in.BranchID)
	b.ClientID = strings.TrimSpace(in.ClientID)
	b.CustomerName = strings.TrimSpace(in.CustomerName)
	b.Phone = strings.TrimSpace(in.Phone)
	b.Email = strings.TrimSpace(in.Email)
	b.ServiceID = strings.TrimSpace(in.ServiceID)
	b.ServiceName = strings.TrimSpace(in.ServiceName)
	b.StaffName = strings.TrimSpace(in.StaffName)
	b.Duration = in.Duration
	b.StartsAt = in.StartsAt.UTC()
	b.Notes = in.Notes
	b.Price = decimal.Zero
	if in.Price != nil {
		b.Price = *in.Price
	}

	if svc != nil {
		if b.ServiceName == "" {
			b.ServiceName = svc.Name
		}
		if in.Price == nil {
			b.Price = svc.Price
		}
		if b.Duration == 0 {
			b.Duration = svc.Duration
		}
	}
}

// CreateBooking books an appointment
func (s *BookingService) CreateBooking(ctx context.Context, input *BookingInput) (*entity.Booking, error) {
	if _, ok := infraRepo.GetTenantID(ctx); !ok {
		return nil, apperror.ErrTenantRequired
	}
	if err := input.validate(); err != nil {
		return nil, err
	}
	svc, err := s.lookup(ctx, input)
	if err != nil {
		return nil, err
	}

	b := &entity.Booking{
		Reference: utils.GenerateBookingRef(),
		Status:    enum.BookingStatusPending,
	}
	input.applyTo(b, svc)

	if err := s.checkAvailability(ctx, b); err != nil {
		return nil, err
	}
	if err := s.bookingRepo.Create(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *BookingService) lookup(ctx context.Context, input *BookingInput) (*entity.Service, error) {
	if id := strings.TrimSpace(input.BranchID); id != "" {
		branch, err := s.branchRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if branch == nil {
			return nil, apperror.NewNotFoundError("Branch")
		}
	}

	id := strings.TrimSpace(input.ServiceID)
	if id == "" {
		return nil, nil
	}
	svc, err := s.serviceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if svc == nil {
		return nil, apperror.NewNotFoundError("Service")
	}
	return svc, nil
}

// checkAvailability rejects a booking that overlaps another active booking
// of the same staff member at the same branch.
func (s *BookingService) checkAvailability(ctx context.Context, b *entity.Booking) error {
	if b.StaffName == "" || b.Duration <= 0 {
		return nil
	}
	bookings, err := s.bookingRepo.List(ctx, repository.OrderBy{})
	if err != nil {
		return err
	}
	for i := range bookings {
		other := &bookings[i]
		if other.ID == b.ID || other.Status.IsFinal() || other.Duration <= 0 {
			continue
		}
		if other.BranchID != b.BranchID || !strings.EqualFold(other.StaffName, b.StaffName) {
			continue
		}
		if b.StartsAt.Before(other.EndsAt()) && other.StartsAt.Before(b.EndsAt()) {
			return apperror.NewConflictError(fmt.Sprintf("%s is already booked at %s", b.StaffName, formatDateTime(other.StartsAt)))
		}
	}
	return nil
}

// GetBooking retrieves a booking by ID
func (s *BookingService) GetBooking(ctx context.Context, id string) (*entity.Booking, error) {
	b, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, apperror.NewNotFoundError("Booking")
	}
	return b, nil
}

// ListBookings lists bookings matching the filters, soonest first
func (s *BookingService) ListBookings(ctx context.Context, params *repository.BookingFilterParams) (*pagination.PaginatedResult[entity.Booking], error) {
	bookings, err := s.filtered(ctx, params)
	if err != nil {
		return nil, err
	}
	var page *pagination.PaginationParams
	if params != nil {
		page = params.Pagination
	}
	return pagination.Paginate(bookings, page), nil
}

func (s *BookingService) filtered(ctx context.Context, params *repository.BookingFilterParams) ([]entity.Booking, error) {
	bookings, err := s.bookingRepo.List(ctx, repository.OrderBy{Field: "startsAt"})
	if err != nil {
		return nil, err
	}
	if params == nil {
		return bookings, nil
	}

	preds := []stats.Predicate[entity.Booking]{
		stats.Search(params.Search, func(b entity.Booking) []string {
			return []string{b.Reference, b.CustomerName, b.Phone, b.Email, b.ServiceName, b.StaffName}
		}),
		stats.Equals(params.Status.String(), func(b entity.Booking) string { return b.Status.String() }),
		stats.Equals(params.BranchID, func(b entity.Booking) string { return b.BranchID }),
		stats.Equals(params.ClientID, func(b entity.Booking) string { return b.ClientID }),
	}
	if !params.StartsIn.IsZero() {
		preds = append(preds, func(b entity.Booking) bool { return params.StartsIn.Contains(b.StartsAt) })
	}
	return stats.Filter(bookings, preds...), nil
}

// UpdateBooking reschedules or edits a booking that is not yet final
func (s *BookingService) UpdateBooking(ctx context.Context, id string, input *BookingInput) (*entity.Booking, error) {
	b, err := s.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.Status.IsFinal() {
		return nil, apperror.NewConflictError(fmt.Sprintf("Booking is already %s", b.Status))
	}
	if err := input.validate(); err != nil {
		return nil, err
	}
	svc, err := s.lookup(ctx, input)
	if err != nil {
		return nil, err
	}
	input.applyTo(b, svc)

	if err := s.checkAvailability(ctx, b); err != nil {
		return nil, err
	}
	if err := s.bookingRepo.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// UpdateBookingStatus moves a booking along its lifecycle. Completed,
// cancelled and no-show bookings are final.
func (s *BookingService) UpdateBookingStatus(ctx context.Context, id string, status enum.BookingStatus) (*entity.Booking, error) {
	if !status.IsValid() {
		return nil, apperror.NewValidationError([]apperror.FieldError{{Field: "status", Message: fmt.Sprintf("unknown status %q", status)}})
	}

	b, err := s.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.Status == status {
		return b, nil
	}
	if b.Status.IsFinal() {
		return nil, apperror.NewConflictError(fmt.Sprintf("Booking is already %s", b.Status))
	}

	b.Status = status
	if err := s.bookingRepo.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// DeleteBooking deletes a booking
func (s *BookingService) DeleteBooking(ctx context.Context, id string) error {
	if _, err := s.GetBooking(ctx, id); err != nil {
		return err
	}
	return s.bookingRepo.Delete(ctx, id)
}

// ExportBookingsCSV writes the filtered bookings as CSV
func (s *BookingService) ExportBookingsCSV(ctx context.Context, w io.Writer, params *repository.BookingFilterParams) error {
	bookings, err := s.filtered(ctx, params)
	if err != nil {
		return err
	}
	branches, err := branchNames(ctx, s.branchRepo)
	if err != nil {
		return err
	}

	table := csvexport.Table{Header: []string{"Reference", "Starts At", "Customer", "Phone", "Service", "Staff", "Branch", "Duration", "Price", "Status"}}
	for _, b := range bookings {
		table.AddRow(
			csvexport.String(b.Reference),
			csvexport.String(formatDateTime(b.StartsAt)),
			csvexport.String(b.CustomerName),
			csvexport.String(b.Phone),
			csvexport.String(b.ServiceName),
			csvexport.String(b.StaffName),
			csvexport.String(branches[b.BranchID]),
			csvexport.Int(b.Duration),
			csvexport.Number(b.Price),
			csvexport.String(b.Status.String()),
		)
	}
	return csvexport.Write(w, table)
}
