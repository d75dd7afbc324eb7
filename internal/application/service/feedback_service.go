package service

import (
	"context"
	"io"
	"strings"

	"github.com/sangkips/salon-api/internal/domain/entity"
	"github.com/sangkips/salon-api/internal/domain/enum"
	"github.com/sangkips/salon-api/internal/domain/repository"
	"github.com/sangkips/salon-api/internal/domain/stats"
	infraRepo "github.com/sangkips/salon-api/internal/infrastructure/repository"
	"github.com/sangkips/salon-api/pkg/apperror"
	"github.com/sangkips/salon-api/pkg/csvexport"
	"github.com/sangkips/salon-api/pkg/pagination"
)

// FeedbackService handles customer feedback
type FeedbackService struct {
	feedbackRepo repository.FeedbackRepository
	branchRepo   repository.BranchRepository
}

// NewFeedbackService creates a new feedback service
func NewFeedbackService(feedbackRepo repository.FeedbackRepository, branchRepo repository.BranchRepository) *FeedbackService {
	return &FeedbackService{feedbackRepo: feedbackRepo, branchRepo: branchRepo}
}

// FeedbackInput represents the create/update feedback input
type FeedbackInput struct {
	BranchID     string
	ClientID     string
	CustomerName string
	Email        string
	Service      string
	StaffName    string
	Rating       int
	Comment      string
	Status       enum.FeedbackStatus
}

func (in *FeedbackInput) validate() error {
	v := &apperror.Validator{}
	v.Check(strings.TrimSpace(in.CustomerName) != "", "customer_name", "is required")
	v.Check(in.Rating >= 1 && in.Rating <= 5, "rating", "must be between 1 and 5")
	v.Check(in.Status == "" || in.Status.IsValid(), "status", "unknown status %q", in.Status)
	return v.Err()
}

func (in *FeedbackInput) applyTo(f *entity.Feedback) {
	f.BranchID = strings.TrimSpace(in.BranchID)
	f.ClientID = strings.TrimSpace(in.ClientID)
	f.CustomerName = strings.TrimSpace(in.CustomerName)
	f.Email = strings.TrimSpace(in.Email)
	f.Service = strings.TrimSpace(in.Service)
	f.StaffName = strings.TrimSpace(in.StaffName)
	f.Rating = in.Rating
	f.Comment = in.Comment
	if in.Status != "" {
		f.Status = in.Status
	}
}

// CreateFeedback records a new review
func (s *FeedbackService) CreateFeedback(ctx context.Context, input *FeedbackInput) (*entity.Feedback, error) {
	if _, ok := infraRepo.GetTenantID(ctx); !ok {
		return nil, apperror.ErrTenantRequired
	}
	if err := input.validate(); err != nil {
		return nil, err
	}

	f := &entity.Feedback{Status: enum.FeedbackStatusNew}
	input.applyTo(f)

	if err := s.feedbackRepo.Create(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

// GetFeedback retrieves a review by ID
func (s *FeedbackService) GetFeedback(ctx context.Context, id string) (*entity.Feedback, error) {
	f, err := s.feedbackRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, apperror.NewNotFoundError("Feedback")
	}
	return f, nil
}

// ListFeedback lists reviews matching the filters, newest first
func (s *FeedbackService) ListFeedback(ctx context.Context, params *repository.FeedbackFilterParams) (*pagination.PaginatedResult[entity.Feedback], error) {
	feedbacks, err := s.filtered(ctx, params)
	if err != nil {
		return nil, err
	}
	var page *pagination.PaginationParams
	if params != nil {
		page = params.Pagination
	}
	return pagination.Paginate(feedbacks, page), nil
}

// FeedbackStats summarizes the reviews matching the filters
func (s *FeedbackService) FeedbackStats(ctx context.Context, params *repository.FeedbackFilterParams) (*FeedbackStats, error) {
	feedbacks, err := s.filtered(ctx, params)
	if err != nil {
		return nil, err
	}
	result := feedbackStats(feedbacks)
	return &result, nil
}

func (s *FeedbackService) filtered(ctx context.Context, params *repository.FeedbackFilterParams) ([]entity.Feedback, error) {
	feedbacks, err := s.feedbackRepo.List(ctx, repository.OrderBy{Field: "createdAt", Desc: true})
	if err != nil {
		return nil, err
	}
	if params == nil {
		return feedbacks, nil
	}

	preds := []stats.Predicate[entity.Feedback]{
		stats.Search(params.Search, func(f entity.Feedback) []string {
			return []string{f.CustomerName, f.Email, f.Comment, f.Service, f.StaffName}
		}),
		stats.Equals(params.Status.String(), func(f entity.Feedback) string { return f.Status.String() }),
		stats.Equals(params.BranchID, func(f entity.Feedback) string { return f.BranchID }),
	}
	if params.Rating > 0 {
		preds = append(preds, func(f entity.Feedback) bool { return f.Rating == params.Rating })
	}
	return stats.Filter(feedbacks, preds...), nil
}

// UpdateFeedback updates a review
func (s *FeedbackService) UpdateFeedback(ctx context.Context, id string, input *FeedbackInput) (*entity.Feedback, error) {
	f, err := s.GetFeedback(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := input.validate(); err != nil {
		return nil, err
	}
	input.applyTo(f)

	if err := s.feedbackRepo.Update(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

// RespondToFeedback stores the salon's reply and marks the review resolved
func (s *FeedbackService) RespondToFeedback(ctx context.Context, id, response string) (*entity.Feedback, error) {
	response = strings.TrimSpace(response)
	if response == "" {
		return nil, apperror.NewValidationError([]apperror.FieldError{{Field: "response", Message: "is required"}})
	}

	f, err := s.GetFeedback(ctx, id)
	if err != nil {
		return nil, err
	}
	f.Response = response
	f.Status = enum.FeedbackStatusResolved

	if err := s.feedbackRepo.Update(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

// DeleteFeedback deletes a review
func (s *FeedbackService) DeleteFeedback(ctx context.Context, id string) error {
	if _, err := s.GetFeedback(ctx, id); err != nil {
		return err
	}
	return s.feedbackRepo.Delete(ctx, id)
}

// ExportFeedbackCSV writes the filtered reviews as CSV
func (s *FeedbackService) ExportFeedbackCSV(ctx context.Context, w io.Writer, params *repository.FeedbackFilterParams) error {
	feedbacks, err := s.filtered(ctx, params)
	if err != nil {
		return err
	}
	branches, err := branchNames(ctx, s.branchRepo)
	if err != nil {
		return err
	}

	table := csvexport.Table{Header: []string{"Date", "Customer", "Email", "Branch", "Service", "Staff", "Rating", "Status", "Comment", "Response"}}
	for _, f := range feedbacks {
		table.AddRow(
			csvexport.String(formatDate(f.CreatedAt)),
			csvexport.String(f.CustomerName),
			csvexport.String(f.Email),
			csvexport.String(branches[f.BranchID]),
			csvexport.String(f.Service),
			csvexport.String(f.StaffName),
			csvexport.Int(f.Rating),
			csvexport.String(f.Status.String()),
			csvexport.String(f.Comment),
			csvexport.String(f.Response),
		)
	}
	return csvexport.Write(w, table)
}
