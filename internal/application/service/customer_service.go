package service

import (
	"context"
	"fmt"
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

// ClientService handles salon client records
type ClientService struct {
	clientRepo repository.ClientRepository
	branchRepo repository.BranchRepository
}

// NewClientService creates a new client service
func NewClientService(clientRepo repository.ClientRepository, branchRepo repository.BranchRepository) *ClientService {
	return &ClientService{clientRepo: clientRepo, branchRepo: branchRepo}
}

// ClientInput represents the create/update client input
type ClientInput struct {
	Name              string
	Email             string
	Phone             string
	Address           string
	Notes             string
	PreferredBranchID string
	Status            enum.ClientStatus
}

func (in *ClientInput) validate() error {
	v := &apperror.Validator{}
	v.Check(strings.TrimSpace(in.Name) != "", "name", "is required")
	v.Check(in.Status == "" || in.Status.IsValid(), "status", "unknown status %q", in.Status)
	return v.Err()
}

func (in *ClientInput) applyTo(c *entity.Client) {
	c.Name = strings.TrimSpace(in.Name)
	c.Email = strings.ToLower(strings.TrimSpace(in.Email))
	c.Phone = strings.TrimSpace(in.Phone)
	c.Address = strings.TrimSpace(in.Address)
	c.Notes = in.Notes
	c.PreferredBranchID = strings.TrimSpace(in.PreferredBranchID)
	if in.Status != "" {
		c.Status = in.Status
	}
}

// CreateClient creates a new client
func (s *ClientService) CreateClient(ctx context.Context, input *ClientInput) (*entity.Client, error) {
	if _, ok := infraRepo.GetTenantID(ctx); !ok {
		return nil, apperror.ErrTenantRequired
	}
	if err := input.validate(); err != nil {
		return nil, err
	}
	if err := s.checkBranch(ctx, input.PreferredBranchID); err != nil {
		return nil, err
	}

	client := &entity.Client{Status: enum.ClientStatusActive}
	input.applyTo(client)

	if err := s.clientRepo.Create(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

func (s *ClientService) checkBranch(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return nil
	}
	branch, err := s.branchRepo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return err
	}
	if branch == nil {
		return apperror.NewNotFoundError("Branch")
	}
	return nil
}

// GetClient retrieves a client by ID
func (s *ClientService) GetClient(ctx context.Context, id string) (*entity.Client, error) {
	client, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, apperror.NewNotFoundError("Client")
	}
	return client, nil
}

// ListClients lists clients, searching across name, email and phone
func (s *ClientService) ListClients(ctx context.Context, params *repository.ClientFilterParams) (*pagination.PaginatedResult[entity.Client], error) {
	clients, err := s.filtered(ctx, params)
	if err != nil {
		return nil, err
	}
	var page *pagination.PaginationParams
	if params != nil {
		page = params.Pagination
	}
	return pagination.Paginate(clients, page), nil
}

func (s *ClientService) filtered(ctx context.Context, params *repository.ClientFilterParams) ([]entity.Client, error) {
	clients, err := s.clientRepo.List(ctx, repository.OrderBy{Field: "name"})
	if err != nil {
		return nil, err
	}
	if params == nil {
		return clients, nil
	}
	return stats.Filter(clients,
		stats.Search(params.Search, func(c entity.Client) []string { return []string{c.Name, c.Email, c.Phone} }),
		stats.Equals(params.Status.String(), func(c entity.Client) string { return c.Status.String() }),
		stats.Equals(params.BranchID, func(c entity.Client) string { return c.PreferredBranchID }),
	), nil
}

// UpdateClient updates a client. Visit history is not editable.
func (s *ClientService) UpdateClient(ctx context.Context, id string, input *ClientInput) (*entity.Client, error) {
	client, err := s.GetClient(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := input.validate(); err != nil {
		return nil, err
	}
	if err := s.checkBranch(ctx, input.PreferredBranchID); err != nil {
		return nil, err
	}
	input.applyTo(client)

	if err := s.clientRepo.Update(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

// DeleteClient deletes a client
func (s *ClientService) DeleteClient(ctx context.Context, id string) error {
	if _, err := s.GetClient(ctx, id); err != nil {
		return err
	}
	return s.clientRepo.Delete(ctx, id)
}

// ExportClientsCSV writes the filtered clients as CSV
func (s *ClientService) ExportClientsCSV(ctx context.Context, w io.Writer, params *repository.ClientFilterParams) error {
	clients, err := s.filtered(ctx, params)
	if err != nil {
		return err
	}

	table := csvexport.Table{Header: []string{"Name", "Email", "Phone", "Status", "Total Visits", "Total Spent", "Last Visit"}}
	for _, c := range clients {
		lastVisit := ""
		if c.LastVisit != nil {
			lastVisit = formatDate(*c.LastVisit)
		}
		table.AddRow(
			csvexport.String(c.Name),
			csvexport.String(c.Email),
			csvexport.String(c.Phone),
			csvexport.String(c.Status.String()),
			csvexport.Int(c.TotalVisits),
			csvexport.Number(c.TotalSpent),
			csvexport.String(lastVisit),
		)
	}
	return csvexport.Write(w, table)
}

// BranchService handles salon locations
type BranchService struct {
	branchRepo repository.BranchRepository
}

// NewBranchService creates a new branch service
func NewBranchService(branchRepo repository.BranchRepository) *BranchService {
	return &BranchService{branchRepo: branchRepo}
}

// BranchInput represents the create/update branch input
type BranchInput struct {
	Name    string
	Address string
	Phone   string
	Email   string
	Manager string
	Status  enum.RecordStatus
}

func (in *BranchInput) validate() error {
	v := &apperror.Validator{}
	v.Check(strings.TrimSpace(in.Name) != "", "name", "is required")
	v.Check(in.Status == "" || in.Status.IsValid(), "status", "unknown status %q", in.Status)
	return v.Err()
}

func (in *BranchInput) applyTo(b *entity.Branch) {
	b.Name = strings.TrimSpace(in.Name)
	b.Address = strings.TrimSpace(in.Address)
	b.Phone = strings.TrimSpace(in.Phone)
	b.Email = strings.TrimSpace(in.Email)
	b.Manager = strings.TrimSpace(in.Manager)
	if in.Status != "" {
		b.Status = in.Status
	}
}

// CreateBranch creates a new branch. Branch names are unique per tenant.
func (s *BranchService) CreateBranch(ctx context.Context, input *BranchInput) (*entity.Branch, error) {
	if _, ok := infraRepo.GetTenantID(ctx); !ok {
		return nil, apperror.ErrTenantRequired
	}
	if err := input.validate(); err != nil {
		return nil, err
	}
	if err := s.checkName(ctx, input.Name, ""); err != nil {
		return nil, err
	}

	branch := &entity.Branch{Status: enum.RecordStatusActive}
	input.applyTo(branch)
	if err := s.branchRepo.Create(ctx, branch); err != nil {
		return nil, err
	}
	return branch, nil
}

func (s *BranchService) checkName(ctx context.Context, name, selfID string) error {
	branches, err := s.branchRepo.List(ctx, repository.OrderBy{})
	if err != nil {
		return err
	}
	for _, b := range branches {
		if b.ID != selfID && strings.EqualFold(b.Name, strings.TrimSpace(name)) {
			return apperror.NewConflictError(fmt.Sprintf("Branch %s already exists", b.Name))
		}
	}
	return nil
}

// GetBranch retrieves a branch by ID
func (s *BranchService) GetBranch(ctx context.Context, id string) (*entity.Branch, error) {
	branch, err := s.branchRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if branch == nil {
		return nil, apperror.NewNotFoundError("Branch")
	}
	return branch, nil
}

// ListBranches lists branches by name
func (s *BranchService) ListBranches(ctx context.Context, params *repository.BranchFilterParams) (*pagination.PaginatedResult[entity.Branch], error) {
	branches, err := s.branchRepo.List(ctx, repository.OrderBy{Field: "name"})
	if err != nil {
		return nil, err
	}

	var page *pagination.PaginationParams
	if params != nil {
		page = params.Pagination
		branches = stats.Filter(branches,
			stats.Search(params.Search, func(b entity.Branch) []string { return []string{b.Name, b.Address, b.Manager} }),
			stats.Equals(params.Status.String(), func(b entity.Branch) string { return b.Status.String() }),
		)
	}
	return pagination.Paginate(branches, page), nil
}

// UpdateBranch updates a branch
func (s *BranchService) UpdateBranch(ctx context.Context, id string, input *BranchInput) (*entity.Branch, error) {
	branch, err := s.GetBranch(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := input.validate(); err != nil {
		return nil, err
	}
	if err := s.checkName(ctx, input.Name, branch.ID); err != nil {
		return nil, err
	}
	input.applyTo(branch)

	if err := s.branchRepo.Update(ctx, branch); err != nil {
		return nil, err
	}
	return branch, nil
}

// DeleteBranch deletes a branch
func (s *BranchService) DeleteBranch(ctx context.Context, id string) error {
	if _, err := s.GetBranch(ctx, id); err != nil {
		return err
	}
	return s.branchRepo.Delete(ctx, id)
}
