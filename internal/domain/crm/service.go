package crm

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Service struct {
	customers CustomerRepository
	deals     DealRepository
}

func NewService(customers CustomerRepository, deals DealRepository) *Service {
	return &Service{customers: customers, deals: deals}
}

// -- Customer --

var validCustomerStatuses = map[string]bool{
	StatusLead: true, StatusProspect: true, StatusClient: true, StatusInactive: true,
}

func (s *Service) CreateCustomer(ctx context.Context, c *Customer) error {
	if c.Name == "" {
		return fmt.Errorf("name is required")
	}
	if c.Status == "" {
		c.Status = StatusLead
	}
	if !validCustomerStatuses[c.Status] {
		return fmt.Errorf("invalid customer status: %s", c.Status)
	}
	return s.customers.Create(ctx, c)
}

func (s *Service) GetCustomer(ctx context.Context, id uuid.UUID) (*Customer, error) {
	return s.customers.GetByID(ctx, id)
}

func (s *Service) UpdateCustomer(ctx context.Context, c *Customer) error {
	if c.Status != "" && !validCustomerStatuses[c.Status] {
		return fmt.Errorf("invalid customer status: %s", c.Status)
	}
	return s.customers.Update(ctx, c)
}

func (s *Service) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	return s.customers.Delete(ctx, id)
}

func (s *Service) ListCustomers(ctx context.Context, limit, offset int) ([]*Customer, int, error) {
	return s.customers.List(ctx, limit, offset)
}

func (s *Service) ListCustomersByStatus(ctx context.Context, status string, limit, offset int) ([]*Customer, int, error) {
	if !validCustomerStatuses[status] {
		return nil, 0, fmt.Errorf("invalid customer status: %s", status)
	}
	return s.customers.ListByStatus(ctx, status, limit, offset)
}

func (s *Service) SearchCustomers(ctx context.Context, query string, limit, offset int) ([]*Customer, int, error) {
	if query == "" {
		return s.customers.List(ctx, limit, offset)
	}
	return s.customers.Search(ctx, query, limit, offset)
}

// -- Deal --

var validStages = map[string]bool{
	StageQualification: true, StageProposal: true, StageNegotiation: true,
	StageWon: true, StageLost: true,
}

func (s *Service) CreateDeal(ctx context.Context, d *Deal) error {
	if d.CustomerID == uuid.Nil {
		return fmt.Errorf("customer_id is required")
	}
	if d.Title == "" {
		return fmt.Errorf("title is required")
	}
	if _, err := s.customers.GetByID(ctx, d.CustomerID); err != nil {
		return fmt.Errorf("customer %s: %w", d.CustomerID, err)
	}
	if d.Stage == "" {
		d.Stage = StageQualification
	}
	if !validStages[d.Stage] {
		return fmt.Errorf("invalid deal stage: %s", d.Stage)
	}
	if d.Currency == "" {
		d.Currency = "USD"
	}
	if d.Probability != nil && (*d.Probability < 0 || *d.Probability > 100) {
		return fmt.Errorf("probability must be between 0 and 100")
	}
	return s.deals.Create(ctx, d)
}

func (s *Service) GetDeal(ctx context.Context, id uuid.UUID) (*Deal, error) {
	return s.deals.GetByID(ctx, id)
}

func (s *Service) UpdateDeal(ctx context.Context, d *Deal) error {
	if d.Stage != "" && !validStages[d.Stage] {
		return fmt.Errorf("invalid deal stage: %s", d.Stage)
	}
	if d.Probability != nil && (*d.Probability < 0 || *d.Probability > 100) {
		return fmt.Errorf("probability must be between 0 and 100")
	}
	return s.deals.Update(ctx, d)
}

func (s *Service) DeleteDeal(ctx context.Context, id uuid.UUID) error {
	return s.deals.Delete(ctx, id)
}

func (s *Service) ListDeals(ctx context.Context, limit, offset int) ([]*Deal, int, error) {
	return s.deals.List(ctx, limit, offset)
}

func (s *Service) ListDealsByCustomer(ctx context.Context, customerID uuid.UUID, limit, offset int) ([]*Deal, int, error) {
	return s.deals.ListByCustomer(ctx, customerID, limit, offset)
}

func (s *Service) ListDealsByStage(ctx context.Context, stage string, limit, offset int) ([]*Deal, int, error) {
	if !validStages[stage] {
		return nil, 0, fmt.Errorf("invalid deal stage: %s", stage)
	}
	return s.deals.ListByStage(ctx, stage, limit, offset)
}

// Pipeline recomputes the derived per-stage summary over all deals.
func (s *Service) Pipeline(ctx context.Context) ([]StageSummary, error) {
	deals, err := s.deals.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return BuildPipeline(deals), nil
}
