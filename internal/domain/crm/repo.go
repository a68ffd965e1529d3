package crm

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrCustomerNotFound = errors.New("customer not found")
	ErrDealNotFound     = errors.New("deal not found")
)

const (
	StatusLead     = "lead"
	StatusProspect = "prospect"
	StatusClient   = "client"
	StatusInactive = "inactive"
)

const (
	StageQualification = "qualification"
	StageProposal      = "proposal"
	StageNegotiation   = "negotiation"
	StageWon           = "won"
	StageLost          = "lost"
)

type CustomerRepository interface {
	Create(ctx context.Context, c *Customer) error
	GetByID(ctx context.Context, id uuid.UUID) (*Customer, error)
	Update(ctx context.Context, c *Customer) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*Customer, int, error)
	ListByStatus(ctx context.Context, status string, limit, offset int) ([]*Customer, int, error)
	// Search matches name and email case-insensitively.
	Search(ctx context.Context, query string, limit, offset int) ([]*Customer, int, error)
}

type DealRepository interface {
	Create(ctx context.Context, d *Deal) error
	GetByID(ctx context.Context, id uuid.UUID) (*Deal, error)
	Update(ctx context.Context, d *Deal) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*Deal, int, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID, limit, offset int) ([]*Deal, int, error)
	ListByStage(ctx context.Context, stage string, limit, offset int) ([]*Deal, int, error)
	ListAll(ctx context.Context) ([]*Deal, error)
}
