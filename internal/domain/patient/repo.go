package patient

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("patient not found")

const (
	StatusOutpatient = "outpatient"
	StatusAdmitted   = "admitted"
	StatusDischarged = "discharged"
)

type Repository interface {
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, id uuid.UUID) (*Patient, error)
	GetByMRN(ctx context.Context, mrn string) (*Patient, error)
	Update(ctx context.Context, p *Patient) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*Patient, int, error)
	ListByAdmissionStatus(ctx context.Context, status string, limit, offset int) ([]*Patient, int, error)
	// Search matches the query case-insensitively against name and MRN.
	Search(ctx context.Context, query string, limit, offset int) ([]*Patient, int, error)
	ListAll(ctx context.Context) ([]*Patient, error)
}
