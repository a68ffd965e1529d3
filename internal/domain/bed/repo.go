package bed

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned by all repositories when the identifier does not
// resolve to a bed.
var ErrNotFound = errors.New("bed not found")

// Bed status values. Transitions are unconstrained except through the
// assign/release flows, which always land on occupied/cleaning.
const (
	StatusAvailable   = "available"
	StatusOccupied    = "occupied"
	StatusCleaning    = "cleaning"
	StatusMaintenance = "maintenance"
)

type Repository interface {
	Create(ctx context.Context, b *Bed) error
	GetByID(ctx context.Context, id uuid.UUID) (*Bed, error)
	Update(ctx context.Context, b *Bed) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*Bed, int, error)
	ListByWard(ctx context.Context, ward string, limit, offset int) ([]*Bed, int, error)
	ListByStatus(ctx context.Context, status string, limit, offset int) ([]*Bed, int, error)
	ListAll(ctx context.Context) ([]*Bed, error)
}
