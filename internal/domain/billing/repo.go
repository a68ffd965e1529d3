package billing

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("invoice not found")

const (
	StatusDraft     = "draft"
	StatusPending   = "pending"
	StatusPaid      = "paid"
	StatusOverdue   = "overdue"
	StatusCancelled = "cancelled"
)

type Repository interface {
	Create(ctx context.Context, inv *Invoice) error
	GetByID(ctx context.Context, id uuid.UUID) (*Invoice, error)
	Update(ctx context.Context, inv *Invoice) error
	Delete(ctx context.Context, id uuid.UUID) error
	// ReplaceItems swaps the full line item list of an invoice.
	ReplaceItems(ctx context.Context, invoiceID uuid.UUID, items []LineItem) error
	List(ctx context.Context, limit, offset int) ([]*Invoice, int, error)
	ListByStatus(ctx context.Context, status string, limit, offset int) ([]*Invoice, int, error)
	ListAll(ctx context.Context) ([]*Invoice, error)
}
