package page

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("page not found")

type Repository interface {
	Create(ctx context.Context, p *Page) error
	GetByID(ctx context.Context, id uuid.UUID) (*Page, error)
	Update(ctx context.Context, p *Page) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*Page, int, error)
}
