package board

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrBoardNotFound  = errors.New("board not found")
	ErrColumnNotFound = errors.New("column not found")
	ErrCardNotFound   = errors.New("card not found")
)

type BoardRepository interface {
	Create(ctx context.Context, b *Board, columns []*Column) error
	GetByID(ctx context.Context, id uuid.UUID) (*Board, error)
	Update(ctx context.Context, b *Board) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*Board, int, error)
	// Columns returns the board's columns ordered by position.
	Columns(ctx context.Context, boardID uuid.UUID) ([]*Column, error)
	AddColumn(ctx context.Context, col *Column) error
	DeleteColumn(ctx context.Context, boardID uuid.UUID, key string) error
}

type CardRepository interface {
	Create(ctx context.Context, c *Card) error
	GetByID(ctx context.Context, id uuid.UUID) (*Card, error)
	Update(ctx context.Context, c *Card) error
	Delete(ctx context.Context, id uuid.UUID) error
	// ListByBoard returns all cards of a board ordered by column key then
	// position.
	ListByBoard(ctx context.Context, boardID uuid.UUID) ([]*Card, error)
	// NextPosition returns the append rank for a column.
	NextPosition(ctx context.Context, boardID uuid.UUID, columnKey string) (int, error)
}
