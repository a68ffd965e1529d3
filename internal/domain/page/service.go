package page

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Service struct {
	pages Repository
}

func NewService(pages Repository) *Service {
	return &Service{pages: pages}
}

func validateBlocks(blocks []Block) error {
	for i, b := range blocks {
		switch b.Type {
		case BlockHeading:
			if b.Heading == nil {
				return fmt.Errorf("block %d: heading payload is required", i)
			}
			if b.Heading.Level < 1 || b.Heading.Level > 3 {
				return fmt.Errorf("block %d: heading level must be 1-3", i)
			}
		case BlockParagraph:
			if b.Paragraph == nil {
				return fmt.Errorf("block %d: paragraph payload is required", i)
			}
		case BlockTodo:
			if b.Todo == nil {
				return fmt.Errorf("block %d: todo payload is required", i)
			}
		case BlockCallout:
			if b.Callout == nil {
				return fmt.Errorf("block %d: callout payload is required", i)
			}
		case BlockDivider:
		default:
			// Unknown types pass through untouched.
		}
	}
	return nil
}

func (s *Service) Create(ctx context.Context, p *Page) (*Page, error) {
	if p.Title == "" {
		return nil, fmt.Errorf("page title is required")
	}
	if err := validateBlocks(p.Blocks); err != nil {
		return nil, err
	}
	if err := s.pages.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Page, error) {
	return s.pages.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, p *Page) (*Page, error) {
	if p.Title == "" {
		return nil, fmt.Errorf("page title is required")
	}
	if err := validateBlocks(p.Blocks); err != nil {
		return nil, err
	}
	if err := s.pages.Update(ctx, p); err != nil {
		return nil, err
	}
	return s.pages.GetByID(ctx, p.ID)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.pages.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Page, int, error) {
	return s.pages.List(ctx, limit, offset)
}

// ReplaceBlocks swaps the whole document body.
func (s *Service) ReplaceBlocks(ctx context.Context, id uuid.UUID, blocks []Block) (*Page, error) {
	if err := validateBlocks(blocks); err != nil {
		return nil, err
	}
	p, err := s.pages.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if blocks == nil {
		blocks = []Block{}
	}
	p.Blocks = blocks
	if err := s.pages.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// PatchBlock replaces the block at index, leaving the rest of the document
// alone.
func (s *Service) PatchBlock(ctx context.Context, id uuid.UUID, index int, b Block) (*Page, error) {
	if err := validateBlocks([]Block{b}); err != nil {
		return nil, err
	}
	p, err := s.pages.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(p.Blocks) {
		return nil, fmt.Errorf("block index %d out of range", index)
	}
	p.Blocks[index] = b
	if err := s.pages.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// ToggleTodo flips the checked flag of the todo block at index.
func (s *Service) ToggleTodo(ctx context.Context, id uuid.UUID, index int) (*Page, error) {
	p, err := s.pages.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(p.Blocks) {
		return nil, fmt.Errorf("block index %d out of range", index)
	}
	b := p.Blocks[index]
	if b.Type != BlockTodo || b.Todo == nil {
		return nil, fmt.Errorf("block %d is not a todo", index)
	}
	toggled := *b.Todo
	toggled.Checked = !toggled.Checked
	p.Blocks[index] = Block{Type: BlockTodo, Todo: &toggled}
	if err := s.pages.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}
