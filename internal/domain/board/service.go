package board

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/caredesk/caredesk/internal/platform/webhook"
)

type Service struct {
	boards BoardRepository
	cards  CardRepository
	events webhook.Emitter
	logger zerolog.Logger
}

func NewService(boards BoardRepository, cards CardRepository, events webhook.Emitter, logger zerolog.Logger) *Service {
	return &Service{boards: boards, cards: cards, events: events, logger: logger}
}

// defaultColumns seeds every new board that does not bring its own layout.
var defaultColumns = []struct{ Key, Title string }{
	{"todo", "To Do"},
	{"in_progress", "In Progress"},
	{"done", "Done"},
}

func (s *Service) CreateBoard(ctx context.Context, b *Board, columns []*Column) (*Board, error) {
	if b.Name == "" {
		return nil, fmt.Errorf("board name is required")
	}
	if len(columns) == 0 {
		for _, d := range defaultColumns {
			columns = append(columns, &Column{Key: d.Key, Title: d.Title})
		}
	}
	seen := make(map[string]bool, len(columns))
	for _, col := range columns {
		if col.Key == "" || col.Title == "" {
			return nil, fmt.Errorf("column key and title are required")
		}
		if seen[col.Key] {
			return nil, fmt.Errorf("duplicate column key: %s", col.Key)
		}
		seen[col.Key] = true
	}
	if err := s.boards.Create(ctx, b, columns); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *Service) GetBoard(ctx context.Context, id uuid.UUID) (*BoardView, error) {
	b, err := s.boards.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	columns, err := s.boards.Columns(ctx, id)
	if err != nil {
		return nil, err
	}
	cards, err := s.cards.ListByBoard(ctx, id)
	if err != nil {
		return nil, err
	}
	grouped := make(map[string][]*Card, len(columns))
	for _, col := range columns {
		grouped[col.Key] = []*Card{}
	}
	for _, c := range cards {
		grouped[c.ColumnKey] = append(grouped[c.ColumnKey], c)
	}
	return &BoardView{Board: b, Columns: columns, Cards: grouped}, nil
}

func (s *Service) UpdateBoard(ctx context.Context, b *Board) (*Board, error) {
	if b.Name == "" {
		return nil, fmt.Errorf("board name is required")
	}
	if err := s.boards.Update(ctx, b); err != nil {
		return nil, err
	}
	return s.boards.GetByID(ctx, b.ID)
}

func (s *Service) DeleteBoard(ctx context.Context, id uuid.UUID) error {
	return s.boards.Delete(ctx, id)
}

func (s *Service) ListBoards(ctx context.Context, limit, offset int) ([]*Board, int, error) {
	return s.boards.List(ctx, limit, offset)
}

func (s *Service) AddColumn(ctx context.Context, col *Column) (*Column, error) {
	if col.Key == "" || col.Title == "" {
		return nil, fmt.Errorf("column key and title are required")
	}
	existing, err := s.boards.Columns(ctx, col.BoardID)
	if err != nil {
		return nil, err
	}
	for _, c := range existing {
		if c.Key == col.Key {
			return nil, fmt.Errorf("duplicate column key: %s", col.Key)
		}
	}
	if err := s.boards.AddColumn(ctx, col); err != nil {
		return nil, err
	}
	return col, nil
}

// DeleteColumn removes a column. Columns that still hold cards stay put.
func (s *Service) DeleteColumn(ctx context.Context, boardID uuid.UUID, key string) error {
	cards, err := s.cards.ListByBoard(ctx, boardID)
	if err != nil {
		return err
	}
	for _, c := range cards {
		if c.ColumnKey == key {
			return fmt.Errorf("column %s still has cards", key)
		}
	}
	return s.boards.DeleteColumn(ctx, boardID, key)
}

func (s *Service) CreateCard(ctx context.Context, c *Card) (*Card, error) {
	if c.Title == "" {
		return nil, fmt.Errorf("card title is required")
	}
	if _, err := s.boards.GetByID(ctx, c.BoardID); err != nil {
		return nil, err
	}
	if c.ColumnKey == "" {
		c.ColumnKey = defaultColumns[0].Key
	}
	if err := s.columnExists(ctx, c.BoardID, c.ColumnKey); err != nil {
		return nil, err
	}
	if c.Labels == nil {
		c.Labels = []string{}
	}
	pos, err := s.cards.NextPosition(ctx, c.BoardID, c.ColumnKey)
	if err != nil {
		return nil, err
	}
	c.Position = pos
	if err := s.cards.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) GetCard(ctx context.Context, id uuid.UUID) (*Card, error) {
	return s.cards.GetByID(ctx, id)
}

func (s *Service) UpdateCard(ctx context.Context, c *Card) (*Card, error) {
	existing, err := s.cards.GetByID(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	if c.Title == "" {
		return nil, fmt.Errorf("card title is required")
	}
	// Column moves go through MoveCard so position stays consistent.
	c.BoardID = existing.BoardID
	c.ColumnKey = existing.ColumnKey
	c.Position = existing.Position
	if c.Labels == nil {
		c.Labels = existing.Labels
	}
	if err := s.cards.Update(ctx, c); err != nil {
		return nil, err
	}
	return s.cards.GetByID(ctx, c.ID)
}

func (s *Service) DeleteCard(ctx context.Context, id uuid.UUID) error {
	return s.cards.Delete(ctx, id)
}

// MoveCard places a card at the end of the destination column. Only the moved
// card is written; every other card keeps its column and position.
func (s *Service) MoveCard(ctx context.Context, cardID uuid.UUID, toColumnKey string) (*Card, error) {
	c, err := s.cards.GetByID(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if err := s.columnExists(ctx, c.BoardID, toColumnKey); err != nil {
		return nil, err
	}
	from := c.ColumnKey
	if from == toColumnKey {
		return c, nil
	}
	pos, err := s.cards.NextPosition(ctx, c.BoardID, toColumnKey)
	if err != nil {
		return nil, err
	}
	c.ColumnKey = toColumnKey
	c.Position = pos
	if err := s.cards.Update(ctx, c); err != nil {
		return nil, err
	}
	s.logger.Info().
		Str("card_id", c.ID.String()).
		Str("from", from).
		Str("to", toColumnKey).
		Msg("card moved")
	s.events.Emit(ctx, "card.moved", "Card", c.ID.String(), map[string]interface{}{
		"card_id":  c.ID,
		"board_id": c.BoardID,
		"from":     from,
		"to":       toColumnKey,
	})
	return c, nil
}

func (s *Service) columnExists(ctx context.Context, boardID uuid.UUID, key string) error {
	columns, err := s.boards.Columns(ctx, boardID)
	if err != nil {
		return err
	}
	for _, col := range columns {
		if col.Key == key {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrColumnNotFound, key)
}
