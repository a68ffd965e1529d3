package board

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/caredesk/caredesk/pkg/pagination"
)

// =========== Board Memory Repository ===========

type boardRepoMem struct {
	mu      sync.RWMutex
	boards  map[uuid.UUID]*Board
	columns map[uuid.UUID][]*Column
}

func NewBoardRepoMem() BoardRepository {
	return &boardRepoMem{
		boards:  make(map[uuid.UUID]*Board),
		columns: make(map[uuid.UUID][]*Column),
	}
}

func cloneBoard(b *Board) *Board {
	c := *b
	if b.Description != nil {
		v := *b.Description
		c.Description = &v
	}
	return &c
}

func cloneColumn(col *Column) *Column {
	c := *col
	return &c
}

func (r *boardRepoMem) Create(_ context.Context, b *Board, columns []*Column) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b.ID = uuid.New()
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt
	r.boards[b.ID] = cloneBoard(b)
	for i, col := range columns {
		col.ID = uuid.New()
		col.BoardID = b.ID
		col.Position = i
		r.columns[b.ID] = append(r.columns[b.ID], cloneColumn(col))
	}
	return nil
}

func (r *boardRepoMem) GetByID(_ context.Context, id uuid.UUID) (*Board, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.boards[id]
	if !ok {
		return nil, ErrBoardNotFound
	}
	return cloneBoard(b), nil
}

func (r *boardRepoMem) Update(_ context.Context, b *Board) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.boards[b.ID]
	if !ok {
		return ErrBoardNotFound
	}
	b.CreatedAt = existing.CreatedAt
	b.UpdatedAt = time.Now()
	r.boards[b.ID] = cloneBoard(b)
	return nil
}

func (r *boardRepoMem) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.boards[id]; !ok {
		return ErrBoardNotFound
	}
	delete(r.boards, id)
	delete(r.columns, id)
	return nil
}

func (r *boardRepoMem) List(_ context.Context, limit, offset int) ([]*Board, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var items []*Board
	for _, b := range r.boards {
		items = append(items, cloneBoard(b))
	}
	sort.Slice(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.Before(items[j].CreatedAt)
		}
		return items[i].ID.String() < items[j].ID.String()
	})
	page, total := pagination.Slice(items, pagination.Params{Limit: limit, Offset: offset})
	return page, total, nil
}

func (r *boardRepoMem) Columns(_ context.Context, boardID uuid.UUID) ([]*Column, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cols := make([]*Column, 0, len(r.columns[boardID]))
	for _, col := range r.columns[boardID] {
		cols = append(cols, cloneColumn(col))
	}
	sort.Slice(cols, func(i, j int) bool { return cols[i].Position < cols[j].Position })
	return cols, nil
}

func (r *boardRepoMem) AddColumn(_ context.Context, col *Column) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.boards[col.BoardID]; !ok {
		return ErrBoardNotFound
	}
	col.ID = uuid.New()
	if col.Position == 0 {
		max := -1
		for _, c := range r.columns[col.BoardID] {
			if c.Position > max {
				max = c.Position
			}
		}
		col.Position = max + 1
	}
	r.columns[col.BoardID] = append(r.columns[col.BoardID], cloneColumn(col))
	return nil
}

func (r *boardRepoMem) DeleteColumn(_ context.Context, boardID uuid.UUID, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cols := r.columns[boardID]
	for i, c := range cols {
		if c.Key == key {
			r.columns[boardID] = append(cols[:i], cols[i+1:]...)
			return nil
		}
	}
	return ErrColumnNotFound
}

// =========== Card Memory Repository ===========

type cardRepoMem struct {
	mu    sync.RWMutex
	cards map[uuid.UUID]*Card
}

func NewCardRepoMem() CardRepository {
	return &cardRepoMem{cards: make(map[uuid.UUID]*Card)}
}

func cloneCard(c *Card) *Card {
	cp := *c
	cp.Labels = append([]string(nil), c.Labels...)
	if c.Description != nil {
		v := *c.Description
		cp.Description = &v
	}
	if c.AssigneeID != nil {
		v := *c.AssigneeID
		cp.AssigneeID = &v
	}
	if c.DueDate != nil {
		v := *c.DueDate
		cp.DueDate = &v
	}
	return &cp
}

func (r *cardRepoMem) Create(_ context.Context, c *Card) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c.ID = uuid.New()
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	r.cards[c.ID] = cloneCard(c)
	return nil
}

func (r *cardRepoMem) GetByID(_ context.Context, id uuid.UUID) (*Card, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.cards[id]
	if !ok {
		return nil, ErrCardNotFound
	}
	return cloneCard(c), nil
}

func (r *cardRepoMem) Update(_ context.Context, c *Card) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.cards[c.ID]
	if !ok {
		return ErrCardNotFound
	}
	c.CreatedAt = existing.CreatedAt
	c.UpdatedAt = time.Now()
	r.cards[c.ID] = cloneCard(c)
	return nil
}

func (r *cardRepoMem) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.cards[id]; !ok {
		return ErrCardNotFound
	}
	delete(r.cards, id)
	return nil
}

func (r *cardRepoMem) ListByBoard(_ context.Context, boardID uuid.UUID) ([]*Card, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var items []*Card
	for _, c := range r.cards {
		if c.BoardID == boardID {
			items = append(items, cloneCard(c))
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].ColumnKey != items[j].ColumnKey {
			return items[i].ColumnKey < items[j].ColumnKey
		}
		return items[i].Position < items[j].Position
	})
	return items, nil
}

func (r *cardRepoMem) NextPosition(_ context.Context, boardID uuid.UUID, columnKey string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	next := 0
	for _, c := range r.cards {
		if c.BoardID == boardID && c.ColumnKey == columnKey && c.Position >= next {
			next = c.Position + 1
		}
	}
	return next, nil
}
