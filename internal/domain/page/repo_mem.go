package page

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/caredesk/caredesk/pkg/pagination"
)

type repoMem struct {
	mu    sync.RWMutex
	pages map[uuid.UUID]*Page
}

func NewRepoMem() Repository {
	return &repoMem{pages: make(map[uuid.UUID]*Page)}
}

func clonePage(p *Page) *Page {
	c := *p
	if p.Icon != nil {
		v := *p.Icon
		c.Icon = &v
	}
	c.Blocks = append([]Block(nil), p.Blocks...)
	return &c
}

func (r *repoMem) Create(_ context.Context, p *Page) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.ID = uuid.New()
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	if p.Blocks == nil {
		p.Blocks = []Block{}
	}
	r.pages[p.ID] = clonePage(p)
	return nil
}

func (r *repoMem) GetByID(_ context.Context, id uuid.UUID) (*Page, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.pages[id]
	if !ok {
		return nil, ErrNotFound
	}
	return clonePage(p), nil
}

func (r *repoMem) Update(_ context.Context, p *Page) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.pages[p.ID]
	if !ok {
		return ErrNotFound
	}
	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = time.Now()
	if p.Blocks == nil {
		p.Blocks = existing.Blocks
	}
	r.pages[p.ID] = clonePage(p)
	return nil
}

func (r *repoMem) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.pages[id]; !ok {
		return ErrNotFound
	}
	delete(r.pages, id)
	return nil
}

func (r *repoMem) List(_ context.Context, limit, offset int) ([]*Page, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var items []*Page
	for _, p := range r.pages {
		items = append(items, clonePage(p))
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
