package bed

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/caredesk/caredesk/pkg/pagination"
)

// repoMem is the in-memory driver used for demo deployments. It keeps copies
// of every record so callers never alias internal state.
type repoMem struct {
	mu   sync.RWMutex
	beds map[uuid.UUID]*Bed
}

func NewRepoMem() Repository {
	return &repoMem{beds: make(map[uuid.UUID]*Bed)}
}

func cloneBed(b *Bed) *Bed {
	c := *b
	if b.PatientID != nil {
		pid := *b.PatientID
		c.PatientID = &pid
	}
	return &c
}

func (r *repoMem) Create(_ context.Context, b *Bed) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b.ID = uuid.New()
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt
	r.beds[b.ID] = cloneBed(b)
	return nil
}

func (r *repoMem) GetByID(_ context.Context, id uuid.UUID) (*Bed, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.beds[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneBed(b), nil
}

func (r *repoMem) Update(_ context.Context, b *Bed) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.beds[b.ID]
	if !ok {
		return ErrNotFound
	}
	b.CreatedAt = existing.CreatedAt
	b.UpdatedAt = time.Now()
	r.beds[b.ID] = cloneBed(b)
	return nil
}

func (r *repoMem) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.beds[id]; !ok {
		return ErrNotFound
	}
	delete(r.beds, id)
	return nil
}

func (r *repoMem) sorted(filter func(*Bed) bool) []*Bed {
	var items []*Bed
	for _, b := range r.beds {
		if filter == nil || filter(b) {
			items = append(items, cloneBed(b))
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Ward != items[j].Ward {
			return items[i].Ward < items[j].Ward
		}
		if items[i].Room != items[j].Room {
			return items[i].Room < items[j].Room
		}
		return items[i].Number < items[j].Number
	})
	return items
}

func (r *repoMem) List(_ context.Context, limit, offset int) ([]*Bed, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	page, total := pagination.Slice(r.sorted(nil), pagination.Params{Limit: limit, Offset: offset})
	return page, total, nil
}

func (r *repoMem) ListByWard(_ context.Context, ward string, limit, offset int) ([]*Bed, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	items := r.sorted(func(b *Bed) bool { return strings.EqualFold(b.Ward, ward) })
	page, total := pagination.Slice(items, pagination.Params{Limit: limit, Offset: offset})
	return page, total, nil
}

func (r *repoMem) ListByStatus(_ context.Context, status string, limit, offset int) ([]*Bed, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	items := r.sorted(func(b *Bed) bool { return b.Status == status })
	page, total := pagination.Slice(items, pagination.Params{Limit: limit, Offset: offset})
	return page, total, nil
}

func (r *repoMem) ListAll(_ context.Context) ([]*Bed, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sorted(nil), nil
}
