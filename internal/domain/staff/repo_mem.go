package staff

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/caredesk/caredesk/pkg/pagination"
)

type repoMem struct {
	mu      sync.RWMutex
	members map[uuid.UUID]*Staff
}

func NewRepoMem() Repository {
	return &repoMem{members: make(map[uuid.UUID]*Staff)}
}

func cloneStaff(m *Staff) *Staff {
	c := *m
	if m.Email != nil {
		v := *m.Email
		c.Email = &v
	}
	if m.Phone != nil {
		v := *m.Phone
		c.Phone = &v
	}
	if m.HireDate != nil {
		v := *m.HireDate
		c.HireDate = &v
	}
	if m.SalaryCents != nil {
		v := *m.SalaryCents
		c.SalaryCents = &v
	}
	return &c
}

func (r *repoMem) Create(_ context.Context, m *Staff) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m.ID = uuid.New()
	m.CreatedAt = time.Now()
	m.UpdatedAt = m.CreatedAt
	r.members[m.ID] = cloneStaff(m)
	return nil
}

func (r *repoMem) GetByID(_ context.Context, id uuid.UUID) (*Staff, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.members[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneStaff(m), nil
}

func (r *repoMem) GetByEmployeeNo(_ context.Context, employeeNo string) (*Staff, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, m := range r.members {
		if m.EmployeeNo == employeeNo {
			return cloneStaff(m), nil
		}
	}
	return nil, ErrNotFound
}

func (r *repoMem) Update(_ context.Context, m *Staff) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.members[m.ID]
	if !ok {
		return ErrNotFound
	}
	m.CreatedAt = existing.CreatedAt
	m.UpdatedAt = time.Now()
	r.members[m.ID] = cloneStaff(m)
	return nil
}

func (r *repoMem) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.members[id]; !ok {
		return ErrNotFound
	}
	delete(r.members, id)
	return nil
}

func (r *repoMem) sorted(f Filter) []*Staff {
	var items []*Staff
	for _, m := range r.members {
		if f.Department != "" && m.Department != f.Department {
			continue
		}
		if f.Role != "" && m.Role != f.Role {
			continue
		}
		if f.Status != "" && m.Status != f.Status {
			continue
		}
		items = append(items, cloneStaff(m))
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].LastName != items[j].LastName {
			return items[i].LastName < items[j].LastName
		}
		return items[i].FirstName < items[j].FirstName
	})
	return items
}

func (r *repoMem) List(_ context.Context, f Filter, limit, offset int) ([]*Staff, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	page, total := pagination.Slice(r.sorted(f), pagination.Params{Limit: limit, Offset: offset})
	return page, total, nil
}

func (r *repoMem) ListAll(_ context.Context) ([]*Staff, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sorted(Filter{}), nil
}
