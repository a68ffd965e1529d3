package crm

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/caredesk/caredesk/pkg/pagination"
)

// =========== Customer Memory Repository ===========

type customerRepoMem struct {
	mu        sync.RWMutex
	customers map[uuid.UUID]*Customer
}

func NewCustomerRepoMem() CustomerRepository {
	return &customerRepoMem{customers: make(map[uuid.UUID]*Customer)}
}

func cloneCustomer(c *Customer) *Customer {
	cp := *c
	cp.Tags = append([]string(nil), c.Tags...)
	if c.Email != nil {
		v := *c.Email
		cp.Email = &v
	}
	if c.Phone != nil {
		v := *c.Phone
		cp.Phone = &v
	}
	if c.Company != nil {
		v := *c.Company
		cp.Company = &v
	}
	if c.Notes != nil {
		v := *c.Notes
		cp.Notes = &v
	}
	return &cp
}

func (r *customerRepoMem) Create(_ context.Context, c *Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c.ID = uuid.New()
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	r.customers[c.ID] = cloneCustomer(c)
	return nil
}

func (r *customerRepoMem) GetByID(_ context.Context, id uuid.UUID) (*Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.customers[id]
	if !ok {
		return nil, ErrCustomerNotFound
	}
	return cloneCustomer(c), nil
}

func (r *customerRepoMem) Update(_ context.Context, c *Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.customers[c.ID]
	if !ok {
		return ErrCustomerNotFound
	}
	c.CreatedAt = existing.CreatedAt
	c.UpdatedAt = time.Now()
	r.customers[c.ID] = cloneCustomer(c)
	return nil
}

func (r *customerRepoMem) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.customers[id]; !ok {
		return ErrCustomerNotFound
	}
	delete(r.customers, id)
	return nil
}

func (r *customerRepoMem) sorted(filter func(*Customer) bool) []*Customer {
	var items []*Customer
	for _, c := range r.customers {
		if filter == nil || filter(c) {
			items = append(items, cloneCustomer(c))
		}
	}
	// Newest first, matching the pg repo's created_at DESC ordering.
	sort.Slice(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.After(items[j].CreatedAt)
		}
		return items[i].ID.String() < items[j].ID.String()
	})
	return items
}

func (r *customerRepoMem) List(_ context.Context, limit, offset int) ([]*Customer, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	page, total := pagination.Slice(r.sorted(nil), pagination.Params{Limit: limit, Offset: offset})
	return page, total, nil
}

func (r *customerRepoMem) ListByStatus(_ context.Context, status string, limit, offset int) ([]*Customer, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	items := r.sorted(func(c *Customer) bool { return c.Status == status })
	page, total := pagination.Slice(items, pagination.Params{Limit: limit, Offset: offset})
	return page, total, nil
}

func (r *customerRepoMem) Search(_ context.Context, query string, limit, offset int) ([]*Customer, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	q := strings.ToLower(query)
	items := r.sorted(func(c *Customer) bool {
		if strings.Contains(strings.ToLower(c.Name), q) {
			return true
		}
		return c.Email != nil && strings.Contains(strings.ToLower(*c.Email), q)
	})
	page, total := pagination.Slice(items, pagination.Params{Limit: limit, Offset: offset})
	return page, total, nil
}

// =========== Deal Memory Repository ===========

type dealRepoMem struct {
	mu    sync.RWMutex
	deals map[uuid.UUID]*Deal
}

func NewDealRepoMem() DealRepository {
	return &dealRepoMem{deals: make(map[uuid.UUID]*Deal)}
}

func cloneDeal(d *Deal) *Deal {
	cp := *d
	if d.Probability != nil {
		v := *d.Probability
		cp.Probability = &v
	}
	if d.ExpectedClose != nil {
		v := *d.ExpectedClose
		cp.ExpectedClose = &v
	}
	return &cp
}

func (r *dealRepoMem) Create(_ context.Context, d *Deal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d.ID = uuid.New()
	d.CreatedAt = time.Now()
	d.UpdatedAt = d.CreatedAt
	r.deals[d.ID] = cloneDeal(d)
	return nil
}

func (r *dealRepoMem) GetByID(_ context.Context, id uuid.UUID) (*Deal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.deals[id]
	if !ok {
		return nil, ErrDealNotFound
	}
	return cloneDeal(d), nil
}

func (r *dealRepoMem) Update(_ context.Context, d *Deal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.deals[d.ID]
	if !ok {
		return ErrDealNotFound
	}
	d.CreatedAt = existing.CreatedAt
	d.UpdatedAt = time.Now()
	r.deals[d.ID] = cloneDeal(d)
	return nil
}

func (r *dealRepoMem) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.deals[id]; !ok {
		return ErrDealNotFound
	}
	delete(r.deals, id)
	return nil
}

func (r *dealRepoMem) sorted(filter func(*Deal) bool) []*Deal {
	var items []*Deal
	for _, d := range r.deals {
		if filter == nil || filter(d) {
			items = append(items, cloneDeal(d))
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.After(items[j].CreatedAt)
		}
		return items[i].ID.String() < items[j].ID.String()
	})
	return items
}

func (r *dealRepoMem) List(_ context.Context, limit, offset int) ([]*Deal, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	page, total := pagination.Slice(r.sorted(nil), pagination.Params{Limit: limit, Offset: offset})
	return page, total, nil
}

func (r *dealRepoMem) ListByCustomer(_ context.Context, customerID uuid.UUID, limit, offset int) ([]*Deal, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	items := r.sorted(func(d *Deal) bool { return d.CustomerID == customerID })
	page, total := pagination.Slice(items, pagination.Params{Limit: limit, Offset: offset})
	return page, total, nil
}

func (r *dealRepoMem) ListByStage(_ context.Context, stage string, limit, offset int) ([]*Deal, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	items := r.sorted(func(d *Deal) bool { return d.Stage == stage })
	page, total := pagination.Slice(items, pagination.Params{Limit: limit, Offset: offset})
	return page, total, nil
}

func (r *dealRepoMem) ListAll(_ context.Context) ([]*Deal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sorted(nil), nil
}
