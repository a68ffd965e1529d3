package patient

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/caredesk/caredesk/pkg/pagination"
)

type repoMem struct {
	mu       sync.RWMutex
	patients map[uuid.UUID]*Patient
}

func NewRepoMem() Repository {
	return &repoMem{patients: make(map[uuid.UUID]*Patient)}
}

func clonePatient(p *Patient) *Patient {
	c := *p
	c.Allergies = append([]string(nil), p.Allergies...)
	c.MedicalHistory = append([]string(nil), p.MedicalHistory...)
	c.Tags = append([]string(nil), p.Tags...)
	if p.BirthDate != nil {
		v := *p.BirthDate
		c.BirthDate = &v
	}
	if p.AttendingID != nil {
		v := *p.AttendingID
		c.AttendingID = &v
	}
	if p.BedID != nil {
		v := *p.BedID
		c.BedID = &v
	}
	return &c
}

func (r *repoMem) Create(_ context.Context, p *Patient) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.ID = uuid.New()
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	r.patients[p.ID] = clonePatient(p)
	return nil
}

func (r *repoMem) GetByID(_ context.Context, id uuid.UUID) (*Patient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.patients[id]
	if !ok {
		return nil, ErrNotFound
	}
	return clonePatient(p), nil
}

func (r *repoMem) GetByMRN(_ context.Context, mrn string) (*Patient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.patients {
		if p.MRN == mrn {
			return clonePatient(p), nil
		}
	}
	return nil, ErrNotFound
}

func (r *repoMem) Update(_ context.Context, p *Patient) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.patients[p.ID]
	if !ok {
		return ErrNotFound
	}
	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = time.Now()
	r.patients[p.ID] = clonePatient(p)
	return nil
}

func (r *repoMem) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.patients[id]; !ok {
		return ErrNotFound
	}
	delete(r.patients, id)
	return nil
}

func (r *repoMem) sorted(filter func(*Patient) bool) []*Patient {
	var items []*Patient
	for _, p := range r.patients {
		if filter == nil || filter(p) {
			items = append(items, clonePatient(p))
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].LastName != items[j].LastName {
			return items[i].LastName < items[j].LastName
		}
		return items[i].FirstName < items[j].FirstName
	})
	return items
}

func (r *repoMem) List(_ context.Context, limit, offset int) ([]*Patient, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	page, total := pagination.Slice(r.sorted(nil), pagination.Params{Limit: limit, Offset: offset})
	return page, total, nil
}

func (r *repoMem) ListByAdmissionStatus(_ context.Context, status string, limit, offset int) ([]*Patient, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	items := r.sorted(func(p *Patient) bool { return p.AdmissionStatus == status })
	page, total := pagination.Slice(items, pagination.Params{Limit: limit, Offset: offset})
	return page, total, nil
}

func (r *repoMem) Search(_ context.Context, query string, limit, offset int) ([]*Patient, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	q := strings.ToLower(query)
	items := r.sorted(func(p *Patient) bool {
		return strings.Contains(strings.ToLower(p.FirstName), q) ||
			strings.Contains(strings.ToLower(p.LastName), q) ||
			strings.Contains(strings.ToLower(p.MRN), q)
	})
	page, total := pagination.Slice(items, pagination.Params{Limit: limit, Offset: offset})
	return page, total, nil
}

func (r *repoMem) ListAll(_ context.Context) ([]*Patient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sorted(nil), nil
}
