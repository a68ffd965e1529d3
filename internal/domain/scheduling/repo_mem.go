package scheduling

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
	appts map[uuid.UUID]*Appointment
}

func NewRepoMem() Repository {
	return &repoMem{appts: make(map[uuid.UUID]*Appointment)}
}

func cloneAppointment(a *Appointment) *Appointment {
	c := *a
	if a.Room != nil {
		v := *a.Room
		c.Room = &v
	}
	if a.Notes != nil {
		v := *a.Notes
		c.Notes = &v
	}
	return &c
}

func (r *repoMem) Create(_ context.Context, a *Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a.ID = uuid.New()
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	r.appts[a.ID] = cloneAppointment(a)
	return nil
}

func (r *repoMem) GetByID(_ context.Context, id uuid.UUID) (*Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.appts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneAppointment(a), nil
}

func (r *repoMem) Update(_ context.Context, a *Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.appts[a.ID]
	if !ok {
		return ErrNotFound
	}
	a.CreatedAt = existing.CreatedAt
	a.UpdatedAt = time.Now()
	r.appts[a.ID] = cloneAppointment(a)
	return nil
}

func (r *repoMem) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.appts[id]; !ok {
		return ErrNotFound
	}
	delete(r.appts, id)
	return nil
}

func (r *repoMem) sorted(filter func(*Appointment) bool) []*Appointment {
	var items []*Appointment
	for _, a := range r.appts {
		if filter == nil || filter(a) {
			items = append(items, cloneAppointment(a))
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if !items[i].StartTime.Equal(items[j].StartTime) {
			return items[i].StartTime.Before(items[j].StartTime)
		}
		return items[i].ID.String() < items[j].ID.String()
	})
	return items
}

func (r *repoMem) List(_ context.Context, limit, offset int) ([]*Appointment, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	page, total := pagination.Slice(r.sorted(nil), pagination.Params{Limit: limit, Offset: offset})
	return page, total, nil
}

func (r *repoMem) ListByPatient(_ context.Context, patientID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	items := r.sorted(func(a *Appointment) bool { return a.PatientID == patientID })
	page, total := pagination.Slice(items, pagination.Params{Limit: limit, Offset: offset})
	return page, total, nil
}

func (r *repoMem) ListByStaff(_ context.Context, staffID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	items := r.sorted(func(a *Appointment) bool { return a.StaffID == staffID })
	page, total := pagination.Slice(items, pagination.Params{Limit: limit, Offset: offset})
	return page, total, nil
}

func (r *repoMem) ListIntersecting(_ context.Context, from, to time.Time) ([]*Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sorted(func(a *Appointment) bool {
		return a.StartTime.Before(to) && a.EndTime.After(from)
	}), nil
}
