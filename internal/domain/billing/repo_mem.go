package billing

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/caredesk/caredesk/internal/platform/snapshot"
	"github.com/caredesk/caredesk/pkg/pagination"
)

// snapshotName and snapshotSchemaVersion identify the invoice snapshot file.
// Bump the version whenever the serialized shape changes; stale snapshots
// are rejected at load and the repo starts empty.
const (
	snapshotName          = "invoices"
	snapshotSchemaVersion = 1
)

// repoMem is the in-memory invoice store. When constructed with a snapshot
// store it reloads the last snapshot once and rewrites it after every
// mutation, so demo data survives restarts.
type repoMem struct {
	mu       sync.RWMutex
	invoices map[uuid.UUID]*Invoice
	snaps    *snapshot.Store
	logger   zerolog.Logger
}

func NewRepoMem() Repository {
	return &repoMem{invoices: make(map[uuid.UUID]*Invoice)}
}

// NewRepoMemWithSnapshot restores state from the snapshot store if a
// compatible snapshot exists. A version mismatch or parse failure is logged
// and the empty default kept.
func NewRepoMemWithSnapshot(snaps *snapshot.Store, logger zerolog.Logger) Repository {
	r := &repoMem{
		invoices: make(map[uuid.UUID]*Invoice),
		snaps:    snaps,
		logger:   logger,
	}
	var stored []*Invoice
	err := snaps.Load(snapshotName, snapshotSchemaVersion, &stored)
	switch {
	case err == nil:
		for _, inv := range stored {
			r.invoices[inv.ID] = inv
		}
		logger.Info().Int("count", len(stored)).Msg("invoice snapshot restored")
	case errors.Is(err, snapshot.ErrNotFound):
		// First run, nothing to restore.
	default:
		logger.Warn().Err(err).Msg("invoice snapshot rejected, starting empty")
	}
	return r
}

// persist rewrites the snapshot. Callers hold the write lock.
func (r *repoMem) persist() {
	if r.snaps == nil {
		return
	}
	stored := make([]*Invoice, 0, len(r.invoices))
	for _, inv := range r.invoices {
		stored = append(stored, inv)
	}
	sort.Slice(stored, func(i, j int) bool { return stored[i].CreatedAt.Before(stored[j].CreatedAt) })
	if err := r.snaps.Save(snapshotName, snapshotSchemaVersion, stored); err != nil {
		r.logger.Error().Err(err).Msg("invoice snapshot write failed")
	}
}

func cloneInvoice(inv *Invoice) *Invoice {
	c := *inv
	c.Items = append([]LineItem(nil), inv.Items...)
	if inv.CustomerID != nil {
		v := *inv.CustomerID
		c.CustomerID = &v
	}
	if inv.PatientID != nil {
		v := *inv.PatientID
		c.PatientID = &v
	}
	if inv.IssueDate != nil {
		v := *inv.IssueDate
		c.IssueDate = &v
	}
	if inv.DueDate != nil {
		v := *inv.DueDate
		c.DueDate = &v
	}
	if inv.Notes != nil {
		v := *inv.Notes
		c.Notes = &v
	}
	return &c
}

func (r *repoMem) Create(_ context.Context, inv *Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv.ID = uuid.New()
	inv.CreatedAt = time.Now()
	inv.UpdatedAt = inv.CreatedAt
	for i := range inv.Items {
		inv.Items[i].ID = uuid.New()
		inv.Items[i].InvoiceID = inv.ID
		inv.Items[i].Position = i
	}
	r.invoices[inv.ID] = cloneInvoice(inv)
	r.persist()
	return nil
}

func (r *repoMem) GetByID(_ context.Context, id uuid.UUID) (*Invoice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	inv, ok := r.invoices[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneInvoice(inv), nil
}

func (r *repoMem) Update(_ context.Context, inv *Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.invoices[inv.ID]
	if !ok {
		return ErrNotFound
	}
	inv.CreatedAt = existing.CreatedAt
	inv.UpdatedAt = time.Now()
	inv.Items = existing.Items
	r.invoices[inv.ID] = cloneInvoice(inv)
	r.persist()
	return nil
}

func (r *repoMem) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.invoices[id]; !ok {
		return ErrNotFound
	}
	delete(r.invoices, id)
	r.persist()
	return nil
}

func (r *repoMem) ReplaceItems(_ context.Context, invoiceID uuid.UUID, items []LineItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.invoices[invoiceID]
	if !ok {
		return ErrNotFound
	}
	inv.Items = make([]LineItem, len(items))
	for i := range items {
		items[i].ID = uuid.New()
		items[i].InvoiceID = invoiceID
		items[i].Position = i
		inv.Items[i] = items[i]
	}
	inv.UpdatedAt = time.Now()
	r.persist()
	return nil
}

func (r *repoMem) sorted(filter func(*Invoice) bool) []*Invoice {
	var items []*Invoice
	for _, inv := range r.invoices {
		if filter == nil || filter(inv) {
			items = append(items, cloneInvoice(inv))
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

func (r *repoMem) List(_ context.Context, limit, offset int) ([]*Invoice, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	page, total := pagination.Slice(r.sorted(nil), pagination.Params{Limit: limit, Offset: offset})
	return page, total, nil
}

func (r *repoMem) ListByStatus(_ context.Context, status string, limit, offset int) ([]*Invoice, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	items := r.sorted(func(inv *Invoice) bool { return inv.Status == status })
	page, total := pagination.Slice(items, pagination.Params{Limit: limit, Offset: offset})
	return page, total, nil
}

func (r *repoMem) ListAll(_ context.Context) ([]*Invoice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sorted(nil), nil
}
