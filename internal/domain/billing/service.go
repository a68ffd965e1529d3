package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/caredesk/caredesk/internal/platform/webhook"
)

type Service struct {
	invoices Repository
	events   webhook.Emitter
}

func NewService(invoices Repository, events webhook.Emitter) *Service {
	return &Service{invoices: invoices, events: events}
}

var validStatuses = map[string]bool{
	StatusDraft: true, StatusPending: true, StatusPaid: true,
	StatusOverdue: true, StatusCancelled: true,
}

func validateItems(items []LineItem) error {
	for i, it := range items {
		if it.Description == "" {
			return fmt.Errorf("item %d: description is required", i)
		}
		if it.Quantity <= 0 {
			return fmt.Errorf("item %d: quantity must be positive", i)
		}
		if it.UnitPriceCents < 0 {
			return fmt.Errorf("item %d: unit price must not be negative", i)
		}
	}
	return nil
}

func (s *Service) Create(ctx context.Context, inv *Invoice) (*InvoiceView, error) {
	if inv.CustomerID == nil && inv.PatientID == nil {
		return nil, fmt.Errorf("customer_id or patient_id is required")
	}
	if inv.Status == "" {
		inv.Status = StatusDraft
	}
	if !validStatuses[inv.Status] {
		return nil, fmt.Errorf("invalid invoice status: %s", inv.Status)
	}
	if inv.Currency == "" {
		inv.Currency = "USD"
	}
	if inv.TaxRateBps < 0 || inv.TaxRateBps > 10000 {
		return nil, fmt.Errorf("tax_rate_bps must be between 0 and 10000")
	}
	if err := validateItems(inv.Items); err != nil {
		return nil, err
	}
	if inv.Number == "" {
		inv.Number = fmt.Sprintf("INV-%d", time.Now().UnixMilli())
	}
	if err := s.invoices.Create(ctx, inv); err != nil {
		return nil, err
	}
	return NewView(inv), nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*InvoiceView, error) {
	inv, err := s.invoices.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return NewView(inv), nil
}

func (s *Service) Update(ctx context.Context, inv *Invoice) (*InvoiceView, error) {
	if inv.Status != "" && !validStatuses[inv.Status] {
		return nil, fmt.Errorf("invalid invoice status: %s", inv.Status)
	}
	if inv.TaxRateBps < 0 || inv.TaxRateBps > 10000 {
		return nil, fmt.Errorf("tax_rate_bps must be between 0 and 10000")
	}
	if err := s.invoices.Update(ctx, inv); err != nil {
		return nil, err
	}
	updated, err := s.invoices.GetByID(ctx, inv.ID)
	if err != nil {
		return nil, err
	}
	return NewView(updated), nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.invoices.Delete(ctx, id)
}

func (s *Service) ReplaceItems(ctx context.Context, id uuid.UUID, items []LineItem) (*InvoiceView, error) {
	if err := validateItems(items); err != nil {
		return nil, err
	}
	if err := s.invoices.ReplaceItems(ctx, id, items); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// MarkPaid transitions an invoice to paid and emits an invoice.paid event.
// Paying an already-paid invoice is a no-op.
func (s *Service) MarkPaid(ctx context.Context, id uuid.UUID) (*InvoiceView, error) {
	inv, err := s.invoices.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv.Status == StatusPaid {
		return NewView(inv), nil
	}
	if inv.Status == StatusCancelled {
		return nil, fmt.Errorf("cannot pay a cancelled invoice")
	}
	inv.Status = StatusPaid
	if err := s.invoices.Update(ctx, inv); err != nil {
		return nil, err
	}
	view := NewView(inv)
	s.events.Emit(ctx, "invoice.paid", "Invoice", inv.ID.String(), map[string]interface{}{
		"invoice_id":  inv.ID,
		"number":      inv.Number,
		"total_cents": view.Totals.TotalCents,
		"currency":    inv.Currency,
	})
	return view, nil
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*InvoiceView, int, error) {
	invoices, total, err := s.invoices.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return views(invoices), total, nil
}

func (s *Service) ListByStatus(ctx context.Context, status string, limit, offset int) ([]*InvoiceView, int, error) {
	if !validStatuses[status] {
		return nil, 0, fmt.Errorf("invalid invoice status: %s", status)
	}
	invoices, total, err := s.invoices.ListByStatus(ctx, status, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return views(invoices), total, nil
}

// Revenue recomputes the per-status revenue summary over all invoices.
func (s *Service) Revenue(ctx context.Context) ([]RevenueSummary, error) {
	invoices, err := s.invoices.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return BuildRevenueSummary(invoices), nil
}

func views(invoices []*Invoice) []*InvoiceView {
	out := make([]*InvoiceView, len(invoices))
	for i, inv := range invoices {
		out[i] = NewView(inv)
	}
	return out
}
