package billing

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/caredesk/caredesk/internal/platform/snapshot"
)

type recordingEmitter struct {
	mu     sync.Mutex
	events []string
}

func (e *recordingEmitter) Emit(_ context.Context, eventType, _, _ string, _ interface{}) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, eventType)
}

func newTestService() (*Service, *recordingEmitter) {
	em := &recordingEmitter{}
	return NewService(NewRepoMem(), em), em
}

func custRef() *uuid.UUID {
	id := uuid.New()
	return &id
}

func TestCreateInvoice_RequiresReference(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.Create(context.Background(), &Invoice{})
	if err == nil {
		t.Error("expected error without customer or patient reference")
	}
}

func TestCreateInvoice_DefaultsAndNumber(t *testing.T) {
	svc, _ := newTestService()
	view, err := svc.Create(context.Background(), &Invoice{CustomerID: custRef()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if view.Status != StatusDraft {
		t.Errorf("expected draft, got %q", view.Status)
	}
	if view.Currency != "USD" {
		t.Errorf("expected USD, got %q", view.Currency)
	}
	if view.Number == "" {
		t.Error("expected generated invoice number")
	}
}

func TestTotals_DerivedFromItems(t *testing.T) {
	svc, _ := newTestService()
	view, err := svc.Create(context.Background(), &Invoice{
		CustomerID: custRef(),
		TaxRateBps: 1000, // 10%
		Items: []LineItem{
			{Description: "Consultation", Quantity: 2, UnitPriceCents: 150_00},
			{Description: "X-ray", Quantity: 1, UnitPriceCents: 80_00},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if view.Totals.SubtotalCents != 380_00 {
		t.Errorf("subtotal = %d, want 38000", view.Totals.SubtotalCents)
	}
	if view.Totals.TaxCents != 38_00 {
		t.Errorf("tax = %d, want 3800", view.Totals.TaxCents)
	}
	if view.Totals.TotalCents != 418_00 {
		t.Errorf("total = %d, want 41800", view.Totals.TotalCents)
	}
}

func TestCreateInvoice_RejectsBadItems(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.Create(context.Background(), &Invoice{
		CustomerID: custRef(),
		Items:      []LineItem{{Description: "x", Quantity: 0, UnitPriceCents: 100}},
	})
	if err == nil {
		t.Error("expected error for zero quantity")
	}
}

func TestReplaceItems_RecomputesTotals(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	view, err := svc.Create(ctx, &Invoice{
		CustomerID: custRef(),
		Items:      []LineItem{{Description: "a", Quantity: 1, UnitPriceCents: 100_00}},
	})
	if err != nil {
		t.Fatal(err)
	}

	updated, err := svc.ReplaceItems(ctx, view.ID, []LineItem{
		{Description: "b", Quantity: 3, UnitPriceCents: 50_00},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(updated.Items) != 1 || updated.Items[0].Description != "b" {
		t.Errorf("items not replaced: %+v", updated.Items)
	}
	if updated.Totals.TotalCents != 150_00 {
		t.Errorf("total = %d, want 15000", updated.Totals.TotalCents)
	}
}

func TestMarkPaid_EmitsEventOnce(t *testing.T) {
	svc, em := newTestService()
	ctx := context.Background()
	view, err := svc.Create(ctx, &Invoice{CustomerID: custRef(), Status: StatusPending})
	if err != nil {
		t.Fatal(err)
	}

	paid, err := svc.MarkPaid(ctx, view.ID)
	if err != nil {
		t.Fatal(err)
	}
	if paid.Status != StatusPaid {
		t.Errorf("expected paid, got %q", paid.Status)
	}
	if len(em.events) != 1 || em.events[0] != "invoice.paid" {
		t.Errorf("expected one invoice.paid event, got %v", em.events)
	}

	// Paying again is a no-op and emits nothing.
	if _, err := svc.MarkPaid(ctx, view.ID); err != nil {
		t.Fatal(err)
	}
	if len(em.events) != 1 {
		t.Errorf("expected no second event, got %v", em.events)
	}
}

func TestMarkPaid_CancelledRejected(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	view, err := svc.Create(ctx, &Invoice{CustomerID: custRef(), Status: StatusCancelled})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.MarkPaid(ctx, view.ID); err == nil {
		t.Error("expected error paying a cancelled invoice")
	}
}

func TestMarkPaid_NotFound(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.MarkPaid(context.Background(), uuid.New())
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRevenueSummary(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	seed := []*Invoice{
		{CustomerID: custRef(), Status: StatusPaid,
			Items: []LineItem{{Description: "a", Quantity: 1, UnitPriceCents: 100_00}}},
		{CustomerID: custRef(), Status: StatusPaid,
			Items: []LineItem{{Description: "b", Quantity: 1, UnitPriceCents: 50_00}}},
		{CustomerID: custRef(), Status: StatusPending,
			Items: []LineItem{{Description: "c", Quantity: 1, UnitPriceCents: 75_00}}},
	}
	for _, inv := range seed {
		if _, err := svc.Create(ctx, inv); err != nil {
			t.Fatal(err)
		}
	}

	summary, err := svc.Revenue(ctx)
	if err != nil {
		t.Fatal(err)
	}
	byStatus := map[string]RevenueSummary{}
	for _, s := range summary {
		byStatus[s.Status] = s
	}
	if byStatus[StatusPaid].Count != 2 || byStatus[StatusPaid].TotalCents != 150_00 {
		t.Errorf("unexpected paid summary: %+v", byStatus[StatusPaid])
	}
	if byStatus[StatusPending].TotalCents != 75_00 {
		t.Errorf("unexpected pending summary: %+v", byStatus[StatusPending])
	}
}

func TestSnapshot_RoundTripAcrossRestart(t *testing.T) {
	dir := t.TempDir()
	snaps, err := snapshot.NewStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	logger := zerolog.Nop()

	repo := NewRepoMemWithSnapshot(snaps, logger)
	svc := NewService(repo, &recordingEmitter{})
	ctx := context.Background()

	view, err := svc.Create(ctx, &Invoice{
		CustomerID: custRef(),
		Status:     StatusPending,
		TaxRateBps: 500,
		Items: []LineItem{
			{Description: "Consultation", Quantity: 2, UnitPriceCents: 150_00},
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	// Simulate a restart: a fresh repo over the same snapshot directory.
	restarted := NewRepoMemWithSnapshot(snaps, logger)
	got, err := restarted.GetByID(ctx, view.ID)
	if err != nil {
		t.Fatalf("invoice lost across restart: %v", err)
	}
	if got.Number != view.Number || got.Status != view.Status || got.TaxRateBps != view.TaxRateBps {
		t.Errorf("restored invoice differs: %+v vs %+v", got, view.Invoice)
	}
	if len(got.Items) != 1 || got.Items[0].UnitPriceCents != 150_00 {
		t.Errorf("restored items differ: %+v", got.Items)
	}
	if NewView(got).Totals != view.Totals {
		t.Errorf("restored totals differ")
	}
}

func TestSnapshot_VersionMismatchStartsEmpty(t *testing.T) {
	dir := t.TempDir()
	snaps, err := snapshot.NewStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	// Write a snapshot under a future schema version.
	if err := snaps.Save(snapshotName, snapshotSchemaVersion+1, []*Invoice{{ID: uuid.New()}}); err != nil {
		t.Fatal(err)
	}

	repo := NewRepoMemWithSnapshot(snaps, zerolog.Nop())
	invoices, err := repo.ListAll(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(invoices) != 0 {
		t.Errorf("expected empty repo after version mismatch, got %d invoices", len(invoices))
	}
}
