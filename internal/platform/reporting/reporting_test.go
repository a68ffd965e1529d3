package reporting

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/caredesk/caredesk/internal/domain/bed"
	"github.com/caredesk/caredesk/internal/domain/billing"
	"github.com/caredesk/caredesk/internal/domain/messaging"
	"github.com/caredesk/caredesk/internal/domain/scheduling"
	"github.com/caredesk/caredesk/internal/platform/webhook"
)

func newTestDashboard(t *testing.T) (*Service, context.Context) {
	t.Helper()
	ctx := context.Background()

	beds := bed.NewService(bed.NewRepoMem())
	for _, ward := range []string{"ICU", "ICU", "General"} {
		if err := beds.Create(ctx, &bed.Bed{Number: uuid.NewString()[:8], Ward: ward}); err != nil {
			t.Fatal(err)
		}
	}

	appts := scheduling.NewService(scheduling.NewRepoMem())
	y, m, d := time.Now().Date()
	start := time.Date(y, m, d, 12, 0, 0, 0, time.Local)
	err := appts.Create(ctx, &scheduling.Appointment{
		PatientID: uuid.New(),
		StaffID:   uuid.New(),
		StartTime: start,
		EndTime:   start.Add(30 * time.Minute),
	})
	if err != nil {
		t.Fatal(err)
	}

	invoices := billing.NewService(billing.NewRepoMem(), webhook.NewNopEmitter(zerolog.Nop()))
	customerID := uuid.New()
	paid, err := invoices.Create(ctx, &billing.Invoice{
		CustomerID: &customerID,
		Status:     billing.StatusPending,
		Items:      []billing.LineItem{{Description: "Consultation", Quantity: 1, UnitPriceCents: 20000}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := invoices.MarkPaid(ctx, paid.ID); err != nil {
		t.Fatal(err)
	}
	_, err = invoices.Create(ctx, &billing.Invoice{
		CustomerID: &customerID,
		Status:     billing.StatusPending,
		Items:      []billing.LineItem{{Description: "Lab panel", Quantity: 1, UnitPriceCents: 5000}},
	})
	if err != nil {
		t.Fatal(err)
	}

	messages := messaging.NewService(messaging.NewRepoMem())
	if err := messages.Send(ctx, &messaging.Message{SenderID: uuid.New(), RecipientID: uuid.New(), Body: "hi"}); err != nil {
		t.Fatal(err)
	}

	return NewService(beds, appts, invoices, messages), ctx
}

func TestBuild(t *testing.T) {
	svc, ctx := newTestDashboard(t)

	d, err := svc.Build(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if d.Occupancy == nil || d.Occupancy.Total != 3 {
		t.Errorf("expected 3 beds in occupancy, got %+v", d.Occupancy)
	}
	if d.AppointmentsToday != 1 {
		t.Errorf("expected 1 appointment today, got %d", d.AppointmentsToday)
	}
	if d.CollectedCents != 20000 {
		t.Errorf("expected 20000 collected, got %d", d.CollectedCents)
	}
	if d.OutstandingCents != 5000 {
		t.Errorf("expected 5000 outstanding, got %d", d.OutstandingCents)
	}
	if d.UnreadMessages != 1 {
		t.Errorf("expected 1 unread message, got %d", d.UnreadMessages)
	}
	if len(d.Revenue) != 5 {
		t.Errorf("expected 5 revenue rows, got %d", len(d.Revenue))
	}
}
