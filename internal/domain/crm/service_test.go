package crm

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
)

func newTestService() *Service {
	return NewService(NewCustomerRepoMem(), NewDealRepoMem())
}

func TestCustomerLifecycle_LeadToClient(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	email := "lia@example.com"
	cust := &Customer{Name: "Lia Chen", Email: &email, Status: StatusLead}
	if err := svc.CreateCustomer(ctx, cust); err != nil {
		t.Fatalf("create: %v", err)
	}
	if cust.ID == uuid.Nil {
		t.Fatal("expected generated id")
	}

	_, total, err := svc.ListCustomers(ctx, 10, 0)
	if err != nil {
		t.Fatal(err)
	}
	if total != 1 {
		t.Errorf("expected collection of 1, got %d", total)
	}

	got, err := svc.GetCustomer(ctx, cust.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != StatusLead {
		t.Errorf("expected lead, got %q", got.Status)
	}

	got.Status = StatusClient
	if err := svc.UpdateCustomer(ctx, got); err != nil {
		t.Fatal(err)
	}

	reread, err := svc.GetCustomer(ctx, cust.ID)
	if err != nil {
		t.Fatal(err)
	}
	if reread.Status != StatusClient {
		t.Errorf("expected client after update, got %q", reread.Status)
	}
	if reread.Email == nil || *reread.Email != email {
		t.Error("email changed by status update")
	}
}

func TestCreateCustomer_NameRequired(t *testing.T) {
	svc := newTestService()
	if err := svc.CreateCustomer(context.Background(), &Customer{}); err == nil {
		t.Error("expected error for missing name")
	}
}

func TestCreateCustomer_RejectsInvalidStatus(t *testing.T) {
	svc := newTestService()
	err := svc.CreateCustomer(context.Background(), &Customer{Name: "X", Status: "vip"})
	if err == nil {
		t.Error("expected error for invalid status")
	}
}

func TestGetCustomer_NotFound(t *testing.T) {
	svc := newTestService()
	_, err := svc.GetCustomer(context.Background(), uuid.New())
	if !errors.Is(err, ErrCustomerNotFound) {
		t.Errorf("expected ErrCustomerNotFound, got %v", err)
	}
}

func TestCreateDeal_RequiresExistingCustomer(t *testing.T) {
	svc := newTestService()
	d := &Deal{CustomerID: uuid.New(), Title: "Annual contract"}
	err := svc.CreateDeal(context.Background(), d)
	if !errors.Is(err, ErrCustomerNotFound) {
		t.Errorf("expected ErrCustomerNotFound, got %v", err)
	}
}

func TestCreateDeal_DefaultsAndValidation(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	cust := &Customer{Name: "Lia Chen"}
	if err := svc.CreateCustomer(ctx, cust); err != nil {
		t.Fatal(err)
	}

	d := &Deal{CustomerID: cust.ID, Title: "Annual contract", ValueCents: 500000}
	if err := svc.CreateDeal(ctx, d); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Stage != StageQualification {
		t.Errorf("expected default stage qualification, got %q", d.Stage)
	}
	if d.Currency != "USD" {
		t.Errorf("expected default currency USD, got %q", d.Currency)
	}

	bad := 120
	err := svc.CreateDeal(ctx, &Deal{CustomerID: cust.ID, Title: "x", Probability: &bad})
	if err == nil {
		t.Error("expected error for probability > 100")
	}
}

func TestPipeline(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	cust := &Customer{Name: "Lia Chen"}
	if err := svc.CreateCustomer(ctx, cust); err != nil {
		t.Fatal(err)
	}

	seed := []*Deal{
		{CustomerID: cust.ID, Title: "a", Stage: StageProposal, ValueCents: 100_00},
		{CustomerID: cust.ID, Title: "b", Stage: StageProposal, ValueCents: 250_00},
		{CustomerID: cust.ID, Title: "c", Stage: StageWon, ValueCents: 999_00},
	}
	for _, d := range seed {
		if err := svc.CreateDeal(ctx, d); err != nil {
			t.Fatal(err)
		}
	}

	summary, err := svc.Pipeline(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(summary) != 5 {
		t.Fatalf("expected 5 stages, got %d", len(summary))
	}
	byStage := map[string]StageSummary{}
	for _, s := range summary {
		byStage[s.Stage] = s
	}
	if byStage[StageProposal].Count != 2 || byStage[StageProposal].ValueCents != 350_00 {
		t.Errorf("unexpected proposal summary: %+v", byStage[StageProposal])
	}
	if byStage[StageWon].Count != 1 || byStage[StageWon].ValueCents != 999_00 {
		t.Errorf("unexpected won summary: %+v", byStage[StageWon])
	}
	if byStage[StageLost].Count != 0 {
		t.Errorf("expected empty lost stage, got %+v", byStage[StageLost])
	}
}
