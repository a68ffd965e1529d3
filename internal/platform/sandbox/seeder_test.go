package sandbox

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/caredesk/caredesk/internal/domain/bed"
	"github.com/caredesk/caredesk/internal/domain/billing"
	"github.com/caredesk/caredesk/internal/domain/board"
	"github.com/caredesk/caredesk/internal/domain/crm"
	"github.com/caredesk/caredesk/internal/domain/messaging"
	"github.com/caredesk/caredesk/internal/domain/page"
	"github.com/caredesk/caredesk/internal/domain/patient"
	"github.com/caredesk/caredesk/internal/domain/scheduling"
	"github.com/caredesk/caredesk/internal/domain/staff"
	"github.com/caredesk/caredesk/internal/platform/webhook"
)

func newTestServices() Services {
	return Services{
		Patients:     patient.NewService(patient.NewRepoMem()),
		Staff:        staff.NewService(staff.NewRepoMem()),
		Beds:         bed.NewService(bed.NewRepoMem()),
		Appointments: scheduling.NewService(scheduling.NewRepoMem()),
		CRM:          crm.NewService(crm.NewCustomerRepoMem(), crm.NewDealRepoMem()),
		Invoices:     billing.NewService(billing.NewRepoMem(), webhook.NewNopEmitter(zerolog.Nop())),
		Messages:     messaging.NewService(messaging.NewRepoMem()),
		Boards:       board.NewService(board.NewBoardRepoMem(), board.NewCardRepoMem(), webhook.NewNopEmitter(zerolog.Nop()), zerolog.Nop()),
		Pages:        page.NewService(page.NewRepoMem()),
	}
}

func TestSeed(t *testing.T) {
	ctx := context.Background()
	svcs := newTestServices()

	result, err := Seed(ctx, svcs, zerolog.Nop())
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	if result.Patients != 4 || result.Staff != 6 || result.Beds != 6 {
		t.Errorf("unexpected counts: %+v", result)
	}

	occupancy, err := svcs.Beds.Occupancy(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if occupancy.Occupied != 2 {
		t.Errorf("expected 2 occupied beds, got %d", occupancy.Occupied)
	}
	if occupancy.Maintenance != 1 {
		t.Errorf("expected 1 maintenance bed, got %d", occupancy.Maintenance)
	}

	agenda, err := svcs.Appointments.Agenda(ctx, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if len(agenda) != 3 {
		t.Errorf("expected 3 appointments on today's agenda, got %d", len(agenda))
	}

	pipeline, err := svcs.CRM.Pipeline(ctx)
	if err != nil {
		t.Fatal(err)
	}
	var totalDeals int
	for _, row := range pipeline {
		totalDeals += row.Count
	}
	if totalDeals != result.Deals {
		t.Errorf("pipeline shows %d deals, seeded %d", totalDeals, result.Deals)
	}

	unread, err := svcs.Messages.TotalUnread(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if unread != result.Messages {
		t.Errorf("expected all %d seeded messages unread, got %d", result.Messages, unread)
	}

	boards, _, err := svcs.Boards.ListBoards(ctx, 10, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(boards) != 1 {
		t.Fatalf("expected 1 board, got %d", len(boards))
	}
	view, err := svcs.Boards.GetBoard(ctx, boards[0].ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(view.Cards["todo"]) != 2 || len(view.Cards["in_progress"]) != 1 || len(view.Cards["done"]) != 1 {
		t.Errorf("unexpected card layout: %+v", view.Cards)
	}
}
