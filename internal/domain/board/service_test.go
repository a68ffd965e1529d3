package board

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
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
	emitter := &recordingEmitter{}
	svc := NewService(NewBoardRepoMem(), NewCardRepoMem(), emitter, zerolog.Nop())
	return svc, emitter
}

func newTestBoard(t *testing.T, svc *Service) *Board {
	t.Helper()
	b, err := svc.CreateBoard(context.Background(), &Board{Name: "Ward Tasks"}, nil)
	if err != nil {
		t.Fatalf("create board: %v", err)
	}
	return b
}

func newTestCard(t *testing.T, svc *Service, boardID uuid.UUID, column, title string) *Card {
	t.Helper()
	c, err := svc.CreateCard(context.Background(), &Card{BoardID: boardID, ColumnKey: column, Title: title})
	if err != nil {
		t.Fatalf("create card: %v", err)
	}
	return c
}

func TestCreateBoard_DefaultColumns(t *testing.T) {
	svc, _ := newTestService()
	b := newTestBoard(t, svc)

	view, err := svc.GetBoard(context.Background(), b.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(view.Columns) != 3 {
		t.Fatalf("expected 3 default columns, got %d", len(view.Columns))
	}
	keys := []string{"todo", "in_progress", "done"}
	for i, col := range view.Columns {
		if col.Key != keys[i] {
			t.Errorf("column %d: expected %q, got %q", i, keys[i], col.Key)
		}
		if col.Position != i {
			t.Errorf("column %q: expected position %d, got %d", col.Key, i, col.Position)
		}
	}
}

func TestCreateBoard_RejectsDuplicateColumnKeys(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.CreateBoard(context.Background(), &Board{Name: "X"}, []*Column{
		{Key: "todo", Title: "To Do"},
		{Key: "todo", Title: "Also To Do"},
	})
	if err == nil {
		t.Error("expected error for duplicate column keys")
	}
}

func TestCreateCard_AppendsToColumn(t *testing.T) {
	svc, _ := newTestService()
	b := newTestBoard(t, svc)

	first := newTestCard(t, svc, b.ID, "todo", "Restock supplies")
	second := newTestCard(t, svc, b.ID, "todo", "Check monitors")
	if first.Position != 0 || second.Position != 1 {
		t.Errorf("expected positions 0 and 1, got %d and %d", first.Position, second.Position)
	}

	_, err := svc.CreateCard(context.Background(), &Card{BoardID: b.ID, ColumnKey: "backlog", Title: "x"})
	if !errors.Is(err, ErrColumnNotFound) {
		t.Errorf("expected ErrColumnNotFound for unknown column, got %v", err)
	}
}

func TestMoveCard(t *testing.T) {
	svc, emitter := newTestService()
	b := newTestBoard(t, svc)
	ctx := context.Background()

	moved := newTestCard(t, svc, b.ID, "todo", "Restock supplies")
	other := newTestCard(t, svc, b.ID, "todo", "Check monitors")
	done := newTestCard(t, svc, b.ID, "done", "Handover notes")

	got, err := svc.MoveCard(ctx, moved.ID, "in_progress")
	if err != nil {
		t.Fatal(err)
	}
	if got.ColumnKey != "in_progress" {
		t.Errorf("expected card in in_progress, got %q", got.ColumnKey)
	}
	if got.Position != 0 {
		t.Errorf("expected position 0 in empty destination, got %d", got.Position)
	}

	// Every other card is untouched.
	for _, id := range []uuid.UUID{other.ID, done.ID} {
		before := other
		if id == done.ID {
			before = done
		}
		after, err := svc.GetCard(ctx, id)
		if err != nil {
			t.Fatal(err)
		}
		if after.ColumnKey != before.ColumnKey || after.Position != before.Position {
			t.Errorf("card %s changed: %q/%d vs %q/%d",
				id, after.ColumnKey, after.Position, before.ColumnKey, before.Position)
		}
	}

	if len(emitter.events) != 1 || emitter.events[0] != "card.moved" {
		t.Errorf("expected one card.moved event, got %v", emitter.events)
	}
}

func TestMoveCard_SameColumnIsNoOp(t *testing.T) {
	svc, emitter := newTestService()
	b := newTestBoard(t, svc)

	c := newTestCard(t, svc, b.ID, "todo", "Restock supplies")
	got, err := svc.MoveCard(context.Background(), c.ID, "todo")
	if err != nil {
		t.Fatal(err)
	}
	if got.Position != c.Position {
		t.Errorf("position changed on same-column move: %d vs %d", got.Position, c.Position)
	}
	if len(emitter.events) != 0 {
		t.Errorf("expected no events on same-column move, got %v", emitter.events)
	}
}

func TestMoveCard_UnknownColumn(t *testing.T) {
	svc, _ := newTestService()
	b := newTestBoard(t, svc)

	c := newTestCard(t, svc, b.ID, "todo", "Restock supplies")
	if _, err := svc.MoveCard(context.Background(), c.ID, "archive"); !errors.Is(err, ErrColumnNotFound) {
		t.Errorf("expected ErrColumnNotFound, got %v", err)
	}
}

func TestDeleteColumn_RefusesWhenNotEmpty(t *testing.T) {
	svc, _ := newTestService()
	b := newTestBoard(t, svc)
	ctx := context.Background()

	newTestCard(t, svc, b.ID, "todo", "Restock supplies")
	if err := svc.DeleteColumn(ctx, b.ID, "todo"); err == nil {
		t.Error("expected error deleting a column with cards")
	}
	if err := svc.DeleteColumn(ctx, b.ID, "done"); err != nil {
		t.Errorf("expected empty column delete to succeed, got %v", err)
	}
}

func TestGetBoard_GroupsCardsByColumn(t *testing.T) {
	svc, _ := newTestService()
	b := newTestBoard(t, svc)

	newTestCard(t, svc, b.ID, "todo", "a")
	newTestCard(t, svc, b.ID, "todo", "b")
	newTestCard(t, svc, b.ID, "done", "c")

	view, err := svc.GetBoard(context.Background(), b.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(view.Cards["todo"]) != 2 || len(view.Cards["done"]) != 1 {
		t.Errorf("unexpected grouping: todo=%d done=%d",
			len(view.Cards["todo"]), len(view.Cards["done"]))
	}
	if got := view.Cards["in_progress"]; got == nil || len(got) != 0 {
		t.Error("expected empty slice for column without cards")
	}
	if view.Cards["todo"][0].Title != "a" || view.Cards["todo"][1].Title != "b" {
		t.Error("expected cards ordered by position within column")
	}
}

func TestUpdateCard_KeepsColumnAndPosition(t *testing.T) {
	svc, _ := newTestService()
	b := newTestBoard(t, svc)

	c := newTestCard(t, svc, b.ID, "todo", "Restock supplies")
	c.Title = "Restock IV supplies"
	c.ColumnKey = "done" // ignored; moves go through MoveCard
	updated, err := svc.UpdateCard(context.Background(), c)
	if err != nil {
		t.Fatal(err)
	}
	if updated.Title != "Restock IV supplies" {
		t.Errorf("title not updated: %q", updated.Title)
	}
	if updated.ColumnKey != "todo" {
		t.Errorf("update changed column to %q", updated.ColumnKey)
	}
}
