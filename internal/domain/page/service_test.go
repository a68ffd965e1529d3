package page

import (
	"context"
	"errors"
	"testing"
)

func newTestService() *Service {
	return NewService(NewRepoMem())
}

func newTestPage(t *testing.T, svc *Service) *Page {
	t.Helper()
	p, err := svc.Create(context.Background(), &Page{
		Title: "Ward handbook",
		Blocks: []Block{
			{Type: BlockHeading, Heading: &HeadingContent{Level: 1, Text: "Handbook"}},
			{Type: BlockTodo, Todo: &TodoContent{Text: "Review protocols"}},
			{Type: BlockParagraph, Paragraph: &ParagraphContent{Text: "Call ext 4412 for pharmacy."}},
		},
	})
	if err != nil {
		t.Fatalf("create page: %v", err)
	}
	return p
}

func TestCreate_Validation(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	if _, err := svc.Create(ctx, &Page{}); err == nil {
		t.Error("expected error for missing title")
	}
	_, err := svc.Create(ctx, &Page{Title: "x", Blocks: []Block{
		{Type: BlockHeading, Heading: &HeadingContent{Level: 7, Text: "too deep"}},
	}})
	if err == nil {
		t.Error("expected error for heading level out of range")
	}
}

func TestToggleTodo(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	p := newTestPage(t, svc)

	toggled, err := svc.ToggleTodo(ctx, p.ID, 1)
	if err != nil {
		t.Fatal(err)
	}
	if !toggled.Blocks[1].Todo.Checked {
		t.Error("expected todo checked after first toggle")
	}

	toggled, err = svc.ToggleTodo(ctx, p.ID, 1)
	if err != nil {
		t.Fatal(err)
	}
	if toggled.Blocks[1].Todo.Checked {
		t.Error("expected todo unchecked after second toggle")
	}

	if _, err := svc.ToggleTodo(ctx, p.ID, 0); err == nil {
		t.Error("expected error toggling a non-todo block")
	}
	if _, err := svc.ToggleTodo(ctx, p.ID, 9); err == nil {
		t.Error("expected error for index out of range")
	}
}

func TestPatchBlock(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	p := newTestPage(t, svc)

	patched, err := svc.PatchBlock(ctx, p.ID, 2, Block{
		Type: BlockParagraph, Paragraph: &ParagraphContent{Text: "Pharmacy moved to ext 4500."},
	})
	if err != nil {
		t.Fatal(err)
	}
	if patched.Blocks[2].Paragraph.Text != "Pharmacy moved to ext 4500." {
		t.Errorf("patch did not apply: %+v", patched.Blocks[2].Paragraph)
	}
	// Neighbours untouched.
	if patched.Blocks[0].Heading.Text != "Handbook" || patched.Blocks[1].Todo.Text != "Review protocols" {
		t.Error("patch touched other blocks")
	}

	if _, err := svc.PatchBlock(ctx, p.ID, -1, Block{Type: BlockDivider}); err == nil {
		t.Error("expected error for negative index")
	}
}

func TestReplaceBlocks(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	p := newTestPage(t, svc)

	replaced, err := svc.ReplaceBlocks(ctx, p.ID, []Block{{Type: BlockDivider}})
	if err != nil {
		t.Fatal(err)
	}
	if len(replaced.Blocks) != 1 || replaced.Blocks[0].Type != BlockDivider {
		t.Errorf("unexpected blocks after replace: %+v", replaced.Blocks)
	}

	// Replacing with nil empties the page rather than erroring.
	replaced, err = svc.ReplaceBlocks(ctx, p.ID, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(replaced.Blocks) != 0 {
		t.Errorf("expected empty document, got %d blocks", len(replaced.Blocks))
	}
}

func TestGet_NotFound(t *testing.T) {
	svc := newTestService()
	p := newTestPage(t, svc)
	if err := svc.Delete(context.Background(), p.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Get(context.Background(), p.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
