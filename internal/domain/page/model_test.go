package page

import (
	"encoding/json"
	"testing"
)

func TestBlockCodec_KnownTypes(t *testing.T) {
	doc := `[
		{"type":"heading","level":2,"text":"Shift notes"},
		{"type":"paragraph","text":"Quiet night."},
		{"type":"todo","text":"Order gauze","checked":true},
		{"type":"callout","emoji":"⚠️","text":"Bed 4 isolation"},
		{"type":"divider"}
	]`
	var blocks []Block
	if err := json.Unmarshal([]byte(doc), &blocks); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(blocks) != 5 {
		t.Fatalf("expected 5 blocks, got %d", len(blocks))
	}
	if blocks[0].Heading == nil || blocks[0].Heading.Level != 2 || blocks[0].Heading.Text != "Shift notes" {
		t.Errorf("heading decoded wrong: %+v", blocks[0].Heading)
	}
	if blocks[1].Paragraph == nil || blocks[1].Paragraph.Text != "Quiet night." {
		t.Errorf("paragraph decoded wrong: %+v", blocks[1].Paragraph)
	}
	if blocks[2].Todo == nil || !blocks[2].Todo.Checked {
		t.Errorf("todo decoded wrong: %+v", blocks[2].Todo)
	}
	if blocks[3].Callout == nil || blocks[3].Callout.Emoji != "⚠️" {
		t.Errorf("callout decoded wrong: %+v", blocks[3].Callout)
	}
	if blocks[4].Type != BlockDivider {
		t.Errorf("divider decoded wrong: %+v", blocks[4])
	}

	out, err := json.Marshal(blocks)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var again []Block
	if err := json.Unmarshal(out, &again); err != nil {
		t.Fatalf("re-unmarshal: %v", err)
	}
	if len(again) != 5 || again[2].Todo == nil || !again[2].Todo.Checked {
		t.Error("round trip lost content")
	}
}

func TestBlockCodec_UnknownTypeRoundTrips(t *testing.T) {
	raw := `{"type":"embed","url":"https://example.org/chart","height":320}`
	var b Block
	if err := json.Unmarshal([]byte(raw), &b); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if b.Type != "embed" {
		t.Errorf("expected type embed, got %q", b.Type)
	}

	out, err := json.Marshal(b)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got, want map[string]interface{}
	if err := json.Unmarshal(out, &got); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal([]byte(raw), &want); err != nil {
		t.Fatal(err)
	}
	if got["url"] != want["url"] || got["height"] != want["height"] {
		t.Errorf("unknown block fields lost: %v vs %v", got, want)
	}
}

func TestBlockCodec_MissingType(t *testing.T) {
	var b Block
	if err := json.Unmarshal([]byte(`{"text":"orphan"}`), &b); err == nil {
		t.Error("expected error for block without type")
	}
}
