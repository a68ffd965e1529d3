package snapshot

import (
	"errors"
	"testing"
)

type record struct {
	ID     string  `json:"id"`
	Amount float64 `json:"amount"`
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	in := []record{{ID: "inv-1", Amount: 125.50}, {ID: "inv-2", Amount: 80}}
	if err := store.Save("invoices", 1, in); err != nil {
		t.Fatalf("save: %v", err)
	}

	var out []record
	if err := store.Load("invoices", 1, &out); err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(out) != 2 || out[0].ID != "inv-1" || out[1].Amount != 80 {
		t.Errorf("round trip mismatch: %+v", out)
	}
}

func TestLoad_VersionMismatch(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Save("invoices", 1, []record{{ID: "inv-1"}}); err != nil {
		t.Fatal(err)
	}

	var out []record
	err = store.Load("invoices", 2, &out)
	if !errors.Is(err, ErrVersionMismatch) {
		t.Errorf("expected ErrVersionMismatch, got %v", err)
	}
}

func TestLoad_NotFound(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	var out []record
	if err := store.Load("missing", 1, &out); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSave_OverwritesPrevious(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Save("beds", 1, []record{{ID: "a"}}); err != nil {
		t.Fatal(err)
	}
	if err := store.Save("beds", 1, []record{{ID: "b"}}); err != nil {
		t.Fatal(err)
	}
	var out []record
	if err := store.Load("beds", 1, &out); err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 || out[0].ID != "b" {
		t.Errorf("expected latest snapshot, got %+v", out)
	}
}
