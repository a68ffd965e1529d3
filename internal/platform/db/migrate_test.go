package db

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMigrations_SortsByVersion(t *testing.T) {
	dir := t.TempDir()
	write := func(name, sql string) {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(sql), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write("002_beds.sql", "CREATE TABLE bed ();")
	write("001_core.sql", "CREATE TABLE customer ();")
	write("010_boards.sql", "CREATE TABLE board ();")
	write("readme.txt", "not a migration")
	write("notes.sql", "no numeric prefix")

	m := NewMigrator(nil, dir)
	migrations, err := m.LoadMigrations()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(migrations) != 3 {
		t.Fatalf("expected 3 migrations, got %d", len(migrations))
	}
	wantVersions := []int{1, 2, 10}
	wantNames := []string{"core", "beds", "boards"}
	for i, mig := range migrations {
		if mig.Version != wantVersions[i] {
			t.Errorf("migration %d: expected version %d, got %d", i, wantVersions[i], mig.Version)
		}
		if mig.Name != wantNames[i] {
			t.Errorf("migration %d: expected name %q, got %q", i, wantNames[i], mig.Name)
		}
		if mig.SQL == "" {
			t.Errorf("migration %d: empty SQL", i)
		}
	}
}

func TestLoadMigrations_MissingDir(t *testing.T) {
	m := NewMigrator(nil, "/nonexistent/migrations")
	if _, err := m.LoadMigrations(); err == nil {
		t.Error("expected error for missing directory")
	}
}
