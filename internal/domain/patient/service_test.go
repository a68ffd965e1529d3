package patient

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func newTestService() *Service {
	svc := NewService(NewRepoMem())
	svc.now = func() time.Time { return time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC) }
	return svc
}

func TestCreatePatient_NameRequired(t *testing.T) {
	svc := newTestService()
	if err := svc.Create(context.Background(), &Patient{FirstName: "Maria"}); err == nil {
		t.Error("expected error for missing last_name")
	}
}

func TestCreatePatient_DefaultsToOutpatient(t *testing.T) {
	svc := newTestService()
	p := &Patient{FirstName: "Maria", LastName: "Santos"}
	if err := svc.Create(context.Background(), p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.AdmissionStatus != StatusOutpatient {
		t.Errorf("expected outpatient, got %q", p.AdmissionStatus)
	}
}

func TestCreatePatient_DuplicateMRN(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	if err := svc.Create(ctx, &Patient{FirstName: "Maria", LastName: "Santos", MRN: "MRN-001"}); err != nil {
		t.Fatal(err)
	}
	err := svc.Create(ctx, &Patient{FirstName: "Joao", LastName: "Lima", MRN: "MRN-001"})
	if err == nil {
		t.Error("expected error for duplicate mrn")
	}
}

func TestUpdatePatient_PreservesArrayFields(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	p := &Patient{
		FirstName: "Maria", LastName: "Santos",
		Allergies: []string{"penicillin"},
		Tags:      []string{"vip"},
	}
	if err := svc.Create(ctx, p); err != nil {
		t.Fatal(err)
	}

	p.Allergies = append(p.Allergies, "latex")
	if err := svc.Update(ctx, p); err != nil {
		t.Fatal(err)
	}

	got, err := svc.Get(ctx, p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Allergies) != 2 || got.Allergies[1] != "latex" {
		t.Errorf("expected two allergies, got %v", got.Allergies)
	}
	if len(got.Tags) != 1 || got.Tags[0] != "vip" {
		t.Errorf("tags lost on update: %v", got.Tags)
	}
}

func TestDeletePatient_NotFound(t *testing.T) {
	svc := newTestService()
	if err := svc.Delete(context.Background(), uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSearchPatients(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	seed := []*Patient{
		{FirstName: "Maria", LastName: "Santos", MRN: "MRN-001"},
		{FirstName: "Joao", LastName: "Lima", MRN: "MRN-002"},
		{FirstName: "Ana", LastName: "Santana", MRN: "MRN-003"},
	}
	for _, p := range seed {
		if err := svc.Create(ctx, p); err != nil {
			t.Fatal(err)
		}
	}

	items, total, err := svc.Search(ctx, "sant", 10, 0)
	if err != nil {
		t.Fatal(err)
	}
	if total != 2 {
		t.Errorf("expected 2 matches for 'sant', got %d", total)
	}

	items, total, err = svc.Search(ctx, "MRN-002", 10, 0)
	if err != nil {
		t.Fatal(err)
	}
	if total != 1 || items[0].LastName != "Lima" {
		t.Errorf("expected MRN match for Lima, got %d items", total)
	}
}

func TestRiskReport_SortedByScore(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	seed := []*Patient{
		{FirstName: "Low", LastName: "Risk", BirthDate: datePtr(2000, 1, 1)},
		{FirstName: "High", LastName: "Risk", BirthDate: datePtr(1950, 1, 1),
			Allergies:       []string{"a", "b", "c"},
			MedicalHistory:  []string{"x", "y"},
			AdmissionStatus: StatusAdmitted},
	}
	for _, p := range seed {
		if err := svc.Create(ctx, p); err != nil {
			t.Fatal(err)
		}
	}

	entries, err := svc.RiskReport(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Name != "High Risk" || entries[0].Level != "high" {
		t.Errorf("expected High Risk first, got %+v", entries[0])
	}
	if entries[0].Score <= entries[1].Score {
		t.Error("expected descending score order")
	}
}
