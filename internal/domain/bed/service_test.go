package bed

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
)

func newTestService() *Service {
	return NewService(NewRepoMem())
}

func TestCreateBed_WardRequired(t *testing.T) {
	svc := newTestService()
	err := svc.Create(context.Background(), &Bed{Number: "101-A"})
	if err == nil {
		t.Error("expected error for missing ward")
	}
}

func TestCreateBed_DefaultsToAvailable(t *testing.T) {
	svc := newTestService()
	b := &Bed{Ward: "ICU", Room: "101", Number: "101-A"}
	if err := svc.Create(context.Background(), b); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.Status != StatusAvailable {
		t.Errorf("expected status available, got %q", b.Status)
	}
	if b.ID == uuid.Nil {
		t.Error("expected generated id")
	}
}

func TestCreateBed_RejectsInvalidStatus(t *testing.T) {
	svc := newTestService()
	err := svc.Create(context.Background(), &Bed{Ward: "ICU", Number: "1", Status: "broken"})
	if err == nil {
		t.Error("expected error for invalid status")
	}
}

func TestGetBed_NotFound(t *testing.T) {
	svc := newTestService()
	_, err := svc.Get(context.Background(), uuid.New())
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestAssignAndRelease(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	b := &Bed{Ward: "ICU", Room: "101", Number: "101-A"}
	if err := svc.Create(ctx, b); err != nil {
		t.Fatal(err)
	}

	patientID := uuid.New()
	assigned, err := svc.Assign(ctx, b.ID, patientID)
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if assigned.Status != StatusOccupied {
		t.Errorf("expected occupied, got %q", assigned.Status)
	}
	if assigned.PatientID == nil || *assigned.PatientID != patientID {
		t.Error("expected patient reference set")
	}

	// A second patient cannot take an occupied bed.
	if _, err := svc.Assign(ctx, b.ID, uuid.New()); err == nil {
		t.Error("expected error assigning an occupied bed")
	}

	released, err := svc.Release(ctx, b.ID)
	if err != nil {
		t.Fatalf("release: %v", err)
	}
	if released.Status != StatusCleaning {
		t.Errorf("expected cleaning after release, got %q", released.Status)
	}
	if released.PatientID != nil {
		t.Error("expected patient reference cleared")
	}
}

func TestAssign_BedNotFound(t *testing.T) {
	svc := newTestService()
	_, err := svc.Assign(context.Background(), uuid.New(), uuid.New())
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestOccupancyReport(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	seed := []struct {
		ward   string
		status string
	}{
		{"ICU", StatusOccupied},
		{"ICU", StatusAvailable},
		{"ICU", StatusMaintenance},
		{"General", StatusOccupied},
		{"General", StatusCleaning},
	}
	for i, s := range seed {
		b := &Bed{Ward: s.ward, Room: "r", Number: string(rune('A' + i)), Status: s.status}
		if err := svc.Create(ctx, b); err != nil {
			t.Fatal(err)
		}
	}

	report, err := svc.Occupancy(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if report.Total != 5 || report.Occupied != 2 || report.Maintenance != 1 {
		t.Errorf("unexpected totals: %+v", report)
	}
	// 2 occupied of 4 in service (5 total minus 1 maintenance).
	if report.OccupancyRate != 0.5 {
		t.Errorf("expected rate 0.5, got %v", report.OccupancyRate)
	}
	if len(report.Wards) != 2 {
		t.Fatalf("expected 2 wards, got %d", len(report.Wards))
	}
}

func TestOccupancyReport_EmptyHasZeroRate(t *testing.T) {
	report := BuildOccupancyReport(nil)
	if report.OccupancyRate != 0 || report.Total != 0 {
		t.Errorf("expected zero report, got %+v", report)
	}
}

func TestListByStatus_RejectsUnknownStatus(t *testing.T) {
	svc := newTestService()
	if _, _, err := svc.ListByStatus(context.Background(), "sleeping", 10, 0); err == nil {
		t.Error("expected error for unknown status")
	}
}
