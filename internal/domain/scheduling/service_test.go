package scheduling

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func newTestService() *Service {
	return NewService(NewRepoMem())
}

func at(day, hour, min int) time.Time {
	return time.Date(2026, 3, day, hour, min, 0, 0, time.UTC)
}

func mustCreate(t *testing.T, svc *Service, a *Appointment) *Appointment {
	t.Helper()
	if a.PatientID == uuid.Nil {
		a.PatientID = uuid.New()
	}
	if a.StaffID == uuid.Nil {
		a.StaffID = uuid.New()
	}
	if a.Title == "" {
		a.Title = "Consultation"
	}
	if err := svc.Create(context.Background(), a); err != nil {
		t.Fatalf("create appointment: %v", err)
	}
	return a
}

func TestCreateAppointment_Validation(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	err := svc.Create(ctx, &Appointment{StaffID: uuid.New(), StartTime: at(10, 9, 0), EndTime: at(10, 10, 0)})
	if err == nil {
		t.Error("expected error for missing patient_id")
	}

	err = svc.Create(ctx, &Appointment{
		PatientID: uuid.New(), StaffID: uuid.New(),
		StartTime: at(10, 10, 0), EndTime: at(10, 9, 0),
	})
	if err == nil {
		t.Error("expected error for end before start")
	}
}

func TestCreateAppointment_DefaultsToScheduled(t *testing.T) {
	svc := newTestService()
	a := mustCreate(t, svc, &Appointment{StartTime: at(10, 9, 0), EndTime: at(10, 10, 0)})
	if a.Status != StatusScheduled {
		t.Errorf("expected scheduled, got %q", a.Status)
	}
}

func TestCreateAppointment_AllowsDoubleBooking(t *testing.T) {
	svc := newTestService()
	staffID := uuid.New()
	mustCreate(t, svc, &Appointment{StaffID: staffID, StartTime: at(10, 9, 0), EndTime: at(10, 10, 0)})
	// Same staff member, same hour: accepted.
	mustCreate(t, svc, &Appointment{StaffID: staffID, StartTime: at(10, 9, 30), EndTime: at(10, 10, 30)})
}

func TestAgenda_IntersectingDay(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	inDay := mustCreate(t, svc, &Appointment{StartTime: at(10, 9, 0), EndTime: at(10, 10, 0)})
	// Crosses midnight into the 10th.
	spanning := mustCreate(t, svc, &Appointment{StartTime: at(9, 23, 0), EndTime: at(10, 1, 0)})
	mustCreate(t, svc, &Appointment{StartTime: at(11, 9, 0), EndTime: at(11, 10, 0)})

	items, err := svc.Agenda(ctx, at(10, 12, 0))
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 appointments on the 10th, got %d", len(items))
	}
	if items[0].ID != spanning.ID || items[1].ID != inDay.ID {
		t.Error("expected agenda ordered by start time")
	}
}

func TestReschedule_PixelDeltaPreservesDuration(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	a := mustCreate(t, svc, &Appointment{StartTime: at(10, 9, 0), EndTime: at(10, 9, 45)})
	other := mustCreate(t, svc, &Appointment{StartTime: at(10, 11, 0), EndTime: at(10, 12, 0)})

	// 40 px down at 80 px/hour = +30 minutes.
	moved, err := svc.Reschedule(ctx, a.ID, 40, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !moved.StartTime.Equal(at(10, 9, 30)) {
		t.Errorf("expected start 09:30, got %v", moved.StartTime)
	}
	if !moved.EndTime.Equal(at(10, 10, 15)) {
		t.Errorf("expected end 10:15, got %v", moved.EndTime)
	}
	if moved.Duration() != 45*time.Minute {
		t.Errorf("duration changed: %v", moved.Duration())
	}

	// The other appointment is untouched.
	got, err := svc.Get(ctx, other.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !got.StartTime.Equal(other.StartTime) || !got.EndTime.Equal(other.EndTime) {
		t.Error("reschedule mutated an unrelated appointment")
	}
}

func TestReschedule_TinyDragIsNoop(t *testing.T) {
	svc := newTestService()
	a := mustCreate(t, svc, &Appointment{StartTime: at(10, 9, 0), EndTime: at(10, 10, 0)})

	moved, err := svc.Reschedule(context.Background(), a.ID, 5, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !moved.StartTime.Equal(at(10, 9, 0)) {
		t.Errorf("expected start unchanged, got %v", moved.StartTime)
	}
}

func TestReschedule_AbsoluteStartWins(t *testing.T) {
	svc := newTestService()
	a := mustCreate(t, svc, &Appointment{StartTime: at(10, 9, 0), EndTime: at(10, 10, 0)})

	newStart := at(12, 14, 0)
	moved, err := svc.Reschedule(context.Background(), a.ID, 400, &newStart)
	if err != nil {
		t.Fatal(err)
	}
	if !moved.StartTime.Equal(newStart) || !moved.EndTime.Equal(newStart.Add(time.Hour)) {
		t.Errorf("expected absolute move to 14:00-15:00, got %v-%v", moved.StartTime, moved.EndTime)
	}
}

func TestReschedule_NotFound(t *testing.T) {
	svc := newTestService()
	_, err := svc.Reschedule(context.Background(), uuid.New(), 80, nil)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestConflicts_PerStaffOverlapsOnly(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	drA := uuid.New()
	drB := uuid.New()

	first := mustCreate(t, svc, &Appointment{StaffID: drA, StartTime: at(10, 9, 0), EndTime: at(10, 10, 0)})
	second := mustCreate(t, svc, &Appointment{StaffID: drA, StartTime: at(10, 9, 30), EndTime: at(10, 10, 30)})
	// Same times, different staff member: no conflict.
	mustCreate(t, svc, &Appointment{StaffID: drB, StartTime: at(10, 9, 0), EndTime: at(10, 10, 0)})
	// Back to back with second: no conflict.
	mustCreate(t, svc, &Appointment{StaffID: drA, StartTime: at(10, 10, 30), EndTime: at(10, 11, 30)})

	conflicts, err := svc.Conflicts(ctx, at(10, 0, 0))
	if err != nil {
		t.Fatal(err)
	}
	if len(conflicts) != 1 {
		t.Fatalf("expected 1 conflict, got %d", len(conflicts))
	}
	cf := conflicts[0]
	if cf.StaffID != drA {
		t.Errorf("conflict attributed to wrong staff member")
	}
	if cf.First.ID != first.ID || cf.Second.ID != second.ID {
		t.Errorf("unexpected conflict pair")
	}
}

func TestConflicts_CancelledExcluded(t *testing.T) {
	svc := newTestService()
	staffID := uuid.New()

	mustCreate(t, svc, &Appointment{StaffID: staffID, StartTime: at(10, 9, 0), EndTime: at(10, 10, 0)})
	cancelled := mustCreate(t, svc, &Appointment{StaffID: staffID, StartTime: at(10, 9, 30), EndTime: at(10, 10, 30)})
	cancelled.Status = StatusCancelled
	if err := svc.Update(context.Background(), cancelled); err != nil {
		t.Fatal(err)
	}

	conflicts, err := svc.Conflicts(context.Background(), at(10, 0, 0))
	if err != nil {
		t.Fatal(err)
	}
	if len(conflicts) != 0 {
		t.Errorf("expected no conflicts with cancelled appointment, got %d", len(conflicts))
	}
}
