package scheduling

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	appts Repository
}

func NewService(appts Repository) *Service {
	return &Service{appts: appts}
}

var validStatuses = map[string]bool{
	StatusScheduled: true, StatusCheckedIn: true, StatusCompleted: true,
	StatusCancelled: true, StatusNoShow: true,
}

func (s *Service) Create(ctx context.Context, a *Appointment) error {
	if a.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if a.StaffID == uuid.Nil {
		return fmt.Errorf("staff_id is required")
	}
	if a.StartTime.IsZero() || a.EndTime.IsZero() {
		return fmt.Errorf("start_time and end_time are required")
	}
	if !a.EndTime.After(a.StartTime) {
		return fmt.Errorf("end_time must be after start_time")
	}
	if a.Status == "" {
		a.Status = StatusScheduled
	}
	if !validStatuses[a.Status] {
		return fmt.Errorf("invalid appointment status: %s", a.Status)
	}
	// Overlapping appointments are allowed; conflicts surface through the
	// read-side conflicts view only.
	return s.appts.Create(ctx, a)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.appts.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, a *Appointment) error {
	if a.Status != "" && !validStatuses[a.Status] {
		return fmt.Errorf("invalid appointment status: %s", a.Status)
	}
	if !a.StartTime.IsZero() && !a.EndTime.IsZero() && !a.EndTime.After(a.StartTime) {
		return fmt.Errorf("end_time must be after start_time")
	}
	return s.appts.Update(ctx, a)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.appts.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Appointment, int, error) {
	return s.appts.List(ctx, limit, offset)
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	return s.appts.ListByPatient(ctx, patientID, limit, offset)
}

func (s *Service) ListByStaff(ctx context.Context, staffID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	return s.appts.ListByStaff(ctx, staffID, limit, offset)
}

// Agenda returns the appointments intersecting the given calendar day in the
// day's own location, ordered by start time.
func (s *Service) Agenda(ctx context.Context, day time.Time) ([]*Appointment, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	return s.appts.ListIntersecting(ctx, start, start.AddDate(0, 0, 1))
}

// Reschedule shifts an appointment. When newStart is non-nil it wins and the
// appointment moves to that absolute start; otherwise deltaPx is converted to
// a snapped minute delta. Duration is always preserved and no other
// appointment is touched.
func (s *Service) Reschedule(ctx context.Context, id uuid.UUID, deltaPx float64, newStart *time.Time) (*Appointment, error) {
	a, err := s.appts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	duration := a.Duration()
	if newStart != nil {
		a.StartTime = *newStart
	} else {
		minutes := MinutesFromPixelDelta(deltaPx)
		if minutes == 0 {
			return a, nil
		}
		a.StartTime = a.StartTime.Add(time.Duration(minutes) * time.Minute)
	}
	a.EndTime = a.StartTime.Add(duration)

	if err := s.appts.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Conflicts lists overlapping appointment pairs per staff member for one
// day. Cancelled appointments never conflict.
func (s *Service) Conflicts(ctx context.Context, day time.Time) ([]Conflict, error) {
	items, err := s.Agenda(ctx, day)
	if err != nil {
		return nil, err
	}

	byStaff := map[uuid.UUID][]*Appointment{}
	for _, a := range items {
		if a.Status == StatusCancelled {
			continue
		}
		byStaff[a.StaffID] = append(byStaff[a.StaffID], a)
	}

	var conflicts []Conflict
	for staffID, appts := range byStaff {
		for i := 0; i < len(appts); i++ {
			for j := i + 1; j < len(appts); j++ {
				if appts[i].Overlaps(appts[j]) {
					conflicts = append(conflicts, Conflict{
						StaffID: staffID,
						First:   appts[i],
						Second:  appts[j],
					})
				}
			}
		}
	}
	return conflicts, nil
}
