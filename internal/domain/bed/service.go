package bed

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Service struct {
	beds Repository
}

func NewService(beds Repository) *Service {
	return &Service{beds: beds}
}

var validStatuses = map[string]bool{
	StatusAvailable: true, StatusOccupied: true,
	StatusCleaning: true, StatusMaintenance: true,
}

func (s *Service) Create(ctx context.Context, b *Bed) error {
	if b.Ward == "" {
		return fmt.Errorf("ward is required")
	}
	if b.Number == "" {
		return fmt.Errorf("number is required")
	}
	if b.Status == "" {
		b.Status = StatusAvailable
	}
	if !validStatuses[b.Status] {
		return fmt.Errorf("invalid bed status: %s", b.Status)
	}
	return s.beds.Create(ctx, b)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Bed, error) {
	return s.beds.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, b *Bed) error {
	if b.Status != "" && !validStatuses[b.Status] {
		return fmt.Errorf("invalid bed status: %s", b.Status)
	}
	return s.beds.Update(ctx, b)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.beds.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Bed, int, error) {
	return s.beds.List(ctx, limit, offset)
}

func (s *Service) ListByWard(ctx context.Context, ward string, limit, offset int) ([]*Bed, int, error) {
	return s.beds.ListByWard(ctx, ward, limit, offset)
}

func (s *Service) ListByStatus(ctx context.Context, status string, limit, offset int) ([]*Bed, int, error) {
	if !validStatuses[status] {
		return nil, 0, fmt.Errorf("invalid bed status: %s", status)
	}
	return s.beds.ListByStatus(ctx, status, limit, offset)
}

// Assign places a patient into a bed and marks it occupied. The bed must not
// already hold a different patient.
func (s *Service) Assign(ctx context.Context, bedID, patientID uuid.UUID) (*Bed, error) {
	if patientID == uuid.Nil {
		return nil, fmt.Errorf("patient_id is required")
	}
	b, err := s.beds.GetByID(ctx, bedID)
	if err != nil {
		return nil, err
	}
	if b.PatientID != nil && *b.PatientID != patientID {
		return nil, fmt.Errorf("bed %s is already assigned", bedID)
	}
	b.PatientID = &patientID
	b.Status = StatusOccupied
	if err := s.beds.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// Release clears the patient reference and sends the bed to cleaning rather
// than straight back to available.
func (s *Service) Release(ctx context.Context, bedID uuid.UUID) (*Bed, error) {
	b, err := s.beds.GetByID(ctx, bedID)
	if err != nil {
		return nil, err
	}
	b.PatientID = nil
	b.Status = StatusCleaning
	if err := s.beds.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// Occupancy recomputes the derived occupancy report from the full bed list.
func (s *Service) Occupancy(ctx context.Context) (*OccupancyReport, error) {
	beds, err := s.beds.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return BuildOccupancyReport(beds), nil
}
