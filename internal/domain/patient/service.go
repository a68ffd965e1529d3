package patient

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	patients Repository
	now      func() time.Time
}

func NewService(patients Repository) *Service {
	return &Service{patients: patients, now: time.Now}
}

var validAdmissionStatuses = map[string]bool{
	StatusOutpatient: true, StatusAdmitted: true, StatusDischarged: true,
}

func (s *Service) Create(ctx context.Context, p *Patient) error {
	if p.FirstName == "" || p.LastName == "" {
		return fmt.Errorf("first_name and last_name are required")
	}
	if p.AdmissionStatus == "" {
		p.AdmissionStatus = StatusOutpatient
	}
	if !validAdmissionStatuses[p.AdmissionStatus] {
		return fmt.Errorf("invalid admission status: %s", p.AdmissionStatus)
	}
	if p.MRN != "" {
		if _, err := s.patients.GetByMRN(ctx, p.MRN); err == nil {
			return fmt.Errorf("mrn %s is already taken", p.MRN)
		}
	}
	return s.patients.Create(ctx, p)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return s.patients.GetByID(ctx, id)
}

func (s *Service) GetByMRN(ctx context.Context, mrn string) (*Patient, error) {
	return s.patients.GetByMRN(ctx, mrn)
}

func (s *Service) Update(ctx context.Context, p *Patient) error {
	if p.AdmissionStatus != "" && !validAdmissionStatuses[p.AdmissionStatus] {
		return fmt.Errorf("invalid admission status: %s", p.AdmissionStatus)
	}
	return s.patients.Update(ctx, p)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.patients.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	return s.patients.List(ctx, limit, offset)
}

func (s *Service) ListByAdmissionStatus(ctx context.Context, status string, limit, offset int) ([]*Patient, int, error) {
	if !validAdmissionStatuses[status] {
		return nil, 0, fmt.Errorf("invalid admission status: %s", status)
	}
	return s.patients.ListByAdmissionStatus(ctx, status, limit, offset)
}

func (s *Service) Search(ctx context.Context, query string, limit, offset int) ([]*Patient, int, error) {
	if query == "" {
		return s.patients.List(ctx, limit, offset)
	}
	return s.patients.Search(ctx, query, limit, offset)
}

// RiskReport recomputes the risk view over all patients, highest score first.
func (s *Service) RiskReport(ctx context.Context) ([]RiskEntry, error) {
	patients, err := s.patients.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()
	entries := make([]RiskEntry, 0, len(patients))
	for _, p := range patients {
		score := p.RiskScore(now)
		entries = append(entries, RiskEntry{
			PatientID: p.ID,
			MRN:       p.MRN,
			Name:      p.FirstName + " " + p.LastName,
			Age:       p.Age(now),
			Score:     score,
			Level:     RiskLevel(score),
		})
	}
	// Highest risk first, stable on equal scores by list order.
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Score > entries[j].Score })
	return entries, nil
}
