package staff

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Service struct {
	staff Repository
}

func NewService(staff Repository) *Service {
	return &Service{staff: staff}
}

var validRoles = map[string]bool{
	RolePhysician: true, RoleNurse: true, RoleRegistrar: true,
	RoleTechnician: true, RoleAdmin: true,
}

var validStatuses = map[string]bool{
	StatusActive: true, StatusOnLeave: true, StatusTerminated: true,
}

func (s *Service) Create(ctx context.Context, m *Staff) error {
	if m.FirstName == "" || m.LastName == "" {
		return fmt.Errorf("first_name and last_name are required")
	}
	if m.Role == "" {
		return fmt.Errorf("role is required")
	}
	if !validRoles[m.Role] {
		return fmt.Errorf("invalid role: %s", m.Role)
	}
	if m.Status == "" {
		m.Status = StatusActive
	}
	if !validStatuses[m.Status] {
		return fmt.Errorf("invalid staff status: %s", m.Status)
	}
	if m.EmployeeNo != "" {
		if _, err := s.staff.GetByEmployeeNo(ctx, m.EmployeeNo); err == nil {
			return fmt.Errorf("employee_no %s is already taken", m.EmployeeNo)
		}
	}
	return s.staff.Create(ctx, m)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Staff, error) {
	return s.staff.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, m *Staff) error {
	if m.Role != "" && !validRoles[m.Role] {
		return fmt.Errorf("invalid role: %s", m.Role)
	}
	if m.Status != "" && !validStatuses[m.Status] {
		return fmt.Errorf("invalid staff status: %s", m.Status)
	}
	return s.staff.Update(ctx, m)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.staff.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, f Filter, limit, offset int) ([]*Staff, int, error) {
	if f.Role != "" && !validRoles[f.Role] {
		return nil, 0, fmt.Errorf("invalid role: %s", f.Role)
	}
	if f.Status != "" && !validStatuses[f.Status] {
		return nil, 0, fmt.Errorf("invalid staff status: %s", f.Status)
	}
	return s.staff.List(ctx, f, limit, offset)
}

// Headcount recomputes the per-department summary from the full staff list.
func (s *Service) Headcount(ctx context.Context) ([]DepartmentHeadcount, error) {
	members, err := s.staff.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return BuildHeadcount(members), nil
}
