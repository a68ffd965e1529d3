package staff

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("staff member not found")

// Staff roles double as RBAC role names on the auth side.
const (
	RolePhysician  = "physician"
	RoleNurse      = "nurse"
	RoleRegistrar  = "registrar"
	RoleTechnician = "technician"
	RoleAdmin      = "admin"
)

const (
	StatusActive     = "active"
	StatusOnLeave    = "on_leave"
	StatusTerminated = "terminated"
)

// Filter narrows staff listings. Zero values mean no constraint.
type Filter struct {
	Department string
	Role       string
	Status     string
}

type Repository interface {
	Create(ctx context.Context, m *Staff) error
	GetByID(ctx context.Context, id uuid.UUID) (*Staff, error)
	GetByEmployeeNo(ctx context.Context, employeeNo string) (*Staff, error)
	Update(ctx context.Context, m *Staff) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, f Filter, limit, offset int) ([]*Staff, int, error)
	ListAll(ctx context.Context) ([]*Staff, error)
}
