package staff

import (
	"time"

	"github.com/google/uuid"
)

// Staff maps to the staff table. Salary is stored in cents.
type Staff struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	EmployeeNo  string     `db:"employee_no" json:"employee_no"`
	FirstName   string     `db:"first_name" json:"first_name"`
	LastName    string     `db:"last_name" json:"last_name"`
	Role        string     `db:"role" json:"role"`
	Department  string     `db:"department" json:"department"`
	Email       *string    `db:"email" json:"email,omitempty"`
	Phone       *string    `db:"phone" json:"phone,omitempty"`
	HireDate    *time.Time `db:"hire_date" json:"hire_date,omitempty"`
	SalaryCents *int64     `db:"salary_cents" json:"salary_cents,omitempty"`
	OnCall      bool       `db:"on_call" json:"on_call"`
	Status      string     `db:"status" json:"status"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

// DepartmentHeadcount is a derived per-department summary, recomputed from
// the staff list on every request.
type DepartmentHeadcount struct {
	Department string `json:"department"`
	Total      int    `json:"total"`
	Active     int    `json:"active"`
	OnLeave    int    `json:"on_leave"`
	Terminated int    `json:"terminated"`
	OnCall     int    `json:"on_call"`
}

// BuildHeadcount aggregates staff records into per-department counts.
func BuildHeadcount(members []*Staff) []DepartmentHeadcount {
	idx := map[string]int{}
	var out []DepartmentHeadcount
	for _, m := range members {
		i, ok := idx[m.Department]
		if !ok {
			out = append(out, DepartmentHeadcount{Department: m.Department})
			i = len(out) - 1
			idx[m.Department] = i
		}
		out[i].Total++
		switch m.Status {
		case StatusActive:
			out[i].Active++
		case StatusOnLeave:
			out[i].OnLeave++
		case StatusTerminated:
			out[i].Terminated++
		}
		if m.OnCall {
			out[i].OnCall++
		}
	}
	return out
}
