package staff

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/caredesk/caredesk/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) queryable {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const staffCols = `id, employee_no, first_name, last_name, role, department,
	email, phone, hire_date, salary_cents, on_call, status, created_at, updated_at`

func scanStaff(row pgx.Row) (*Staff, error) {
	var m Staff
	err := row.Scan(&m.ID, &m.EmployeeNo, &m.FirstName, &m.LastName, &m.Role, &m.Department,
		&m.Email, &m.Phone, &m.HireDate, &m.SalaryCents, &m.OnCall, &m.Status,
		&m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &m, err
}

func (r *repoPG) Create(ctx context.Context, m *Staff) error {
	m.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO staff (id, employee_no, first_name, last_name, role, department,
			email, phone, hire_date, salary_cents, on_call, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		m.ID, m.EmployeeNo, m.FirstName, m.LastName, m.Role, m.Department,
		m.Email, m.Phone, m.HireDate, m.SalaryCents, m.OnCall, m.Status)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Staff, error) {
	return scanStaff(r.conn(ctx).QueryRow(ctx, `SELECT `+staffCols+` FROM staff WHERE id = $1`, id))
}

func (r *repoPG) GetByEmployeeNo(ctx context.Context, employeeNo string) (*Staff, error) {
	return scanStaff(r.conn(ctx).QueryRow(ctx, `SELECT `+staffCols+` FROM staff WHERE employee_no = $1`, employeeNo))
}

func (r *repoPG) Update(ctx context.Context, m *Staff) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE staff SET employee_no=$2, first_name=$3, last_name=$4, role=$5,
			department=$6, email=$7, phone=$8, hire_date=$9, salary_cents=$10,
			on_call=$11, status=$12, updated_at=NOW()
		WHERE id = $1`,
		m.ID, m.EmployeeNo, m.FirstName, m.LastName, m.Role, m.Department,
		m.Email, m.Phone, m.HireDate, m.SalaryCents, m.OnCall, m.Status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM staff WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, f Filter, limit, offset int) ([]*Staff, int, error) {
	query := `SELECT ` + staffCols + ` FROM staff WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM staff WHERE 1=1`
	var args []interface{}
	idx := 1

	if f.Department != "" {
		query += fmt.Sprintf(` AND department = $%d`, idx)
		countQuery += fmt.Sprintf(` AND department = $%d`, idx)
		args = append(args, f.Department)
		idx++
	}
	if f.Role != "" {
		query += fmt.Sprintf(` AND role = $%d`, idx)
		countQuery += fmt.Sprintf(` AND role = $%d`, idx)
		args = append(args, f.Role)
		idx++
	}
	if f.Status != "" {
		query += fmt.Sprintf(` AND status = $%d`, idx)
		countQuery += fmt.Sprintf(` AND status = $%d`, idx)
		args = append(args, f.Status)
		idx++
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(` ORDER BY last_name, first_name LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Staff
	for rows.Next() {
		m, err := scanStaff(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, m)
	}
	return items, total, rows.Err()
}

func (r *repoPG) ListAll(ctx context.Context) ([]*Staff, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+staffCols+` FROM staff ORDER BY last_name, first_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Staff
	for rows.Next() {
		m, err := scanStaff(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, rows.Err()
}
