package crm

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

// =========== Customer Repository ===========

type customerRepoPG struct{ pool *pgxpool.Pool }

func NewCustomerRepoPG(pool *pgxpool.Pool) CustomerRepository { return &customerRepoPG{pool: pool} }

func (r *customerRepoPG) conn(ctx context.Context) queryable {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const customerCols = `id, name, email, phone, company, status, tags, notes, created_at, updated_at`

func scanCustomer(row pgx.Row) (*Customer, error) {
	var c Customer
	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Company, &c.Status,
		&c.Tags, &c.Notes, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrCustomerNotFound
	}
	return &c, err
}

func (r *customerRepoPG) Create(ctx context.Context, c *Customer) error {
	c.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO customer (id, name, email, phone, company, status, tags, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		c.ID, c.Name, c.Email, c.Phone, c.Company, c.Status, c.Tags, c.Notes)
	return err
}

func (r *customerRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Customer, error) {
	return scanCustomer(r.conn(ctx).QueryRow(ctx, `SELECT `+customerCols+` FROM customer WHERE id = $1`, id))
}

func (r *customerRepoPG) Update(ctx context.Context, c *Customer) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE customer SET name=$2, email=$3, phone=$4, company=$5, status=$6,
			tags=$7, notes=$8, updated_at=NOW()
		WHERE id = $1`,
		c.ID, c.Name, c.Email, c.Phone, c.Company, c.Status, c.Tags, c.Notes)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrCustomerNotFound
	}
	return nil
}

func (r *customerRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM customer WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrCustomerNotFound
	}
	return nil
}

func (r *customerRepoPG) List(ctx context.Context, limit, offset int) ([]*Customer, int, error) {
	return r.listWhere(ctx, ``, nil, limit, offset)
}

func (r *customerRepoPG) ListByStatus(ctx context.Context, status string, limit, offset int) ([]*Customer, int, error) {
	return r.listWhere(ctx, ` WHERE status = $1`, []interface{}{status}, limit, offset)
}

func (r *customerRepoPG) Search(ctx context.Context, query string, limit, offset int) ([]*Customer, int, error) {
	pattern := "%" + query + "%"
	return r.listWhere(ctx, ` WHERE name ILIKE $1 OR email ILIKE $1`, []interface{}{pattern}, limit, offset)
}

func (r *customerRepoPG) listWhere(ctx context.Context, where string, args []interface{}, limit, offset int) ([]*Customer, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM customer`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	query := fmt.Sprintf(`SELECT %s FROM customer%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		customerCols, where, len(args)+1, len(args)+2)
	rows, err := r.conn(ctx).Query(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, c)
	}
	return items, total, rows.Err()
}

// =========== Deal Repository ===========

type dealRepoPG struct{ pool *pgxpool.Pool }

func NewDealRepoPG(pool *pgxpool.Pool) DealRepository { return &dealRepoPG{pool: pool} }

func (r *dealRepoPG) conn(ctx context.Context) queryable {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const dealCols = `id, customer_id, title, value_cents, currency, stage, probability,
	expected_close, created_at, updated_at`

func scanDeal(row pgx.Row) (*Deal, error) {
	var d Deal
	err := row.Scan(&d.ID, &d.CustomerID, &d.Title, &d.ValueCents, &d.Currency, &d.Stage,
		&d.Probability, &d.ExpectedClose, &d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrDealNotFound
	}
	return &d, err
}

func (r *dealRepoPG) Create(ctx context.Context, d *Deal) error {
	d.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO deal (id, customer_id, title, value_cents, currency, stage, probability, expected_close)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		d.ID, d.CustomerID, d.Title, d.ValueCents, d.Currency, d.Stage, d.Probability, d.ExpectedClose)
	return err
}

func (r *dealRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Deal, error) {
	return scanDeal(r.conn(ctx).QueryRow(ctx, `SELECT `+dealCols+` FROM deal WHERE id = $1`, id))
}

func (r *dealRepoPG) Update(ctx context.Context, d *Deal) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE deal SET customer_id=$2, title=$3, value_cents=$4, currency=$5, stage=$6,
			probability=$7, expected_close=$8, updated_at=NOW()
		WHERE id = $1`,
		d.ID, d.CustomerID, d.Title, d.ValueCents, d.Currency, d.Stage, d.Probability, d.ExpectedClose)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrDealNotFound
	}
	return nil
}

func (r *dealRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM deal WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrDealNotFound
	}
	return nil
}

func (r *dealRepoPG) List(ctx context.Context, limit, offset int) ([]*Deal, int, error) {
	return r.listWhere(ctx, ``, nil, limit, offset)
}

func (r *dealRepoPG) ListByCustomer(ctx context.Context, customerID uuid.UUID, limit, offset int) ([]*Deal, int, error) {
	return r.listWhere(ctx, ` WHERE customer_id = $1`, []interface{}{customerID}, limit, offset)
}

func (r *dealRepoPG) ListByStage(ctx context.Context, stage string, limit, offset int) ([]*Deal, int, error) {
	return r.listWhere(ctx, ` WHERE stage = $1`, []interface{}{stage}, limit, offset)
}

func (r *dealRepoPG) listWhere(ctx context.Context, where string, args []interface{}, limit, offset int) ([]*Deal, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM deal`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	query := fmt.Sprintf(`SELECT %s FROM deal%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		dealCols, where, len(args)+1, len(args)+2)
	rows, err := r.conn(ctx).Query(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Deal
	for rows.Next() {
		d, err := scanDeal(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, d)
	}
	return items, total, rows.Err()
}

func (r *dealRepoPG) ListAll(ctx context.Context) ([]*Deal, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+dealCols+` FROM deal ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Deal
	for rows.Next() {
		d, err := scanDeal(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	return items, rows.Err()
}
