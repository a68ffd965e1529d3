package billing

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

const invoiceCols = `id, number, customer_id, patient_id, status, issue_date, due_date,
	currency, tax_rate_bps, notes, created_at, updated_at`

func scanInvoice(row pgx.Row) (*Invoice, error) {
	var inv Invoice
	err := row.Scan(&inv.ID, &inv.Number, &inv.CustomerID, &inv.PatientID, &inv.Status,
		&inv.IssueDate, &inv.DueDate, &inv.Currency, &inv.TaxRateBps, &inv.Notes,
		&inv.CreatedAt, &inv.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &inv, err
}

func (r *repoPG) Create(ctx context.Context, inv *Invoice) error {
	inv.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO invoice (id, number, customer_id, patient_id, status, issue_date,
			due_date, currency, tax_rate_bps, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		inv.ID, inv.Number, inv.CustomerID, inv.PatientID, inv.Status,
		inv.IssueDate, inv.DueDate, inv.Currency, inv.TaxRateBps, inv.Notes)
	if err != nil {
		return err
	}
	return r.insertItems(ctx, inv.ID, inv.Items)
}

func (r *repoPG) insertItems(ctx context.Context, invoiceID uuid.UUID, items []LineItem) error {
	for i := range items {
		items[i].ID = uuid.New()
		items[i].InvoiceID = invoiceID
		items[i].Position = i
		_, err := r.conn(ctx).Exec(ctx, `
			INSERT INTO invoice_line_item (id, invoice_id, description, quantity, unit_price_cents, position)
			VALUES ($1,$2,$3,$4,$5,$6)`,
			items[i].ID, invoiceID, items[i].Description, items[i].Quantity,
			items[i].UnitPriceCents, items[i].Position)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *repoPG) loadItems(ctx context.Context, invoiceID uuid.UUID) ([]LineItem, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, invoice_id, description, quantity, unit_price_cents, position
		FROM invoice_line_item WHERE invoice_id = $1 ORDER BY position`, invoiceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []LineItem
	for rows.Next() {
		var it LineItem
		if err := rows.Scan(&it.ID, &it.InvoiceID, &it.Description, &it.Quantity,
			&it.UnitPriceCents, &it.Position); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Invoice, error) {
	inv, err := scanInvoice(r.conn(ctx).QueryRow(ctx, `SELECT `+invoiceCols+` FROM invoice WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}
	inv.Items, err = r.loadItems(ctx, id)
	return inv, err
}

func (r *repoPG) Update(ctx context.Context, inv *Invoice) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE invoice SET number=$2, customer_id=$3, patient_id=$4, status=$5,
			issue_date=$6, due_date=$7, currency=$8, tax_rate_bps=$9, notes=$10, updated_at=NOW()
		WHERE id = $1`,
		inv.ID, inv.Number, inv.CustomerID, inv.PatientID, inv.Status,
		inv.IssueDate, inv.DueDate, inv.Currency, inv.TaxRateBps, inv.Notes)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := r.conn(ctx).Exec(ctx, `DELETE FROM invoice_line_item WHERE invoice_id = $1`, id); err != nil {
		return err
	}
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM invoice WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) ReplaceItems(ctx context.Context, invoiceID uuid.UUID, items []LineItem) error {
	var exists bool
	if err := r.conn(ctx).QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM invoice WHERE id = $1)`, invoiceID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}
	if _, err := r.conn(ctx).Exec(ctx, `DELETE FROM invoice_line_item WHERE invoice_id = $1`, invoiceID); err != nil {
		return err
	}
	if err := r.insertItems(ctx, invoiceID, items); err != nil {
		return err
	}
	_, err := r.conn(ctx).Exec(ctx, `UPDATE invoice SET updated_at=NOW() WHERE id = $1`, invoiceID)
	return err
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Invoice, int, error) {
	return r.listWhere(ctx, ``, nil, limit, offset)
}

func (r *repoPG) ListByStatus(ctx context.Context, status string, limit, offset int) ([]*Invoice, int, error) {
	return r.listWhere(ctx, ` WHERE status = $1`, []interface{}{status}, limit, offset)
}

func (r *repoPG) listWhere(ctx context.Context, where string, args []interface{}, limit, offset int) ([]*Invoice, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM invoice`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	query := fmt.Sprintf(`SELECT %s FROM invoice%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		invoiceCols, where, len(args)+1, len(args)+2)
	rows, err := r.conn(ctx).Query(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	for _, inv := range items {
		if inv.Items, err = r.loadItems(ctx, inv.ID); err != nil {
			return nil, 0, err
		}
	}
	return items, total, nil
}

func (r *repoPG) ListAll(ctx context.Context) ([]*Invoice, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+invoiceCols+` FROM invoice ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, inv := range items {
		if inv.Items, err = r.loadItems(ctx, inv.ID); err != nil {
			return nil, err
		}
	}
	return items, nil
}
