package messaging

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

const msgCols = `id, sender_id, recipient_id, subject, body, priority, status,
	thread_id, patient_id, read_at, created_at, updated_at`

func scanMessage(row pgx.Row) (*Message, error) {
	var m Message
	err := row.Scan(&m.ID, &m.SenderID, &m.RecipientID, &m.Subject, &m.Body,
		&m.Priority, &m.Status, &m.ThreadID, &m.PatientID, &m.ReadAt,
		&m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &m, err
}

func (r *repoPG) Create(ctx context.Context, m *Message) error {
	m.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO message (id, sender_id, recipient_id, subject, body, priority,
			status, thread_id, patient_id, read_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		m.ID, m.SenderID, m.RecipientID, m.Subject, m.Body, m.Priority,
		m.Status, m.ThreadID, m.PatientID, m.ReadAt)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Message, error) {
	return scanMessage(r.conn(ctx).QueryRow(ctx, `SELECT `+msgCols+` FROM message WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, m *Message) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE message SET subject=$2, body=$3, priority=$4, status=$5,
			patient_id=$6, read_at=$7, updated_at=NOW()
		WHERE id = $1`,
		m.ID, m.Subject, m.Body, m.Priority, m.Status, m.PatientID, m.ReadAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM message WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) ListByRecipient(ctx context.Context, recipientID uuid.UUID, status string, limit, offset int) ([]*Message, int, error) {
	where := ` WHERE recipient_id = $1`
	args := []interface{}{recipientID}
	if status != "" {
		where += ` AND status = $2`
		args = append(args, status)
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM message`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s FROM message%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		msgCols, where, len(args)+1, len(args)+2)
	rows, err := r.conn(ctx).Query(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, m)
	}
	return items, total, rows.Err()
}

func (r *repoPG) ListByThread(ctx context.Context, threadID uuid.UUID) ([]*Message, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+msgCols+` FROM message WHERE thread_id = $1 ORDER BY created_at`, threadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

func (r *repoPG) CountUnread(ctx context.Context, recipientID uuid.UUID) (int, error) {
	var count int
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM message WHERE recipient_id = $1 AND status = 'unread'`, recipientID).Scan(&count)
	return count, err
}

func (r *repoPG) CountAllUnread(ctx context.Context) (int, error) {
	var count int
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM message WHERE status = 'unread'`).Scan(&count)
	return count, err
}
