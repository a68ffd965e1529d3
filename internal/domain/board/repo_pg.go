package board

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

// =========== Board Repository ===========

type boardRepoPG struct{ pool *pgxpool.Pool }

func NewBoardRepoPG(pool *pgxpool.Pool) BoardRepository { return &boardRepoPG{pool: pool} }

func (r *boardRepoPG) conn(ctx context.Context) queryable {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

func scanBoard(row pgx.Row) (*Board, error) {
	var b Board
	err := row.Scan(&b.ID, &b.Name, &b.Description, &b.CreatedAt, &b.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrBoardNotFound
	}
	return &b, err
}

func (r *boardRepoPG) Create(ctx context.Context, b *Board, columns []*Column) error {
	b.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx,
		`INSERT INTO board (id, name, description) VALUES ($1,$2,$3)`,
		b.ID, b.Name, b.Description)
	if err != nil {
		return err
	}
	for i, col := range columns {
		col.ID = uuid.New()
		col.BoardID = b.ID
		col.Position = i
		_, err := r.conn(ctx).Exec(ctx,
			`INSERT INTO board_column (id, board_id, key, title, position) VALUES ($1,$2,$3,$4,$5)`,
			col.ID, col.BoardID, col.Key, col.Title, col.Position)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *boardRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Board, error) {
	return scanBoard(r.conn(ctx).QueryRow(ctx,
		`SELECT id, name, description, created_at, updated_at FROM board WHERE id = $1`, id))
}

func (r *boardRepoPG) Update(ctx context.Context, b *Board) error {
	tag, err := r.conn(ctx).Exec(ctx,
		`UPDATE board SET name=$2, description=$3, updated_at=NOW() WHERE id = $1`,
		b.ID, b.Name, b.Description)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrBoardNotFound
	}
	return nil
}

func (r *boardRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := r.conn(ctx).Exec(ctx, `DELETE FROM card WHERE board_id = $1`, id); err != nil {
		return err
	}
	if _, err := r.conn(ctx).Exec(ctx, `DELETE FROM board_column WHERE board_id = $1`, id); err != nil {
		return err
	}
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM board WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrBoardNotFound
	}
	return nil
}

func (r *boardRepoPG) List(ctx context.Context, limit, offset int) ([]*Board, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM board`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT id, name, description, created_at, updated_at FROM board ORDER BY created_at LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Board
	for rows.Next() {
		b, err := scanBoard(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, b)
	}
	return items, total, rows.Err()
}

func (r *boardRepoPG) Columns(ctx context.Context, boardID uuid.UUID) ([]*Column, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT id, board_id, key, title, position FROM board_column WHERE board_id = $1 ORDER BY position`,
		boardID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Column
	for rows.Next() {
		var col Column
		if err := rows.Scan(&col.ID, &col.BoardID, &col.Key, &col.Title, &col.Position); err != nil {
			return nil, err
		}
		items = append(items, &col)
	}
	return items, rows.Err()
}

func (r *boardRepoPG) AddColumn(ctx context.Context, col *Column) error {
	col.ID = uuid.New()
	if col.Position == 0 {
		if err := r.conn(ctx).QueryRow(ctx,
			`SELECT COALESCE(MAX(position)+1, 0) FROM board_column WHERE board_id = $1`,
			col.BoardID).Scan(&col.Position); err != nil {
			return err
		}
	}
	_, err := r.conn(ctx).Exec(ctx,
		`INSERT INTO board_column (id, board_id, key, title, position) VALUES ($1,$2,$3,$4,$5)`,
		col.ID, col.BoardID, col.Key, col.Title, col.Position)
	return err
}

func (r *boardRepoPG) DeleteColumn(ctx context.Context, boardID uuid.UUID, key string) error {
	tag, err := r.conn(ctx).Exec(ctx,
		`DELETE FROM board_column WHERE board_id = $1 AND key = $2`, boardID, key)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrColumnNotFound
	}
	return nil
}

// =========== Card Repository ===========

type cardRepoPG struct{ pool *pgxpool.Pool }

func NewCardRepoPG(pool *pgxpool.Pool) CardRepository { return &cardRepoPG{pool: pool} }

func (r *cardRepoPG) conn(ctx context.Context) queryable {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const cardCols = `id, board_id, column_key, title, description, assignee_id, labels,
	due_date, position, created_at, updated_at`

func scanCard(row pgx.Row) (*Card, error) {
	var c Card
	err := row.Scan(&c.ID, &c.BoardID, &c.ColumnKey, &c.Title, &c.Description,
		&c.AssigneeID, &c.Labels, &c.DueDate, &c.Position, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrCardNotFound
	}
	return &c, err
}

func (r *cardRepoPG) Create(ctx context.Context, c *Card) error {
	c.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO card (id, board_id, column_key, title, description, assignee_id,
			labels, due_date, position)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		c.ID, c.BoardID, c.ColumnKey, c.Title, c.Description, c.AssigneeID,
		c.Labels, c.DueDate, c.Position)
	return err
}

func (r *cardRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Card, error) {
	return scanCard(r.conn(ctx).QueryRow(ctx, `SELECT `+cardCols+` FROM card WHERE id = $1`, id))
}

func (r *cardRepoPG) Update(ctx context.Context, c *Card) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE card SET column_key=$2, title=$3, description=$4, assignee_id=$5,
			labels=$6, due_date=$7, position=$8, updated_at=NOW()
		WHERE id = $1`,
		c.ID, c.ColumnKey, c.Title, c.Description, c.AssigneeID,
		c.Labels, c.DueDate, c.Position)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrCardNotFound
	}
	return nil
}

func (r *cardRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM card WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrCardNotFound
	}
	return nil
}

func (r *cardRepoPG) ListByBoard(ctx context.Context, boardID uuid.UUID) ([]*Card, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+cardCols+` FROM card WHERE board_id = $1 ORDER BY column_key, position`, boardID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Card
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

func (r *cardRepoPG) NextPosition(ctx context.Context, boardID uuid.UUID, columnKey string) (int, error) {
	var next int
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT COALESCE(MAX(position)+1, 0) FROM card WHERE board_id = $1 AND column_key = $2`,
		boardID, columnKey).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("next card position: %w", err)
	}
	return next, nil
}
