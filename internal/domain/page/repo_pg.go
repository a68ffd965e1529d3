package page

import (
	"context"
	"encoding/json"
	"errors"

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

func scanPage(row pgx.Row) (*Page, error) {
	var p Page
	var blocks []byte
	err := row.Scan(&p.ID, &p.Title, &p.Icon, &blocks, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(blocks, &p.Blocks); err != nil {
		return nil, err
	}
	if p.Blocks == nil {
		p.Blocks = []Block{}
	}
	return &p, nil
}

func encodeBlocks(blocks []Block) ([]byte, error) {
	if blocks == nil {
		blocks = []Block{}
	}
	return json.Marshal(blocks)
}

func (r *repoPG) Create(ctx context.Context, p *Page) error {
	p.ID = uuid.New()
	blocks, err := encodeBlocks(p.Blocks)
	if err != nil {
		return err
	}
	_, err = r.conn(ctx).Exec(ctx,
		`INSERT INTO page (id, title, icon, blocks) VALUES ($1,$2,$3,$4)`,
		p.ID, p.Title, p.Icon, blocks)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Page, error) {
	return scanPage(r.conn(ctx).QueryRow(ctx,
		`SELECT id, title, icon, blocks, created_at, updated_at FROM page WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, p *Page) error {
	blocks, err := encodeBlocks(p.Blocks)
	if err != nil {
		return err
	}
	tag, err := r.conn(ctx).Exec(ctx,
		`UPDATE page SET title=$2, icon=$3, blocks=$4, updated_at=NOW() WHERE id = $1`,
		p.ID, p.Title, p.Icon, blocks)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM page WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Page, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM page`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT id, title, icon, blocks, created_at, updated_at FROM page ORDER BY created_at LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Page
	for rows.Next() {
		p, err := scanPage(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, p)
	}
	return items, total, rows.Err()
}
