package board

import (
	"time"

	"github.com/google/uuid"
)

// Board maps to the board table.
type Board struct {
	ID          uuid.UUID `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description *string   `db:"description" json:"description,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// Column maps to the board_column table. Key is the stable identifier cards
// point at; Position orders columns left to right.
type Column struct {
	ID       uuid.UUID `db:"id" json:"id"`
	BoardID  uuid.UUID `db:"board_id" json:"board_id"`
	Key      string    `db:"key" json:"key"`
	Title    string    `db:"title" json:"title"`
	Position int       `db:"position" json:"position"`
}

// Card maps to the card table. ColumnKey may name any column of the board;
// there is no transition table, any card may move to any column. Position is
// the explicit intra-column rank.
type Card struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	BoardID     uuid.UUID  `db:"board_id" json:"board_id"`
	ColumnKey   string     `db:"column_key" json:"column_key"`
	Title       string     `db:"title" json:"title"`
	Description *string    `db:"description" json:"description,omitempty"`
	AssigneeID  *uuid.UUID `db:"assignee_id" json:"assignee_id,omitempty"`
	Labels      []string   `db:"labels" json:"labels"`
	DueDate     *time.Time `db:"due_date" json:"due_date,omitempty"`
	Position    int        `db:"position" json:"position"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

// BoardView is the full read shape: the board, its ordered columns and all
// cards grouped per column key.
type BoardView struct {
	*Board
	Columns []*Column          `json:"columns"`
	Cards   map[string][]*Card `json:"cards"`
}
