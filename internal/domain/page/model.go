package page

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Block kinds. Anything else is preserved verbatim so documents written by a
// newer build survive an older one.
const (
	BlockHeading   = "heading"
	BlockParagraph = "paragraph"
	BlockTodo      = "todo"
	BlockCallout   = "callout"
	BlockDivider   = "divider"
)

type HeadingContent struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
}

type ParagraphContent struct {
	Text string `json:"text"`
}

type TodoContent struct {
	Text    string `json:"text"`
	Checked bool   `json:"checked"`
}

type CalloutContent struct {
	Emoji string `json:"emoji"`
	Text  string `json:"text"`
}

// Block is a tagged union over the wire shape {"type": ..., ...payload}.
// Exactly one payload field is set for a known type; unknown types keep the
// raw bytes and round-trip unchanged.
type Block struct {
	Type      string
	Heading   *HeadingContent
	Paragraph *ParagraphContent
	Todo      *TodoContent
	Callout   *CalloutContent

	raw json.RawMessage
}

func (b Block) MarshalJSON() ([]byte, error) {
	switch b.Type {
	case BlockHeading:
		return json.Marshal(struct {
			Type string `json:"type"`
			*HeadingContent
		}{b.Type, b.Heading})
	case BlockParagraph:
		return json.Marshal(struct {
			Type string `json:"type"`
			*ParagraphContent
		}{b.Type, b.Paragraph})
	case BlockTodo:
		return json.Marshal(struct {
			Type string `json:"type"`
			*TodoContent
		}{b.Type, b.Todo})
	case BlockCallout:
		return json.Marshal(struct {
			Type string `json:"type"`
			*CalloutContent
		}{b.Type, b.Callout})
	case BlockDivider:
		return json.Marshal(struct {
			Type string `json:"type"`
		}{b.Type})
	default:
		if b.raw != nil {
			return b.raw, nil
		}
		return nil, fmt.Errorf("block type %q has no payload", b.Type)
	}
}

func (b *Block) UnmarshalJSON(data []byte) error {
	var tag struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &tag); err != nil {
		return err
	}
	if tag.Type == "" {
		return fmt.Errorf("block is missing a type")
	}
	*b = Block{Type: tag.Type}
	switch tag.Type {
	case BlockHeading:
		b.Heading = &HeadingContent{}
		return json.Unmarshal(data, b.Heading)
	case BlockParagraph:
		b.Paragraph = &ParagraphContent{}
		return json.Unmarshal(data, b.Paragraph)
	case BlockTodo:
		b.Todo = &TodoContent{}
		return json.Unmarshal(data, b.Todo)
	case BlockCallout:
		b.Callout = &CalloutContent{}
		return json.Unmarshal(data, b.Callout)
	case BlockDivider:
		return nil
	default:
		b.raw = append(json.RawMessage(nil), data...)
		return nil
	}
}

// Page maps to the page table. Blocks live in a single jsonb column; the
// document is small enough that we always read and write it whole.
type Page struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Title     string    `db:"title" json:"title"`
	Icon      *string   `db:"icon" json:"icon,omitempty"`
	Blocks    []Block   `db:"blocks" json:"blocks"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
