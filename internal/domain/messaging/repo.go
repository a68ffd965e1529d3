package messaging

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("message not found")

const (
	PriorityLow    = "low"
	PriorityNormal = "normal"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

const (
	StatusUnread   = "unread"
	StatusRead     = "read"
	StatusArchived = "archived"
)

type Repository interface {
	Create(ctx context.Context, m *Message) error
	GetByID(ctx context.Context, id uuid.UUID) (*Message, error)
	Update(ctx context.Context, m *Message) error
	Delete(ctx context.Context, id uuid.UUID) error
	// ListByRecipient returns the recipient's inbox, newest first; status
	// filters when non-empty.
	ListByRecipient(ctx context.Context, recipientID uuid.UUID, status string, limit, offset int) ([]*Message, int, error)
	ListByThread(ctx context.Context, threadID uuid.UUID) ([]*Message, error)
	CountUnread(ctx context.Context, recipientID uuid.UUID) (int, error)
	// CountAllUnread counts unread messages across every inbox.
	CountAllUnread(ctx context.Context) (int, error)
}
