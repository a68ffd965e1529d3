package messaging

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	messages Repository
	now      func() time.Time
}

func NewService(messages Repository) *Service {
	return &Service{messages: messages, now: time.Now}
}

var validPriorities = map[string]bool{
	PriorityLow: true, PriorityNormal: true, PriorityHigh: true, PriorityUrgent: true,
}

var validStatuses = map[string]bool{
	StatusUnread: true, StatusRead: true, StatusArchived: true,
}

// Send creates a message. A zero ThreadID starts a new thread rooted at the
// message itself.
func (s *Service) Send(ctx context.Context, m *Message) error {
	if m.SenderID == uuid.Nil {
		return fmt.Errorf("sender_id is required")
	}
	if m.RecipientID == uuid.Nil {
		return fmt.Errorf("recipient_id is required")
	}
	if m.Body == "" {
		return fmt.Errorf("body is required")
	}
	if m.Priority == "" {
		m.Priority = PriorityNormal
	}
	if !validPriorities[m.Priority] {
		return fmt.Errorf("invalid priority: %s", m.Priority)
	}
	m.Status = StatusUnread
	m.ReadAt = nil
	if m.ThreadID == uuid.Nil {
		m.ThreadID = uuid.New()
	}
	return s.messages.Create(ctx, m)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Message, error) {
	return s.messages.GetByID(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.messages.Delete(ctx, id)
}

func (s *Service) Inbox(ctx context.Context, recipientID uuid.UUID, status string, limit, offset int) ([]*Message, int, error) {
	if status != "" && !validStatuses[status] {
		return nil, 0, fmt.Errorf("invalid message status: %s", status)
	}
	return s.messages.ListByRecipient(ctx, recipientID, status, limit, offset)
}

func (s *Service) Thread(ctx context.Context, threadID uuid.UUID) ([]*Message, error) {
	return s.messages.ListByThread(ctx, threadID)
}

// MarkRead flips a message to read and stamps read_at exactly once; marking
// an already-read message again keeps the original timestamp.
func (s *Service) MarkRead(ctx context.Context, id uuid.UUID) (*Message, error) {
	m, err := s.messages.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m.Status == StatusRead {
		return m, nil
	}
	m.Status = StatusRead
	if m.ReadAt == nil {
		at := s.now()
		m.ReadAt = &at
	}
	if err := s.messages.Update(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// Archive moves a message out of the inbox. Archiving preserves read_at.
func (s *Service) Archive(ctx context.Context, id uuid.UUID) (*Message, error) {
	m, err := s.messages.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	m.Status = StatusArchived
	if err := s.messages.Update(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *Service) UnreadCount(ctx context.Context, recipientID uuid.UUID) (int, error) {
	return s.messages.CountUnread(ctx, recipientID)
}

func (s *Service) TotalUnread(ctx context.Context) (int, error) {
	return s.messages.CountAllUnread(ctx)
}
