package messaging

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func newTestService() *Service {
	svc := NewService(NewRepoMem())
	svc.now = func() time.Time { return time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC) }
	return svc
}

func send(t *testing.T, svc *Service, m *Message) *Message {
	t.Helper()
	if m.SenderID == uuid.Nil {
		m.SenderID = uuid.New()
	}
	if m.RecipientID == uuid.Nil {
		m.RecipientID = uuid.New()
	}
	if m.Body == "" {
		m.Body = "hello"
	}
	if err := svc.Send(context.Background(), m); err != nil {
		t.Fatalf("send: %v", err)
	}
	return m
}

func TestSend_Validation(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	if err := svc.Send(ctx, &Message{RecipientID: uuid.New(), Body: "x"}); err == nil {
		t.Error("expected error for missing sender")
	}
	if err := svc.Send(ctx, &Message{SenderID: uuid.New(), RecipientID: uuid.New()}); err == nil {
		t.Error("expected error for empty body")
	}
	if err := svc.Send(ctx, &Message{SenderID: uuid.New(), RecipientID: uuid.New(), Body: "x", Priority: "asap"}); err == nil {
		t.Error("expected error for invalid priority")
	}
}

func TestSend_DefaultsAndThread(t *testing.T) {
	svc := newTestService()
	m := send(t, svc, &Message{Subject: "Rounds"})
	if m.Priority != PriorityNormal {
		t.Errorf("expected normal priority, got %q", m.Priority)
	}
	if m.Status != StatusUnread {
		t.Errorf("expected unread, got %q", m.Status)
	}
	if m.ThreadID == uuid.Nil {
		t.Error("expected a thread id to be assigned")
	}

	// A reply carries the thread.
	reply := send(t, svc, &Message{ThreadID: m.ThreadID})
	thread, err := svc.Thread(context.Background(), m.ThreadID)
	if err != nil {
		t.Fatal(err)
	}
	if len(thread) != 2 {
		t.Fatalf("expected 2 messages in thread, got %d", len(thread))
	}
	if thread[0].ID != m.ID || thread[1].ID != reply.ID {
		t.Error("expected thread in chronological order")
	}
}

func TestMarkRead_SetsReadAtOnce(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	m := send(t, svc, &Message{})

	read, err := svc.MarkRead(ctx, m.ID)
	if err != nil {
		t.Fatal(err)
	}
	if read.Status != StatusRead {
		t.Errorf("expected read, got %q", read.Status)
	}
	if read.ReadAt == nil {
		t.Fatal("expected read_at set")
	}
	first := *read.ReadAt

	// Second mark is a no-op and keeps the original timestamp.
	svc.now = func() time.Time { return first.Add(time.Hour) }
	again, err := svc.MarkRead(ctx, m.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !again.ReadAt.Equal(first) {
		t.Errorf("read_at changed on second mark: %v vs %v", again.ReadAt, first)
	}
}

func TestArchive_PreservesReadAt(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	m := send(t, svc, &Message{})
	if _, err := svc.MarkRead(ctx, m.ID); err != nil {
		t.Fatal(err)
	}

	archived, err := svc.Archive(ctx, m.ID)
	if err != nil {
		t.Fatal(err)
	}
	if archived.Status != StatusArchived {
		t.Errorf("expected archived, got %q", archived.Status)
	}
	if archived.ReadAt == nil {
		t.Error("archive dropped read_at")
	}
}

func TestInbox_StatusFilterAndUnreadCount(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	recipient := uuid.New()

	first := send(t, svc, &Message{RecipientID: recipient})
	send(t, svc, &Message{RecipientID: recipient})
	send(t, svc, &Message{RecipientID: uuid.New()}) // someone else's mail

	count, err := svc.UnreadCount(ctx, recipient)
	if err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Errorf("expected 2 unread, got %d", count)
	}

	if _, err := svc.MarkRead(ctx, first.ID); err != nil {
		t.Fatal(err)
	}

	unread, total, err := svc.Inbox(ctx, recipient, StatusUnread, 10, 0)
	if err != nil {
		t.Fatal(err)
	}
	if total != 1 || unread[0].Status != StatusUnread {
		t.Errorf("expected 1 unread in inbox, got %d", total)
	}

	count, _ = svc.UnreadCount(ctx, recipient)
	if count != 1 {
		t.Errorf("expected unread count 1 after read, got %d", count)
	}

	if _, _, err := svc.Inbox(ctx, recipient, "starred", 10, 0); err == nil {
		t.Error("expected error for invalid status filter")
	}
}

func TestGet_NotFound(t *testing.T) {
	svc := newTestService()
	_, err := svc.Get(context.Background(), uuid.New())
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
