package messaging

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/caredesk/caredesk/pkg/pagination"
)

type repoMem struct {
	mu       sync.RWMutex
	messages map[uuid.UUID]*Message
}

func NewRepoMem() Repository {
	return &repoMem{messages: make(map[uuid.UUID]*Message)}
}

func cloneMessage(m *Message) *Message {
	c := *m
	if m.PatientID != nil {
		v := *m.PatientID
		c.PatientID = &v
	}
	if m.ReadAt != nil {
		v := *m.ReadAt
		c.ReadAt = &v
	}
	return &c
}

func (r *repoMem) Create(_ context.Context, m *Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m.ID = uuid.New()
	m.CreatedAt = time.Now()
	m.UpdatedAt = m.CreatedAt
	r.messages[m.ID] = cloneMessage(m)
	return nil
}

func (r *repoMem) GetByID(_ context.Context, id uuid.UUID) (*Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.messages[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneMessage(m), nil
}

func (r *repoMem) Update(_ context.Context, m *Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.messages[m.ID]
	if !ok {
		return ErrNotFound
	}
	m.CreatedAt = existing.CreatedAt
	m.UpdatedAt = time.Now()
	r.messages[m.ID] = cloneMessage(m)
	return nil
}

func (r *repoMem) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.messages[id]; !ok {
		return ErrNotFound
	}
	delete(r.messages, id)
	return nil
}

func (r *repoMem) sorted(newestFirst bool, filter func(*Message) bool) []*Message {
	var items []*Message
	for _, m := range r.messages {
		if filter == nil || filter(m) {
			items = append(items, cloneMessage(m))
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			if newestFirst {
				return items[i].CreatedAt.After(items[j].CreatedAt)
			}
			return items[i].CreatedAt.Before(items[j].CreatedAt)
		}
		return items[i].ID.String() < items[j].ID.String()
	})
	return items
}

func (r *repoMem) ListByRecipient(_ context.Context, recipientID uuid.UUID, status string, limit, offset int) ([]*Message, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	items := r.sorted(true, func(m *Message) bool {
		if m.RecipientID != recipientID {
			return false
		}
		return status == "" || m.Status == status
	})
	page, total := pagination.Slice(items, pagination.Params{Limit: limit, Offset: offset})
	return page, total, nil
}

func (r *repoMem) ListByThread(_ context.Context, threadID uuid.UUID) ([]*Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sorted(false, func(m *Message) bool { return m.ThreadID == threadID }), nil
}

func (r *repoMem) CountUnread(_ context.Context, recipientID uuid.UUID) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	count := 0
	for _, m := range r.messages {
		if m.RecipientID == recipientID && m.Status == StatusUnread {
			count++
		}
	}
	return count, nil
}

func (r *repoMem) CountAllUnread(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	count := 0
	for _, m := range r.messages {
		if m.Status == StatusUnread {
			count++
		}
	}
	return count, nil
}
