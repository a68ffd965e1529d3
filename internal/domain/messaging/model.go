package messaging

import (
	"time"

	"github.com/google/uuid"
)

// Message maps to the message table. ThreadID groups a conversation; a
// message without one starts its own thread. PatientID is optional clinical
// context, referenced by id only.
type Message struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	SenderID    uuid.UUID  `db:"sender_id" json:"sender_id"`
	RecipientID uuid.UUID  `db:"recipient_id" json:"recipient_id"`
	Subject     string     `db:"subject" json:"subject"`
	Body        string     `db:"body" json:"body"`
	Priority    string     `db:"priority" json:"priority"`
	Status      string     `db:"status" json:"status"`
	ThreadID    uuid.UUID  `db:"thread_id" json:"thread_id"`
	PatientID   *uuid.UUID `db:"patient_id" json:"patient_id,omitempty"`
	ReadAt      *time.Time `db:"read_at" json:"read_at,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}
