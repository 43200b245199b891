package chat

import (
	"time"

	"github.com/google/uuid"
)

// Message is an immutable point-to-point chat record. The ID and CreatedAt
// fields are assigned by the message store on append; CreatedAt is monotonic
// non-decreasing per store.
type Message struct {
	ID         uuid.UUID
	SenderID   string
	ReceiverID string
	Text       string
	CreatedAt  time.Time
}
