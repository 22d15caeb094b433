package notify

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventUserRegistered = "user_registered"
	EventPasswordReset  = "password_reset"
	EventOrderPlaced    = "order_placed"
)

// Event is the wire format on the shop.notifications topic.
// Notifications are best effort: producers never wait on delivery and
// a failed send must not roll back the state change that caused it.
type Event struct {
	ID        string            `json:"event_id"`
	Type      string            `json:"event_type"`
	Email     string            `json:"email"`
	Payload   map[string]string `json:"payload,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

func NewEvent(eventType, email string, payload map[string]string) *Event {
	return &Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Email:     email,
		Payload:   payload,
		Timestamp: time.Now(),
	}
}
