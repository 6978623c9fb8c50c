package models

// Event types published to the marketplace topic.
const (
	EventUserRegistered        = "user.registered"
	EventUserDeleted           = "user.deleted"
	EventOrderCreated          = "order.created"
	EventOrderStatusChanged    = "order.status_changed"
	EventEmailVerificationSent = "email.verification_requested"
	EventPasswordResetSent     = "email.password_reset_requested"
	EventMessageSent           = "message.sent"
)

// Event represents a domain event, including type, user, timestamp and payload.
type Event struct {
	EventID   string            `json:"event_id"`  // EventID is a unique identifier for the event.
	Timestamp int64             `json:"timestamp"` // Timestamp is the Unix timestamp (in seconds) when the event occurred.
	Type      string            `json:"type"`      // Type is one of the Event* constants.
	UserID    string            `json:"user_id"`   // UserID is the user the event concerns.
	Data      map[string]string `json:"data"`      // Data carries event specific fields, e.g. order_id or a delivery token.
}
