package notification

import (
	"context"
	"time"
)

// NotificationData is what a caller knows about one notification: who gets it
// and the values the template needs.
type NotificationData struct {
	To   string            // Recipient identifier (email address for EmailSystem)
	Data map[string]string // Template values (e.g. "VerificationLink")
}

// Message is a fully rendered notification, ready for a transport.
type Message struct {
	To      string
	Subject string
	Html    string
	Text    string
}

// Receipt describes a message the transport accepted.
type Receipt struct {
	MessageID string
	To        string
	SentAt    time.Time
}

type Notifier interface {
	Send(ctx context.Context, msg Message) (*Receipt, error)
}
