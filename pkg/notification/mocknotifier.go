package notification

import (
	"context"
	"sync"
	"time"
)

// MockNotifier records messages instead of sending them. Set Err to make
// every Send fail.
type MockNotifier struct {
	mu           sync.Mutex
	SentMessages []Message
	Err          error
}

func (m *MockNotifier) Send(ctx context.Context, msg Message) (*Receipt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}
	m.SentMessages = append(m.SentMessages, msg)
	return &Receipt{MessageID: "mock", To: msg.To, SentAt: time.Now().UTC()}, nil
}

// Messages returns a copy of everything sent so far.
func (m *MockNotifier) Messages() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Message(nil), m.SentMessages...)
}
