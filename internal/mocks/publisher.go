package mocks

import (
	"context"
	"sync"

	"github.com/hostelmess/mess-service/internal/core/ports"
)

// MockEventPublisher records events instead of sending them to a broker.
type MockEventPublisher struct {
	mu sync.RWMutex

	PublishedEvents  []ports.Event
	PublishError     error
	PublishCallCount int
}

var _ ports.EventPublisher = (*MockEventPublisher)(nil)

func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{PublishedEvents: make([]ports.Event, 0)}
}

func (m *MockEventPublisher) Publish(ctx context.Context, evt ports.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.PublishCallCount++
	if m.PublishError != nil {
		return m.PublishError
	}
	m.PublishedEvents = append(m.PublishedEvents, evt)
	return nil
}

func (m *MockEventPublisher) Events() []ports.Event {
	m.mu.RLock()
	defer m.mu.RUnlock()

	events := make([]ports.Event, len(m.PublishedEvents))
	copy(events, m.PublishedEvents)
	return events
}

func (m *MockEventPublisher) CallCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.PublishCallCount
}
