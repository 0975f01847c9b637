package ports

import (
	"context"
	"time"
)

const (
	EventComplaintSubmitted    = "complaint.submitted"
	EventComplaintResponded    = "complaint.responded"
	EventNotificationPublished = "notification.published"
)

// OutboxMessage is written in the same transaction as the state change it describes.
type OutboxMessage struct {
	EventType string
	Payload   []byte
}

type ComplaintSubmittedEvent struct {
	ComplaintID string    `json:"complaint_id"`
	StudentID   string    `json:"student_id"`
	Type        string    `json:"type"`
	Category    string    `json:"category"`
	SubmittedAt time.Time `json:"submitted_at"`
}

type ComplaintRespondedEvent struct {
	ComplaintID    string `json:"complaint_id"`
	StudentID      string `json:"student_id"`
	Status         string `json:"status"`
	NotificationID string `json:"notification_id"`
}

type NotificationPublishedEvent struct {
	NotificationID string     `json:"notification_id"`
	Type           string     `json:"type"`
	StudentID      *string    `json:"student_id,omitempty"`
	ExpiresAt      *time.Time `json:"expires_at,omitempty"`
}

// Event is an outbox row on its way to the broker.
type Event struct {
	ID        string
	EventType string
	Payload   []byte
}

type EventPublisher interface {
	Publish(ctx context.Context, evt Event) error
}
