package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hostelmess/mess-service/internal/core/domain"
	"github.com/hostelmess/mess-service/internal/core/ports"
)

// NotificationService publishes notifications and tracks per-student reads
type NotificationService struct {
	notifications ports.NotificationRepository
	students      ports.StudentRepository
	log           *zap.Logger
	now           func() time.Time
}

var _ ports.NotificationService = (*NotificationService)(nil)

// NewNotificationService creates a new notification service
func NewNotificationService(notifications ports.NotificationRepository, students ports.StudentRepository, log *zap.Logger) *NotificationService {
	return &NotificationService{notifications: notifications, students: students, log: log, now: time.Now}
}

// WithClock overrides the time source used for expiry checks
func (s *NotificationService) WithClock(now func() time.Time) *NotificationService {
	s.now = now
	return s
}

// Create publishes a broadcast or personal notification
func (s *NotificationService) Create(ctx context.Context, adminID string, in ports.NotificationInput) (*domain.Notification, error) {
	title := strings.TrimSpace(in.Title)
	message := strings.TrimSpace(in.Message)
	if title == "" || message == "" {
		return nil, domain.NewValidationError("Title and message are required")
	}

	kind := in.Type
	if kind == "" {
		kind = domain.NotificationInfo
	}
	if !kind.Valid() {
		return nil, domain.NewValidationError("Invalid notification type")
	}

	var target *string
	if in.StudentID != nil && *in.StudentID != "" {
		student, err := s.students.FindByID(ctx, *in.StudentID)
		if err != nil {
			return nil, err
		}
		target = &student.ID
	}

	now := s.now()
	createdBy := adminID
	n := &domain.Notification{
		ID:        uuid.NewString(),
		Title:     title,
		Message:   message,
		Type:      kind,
		CreatedBy: &createdBy,
		StudentID: target,
		ExpiresAt: in.ExpiresAt,
		ReadBy:    []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	msg, err := outboxMessage(ports.EventNotificationPublished, ports.NotificationPublishedEvent{
		NotificationID: n.ID,
		Type:           string(n.Type),
		StudentID:      n.StudentID,
		ExpiresAt:      n.ExpiresAt,
	})
	if err != nil {
		return nil, err
	}
	if err := s.notifications.Create(ctx, n, msg); err != nil {
		return nil, err
	}
	s.log.Info("notification published", zap.String("notification_id", n.ID), zap.Bool("personal", n.IsPersonal()))
	return n, nil
}

// ListAll returns every notification with its read count and active flag
func (s *NotificationService) ListAll(ctx context.Context) ([]domain.AdminNotificationView, error) {
	all, err := s.notifications.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	views := make([]domain.AdminNotificationView, 0, len(all))
	for i := range all {
		views = append(views, domain.AdminNotificationView{
			Notification: all[i],
			ReadCount:    len(all[i].ReadBy),
			IsActive:     all[i].IsActive(now),
		})
	}
	return views, nil
}

func (s *NotificationService) Update(ctx context.Context, id string, in ports.NotificationUpdate) (*domain.Notification, error) {
	if in.Type != "" && !in.Type.Valid() {
		return nil, domain.NewValidationError("Invalid notification type")
	}

	n, err := s.notifications.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t := strings.TrimSpace(in.Title); t != "" {
		n.Title = t
	}
	if m := strings.TrimSpace(in.Message); m != "" {
		n.Message = m
	}
	if in.Type != "" {
		n.Type = in.Type
	}
	switch {
	case in.ClearExpiry:
		n.ExpiresAt = nil
	case in.ExpiresAt != nil:
		n.ExpiresAt = in.ExpiresAt
	}
	n.UpdatedAt = s.now()

	if err := s.notifications.Update(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

func (s *NotificationService) Delete(ctx context.Context, id string) error {
	return s.notifications.Delete(ctx, id)
}

// Visible returns the active notifications addressed to the student
func (s *NotificationService) Visible(ctx context.Context, studentID string) ([]domain.StudentNotification, error) {
	visible, err := s.notifications.ListVisible(ctx, studentID, s.now())
	if err != nil {
		return nil, err
	}
	out := make([]domain.StudentNotification, 0, len(visible))
	for i := range visible {
		out = append(out, visible[i].ForStudent(studentID))
	}
	return out, nil
}

// UnreadCount counts visible notifications the student has not read
func (s *NotificationService) UnreadCount(ctx context.Context, studentID string) (int, error) {
	return s.notifications.CountUnread(ctx, studentID, s.now())
}

func (s *NotificationService) MarkRead(ctx context.Context, id, studentID string) error {
	return s.notifications.MarkRead(ctx, id, studentID)
}

// MarkAllRead marks every visible notification as read by the student
func (s *NotificationService) MarkAllRead(ctx context.Context, studentID string) error {
	return s.notifications.MarkAllRead(ctx, studentID, s.now())
}
