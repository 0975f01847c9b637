package services

import (
	"context"

	"github.com/hostelmess/mess-service/internal/core/domain"
	"github.com/hostelmess/mess-service/internal/core/ports"
)

// AdminInboxService serves the shared admin alert mailbox.
type AdminInboxService struct {
	alerts ports.AdminNotificationRepository
}

var _ ports.AdminInboxService = (*AdminInboxService)(nil)

// NewAdminInboxService creates the service behind the shared admin bell
func NewAdminInboxService(alerts ports.AdminNotificationRepository) *AdminInboxService {
	return &AdminInboxService{alerts: alerts}
}

// List returns the latest admin alerts, newest first
func (s *AdminInboxService) List(ctx context.Context) ([]domain.AdminNotification, error) {
	return s.alerts.List(ctx, domain.AdminInboxLimit)
}

// UnreadCount counts alerts nobody has read yet
func (s *AdminInboxService) UnreadCount(ctx context.Context) (int, error) {
	return s.alerts.CountUnread(ctx)
}

// MarkRead flags one alert as read for every admin
func (s *AdminInboxService) MarkRead(ctx context.Context, id string) error {
	return s.alerts.MarkRead(ctx, id)
}

// MarkAllRead clears the whole bell
func (s *AdminInboxService) MarkAllRead(ctx context.Context) error {
	return s.alerts.MarkAllRead(ctx)
}

// Dismiss deletes an alert
func (s *AdminInboxService) Dismiss(ctx context.Context, id string) error {
	return s.alerts.Delete(ctx, id)
}
