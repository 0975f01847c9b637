package memory

import (
	"context"
	"slices"
	"time"

	"github.com/hostelmess/mess-service/internal/core/domain"
	"github.com/hostelmess/mess-service/internal/core/ports"
)

type NotificationRepository struct {
	db *DB
}

var _ ports.NotificationRepository = (*NotificationRepository)(nil)

func cloneNotifications(items []domain.Notification) []domain.Notification {
	for i := range items {
		items[i].ReadBy = slices.Clone(items[i].ReadBy)
		if items[i].ReadBy == nil {
			items[i].ReadBy = []string{}
		}
	}
	return items
}

func (r *NotificationRepository) Create(ctx context.Context, notification *domain.Notification, msg ports.OutboxMessage) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	stored := *notification
	stored.ReadBy = slices.Clone(notification.ReadBy)
	r.db.notifications = append(r.db.notifications, &stored)
	r.db.outbox = append(r.db.outbox, msg)
	return nil
}

func (r *NotificationRepository) lookup(id string) *domain.Notification {
	for _, n := range r.db.notifications {
		if n.ID == id {
			return n
		}
	}
	return nil
}

func (r *NotificationRepository) FindByID(ctx context.Context, id string) (*domain.Notification, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	n := r.lookup(id)
	if n == nil {
		return nil, domain.ErrNotFound
	}
	out := *n
	out.ReadBy = slices.Clone(n.ReadBy)
	return &out, nil
}

func (r *NotificationRepository) ListAll(ctx context.Context) ([]domain.Notification, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return cloneNotifications(newestFirst(r.db.notifications, nil)), nil
}

func (r *NotificationRepository) Update(ctx context.Context, notification *domain.Notification) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	n := r.lookup(notification.ID)
	if n == nil {
		return domain.ErrNotFound
	}
	n.Title = notification.Title
	n.Message = notification.Message
	n.Type = notification.Type
	n.ExpiresAt = notification.ExpiresAt
	n.UpdatedAt = notification.UpdatedAt
	return nil
}

func (r *NotificationRepository) Delete(ctx context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	idx := slices.IndexFunc(r.db.notifications, func(n *domain.Notification) bool { return n.ID == id })
	if idx < 0 {
		return domain.ErrNotFound
	}
	r.db.notifications = slices.Delete(r.db.notifications, idx, idx+1)
	return nil
}

func (r *NotificationRepository) ListVisible(ctx context.Context, studentID string, now time.Time) ([]domain.Notification, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return cloneNotifications(newestFirst(r.db.notifications, func(n *domain.Notification) bool {
		return n.VisibleTo(studentID, now)
	})), nil
}

func (r *NotificationRepository) CountUnread(ctx context.Context, studentID string, now time.Time) (int, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	count := 0
	for _, n := range r.db.notifications {
		if n.VisibleTo(studentID, now) && !n.ReadByStudent(studentID) {
			count++
		}
	}
	return count, nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id, studentID string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	n := r.lookup(id)
	if n == nil {
		return domain.ErrNotFound
	}
	n.MarkRead(studentID)
	return nil
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, studentID string, now time.Time) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, n := range r.db.notifications {
		if n.VisibleTo(studentID, now) {
			n.MarkRead(studentID)
		}
	}
	return nil
}

type AdminNotificationRepository struct {
	db *DB
}

var _ ports.AdminNotificationRepository = (*AdminNotificationRepository)(nil)

func (r *AdminNotificationRepository) List(ctx context.Context, limit int) ([]domain.AdminNotification, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	out := newestFirst(r.db.alerts, nil)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *AdminNotificationRepository) CountUnread(ctx context.Context) (int, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	count := 0
	for _, a := range r.db.alerts {
		if !a.Read {
			count++
		}
	}
	return count, nil
}

func (r *AdminNotificationRepository) MarkRead(ctx context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, a := range r.db.alerts {
		if a.ID == id {
			a.Read = true
			a.UpdatedAt = time.Now()
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *AdminNotificationRepository) MarkAllRead(ctx context.Context) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	now := time.Now()
	for _, a := range r.db.alerts {
		if !a.Read {
			a.Read = true
			a.UpdatedAt = now
		}
	}
	return nil
}

func (r *AdminNotificationRepository) Delete(ctx context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	idx := slices.IndexFunc(r.db.alerts, func(a *domain.AdminNotification) bool { return a.ID == id })
	if idx < 0 {
		return domain.ErrNotFound
	}
	r.db.alerts = slices.Delete(r.db.alerts, idx, idx+1)
	return nil
}
