package memory

import (
	"context"
	"slices"

	"github.com/hostelmess/mess-service/internal/core/domain"
	"github.com/hostelmess/mess-service/internal/core/ports"
)

type ComplaintRepository struct {
	db *DB
}

var _ ports.ComplaintRepository = (*ComplaintRepository)(nil)

func (r *ComplaintRepository) CreateWithAlert(ctx context.Context, complaint *domain.Complaint, alert *domain.AdminNotification, msg ports.OutboxMessage) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	stored := *complaint
	stored.Student = nil
	storedAlert := *alert
	r.db.complaints = append(r.db.complaints, &stored)
	r.db.alerts = append(r.db.alerts, &storedAlert)
	r.db.outbox = append(r.db.outbox, msg)
	return nil
}

func (r *ComplaintRepository) FindByID(ctx context.Context, id string) (*domain.Complaint, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	for _, c := range r.db.complaints {
		if c.ID == id {
			complaint := *c
			complaint.Student = r.db.summary(c.StudentID)
			return &complaint, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *ComplaintRepository) ListByStudent(ctx context.Context, studentID string) ([]domain.Complaint, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return newestFirst(r.db.complaints, func(c *domain.Complaint) bool { return c.StudentID == studentID }), nil
}

func (r *ComplaintRepository) List(ctx context.Context, filter domain.ComplaintFilter) ([]domain.Complaint, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	out := newestFirst(r.db.complaints, filter.Match)
	for i := range out {
		out[i].Student = r.db.summary(out[i].StudentID)
	}
	return out, nil
}

func (r *ComplaintRepository) UpdateWithNotification(ctx context.Context, complaint *domain.Complaint, notification *domain.Notification, msg *ports.OutboxMessage) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	idx := slices.IndexFunc(r.db.complaints, func(c *domain.Complaint) bool { return c.ID == complaint.ID })
	if idx < 0 {
		return domain.ErrNotFound
	}
	stored := *complaint
	stored.Student = nil
	r.db.complaints[idx] = &stored

	if notification != nil {
		n := *notification
		n.ReadBy = slices.Clone(notification.ReadBy)
		r.db.notifications = append(r.db.notifications, &n)
	}
	if msg != nil {
		r.db.outbox = append(r.db.outbox, *msg)
	}
	return nil
}

func (r *ComplaintRepository) CountByStatus(ctx context.Context) (map[domain.ComplaintStatus]int, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	counts := make(map[domain.ComplaintStatus]int)
	for _, c := range r.db.complaints {
		counts[c.Status]++
	}
	return counts, nil
}
