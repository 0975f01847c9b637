// Package memory is a process-local storage backend used for development
// and tests. Every repository shares one DB so multi-record writes stay atomic.
package memory

import (
	"slices"
	"sync"

	"github.com/hostelmess/mess-service/internal/core/domain"
	"github.com/hostelmess/mess-service/internal/core/ports"
)

type DB struct {
	mu sync.RWMutex

	admins        []*domain.Admin
	students      []*domain.Student
	menus         []*domain.Menu
	groceries     []*domain.Grocery
	suppliers     []*domain.Supplier
	expenses      []*domain.Expense
	payments      []*domain.Payment
	feedback      []*domain.Feedback
	ratings       []*domain.MealRating
	complaints    []*domain.Complaint
	notifications []*domain.Notification
	alerts        []*domain.AdminNotification
	outbox        []ports.OutboxMessage
}

func NewDB() *DB {
	return &DB{}
}

// NewStore returns repositories backed by a fresh DB.
func NewStore() (*ports.Store, *DB) {
	db := NewDB()
	return db.Store(), db
}

func (db *DB) Store() *ports.Store {
	return &ports.Store{
		Admins:             &AdminRepository{db: db},
		Students:           &StudentRepository{db: db},
		Menus:              &MenuRepository{db: db},
		Groceries:          &GroceryRepository{db: db},
		Suppliers:          &SupplierRepository{db: db},
		Expenses:           &ExpenseRepository{db: db},
		Payments:           &PaymentRepository{db: db},
		Feedback:           &FeedbackRepository{db: db},
		Ratings:            &RatingRepository{db: db},
		Complaints:         &ComplaintRepository{db: db},
		Notifications:      &NotificationRepository{db: db},
		AdminNotifications: &AdminNotificationRepository{db: db},
	}
}

// Outbox returns the messages recorded so far.
func (db *DB) Outbox() []ports.OutboxMessage {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return slices.Clone(db.outbox)
}

// summary must be called with the lock held.
func (db *DB) summary(studentID string) *domain.StudentSummary {
	for _, s := range db.students {
		if s.ID == studentID {
			return s.Summary()
		}
	}
	return nil
}

// newestFirst returns copies of items in reverse insertion order.
func newestFirst[T any](items []*T, keep func(*T) bool) []T {
	out := make([]T, 0, len(items))
	for i := len(items) - 1; i >= 0; i-- {
		if keep == nil || keep(items[i]) {
			out = append(out, *items[i])
		}
	}
	return out
}

func oldestFirst[T any](items []*T, keep func(*T) bool) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if keep == nil || keep(it) {
			out = append(out, *it)
		}
	}
	return out
}
