package ports

import (
	"context"
	"time"

	"github.com/hostelmess/mess-service/internal/core/domain"
)

type AdminRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.Admin, error)
	FindByID(ctx context.Context, id string) (*domain.Admin, error)
	Create(ctx context.Context, admin *domain.Admin) error
	Update(ctx context.Context, admin *domain.Admin) error
}

type StudentRepository interface {
	List(ctx context.Context) ([]domain.Student, error)
	FindByID(ctx context.Context, id string) (*domain.Student, error)
	FindByRollNo(ctx context.Context, rollNo string) (*domain.Student, error)
	Create(ctx context.Context, student *domain.Student) error
	Update(ctx context.Context, student *domain.Student) error
	Delete(ctx context.Context, id string) error
	CountActive(ctx context.Context) (int, error)
}

type MenuRepository interface {
	List(ctx context.Context) ([]domain.Menu, error)
	// Upsert replaces foodItems and ingredients of the (day, mealType) entry or creates it.
	Upsert(ctx context.Context, menu *domain.Menu) error
}

type GroceryRepository interface {
	List(ctx context.Context) ([]domain.Grocery, error)
	// AddStock atomically increments currentStock, creating the item when absent.
	AddStock(ctx context.Context, delta domain.StockDelta, at time.Time) (*domain.Grocery, error)
	ListLow(ctx context.Context) ([]domain.Grocery, error)
}

type SupplierRepository interface {
	List(ctx context.Context) ([]domain.Supplier, error)
	Create(ctx context.Context, supplier *domain.Supplier) error
}

type ExpenseRepository interface {
	List(ctx context.Context) ([]domain.Expense, error)
	Create(ctx context.Context, expense *domain.Expense) error
	Total(ctx context.Context) (float64, error)
}

type PaymentRepository interface {
	List(ctx context.Context) ([]domain.Payment, error)
	ListByStudent(ctx context.Context, studentID string) ([]domain.Payment, error)
	Create(ctx context.Context, payment *domain.Payment) error
}

type FeedbackRepository interface {
	// Upsert keys on (student, day, mealType).
	Upsert(ctx context.Context, feedback *domain.Feedback) error
	ListByStudent(ctx context.Context, studentID string) ([]domain.Feedback, error)
	List(ctx context.Context, filter domain.FeedbackFilter) ([]domain.Feedback, error)
	RecentComments(ctx context.Context, limit int) ([]domain.Feedback, error)
}

type RatingRepository interface {
	FindSince(ctx context.Context, studentID string, day domain.Day, meal domain.MealType, since time.Time) (*domain.MealRating, error)
	Create(ctx context.Context, rating *domain.MealRating) error
	Update(ctx context.Context, rating *domain.MealRating) error
	ListByStudentSince(ctx context.Context, studentID string, since time.Time) ([]domain.MealRating, error)
	List(ctx context.Context) ([]domain.MealRating, error)
}

type ComplaintRepository interface {
	// CreateWithAlert stores the complaint, its admin alert and the outbox message atomically.
	CreateWithAlert(ctx context.Context, complaint *domain.Complaint, alert *domain.AdminNotification, msg OutboxMessage) error
	FindByID(ctx context.Context, id string) (*domain.Complaint, error)
	ListByStudent(ctx context.Context, studentID string) ([]domain.Complaint, error)
	List(ctx context.Context, filter domain.ComplaintFilter) ([]domain.Complaint, error)
	// UpdateWithNotification saves the complaint and, when notification is non-nil,
	// the student notification and its outbox message in the same transaction.
	UpdateWithNotification(ctx context.Context, complaint *domain.Complaint, notification *domain.Notification, msg *OutboxMessage) error
	CountByStatus(ctx context.Context) (map[domain.ComplaintStatus]int, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, notification *domain.Notification, msg OutboxMessage) error
	FindByID(ctx context.Context, id string) (*domain.Notification, error)
	ListAll(ctx context.Context) ([]domain.Notification, error)
	Update(ctx context.Context, notification *domain.Notification) error
	Delete(ctx context.Context, id string) error
	ListVisible(ctx context.Context, studentID string, now time.Time) ([]domain.Notification, error)
	CountUnread(ctx context.Context, studentID string, now time.Time) (int, error)
	MarkRead(ctx context.Context, id, studentID string) error
	MarkAllRead(ctx context.Context, studentID string, now time.Time) error
}

type AdminNotificationRepository interface {
	List(ctx context.Context, limit int) ([]domain.AdminNotification, error)
	CountUnread(ctx context.Context) (int, error)
	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context) error
	Delete(ctx context.Context, id string) error
}

// Store bundles the repositories of one storage backend.
type Store struct {
	Admins             AdminRepository
	Students           StudentRepository
	Menus              MenuRepository
	Groceries          GroceryRepository
	Suppliers          SupplierRepository
	Expenses           ExpenseRepository
	Payments           PaymentRepository
	Feedback           FeedbackRepository
	Ratings            RatingRepository
	Complaints         ComplaintRepository
	Notifications      NotificationRepository
	AdminNotifications AdminNotificationRepository
}

type MenuCache interface {
	Get(ctx context.Context) ([]domain.Menu, bool)
	Set(ctx context.Context, menus []domain.Menu)
	Invalidate(ctx context.Context)
}
