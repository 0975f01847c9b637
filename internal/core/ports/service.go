package ports

import (
	"context"
	"time"

	"github.com/hostelmess/mess-service/internal/core/domain"
)

type AdminSession struct {
	Admin *domain.Admin
	Token string
}

type StudentSession struct {
	Student *domain.Student
	Token   string
}

type AuthService interface {
	AdminLogin(ctx context.Context, email, password string) (*AdminSession, error)
	RegisterAdmin(ctx context.Context, name, email, password string) (*AdminSession, error)
	UpdateProfile(ctx context.Context, adminID, name, email string) (*domain.Admin, error)
	ChangePassword(ctx context.Context, adminID, currentPassword, newPassword string) error
	StudentLogin(ctx context.Context, rollNo, password string) (*StudentSession, error)
}

// Authenticator resolves a bearer token to the live actor it was issued for.
type Authenticator interface {
	AuthenticateAdmin(ctx context.Context, token string) (*domain.Admin, error)
	AuthenticateStudent(ctx context.Context, token string) (*domain.Student, error)
}

type StudentInput struct {
	Name     string `json:"name" validate:"required"`
	RollNo   string `json:"rollNo" validate:"required"`
	RoomNo   string `json:"roomNo" validate:"required"`
	Email    string `json:"email" validate:"omitempty,email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// StudentUpdate fields left empty keep their stored value.
type StudentUpdate struct {
	Name     string               `json:"name"`
	RoomNo   string               `json:"roomNo"`
	Email    string               `json:"email" validate:"omitempty,email"`
	Phone    string               `json:"phone"`
	Status   domain.StudentStatus `json:"status" validate:"omitempty,oneof=Active Inactive"`
	Password string               `json:"password"`
}

type StudentService interface {
	List(ctx context.Context) ([]domain.Student, error)
	Create(ctx context.Context, in StudentInput) (*domain.Student, error)
	Update(ctx context.Context, id string, in StudentUpdate) (*domain.Student, error)
	Delete(ctx context.Context, id string) error
}

type MenuInput struct {
	Day         domain.Day         `json:"day" validate:"required,oneof=Monday Tuesday Wednesday Thursday Friday Saturday Sunday"`
	MealType    domain.MealType    `json:"mealType" validate:"required,oneof=Breakfast Lunch Dinner"`
	FoodItems   string             `json:"foodItems" validate:"required"`
	Ingredients domain.Ingredients `json:"ingredients"`
}

type MenuService interface {
	List(ctx context.Context) ([]domain.Menu, error)
	Upsert(ctx context.Context, in MenuInput) (*domain.Menu, error)
}

type GroceryRequirements struct {
	ActiveStudents int                  `json:"activeStudents"`
	MenuEntries    int                  `json:"menuEntries"`
	Items          []domain.Requirement `json:"items"`
}

type GroceryService interface {
	List(ctx context.Context) ([]domain.Grocery, error)
	AddStock(ctx context.Context, delta domain.StockDelta) (*domain.Grocery, error)
	LowStock(ctx context.Context) ([]domain.Grocery, error)
	Requirements(ctx context.Context) (*GroceryRequirements, error)
}

type SupplierInput struct {
	Name          string   `json:"name" validate:"required"`
	ContactPerson string   `json:"contactPerson"`
	Phone         string   `json:"phone" validate:"required"`
	Email         string   `json:"email" validate:"omitempty,email"`
	Address       string   `json:"address"`
	SuppliedItems []string `json:"suppliedItems"`
}

type SupplierService interface {
	List(ctx context.Context) ([]domain.Supplier, error)
	Create(ctx context.Context, in SupplierInput) (*domain.Supplier, error)
}

type ExpenseInput struct {
	Title       string                 `json:"title" validate:"required"`
	Amount      float64                `json:"amount" validate:"required,gt=0"`
	Category    domain.ExpenseCategory `json:"category" validate:"required,oneof=Grocery Maintenance Electricity Water Other"`
	Date        *time.Time             `json:"date"`
	Description string                 `json:"description"`
}

type ExpenseService interface {
	List(ctx context.Context) ([]domain.Expense, error)
	Create(ctx context.Context, in ExpenseInput) (*domain.Expense, error)
}

type PaymentInput struct {
	StudentID string               `json:"studentId" validate:"required"`
	Amount    float64              `json:"amount" validate:"required,gt=0"`
	Month     string               `json:"month" validate:"required"`
	Year      int                  `json:"year" validate:"required,gt=0"`
	Status    domain.PaymentStatus `json:"status" validate:"omitempty,oneof=Paid Partial Unpaid"`
	Method    domain.PaymentMethod `json:"method" validate:"omitempty,oneof=Cash Online UPI 'Bank Transfer'"`
	Notes     string               `json:"notes"`
}

type PaymentService interface {
	List(ctx context.Context) ([]domain.Payment, error)
	Mine(ctx context.Context, studentID string) ([]domain.Payment, error)
	Create(ctx context.Context, in PaymentInput) (*domain.Payment, error)
}

type FeedbackInput struct {
	Day      domain.Day      `json:"day"`
	MealType domain.MealType `json:"mealType"`
	Rating   int             `json:"rating"`
	Liked    *bool           `json:"liked"`
	Comment  string          `json:"comment" validate:"max=500"`
}

type FeedbackService interface {
	Submit(ctx context.Context, studentID string, in FeedbackInput) (*domain.Feedback, error)
	Mine(ctx context.Context, studentID string) ([]domain.Feedback, error)
	List(ctx context.Context, filter domain.FeedbackFilter) ([]domain.Feedback, error)
	Analytics(ctx context.Context) (*domain.FeedbackAnalytics, error)
}

type RatingInput struct {
	Day      domain.Day      `json:"day"`
	MealType domain.MealType `json:"mealType"`
	Rating   int             `json:"rating"`
	Comment  string          `json:"comment"`
}

type RatingService interface {
	// Submit reports created=false when today's rating was overwritten.
	Submit(ctx context.Context, studentID string, in RatingInput) (rating *domain.MealRating, created bool, err error)
	Today(ctx context.Context, studentID string) ([]domain.MealRating, error)
	Analytics(ctx context.Context) ([]domain.MealRatingStats, error)
}

type ComplaintInput struct {
	Type        domain.ComplaintType     `json:"type" validate:"omitempty,oneof=Complaint Suggestion"`
	Category    domain.ComplaintCategory `json:"category" validate:"omitempty,oneof=Food Cleanliness Maintenance Other"`
	Description string                   `json:"description" validate:"max=1000"`
}

type ComplaintUpdate struct {
	Status        domain.ComplaintStatus `json:"status" validate:"omitempty,oneof=Pending 'In Progress' Resolved"`
	AdminResponse *string                `json:"adminResponse"`
}

type ComplaintService interface {
	Submit(ctx context.Context, student *domain.Student, in ComplaintInput) (*domain.Complaint, error)
	Mine(ctx context.Context, studentID string) ([]domain.Complaint, error)
	List(ctx context.Context, filter domain.ComplaintFilter) ([]domain.Complaint, error)
	Update(ctx context.Context, id string, in ComplaintUpdate) (*domain.Complaint, error)
	Stats(ctx context.Context) (domain.ComplaintStats, error)
}

type NotificationInput struct {
	Title     string                  `json:"title" validate:"max=150"`
	Message   string                  `json:"message" validate:"max=1000"`
	Type      domain.NotificationType `json:"type" validate:"omitempty,oneof=Info Alert 'Special Meal' Announcement Response"`
	ExpiresAt *time.Time              `json:"expiresAt"`
	StudentID *string                 `json:"studentId"`
}

// NotificationUpdate: empty strings keep stored values; ClearExpiry removes the expiry.
type NotificationUpdate struct {
	Title       string
	Message     string
	Type        domain.NotificationType
	ExpiresAt   *time.Time
	ClearExpiry bool
}

type NotificationService interface {
	Create(ctx context.Context, adminID string, in NotificationInput) (*domain.Notification, error)
	ListAll(ctx context.Context) ([]domain.AdminNotificationView, error)
	Update(ctx context.Context, id string, in NotificationUpdate) (*domain.Notification, error)
	Delete(ctx context.Context, id string) error
	Visible(ctx context.Context, studentID string) ([]domain.StudentNotification, error)
	UnreadCount(ctx context.Context, studentID string) (int, error)
	MarkRead(ctx context.Context, id, studentID string) error
	MarkAllRead(ctx context.Context, studentID string) error
}

type AdminInboxService interface {
	List(ctx context.Context) ([]domain.AdminNotification, error)
	UnreadCount(ctx context.Context) (int, error)
	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context) error
	Dismiss(ctx context.Context, id string) error
}

type DashboardStats struct {
	Students       int                   `json:"students"`
	ActiveStudents int                   `json:"activeStudents"`
	Groceries      int                   `json:"groceries"`
	LowStock       int                   `json:"lowStock"`
	TotalExpenses  float64               `json:"totalExpenses"`
	Complaints     domain.ComplaintStats `json:"complaints"`
}

type DashboardService interface {
	Stats(ctx context.Context) (*DashboardStats, error)
}
