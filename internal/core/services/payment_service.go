package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hostelmess/mess-service/internal/core/domain"
	"github.com/hostelmess/mess-service/internal/core/ports"
)

type PaymentService struct {
	payments ports.PaymentRepository
	students ports.StudentRepository
	log      *zap.Logger
}

var _ ports.PaymentService = (*PaymentService)(nil)

// NewPaymentService creates a new payment service
func NewPaymentService(payments ports.PaymentRepository, students ports.StudentRepository, log *zap.Logger) *PaymentService {
	return &PaymentService{payments: payments, students: students, log: log}
}

func (s *PaymentService) List(ctx context.Context) ([]domain.Payment, error) {
	return s.payments.List(ctx)
}

// Mine lists the student's own payments
func (s *PaymentService) Mine(ctx context.Context, studentID string) ([]domain.Payment, error) {
	return s.payments.ListByStudent(ctx, studentID)
}

// Create records a payment for an existing student
func (s *PaymentService) Create(ctx context.Context, in ports.PaymentInput) (*domain.Payment, error) {
	if in.StudentID == "" || in.Amount <= 0 || in.Month == "" || in.Year <= 0 {
		return nil, domain.NewValidationError("studentId, amount, month and year are required")
	}

	student, err := s.students.FindByID(ctx, in.StudentID)
	if err != nil {
		return nil, err
	}

	status := in.Status
	if status == "" {
		status = domain.PaymentPaid
	}
	method := in.Method
	if method == "" {
		method = domain.MethodCash
	}

	now := time.Now()
	payment := &domain.Payment{
		ID:          uuid.NewString(),
		StudentID:   student.ID,
		Student:     student.Summary(),
		Amount:      in.Amount,
		Month:       in.Month,
		Year:        in.Year,
		Status:      status,
		PaymentDate: now,
		Method:      method,
		Notes:       in.Notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.payments.Create(ctx, payment); err != nil {
		return nil, err
	}
	s.log.Info("payment recorded",
		zap.String("payment_id", payment.ID),
		zap.String("student_id", student.ID),
		zap.Float64("amount", payment.Amount),
	)
	return payment, nil
}
