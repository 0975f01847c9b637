package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hostelmess/mess-service/internal/core/domain"
	"github.com/hostelmess/mess-service/internal/core/ports"
)

type ExpenseService struct {
	expenses ports.ExpenseRepository
}

var _ ports.ExpenseService = (*ExpenseService)(nil)

// NewExpenseService creates a new expense service
func NewExpenseService(expenses ports.ExpenseRepository) *ExpenseService {
	return &ExpenseService{expenses: expenses}
}

func (s *ExpenseService) List(ctx context.Context) ([]domain.Expense, error) {
	return s.expenses.List(ctx)
}

// Create records an expense; date defaults to now
func (s *ExpenseService) Create(ctx context.Context, in ports.ExpenseInput) (*domain.Expense, error) {
	if strings.TrimSpace(in.Title) == "" || in.Amount <= 0 || in.Category == "" {
		return nil, domain.NewValidationError("Title, amount and category are required")
	}

	now := time.Now()
	date := now
	if in.Date != nil {
		date = *in.Date
	}
	expense := &domain.Expense{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(in.Title),
		Amount:      in.Amount,
		Category:    in.Category,
		Date:        date,
		Description: in.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.expenses.Create(ctx, expense); err != nil {
		return nil, err
	}
	return expense, nil
}
