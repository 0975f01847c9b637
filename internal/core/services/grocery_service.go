package services

import (
	"context"
	"strings"
	"time"

	"github.com/hostelmess/mess-service/internal/core/domain"
	"github.com/hostelmess/mess-service/internal/core/ports"
)

type GroceryService struct {
	groceries ports.GroceryRepository
	students  ports.StudentRepository
	menus     ports.MenuRepository
}

var _ ports.GroceryService = (*GroceryService)(nil)

// NewGroceryService creates a new grocery service
func NewGroceryService(groceries ports.GroceryRepository, students ports.StudentRepository, menus ports.MenuRepository) *GroceryService {
	return &GroceryService{groceries: groceries, students: students, menus: menus}
}

func (s *GroceryService) List(ctx context.Context) ([]domain.Grocery, error) {
	return s.groceries.List(ctx)
}

// AddStock increments an item's stock, creating the item on first use
func (s *GroceryService) AddStock(ctx context.Context, delta domain.StockDelta) (*domain.Grocery, error) {
	delta.ItemName = strings.TrimSpace(delta.ItemName)
	if delta.ItemName == "" {
		return nil, domain.NewValidationError("itemName is required")
	}
	if strings.TrimSpace(delta.Unit) == "" {
		return nil, domain.NewValidationError("unit is required")
	}
	if delta.Quantity <= 0 {
		return nil, domain.NewValidationError("quantity must be greater than 0")
	}
	if delta.MinStockLevel <= 0 {
		delta.MinStockLevel = domain.DefaultMinStockLevel
	}
	return s.groceries.AddStock(ctx, delta, time.Now())
}

// LowStock returns items at or below their minimum level
func (s *GroceryService) LowStock(ctx context.Context) ([]domain.Grocery, error) {
	return s.groceries.ListLow(ctx)
}

// Requirements is recomputed from current Student and Menu state on every call.
func (s *GroceryService) Requirements(ctx context.Context) (*ports.GroceryRequirements, error) {
	active, err := s.students.CountActive(ctx)
	if err != nil {
		return nil, err
	}
	menus, err := s.menus.List(ctx)
	if err != nil {
		return nil, err
	}
	return &ports.GroceryRequirements{
		ActiveStudents: active,
		MenuEntries:    len(menus),
		Items:          domain.CalculateRequirements(menus, active),
	}, nil
}
