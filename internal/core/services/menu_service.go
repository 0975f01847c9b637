package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hostelmess/mess-service/internal/core/domain"
	"github.com/hostelmess/mess-service/internal/core/ports"
)

// MenuService manages the weekly menu, reading through the cache when one is set
type MenuService struct {
	menus ports.MenuRepository
	cache ports.MenuCache
	log   *zap.Logger
}

var _ ports.MenuService = (*MenuService)(nil)

// NewMenuService accepts a nil cache.
func NewMenuService(menus ports.MenuRepository, cache ports.MenuCache, log *zap.Logger) *MenuService {
	return &MenuService{menus: menus, cache: cache, log: log}
}

// List returns the week in day and meal order
func (s *MenuService) List(ctx context.Context) ([]domain.Menu, error) {
	if s.cache != nil {
		if menus, ok := s.cache.Get(ctx); ok {
			return menus, nil
		}
	}

	menus, err := s.menus.List(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Set(ctx, menus)
	}
	return menus, nil
}

// Upsert replaces the menu slot for a day and meal and drops the cached week
func (s *MenuService) Upsert(ctx context.Context, in ports.MenuInput) (*domain.Menu, error) {
	if !in.Day.Valid() || !in.MealType.Valid() {
		return nil, domain.NewValidationError("A valid day and mealType are required")
	}
	if in.FoodItems == "" {
		return nil, domain.NewValidationError("foodItems is required")
	}

	now := time.Now()
	menu := &domain.Menu{
		ID:          uuid.NewString(),
		Day:         in.Day,
		MealType:    in.MealType,
		FoodItems:   in.FoodItems,
		Ingredients: in.Ingredients.WithoutBlank(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.menus.Upsert(ctx, menu); err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
	s.log.Debug("menu saved", zap.String("day", string(menu.Day)), zap.String("meal_type", string(menu.MealType)))
	return menu, nil
}
