package memory

import (
	"context"
	"slices"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/hostelmess/mess-service/internal/core/domain"
	"github.com/hostelmess/mess-service/internal/core/ports"
)

type MenuRepository struct {
	db *DB
}

var _ ports.MenuRepository = (*MenuRepository)(nil)

func (r *MenuRepository) List(ctx context.Context) ([]domain.Menu, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	out := make([]domain.Menu, 0, len(r.db.menus))
	for _, m := range r.db.menus {
		menu := *m
		menu.Ingredients = slices.Clone(m.Ingredients)
		out = append(out, menu)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Day != out[j].Day {
			return out[i].Day.Index() < out[j].Day.Index()
		}
		return out[i].MealType.Index() < out[j].MealType.Index()
	})
	return out, nil
}

func (r *MenuRepository) Upsert(ctx context.Context, menu *domain.Menu) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, m := range r.db.menus {
		if m.Day == menu.Day && m.MealType == menu.MealType {
			m.FoodItems = menu.FoodItems
			m.Ingredients = slices.Clone(menu.Ingredients)
			m.UpdatedAt = menu.UpdatedAt
			menu.ID = m.ID
			menu.CreatedAt = m.CreatedAt
			return nil
		}
	}
	stored := *menu
	stored.Ingredients = slices.Clone(menu.Ingredients)
	r.db.menus = append(r.db.menus, &stored)
	return nil
}

type GroceryRepository struct {
	db *DB
}

var _ ports.GroceryRepository = (*GroceryRepository)(nil)

func (r *GroceryRepository) List(ctx context.Context) ([]domain.Grocery, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return oldestFirst(r.db.groceries, nil), nil
}

func (r *GroceryRepository) AddStock(ctx context.Context, delta domain.StockDelta, at time.Time) (*domain.Grocery, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, g := range r.db.groceries {
		if g.ItemName == delta.ItemName {
			g.CurrentStock += delta.Quantity
			g.LastUpdated = at
			g.UpdatedAt = at
			out := *g
			return &out, nil
		}
	}

	g := &domain.Grocery{
		ID:            uuid.NewString(),
		ItemName:      delta.ItemName,
		CurrentStock:  delta.Quantity,
		Unit:          delta.Unit,
		MinStockLevel: delta.MinStockLevel,
		LastUpdated:   at,
		CreatedAt:     at,
		UpdatedAt:     at,
	}
	r.db.groceries = append(r.db.groceries, g)
	out := *g
	return &out, nil
}

func (r *GroceryRepository) ListLow(ctx context.Context) ([]domain.Grocery, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return oldestFirst(r.db.groceries, (*domain.Grocery).IsLow), nil
}

type SupplierRepository struct {
	db *DB
}

var _ ports.SupplierRepository = (*SupplierRepository)(nil)

func (r *SupplierRepository) List(ctx context.Context) ([]domain.Supplier, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return oldestFirst(r.db.suppliers, nil), nil
}

func (r *SupplierRepository) Create(ctx context.Context, supplier *domain.Supplier) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	stored := *supplier
	stored.SuppliedItems = slices.Clone(supplier.SuppliedItems)
	r.db.suppliers = append(r.db.suppliers, &stored)
	return nil
}

type ExpenseRepository struct {
	db *DB
}

var _ ports.ExpenseRepository = (*ExpenseRepository)(nil)

func (r *ExpenseRepository) List(ctx context.Context) ([]domain.Expense, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	out := newestFirst(r.db.expenses, nil)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (r *ExpenseRepository) Create(ctx context.Context, expense *domain.Expense) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	stored := *expense
	r.db.expenses = append(r.db.expenses, &stored)
	return nil
}

func (r *ExpenseRepository) Total(ctx context.Context) (float64, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	var total float64
	for _, e := range r.db.expenses {
		total += e.Amount
	}
	return total, nil
}

type PaymentRepository struct {
	db *DB
}

var _ ports.PaymentRepository = (*PaymentRepository)(nil)

func (r *PaymentRepository) list(keep func(*domain.Payment) bool, withStudent bool) []domain.Payment {
	out := oldestFirst(r.db.payments, keep)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PaymentDate.After(out[j].PaymentDate)
	})
	for i := range out {
		out[i].Student = nil
		if withStudent {
			out[i].Student = r.db.summary(out[i].StudentID)
		}
	}
	return out
}

func (r *PaymentRepository) List(ctx context.Context) ([]domain.Payment, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return r.list(nil, true), nil
}

func (r *PaymentRepository) ListByStudent(ctx context.Context, studentID string) ([]domain.Payment, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return r.list(func(p *domain.Payment) bool { return p.StudentID == studentID }, false), nil
}

func (r *PaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	stored := *payment
	stored.Student = nil
	r.db.payments = append(r.db.payments, &stored)
	return nil
}
