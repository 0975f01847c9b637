package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hostelmess/mess-service/internal/core/domain"
	"github.com/hostelmess/mess-service/internal/core/ports"
)

type fakeMenuCache struct {
	menus       []domain.Menu
	cached      bool
	gets        int
	invalidated int
}

func (c *fakeMenuCache) Get(ctx context.Context) ([]domain.Menu, bool) {
	c.gets++
	return c.menus, c.cached
}

func (c *fakeMenuCache) Set(ctx context.Context, menus []domain.Menu) {
	c.menus = menus
	c.cached = true
}

func (c *fakeMenuCache) Invalidate(ctx context.Context) {
	c.menus = nil
	c.cached = false
	c.invalidated++
}

func TestStudentService_Create(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := NewStudentService(f.store.Students, f.log)

	_, err := svc.Create(ctx, ports.StudentInput{Name: "John", RollNo: "101", RoomNo: "A-1", Password: "abc"})
	require.True(t, domain.IsValidation(err))
	assert.Equal(t, "Password must be at least 4 characters", err.Error())

	s, err := svc.Create(ctx, ports.StudentInput{Name: " John ", RollNo: "101", RoomNo: "A-1", Password: "john101"})
	require.NoError(t, err)
	assert.Equal(t, "John", s.Name)
	assert.Equal(t, domain.StudentActive, s.Status)
	assert.NotEqual(t, "john101", s.Password)
	assert.True(t, checkPassword(s.Password, "john101"))

	_, err = svc.Create(ctx, ports.StudentInput{Name: "Other", RollNo: "101", RoomNo: "B-2", Password: "other101"})
	require.True(t, domain.IsValidation(err))
	assert.Equal(t, "Student with this Roll No already exists", err.Error())
}

func TestStudentService_PartialUpdate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	s := f.student(t, "101", "john101", domain.StudentActive)
	svc := NewStudentService(f.store.Students, f.log)

	updated, err := svc.Update(ctx, s.ID, ports.StudentUpdate{RoomNo: "C-7", Status: domain.StudentInactive, Password: "ab"})
	require.NoError(t, err)
	assert.Equal(t, s.Name, updated.Name)
	assert.Equal(t, "C-7", updated.RoomNo)
	assert.Equal(t, domain.StudentInactive, updated.Status)
	assert.True(t, checkPassword(updated.Password, "john101"), "short passwords are ignored on update")

	updated, err = svc.Update(ctx, s.ID, ports.StudentUpdate{Password: "newpass"})
	require.NoError(t, err)
	assert.True(t, checkPassword(updated.Password, "newpass"))

	_, err = svc.Update(ctx, s.ID, ports.StudentUpdate{Status: "Suspended"})
	assert.True(t, domain.IsValidation(err))

	_, err = svc.Update(ctx, "missing", ports.StudentUpdate{Name: "x"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, svc.Delete(ctx, s.ID))
	assert.ErrorIs(t, svc.Delete(ctx, s.ID), domain.ErrNotFound)
}

func TestPaymentService_Create(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	s := f.student(t, "101", "john101", domain.StudentActive)
	svc := NewPaymentService(f.store.Payments, f.store.Students, f.log)

	_, err := svc.Create(ctx, ports.PaymentInput{StudentID: s.ID, Amount: 0, Month: "March", Year: 2024})
	assert.True(t, domain.IsValidation(err))

	_, err = svc.Create(ctx, ports.PaymentInput{StudentID: "ghost", Amount: 3000, Month: "March", Year: 2024})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	p, err := svc.Create(ctx, ports.PaymentInput{StudentID: s.ID, Amount: 3000, Month: "March", Year: 2024})
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentPaid, p.Status)
	assert.Equal(t, domain.MethodCash, p.Method)
	require.NotNil(t, p.Student)
	assert.Equal(t, "101", p.Student.RollNo)

	mine, err := svc.Mine(ctx, s.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, p.ID, mine[0].ID)

	other, err := svc.Mine(ctx, "someone-else")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestGroceryService_AddStock(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := NewGroceryService(f.store.Groceries, f.store.Students, f.store.Menus)

	_, err := svc.AddStock(ctx, domain.StockDelta{ItemName: "  ", Quantity: 1, Unit: "kg"})
	assert.True(t, domain.IsValidation(err))
	_, err = svc.AddStock(ctx, domain.StockDelta{ItemName: "Rice", Quantity: 1})
	assert.True(t, domain.IsValidation(err))
	_, err = svc.AddStock(ctx, domain.StockDelta{ItemName: "Rice", Unit: "kg"})
	assert.EqualError(t, err, "quantity must be greater than 0")

	g, err := svc.AddStock(ctx, domain.StockDelta{ItemName: " Rice ", Quantity: 3, Unit: "kg"})
	require.NoError(t, err)
	assert.Equal(t, "Rice", g.ItemName)
	assert.Equal(t, float64(domain.DefaultMinStockLevel), g.MinStockLevel)

	low, err := svc.LowStock(ctx)
	require.NoError(t, err)
	require.Len(t, low, 1)

	g, err = svc.AddStock(ctx, domain.StockDelta{ItemName: "Rice", Quantity: 10, Unit: "g", MinStockLevel: 100})
	require.NoError(t, err)
	assert.Equal(t, 13.0, g.CurrentStock)
	assert.Equal(t, "kg", g.Unit, "unit is fixed when the item is created")
	assert.Equal(t, float64(domain.DefaultMinStockLevel), g.MinStockLevel)

	low, err = svc.LowStock(ctx)
	require.NoError(t, err)
	assert.Empty(t, low)
}

func TestGroceryService_Requirements(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.student(t, "101", "john101", domain.StudentActive)
	f.student(t, "102", "jane102", domain.StudentActive)
	f.student(t, "103", "bob103", domain.StudentInactive)
	menus := NewMenuService(f.store.Menus, nil, f.log)
	svc := NewGroceryService(f.store.Groceries, f.store.Students, f.store.Menus)

	_, err := menus.Upsert(ctx, ports.MenuInput{
		Day: domain.Monday, MealType: domain.Breakfast, FoodItems: "Poha",
		Ingredients: domain.Ingredients{{Name: "Poha", QuantityPerStudent: 0.1, Unit: "kg"}, {Name: "Milk", QuantityPerStudent: 0.2, Unit: "L"}},
	})
	require.NoError(t, err)
	_, err = menus.Upsert(ctx, ports.MenuInput{
		Day: domain.Monday, MealType: domain.Dinner, FoodItems: "Kheer",
		Ingredients: domain.Ingredients{{Name: "Milk", QuantityPerStudent: 0.3, Unit: "L"}},
	})
	require.NoError(t, err)

	req, err := svc.Requirements(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, req.ActiveStudents)
	assert.Equal(t, 2, req.MenuEntries)
	require.Len(t, req.Items, 2)
	assert.Equal(t, "Poha", req.Items[0].Name)
	assert.InDelta(t, 0.2, req.Items[0].Total, 1e-9)
	assert.Equal(t, "Milk", req.Items[1].Name)
	assert.InDelta(t, 1.0, req.Items[1].Total, 1e-9)
}

func TestMenuService_CacheAndUpsert(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	cache := &fakeMenuCache{}
	svc := NewMenuService(f.store.Menus, cache, f.log)

	_, err := svc.Upsert(ctx, ports.MenuInput{Day: "Someday", MealType: domain.Lunch, FoodItems: "Dal"})
	assert.True(t, domain.IsValidation(err))
	_, err = svc.Upsert(ctx, ports.MenuInput{Day: domain.Monday, MealType: domain.Lunch})
	assert.True(t, domain.IsValidation(err))
	assert.Zero(t, cache.invalidated)

	m, err := svc.Upsert(ctx, ports.MenuInput{
		Day: domain.Monday, MealType: domain.Lunch, FoodItems: "Dal, Rice",
		Ingredients: domain.Ingredients{{Name: "Dal", QuantityPerStudent: 0.05, Unit: "kg"}, {Name: "  ", Unit: "kg"}},
	})
	require.NoError(t, err)
	assert.Len(t, m.Ingredients, 1)
	assert.Equal(t, 1, cache.invalidated)

	menus, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, menus, 1)
	assert.True(t, cache.cached)

	cache.menus = []domain.Menu{{FoodItems: "from cache"}}
	menus, err = svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, menus, 1)
	assert.Equal(t, "from cache", menus[0].FoodItems)

	_, err = svc.Upsert(ctx, ports.MenuInput{Day: domain.Monday, MealType: domain.Lunch, FoodItems: "Rajma, Rice"})
	require.NoError(t, err)
	assert.Equal(t, 2, cache.invalidated)

	menus, err = svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, menus, 1, "upsert replaces the slot")
	assert.Equal(t, "Rajma, Rice", menus[0].FoodItems)
	assert.Empty(t, menus[0].Ingredients)
}

func TestExpenseAndSupplierServices(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	expenses := NewExpenseService(f.store.Expenses)
	suppliers := NewSupplierService(f.store.Suppliers)

	_, err := expenses.Create(ctx, ports.ExpenseInput{Title: "Gas", Amount: -5, Category: domain.ExpenseOther})
	assert.True(t, domain.IsValidation(err))

	when := time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)
	e, err := expenses.Create(ctx, ports.ExpenseInput{Title: "Gas cylinder", Amount: 1100, Category: domain.ExpenseOther, Date: &when})
	require.NoError(t, err)
	assert.Equal(t, when, e.Date)

	e, err = expenses.Create(ctx, ports.ExpenseInput{Title: "Vegetables", Amount: 900, Category: domain.ExpenseGrocery})
	require.NoError(t, err)
	assert.False(t, e.Date.IsZero())

	_, err = suppliers.Create(ctx, ports.SupplierInput{Name: "Fresh Farms"})
	require.True(t, domain.IsValidation(err))
	assert.Equal(t, "Supplier name and phone are required", err.Error())

	s, err := suppliers.Create(ctx, ports.SupplierInput{Name: "Fresh Farms", Phone: "555-0101", SuppliedItems: []string{"Tomato", " ", "Onion "}})
	require.NoError(t, err)
	assert.Equal(t, domain.StringList{"Tomato", "Onion"}, s.SuppliedItems)

	list, err := suppliers.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestDashboardService_Stats(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	s := f.student(t, "101", "john101", domain.StudentActive)
	f.student(t, "102", "jane102", domain.StudentInactive)

	groceries := NewGroceryService(f.store.Groceries, f.store.Students, f.store.Menus)
	_, err := groceries.AddStock(ctx, domain.StockDelta{ItemName: "Rice", Quantity: 50, Unit: "kg"})
	require.NoError(t, err)
	_, err = groceries.AddStock(ctx, domain.StockDelta{ItemName: "Salt", Quantity: 1, Unit: "kg"})
	require.NoError(t, err)

	expenses := NewExpenseService(f.store.Expenses)
	_, err = expenses.Create(ctx, ports.ExpenseInput{Title: "Gas", Amount: 1100, Category: domain.ExpenseOther})
	require.NoError(t, err)
	_, err = expenses.Create(ctx, ports.ExpenseInput{Title: "Power", Amount: 400.5, Category: domain.ExpenseElectricity})
	require.NoError(t, err)

	complaints := NewComplaintService(f.store.Complaints, f.log)
	_, err = complaints.Submit(ctx, s, ports.ComplaintInput{Category: domain.CategoryFood, Description: "The dal was too salty today"})
	require.NoError(t, err)

	stats, err := NewDashboardService(f.store).Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Students)
	assert.Equal(t, 1, stats.ActiveStudents)
	assert.Equal(t, 2, stats.Groceries)
	assert.Equal(t, 1, stats.LowStock)
	assert.InDelta(t, 1500.5, stats.TotalExpenses, 1e-9)
	assert.Equal(t, domain.ComplaintStats{Pending: 1, Total: 1}, stats.Complaints)
}
