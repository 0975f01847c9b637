package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/hostelmess/mess-service/internal/core/domain"
	"github.com/hostelmess/mess-service/internal/core/ports"
)

type MenuRepository struct {
	db *sqlx.DB
}

var _ ports.MenuRepository = (*MenuRepository)(nil)

// dayOrder sorts rows in the canonical weekly order instead of alphabetically.
const dayOrder = `array_position(ARRAY['Monday','Tuesday','Wednesday','Thursday','Friday','Saturday','Sunday'], day),
	array_position(ARRAY['Breakfast','Lunch','Dinner'], meal_type)`

func (r *MenuRepository) List(ctx context.Context) ([]domain.Menu, error) {
	menus := []domain.Menu{}
	err := r.db.SelectContext(ctx, &menus, `
		SELECT id, day, meal_type, food_items, ingredients, created_at, updated_at
		FROM menus
		ORDER BY `+dayOrder)
	if err != nil {
		return nil, translate(err, "list menus")
	}
	return menus, nil
}

func (r *MenuRepository) Upsert(ctx context.Context, menu *domain.Menu) error {
	rows, err := r.db.NamedQueryContext(ctx, `
		INSERT INTO menus (id, day, meal_type, food_items, ingredients, created_at, updated_at)
		VALUES (:id, :day, :meal_type, :food_items, :ingredients, :created_at, :updated_at)
		ON CONFLICT (day, meal_type) DO UPDATE
		SET food_items = EXCLUDED.food_items,
		    ingredients = EXCLUDED.ingredients,
		    updated_at = EXCLUDED.updated_at
		RETURNING id, created_at`, menu)
	if err != nil {
		return translate(err, "upsert menu")
	}
	defer rows.Close()

	if rows.Next() {
		if err := rows.Scan(&menu.ID, &menu.CreatedAt); err != nil {
			return translate(err, "upsert menu")
		}
	}
	return translate(rows.Err(), "upsert menu")
}

type GroceryRepository struct {
	db *sqlx.DB
}

var _ ports.GroceryRepository = (*GroceryRepository)(nil)

const groceryColumns = `id, item_name, current_stock, unit, min_stock_level, last_updated, created_at, updated_at`

func (r *GroceryRepository) List(ctx context.Context) ([]domain.Grocery, error) {
	groceries := []domain.Grocery{}
	err := r.db.SelectContext(ctx, &groceries, `SELECT `+groceryColumns+` FROM groceries ORDER BY created_at`)
	if err != nil {
		return nil, translate(err, "list groceries")
	}
	return groceries, nil
}

// AddStock increments in a single statement so concurrent additions never lose an update.
func (r *GroceryRepository) AddStock(ctx context.Context, delta domain.StockDelta, at time.Time) (*domain.Grocery, error) {
	var g domain.Grocery
	err := r.db.GetContext(ctx, &g, `
		INSERT INTO groceries (id, item_name, current_stock, unit, min_stock_level, last_updated, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6, $6)
		ON CONFLICT (item_name) DO UPDATE
		SET current_stock = groceries.current_stock + EXCLUDED.current_stock,
		    last_updated = EXCLUDED.last_updated,
		    updated_at = EXCLUDED.updated_at
		RETURNING `+groceryColumns,
		uuid.NewString(), delta.ItemName, delta.Quantity, delta.Unit, delta.MinStockLevel, at,
	)
	if err != nil {
		return nil, translate(err, "add grocery stock")
	}
	return &g, nil
}

func (r *GroceryRepository) ListLow(ctx context.Context) ([]domain.Grocery, error) {
	groceries := []domain.Grocery{}
	err := r.db.SelectContext(ctx, &groceries, `
		SELECT `+groceryColumns+` FROM groceries
		WHERE current_stock <= min_stock_level
		ORDER BY created_at`)
	if err != nil {
		return nil, translate(err, "list low stock")
	}
	return groceries, nil
}

type SupplierRepository struct {
	db *sqlx.DB
}

var _ ports.SupplierRepository = (*SupplierRepository)(nil)

func (r *SupplierRepository) List(ctx context.Context) ([]domain.Supplier, error) {
	suppliers := []domain.Supplier{}
	err := r.db.SelectContext(ctx, &suppliers, `
		SELECT id, name, contact_person, phone, email, address, supplied_items, created_at, updated_at
		FROM suppliers ORDER BY created_at`)
	if err != nil {
		return nil, translate(err, "list suppliers")
	}
	return suppliers, nil
}

func (r *SupplierRepository) Create(ctx context.Context, supplier *domain.Supplier) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO suppliers (id, name, contact_person, phone, email, address, supplied_items, created_at, updated_at)
		VALUES (:id, :name, :contact_person, :phone, :email, :address, :supplied_items, :created_at, :updated_at)`, supplier)
	return translate(err, "create supplier")
}

type ExpenseRepository struct {
	db *sqlx.DB
}

var _ ports.ExpenseRepository = (*ExpenseRepository)(nil)

func (r *ExpenseRepository) List(ctx context.Context) ([]domain.Expense, error) {
	expenses := []domain.Expense{}
	err := r.db.SelectContext(ctx, &expenses, `
		SELECT id, title, amount, category, date, description, created_at, updated_at
		FROM expenses ORDER BY date DESC, created_at DESC`)
	if err != nil {
		return nil, translate(err, "list expenses")
	}
	return expenses, nil
}

func (r *ExpenseRepository) Create(ctx context.Context, expense *domain.Expense) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO expenses (id, title, amount, category, date, description, created_at, updated_at)
		VALUES (:id, :title, :amount, :category, :date, :description, :created_at, :updated_at)`, expense)
	return translate(err, "create expense")
}

func (r *ExpenseRepository) Total(ctx context.Context) (float64, error) {
	var total float64
	if err := r.db.GetContext(ctx, &total, `SELECT COALESCE(SUM(amount), 0) FROM expenses`); err != nil {
		return 0, translate(err, "sum expenses")
	}
	return total, nil
}

type PaymentRepository struct {
	db *sqlx.DB
}

var _ ports.PaymentRepository = (*PaymentRepository)(nil)

type paymentRow struct {
	domain.Payment
	StudentColumns
}

const paymentSelect = `
	SELECT p.id, p.student_id, p.amount, p.month, p.year, p.status, p.payment_date,
	       p.method, p.notes, p.created_at, p.updated_at, ` + studentJoinColumns + `
	FROM payments p
	LEFT JOIN students s ON s.id = p.student_id`

func (r *PaymentRepository) query(ctx context.Context, withStudent bool, where string, args ...any) ([]domain.Payment, error) {
	rows := []paymentRow{}
	if err := r.db.SelectContext(ctx, &rows, paymentSelect+where+` ORDER BY p.payment_date DESC`, args...); err != nil {
		return nil, translate(err, "list payments")
	}

	payments := make([]domain.Payment, 0, len(rows))
	for _, row := range rows {
		p := row.Payment
		if withStudent {
			p.Student = row.summary(p.StudentID)
		}
		payments = append(payments, p)
	}
	return payments, nil
}

func (r *PaymentRepository) List(ctx context.Context) ([]domain.Payment, error) {
	return r.query(ctx, true, "")
}

func (r *PaymentRepository) ListByStudent(ctx context.Context, studentID string) ([]domain.Payment, error) {
	return r.query(ctx, false, ` WHERE p.student_id = $1`, studentID)
}

func (r *PaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO payments (id, student_id, amount, month, year, status, payment_date, method, notes, created_at, updated_at)
		VALUES (:id, :student_id, :amount, :month, :year, :status, :payment_date, :method, :notes, :created_at, :updated_at)`, payment)
	return translate(err, "create payment")
}
