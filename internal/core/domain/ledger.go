package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

type Supplier struct {
	ID            string     `json:"id" db:"id"`
	Name          string     `json:"name" db:"name"`
	ContactPerson string     `json:"contactPerson" db:"contact_person"`
	Phone         string     `json:"phone" db:"phone"`
	Email         string     `json:"email" db:"email"`
	Address       string     `json:"address" db:"address"`
	SuppliedItems StringList `json:"suppliedItems" db:"supplied_items"`
	CreatedAt     time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time  `json:"updatedAt" db:"updated_at"`
}

// StringList is stored as a JSON column.
type StringList []string

func (s StringList) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (s *StringList) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*s = StringList{}
		return nil
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return fmt.Errorf("string list: unsupported scan type %T", src)
	}
}

type ExpenseCategory string

const (
	ExpenseGrocery     ExpenseCategory = "Grocery"
	ExpenseMaintenance ExpenseCategory = "Maintenance"
	ExpenseElectricity ExpenseCategory = "Electricity"
	ExpenseWater       ExpenseCategory = "Water"
	ExpenseOther       ExpenseCategory = "Other"
)

type Expense struct {
	ID          string          `json:"id" db:"id"`
	Title       string          `json:"title" db:"title"`
	Amount      float64         `json:"amount" db:"amount"`
	Category    ExpenseCategory `json:"category" db:"category"`
	Date        time.Time       `json:"date" db:"date"`
	Description string          `json:"description" db:"description"`
	CreatedAt   time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time       `json:"updatedAt" db:"updated_at"`
}

type PaymentStatus string

const (
	PaymentPaid    PaymentStatus = "Paid"
	PaymentPartial PaymentStatus = "Partial"
	PaymentUnpaid  PaymentStatus = "Unpaid"
)

type PaymentMethod string

const (
	MethodCash         PaymentMethod = "Cash"
	MethodOnline       PaymentMethod = "Online"
	MethodUPI          PaymentMethod = "UPI"
	MethodBankTransfer PaymentMethod = "Bank Transfer"
)

type Payment struct {
	ID          string          `json:"id" db:"id"`
	StudentID   string          `json:"studentId" db:"student_id"`
	Student     *StudentSummary `json:"student,omitempty" db:"-"`
	Amount      float64         `json:"amount" db:"amount"`
	Month       string          `json:"month" db:"month"`
	Year        int             `json:"year" db:"year"`
	Status      PaymentStatus   `json:"status" db:"status"`
	PaymentDate time.Time       `json:"paymentDate" db:"payment_date"`
	Method      PaymentMethod   `json:"method" db:"method"`
	Notes       string          `json:"notes" db:"notes"`
	CreatedAt   time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time       `json:"updatedAt" db:"updated_at"`
}
