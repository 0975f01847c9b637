package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/hostelmess/mess-service/internal/adapters/middleware"
	"github.com/hostelmess/mess-service/internal/core/ports"
)

// LedgerHandler serves expenses, payments and the admin dashboard figures.
type LedgerHandler struct {
	errorResponder
	expenses  ports.ExpenseService
	payments  ports.PaymentService
	dashboard ports.DashboardService
}

func NewLedgerHandler(
	expenses ports.ExpenseService,
	payments ports.PaymentService,
	dashboard ports.DashboardService,
	log *zap.Logger,
) *LedgerHandler {
	return &LedgerHandler{
		errorResponder: errorResponder{log: log},
		expenses:       expenses,
		payments:       payments,
		dashboard:      dashboard,
	}
}

func (h *LedgerHandler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := h.expenses.List(r.Context())
	if err != nil {
		h.fail(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, expenses)
}

// CreateExpense handles POST /api/expenses
func (h *LedgerHandler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	var in ports.ExpenseInput
	if !decodeJSON(w, r, &in) {
		return
	}

	expense, err := h.expenses.Create(r.Context(), in)
	if err != nil {
		h.fail(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusCreated, expense)
}

func (h *LedgerHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	payments, err := h.payments.List(r.Context())
	if err != nil {
		h.fail(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, payments)
}

// CreatePayment handles POST /api/payments
func (h *LedgerHandler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	var in ports.PaymentInput
	if !decodeJSON(w, r, &in) {
		return
	}

	payment, err := h.payments.Create(r.Context(), in)
	if err != nil {
		h.fail(w, r, err, "Student not found")
		return
	}
	writeJSON(w, http.StatusCreated, payment)
}

// MyPayments handles GET /api/payments/me
func (h *LedgerHandler) MyPayments(w http.ResponseWriter, r *http.Request) {
	student, _ := middleware.StudentFrom(r.Context())

	payments, err := h.payments.Mine(r.Context(), student.ID)
	if err != nil {
		h.fail(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, payments)
}

// DashboardStats handles GET /api/dashboard/stats
func (h *LedgerHandler) DashboardStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.dashboard.Stats(r.Context())
	if err != nil {
		h.fail(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
