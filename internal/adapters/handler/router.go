package handler

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/hostelmess/mess-service/internal/adapters/middleware"
	"github.com/hostelmess/mess-service/internal/core/ports"
)

// Services bundles the core services the router exposes
type Services struct {
	Auth          ports.AuthService
	Authenticator ports.Authenticator
	Students      ports.StudentService
	Menus         ports.MenuService
	Groceries     ports.GroceryService
	Suppliers     ports.SupplierService
	Expenses      ports.ExpenseService
	Payments      ports.PaymentService
	Feedback      ports.FeedbackService
	Ratings       ports.RatingService
	Complaints    ports.ComplaintService
	Notifications ports.NotificationService
	AdminInbox    ports.AdminInboxService
	Dashboard     ports.DashboardService
}

type RouterOptions struct {
	CORSAllowedOrigins []string
	// Throttle guards the login endpoints when set.
	Throttle *middleware.LoginThrottle
	// Registry defaults to a fresh registry.
	Registry *prometheus.Registry
	DB       DBPinger
	Redis    RedisPinger
	Version  string
}

// NewRouter mounts the API routes together with the health and metrics endpoints
func NewRouter(svc Services, opts RouterOptions, log *zap.Logger) http.Handler {
	reg := opts.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	metrics := middleware.NewMetrics(reg)
	authMW := middleware.NewAuthMiddleware(svc.Authenticator, log)

	admin := func(h http.HandlerFunc) http.Handler { return authMW.RequireAdmin(h) }
	student := func(h http.HandlerFunc) http.Handler { return authMW.RequireStudent(h) }
	login := func(scheme string, h http.HandlerFunc) http.Handler {
		if opts.Throttle == nil {
			return h
		}
		return opts.Throttle.Guard(scheme, h)
	}

	auth := NewAuthHandler(svc.Auth, log)
	students := NewStudentHandler(svc.Students, log)
	menus := NewMenuHandler(svc.Menus, log)
	inventory := NewInventoryHandler(svc.Groceries, svc.Suppliers, log)
	ledger := NewLedgerHandler(svc.Expenses, svc.Payments, svc.Dashboard, log)
	feedback := NewFeedbackHandler(svc.Feedback, svc.Ratings, log)
	complaints := NewComplaintHandler(svc.Complaints, log)
	notifications := NewNotificationHandler(svc.Notifications, svc.AdminInbox, log)
	health := NewHealthHandler(opts.DB, opts.Redis, opts.Version)

	r := mux.NewRouter()
	r.Use(metrics.Middleware)

	r.HandleFunc("/health", health.Health).Methods(http.MethodGet)
	r.HandleFunc("/health/ready", health.Ready).Methods(http.MethodGet)
	r.HandleFunc("/health/live", health.Live).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()

	api.Handle("/admin/login", login("admin", auth.AdminLogin)).Methods(http.MethodPost)
	api.HandleFunc("/admin/register", auth.RegisterAdmin).Methods(http.MethodPost)
	api.Handle("/admin/profile", admin(auth.UpdateProfile)).Methods(http.MethodPut)
	api.Handle("/admin/change-password", admin(auth.ChangePassword)).Methods(http.MethodPut)

	api.Handle("/students/login", login("student", auth.StudentLogin)).Methods(http.MethodPost)
	api.Handle("/students", admin(students.List)).Methods(http.MethodGet)
	api.Handle("/students", admin(students.Create)).Methods(http.MethodPost)
	api.Handle("/students/{id}", admin(students.Update)).Methods(http.MethodPut)
	api.Handle("/students/{id}", admin(students.Delete)).Methods(http.MethodDelete)

	api.HandleFunc("/menu", menus.List).Methods(http.MethodGet)
	api.Handle("/menu", admin(menus.Upsert)).Methods(http.MethodPost)

	api.Handle("/grocery", admin(inventory.ListGroceries)).Methods(http.MethodGet)
	api.Handle("/grocery", admin(inventory.AddStock)).Methods(http.MethodPost)
	api.Handle("/grocery/requirements", admin(inventory.Requirements)).Methods(http.MethodGet)
	api.Handle("/grocery/low-stock", admin(inventory.LowStock)).Methods(http.MethodGet)
	api.Handle("/suppliers", admin(inventory.ListSuppliers)).Methods(http.MethodGet)
	api.Handle("/suppliers", admin(inventory.CreateSupplier)).Methods(http.MethodPost)

	api.Handle("/expenses", admin(ledger.ListExpenses)).Methods(http.MethodGet)
	api.Handle("/expenses", admin(ledger.CreateExpense)).Methods(http.MethodPost)
	api.Handle("/payments", admin(ledger.ListPayments)).Methods(http.MethodGet)
	api.Handle("/payments", admin(ledger.CreatePayment)).Methods(http.MethodPost)
	api.Handle("/payments/me", student(ledger.MyPayments)).Methods(http.MethodGet)
	api.Handle("/dashboard/stats", admin(ledger.DashboardStats)).Methods(http.MethodGet)

	api.Handle("/feedback", student(feedback.Submit)).Methods(http.MethodPost)
	api.Handle("/feedback/mine", student(feedback.Mine)).Methods(http.MethodGet)
	api.Handle("/feedback", admin(feedback.List)).Methods(http.MethodGet)
	api.Handle("/feedback/analytics", admin(feedback.Analytics)).Methods(http.MethodGet)

	api.Handle("/ratings", student(feedback.SubmitRating)).Methods(http.MethodPost)
	api.Handle("/ratings/student", student(feedback.TodayRatings)).Methods(http.MethodGet)
	api.Handle("/ratings/analytics", admin(feedback.RatingAnalytics)).Methods(http.MethodGet)

	api.Handle("/complaints", student(complaints.Submit)).Methods(http.MethodPost)
	api.Handle("/complaints/mine", student(complaints.Mine)).Methods(http.MethodGet)
	api.Handle("/complaints", admin(complaints.List)).Methods(http.MethodGet)
	api.Handle("/complaints/stats", admin(complaints.Stats)).Methods(http.MethodGet)
	api.Handle("/complaints/{id}", admin(complaints.Update)).Methods(http.MethodPut)

	api.Handle("/notifications", student(notifications.Visible)).Methods(http.MethodGet)
	api.Handle("/notifications/unread-count", student(notifications.UnreadCount)).Methods(http.MethodGet)
	api.Handle("/notifications/mark-all-read", student(notifications.MarkAllRead)).Methods(http.MethodPatch)
	api.Handle("/notifications/{id}/read", student(notifications.MarkRead)).Methods(http.MethodPatch)
	api.Handle("/notifications/admin/all", admin(notifications.ListAll)).Methods(http.MethodGet)
	api.Handle("/notifications", admin(notifications.Create)).Methods(http.MethodPost)
	api.Handle("/notifications/{id}", admin(notifications.Update)).Methods(http.MethodPut)
	api.Handle("/notifications/{id}", admin(notifications.Delete)).Methods(http.MethodDelete)

	api.Handle("/admin-notifications", admin(notifications.InboxList)).Methods(http.MethodGet)
	api.Handle("/admin-notifications/unread-count", admin(notifications.InboxUnreadCount)).Methods(http.MethodGet)
	api.Handle("/admin-notifications/mark-all-read", admin(notifications.InboxMarkAllRead)).Methods(http.MethodPatch)
	api.Handle("/admin-notifications/{id}/read", admin(notifications.InboxMarkRead)).Methods(http.MethodPatch)
	api.Handle("/admin-notifications/{id}", admin(notifications.InboxDismiss)).Methods(http.MethodDelete)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusNotFound, "Route not found")
	})

	// CORS runs outside mux so preflight requests never hit method matching.
	return middleware.CORSMiddleware(opts.CORSAllowedOrigins)(middleware.RequestLogger(log)(r))
}
