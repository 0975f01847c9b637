package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hostelmess/mess-service/internal/adapters/repository/memory"
	"github.com/hostelmess/mess-service/internal/core/ports"
	"github.com/hostelmess/mess-service/internal/core/services"
)

type testAPI struct {
	t       *testing.T
	handler http.Handler
	store   *ports.Store
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	log := zap.NewNop()
	store, _ := memory.NewStore()

	auth := services.NewAuthService(store.Admins, store.Students, services.NewTokenManager("router-test-secret", time.Hour), log)
	svc := Services{
		Auth:          auth,
		Authenticator: auth,
		Students:      services.NewStudentService(store.Students, log),
		Menus:         services.NewMenuService(store.Menus, nil, log),
		Groceries:     services.NewGroceryService(store.Groceries, store.Students, store.Menus),
		Suppliers:     services.NewSupplierService(store.Suppliers),
		Expenses:      services.NewExpenseService(store.Expenses),
		Payments:      services.NewPaymentService(store.Payments, store.Students, log),
		Feedback:      services.NewFeedbackService(store.Feedback),
		Ratings:       services.NewRatingService(store.Ratings),
		Complaints:    services.NewComplaintService(store.Complaints, log),
		Notifications: services.NewNotificationService(store.Notifications, store.Students, log),
		AdminInbox:    services.NewAdminInboxService(store.AdminNotifications),
		Dashboard:     services.NewDashboardService(store),
	}
	opts := RouterOptions{
		CORSAllowedOrigins: []string{"http://localhost:3000"},
		Registry:           prometheus.NewRegistry(),
		Version:            "test",
	}
	return &testAPI{t: t, handler: NewRouter(svc, opts, log), store: store}
}

func (a *testAPI) do(method, path, token string, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func messageOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decodeBody[messageResponse](t, rec).Message
}

func (a *testAPI) adminToken() string {
	a.t.Helper()
	rec := a.do(http.MethodPost, "/api/admin/register", "", map[string]string{
		"name": "Warden", "email": "warden@hostel.com", "password": "secret1",
	})
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeBody[AdminResponse](a.t, rec).Token
}

// studentToken creates a student through the admin API and logs them in.
func (a *testAPI) studentToken(adminToken, rollNo string) (id, token string) {
	a.t.Helper()
	rec := a.do(http.MethodPost, "/api/students", adminToken, map[string]string{
		"name": "Student " + rollNo, "rollNo": rollNo, "roomNo": "B-12", "password": "pass" + rollNo,
	})
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = a.do(http.MethodPost, "/api/students/login", "", map[string]string{"rollNo": rollNo, "password": "pass" + rollNo})
	require.Equal(a.t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decodeBody[StudentLoginResponse](a.t, rec)
	return resp.ID, resp.Token
}

func TestAdminAuthEndpoints(t *testing.T) {
	api := newTestAPI(t)
	token := api.adminToken()

	rec := api.do(http.MethodPost, "/api/admin/register", "", map[string]string{
		"name": "Other", "email": "warden@hostel.com", "password": "x",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Admin already exists", messageOf(t, rec))

	rec = api.do(http.MethodPost, "/api/admin/register", "", map[string]string{
		"name": "Other", "email": "not-an-email", "password": "x",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "email must be a valid email address", messageOf(t, rec))

	rec = api.do(http.MethodPost, "/api/admin/login", "", map[string]string{"email": "warden@hostel.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid email or password", messageOf(t, rec))

	rec = api.do(http.MethodPost, "/api/admin/login", "", map[string]string{"email": "WARDEN@hostel.com", "password": "secret1"})
	require.Equal(t, http.StatusOK, rec.Code)
	login := decodeBody[AdminResponse](t, rec)
	assert.Equal(t, "admin", login.Role)
	assert.NotEmpty(t, login.Token)

	rec = api.do(http.MethodPut, "/api/admin/profile", token, map[string]string{"name": "Head Warden"})
	require.Equal(t, http.StatusOK, rec.Code)
	profile := decodeBody[AdminResponse](t, rec)
	assert.Equal(t, "Head Warden", profile.Name)
	assert.Equal(t, token, profile.Token)

	rec = api.do(http.MethodPut, "/api/admin/change-password", token, map[string]string{"currentPassword": "nope", "newPassword": "secret2"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Current password is incorrect", messageOf(t, rec))

	rec = api.do(http.MethodPut, "/api/admin/change-password", token, map[string]string{"currentPassword": "secret1", "newPassword": "secret2"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Password updated successfully", messageOf(t, rec))

	rec = api.do(http.MethodPost, "/api/admin/login", "", map[string]string{"email": "warden@hostel.com", "password": "secret2"})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestStudentEndpoints(t *testing.T) {
	api := newTestAPI(t)
	admin := api.adminToken()

	rec := api.do(http.MethodGet, "/api/students", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Not authorized, no token", messageOf(t, rec))

	rec = api.do(http.MethodPost, "/api/students", admin, map[string]string{"rollNo": "101", "roomNo": "A-1", "password": "john101"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "name is a required field", messageOf(t, rec))

	rec = api.do(http.MethodPost, "/api/students", admin, `{"name": "John"`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid request body", messageOf(t, rec))

	id, token := api.studentToken(admin, "101")

	rec = api.do(http.MethodPost, "/api/students", admin, map[string]string{"name": "Dup", "rollNo": "101", "roomNo": "A-2", "password": "dup101"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Student with this Roll No already exists", messageOf(t, rec))

	rec = api.do(http.MethodGet, "/api/students", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "student tokens cannot reach admin routes")

	rec = api.do(http.MethodPost, "/api/students/login", "", map[string]string{"rollNo": "101", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid Roll No or password", messageOf(t, rec))

	rec = api.do(http.MethodPut, "/api/students/"+id, admin, map[string]string{"status": "Inactive"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(http.MethodPost, "/api/students/login", "", map[string]string{"rollNo": "101", "password": "pass101"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Your account is inactive. Contact admin.", messageOf(t, rec))

	rec = api.do(http.MethodGet, "/api/payments/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Your account is inactive", messageOf(t, rec))

	rec = api.do(http.MethodDelete, "/api/students/"+id, admin, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Student removed successfully", messageOf(t, rec))

	rec = api.do(http.MethodDelete, "/api/students/"+id, admin, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Student not found", messageOf(t, rec))
}

func TestMenuAndInventoryEndpoints(t *testing.T) {
	api := newTestAPI(t)
	admin := api.adminToken()
	api.studentToken(admin, "101")

	rec := api.do(http.MethodPost, "/api/menu", "", map[string]any{"day": "Monday", "mealType": "Lunch", "foodItems": "Dal"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = api.do(http.MethodPost, "/api/menu", admin, map[string]any{"day": "Funday", "mealType": "Lunch", "foodItems": "Dal"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(http.MethodPost, "/api/menu", admin, map[string]any{
		"day": "Monday", "mealType": "Lunch", "foodItems": "Dal, Rice",
		"ingredients": []map[string]any{{"name": "Rice", "quantityPerStudent": 0.15, "unit": "kg"}},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = api.do(http.MethodGet, "/api/menu", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]map[string]any](t, rec), 1)

	rec = api.do(http.MethodGet, "/api/grocery/requirements", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	req := decodeBody[ports.GroceryRequirements](t, rec)
	assert.Equal(t, 1, req.ActiveStudents)
	require.Len(t, req.Items, 1)
	assert.InDelta(t, 0.15, req.Items[0].Total, 1e-9)

	rec = api.do(http.MethodPost, "/api/grocery", admin, map[string]any{"itemName": "Rice", "quantity": -1, "unit": "kg"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "quantity must be greater than 0", messageOf(t, rec))

	rec = api.do(http.MethodPost, "/api/grocery", admin, map[string]any{"itemName": "Rice", "unit": "kg"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "quantity is a required field", messageOf(t, rec))

	rec = api.do(http.MethodPost, "/api/grocery", admin, map[string]any{"itemName": "Rice", "quantity": 2, "unit": "kg"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = api.do(http.MethodGet, "/api/grocery/low-stock", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]map[string]any](t, rec), 1)

	rec = api.do(http.MethodPost, "/api/suppliers", admin, map[string]any{"name": "Fresh Farms", "phone": "555-0101", "suppliedItems": []string{"Rice"}})
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = api.do(http.MethodPost, "/api/expenses", admin, map[string]any{"title": "Gas", "amount": 1100, "category": "Other"})
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = api.do(http.MethodPost, "/api/expenses", admin, map[string]any{"title": "Gas", "amount": 1100, "category": "Snacks"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(http.MethodGet, "/api/dashboard/stats", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decodeBody[ports.DashboardStats](t, rec)
	assert.Equal(t, 1, stats.Students)
	assert.Equal(t, 1, stats.LowStock)
	assert.Equal(t, 1100.0, stats.TotalExpenses)
}

func TestPaymentEndpoints(t *testing.T) {
	api := newTestAPI(t)
	admin := api.adminToken()
	id, token := api.studentToken(admin, "101")

	rec := api.do(http.MethodPost, "/api/payments", admin, map[string]any{"studentId": "ghost", "amount": 3000, "month": "March", "year": 2024})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Student not found", messageOf(t, rec))

	rec = api.do(http.MethodPost, "/api/payments", admin, map[string]any{"studentId": id, "amount": 3000, "month": "March", "year": 2024})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = api.do(http.MethodGet, "/api/payments/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	mine := decodeBody[[]map[string]any](t, rec)
	require.Len(t, mine, 1)
	assert.Equal(t, "Paid", mine[0]["status"])
	assert.Equal(t, "Cash", mine[0]["method"])
}

func TestFeedbackAndRatingEndpoints(t *testing.T) {
	api := newTestAPI(t)
	admin := api.adminToken()
	_, token := api.studentToken(admin, "101")

	rec := api.do(http.MethodPost, "/api/feedback", token, map[string]any{"day": "Monday", "mealType": "Lunch", "rating": 4, "liked": true})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Feedback saved", messageOf(t, rec))

	rec = api.do(http.MethodPost, "/api/feedback", token, map[string]any{"day": "Monday", "mealType": "Lunch", "rating": 9})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Rating must be between 1 and 5", messageOf(t, rec))

	rec = api.do(http.MethodGet, "/api/feedback?mealType=Lunch", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]map[string]any](t, rec), 1)

	rec = api.do(http.MethodPost, "/api/ratings", token, map[string]any{"day": "Monday", "mealType": "Dinner", "rating": 3})
	assert.Equal(t, http.StatusCreated, rec.Code)
	rec = api.do(http.MethodPost, "/api/ratings", token, map[string]any{"day": "Monday", "mealType": "Dinner", "rating": 5})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(http.MethodGet, "/api/ratings/student", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	today := decodeBody[[]map[string]any](t, rec)
	require.Len(t, today, 1)
	assert.Equal(t, 5.0, today[0]["rating"])

	rec = api.do(http.MethodGet, "/api/ratings/analytics", admin, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestComplaintNotificationFlow(t *testing.T) {
	api := newTestAPI(t)
	admin := api.adminToken()
	_, token := api.studentToken(admin, "101")

	rec := api.do(http.MethodPost, "/api/complaints", token, map[string]any{"category": "Food", "description": "short"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Description must be at least 10 characters", messageOf(t, rec))

	rec = api.do(http.MethodPost, "/api/complaints", token, map[string]any{"category": "Food", "description": "Rice was undercooked at lunch"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	complaintID := decodeBody[map[string]any](t, rec)["id"].(string)

	rec = api.do(http.MethodGet, "/api/admin-notifications/unread-count", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decodeBody[countResponse](t, rec).Count)

	rec = api.do(http.MethodPut, "/api/complaints/missing", admin, map[string]any{"status": "Resolved"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Complaint not found", messageOf(t, rec))

	rec = api.do(http.MethodPut, "/api/complaints/"+complaintID, admin, map[string]any{"status": "Resolved", "adminResponse": "Spoke to the cook"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = api.do(http.MethodGet, "/api/complaints/stats", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1.0, decodeBody[map[string]any](t, rec)["Resolved"])

	rec = api.do(http.MethodGet, "/api/notifications", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	inbox := decodeBody[[]map[string]any](t, rec)
	require.Len(t, inbox, 1)
	assert.Equal(t, "Admin responded to your Complaint", inbox[0]["title"])
	assert.Equal(t, true, inbox[0]["isPersonal"])
	notificationID := inbox[0]["id"].(string)

	rec = api.do(http.MethodGet, "/api/notifications/unread-count", token, nil)
	assert.Equal(t, 1, decodeBody[countResponse](t, rec).Count)

	rec = api.do(http.MethodPatch, "/api/notifications/"+notificationID+"/read", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Marked as read", messageOf(t, rec))

	rec = api.do(http.MethodPatch, "/api/notifications/missing/read", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Notification not found", messageOf(t, rec))

	rec = api.do(http.MethodGet, "/api/notifications/unread-count", token, nil)
	assert.Zero(t, decodeBody[countResponse](t, rec).Count)
}

func TestNotificationAdminEndpoints(t *testing.T) {
	api := newTestAPI(t)
	admin := api.adminToken()
	_, token := api.studentToken(admin, "101")

	rec := api.do(http.MethodPost, "/api/notifications", admin, map[string]any{"title": "Diwali dinner", "message": "Special thali", "type": "Special Meal", "expiresAt": "2099-01-01T00:00:00Z"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	id := decodeBody[map[string]any](t, rec)["id"].(string)

	rec = api.do(http.MethodPost, "/api/notifications", admin, map[string]any{"title": "x", "message": "y", "studentId": "ghost"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Student not found", messageOf(t, rec))

	rec = api.do(http.MethodPut, "/api/notifications/"+id, admin, map[string]any{"expiresAt": "tomorrow"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid expiresAt", messageOf(t, rec))

	rec = api.do(http.MethodPut, "/api/notifications/"+id, admin, `{"expiresAt": null}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, decodeBody[map[string]any](t, rec)["expiresAt"])

	rec = api.do(http.MethodPatch, "/api/notifications/mark-all-read", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "All marked as read", messageOf(t, rec))

	rec = api.do(http.MethodGet, "/api/notifications/admin/all", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	all := decodeBody[[]map[string]any](t, rec)
	require.Len(t, all, 1)
	assert.Equal(t, 1.0, all[0]["readCount"])
	assert.Equal(t, true, all[0]["isActive"])

	rec = api.do(http.MethodDelete, "/api/notifications/"+id, admin, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = api.do(http.MethodDelete, "/api/notifications/"+id, admin, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOperationalEndpoints(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodGet, "/api/nothing-here", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Route not found", messageOf(t, rec))

	rec = api.do(http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "UP", decodeBody[HealthResponse](t, rec).Status)

	rec = api.do(http.MethodGet, "/health/ready", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	ready := decodeBody[HealthResponse](t, rec)
	assert.Equal(t, "UP", ready.Checks["database"].Status)
	assert.Equal(t, "UP", ready.Checks["redis"].Status)

	api.do(http.MethodGet, "/api/menu", "", nil)
	rec = api.do(http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "mess_http_requests_total")
	assert.Contains(t, rec.Body.String(), `route="/api/menu"`)
}
