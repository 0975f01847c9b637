package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/hostelmess/mess-service/internal/adapters/middleware"
	"github.com/hostelmess/mess-service/internal/core/domain"
	"github.com/hostelmess/mess-service/internal/core/ports"
)

// NotificationHandler serves student notifications and the admin inbox.
type NotificationHandler struct {
	errorResponder
	notifications ports.NotificationService
	inbox         ports.AdminInboxService
}

func NewNotificationHandler(notifications ports.NotificationService, inbox ports.AdminInboxService, log *zap.Logger) *NotificationHandler {
	return &NotificationHandler{
		errorResponder: errorResponder{log: log},
		notifications:  notifications,
		inbox:          inbox,
	}
}

type countResponse struct {
	Count int `json:"count"`
}

// UpdateNotificationRequest keeps expiresAt raw so an explicit null can clear it.
type UpdateNotificationRequest struct {
	Title     string                  `json:"title" validate:"max=150"`
	Message   string                  `json:"message" validate:"max=1000"`
	Type      domain.NotificationType `json:"type" validate:"omitempty,oneof=Info Alert 'Special Meal' Announcement Response"`
	ExpiresAt json.RawMessage         `json:"expiresAt"`
}

func (req UpdateNotificationRequest) toUpdate() (ports.NotificationUpdate, bool) {
	upd := ports.NotificationUpdate{Title: req.Title, Message: req.Message, Type: req.Type}
	switch raw := bytes.TrimSpace(req.ExpiresAt); {
	case len(raw) == 0:
	case bytes.Equal(raw, []byte("null")):
		upd.ClearExpiry = true
	default:
		var t time.Time
		if err := json.Unmarshal(raw, &t); err != nil {
			return upd, false
		}
		upd.ExpiresAt = &t
	}
	return upd, true
}

// Create handles POST /api/notifications
func (h *NotificationHandler) Create(w http.ResponseWriter, r *http.Request) {
	admin, _ := middleware.AdminFrom(r.Context())

	var in ports.NotificationInput
	if !decodeJSON(w, r, &in) {
		return
	}

	n, err := h.notifications.Create(r.Context(), admin.ID, in)
	if err != nil {
		h.fail(w, r, err, "Student not found")
		return
	}
	writeJSON(w, http.StatusCreated, n)
}

// ListAll handles GET /api/notifications/admin/all
func (h *NotificationHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	views, err := h.notifications.ListAll(r.Context())
	if err != nil {
		h.fail(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, views)
}

// Update handles PUT /api/notifications/{id}
func (h *NotificationHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateNotificationRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	upd, ok := req.toUpdate()
	if !ok {
		writeMessage(w, http.StatusBadRequest, "Invalid expiresAt")
		return
	}

	n, err := h.notifications.Update(r.Context(), mux.Vars(r)["id"], upd)
	if err != nil {
		h.fail(w, r, err, "Notification not found")
		return
	}
	writeJSON(w, http.StatusOK, n)
}

func (h *NotificationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.notifications.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.fail(w, r, err, "Notification not found")
		return
	}
	writeMessage(w, http.StatusOK, "Notification deleted")
}

// Visible handles GET /api/notifications for the signed-in student
func (h *NotificationHandler) Visible(w http.ResponseWriter, r *http.Request) {
	student, _ := middleware.StudentFrom(r.Context())

	items, err := h.notifications.Visible(r.Context(), student.ID)
	if err != nil {
		h.fail(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *NotificationHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	student, _ := middleware.StudentFrom(r.Context())

	count, err := h.notifications.UnreadCount(r.Context(), student.ID)
	if err != nil {
		h.fail(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, countResponse{Count: count})
}

// MarkRead handles PATCH /api/notifications/{id}/read
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	student, _ := middleware.StudentFrom(r.Context())

	if err := h.notifications.MarkRead(r.Context(), mux.Vars(r)["id"], student.ID); err != nil {
		h.fail(w, r, err, "Notification not found")
		return
	}
	writeMessage(w, http.StatusOK, "Marked as read")
}

func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	student, _ := middleware.StudentFrom(r.Context())

	if err := h.notifications.MarkAllRead(r.Context(), student.ID); err != nil {
		h.fail(w, r, err, "")
		return
	}
	writeMessage(w, http.StatusOK, "All marked as read")
}

// InboxList handles GET /api/admin-notifications
func (h *NotificationHandler) InboxList(w http.ResponseWriter, r *http.Request) {
	alerts, err := h.inbox.List(r.Context())
	if err != nil {
		h.fail(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, alerts)
}

func (h *NotificationHandler) InboxUnreadCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.inbox.UnreadCount(r.Context())
	if err != nil {
		h.fail(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, countResponse{Count: count})
}

func (h *NotificationHandler) InboxMarkRead(w http.ResponseWriter, r *http.Request) {
	if err := h.inbox.MarkRead(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.fail(w, r, err, "Notification not found")
		return
	}
	writeMessage(w, http.StatusOK, "Marked as read")
}

func (h *NotificationHandler) InboxMarkAllRead(w http.ResponseWriter, r *http.Request) {
	if err := h.inbox.MarkAllRead(r.Context()); err != nil {
		h.fail(w, r, err, "")
		return
	}
	writeMessage(w, http.StatusOK, "All marked as read")
}

// InboxDismiss handles DELETE /api/admin-notifications/{id}
func (h *NotificationHandler) InboxDismiss(w http.ResponseWriter, r *http.Request) {
	if err := h.inbox.Dismiss(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.fail(w, r, err, "Notification not found")
		return
	}
	writeMessage(w, http.StatusOK, "Dismissed")
}
