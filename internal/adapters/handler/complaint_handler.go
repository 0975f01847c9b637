package handler

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/hostelmess/mess-service/internal/adapters/middleware"
	"github.com/hostelmess/mess-service/internal/core/domain"
	"github.com/hostelmess/mess-service/internal/core/ports"
)

type ComplaintHandler struct {
	errorResponder
	complaints ports.ComplaintService
}

func NewComplaintHandler(complaints ports.ComplaintService, log *zap.Logger) *ComplaintHandler {
	return &ComplaintHandler{errorResponder: errorResponder{log: log}, complaints: complaints}
}

// Submit handles POST /api/complaints
func (h *ComplaintHandler) Submit(w http.ResponseWriter, r *http.Request) {
	student, _ := middleware.StudentFrom(r.Context())

	var in ports.ComplaintInput
	if !decodeJSON(w, r, &in) {
		return
	}

	complaint, err := h.complaints.Submit(r.Context(), student, in)
	if err != nil {
		h.fail(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusCreated, complaint)
}

func (h *ComplaintHandler) Mine(w http.ResponseWriter, r *http.Request) {
	student, _ := middleware.StudentFrom(r.Context())

	complaints, err := h.complaints.Mine(r.Context(), student.ID)
	if err != nil {
		h.fail(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, complaints)
}

// List handles GET /api/complaints with optional status, category and type filters
func (h *ComplaintHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	complaints, err := h.complaints.List(r.Context(), domain.ComplaintFilter{
		Status:   domain.ComplaintStatus(q.Get("status")),
		Category: domain.ComplaintCategory(q.Get("category")),
		Type:     domain.ComplaintType(q.Get("type")),
	})
	if err != nil {
		h.fail(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, complaints)
}

// Update handles PUT /api/complaints/{id}
func (h *ComplaintHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in ports.ComplaintUpdate
	if !decodeJSON(w, r, &in) {
		return
	}

	complaint, err := h.complaints.Update(r.Context(), mux.Vars(r)["id"], in)
	if err != nil {
		h.fail(w, r, err, "Complaint not found")
		return
	}
	writeJSON(w, http.StatusOK, complaint)
}

func (h *ComplaintHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.complaints.Stats(r.Context())
	if err != nil {
		h.fail(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
