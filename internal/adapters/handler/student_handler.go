package handler

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/hostelmess/mess-service/internal/core/ports"
)

type StudentHandler struct {
	errorResponder
	students ports.StudentService
}

func NewStudentHandler(students ports.StudentService, log *zap.Logger) *StudentHandler {
	return &StudentHandler{errorResponder: errorResponder{log: log}, students: students}
}

func (h *StudentHandler) List(w http.ResponseWriter, r *http.Request) {
	students, err := h.students.List(r.Context())
	if err != nil {
		h.fail(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, students)
}

// Create handles POST /api/students
func (h *StudentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in ports.StudentInput
	if !decodeJSON(w, r, &in) {
		return
	}

	student, err := h.students.Create(r.Context(), in)
	if err != nil {
		h.fail(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusCreated, student)
}

// Update handles PUT /api/students/{id}
func (h *StudentHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in ports.StudentUpdate
	if !decodeJSON(w, r, &in) {
		return
	}

	student, err := h.students.Update(r.Context(), mux.Vars(r)["id"], in)
	if err != nil {
		h.fail(w, r, err, "Student not found")
		return
	}
	writeJSON(w, http.StatusOK, student)
}

// Delete handles DELETE /api/students/{id}
func (h *StudentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.students.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.fail(w, r, err, "Student not found")
		return
	}
	writeMessage(w, http.StatusOK, "Student removed successfully")
}
