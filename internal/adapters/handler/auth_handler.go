package handler

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/hostelmess/mess-service/internal/adapters/middleware"
	"github.com/hostelmess/mess-service/internal/core/domain"
	"github.com/hostelmess/mess-service/internal/core/ports"
)

type AuthHandler struct {
	errorResponder
	authService ports.AuthService
}

func NewAuthHandler(auth ports.AuthService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{errorResponder: errorResponder{log: log}, authService: auth}
}

type AdminLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterAdminRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password"`
}

type UpdateProfileRequest struct {
	Name  string `json:"name"`
	Email string `json:"email" validate:"omitempty,email"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type StudentLoginRequest struct {
	RollNo   string `json:"rollNo"`
	Password string `json:"password"`
}

type AdminResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
	Token string `json:"token"`
}

type StudentLoginResponse struct {
	ID     string               `json:"id"`
	Name   string               `json:"name"`
	RollNo string               `json:"rollNo"`
	RoomNo string               `json:"roomNo"`
	Email  string               `json:"email"`
	Status domain.StudentStatus `json:"status"`
	Role   domain.Role          `json:"role"`
	Token  string               `json:"token"`
}

func adminResponse(a *domain.Admin, token string) AdminResponse {
	return AdminResponse{ID: a.ID, Name: a.Name, Email: a.Email, Role: a.Role, Token: token}
}

// AdminLogin handles POST /api/admin/login
func (h *AuthHandler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	var req AdminLoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	session, err := h.authService.AdminLogin(r.Context(), req.Email, req.Password)
	if errors.Is(err, domain.ErrUnauthorized) {
		writeMessage(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	if err != nil {
		h.fail(w, r, err, "Admin not found")
		return
	}
	writeJSON(w, http.StatusOK, adminResponse(session.Admin, session.Token))
}

// RegisterAdmin handles POST /api/admin/register
func (h *AuthHandler) RegisterAdmin(w http.ResponseWriter, r *http.Request) {
	var req RegisterAdminRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	session, err := h.authService.RegisterAdmin(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		h.fail(w, r, err, "Admin not found")
		return
	}
	writeJSON(w, http.StatusCreated, adminResponse(session.Admin, session.Token))
}

// UpdateProfile echoes the caller's current token back with the updated profile.
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	admin, _ := middleware.AdminFrom(r.Context())

	var req UpdateProfileRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	updated, err := h.authService.UpdateProfile(r.Context(), admin.ID, req.Name, req.Email)
	if err != nil {
		h.fail(w, r, err, "Admin not found")
		return
	}
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	writeJSON(w, http.StatusOK, adminResponse(updated, token))
}

// ChangePassword handles PUT /api/admin/change-password
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	admin, _ := middleware.AdminFrom(r.Context())

	var req ChangePasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.authService.ChangePassword(r.Context(), admin.ID, req.CurrentPassword, req.NewPassword); err != nil {
		h.fail(w, r, err, "Admin not found")
		return
	}
	writeMessage(w, http.StatusOK, "Password updated successfully")
}

// StudentLogin handles POST /api/students/login
func (h *AuthHandler) StudentLogin(w http.ResponseWriter, r *http.Request) {
	var req StudentLoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	session, err := h.authService.StudentLogin(r.Context(), req.RollNo, req.Password)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrInactive):
		writeMessage(w, http.StatusUnauthorized, "Your account is inactive. Contact admin.")
		return
	case errors.Is(err, domain.ErrUnauthorized):
		writeMessage(w, http.StatusUnauthorized, "Invalid Roll No or password")
		return
	default:
		h.fail(w, r, err, "Student not found")
		return
	}

	s := session.Student
	writeJSON(w, http.StatusOK, StudentLoginResponse{
		ID:     s.ID,
		Name:   s.Name,
		RollNo: s.RollNo,
		RoomNo: s.RoomNo,
		Email:  s.Email,
		Status: s.Status,
		Role:   domain.RoleStudent,
		Token:  session.Token,
	})
}
