package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/hostelmess/mess-service/internal/core/domain"
	"github.com/hostelmess/mess-service/internal/core/ports"
)

type AuthMiddleware struct {
	auth ports.Authenticator
	log  *zap.Logger
}

func NewAuthMiddleware(auth ports.Authenticator, log *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{auth: auth, log: log}
}

type contextKey string

const (
	adminKey   contextKey = "admin"
	studentKey contextKey = "student"
)

func AdminFrom(ctx context.Context) (*domain.Admin, bool) {
	a, ok := ctx.Value(adminKey).(*domain.Admin)
	return a, ok
}

func StudentFrom(ctx context.Context) (*domain.Student, bool) {
	s, ok := ctx.Value(studentKey).(*domain.Student)
	return s, ok
}

func WithAdmin(ctx context.Context, admin *domain.Admin) context.Context {
	return context.WithValue(ctx, adminKey, admin)
}

func WithStudent(ctx context.Context, student *domain.Student) context.Context {
	return context.WithValue(ctx, studentKey, student)
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": message})
}

// bearerToken returns the token of an "Authorization: Bearer <token>" header.
func bearerToken(r *http.Request) (string, bool) {
	parts := strings.Fields(r.Header.Get("Authorization"))
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	return parts[1], true
}

func (m *AuthMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			unauthorized(w, "Not authorized, no token")
			return
		}

		admin, err := m.auth.AuthenticateAdmin(r.Context(), token)
		if err != nil {
			if !errors.Is(err, domain.ErrUnauthorized) {
				m.log.Error("admin authentication failed", zap.Error(err))
			}
			unauthorized(w, "Not authorized, token failed")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithAdmin(r.Context(), admin)))
	})
}

func (m *AuthMiddleware) RequireStudent(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			unauthorized(w, "Not authorized, no token")
			return
		}

		student, err := m.auth.AuthenticateStudent(r.Context(), token)
		switch {
		case err == nil:
		case errors.Is(err, domain.ErrInactive):
			unauthorized(w, "Your account is inactive")
			return
		default:
			if !errors.Is(err, domain.ErrUnauthorized) {
				m.log.Error("student authentication failed", zap.Error(err))
			}
			unauthorized(w, "Not authorized, token failed")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithStudent(r.Context(), student)))
	})
}
