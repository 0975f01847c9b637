package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hostelmess/mess-service/internal/core/domain"
)

type stubAuthenticator struct {
	admins   map[string]*domain.Admin
	students map[string]*domain.Student
	inactive map[string]bool
	err      error
}

func (s *stubAuthenticator) AuthenticateAdmin(ctx context.Context, token string) (*domain.Admin, error) {
	if s.err != nil {
		return nil, s.err
	}
	if a, ok := s.admins[token]; ok {
		return a, nil
	}
	return nil, domain.ErrUnauthorized
}

func (s *stubAuthenticator) AuthenticateStudent(ctx context.Context, token string) (*domain.Student, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.inactive[token] {
		return nil, domain.ErrInactive
	}
	if st, ok := s.students[token]; ok {
		return st, nil
	}
	return nil, domain.ErrUnauthorized
}

func newStubAuth() *stubAuthenticator {
	return &stubAuthenticator{
		admins:   map[string]*domain.Admin{"admin-token": {ID: "a1", Name: "Warden"}},
		students: map[string]*domain.Student{"student-token": {ID: "s1", RollNo: "101"}},
		inactive: map[string]bool{"inactive-token": true},
	}
}

func decodeMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body["message"]
}

func TestRequireAdmin(t *testing.T) {
	m := NewAuthMiddleware(newStubAuth(), zap.NewNop())

	var seen *domain.Admin
	h := m.RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = AdminFrom(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name    string
		header  string
		status  int
		message string
	}{
		{"no header", "", http.StatusUnauthorized, "Not authorized, no token"},
		{"wrong scheme", "Basic admin-token", http.StatusUnauthorized, "Not authorized, no token"},
		{"unknown token", "Bearer nope", http.StatusUnauthorized, "Not authorized, token failed"},
		{"student token", "Bearer student-token", http.StatusUnauthorized, "Not authorized, token failed"},
		{"admin token", "Bearer admin-token", http.StatusOK, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = nil
			req := httptest.NewRequest(http.MethodGet, "/api/students", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusOK {
				require.NotNil(t, seen)
				assert.Equal(t, "a1", seen.ID)
				return
			}
			assert.Nil(t, seen)
			assert.Equal(t, tt.message, decodeMessage(t, rec))
		})
	}
}

func TestRequireStudent(t *testing.T) {
	m := NewAuthMiddleware(newStubAuth(), zap.NewNop())

	var seen *domain.Student
	h := m.RequireStudent(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = StudentFrom(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/notifications/student", nil)
	req.Header.Set("Authorization", "Bearer inactive-token")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Your account is inactive", decodeMessage(t, rec))

	req = httptest.NewRequest(http.MethodGet, "/api/notifications/student", nil)
	req.Header.Set("Authorization", "Bearer admin-token")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Not authorized, token failed", decodeMessage(t, rec))

	req = httptest.NewRequest(http.MethodGet, "/api/notifications/student", nil)
	req.Header.Set("Authorization", "Bearer student-token")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, seen)
	assert.Equal(t, "101", seen.RollNo)
}

func TestRequireStudent_StoreFailure(t *testing.T) {
	auth := newStubAuth()
	auth.err = errors.New("db down")
	m := NewAuthMiddleware(auth, zap.NewNop())

	h := m.RequireStudent(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer student-token")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Not authorized, token failed", decodeMessage(t, rec))
}
