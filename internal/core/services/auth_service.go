package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hostelmess/mess-service/internal/core/domain"
	"github.com/hostelmess/mess-service/internal/core/ports"
)

// AuthService issues and verifies sessions for admins and students
type AuthService struct {
	admins   ports.AdminRepository
	students ports.StudentRepository
	tokens   *TokenManager
	log      *zap.Logger
}

var (
	_ ports.AuthService   = (*AuthService)(nil)
	_ ports.Authenticator = (*AuthService)(nil)
)

// NewAuthService creates a new auth service
func NewAuthService(
	admins ports.AdminRepository,
	students ports.StudentRepository,
	tokens *TokenManager,
	log *zap.Logger,
) *AuthService {
	return &AuthService{
		admins:   admins,
		students: students,
		tokens:   tokens,
		log:      log,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// AdminLogin checks admin credentials and returns a signed session
func (s *AuthService) AdminLogin(ctx context.Context, email, password string) (*ports.AdminSession, error) {
	if email == "" || password == "" {
		return nil, domain.NewValidationError("Please provide email and password")
	}

	admin, err := s.admins.FindByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}
	if !checkPassword(admin.Password, password) {
		return nil, domain.ErrUnauthorized
	}

	token, err := s.tokens.Issue(admin.ID, domain.RoleAdmin)
	if err != nil {
		return nil, err
	}
	return &ports.AdminSession{Admin: admin, Token: token}, nil
}

// RegisterAdmin creates an admin account and logs it in
func (s *AuthService) RegisterAdmin(ctx context.Context, name, email, password string) (*ports.AdminSession, error) {
	email = normalizeEmail(email)
	if strings.TrimSpace(name) == "" || email == "" || password == "" {
		return nil, domain.NewValidationError("Name, email and password are required")
	}

	_, err := s.admins.FindByEmail(ctx, email)
	if err == nil {
		return nil, domain.NewValidationError("Admin already exists")
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	admin := &domain.Admin{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(name),
		Email:     email,
		Password:  hash,
		Role:      string(domain.RoleAdmin),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.admins.Create(ctx, admin); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, domain.NewValidationError("Admin already exists")
		}
		return nil, err
	}
	s.log.Info("admin registered", zap.String("admin_id", admin.ID), zap.String("email", admin.Email))

	token, err := s.tokens.Issue(admin.ID, domain.RoleAdmin)
	if err != nil {
		return nil, err
	}
	return &ports.AdminSession{Admin: admin, Token: token}, nil
}

// UpdateProfile changes an admin's name and email
func (s *AuthService) UpdateProfile(ctx context.Context, adminID, name, email string) (*domain.Admin, error) {
	admin, err := s.admins.FindByID(ctx, adminID)
	if err != nil {
		return nil, err
	}

	if n := strings.TrimSpace(name); n != "" {
		admin.Name = n
	}
	if e := normalizeEmail(email); e != "" {
		admin.Email = e
	}
	admin.UpdatedAt = time.Now()

	if err := s.admins.Update(ctx, admin); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, domain.NewValidationError("Email already in use")
		}
		return nil, err
	}
	return admin, nil
}

// ChangePassword replaces the admin password after verifying the current one
func (s *AuthService) ChangePassword(ctx context.Context, adminID, currentPassword, newPassword string) error {
	if newPassword == "" {
		return domain.NewValidationError("New password is required")
	}

	admin, err := s.admins.FindByID(ctx, adminID)
	if err != nil {
		return err
	}
	if !checkPassword(admin.Password, currentPassword) {
		return domain.NewValidationError("Current password is incorrect")
	}

	hash, err := hashPassword(newPassword)
	if err != nil {
		return err
	}
	admin.Password = hash
	admin.UpdatedAt = time.Now()
	return s.admins.Update(ctx, admin)
}

// StudentLogin checks roll number and password; inactive students are refused
func (s *AuthService) StudentLogin(ctx context.Context, rollNo, password string) (*ports.StudentSession, error) {
	if rollNo == "" || password == "" {
		return nil, domain.NewValidationError("Please provide Roll No and password")
	}

	student, err := s.students.FindByRollNo(ctx, strings.TrimSpace(rollNo))
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}
	if !student.IsActive() {
		return nil, domain.ErrInactive
	}
	if !checkPassword(student.Password, password) {
		return nil, domain.ErrUnauthorized
	}

	token, err := s.tokens.Issue(student.ID, domain.RoleStudent)
	if err != nil {
		return nil, err
	}
	return &ports.StudentSession{Student: student, Token: token}, nil
}

// AuthenticateAdmin resolves an admin bearer token to the stored admin
func (s *AuthService) AuthenticateAdmin(ctx context.Context, token string) (*domain.Admin, error) {
	id, err := s.tokens.Verify(token, domain.RoleAdmin)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}

	admin, err := s.admins.FindByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrUnauthorized
	}
	return admin, err
}

// AuthenticateStudent resolves a student bearer token to the stored student
func (s *AuthService) AuthenticateStudent(ctx context.Context, token string) (*domain.Student, error) {
	id, err := s.tokens.Verify(token, domain.RoleStudent)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}

	student, err := s.students.FindByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}
	if !student.IsActive() {
		return nil, domain.ErrInactive
	}
	return student, nil
}
