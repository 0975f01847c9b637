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

// StudentService manages student accounts for admins
type StudentService struct {
	students ports.StudentRepository
	log      *zap.Logger
}

var _ ports.StudentService = (*StudentService)(nil)

// NewStudentService creates a new student service
func NewStudentService(students ports.StudentRepository, log *zap.Logger) *StudentService {
	return &StudentService{students: students, log: log}
}

func (s *StudentService) List(ctx context.Context) ([]domain.Student, error) {
	return s.students.List(ctx)
}

// Create registers a student with a hashed password and a unique roll number
func (s *StudentService) Create(ctx context.Context, in ports.StudentInput) (*domain.Student, error) {
	if len(in.Password) < minStudentPassword {
		return nil, domain.NewValidationError("Password must be at least 4 characters")
	}
	rollNo := strings.TrimSpace(in.RollNo)
	if rollNo == "" || strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.RoomNo) == "" {
		return nil, domain.NewValidationError("Name, roll no and room no are required")
	}

	if _, err := s.students.FindByRollNo(ctx, rollNo); err == nil {
		return nil, domain.NewValidationError("Student with this Roll No already exists")
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	student := &domain.Student{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(in.Name),
		RollNo:    rollNo,
		RoomNo:    strings.TrimSpace(in.RoomNo),
		Email:     strings.TrimSpace(in.Email),
		Phone:     strings.TrimSpace(in.Phone),
		Password:  hash,
		Status:    domain.StudentActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.students.Create(ctx, student); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, domain.NewValidationError("Student with this Roll No already exists")
		}
		return nil, err
	}
	s.log.Info("student created", zap.String("student_id", student.ID), zap.String("roll_no", student.RollNo))
	return student, nil
}

// Update applies the non-empty fields of in. A password below the minimum length is ignored
func (s *StudentService) Update(ctx context.Context, id string, in ports.StudentUpdate) (*domain.Student, error) {
	student, err := s.students.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != "" {
		student.Name = in.Name
	}
	if in.RoomNo != "" {
		student.RoomNo = in.RoomNo
	}
	if in.Email != "" {
		student.Email = in.Email
	}
	if in.Phone != "" {
		student.Phone = in.Phone
	}
	if in.Status != "" {
		if !in.Status.Valid() {
			return nil, domain.NewValidationError("Status must be Active or Inactive")
		}
		student.Status = in.Status
	}
	if len(in.Password) >= minStudentPassword {
		hash, err := hashPassword(in.Password)
		if err != nil {
			return nil, err
		}
		student.Password = hash
	}
	student.UpdatedAt = time.Now()

	if err := s.students.Update(ctx, student); err != nil {
		return nil, err
	}
	return student, nil
}

// Delete removes a student and everything that belongs to them
func (s *StudentService) Delete(ctx context.Context, id string) error {
	if err := s.students.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("student removed", zap.String("student_id", id))
	return nil
}
