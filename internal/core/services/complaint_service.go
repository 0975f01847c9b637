package services

import (
	"context"
	"encoding/json"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hostelmess/mess-service/internal/core/domain"
	"github.com/hostelmess/mess-service/internal/core/ports"
)

// ComplaintService runs the complaint and suggestion workflow
type ComplaintService struct {
	complaints ports.ComplaintRepository
	log        *zap.Logger
}

var _ ports.ComplaintService = (*ComplaintService)(nil)

// NewComplaintService creates a new complaint service
func NewComplaintService(complaints ports.ComplaintRepository, log *zap.Logger) *ComplaintService {
	return &ComplaintService{complaints: complaints, log: log}
}

func outboxMessage(eventType string, payload any) (ports.OutboxMessage, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return ports.OutboxMessage{}, err
	}
	return ports.OutboxMessage{EventType: eventType, Payload: body}, nil
}

// Submit stores the complaint together with the admin alert announcing it.
func (s *ComplaintService) Submit(ctx context.Context, student *domain.Student, in ports.ComplaintInput) (*domain.Complaint, error) {
	description := strings.TrimSpace(in.Description)
	if in.Category == "" || description == "" {
		return nil, domain.NewValidationError("Category and description are required")
	}
	if !in.Category.Valid() {
		return nil, domain.NewValidationError("Invalid category")
	}
	if utf8.RuneCountInString(description) < domain.MinDescriptionLength {
		return nil, domain.NewValidationError("Description must be at least 10 characters")
	}
	if utf8.RuneCountInString(description) > domain.MaxDescriptionLength {
		return nil, domain.NewValidationError("Description must be at most 1000 characters")
	}

	kind := in.Type
	if kind == "" {
		kind = domain.TypeComplaint
	}
	if !kind.Valid() {
		return nil, domain.NewValidationError("Type must be Complaint or Suggestion")
	}

	now := time.Now()
	complaint := &domain.Complaint{
		ID:          uuid.NewString(),
		StudentID:   student.ID,
		Student:     student.Summary(),
		Type:        kind,
		Category:    in.Category,
		Description: description,
		Status:      domain.StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	alert := complaint.SubmissionAlert(student.Name)
	alert.ID = uuid.NewString()
	alert.CreatedAt = now
	alert.UpdatedAt = now

	msg, err := outboxMessage(ports.EventComplaintSubmitted, ports.ComplaintSubmittedEvent{
		ComplaintID: complaint.ID,
		StudentID:   student.ID,
		Type:        string(complaint.Type),
		Category:    string(complaint.Category),
		SubmittedAt: now,
	})
	if err != nil {
		return nil, err
	}

	if err := s.complaints.CreateWithAlert(ctx, complaint, &alert, msg); err != nil {
		return nil, err
	}
	s.log.Info("complaint submitted",
		zap.String("complaint_id", complaint.ID),
		zap.String("student_id", student.ID),
		zap.String("type", string(complaint.Type)),
	)
	return complaint, nil
}

// Mine lists the student's own complaints, newest first
func (s *ComplaintService) Mine(ctx context.Context, studentID string) ([]domain.Complaint, error) {
	return s.complaints.ListByStudent(ctx, studentID)
}

// List returns every complaint matching filter with its student summary
func (s *ComplaintService) List(ctx context.Context, filter domain.ComplaintFilter) ([]domain.Complaint, error) {
	return s.complaints.List(ctx, filter)
}

// Update applies status and response independently. An empty response clears
// the stored one. A non-empty response notifies the owning student; a
// status-only change or a cleared response does not.
func (s *ComplaintService) Update(ctx context.Context, id string, in ports.ComplaintUpdate) (*domain.Complaint, error) {
	if in.Status != "" && !in.Status.Valid() {
		return nil, domain.NewValidationError("Invalid status")
	}

	complaint, err := s.complaints.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	hadResponse := complaint.AdminResponse != ""
	if in.Status != "" {
		complaint.Status = in.Status
	}

	var response string
	if in.AdminResponse != nil {
		response = strings.TrimSpace(*in.AdminResponse)
		complaint.AdminResponse = response
	}
	complaint.UpdatedAt = now

	var (
		notification *domain.Notification
		msg          *ports.OutboxMessage
	)
	if response != "" {
		n := complaint.ResponseNotification(hadResponse, in.Status)
		n.ID = uuid.NewString()
		n.CreatedAt = now
		n.UpdatedAt = now
		notification = &n

		m, err := outboxMessage(ports.EventComplaintResponded, ports.ComplaintRespondedEvent{
			ComplaintID:    complaint.ID,
			StudentID:      complaint.StudentID,
			Status:         string(complaint.Status),
			NotificationID: n.ID,
		})
		if err != nil {
			return nil, err
		}
		msg = &m
	}

	if err := s.complaints.UpdateWithNotification(ctx, complaint, notification, msg); err != nil {
		return nil, err
	}
	if notification != nil {
		s.log.Info("complaint response sent",
			zap.String("complaint_id", complaint.ID),
			zap.String("notification_id", notification.ID),
		)
	}
	return s.complaints.FindByID(ctx, id)
}

// Stats counts complaints per status
func (s *ComplaintService) Stats(ctx context.Context) (domain.ComplaintStats, error) {
	counts, err := s.complaints.CountByStatus(ctx)
	if err != nil {
		return domain.ComplaintStats{}, err
	}
	return domain.NewComplaintStats(counts), nil
}
