package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	MinDescriptionLength = 10
	MaxDescriptionLength = 1000
	alertBodyPreview     = 120
)

type ComplaintType string

const (
	TypeComplaint  ComplaintType = "Complaint"
	TypeSuggestion ComplaintType = "Suggestion"
)

func (t ComplaintType) Valid() bool {
	return t == TypeComplaint || t == TypeSuggestion
}

type ComplaintCategory string

const (
	CategoryFood        ComplaintCategory = "Food"
	CategoryCleanliness ComplaintCategory = "Cleanliness"
	CategoryMaintenance ComplaintCategory = "Maintenance"
	CategoryOther       ComplaintCategory = "Other"
)

func (c ComplaintCategory) Valid() bool {
	switch c {
	case CategoryFood, CategoryCleanliness, CategoryMaintenance, CategoryOther:
		return true
	}
	return false
}

type ComplaintStatus string

const (
	StatusPending    ComplaintStatus = "Pending"
	StatusInProgress ComplaintStatus = "In Progress"
	StatusResolved   ComplaintStatus = "Resolved"
)

// Transitions between statuses are unconstrained.
func (s ComplaintStatus) Valid() bool {
	return s == StatusPending || s == StatusInProgress || s == StatusResolved
}

type Complaint struct {
	ID            string            `json:"id" db:"id"`
	StudentID     string            `json:"studentId" db:"student_id"`
	Student       *StudentSummary   `json:"student,omitempty" db:"-"`
	Type          ComplaintType     `json:"type" db:"type"`
	Category      ComplaintCategory `json:"category" db:"category"`
	Description   string            `json:"description" db:"description"`
	Status        ComplaintStatus   `json:"status" db:"status"`
	AdminResponse string            `json:"adminResponse" db:"admin_response"`
	AttachmentURL string            `json:"attachmentUrl" db:"attachment_url"`
	CreatedAt     time.Time         `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time         `json:"updatedAt" db:"updated_at"`
}

type ComplaintFilter struct {
	Status   ComplaintStatus
	Category ComplaintCategory
	Type     ComplaintType
}

func (f ComplaintFilter) Match(c *Complaint) bool {
	if f.Status != "" && c.Status != f.Status {
		return false
	}
	if f.Category != "" && c.Category != f.Category {
		return false
	}
	if f.Type != "" && c.Type != f.Type {
		return false
	}
	return true
}

// SubmissionAlert builds the admin bell entry for a freshly submitted complaint.
func (c *Complaint) SubmissionAlert(submitter string) AdminNotification {
	body := c.Description
	if utf8.RuneCountInString(body) > alertBodyPreview {
		body = string([]rune(body)[:alertBodyPreview]) + "..."
	}

	kind := RefComplaint
	alertType := AlertComplaint
	if c.Type == TypeSuggestion {
		kind = RefSuggestion
		alertType = AlertSuggestion
	}

	return AdminNotification{
		Title: fmt.Sprintf("New %s from %s", c.Type, submitter),
		Body:  fmt.Sprintf("[%s] %s", c.Category, body),
		Type:  alertType,
		Ref:   &AdminNotificationRef{Kind: kind, ID: c.ID},
	}
}

// ResponseNotification builds the personal notice sent to the owner when an
// admin responds. requestedStatus is the status supplied alongside the
// response, if any.
func (c *Complaint) ResponseNotification(hadResponse bool, requestedStatus ComplaintStatus) Notification {
	title := fmt.Sprintf("Admin responded to your %s", c.Type)
	if hadResponse {
		title = fmt.Sprintf("Response updated on your %s", c.Type)
	}

	status := string(requestedStatus)
	if status == "" {
		status = strings.ToLower(string(c.Status))
	}

	studentID := c.StudentID
	return Notification{
		Title:     title,
		Message:   fmt.Sprintf("Your %s (%s) has been %s.\n\n\"%s\"", strings.ToLower(string(c.Type)), c.Category, status, c.AdminResponse),
		Type:      NotificationResponse,
		StudentID: &studentID,
	}
}

type ComplaintStats struct {
	Pending    int `json:"Pending"`
	InProgress int `json:"In Progress"`
	Resolved   int `json:"Resolved"`
	Total      int `json:"total"`
}

func NewComplaintStats(counts map[ComplaintStatus]int) ComplaintStats {
	stats := ComplaintStats{
		Pending:    counts[StatusPending],
		InProgress: counts[StatusInProgress],
		Resolved:   counts[StatusResolved],
	}
	for _, n := range counts {
		stats.Total += n
	}
	return stats
}
