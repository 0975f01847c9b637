package domain

import (
	"slices"
	"time"
)

const AdminInboxLimit = 50

type NotificationType string

const (
	NotificationInfo         NotificationType = "Info"
	NotificationAlert        NotificationType = "Alert"
	NotificationSpecialMeal  NotificationType = "Special Meal"
	NotificationAnnouncement NotificationType = "Announcement"
	NotificationResponse     NotificationType = "Response"
)

func (t NotificationType) Valid() bool {
	switch t {
	case NotificationInfo, NotificationAlert, NotificationSpecialMeal, NotificationAnnouncement, NotificationResponse:
		return true
	}
	return false
}

// Notification is a broadcast when StudentID is nil, personal otherwise.
type Notification struct {
	ID        string           `json:"id"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Type      NotificationType `json:"type"`
	CreatedBy *string          `json:"createdBy"`
	StudentID *string          `json:"student"`
	ExpiresAt *time.Time       `json:"expiresAt"`
	ReadBy    []string         `json:"readBy"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

func (n *Notification) IsActive(now time.Time) bool {
	return n.ExpiresAt == nil || now.Before(*n.ExpiresAt)
}

func (n *Notification) IsPersonal() bool {
	return n.StudentID != nil
}

func (n *Notification) VisibleTo(studentID string, now time.Time) bool {
	if !n.IsActive(now) {
		return false
	}
	return n.StudentID == nil || *n.StudentID == studentID
}

func (n *Notification) ReadByStudent(studentID string) bool {
	return slices.Contains(n.ReadBy, studentID)
}

// MarkRead adds studentID to ReadBy once.
func (n *Notification) MarkRead(studentID string) {
	if !n.ReadByStudent(studentID) {
		n.ReadBy = append(n.ReadBy, studentID)
	}
}

// StudentNotification is the per-student projection of a visible notification.
type StudentNotification struct {
	ID         string           `json:"id"`
	Title      string           `json:"title"`
	Message    string           `json:"message"`
	Type       NotificationType `json:"type"`
	CreatedAt  time.Time        `json:"createdAt"`
	ExpiresAt  *time.Time       `json:"expiresAt"`
	IsPersonal bool             `json:"isPersonal"`
	IsRead     bool             `json:"isRead"`
}

func (n *Notification) ForStudent(studentID string) StudentNotification {
	return StudentNotification{
		ID:         n.ID,
		Title:      n.Title,
		Message:    n.Message,
		Type:       n.Type,
		CreatedAt:  n.CreatedAt,
		ExpiresAt:  n.ExpiresAt,
		IsPersonal: n.IsPersonal(),
		IsRead:     n.ReadByStudent(studentID),
	}
}

// AdminNotificationView adds the derived read count and active flag for the admin list.
type AdminNotificationView struct {
	Notification
	ReadCount int  `json:"readCount"`
	IsActive  bool `json:"isActive"`
}

type AlertType string

const (
	AlertComplaint  AlertType = "complaint"
	AlertSuggestion AlertType = "suggestion"
	AlertInfo       AlertType = "info"
	AlertWarning    AlertType = "warning"
)

type RefKind string

const (
	RefComplaint  RefKind = "complaint"
	RefSuggestion RefKind = "suggestion"
)

// AdminNotificationRef points back at the record that raised the alert.
type AdminNotificationRef struct {
	Kind RefKind `json:"kind"`
	ID   string  `json:"id"`
}

// AdminNotification is the single shared admin mailbox; Read is global, not per admin.
type AdminNotification struct {
	ID        string                `json:"id"`
	Title     string                `json:"title"`
	Body      string                `json:"body"`
	Type      AlertType             `json:"type"`
	Ref       *AdminNotificationRef `json:"ref"`
	Read      bool                  `json:"read"`
	CreatedAt time.Time             `json:"createdAt"`
	UpdatedAt time.Time             `json:"updatedAt"`
}
