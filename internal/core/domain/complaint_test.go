package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewComplaintStats(t *testing.T) {
	stats := NewComplaintStats(map[ComplaintStatus]int{StatusPending: 2, StatusResolved: 1})

	assert.Equal(t, ComplaintStats{Pending: 2, InProgress: 0, Resolved: 1, Total: 3}, stats)
	assert.Equal(t, ComplaintStats{}, NewComplaintStats(nil))
}

func TestComplaint_SubmissionAlert(t *testing.T) {
	c := &Complaint{ID: "c1", Type: TypeComplaint, Category: CategoryFood, Description: "The rice was cold today"}

	alert := c.SubmissionAlert("John Doe")

	assert.Equal(t, "New Complaint from John Doe", alert.Title)
	assert.Equal(t, "[Food] The rice was cold today", alert.Body)
	assert.Equal(t, AlertComplaint, alert.Type)
	require.NotNil(t, alert.Ref)
	assert.Equal(t, AdminNotificationRef{Kind: RefComplaint, ID: "c1"}, *alert.Ref)
}

func TestComplaint_SubmissionAlertTruncatesLongDescriptions(t *testing.T) {
	c := &Complaint{ID: "c2", Type: TypeSuggestion, Category: CategoryOther, Description: strings.Repeat("a", 130)}

	alert := c.SubmissionAlert("Jane")

	assert.Equal(t, "[Other] "+strings.Repeat("a", 120)+"...", alert.Body)
	assert.Equal(t, AlertSuggestion, alert.Type)
	assert.Equal(t, RefSuggestion, alert.Ref.Kind)
}

func TestComplaint_SubmissionAlertKeepsExactly120(t *testing.T) {
	c := &Complaint{Type: TypeComplaint, Category: CategoryFood, Description: strings.Repeat("b", 120)}

	assert.Equal(t, "[Food] "+strings.Repeat("b", 120), c.SubmissionAlert("x").Body)
}

func TestComplaint_ResponseNotification(t *testing.T) {
	c := &Complaint{
		StudentID:     "s1",
		Type:          TypeComplaint,
		Category:      CategoryCleanliness,
		Status:        StatusInProgress,
		AdminResponse: "We will clean it",
	}

	first := c.ResponseNotification(false, StatusResolved)
	assert.Equal(t, "Admin responded to your Complaint", first.Title)
	assert.Equal(t, "Your complaint (Cleanliness) has been Resolved.\n\n\"We will clean it\"", first.Message)
	assert.Equal(t, NotificationResponse, first.Type)
	require.NotNil(t, first.StudentID)
	assert.Equal(t, "s1", *first.StudentID)
	assert.Nil(t, first.ExpiresAt)

	again := c.ResponseNotification(true, "")
	assert.Equal(t, "Response updated on your Complaint", again.Title)
	assert.Contains(t, again.Message, "has been in progress.")
}

func TestComplaintFilter_Match(t *testing.T) {
	c := &Complaint{Status: StatusPending, Category: CategoryFood, Type: TypeComplaint}

	assert.True(t, ComplaintFilter{}.Match(c))
	assert.True(t, ComplaintFilter{Status: StatusPending, Category: CategoryFood}.Match(c))
	assert.False(t, ComplaintFilter{Type: TypeSuggestion}.Match(c))
}
