package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hostelmess/mess-service/internal/core/domain"
	"github.com/hostelmess/mess-service/internal/core/ports"
)

func addStudent(t *testing.T, store *ports.Store, id, rollNo string) *domain.Student {
	t.Helper()
	s := &domain.Student{ID: id, Name: "Student " + rollNo, RollNo: rollNo, RoomNo: "A-1", Status: domain.StudentActive}
	require.NoError(t, store.Students.Create(context.Background(), s))
	return s
}

func TestStudentRepository_DuplicateRollNo(t *testing.T) {
	store, _ := NewStore()
	addStudent(t, store, "s1", "101")

	err := store.Students.Create(context.Background(), &domain.Student{ID: "s2", RollNo: "101"})

	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestStudentRepository_DeleteRemovesOwnedRecords(t *testing.T) {
	ctx := context.Background()
	store, _ := NewStore()
	addStudent(t, store, "s1", "101")
	addStudent(t, store, "s2", "102")

	require.NoError(t, store.Feedback.Upsert(ctx, &domain.Feedback{ID: "f1", StudentID: "s1", Day: domain.Monday, MealType: domain.Lunch, Rating: 4}))
	require.NoError(t, store.Payments.Create(ctx, &domain.Payment{ID: "p1", StudentID: "s1"}))
	s1 := "s1"
	require.NoError(t, store.Notifications.Create(ctx, &domain.Notification{ID: "n1", StudentID: &s1}, ports.OutboxMessage{}))
	require.NoError(t, store.Notifications.Create(ctx, &domain.Notification{ID: "n2", ReadBy: []string{"s1", "s2"}}, ports.OutboxMessage{}))

	require.NoError(t, store.Students.Delete(ctx, "s1"))

	mine, err := store.Feedback.ListByStudent(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, mine)

	payments, err := store.Payments.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, payments)

	all, err := store.Notifications.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, []string{"s2"}, all[0].ReadBy)

	assert.ErrorIs(t, store.Students.Delete(ctx, "s1"), domain.ErrNotFound)
}

func TestGroceryRepository_AddStockConcurrent(t *testing.T) {
	ctx := context.Background()
	store, _ := NewStore()
	at := time.Now()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Groceries.AddStock(ctx, domain.StockDelta{ItemName: "Rice", Quantity: 2, Unit: "kg", MinStockLevel: 5}, at)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	items, err := store.Groceries.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 100.0, items[0].CurrentStock)
	assert.Equal(t, "kg", items[0].Unit)
}

func TestGroceryRepository_ListLow(t *testing.T) {
	ctx := context.Background()
	store, _ := NewStore()
	at := time.Now()

	_, err := store.Groceries.AddStock(ctx, domain.StockDelta{ItemName: "Salt", Quantity: 1, Unit: "kg", MinStockLevel: 5}, at)
	require.NoError(t, err)
	_, err = store.Groceries.AddStock(ctx, domain.StockDelta{ItemName: "Rice", Quantity: 50, Unit: "kg", MinStockLevel: 5}, at)
	require.NoError(t, err)

	low, err := store.Groceries.ListLow(ctx)
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, "Salt", low[0].ItemName)
}

func TestMenuRepository_UpsertKeepsOneEntryPerSlot(t *testing.T) {
	ctx := context.Background()
	store, _ := NewStore()

	first := &domain.Menu{ID: "m1", Day: domain.Tuesday, MealType: domain.Dinner, FoodItems: "Roti"}
	require.NoError(t, store.Menus.Upsert(ctx, first))
	require.NoError(t, store.Menus.Upsert(ctx, &domain.Menu{ID: "m0", Day: domain.Monday, MealType: domain.Lunch, FoodItems: "Rice"}))

	second := &domain.Menu{ID: "m2", Day: domain.Tuesday, MealType: domain.Dinner, FoodItems: "Naan"}
	require.NoError(t, store.Menus.Upsert(ctx, second))
	assert.Equal(t, "m1", second.ID)

	menus, err := store.Menus.List(ctx)
	require.NoError(t, err)
	require.Len(t, menus, 2)
	assert.Equal(t, domain.Monday, menus[0].Day)
	assert.Equal(t, "Naan", menus[1].FoodItems)
}

func TestFeedbackRepository_UpsertIsUniquePerMeal(t *testing.T) {
	ctx := context.Background()
	store, _ := NewStore()
	addStudent(t, store, "s1", "101")

	require.NoError(t, store.Feedback.Upsert(ctx, &domain.Feedback{ID: "f1", StudentID: "s1", Day: domain.Friday, MealType: domain.Lunch, Rating: 2}))
	again := &domain.Feedback{ID: "f2", StudentID: "s1", Day: domain.Friday, MealType: domain.Lunch, Rating: 5, Comment: "better"}
	require.NoError(t, store.Feedback.Upsert(ctx, again))

	all, err := store.Feedback.List(ctx, domain.FeedbackFilter{})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "f1", again.ID)
	assert.Equal(t, 5, all[0].Rating)
	assert.Equal(t, "better", all[0].Comment)
	require.NotNil(t, all[0].Student)
	assert.Equal(t, "101", all[0].Student.RollNo)
}

func TestRatingRepository_FindSince(t *testing.T) {
	ctx := context.Background()
	store, _ := NewStore()
	yesterday := time.Date(2024, 3, 3, 20, 0, 0, 0, time.UTC)

	require.NoError(t, store.Ratings.Create(ctx, &domain.MealRating{
		ID: "r1", StudentID: "s1", Day: domain.Sunday, MealType: domain.Dinner, Rating: 3, Date: yesterday, CreatedAt: yesterday,
	}))

	_, err := store.Ratings.FindSince(ctx, "s1", domain.Sunday, domain.Dinner, time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC))
	assert.ErrorIs(t, err, domain.ErrNotFound)

	found, err := store.Ratings.FindSince(ctx, "s1", domain.Sunday, domain.Dinner, time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "r1", found.ID)
}

func TestComplaintRepository_CreateWithAlertRecordsOutbox(t *testing.T) {
	ctx := context.Background()
	store, db := NewStore()
	addStudent(t, store, "s1", "101")

	complaint := &domain.Complaint{ID: "c1", StudentID: "s1", Type: domain.TypeComplaint, Category: domain.CategoryFood, Status: domain.StatusPending}
	alert := complaint.SubmissionAlert("Student 101")
	alert.ID = "a1"
	msg := ports.OutboxMessage{EventType: ports.EventComplaintSubmitted, Payload: []byte(`{}`)}
	require.NoError(t, store.Complaints.CreateWithAlert(ctx, complaint, &alert, msg))

	alerts, err := store.AdminNotifications.List(ctx, domain.AdminInboxLimit)
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	assert.Equal(t, "c1", alerts[0].Ref.ID)

	require.Len(t, db.Outbox(), 1)
	assert.Equal(t, ports.EventComplaintSubmitted, db.Outbox()[0].EventType)

	stats, err := store.Complaints.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats[domain.StatusPending])
}

func TestComplaintRepository_UpdateWithoutNotification(t *testing.T) {
	ctx := context.Background()
	store, db := NewStore()
	complaint := &domain.Complaint{ID: "c1", StudentID: "s1", Status: domain.StatusPending}
	alert := domain.AdminNotification{ID: "a1"}
	require.NoError(t, store.Complaints.CreateWithAlert(ctx, complaint, &alert, ports.OutboxMessage{}))

	complaint.Status = domain.StatusResolved
	require.NoError(t, store.Complaints.UpdateWithNotification(ctx, complaint, nil, nil))

	stored, err := store.Complaints.FindByID(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusResolved, stored.Status)

	all, err := store.Notifications.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
	assert.Len(t, db.Outbox(), 1)

	_, err = store.Complaints.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestNotificationRepository_ReadTracking(t *testing.T) {
	ctx := context.Background()
	store, _ := NewStore()
	now := time.Now()
	past := now.Add(-time.Hour)
	s1, s2 := "s1", "s2"

	require.NoError(t, store.Notifications.Create(ctx, &domain.Notification{ID: "broadcast"}, ports.OutboxMessage{}))
	require.NoError(t, store.Notifications.Create(ctx, &domain.Notification{ID: "mine", StudentID: &s1}, ports.OutboxMessage{}))
	require.NoError(t, store.Notifications.Create(ctx, &domain.Notification{ID: "theirs", StudentID: &s2}, ports.OutboxMessage{}))
	require.NoError(t, store.Notifications.Create(ctx, &domain.Notification{ID: "expired", ExpiresAt: &past}, ports.OutboxMessage{}))

	visible, err := store.Notifications.ListVisible(ctx, s1, now)
	require.NoError(t, err)
	require.Len(t, visible, 2)
	assert.Equal(t, "mine", visible[0].ID)

	count, err := store.Notifications.CountUnread(ctx, s1, now)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	require.NoError(t, store.Notifications.MarkRead(ctx, "broadcast", s1))
	require.NoError(t, store.Notifications.MarkRead(ctx, "broadcast", s1))
	n, err := store.Notifications.FindByID(ctx, "broadcast")
	require.NoError(t, err)
	assert.Equal(t, []string{s1}, n.ReadBy)

	assert.ErrorIs(t, store.Notifications.MarkRead(ctx, "nope", s1), domain.ErrNotFound)

	require.NoError(t, store.Notifications.MarkAllRead(ctx, s1, now))
	count, err = store.Notifications.CountUnread(ctx, s1, now)
	require.NoError(t, err)
	assert.Zero(t, count)

	expired, err := store.Notifications.FindByID(ctx, "expired")
	require.NoError(t, err)
	assert.Empty(t, expired.ReadBy, "mark-all-read only touches visible notifications")
}

func TestAdminNotificationRepository(t *testing.T) {
	ctx := context.Background()
	store, _ := NewStore()
	for _, id := range []string{"a1", "a2", "a3"} {
		c := &domain.Complaint{ID: "c-" + id}
		alert := domain.AdminNotification{ID: id}
		require.NoError(t, store.Complaints.CreateWithAlert(ctx, c, &alert, ports.OutboxMessage{}))
	}

	list, err := store.AdminNotifications.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "a3", list[0].ID)

	require.NoError(t, store.AdminNotifications.MarkRead(ctx, "a1"))
	unread, err := store.AdminNotifications.CountUnread(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, unread)

	require.NoError(t, store.AdminNotifications.MarkAllRead(ctx))
	unread, err = store.AdminNotifications.CountUnread(ctx)
	require.NoError(t, err)
	assert.Zero(t, unread)

	require.NoError(t, store.AdminNotifications.Delete(ctx, "a2"))
	assert.ErrorIs(t, store.AdminNotifications.Delete(ctx, "a2"), domain.ErrNotFound)
	assert.ErrorIs(t, store.AdminNotifications.MarkRead(ctx, "a2"), domain.ErrNotFound)
}
