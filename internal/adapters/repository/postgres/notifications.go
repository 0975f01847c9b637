package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/hostelmess/mess-service/internal/core/domain"
	"github.com/hostelmess/mess-service/internal/core/ports"
)

type NotificationRepository struct {
	db *sqlx.DB
}

var _ ports.NotificationRepository = (*NotificationRepository)(nil)

type notificationRow struct {
	ID        string         `db:"id"`
	Title     string         `db:"title"`
	Message   string         `db:"message"`
	Type      string         `db:"type"`
	CreatedBy *string        `db:"created_by"`
	StudentID *string        `db:"student_id"`
	ExpiresAt *time.Time     `db:"expires_at"`
	ReadBy    pq.StringArray `db:"read_by"`
	CreatedAt time.Time      `db:"created_at"`
	UpdatedAt time.Time      `db:"updated_at"`
}

func (row notificationRow) toDomain() domain.Notification {
	readBy := []string(row.ReadBy)
	if readBy == nil {
		readBy = []string{}
	}
	return domain.Notification{
		ID:        row.ID,
		Title:     row.Title,
		Message:   row.Message,
		Type:      domain.NotificationType(row.Type),
		CreatedBy: row.CreatedBy,
		StudentID: row.StudentID,
		ExpiresAt: row.ExpiresAt,
		ReadBy:    readBy,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

const notificationSelect = `
	SELECT n.id, n.title, n.message, n.type, n.created_by, n.student_id, n.expires_at,
	       n.created_at, n.updated_at,
	       COALESCE(array_agg(r.student_id::text ORDER BY r.read_at) FILTER (WHERE r.student_id IS NOT NULL), '{}') AS read_by
	FROM notifications n
	LEFT JOIN notification_reads r ON r.notification_id = n.id`

const visibleTo = `(n.student_id IS NULL OR n.student_id = $1) AND (n.expires_at IS NULL OR n.expires_at > $2)`

func insertNotification(ctx context.Context, tx *sqlx.Tx, n *domain.Notification) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO notifications (id, title, message, type, created_by, student_id, expires_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		n.ID, n.Title, n.Message, n.Type, n.CreatedBy, n.StudentID, n.ExpiresAt, n.CreatedAt, n.UpdatedAt,
	)
	return translate(err, "insert notification")
}

func (r *NotificationRepository) Create(ctx context.Context, notification *domain.Notification, msg ports.OutboxMessage) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := insertNotification(ctx, tx, notification); err != nil {
			return err
		}
		return insertOutbox(ctx, tx, msg)
	})
}

func (r *NotificationRepository) query(ctx context.Context, where string, args ...any) ([]domain.Notification, error) {
	rows := []notificationRow{}
	q := notificationSelect + where + ` GROUP BY n.id ORDER BY n.created_at DESC`
	if err := r.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, translate(err, "list notifications")
	}

	out := make([]domain.Notification, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *NotificationRepository) FindByID(ctx context.Context, id string) (*domain.Notification, error) {
	found, err := r.query(ctx, ` WHERE n.id = $1`, id)
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, domain.ErrNotFound
	}
	return &found[0], nil
}

func (r *NotificationRepository) ListAll(ctx context.Context) ([]domain.Notification, error) {
	return r.query(ctx, "")
}

func (r *NotificationRepository) Update(ctx context.Context, n *domain.Notification) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE notifications
		SET title = $2, message = $3, type = $4, expires_at = $5, updated_at = $6
		WHERE id = $1`,
		n.ID, n.Title, n.Message, n.Type, n.ExpiresAt, n.UpdatedAt,
	)
	return expectRow(res, err, "update notification")
}

func (r *NotificationRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM notifications WHERE id = $1`, id)
	return expectRow(res, err, "delete notification")
}

func (r *NotificationRepository) ListVisible(ctx context.Context, studentID string, now time.Time) ([]domain.Notification, error) {
	return r.query(ctx, ` WHERE `+visibleTo, studentID, now)
}

func (r *NotificationRepository) CountUnread(ctx context.Context, studentID string, now time.Time) (int, error) {
	var n int
	err := r.db.GetContext(ctx, &n, `
		SELECT COUNT(*) FROM notifications n
		WHERE `+visibleTo+`
		  AND NOT EXISTS (
		      SELECT 1 FROM notification_reads r
		      WHERE r.notification_id = n.id AND r.student_id = $1
		  )`, studentID, now)
	if err != nil {
		return 0, translate(err, "count unread notifications")
	}
	return n, nil
}

// MarkRead is a set insertion; repeating it leaves a single read row.
func (r *NotificationRepository) MarkRead(ctx context.Context, id, studentID string) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var exists bool
		if err := tx.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM notifications WHERE id = $1)`, id); err != nil {
			return translate(err, "find notification")
		}
		if !exists {
			return domain.ErrNotFound
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO notification_reads (notification_id, student_id, read_at)
			VALUES ($1, $2, NOW())
			ON CONFLICT (notification_id, student_id) DO NOTHING`, id, studentID)
		return translate(err, "mark notification read")
	})
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, studentID string, now time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO notification_reads (notification_id, student_id, read_at)
		SELECT n.id, $1, NOW() FROM notifications n
		WHERE `+visibleTo+`
		ON CONFLICT (notification_id, student_id) DO NOTHING`, studentID, now)
	return translate(err, "mark all notifications read")
}

type AdminNotificationRepository struct {
	db *sqlx.DB
}

var _ ports.AdminNotificationRepository = (*AdminNotificationRepository)(nil)

type alertRow struct {
	ID        string         `db:"id"`
	Title     string         `db:"title"`
	Body      string         `db:"body"`
	Type      string         `db:"type"`
	RefKind   sql.NullString `db:"ref_kind"`
	RefID     sql.NullString `db:"ref_id"`
	Read      bool           `db:"read"`
	CreatedAt time.Time      `db:"created_at"`
	UpdatedAt time.Time      `db:"updated_at"`
}

func (row alertRow) toDomain() domain.AdminNotification {
	a := domain.AdminNotification{
		ID:        row.ID,
		Title:     row.Title,
		Body:      row.Body,
		Type:      domain.AlertType(row.Type),
		Read:      row.Read,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
	if row.RefKind.Valid && row.RefID.Valid {
		a.Ref = &domain.AdminNotificationRef{Kind: domain.RefKind(row.RefKind.String), ID: row.RefID.String}
	}
	return a
}

func insertAlert(ctx context.Context, tx *sqlx.Tx, a *domain.AdminNotification) error {
	var kind, ref sql.NullString
	if a.Ref != nil {
		kind = sql.NullString{String: string(a.Ref.Kind), Valid: true}
		ref = sql.NullString{String: a.Ref.ID, Valid: true}
	}
	_, err := tx.ExecContext(ctx, `
		INSERT INTO admin_notifications (id, title, body, type, ref_kind, ref_id, read, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		a.ID, a.Title, a.Body, a.Type, kind, ref, a.Read, a.CreatedAt, a.UpdatedAt,
	)
	return translate(err, "insert admin notification")
}

func (r *AdminNotificationRepository) List(ctx context.Context, limit int) ([]domain.AdminNotification, error) {
	rows := []alertRow{}
	err := r.db.SelectContext(ctx, &rows, `
		SELECT id, title, body, type, ref_kind, ref_id, read, created_at, updated_at
		FROM admin_notifications
		ORDER BY created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, translate(err, "list admin notifications")
	}

	out := make([]domain.AdminNotification, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *AdminNotificationRepository) CountUnread(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM admin_notifications WHERE NOT read`); err != nil {
		return 0, translate(err, "count unread admin notifications")
	}
	return n, nil
}

func (r *AdminNotificationRepository) MarkRead(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE admin_notifications SET read = TRUE, updated_at = NOW() WHERE id = $1`, id)
	return expectRow(res, err, "mark admin notification read")
}

func (r *AdminNotificationRepository) MarkAllRead(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `UPDATE admin_notifications SET read = TRUE, updated_at = NOW() WHERE NOT read`)
	return translate(err, "mark all admin notifications read")
}

func (r *AdminNotificationRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM admin_notifications WHERE id = $1`, id)
	return expectRow(res, err, "delete admin notification")
}
