// Package postgres implements the repository ports on PostgreSQL via sqlx.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"

	"github.com/hostelmess/mess-service/internal/core/domain"
	"github.com/hostelmess/mess-service/internal/core/ports"
)

//go:embed migrations/*.sql
var migrations embed.FS

const pingAttempts = 30

// Open connects and waits for the database to accept connections,
// backing off 100ms more between each attempt.
func Open(ctx context.Context, dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}

	for attempt := 1; attempt <= pingAttempts; attempt++ {
		if err = db.PingContext(ctx); err == nil {
			return db, nil
		}
		select {
		case <-ctx.Done():
			_ = db.Close()
			return nil, ctx.Err()
		case <-time.After(time.Duration(attempt) * 100 * time.Millisecond):
		}
	}
	_ = db.Close()
	return nil, errors.Wrap(err, "database ping timeout")
}

// Migrate runs a goose command ("up", "down", "status", ...) against the embedded migrations.
func Migrate(ctx context.Context, db *sql.DB, command string, args ...string) error {
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return errors.Wrap(err, "setting migration dialect")
	}
	if err := goose.RunContext(ctx, command, db, "migrations", args...); err != nil {
		return errors.Wrapf(err, "migrate %s", command)
	}
	return nil
}

func NewStore(db *sqlx.DB) *ports.Store {
	return &ports.Store{
		Admins:             &AdminRepository{db: db},
		Students:           &StudentRepository{db: db},
		Menus:              &MenuRepository{db: db},
		Groceries:          &GroceryRepository{db: db},
		Suppliers:          &SupplierRepository{db: db},
		Expenses:           &ExpenseRepository{db: db},
		Payments:           &PaymentRepository{db: db},
		Feedback:           &FeedbackRepository{db: db},
		Ratings:            &RatingRepository{db: db},
		Complaints:         &ComplaintRepository{db: db},
		Notifications:      &NotificationRepository{db: db},
		AdminNotifications: &AdminNotificationRepository{db: db},
	}
}

const (
	uniqueViolation     = "23505"
	invalidTextSyntax   = "22P02"
	foreignKeyViolation = "23503"
)

// translate maps driver errors onto domain errors and wraps the rest with op.
func translate(err error, op string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case uniqueViolation:
			return domain.ErrConflict
		case invalidTextSyntax, foreignKeyViolation:
			// malformed ids and dangling references both mean the target does not exist
			return domain.ErrNotFound
		}
	}
	return errors.Wrap(err, op)
}

// expectRow reports ErrNotFound when an id-addressed write touched nothing.
func expectRow(res sql.Result, err error, op string) error {
	if err != nil {
		return translate(err, op)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, op)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func withTx(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin transaction")
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return errors.Wrap(tx.Commit(), "commit transaction")
}

func insertOutbox(ctx context.Context, tx *sqlx.Tx, msg ports.OutboxMessage) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO outbox_events (id, event_type, payload, created_at) VALUES ($1, $2, $3, NOW())`,
		uuid.NewString(),
		msg.EventType,
		string(msg.Payload),
	)
	return translate(err, "insert outbox event")
}

// StudentColumns carries the joined owner identity of student-owned rows.
type StudentColumns struct {
	StudentName   sql.NullString `db:"s_name"`
	StudentRollNo sql.NullString `db:"s_roll_no"`
	StudentRoomNo sql.NullString `db:"s_room_no"`
	StudentPhone  sql.NullString `db:"s_phone"`
}

const studentJoinColumns = `s.name AS s_name, s.roll_no AS s_roll_no, s.room_no AS s_room_no, s.phone AS s_phone`

func (c StudentColumns) summary(studentID string) *domain.StudentSummary {
	if !c.StudentName.Valid {
		return nil
	}
	return &domain.StudentSummary{
		ID:     studentID,
		Name:   c.StudentName.String,
		RollNo: c.StudentRollNo.String,
		RoomNo: c.StudentRoomNo.String,
		Phone:  c.StudentPhone.String,
	}
}

// whereBuilder collects optional equality filters with positional placeholders.
type whereBuilder struct {
	conds []string
	args  []any
}

func (w *whereBuilder) eq(column string, value any) {
	w.args = append(w.args, value)
	w.conds = append(w.conds, fmt.Sprintf("%s = $%d", column, len(w.args)))
}

func (w *whereBuilder) String() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}
