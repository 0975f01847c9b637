package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/hostelmess/mess-service/internal/core/domain"
	"github.com/hostelmess/mess-service/internal/core/ports"
)

type ComplaintRepository struct {
	db *sqlx.DB
}

var _ ports.ComplaintRepository = (*ComplaintRepository)(nil)

type complaintRow struct {
	domain.Complaint
	StudentColumns
}

const complaintSelect = `
	SELECT c.id, c.student_id, c.type, c.category, c.description, c.status,
	       c.admin_response, c.attachment_url, c.created_at, c.updated_at, ` + studentJoinColumns + `
	FROM complaints c
	LEFT JOIN students s ON s.id = c.student_id`

func (r *ComplaintRepository) CreateWithAlert(ctx context.Context, complaint *domain.Complaint, alert *domain.AdminNotification, msg ports.OutboxMessage) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		_, err := tx.NamedExecContext(ctx, `
			INSERT INTO complaints (id, student_id, type, category, description, status, admin_response, attachment_url, created_at, updated_at)
			VALUES (:id, :student_id, :type, :category, :description, :status, :admin_response, :attachment_url, :created_at, :updated_at)`,
			complaint)
		if err != nil {
			return translate(err, "insert complaint")
		}
		if err := insertAlert(ctx, tx, alert); err != nil {
			return err
		}
		return insertOutbox(ctx, tx, msg)
	})
}

func (r *ComplaintRepository) query(ctx context.Context, withStudent bool, where string, args ...any) ([]domain.Complaint, error) {
	rows := []complaintRow{}
	if err := r.db.SelectContext(ctx, &rows, complaintSelect+where+` ORDER BY c.created_at DESC`, args...); err != nil {
		return nil, translate(err, "list complaints")
	}

	out := make([]domain.Complaint, 0, len(rows))
	for _, row := range rows {
		c := row.Complaint
		if withStudent {
			c.Student = row.summary(c.StudentID)
		}
		out = append(out, c)
	}
	return out, nil
}

func (r *ComplaintRepository) FindByID(ctx context.Context, id string) (*domain.Complaint, error) {
	var row complaintRow
	if err := r.db.GetContext(ctx, &row, complaintSelect+` WHERE c.id = $1`, id); err != nil {
		return nil, translate(err, "find complaint")
	}
	c := row.Complaint
	c.Student = row.summary(c.StudentID)
	return &c, nil
}

func (r *ComplaintRepository) ListByStudent(ctx context.Context, studentID string) ([]domain.Complaint, error) {
	return r.query(ctx, false, ` WHERE c.student_id = $1`, studentID)
}

func (r *ComplaintRepository) List(ctx context.Context, filter domain.ComplaintFilter) ([]domain.Complaint, error) {
	var w whereBuilder
	if filter.Status != "" {
		w.eq("c.status", filter.Status)
	}
	if filter.Category != "" {
		w.eq("c.category", filter.Category)
	}
	if filter.Type != "" {
		w.eq("c.type", filter.Type)
	}
	return r.query(ctx, true, w.String(), w.args...)
}

func (r *ComplaintRepository) UpdateWithNotification(ctx context.Context, complaint *domain.Complaint, notification *domain.Notification, msg *ports.OutboxMessage) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		res, err := tx.NamedExecContext(ctx, `
			UPDATE complaints
			SET status = :status, admin_response = :admin_response, updated_at = :updated_at
			WHERE id = :id`, complaint)
		if err := expectRow(res, err, "update complaint"); err != nil {
			return err
		}
		if notification != nil {
			if err := insertNotification(ctx, tx, notification); err != nil {
				return err
			}
		}
		if msg != nil {
			return insertOutbox(ctx, tx, *msg)
		}
		return nil
	})
}

func (r *ComplaintRepository) CountByStatus(ctx context.Context) (map[domain.ComplaintStatus]int, error) {
	var rows []struct {
		Status domain.ComplaintStatus `db:"status"`
		Count  int                    `db:"count"`
	}
	if err := r.db.SelectContext(ctx, &rows, `SELECT status, COUNT(*) AS count FROM complaints GROUP BY status`); err != nil {
		return nil, translate(err, "count complaints")
	}

	counts := make(map[domain.ComplaintStatus]int, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}
