package postgres

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/hostelmess/mess-service/internal/core/domain"
	"github.com/hostelmess/mess-service/internal/core/ports"
)

type FeedbackRepository struct {
	db *sqlx.DB
}

var _ ports.FeedbackRepository = (*FeedbackRepository)(nil)

type feedbackRow struct {
	domain.Feedback
	StudentColumns
}

const feedbackSelect = `
	SELECT f.id, f.student_id, f.day, f.meal_type, f.rating, f.liked, f.comment,
	       f.created_at, f.updated_at, ` + studentJoinColumns + `
	FROM feedback f
	LEFT JOIN students s ON s.id = f.student_id`

func (r *FeedbackRepository) Upsert(ctx context.Context, fb *domain.Feedback) error {
	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO feedback (id, student_id, day, meal_type, rating, liked, comment, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (student_id, day, meal_type) DO UPDATE
		SET rating = EXCLUDED.rating,
		    liked = EXCLUDED.liked,
		    comment = EXCLUDED.comment,
		    updated_at = EXCLUDED.updated_at
		RETURNING id, created_at`,
		fb.ID, fb.StudentID, fb.Day, fb.MealType, fb.Rating, fb.Liked, fb.Comment, fb.CreatedAt, fb.UpdatedAt,
	).Scan(&fb.ID, &fb.CreatedAt)
	return translate(err, "upsert feedback")
}

func (r *FeedbackRepository) query(ctx context.Context, withStudent bool, where string, tail string, args ...any) ([]domain.Feedback, error) {
	rows := []feedbackRow{}
	if err := r.db.SelectContext(ctx, &rows, feedbackSelect+where+tail, args...); err != nil {
		return nil, translate(err, "list feedback")
	}

	out := make([]domain.Feedback, 0, len(rows))
	for _, row := range rows {
		fb := row.Feedback
		if withStudent {
			fb.Student = row.summary(fb.StudentID)
		}
		out = append(out, fb)
	}
	return out, nil
}

func (r *FeedbackRepository) ListByStudent(ctx context.Context, studentID string) ([]domain.Feedback, error) {
	return r.query(ctx, false, ` WHERE f.student_id = $1`, ` ORDER BY f.created_at`, studentID)
}

func (r *FeedbackRepository) List(ctx context.Context, filter domain.FeedbackFilter) ([]domain.Feedback, error) {
	var w whereBuilder
	if filter.Day != "" {
		w.eq("f.day", filter.Day)
	}
	if filter.MealType != "" {
		w.eq("f.meal_type", filter.MealType)
	}
	return r.query(ctx, true, w.String(), ` ORDER BY f.created_at DESC`, w.args...)
}

func (r *FeedbackRepository) RecentComments(ctx context.Context, limit int) ([]domain.Feedback, error) {
	return r.query(ctx, true, ` WHERE f.comment <> ''`, ` ORDER BY f.created_at DESC LIMIT $1`, limit)
}

type RatingRepository struct {
	db *sqlx.DB
}

var _ ports.RatingRepository = (*RatingRepository)(nil)

const ratingColumns = `id, student_id, day, meal_type, rating, comment, date, created_at, updated_at`

func (r *RatingRepository) FindSince(ctx context.Context, studentID string, day domain.Day, meal domain.MealType, since time.Time) (*domain.MealRating, error) {
	var rating domain.MealRating
	err := r.db.GetContext(ctx, &rating, `
		SELECT `+ratingColumns+` FROM meal_ratings
		WHERE student_id = $1 AND day = $2 AND meal_type = $3 AND date >= $4
		ORDER BY date DESC
		LIMIT 1`, studentID, day, meal, since)
	if err != nil {
		return nil, translate(err, "find meal rating")
	}
	return &rating, nil
}

func (r *RatingRepository) Create(ctx context.Context, rating *domain.MealRating) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO meal_ratings (id, student_id, day, meal_type, rating, comment, date, created_at, updated_at)
		VALUES (:id, :student_id, :day, :meal_type, :rating, :comment, :date, :created_at, :updated_at)`, rating)
	return translate(err, "create meal rating")
}

func (r *RatingRepository) Update(ctx context.Context, rating *domain.MealRating) error {
	res, err := r.db.NamedExecContext(ctx, `
		UPDATE meal_ratings
		SET rating = :rating, comment = :comment, date = :date, updated_at = :updated_at
		WHERE id = :id`, rating)
	return expectRow(res, err, "update meal rating")
}

func (r *RatingRepository) ListByStudentSince(ctx context.Context, studentID string, since time.Time) ([]domain.MealRating, error) {
	ratings := []domain.MealRating{}
	err := r.db.SelectContext(ctx, &ratings, `
		SELECT `+ratingColumns+` FROM meal_ratings
		WHERE student_id = $1 AND date >= $2
		ORDER BY date`, studentID, since)
	if err != nil {
		return nil, translate(err, "list today's ratings")
	}
	return ratings, nil
}

func (r *RatingRepository) List(ctx context.Context) ([]domain.MealRating, error) {
	ratings := []domain.MealRating{}
	if err := r.db.SelectContext(ctx, &ratings, `SELECT `+ratingColumns+` FROM meal_ratings ORDER BY date`); err != nil {
		return nil, translate(err, "list meal ratings")
	}
	return ratings, nil
}
