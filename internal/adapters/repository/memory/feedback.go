package memory

import (
	"context"
	"time"

	"github.com/hostelmess/mess-service/internal/core/domain"
	"github.com/hostelmess/mess-service/internal/core/ports"
)

type FeedbackRepository struct {
	db *DB
}

var _ ports.FeedbackRepository = (*FeedbackRepository)(nil)

func (r *FeedbackRepository) Upsert(ctx context.Context, fb *domain.Feedback) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, f := range r.db.feedback {
		if f.StudentID == fb.StudentID && f.Day == fb.Day && f.MealType == fb.MealType {
			f.Rating = fb.Rating
			f.Liked = fb.Liked
			f.Comment = fb.Comment
			f.UpdatedAt = fb.UpdatedAt
			fb.ID = f.ID
			fb.CreatedAt = f.CreatedAt
			return nil
		}
	}
	stored := *fb
	stored.Student = nil
	r.db.feedback = append(r.db.feedback, &stored)
	return nil
}

func (r *FeedbackRepository) ListByStudent(ctx context.Context, studentID string) ([]domain.Feedback, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return oldestFirst(r.db.feedback, func(f *domain.Feedback) bool { return f.StudentID == studentID }), nil
}

func (r *FeedbackRepository) withStudents(items []domain.Feedback) []domain.Feedback {
	for i := range items {
		items[i].Student = r.db.summary(items[i].StudentID)
	}
	return items
}

func (r *FeedbackRepository) List(ctx context.Context, filter domain.FeedbackFilter) ([]domain.Feedback, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return r.withStudents(newestFirst(r.db.feedback, filter.Match)), nil
}

func (r *FeedbackRepository) RecentComments(ctx context.Context, limit int) ([]domain.Feedback, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	out := newestFirst(r.db.feedback, func(f *domain.Feedback) bool { return f.Comment != "" })
	if len(out) > limit {
		out = out[:limit]
	}
	return r.withStudents(out), nil
}

type RatingRepository struct {
	db *DB
}

var _ ports.RatingRepository = (*RatingRepository)(nil)

func (r *RatingRepository) FindSince(ctx context.Context, studentID string, day domain.Day, meal domain.MealType, since time.Time) (*domain.MealRating, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	for _, m := range r.db.ratings {
		if m.StudentID == studentID && m.Day == day && m.MealType == meal && !m.Date.Before(since) {
			rating := *m
			return &rating, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *RatingRepository) Create(ctx context.Context, rating *domain.MealRating) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	stored := *rating
	r.db.ratings = append(r.db.ratings, &stored)
	return nil
}

func (r *RatingRepository) Update(ctx context.Context, rating *domain.MealRating) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for i, m := range r.db.ratings {
		if m.ID == rating.ID {
			stored := *rating
			r.db.ratings[i] = &stored
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *RatingRepository) ListByStudentSince(ctx context.Context, studentID string, since time.Time) ([]domain.MealRating, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return oldestFirst(r.db.ratings, func(m *domain.MealRating) bool {
		return m.StudentID == studentID && !m.Date.Before(since)
	}), nil
}

func (r *RatingRepository) List(ctx context.Context) ([]domain.MealRating, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return oldestFirst(r.db.ratings, nil), nil
}
