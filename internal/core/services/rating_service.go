package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/hostelmess/mess-service/internal/core/domain"
	"github.com/hostelmess/mess-service/internal/core/ports"
)

type RatingService struct {
	ratings ports.RatingRepository
	now     func() time.Time
}

var _ ports.RatingService = (*RatingService)(nil)

// NewRatingService creates a new rating service
func NewRatingService(ratings ports.RatingRepository) *RatingService {
	return &RatingService{ratings: ratings, now: time.Now}
}

// WithClock replaces the time source used for the calendar-day boundary.
func (s *RatingService) WithClock(now func() time.Time) *RatingService {
	s.now = now
	return s
}

func (s *RatingService) Submit(ctx context.Context, studentID string, in ports.RatingInput) (*domain.MealRating, bool, error) {
	if err := validateMealRating(in.Day, in.MealType, in.Rating); err != nil {
		return nil, false, err
	}

	now := s.now()
	existing, err := s.ratings.FindSince(ctx, studentID, in.Day, in.MealType, domain.StartOfDay(now))
	switch {
	case err == nil:
		existing.Rating = in.Rating
		existing.Comment = in.Comment
		existing.Date = now
		existing.UpdatedAt = now
		if err := s.ratings.Update(ctx, existing); err != nil {
			return nil, false, err
		}
		return existing, false, nil
	case !errors.Is(err, domain.ErrNotFound):
		return nil, false, err
	}

	rating := &domain.MealRating{
		ID:        uuid.NewString(),
		StudentID: studentID,
		Day:       in.Day,
		MealType:  in.MealType,
		Rating:    in.Rating,
		Comment:   in.Comment,
		Date:      now,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.ratings.Create(ctx, rating); err != nil {
		return nil, false, err
	}
	return rating, true, nil
}

// Today returns the ratings the student left today
func (s *RatingService) Today(ctx context.Context, studentID string) ([]domain.MealRating, error) {
	return s.ratings.ListByStudentSince(ctx, studentID, domain.StartOfDay(s.now()))
}

// Analytics groups all ratings per meal
func (s *RatingService) Analytics(ctx context.Context) ([]domain.MealRatingStats, error) {
	all, err := s.ratings.List(ctx)
	if err != nil {
		return nil, err
	}
	return domain.SummarizeRatings(all), nil
}
