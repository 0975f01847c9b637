package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hostelmess/mess-service/internal/core/domain"
	"github.com/hostelmess/mess-service/internal/core/ports"
)

// FeedbackService stores one feedback entry per student, day and meal
type FeedbackService struct {
	feedback ports.FeedbackRepository
}

var _ ports.FeedbackService = (*FeedbackService)(nil)

// NewFeedbackService creates a new feedback service
func NewFeedbackService(feedback ports.FeedbackRepository) *FeedbackService {
	return &FeedbackService{feedback: feedback}
}

func validateMealRating(day domain.Day, meal domain.MealType, rating int) error {
	if day == "" || meal == "" || rating == 0 {
		return domain.NewValidationError("day, mealType and rating are required")
	}
	if !day.Valid() || !meal.Valid() {
		return domain.NewValidationError("Invalid day or mealType")
	}
	if rating < 1 || rating > 5 {
		return domain.NewValidationError("Rating must be between 1 and 5")
	}
	return nil
}

// Submit overwrites the student's earlier feedback for the same meal slot.
func (s *FeedbackService) Submit(ctx context.Context, studentID string, in ports.FeedbackInput) (*domain.Feedback, error) {
	if err := validateMealRating(in.Day, in.MealType, in.Rating); err != nil {
		return nil, err
	}

	now := time.Now()
	fb := &domain.Feedback{
		ID:        uuid.NewString(),
		StudentID: studentID,
		Day:       in.Day,
		MealType:  in.MealType,
		Rating:    in.Rating,
		Liked:     in.Liked,
		Comment:   strings.TrimSpace(in.Comment),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.feedback.Upsert(ctx, fb); err != nil {
		return nil, err
	}
	return fb, nil
}

// Mine returns the student's feedback, oldest first
func (s *FeedbackService) Mine(ctx context.Context, studentID string) ([]domain.Feedback, error) {
	return s.feedback.ListByStudent(ctx, studentID)
}

// List returns all feedback matching filter, newest first
func (s *FeedbackService) List(ctx context.Context, filter domain.FeedbackFilter) ([]domain.Feedback, error) {
	return s.feedback.List(ctx, filter)
}

// Analytics folds all feedback into per-meal and overall figures
func (s *FeedbackService) Analytics(ctx context.Context) (*domain.FeedbackAnalytics, error) {
	all, err := s.feedback.List(ctx, domain.FeedbackFilter{})
	if err != nil {
		return nil, err
	}
	recent, err := s.feedback.RecentComments(ctx, domain.RecentCommentsLimit)
	if err != nil {
		return nil, err
	}

	perMeal, overall := domain.SummarizeFeedback(all)
	return &domain.FeedbackAnalytics{
		PerMeal:        perMeal,
		Overall:        overall,
		RecentComments: recent,
	}, nil
}
