package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/hostelmess/mess-service/internal/adapters/middleware"
	"github.com/hostelmess/mess-service/internal/core/domain"
	"github.com/hostelmess/mess-service/internal/core/ports"
)

// FeedbackHandler serves both the per-meal feedback and the daily meal ratings.
type FeedbackHandler struct {
	errorResponder
	feedback ports.FeedbackService
	ratings  ports.RatingService
}

func NewFeedbackHandler(feedback ports.FeedbackService, ratings ports.RatingService, log *zap.Logger) *FeedbackHandler {
	return &FeedbackHandler{
		errorResponder: errorResponder{log: log},
		feedback:       feedback,
		ratings:        ratings,
	}
}

type feedbackSaved struct {
	Message  string           `json:"message"`
	Feedback *domain.Feedback `json:"feedback"`
}

// Submit handles POST /api/feedback
func (h *FeedbackHandler) Submit(w http.ResponseWriter, r *http.Request) {
	student, _ := middleware.StudentFrom(r.Context())

	var in ports.FeedbackInput
	if !decodeJSON(w, r, &in) {
		return
	}

	fb, err := h.feedback.Submit(r.Context(), student.ID, in)
	if err != nil {
		h.fail(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, feedbackSaved{Message: "Feedback saved", Feedback: fb})
}

func (h *FeedbackHandler) Mine(w http.ResponseWriter, r *http.Request) {
	student, _ := middleware.StudentFrom(r.Context())

	items, err := h.feedback.Mine(r.Context(), student.ID)
	if err != nil {
		h.fail(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// List handles GET /api/feedback
func (h *FeedbackHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	items, err := h.feedback.List(r.Context(), domain.FeedbackFilter{
		Day:      domain.Day(q.Get("day")),
		MealType: domain.MealType(q.Get("mealType")),
	})
	if err != nil {
		h.fail(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// Analytics handles GET /api/feedback/analytics
func (h *FeedbackHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	analytics, err := h.feedback.Analytics(r.Context())
	if err != nil {
		h.fail(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, analytics)
}

// SubmitRating answers 201 for the first rating of the day and 200 when it was overwritten.
func (h *FeedbackHandler) SubmitRating(w http.ResponseWriter, r *http.Request) {
	student, _ := middleware.StudentFrom(r.Context())

	var in ports.RatingInput
	if !decodeJSON(w, r, &in) {
		return
	}

	rating, created, err := h.ratings.Submit(r.Context(), student.ID, in)
	if err != nil {
		h.fail(w, r, err, "")
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, rating)
}

// TodayRatings handles GET /api/ratings/student
func (h *FeedbackHandler) TodayRatings(w http.ResponseWriter, r *http.Request) {
	student, _ := middleware.StudentFrom(r.Context())

	ratings, err := h.ratings.Today(r.Context(), student.ID)
	if err != nil {
		h.fail(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, ratings)
}

// RatingAnalytics handles GET /api/ratings/analytics
func (h *FeedbackHandler) RatingAnalytics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.ratings.Analytics(r.Context())
	if err != nil {
		h.fail(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
