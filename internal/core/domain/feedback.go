package domain

import (
	"sort"
	"time"
)

const RecentCommentsLimit = 20

type Feedback struct {
	ID        string          `json:"id" db:"id"`
	StudentID string          `json:"studentId" db:"student_id"`
	Student   *StudentSummary `json:"student,omitempty" db:"-"`
	Day       Day             `json:"day" db:"day"`
	MealType  MealType        `json:"mealType" db:"meal_type"`
	Rating    int             `json:"rating" db:"rating"`
	Liked     *bool           `json:"liked" db:"liked"`
	Comment   string          `json:"comment" db:"comment"`
	CreatedAt time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time       `json:"updatedAt" db:"updated_at"`
}

type FeedbackFilter struct {
	Day      Day
	MealType MealType
}

func (f FeedbackFilter) Match(fb *Feedback) bool {
	if f.Day != "" && fb.Day != f.Day {
		return false
	}
	if f.MealType != "" && fb.MealType != f.MealType {
		return false
	}
	return true
}

type MealFeedbackStats struct {
	Day          Day      `json:"day"`
	MealType     MealType `json:"mealType"`
	AvgRating    float64  `json:"avgRating"`
	TotalCount   int      `json:"totalCount"`
	LikeCount    int      `json:"likeCount"`
	DislikeCount int      `json:"dislikeCount"`
	Ratings      []int    `json:"ratings"`
}

type OverallFeedback struct {
	TotalFeedback int     `json:"totalFeedback"`
	AvgRating     float64 `json:"avgRating"`
	TotalLikes    int     `json:"totalLikes"`
	TotalDislikes int     `json:"totalDislikes"`
}

type FeedbackAnalytics struct {
	PerMeal        []MealFeedbackStats `json:"perMeal"`
	Overall        OverallFeedback     `json:"overall"`
	RecentComments []Feedback          `json:"recentComments"`
}

// SummarizeFeedback groups feedback by (day, mealType), sorted by mean rating
// descending, and computes the global rollup.
func SummarizeFeedback(all []Feedback) ([]MealFeedbackStats, OverallFeedback) {
	type key struct {
		day  Day
		meal MealType
	}

	groups := make(map[key]*MealFeedbackStats)
	var overall OverallFeedback
	var sum int
	for _, fb := range all {
		k := key{fb.Day, fb.MealType}
		g, ok := groups[k]
		if !ok {
			g = &MealFeedbackStats{Day: fb.Day, MealType: fb.MealType, Ratings: []int{}}
			groups[k] = g
		}
		g.TotalCount++
		g.Ratings = append(g.Ratings, fb.Rating)
		overall.TotalFeedback++
		sum += fb.Rating
		if fb.Liked != nil {
			if *fb.Liked {
				g.LikeCount++
				overall.TotalLikes++
			} else {
				g.DislikeCount++
				overall.TotalDislikes++
			}
		}
	}

	perMeal := make([]MealFeedbackStats, 0, len(groups))
	for _, g := range groups {
		g.AvgRating = mean(g.Ratings)
		perMeal = append(perMeal, *g)
	}
	sort.SliceStable(perMeal, func(i, j int) bool {
		if perMeal[i].AvgRating != perMeal[j].AvgRating {
			return perMeal[i].AvgRating > perMeal[j].AvgRating
		}
		return slotLess(perMeal[i].Day, perMeal[i].MealType, perMeal[j].Day, perMeal[j].MealType)
	})

	if overall.TotalFeedback > 0 {
		overall.AvgRating = float64(sum) / float64(overall.TotalFeedback)
	}
	return perMeal, overall
}

func mean(xs []int) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum int
	for _, x := range xs {
		sum += x
	}
	return float64(sum) / float64(len(xs))
}

func slotLess(d1 Day, m1 MealType, d2 Day, m2 MealType) bool {
	if d1 != d2 {
		return d1.Index() < d2.Index()
	}
	return m1.Index() < m2.Index()
}
