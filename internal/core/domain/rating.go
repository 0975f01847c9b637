package domain

import (
	"sort"
	"time"
)

// MealRating allows one rating per student and meal per calendar day.
type MealRating struct {
	ID        string    `json:"id" db:"id"`
	StudentID string    `json:"studentId" db:"student_id"`
	Day       Day       `json:"day" db:"day"`
	MealType  MealType  `json:"mealType" db:"meal_type"`
	Rating    int       `json:"rating" db:"rating"`
	Comment   string    `json:"comment" db:"comment"`
	Date      time.Time `json:"date" db:"date"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

type RatingComment struct {
	Rating  int       `json:"rating"`
	Comment string    `json:"comment"`
	Date    time.Time `json:"date"`
}

type MealRatingStats struct {
	Day           Day             `json:"day"`
	MealType      MealType        `json:"mealType"`
	AverageRating float64         `json:"averageRating"`
	TotalRatings  int             `json:"totalRatings"`
	Comments      []RatingComment `json:"comments"`
}

// SummarizeRatings groups ratings by (day, mealType) in canonical weekly order.
// Comments keep the order of the input.
func SummarizeRatings(all []MealRating) []MealRatingStats {
	type key struct {
		day  Day
		meal MealType
	}

	groups := make(map[key]*MealRatingStats)
	sums := make(map[key]int)
	for _, r := range all {
		k := key{r.Day, r.MealType}
		g, ok := groups[k]
		if !ok {
			g = &MealRatingStats{Day: r.Day, MealType: r.MealType, Comments: []RatingComment{}}
			groups[k] = g
		}
		g.TotalRatings++
		sums[k] += r.Rating
		g.Comments = append(g.Comments, RatingComment{Rating: r.Rating, Comment: r.Comment, Date: r.Date})
	}

	out := make([]MealRatingStats, 0, len(groups))
	for k, g := range groups {
		g.AverageRating = float64(sums[k]) / float64(g.TotalRatings)
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool {
		return slotLess(out[i].Day, out[i].MealType, out[j].Day, out[j].MealType)
	})
	return out
}

// StartOfDay returns local midnight of t.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
