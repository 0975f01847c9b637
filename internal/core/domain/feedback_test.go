package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool { return &b }

func TestSummarizeFeedback(t *testing.T) {
	all := []Feedback{
		{Day: Monday, MealType: Lunch, Rating: 2, Liked: boolPtr(false)},
		{Day: Monday, MealType: Lunch, Rating: 4, Liked: boolPtr(true)},
		{Day: Sunday, MealType: Dinner, Rating: 5, Liked: boolPtr(true)},
		{Day: Tuesday, MealType: Breakfast, Rating: 3},
	}

	perMeal, overall := SummarizeFeedback(all)

	require.Len(t, perMeal, 3)
	assert.Equal(t, Sunday, perMeal[0].Day)
	assert.Equal(t, 5.0, perMeal[0].AvgRating)
	assert.Equal(t, Monday, perMeal[1].Day)
	assert.Equal(t, 3.0, perMeal[1].AvgRating)
	assert.Equal(t, []int{2, 4}, perMeal[1].Ratings)
	assert.Equal(t, 1, perMeal[1].LikeCount)
	assert.Equal(t, 1, perMeal[1].DislikeCount)
	assert.Equal(t, Tuesday, perMeal[2].Day, "ties are broken by weekly order")

	assert.Equal(t, OverallFeedback{TotalFeedback: 4, AvgRating: 3.5, TotalLikes: 2, TotalDislikes: 1}, overall)
}

func TestSummarizeFeedback_Empty(t *testing.T) {
	perMeal, overall := SummarizeFeedback(nil)

	assert.Empty(t, perMeal)
	assert.Equal(t, OverallFeedback{}, overall)
}

func TestSummarizeRatings_CanonicalOrder(t *testing.T) {
	d := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)
	all := []MealRating{
		{Day: Sunday, MealType: Breakfast, Rating: 4, Date: d},
		{Day: Monday, MealType: Dinner, Rating: 3, Comment: "ok", Date: d},
		{Day: Monday, MealType: Breakfast, Rating: 5, Date: d},
		{Day: Monday, MealType: Dinner, Rating: 4, Date: d},
	}

	stats := SummarizeRatings(all)

	require.Len(t, stats, 3)
	assert.Equal(t, []MealType{Breakfast, Dinner}, []MealType{stats[0].MealType, stats[1].MealType})
	assert.Equal(t, Sunday, stats[2].Day)
	assert.Equal(t, 3.5, stats[1].AverageRating)
	assert.Equal(t, 2, stats[1].TotalRatings)
	assert.Equal(t, RatingComment{Rating: 3, Comment: "ok", Date: d}, stats[1].Comments[0])
}

func TestStartOfDay(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	at := time.Date(2024, 3, 4, 23, 59, 59, 0, loc)

	assert.Equal(t, time.Date(2024, 3, 4, 0, 0, 0, 0, loc), StartOfDay(at))
}
