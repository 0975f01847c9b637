package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

type Day string

const (
	Monday    Day = "Monday"
	Tuesday   Day = "Tuesday"
	Wednesday Day = "Wednesday"
	Thursday  Day = "Thursday"
	Friday    Day = "Friday"
	Saturday  Day = "Saturday"
	Sunday    Day = "Sunday"
)

// Days is the canonical weekly order.
var Days = []Day{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

func (d Day) Valid() bool {
	return d.Index() >= 0
}

func (d Day) Index() int {
	for i, v := range Days {
		if v == d {
			return i
		}
	}
	return -1
}

type MealType string

const (
	Breakfast MealType = "Breakfast"
	Lunch     MealType = "Lunch"
	Dinner    MealType = "Dinner"
)

var MealTypes = []MealType{Breakfast, Lunch, Dinner}

func (m MealType) Valid() bool {
	return m.Index() >= 0
}

func (m MealType) Index() int {
	for i, v := range MealTypes {
		if v == m {
			return i
		}
	}
	return -1
}

type Ingredient struct {
	Name               string  `json:"name"`
	QuantityPerStudent float64 `json:"quantityPerStudent"`
	Unit               string  `json:"unit"`
}

// Ingredients is stored as a JSON column.
type Ingredients []Ingredient

func (in Ingredients) Value() (driver.Value, error) {
	if in == nil {
		return "[]", nil
	}
	b, err := json.Marshal(in)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (in *Ingredients) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*in = Ingredients{}
		return nil
	case []byte:
		return json.Unmarshal(v, in)
	case string:
		return json.Unmarshal([]byte(v), in)
	default:
		return fmt.Errorf("ingredients: unsupported scan type %T", src)
	}
}

// WithoutBlank drops rows whose name is empty or whitespace.
func (in Ingredients) WithoutBlank() Ingredients {
	out := make(Ingredients, 0, len(in))
	for _, ing := range in {
		if strings.TrimSpace(ing.Name) == "" {
			continue
		}
		out = append(out, ing)
	}
	return out
}

type Menu struct {
	ID          string      `json:"id" db:"id"`
	Day         Day         `json:"day" db:"day"`
	MealType    MealType    `json:"mealType" db:"meal_type"`
	FoodItems   string      `json:"foodItems" db:"food_items"`
	Ingredients Ingredients `json:"ingredients" db:"ingredients"`
	CreatedAt   time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time   `json:"updatedAt" db:"updated_at"`
}
