package main

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hostelmess/mess-service/internal/core/domain"
	"github.com/hostelmess/mess-service/internal/core/ports"
	"github.com/hostelmess/mess-service/internal/core/services"
)

const (
	seedAdminEmail    = "admin@hostel.com"
	seedAdminPassword = "admin123"
)

type seedStudent struct {
	name, rollNo, roomNo, password string
}

var seedStudents = []seedStudent{
	{"John Doe", "101", "A-10", "john101"},
	{"Jane Smith", "102", "A-11", "jane102"},
	{"Bob Wilson", "103", "B-05", "bob103"},
}

type seedMenu struct {
	day         domain.Day
	meal        domain.MealType
	foodItems   string
	ingredients domain.Ingredients
}

var weeklyMenu = []seedMenu{
	{domain.Monday, domain.Breakfast, "Idli, Sambar, Coconut Chutney, Banana", domain.Ingredients{
		{Name: "Rice (Idli batter)", QuantityPerStudent: 0.1, Unit: "kg"},
		{Name: "Toor Dal (Sambar)", QuantityPerStudent: 0.03, Unit: "kg"},
		{Name: "Coconut", QuantityPerStudent: 0.05, Unit: "kg"},
	}},
	{domain.Monday, domain.Lunch, "Steamed Rice, Dal Fry, Aloo Sabzi, Papad, Salad", domain.Ingredients{
		{Name: "Rice", QuantityPerStudent: 0.2, Unit: "kg"},
		{Name: "Toor Dal", QuantityPerStudent: 0.05, Unit: "kg"},
		{Name: "Potato", QuantityPerStudent: 0.1, Unit: "kg"},
		{Name: "Cooking Oil", QuantityPerStudent: 0.02, Unit: "ltr"},
	}},
	{domain.Monday, domain.Dinner, "Chapati (4 pcs), Paneer Butter Masala, Jeera Rice, Raita", domain.Ingredients{
		{Name: "Wheat Flour", QuantityPerStudent: 0.15, Unit: "kg"},
		{Name: "Paneer", QuantityPerStudent: 0.1, Unit: "kg"},
		{Name: "Rice", QuantityPerStudent: 0.15, Unit: "kg"},
		{Name: "Curd", QuantityPerStudent: 0.1, Unit: "kg"},
	}},
	{domain.Tuesday, domain.Breakfast, "Poha, Masala Chai, Boiled Egg, Mixed Fruit", domain.Ingredients{
		{Name: "Poha (Flattened Rice)", QuantityPerStudent: 0.1, Unit: "kg"},
		{Name: "Egg", QuantityPerStudent: 1, Unit: "pcs"},
		{Name: "Milk", QuantityPerStudent: 0.2, Unit: "ltr"},
	}},
	{domain.Tuesday, domain.Lunch, "Rice, Rajma Masala, Mixed Veg Curry, Pickle, Buttermilk", domain.Ingredients{
		{Name: "Rice", QuantityPerStudent: 0.2, Unit: "kg"},
		{Name: "Rajma", QuantityPerStudent: 0.08, Unit: "kg"},
		{Name: "Mixed Veg", QuantityPerStudent: 0.15, Unit: "kg"},
		{Name: "Curd", QuantityPerStudent: 0.1, Unit: "ltr"},
	}},
	{domain.Tuesday, domain.Dinner, "Roti (3 pcs), Chicken Curry, Dal, Salad", domain.Ingredients{
		{Name: "Wheat Flour", QuantityPerStudent: 0.12, Unit: "kg"},
		{Name: "Chicken", QuantityPerStudent: 0.15, Unit: "kg"},
		{Name: "Toor Dal", QuantityPerStudent: 0.05, Unit: "kg"},
	}},
	{domain.Wednesday, domain.Breakfast, "Upma, Green Chutney, Masala Chai, Apple", domain.Ingredients{
		{Name: "Semolina (Rava)", QuantityPerStudent: 0.1, Unit: "kg"},
		{Name: "Onion", QuantityPerStudent: 0.05, Unit: "kg"},
		{Name: "Milk", QuantityPerStudent: 0.2, Unit: "ltr"},
	}},
	{domain.Wednesday, domain.Lunch, "Curd Rice, Sambar, Fried Papad, Mango Pickle, Sweet (Kheer)", domain.Ingredients{
		{Name: "Rice", QuantityPerStudent: 0.2, Unit: "kg"},
		{Name: "Curd", QuantityPerStudent: 0.2, Unit: "ltr"},
		{Name: "Milk (Kheer)", QuantityPerStudent: 0.15, Unit: "ltr"},
		{Name: "Sugar", QuantityPerStudent: 0.03, Unit: "kg"},
	}},
	{domain.Wednesday, domain.Dinner, "Paratha (3 pcs), Chana Masala, Raita, Green Salad", domain.Ingredients{
		{Name: "Wheat Flour", QuantityPerStudent: 0.15, Unit: "kg"},
		{Name: "Chickpeas", QuantityPerStudent: 0.1, Unit: "kg"},
		{Name: "Curd", QuantityPerStudent: 0.1, Unit: "ltr"},
	}},
	{domain.Thursday, domain.Breakfast, "Dosa, Sambar, Tomato Chutney, Masala Tea", domain.Ingredients{
		{Name: "Rice Batter", QuantityPerStudent: 0.15, Unit: "kg"},
		{Name: "Toor Dal", QuantityPerStudent: 0.03, Unit: "kg"},
		{Name: "Tomato", QuantityPerStudent: 0.05, Unit: "kg"},
	}},
	{domain.Thursday, domain.Lunch, "Veg Biryani, Raita, Boiled Egg, Papad", domain.Ingredients{
		{Name: "Basmati Rice", QuantityPerStudent: 0.25, Unit: "kg"},
		{Name: "Mixed Veg", QuantityPerStudent: 0.15, Unit: "kg"},
		{Name: "Curd", QuantityPerStudent: 0.1, Unit: "ltr"},
		{Name: "Egg", QuantityPerStudent: 1, Unit: "pcs"},
	}},
	{domain.Thursday, domain.Dinner, "Chapati (4 pcs), Dal Makhani, Stir-fry Veggies, Salad", domain.Ingredients{
		{Name: "Wheat Flour", QuantityPerStudent: 0.15, Unit: "kg"},
		{Name: "Black Dal", QuantityPerStudent: 0.07, Unit: "kg"},
		{Name: "Mixed Veggies", QuantityPerStudent: 0.15, Unit: "kg"},
	}},
	{domain.Friday, domain.Breakfast, "Bread Toast, Omelette (2 eggs), Butter, Jam, Milk", domain.Ingredients{
		{Name: "Bread", QuantityPerStudent: 0.1, Unit: "kg"},
		{Name: "Egg", QuantityPerStudent: 2, Unit: "pcs"},
		{Name: "Milk", QuantityPerStudent: 0.25, Unit: "ltr"},
		{Name: "Butter", QuantityPerStudent: 0.01, Unit: "kg"},
	}},
	{domain.Friday, domain.Lunch, "Rice, Fish Curry, Dal Tadka, Salad, Papad", domain.Ingredients{
		{Name: "Rice", QuantityPerStudent: 0.2, Unit: "kg"},
		{Name: "Fish", QuantityPerStudent: 0.15, Unit: "kg"},
		{Name: "Toor Dal", QuantityPerStudent: 0.05, Unit: "kg"},
		{Name: "Tomato", QuantityPerStudent: 0.05, Unit: "kg"},
	}},
	{domain.Friday, domain.Dinner, "Special Chicken Biryani, Salan, Raita, Sweet (Gulab Jamun)", domain.Ingredients{
		{Name: "Basmati Rice", QuantityPerStudent: 0.25, Unit: "kg"},
		{Name: "Chicken", QuantityPerStudent: 0.2, Unit: "kg"},
		{Name: "Curd", QuantityPerStudent: 0.1, Unit: "ltr"},
		{Name: "Sugar", QuantityPerStudent: 0.05, Unit: "kg"},
	}},
	{domain.Saturday, domain.Breakfast, "Puri (4 pcs), Aloo Sabzi, Masala Chai, Banana", domain.Ingredients{
		{Name: "Wheat Flour", QuantityPerStudent: 0.12, Unit: "kg"},
		{Name: "Potato", QuantityPerStudent: 0.1, Unit: "kg"},
		{Name: "Milk", QuantityPerStudent: 0.2, Unit: "ltr"},
	}},
	{domain.Saturday, domain.Lunch, "Rice, Mutton Curry, Dal, Salad, Pickle", domain.Ingredients{
		{Name: "Rice", QuantityPerStudent: 0.2, Unit: "kg"},
		{Name: "Mutton", QuantityPerStudent: 0.15, Unit: "kg"},
		{Name: "Dal", QuantityPerStudent: 0.05, Unit: "kg"},
	}},
	{domain.Saturday, domain.Dinner, "Naan (3 pcs), Paneer Tikka Masala, Salad, Sweet (Halwa)", domain.Ingredients{
		{Name: "Wheat Flour", QuantityPerStudent: 0.15, Unit: "kg"},
		{Name: "Paneer", QuantityPerStudent: 0.12, Unit: "kg"},
		{Name: "Semolina", QuantityPerStudent: 0.08, Unit: "kg"},
		{Name: "Sugar", QuantityPerStudent: 0.04, Unit: "kg"},
	}},
	{domain.Sunday, domain.Breakfast, "Masala Dosa, Sambar, Coconut Chutney, Filter Coffee", domain.Ingredients{
		{Name: "Rice Batter", QuantityPerStudent: 0.15, Unit: "kg"},
		{Name: "Toor Dal", QuantityPerStudent: 0.03, Unit: "kg"},
		{Name: "Coconut", QuantityPerStudent: 0.05, Unit: "kg"},
		{Name: "Coffee", QuantityPerStudent: 0.01, Unit: "kg"},
	}},
	{domain.Sunday, domain.Lunch, "Special Sunday Thali: Rice, Dal, Paneer Curry, 2 Veg, Papad, Sweet", domain.Ingredients{
		{Name: "Rice", QuantityPerStudent: 0.25, Unit: "kg"},
		{Name: "Paneer", QuantityPerStudent: 0.12, Unit: "kg"},
		{Name: "Dal", QuantityPerStudent: 0.06, Unit: "kg"},
		{Name: "Sugar", QuantityPerStudent: 0.04, Unit: "kg"},
	}},
	{domain.Sunday, domain.Dinner, "Roti (3 pcs), Egg Curry, Dal, Jeera Rice, Salad", domain.Ingredients{
		{Name: "Wheat Flour", QuantityPerStudent: 0.12, Unit: "kg"},
		{Name: "Egg", QuantityPerStudent: 2, Unit: "pcs"},
		{Name: "Rice", QuantityPerStudent: 0.15, Unit: "kg"},
	}},
}

// clearSeeded removes the accounts and menu the seed recreates. Student-owned
// rows go with their students.
func clearSeeded(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range []string{
		"DELETE FROM admins",
		"DELETE FROM students",
		"DELETE FROM menus",
	} {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func seed(ctx context.Context, store *ports.Store) error {
	if _, err := addAdmin(ctx, store.Admins, "Super Admin", seedAdminEmail, seedAdminPassword); err != nil {
		return err
	}

	now := time.Now()
	for _, s := range seedStudents {
		if _, err := store.Students.FindByRollNo(ctx, s.rollNo); err == nil {
			continue
		} else if !errors.Is(err, domain.ErrNotFound) {
			return err
		}

		hash, err := services.HashPassword(s.password)
		if err != nil {
			return err
		}
		err = store.Students.Create(ctx, &domain.Student{
			ID:        uuid.NewString(),
			Name:      s.name,
			RollNo:    s.rollNo,
			RoomNo:    s.roomNo,
			Password:  hash,
			Status:    domain.StudentActive,
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err != nil {
			return err
		}
	}

	for _, m := range weeklyMenu {
		err := store.Menus.Upsert(ctx, &domain.Menu{
			ID:          uuid.NewString(),
			Day:         m.day,
			MealType:    m.meal,
			FoodItems:   m.foodItems,
			Ingredients: m.ingredients,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func newSeedCmd(c *cli) *cobra.Command {
	var keep bool
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the default admin, sample students and the weekly menu",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !keep {
				if err := clearSeeded(cmd.Context(), c.db); err != nil {
					return err
				}
			}
			if err := seed(cmd.Context(), c.store); err != nil {
				return err
			}
			c.log.Info("seed complete",
				zap.String("admin", seedAdminEmail),
				zap.Int("students", len(seedStudents)),
				zap.Int("menu_entries", len(weeklyMenu)),
			)
			return nil
		},
	}
	cmd.Flags().BoolVar(&keep, "keep", false, "keep existing admins, students and menus")
	return cmd
}
