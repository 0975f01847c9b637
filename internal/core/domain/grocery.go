package domain

import "time"

const DefaultMinStockLevel = 5

type Grocery struct {
	ID            string    `json:"id" db:"id"`
	ItemName      string    `json:"itemName" db:"item_name"`
	CurrentStock  float64   `json:"currentStock" db:"current_stock"`
	Unit          string    `json:"unit" db:"unit"`
	MinStockLevel float64   `json:"minStockLevel" db:"min_stock_level"`
	LastUpdated   time.Time `json:"lastUpdated" db:"last_updated"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time `json:"updatedAt" db:"updated_at"`
}

func (g *Grocery) IsLow() bool {
	return g.CurrentStock <= g.MinStockLevel
}

// StockDelta is an add-quantity request against a grocery item. Unit and
// MinStockLevel only apply when the item is created.
type StockDelta struct {
	ItemName      string
	Quantity      float64
	Unit          string
	MinStockLevel float64
}

type Requirement struct {
	Name  string  `json:"name"`
	Unit  string  `json:"unit"`
	Total float64 `json:"total"`
}

// CalculateRequirements sums quantityPerStudent * activeStudents for every
// distinct (name, unit) pair across the menu, in first-seen order.
func CalculateRequirements(menus []Menu, activeStudents int) []Requirement {
	type key struct{ name, unit string }

	index := make(map[key]int)
	out := make([]Requirement, 0)
	for _, m := range menus {
		for _, ing := range m.Ingredients {
			k := key{ing.Name, ing.Unit}
			i, ok := index[k]
			if !ok {
				i = len(out)
				index[k] = i
				out = append(out, Requirement{Name: ing.Name, Unit: ing.Unit})
			}
			out[i].Total += ing.QuantityPerStudent * float64(activeStudents)
		}
	}
	return out
}
