package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Recipe is the aggregate root of the domain. Tags and Ingredients linked to
// a recipe always belong to the same user as the recipe itself.
type Recipe struct {
	ID          int64
	UserID      int64
	Title       string
	TimeMinutes int
	Price       decimal.Decimal
	Link        string
	Description string
	Image       string
	Tags        []Tag
	Ingredients []Ingredient
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (r Recipe) String() string {
	return r.Title
}
