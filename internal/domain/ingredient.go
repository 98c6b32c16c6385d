package domain

// Ingredient is a recipe component, scoped per user like Tag.
type Ingredient struct {
	ID     int64
	UserID int64
	Name   string
}

func (i Ingredient) String() string {
	return i.Name
}
