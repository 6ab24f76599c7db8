package models

// Dish is a menu entry. QuantityLeft is the remaining stock; a dish
// with zero stock cannot be added to a cart even while IsAvailable is
// still set.
type Dish struct {
	ID           int64   `json:"id" db:"id"`
	Name         string  `json:"dish_name" db:"dish_name"`
	Image        *string `json:"image,omitempty" db:"image"`
	Description  *string `json:"description,omitempty" db:"description"`
	Category     *string `json:"category,omitempty" db:"category"`
	IsAvailable  bool    `json:"is_available" db:"is_available"`
	QuantityLeft int     `json:"quantity_left" db:"quantity_left"`
}

// Toad is a finite physical token handed to at most one active order.
type Toad struct {
	ID      int64   `json:"id" db:"id"`
	Pic     *string `json:"pic,omitempty" db:"pic"`
	IsTaken bool    `json:"is_taken" db:"is_taken"`
}

// CreateDishRequest is the body of POST /api/menu.
type CreateDishRequest struct {
	Name         string  `json:"dish_name"`
	Image        *string `json:"image"`
	Description  *string `json:"description"`
	Category     *string `json:"category"`
	IsAvailable  bool    `json:"is_available"`
	QuantityLeft int     `json:"quantity_left"`
}

// CreateToadRequest is the body of POST /api/toads.
type CreateToadRequest struct {
	Pic     *string `json:"pic"`
	IsTaken bool    `json:"is_taken"`
}
