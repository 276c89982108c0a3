package model

import (
	"time"

	"github.com/google/uuid"
)

// Cart is a per-user mutable collection of selected packs and custom builds.
// TotalAmount is recomputed after every mutation; there is no concurrency
// token, last write wins.
type Cart struct {
	UserID      string     `json:"userId" db:"user_id"`
	Items       []CartItem `json:"items"`
	TotalAmount float64    `json:"totalAmount" db:"total_amount"`
	UpdatedAt   time.Time  `json:"updatedAt" db:"updated_at"`
}

// RecomputeTotal recalculates TotalAmount from the current lines.
func (c *Cart) RecomputeTotal() {
	total := 0.0
	for _, item := range c.Items {
		total += item.Price * float64(item.Quantity)
	}
	c.TotalAmount = total
}

// CartItem is a single line in a cart. Pack lines merge by pack reference;
// custom builds always stay separate lines.
type CartItem struct {
	ID          uuid.UUID    `json:"id" db:"id"`
	Name        string       `json:"name" db:"name"`
	Description string       `json:"description,omitempty" db:"description"`
	Price       float64      `json:"price" db:"price"`
	Quantity    int          `json:"quantity" db:"quantity"`
	PackID      *string      `json:"packId,omitempty" db:"pack_id"`
	CustomBuild *CustomBuild `json:"customBuild,omitempty" db:"custom_build"`
}

// AddCartItemRequest is the payload for adding a line to the cart.
type AddCartItemRequest struct {
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Price       float64      `json:"price"`
	Quantity    int          `json:"quantity"`
	PackID      *string      `json:"packId,omitempty"`
	CustomBuild *CustomBuild `json:"customBuild,omitempty"`
}

// UpdateCartItemRequest is the payload for changing a line's quantity.
type UpdateCartItemRequest struct {
	ItemID   uuid.UUID `json:"itemId"`
	Quantity int       `json:"quantity"`
}
