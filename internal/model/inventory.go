package model

import (
	"time"

	"github.com/google/uuid"
)

// IngredientCategory classifies an ingredient's role in a build.
type IngredientCategory string

const (
	CategoryBase   IngredientCategory = "BASE"
	CategorySauce  IngredientCategory = "SAUCE"
	CategoryCheese IngredientCategory = "CHEESE"
	CategoryVeggie IngredientCategory = "VEGGIE"
	CategoryMeat   IngredientCategory = "MEAT"
)

// ParseIngredientCategory validates a category string received over the wire.
func ParseIngredientCategory(s string) (IngredientCategory, error) {
	switch IngredientCategory(s) {
	case CategoryBase, CategorySauce, CategoryCheese, CategoryVeggie, CategoryMeat:
		return IngredientCategory(s), nil
	}
	return "", ErrInvalidCategory
}

// Ingredient is a stocked inventory item. Quantity is not floor-clamped and
// may go negative under order-time deduction.
type Ingredient struct {
	ID        uuid.UUID          `json:"id" db:"id"`
	Name      string             `json:"name" db:"name"`
	Category  IngredientCategory `json:"category" db:"category"`
	Quantity  float64            `json:"quantity" db:"quantity"`
	Unit      string             `json:"unit" db:"unit"`
	Price     float64            `json:"price" db:"price"`
	Threshold float64            `json:"threshold" db:"threshold"`
	ImageURL  string             `json:"imageUrl,omitempty" db:"image_url"`
	CreatedAt time.Time          `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time          `json:"updatedAt" db:"updated_at"`
}

// LowStock reports whether the ingredient has fallen below its reorder point.
func (i *Ingredient) LowStock() bool {
	return i.Quantity < i.Threshold
}

// Pack is a predefined, priced combination of ingredients presented as a
// menu item.
type Pack struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description,omitempty" db:"description"`
	Price       float64   `json:"price" db:"price"`
	ImageURL    string    `json:"imageUrl,omitempty" db:"image_url"`
	Ingredients []string  `json:"ingredients" db:"ingredients"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

// CreateIngredientRequest is the admin payload for adding an ingredient.
type CreateIngredientRequest struct {
	Name      string  `json:"name"`
	Category  string  `json:"category"`
	Quantity  float64 `json:"quantity"`
	Unit      string  `json:"unit"`
	Price     float64 `json:"price"`
	Threshold float64 `json:"threshold"`
	ImageURL  string  `json:"imageUrl,omitempty"`
}

// UpdateIngredientRequest is the admin payload for partial ingredient
// updates. Restock is a delta added to the current quantity; Quantity, when
// set, replaces it outright.
type UpdateIngredientRequest struct {
	Quantity  *float64 `json:"quantity,omitempty"`
	Restock   *float64 `json:"restock,omitempty"`
	Unit      *string  `json:"unit,omitempty"`
	Price     *float64 `json:"price,omitempty"`
	Threshold *float64 `json:"threshold,omitempty"`
	ImageURL  *string  `json:"imageUrl,omitempty"`
}

// MovementReason tags a ledger entry with what caused it.
type MovementReason string

const (
	ReasonOrderDeduction MovementReason = "ORDER_DEDUCTION"
	ReasonRestock        MovementReason = "RESTOCK"
	ReasonSeed           MovementReason = "SEED"
)

// StockMovement is an append-only ledger row recording a stock delta.
type StockMovement struct {
	ID             uuid.UUID      `json:"id" db:"id"`
	IngredientName string         `json:"ingredientName" db:"ingredient_name"`
	Delta          float64        `json:"delta" db:"delta"`
	Reason         MovementReason `json:"reason" db:"reason"`
	OrderID        *uuid.UUID     `json:"orderId,omitempty" db:"order_id"`
	CreatedAt      time.Time      `json:"createdAt" db:"created_at"`
}

// DeductionResult is the typed outcome of an order-time stock deduction.
// Applied lists the committed movements; Unresolved lists ingredient names
// that matched nothing in the catalog; Insufficient lists names whose stock
// went negative. Deduction never fails the order it was triggered by.
type DeductionResult struct {
	Applied      []StockMovement `json:"applied"`
	Unresolved   []string        `json:"unresolved,omitempty"`
	Insufficient []string        `json:"insufficient,omitempty"`
}
