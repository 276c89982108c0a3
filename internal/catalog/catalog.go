package catalog

import "context"

// Seed is the bootstrap catalog document: the initial ingredient stock and
// the pack menu.
type Seed struct {
	Ingredients []IngredientSeed `json:"ingredients"`
	Packs       []PackSeed       `json:"packs"`
}

// IngredientSeed is one ingredient entry in a seed document.
type IngredientSeed struct {
	Name      string  `json:"name"`
	Category  string  `json:"category"`
	Quantity  float64 `json:"quantity"`
	Unit      string  `json:"unit"`
	Price     float64 `json:"price"`
	Threshold float64 `json:"threshold"`
	ImageURL  string  `json:"imageUrl,omitempty"`
}

// PackSeed is one pack entry in a seed document.
type PackSeed struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Price       float64  `json:"price"`
	ImageURL    string   `json:"imageUrl,omitempty"`
	Ingredients []string `json:"ingredients"`
}

// Loader defines the interface for loading catalog seed documents.
type Loader interface {
	// Load reads a JSON seed document from the given path or key.
	Load(ctx context.Context, path string) (*Seed, error)
}
