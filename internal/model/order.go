package model

import (
	"time"

	"github.com/google/uuid"
)

// Order represents a customer order. Items are snapshotted at checkout and
// never mutated afterwards; only the status field changes.
type Order struct {
	ID            uuid.UUID   `json:"id" db:"id"`
	UserID        string      `json:"userId" db:"user_id"`
	Status        OrderStatus `json:"status" db:"status"`
	TotalPrice    float64     `json:"totalPrice" db:"total_price"`
	CustomerName  string      `json:"customerName" db:"customer_name"`
	CustomerPhone string      `json:"customerPhone" db:"customer_phone"`
	AddressLabel  string      `json:"addressLabel" db:"address_label"`
	AddressLine   string      `json:"addressLine" db:"address_line"`
	Latitude      *float64    `json:"latitude,omitempty" db:"latitude"`
	Longitude     *float64    `json:"longitude,omitempty" db:"longitude"`
	CreatedAt     time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time   `json:"updatedAt" db:"updated_at"`
}

// OrderItem is an immutable line entry in an order: either a catalog pack
// reference or a free-form custom build.
type OrderItem struct {
	ID          uuid.UUID    `json:"-" db:"id"`
	OrderID     uuid.UUID    `json:"-" db:"order_id"`
	Name        string       `json:"name" db:"name"`
	Description string       `json:"description,omitempty" db:"description"`
	Price       float64      `json:"price" db:"price"`
	Quantity    int          `json:"quantity" db:"quantity"`
	PackID      *string      `json:"packId,omitempty" db:"pack_id"`
	CustomBuild *CustomBuild `json:"customBuild,omitempty" db:"custom_build"`
}

// CustomBuild describes a customer-assembled pizza.
type CustomBuild struct {
	Base     string    `json:"base"`
	Sauce    string    `json:"sauce"`
	Cheese   string    `json:"cheese"`
	Toppings []Topping `json:"toppings,omitempty"`
}

// Topping is a single topping selection within a custom build.
type Topping struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// StatusLog records a single accepted status transition.
type StatusLog struct {
	ID         uuid.UUID   `json:"id" db:"id"`
	OrderID    uuid.UUID   `json:"orderId" db:"order_id"`
	FromStatus OrderStatus `json:"fromStatus" db:"from_status"`
	ToStatus   OrderStatus `json:"toStatus" db:"to_status"`
	ChangedBy  string      `json:"changedBy" db:"changed_by"`
	ChangedAt  time.Time   `json:"changedAt" db:"changed_at"`
}

// OrderRequest is the checkout payload. TotalPrice, when non-zero, must match
// the sum of the submitted lines.
type OrderRequest struct {
	Items         []OrderItemRequest `json:"items"`
	TotalPrice    float64            `json:"totalPrice"`
	CustomerName  string             `json:"customerName"`
	CustomerPhone string             `json:"customerPhone"`
	AddressLabel  string             `json:"addressLabel"`
	AddressLine   string             `json:"addressLine"`
	Latitude      *float64           `json:"latitude,omitempty"`
	Longitude     *float64           `json:"longitude,omitempty"`
}

// OrderItemRequest is a single line in a checkout payload.
type OrderItemRequest struct {
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Price       float64      `json:"price"`
	Quantity    int          `json:"quantity"`
	PackID      *string      `json:"packId,omitempty"`
	CustomBuild *CustomBuild `json:"customBuild,omitempty"`
}

// StatusUpdateRequest is the payload for status patch endpoints.
type StatusUpdateRequest struct {
	Status string `json:"status"`
}

// OrderDetail is an order together with its line items.
type OrderDetail struct {
	Order Order       `json:"order"`
	Items []OrderItem `json:"items"`
}
