package model

import "time"

// Role is a user's access level.
type Role string

const (
	RoleUser     Role = "USER"
	RoleChef     Role = "CHEF"
	RoleDelivery Role = "DELIVERY"
	RoleAdmin    Role = "ADMIN"
)

// ParseRole validates a role string received over the wire.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleUser, RoleChef, RoleDelivery, RoleAdmin:
		return Role(s), nil
	}
	return "", ErrInvalidRole
}

// User is the local record for an identity-provider subject. The subject id
// is the authoritative join key; the local row is the source of truth for
// the role.
type User struct {
	ID            string    `json:"id" db:"id"`
	Email         string    `json:"email" db:"email"`
	Username      string    `json:"username,omitempty" db:"username"`
	FullName      string    `json:"fullName,omitempty" db:"full_name"`
	Role          Role      `json:"role" db:"role"`
	ContactNumber string    `json:"contactNumber,omitempty" db:"contact_number"`
	AddressLabel  string    `json:"addressLabel,omitempty" db:"address_label"`
	AddressLine   string    `json:"addressLine,omitempty" db:"address_line"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time `json:"updatedAt" db:"updated_at"`
}

// UpdateProfileRequest is the payload for PATCH /user/me.
type UpdateProfileRequest struct {
	FullName      *string `json:"fullName,omitempty"`
	ContactNumber *string `json:"contactNumber,omitempty"`
	AddressLabel  *string `json:"addressLabel,omitempty"`
	AddressLine   *string `json:"addressLine,omitempty"`
}

// UpdateRoleRequest is the payload for the admin role-change endpoint.
type UpdateRoleRequest struct {
	Role string `json:"role"`
}

// DashboardStats is the admin analytics payload. RefreshAfterSeconds is the
// configured dashboard poll period, surfaced so clients keep the interval
// contract explicit.
type DashboardStats struct {
	ActiveOrders        int     `json:"activeOrders"`
	LowStockCount       int     `json:"lowStockCount"`
	TodayRevenue        float64 `json:"todayRevenue"`
	PackCount           int     `json:"packCount"`
	IngredientCount     int     `json:"ingredientCount"`
	RefreshAfterSeconds int     `json:"refreshAfterSeconds"`
}
