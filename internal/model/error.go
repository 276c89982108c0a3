package model

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON        = "INVALID_JSON"
	ErrCodeMissingField       = "MISSING_FIELD"
	ErrCodeInvalidQuantity    = "INVALID_QUANTITY"
	ErrCodeInvalidStatus      = "INVALID_STATUS"
	ErrCodeInvalidCategory    = "INVALID_CATEGORY"
	ErrCodeInvalidRole        = "INVALID_ROLE"
	ErrCodeIllegalTransition  = "ILLEGAL_TRANSITION"
	ErrCodeTotalMismatch      = "TOTAL_MISMATCH"
	ErrCodeEmptyOrder         = "EMPTY_ORDER"
	ErrCodeOrderNotFound      = "ORDER_NOT_FOUND"
	ErrCodeIngredientNotFound = "INGREDIENT_NOT_FOUND"
	ErrCodeCartItemNotFound   = "CART_ITEM_NOT_FOUND"
	ErrCodeUserNotFound       = "USER_NOT_FOUND"
	ErrCodeDuplicateName      = "DUPLICATE_NAME"
	ErrCodeSelfDemotion       = "SELF_DEMOTION"
	ErrCodeUnauthorised       = "UNAUTHORIZED"
	ErrCodeForbidden          = "FORBIDDEN"
	ErrCodeInternalError      = "INTERNAL_ERROR"
)

// DomainError carries a stable code alongside a human-readable message.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrInvalidQuantity    = NewDomainError(ErrCodeInvalidQuantity, "Quantity must be greater than zero")
	ErrInvalidStatus      = NewDomainError(ErrCodeInvalidStatus, "Unknown order status")
	ErrInvalidCategory    = NewDomainError(ErrCodeInvalidCategory, "Unknown ingredient category")
	ErrInvalidRole        = NewDomainError(ErrCodeInvalidRole, "Unknown role")
	ErrIllegalTransition  = NewDomainError(ErrCodeIllegalTransition, "Status transition not allowed for this role")
	ErrTotalMismatch      = NewDomainError(ErrCodeTotalMismatch, "Total price does not match the sum of line items")
	ErrEmptyOrder         = NewDomainError(ErrCodeEmptyOrder, "Order must contain at least one item")
	ErrMissingContact     = NewDomainError(ErrCodeMissingField, "Customer name, phone and address are required")
	ErrOrderNotFound      = NewDomainError(ErrCodeOrderNotFound, "Order not found")
	ErrIngredientNotFound = NewDomainError(ErrCodeIngredientNotFound, "Ingredient not found")
	ErrCartItemNotFound   = NewDomainError(ErrCodeCartItemNotFound, "Cart item not found")
	ErrUserNotFound       = NewDomainError(ErrCodeUserNotFound, "User not found")
	ErrDuplicateName      = NewDomainError(ErrCodeDuplicateName, "An ingredient with this name already exists")
	ErrSelfDemotion       = NewDomainError(ErrCodeSelfDemotion, "Admins cannot change their own role")
)
