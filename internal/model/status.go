package model

// OrderStatus is an order's position in the fulfilment lifecycle.
type OrderStatus string

const (
	StatusOrderReceived  OrderStatus = "ORDER_RECEIVED"
	StatusInKitchen      OrderStatus = "IN_KITCHEN"
	StatusOutForDelivery OrderStatus = "OUT_FOR_DELIVERY"
	StatusDelivered      OrderStatus = "DELIVERED"
	StatusPaymentFailed  OrderStatus = "PAYMENT_FAILED"
)

// ActiveStatuses are the non-terminal statuses counted as in-flight work.
var ActiveStatuses = []OrderStatus{
	StatusOrderReceived,
	StatusInKitchen,
	StatusOutForDelivery,
}

// ParseOrderStatus validates a status string received over the wire.
func ParseOrderStatus(s string) (OrderStatus, error) {
	switch OrderStatus(s) {
	case StatusOrderReceived, StatusInKitchen, StatusOutForDelivery, StatusDelivered, StatusPaymentFailed:
		return OrderStatus(s), nil
	}
	return "", ErrInvalidStatus
}

// transitions is the per-role table of allowed lifecycle moves. Admins
// bypass it entirely through their own endpoint.
var transitions = map[Role]map[OrderStatus][]OrderStatus{
	RoleChef: {
		StatusOrderReceived: {StatusInKitchen},
		StatusInKitchen:     {StatusOutForDelivery},
	},
	RoleDelivery: {
		StatusOrderReceived:  {StatusDelivered},
		StatusInKitchen:      {StatusDelivered},
		StatusOutForDelivery: {StatusDelivered},
	},
}

// CanTransition reports whether role may move an order from one status to
// another.
func CanTransition(role Role, from, to OrderStatus) bool {
	for _, allowed := range transitions[role][from] {
		if allowed == to {
			return true
		}
	}
	return false
}
