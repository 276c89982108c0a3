package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseOrderStatus(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    OrderStatus
		wantErr bool
	}{
		{"received", "ORDER_RECEIVED", StatusOrderReceived, false},
		{"in kitchen", "IN_KITCHEN", StatusInKitchen, false},
		{"out for delivery", "OUT_FOR_DELIVERY", StatusOutForDelivery, false},
		{"delivered", "DELIVERED", StatusDelivered, false},
		{"payment failed", "PAYMENT_FAILED", StatusPaymentFailed, false},
		{"lowercase rejected", "delivered", "", true},
		{"unknown rejected", "CANCELLED", "", true},
		{"empty rejected", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseOrderStatus(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidStatus)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		role Role
		from OrderStatus
		to   OrderStatus
		want bool
	}{
		{"chef starts cooking", RoleChef, StatusOrderReceived, StatusInKitchen, true},
		{"chef hands off", RoleChef, StatusInKitchen, StatusOutForDelivery, true},
		{"chef cannot skip kitchen", RoleChef, StatusOrderReceived, StatusOutForDelivery, false},
		{"chef cannot deliver", RoleChef, StatusOutForDelivery, StatusDelivered, false},
		{"chef cannot move backwards", RoleChef, StatusInKitchen, StatusOrderReceived, false},
		{"delivery completes from out for delivery", RoleDelivery, StatusOutForDelivery, StatusDelivered, true},
		{"delivery completes from kitchen", RoleDelivery, StatusInKitchen, StatusDelivered, true},
		{"delivery completes from received", RoleDelivery, StatusOrderReceived, StatusDelivered, true},
		{"delivery cannot start cooking", RoleDelivery, StatusOrderReceived, StatusInKitchen, false},
		{"terminal delivered stays terminal", RoleChef, StatusDelivered, StatusInKitchen, false},
		{"terminal payment failed stays terminal", RoleDelivery, StatusPaymentFailed, StatusDelivered, false},
		{"plain users have no moves", RoleUser, StatusOrderReceived, StatusInKitchen, false},
		{"admins use their own endpoint", RoleAdmin, StatusOrderReceived, StatusInKitchen, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.role, tt.from, tt.to))
		})
	}
}
