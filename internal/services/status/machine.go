// Package status defines the order workflow states and the gates other
// services consult before mutating an order.
package status

import (
	"fmt"

	"frog-cafe/internal/models"
)

// All returns the workflow states in progression order:
// Created, Preparing, Ready, Delivered.
func All() []models.OrderStatus {
	return []models.OrderStatus{
		models.StatusCreated,
		models.StatusPreparing,
		models.StatusReady,
		models.StatusDelivered,
	}
}

// Parse maps a status name onto the closed set. Transitions are
// caller-driven and deliberately unrestricted beyond membership: staff
// may move an order to any named state, including backwards.
func Parse(name string) (models.OrderStatus, error) {
	for _, s := range All() {
		if string(s) == name {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: %q", models.ErrUnknownStatus, name)
}

// CanModifyCart reports whether cart lines may be added to an order in
// the given state. Only freshly created orders accept items.
func CanModifyCart(s models.OrderStatus) bool {
	return s == models.StatusCreated
}

// CanDelete reports whether an order in the given state may be removed.
// Only delivered orders are eligible; everything else is still in the
// preparation pipeline.
func CanDelete(s models.OrderStatus) bool {
	return s == models.StatusDelivered
}
