package models

import "errors"

// Sentinel errors shared by the services and mapped to transport codes
// at the HTTP boundary. Callers match with errors.Is; services wrap
// with fmt.Errorf("%w: ...") to carry detail (e.g. which dish ran out).
var (
	ErrOrderNotFound = errors.New("order not found")
	ErrUnknownDish   = errors.New("unknown dish")
	ErrUnknownToad   = errors.New("unknown toad")
	ErrUnknownStatus = errors.New("unknown order status")
	ErrUserNotFound  = errors.New("user not found")

	ErrForbidden = errors.New("access to order denied")

	// ErrOrderNotOpen gates cart mutation: items may be added only
	// while the order status is Created.
	ErrOrderNotOpen = errors.New("order is not open for new items")

	// ErrOrderNotDelivered gates deletion: only Delivered orders may
	// be removed.
	ErrOrderNotDelivered = errors.New("order has not been delivered")

	ErrOutOfStock      = errors.New("dish is out of stock")
	ErrUnavailable     = errors.New("dish is not available")
	ErrToadAlreadyFree = errors.New("toad is already free")

	// ErrMissingBootstrapStatus means the seeded status row an
	// operation relies on is absent. Configuration fault, not a user
	// error.
	ErrMissingBootstrapStatus = errors.New("bootstrap order status missing")

	ErrConflict = errors.New("concurrent modification detected")

	ErrInvalidRequest = errors.New("invalid request")
)
