// Package store defines the transactional storage boundary for the
// cafe. Every multi-step operation runs inside ExecTx; row-lock
// acquisition is explicit (the ForUpdate variants), so atomicity
// contracts are enforced by the type boundary rather than by
// convention.
package store

import (
	"context"

	"frog-cafe/internal/models"
)

// Store opens transactions over the backing state.
type Store interface {
	// ExecTx runs fn inside one transaction. Any error from fn rolls
	// the transaction back and is returned unchanged; nil commits.
	ExecTx(ctx context.Context, fn func(tx Tx) error) error
}

// Tx is a single open transaction. Row locks taken by the ForUpdate
// methods are held until the transaction ends.
type Tx interface {
	// Orders
	GetOrder(ctx context.Context, id int64) (models.Order, error)
	// GetOrderForUpdate loads the order under an exclusive row lock,
	// serializing concurrent mutations of the same order.
	GetOrderForUpdate(ctx context.Context, id int64) (models.Order, error)
	InsertOrder(ctx context.Context, userID int64, toadID *int64, statusID int64) (models.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID, statusID int64) error
	DeleteOrder(ctx context.Context, id int64) error
	DeleteAllOrders(ctx context.Context) error
	ListOrders(ctx context.Context) ([]models.Order, error)
	// ListActiveOrders returns orders whose status differs from the
	// given terminal status, oldest first.
	ListActiveOrders(ctx context.Context, exclude models.OrderStatus) ([]models.Order, error)

	// Cart lines
	InsertCartLine(ctx context.Context, orderID, dishID int64) error
	DeleteCartLines(ctx context.Context, orderID int64) error
	ListCartDishes(ctx context.Context, orderID int64) ([]models.Dish, error)

	// Dishes
	GetDish(ctx context.Context, id int64) (models.Dish, error)
	// GetDishForUpdate locks the single dish row for the remainder of
	// the transaction.
	GetDishForUpdate(ctx context.Context, id int64) (models.Dish, error)
	// AdjustDishStock adds delta to quantity_left. The backing store
	// rejects a result below zero.
	AdjustDishStock(ctx context.Context, id int64, delta int) error
	ListDishes(ctx context.Context) ([]models.Dish, error)
	InsertDish(ctx context.Context, req models.CreateDishRequest) (models.Dish, error)
	UpdateDish(ctx context.Context, d models.Dish) error

	// Toads
	// LockFreeToad locks and returns the lowest-id free toad, or nil
	// when the pool is exhausted.
	LockFreeToad(ctx context.Context) (*models.Toad, error)
	GetToadForUpdate(ctx context.Context, id int64) (models.Toad, error)
	SetToadTaken(ctx context.Context, id int64, taken bool) error
	ListToads(ctx context.Context) ([]models.Toad, error)
	InsertToad(ctx context.Context, req models.CreateToadRequest) (models.Toad, error)

	// Statuses
	GetStatusByName(ctx context.Context, name models.OrderStatus) (models.StatusRow, error)
	ListStatuses(ctx context.Context) ([]models.StatusRow, error)

	// Users
	GetUserByName(ctx context.Context, name string) (models.User, error)
}
