// Package cart adds dishes to open orders. AddItems is the one write
// path: it locks the order row, pre-flights the whole batch, and only
// then records lines and consumes stock, all inside one transaction.
package cart

import (
	"context"
	"fmt"
	"sort"

	"frog-cafe/internal/auth"
	"frog-cafe/internal/logger"
	"frog-cafe/internal/models"
	"frog-cafe/internal/services/inventory"
	"frog-cafe/internal/services/status"
	"frog-cafe/internal/store"
)

// Service is the cart transaction manager.
type Service struct {
	store  store.Store
	logger *logger.Logger
}

// NewService creates a cart service.
func NewService(st store.Store, log *logger.Logger) *Service {
	return &Service{store: st, logger: log}
}

// AddItems appends one cart line per requested dish id and decrements
// stock accordingly, as one atomic unit. The whole batch is validated
// before anything is written: if a single dish is missing, unavailable,
// or short on stock, neither cart nor inventory change.
//
// Dish rows are locked in ascending id order, deduplicated, so
// concurrent batches over overlapping dish sets cannot deadlock.
// Cart lines are still inserted in request order.
func (s *Service) AddItems(ctx context.Context, orderID int64, dishIDs []int64, ident auth.Identity) (models.OrderView, error) {
	var view models.OrderView
	err := s.store.ExecTx(ctx, func(tx store.Tx) error {
		order, err := tx.GetOrderForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if err := authorize(order, ident); err != nil {
			return err
		}
		if !status.CanModifyCart(order.Status) {
			return fmt.Errorf("%w: status is %q", models.ErrOrderNotOpen, order.Status)
		}

		// Pre-flight: demand per dish is the line count in this batch,
		// so a request like [A, A] against a single remaining unit of A
		// fails here instead of driving stock negative later.
		demand := make(map[int64]int)
		for _, id := range dishIDs {
			demand[id]++
		}
		locked := make([]int64, 0, len(demand))
		for id := range demand {
			locked = append(locked, id)
		}
		sort.Slice(locked, func(i, j int) bool { return locked[i] < locked[j] })

		for _, id := range locked {
			dish, err := tx.GetDishForUpdate(ctx, id)
			if err != nil {
				return err
			}
			if !dish.IsAvailable {
				return fmt.Errorf("%w: %q", models.ErrUnavailable, dish.Name)
			}
			if dish.QuantityLeft < demand[id] {
				return fmt.Errorf("%w: %q", models.ErrOutOfStock, dish.Name)
			}
		}

		for _, id := range dishIDs {
			if err := tx.InsertCartLine(ctx, orderID, id); err != nil {
				return err
			}
			if err := inventory.Reserve(ctx, tx, id); err != nil {
				return err
			}
		}

		dishes, err := tx.ListCartDishes(ctx, orderID)
		if err != nil {
			return err
		}
		view = models.NewOrderView(order, dishes)
		return nil
	})
	if err != nil {
		return models.OrderView{}, err
	}

	s.logger.Debug("cart_items_added", "Added items to cart", "", map[string]any{
		"order_id": orderID,
		"count":    len(dishIDs),
		"user_id":  ident.UserID,
	})
	return view, nil
}

// GetCart returns the dishes currently in the order's cart, one entry
// per line in insertion order. Same authorization as AddItems, no
// mutation.
func (s *Service) GetCart(ctx context.Context, orderID int64, ident auth.Identity) ([]models.Dish, error) {
	var dishes []models.Dish
	err := s.store.ExecTx(ctx, func(tx store.Tx) error {
		order, err := tx.GetOrder(ctx, orderID)
		if err != nil {
			return err
		}
		if err := authorize(order, ident); err != nil {
			return err
		}
		dishes, err = tx.ListCartDishes(ctx, orderID)
		return err
	})
	if err != nil {
		return nil, err
	}
	if dishes == nil {
		dishes = []models.Dish{}
	}
	return dishes, nil
}

// authorize admits the order's owner and privileged staff.
func authorize(order models.Order, ident auth.Identity) error {
	if ident.IsStaff() || order.UserID == ident.UserID {
		return nil
	}
	return models.ErrForbidden
}
