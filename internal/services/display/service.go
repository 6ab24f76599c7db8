// Package display feeds the counter TV: every order still in the
// pipeline, oldest first, with its cart contents.
package display

import (
	"context"

	"frog-cafe/internal/logger"
	"frog-cafe/internal/models"
	"frog-cafe/internal/store"
)

// Board is the payload rendered on the TV.
type Board struct {
	Orders []models.OrderView `json:"orders"`
}

// Service builds the display board.
type Service struct {
	store  store.Store
	logger *logger.Logger
}

// NewService creates a display service.
func NewService(st store.Store, log *logger.Logger) *Service {
	return &Service{store: st, logger: log}
}

// ActiveOrders returns all orders not yet delivered, oldest first.
func (s *Service) ActiveOrders(ctx context.Context) (Board, error) {
	board := Board{Orders: []models.OrderView{}}
	err := s.store.ExecTx(ctx, func(tx store.Tx) error {
		orders, err := tx.ListActiveOrders(ctx, models.StatusDelivered)
		if err != nil {
			return err
		}
		for _, o := range orders {
			dishes, err := tx.ListCartDishes(ctx, o.ID)
			if err != nil {
				return err
			}
			board.Orders = append(board.Orders, models.NewOrderView(o, dishes))
		}
		return nil
	})
	if err != nil {
		return Board{}, err
	}
	return board, nil
}
