// Package menu serves the dish catalog: customer-facing reads and the
// admin operations that edit dishes and restock inventory.
package menu

import (
	"context"
	"fmt"

	"frog-cafe/internal/logger"
	"frog-cafe/internal/models"
	"frog-cafe/internal/services/inventory"
	"frog-cafe/internal/store"
)

// Service is the menu catalog service.
type Service struct {
	store  store.Store
	logger *logger.Logger
}

// NewService creates a menu service.
func NewService(st store.Store, log *logger.Logger) *Service {
	return &Service{store: st, logger: log}
}

// List returns the full menu.
func (s *Service) List(ctx context.Context) ([]models.Dish, error) {
	dishes := []models.Dish{}
	err := s.store.ExecTx(ctx, func(tx store.Tx) error {
		var err error
		dishes, err = tx.ListDishes(ctx)
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

// Get returns one dish.
func (s *Service) Get(ctx context.Context, id int64) (models.Dish, error) {
	var dish models.Dish
	err := s.store.ExecTx(ctx, func(tx store.Tx) error {
		var err error
		dish, err = tx.GetDish(ctx, id)
		return err
	})
	return dish, err
}

// Create adds a new dish to the catalog.
func (s *Service) Create(ctx context.Context, req models.CreateDishRequest) (models.Dish, error) {
	if req.Name == "" {
		return models.Dish{}, fmt.Errorf("%w: dish name is required", models.ErrInvalidRequest)
	}
	if req.QuantityLeft < 0 {
		return models.Dish{}, fmt.Errorf("%w: initial stock below zero", models.ErrInvalidRequest)
	}

	var dish models.Dish
	err := s.store.ExecTx(ctx, func(tx store.Tx) error {
		var err error
		dish, err = tx.InsertDish(ctx, req)
		return err
	})
	if err != nil {
		return models.Dish{}, err
	}
	s.logger.Info("dish_created", "Dish added to menu", "", map[string]any{
		"dish_id": dish.ID,
		"name":    dish.Name,
	})
	return dish, nil
}

// Update replaces a dish's catalog fields.
func (s *Service) Update(ctx context.Context, d models.Dish) (models.Dish, error) {
	if d.QuantityLeft < 0 {
		return models.Dish{}, fmt.Errorf("%w: stock below zero", models.ErrInvalidRequest)
	}
	err := s.store.ExecTx(ctx, func(tx store.Tx) error {
		if _, err := tx.GetDishForUpdate(ctx, d.ID); err != nil {
			return err
		}
		return tx.UpdateDish(ctx, d)
	})
	if err != nil {
		return models.Dish{}, err
	}
	return d, nil
}

// Restock returns count units of the dish to the shelf, one ledger
// release at a time so the same increment path serves reversals and
// deliveries of fresh stock.
func (s *Service) Restock(ctx context.Context, id int64, count int) (models.Dish, error) {
	if count < 1 {
		return models.Dish{}, fmt.Errorf("%w: restock count must be positive", models.ErrInvalidRequest)
	}
	var dish models.Dish
	err := s.store.ExecTx(ctx, func(tx store.Tx) error {
		for i := 0; i < count; i++ {
			if err := inventory.Release(ctx, tx, id); err != nil {
				return err
			}
		}
		var err error
		dish, err = tx.GetDish(ctx, id)
		return err
	})
	if err != nil {
		return models.Dish{}, err
	}
	s.logger.Info("dish_restocked", "Dish restocked", "", map[string]any{
		"dish_id": id,
		"count":   count,
		"stock":   dish.QuantityLeft,
	})
	return dish, nil
}
