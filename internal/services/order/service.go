// Package order manages the order lifecycle: creation with toad
// assignment, status updates, and completion with toad reclaim.
package order

import (
	"context"
	"errors"
	"fmt"

	"frog-cafe/internal/auth"
	"frog-cafe/internal/logger"
	"frog-cafe/internal/models"
	"frog-cafe/internal/services/status"
	"frog-cafe/internal/services/toadpool"
	"frog-cafe/internal/store"
)

// EventPublisher receives order lifecycle events after commit. A nil
// publisher disables events; a publish failure never unwinds a
// committed transaction.
type EventPublisher interface {
	PublishOrderEvent(ctx context.Context, event string, view models.OrderView)
}

// Service is the order lifecycle manager.
type Service struct {
	store  store.Store
	events EventPublisher
	logger *logger.Logger
}

// NewService creates an order service. events may be nil.
func NewService(st store.Store, events EventPublisher, log *logger.Logger) *Service {
	return &Service{store: st, events: events, logger: log}
}

// Create opens a new order for the user: claims a toad if one is free,
// stamps the initial Created status, and returns the empty-cart view.
// Claim and insert share one transaction, so a failed insert frees the
// toad again.
func (s *Service) Create(ctx context.Context, ident auth.Identity) (models.OrderView, error) {
	var view models.OrderView
	err := s.store.ExecTx(ctx, func(tx store.Tx) error {
		toad, err := toadpool.ClaimAny(ctx, tx)
		if err != nil {
			return err
		}

		created, err := tx.GetStatusByName(ctx, models.StatusCreated)
		if errors.Is(err, models.ErrUnknownStatus) {
			// The seed row is gone; nothing user-facing about that.
			return fmt.Errorf("%w: %q", models.ErrMissingBootstrapStatus, models.StatusCreated)
		}
		if err != nil {
			return err
		}

		var toadID *int64
		if toad != nil {
			toadID = &toad.ID
		}
		o, err := tx.InsertOrder(ctx, ident.UserID, toadID, created.ID)
		if err != nil {
			return err
		}
		o.Status = created.Name
		view = models.NewOrderView(o, nil)
		return nil
	})
	if err != nil {
		return models.OrderView{}, err
	}

	s.logger.Info("order_created", "Order created", "", map[string]any{
		"order_id": view.ID,
		"user_id":  ident.UserID,
	})
	s.publish(ctx, "created", view)
	return view, nil
}

// Get returns the full view of one order.
func (s *Service) Get(ctx context.Context, orderID int64) (models.OrderView, error) {
	var view models.OrderView
	err := s.store.ExecTx(ctx, func(tx store.Tx) error {
		o, err := tx.GetOrder(ctx, orderID)
		if err != nil {
			return err
		}
		dishes, err := tx.ListCartDishes(ctx, orderID)
		if err != nil {
			return err
		}
		view = models.NewOrderView(o, dishes)
		return nil
	})
	if err != nil {
		return models.OrderView{}, err
	}
	return view, nil
}

// List returns views of all orders, newest first.
func (s *Service) List(ctx context.Context) ([]models.OrderView, error) {
	views := []models.OrderView{}
	err := s.store.ExecTx(ctx, func(tx store.Tx) error {
		orders, err := tx.ListOrders(ctx)
		if err != nil {
			return err
		}
		for _, o := range orders {
			dishes, err := tx.ListCartDishes(ctx, o.ID)
			if err != nil {
				return err
			}
			views = append(views, models.NewOrderView(o, dishes))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return views, nil
}

// UpdateStatus moves an order to the named status. The status set is
// closed; within it staff may move orders freely, including backwards.
func (s *Service) UpdateStatus(ctx context.Context, orderID int64, statusName string, ident auth.Identity) (models.OrderView, error) {
	next, err := status.Parse(statusName)
	if err != nil {
		return models.OrderView{}, err
	}

	var view models.OrderView
	err = s.store.ExecTx(ctx, func(tx store.Tx) error {
		o, err := tx.GetOrderForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		row, err := tx.GetStatusByName(ctx, next)
		if err != nil {
			return err
		}
		if err := tx.UpdateOrderStatus(ctx, orderID, row.ID); err != nil {
			return err
		}
		o.StatusID = row.ID
		o.Status = row.Name
		dishes, err := tx.ListCartDishes(ctx, orderID)
		if err != nil {
			return err
		}
		view = models.NewOrderView(o, dishes)
		return nil
	})
	if err != nil {
		return models.OrderView{}, err
	}

	s.logger.Info("order_status_updated", "Order status updated", "", map[string]any{
		"order_id":   orderID,
		"status":     string(next),
		"changed_by": ident.UserID,
	})
	s.publish(ctx, "status_changed", view)
	return view, nil
}

// Delete removes a delivered order: frees its toad if one is attached,
// drops the cart lines, then the order row, atomically. Stock is not
// restored; the goods were consumed.
func (s *Service) Delete(ctx context.Context, orderID int64, ident auth.Identity) error {
	var freedToad *int64
	err := s.store.ExecTx(ctx, func(tx store.Tx) error {
		o, err := tx.GetOrderForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if !status.CanDelete(o.Status) {
			return fmt.Errorf("%w: status is %q", models.ErrOrderNotDelivered, o.Status)
		}
		if o.ToadID != nil {
			if err := toadpool.Release(ctx, tx, *o.ToadID); err != nil {
				return err
			}
			freedToad = o.ToadID
		}
		if err := tx.DeleteCartLines(ctx, orderID); err != nil {
			return err
		}
		return tx.DeleteOrder(ctx, orderID)
	})
	if err != nil {
		return err
	}

	fields := map[string]any{"order_id": orderID, "deleted_by": ident.UserID}
	if freedToad != nil {
		fields["freed_toad"] = *freedToad
	}
	s.logger.Info("order_deleted", "Order deleted", "", fields)
	s.publish(ctx, "deleted", models.OrderView{ID: orderID})
	return nil
}

// ClearAll is the administrative escape hatch: it drops every order and
// cart line regardless of status. Toads stay marked taken and consumed
// stock stays consumed, exactly as the manual cleanup this mirrors
// would leave them. Not a lifecycle transition.
func (s *Service) ClearAll(ctx context.Context, ident auth.Identity) error {
	err := s.store.ExecTx(ctx, func(tx store.Tx) error {
		orders, err := tx.ListOrders(ctx)
		if err != nil {
			return err
		}
		for _, o := range orders {
			if err := tx.DeleteCartLines(ctx, o.ID); err != nil {
				return err
			}
		}
		return tx.DeleteAllOrders(ctx)
	})
	if err != nil {
		return err
	}

	s.logger.Info("orders_cleared", "All orders deleted", "", map[string]any{
		"cleared_by": ident.UserID,
	})
	return nil
}

func (s *Service) publish(ctx context.Context, event string, view models.OrderView) {
	if s.events == nil {
		return
	}
	s.events.PublishOrderEvent(ctx, event, view)
}
