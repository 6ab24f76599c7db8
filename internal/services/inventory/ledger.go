// Package inventory is the stock ledger for menu dishes. Reserve and
// Release run inside a caller-supplied transaction; the dish row lock
// taken by Reserve covers only the check-and-decrement, so unrelated
// dishes never contend.
package inventory

import (
	"context"
	"fmt"

	"frog-cafe/internal/models"
	"frog-cafe/internal/store"
)

// Reserve atomically consumes one unit of the dish's stock. Under
// concurrent callers racing for the last unit, the row lock guarantees
// exactly one reservation succeeds.
func Reserve(ctx context.Context, tx store.Tx, dishID int64) error {
	dish, err := tx.GetDishForUpdate(ctx, dishID)
	if err != nil {
		return err
	}
	if !dish.IsAvailable {
		return fmt.Errorf("%w: %q", models.ErrUnavailable, dish.Name)
	}
	if dish.QuantityLeft < 1 {
		return fmt.Errorf("%w: %q", models.ErrOutOfStock, dish.Name)
	}
	return tx.AdjustDishStock(ctx, dishID, -1)
}

// Release returns one unit to the dish's stock. Used to reverse a
// reservation that did not result in a committed cart line; delivered
// orders never release stock because the goods were consumed.
func Release(ctx context.Context, tx store.Tx, dishID int64) error {
	if _, err := tx.GetDishForUpdate(ctx, dishID); err != nil {
		return err
	}
	return tx.AdjustDishStock(ctx, dishID, 1)
}
