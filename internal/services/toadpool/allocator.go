// Package toadpool allocates the cafe's physical toad markers. Every
// active order carries at most one toad; claims and releases run inside
// a caller-supplied transaction so a claim that fails to attach to an
// order rolls back to free.
package toadpool

import (
	"context"
	"fmt"

	"frog-cafe/internal/models"
	"frog-cafe/internal/store"
)

// ClaimAny marks the lowest-id free toad as taken and returns it.
// Returns nil when the pool is exhausted; running out of toads is a
// normal condition, orders then go out without one.
func ClaimAny(ctx context.Context, tx store.Tx) (*models.Toad, error) {
	toad, err := tx.LockFreeToad(ctx)
	if err != nil {
		return nil, err
	}
	if toad == nil {
		return nil, nil
	}
	if err := tx.SetToadTaken(ctx, toad.ID, true); err != nil {
		return nil, err
	}
	toad.IsTaken = true
	return toad, nil
}

// Release returns a toad to the free pool.
func Release(ctx context.Context, tx store.Tx, toadID int64) error {
	toad, err := tx.GetToadForUpdate(ctx, toadID)
	if err != nil {
		return err
	}
	if !toad.IsTaken {
		return fmt.Errorf("%w: toad %d", models.ErrToadAlreadyFree, toadID)
	}
	return tx.SetToadTaken(ctx, toadID, false)
}
