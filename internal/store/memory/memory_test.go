package memory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"frog-cafe/internal/models"
	"frog-cafe/internal/store"
)

func TestExecTxRollbackLeavesStateUntouched(t *testing.T) {
	s := New()
	dish := s.AddDish(models.Dish{Name: "Latte", IsAvailable: true, QuantityLeft: 5})
	toad := s.AddToad(models.Toad{})

	boom := errors.New("boom")
	err := s.ExecTx(context.Background(), func(tx store.Tx) error {
		if err := tx.AdjustDishStock(context.Background(), dish.ID, -3); err != nil {
			t.Fatalf("AdjustDishStock: %v", err)
		}
		if err := tx.SetToadTaken(context.Background(), toad.ID, true); err != nil {
			t.Fatalf("SetToadTaken: %v", err)
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("ExecTx error = %v, want boom", err)
	}

	s.ExecTx(context.Background(), func(tx store.Tx) error {
		d, err := tx.GetDish(context.Background(), dish.ID)
		if err != nil {
			t.Fatalf("GetDish: %v", err)
		}
		if d.QuantityLeft != 5 {
			t.Errorf("stock after rollback = %d, want 5", d.QuantityLeft)
		}
		td, err := tx.GetToadForUpdate(context.Background(), toad.ID)
		if err != nil {
			t.Fatalf("GetToadForUpdate: %v", err)
		}
		if td.IsTaken {
			t.Error("toad taken after rollback, want free")
		}
		return nil
	})
}

func TestExecTxCommitIsVisible(t *testing.T) {
	s := New()
	dish := s.AddDish(models.Dish{Name: "Croissant", IsAvailable: true, QuantityLeft: 2})

	err := s.ExecTx(context.Background(), func(tx store.Tx) error {
		return tx.AdjustDishStock(context.Background(), dish.ID, -1)
	})
	if err != nil {
		t.Fatalf("ExecTx: %v", err)
	}

	s.ExecTx(context.Background(), func(tx store.Tx) error {
		d, _ := tx.GetDish(context.Background(), dish.ID)
		if d.QuantityLeft != 1 {
			t.Errorf("stock after commit = %d, want 1", d.QuantityLeft)
		}
		return nil
	})
}

func TestExecTxSerializesWriters(t *testing.T) {
	s := New()
	dish := s.AddDish(models.Dish{Name: "Latte", IsAvailable: true, QuantityLeft: 100})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.ExecTx(context.Background(), func(tx store.Tx) error {
				return tx.AdjustDishStock(context.Background(), dish.ID, -1)
			})
		}()
	}
	wg.Wait()

	s.ExecTx(context.Background(), func(tx store.Tx) error {
		d, _ := tx.GetDish(context.Background(), dish.ID)
		if d.QuantityLeft != 50 {
			t.Errorf("stock after 50 decrements = %d, want 50", d.QuantityLeft)
		}
		return nil
	})
}

func TestSeededStatuses(t *testing.T) {
	s := New()
	s.ExecTx(context.Background(), func(tx store.Tx) error {
		for _, name := range []models.OrderStatus{
			models.StatusCreated, models.StatusPreparing, models.StatusReady, models.StatusDelivered,
		} {
			if _, err := tx.GetStatusByName(context.Background(), name); err != nil {
				t.Errorf("GetStatusByName(%q): %v", name, err)
			}
		}
		return nil
	})
}

func TestGetOrderUnknown(t *testing.T) {
	s := New()
	err := s.ExecTx(context.Background(), func(tx store.Tx) error {
		_, err := tx.GetOrder(context.Background(), 42)
		return err
	})
	if !errors.Is(err, models.ErrOrderNotFound) {
		t.Fatalf("error = %v, want ErrOrderNotFound", err)
	}
}
