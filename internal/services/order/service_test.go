package order

import (
	"context"
	"errors"
	"testing"

	"frog-cafe/internal/auth"
	"frog-cafe/internal/logger"
	"frog-cafe/internal/models"
	"frog-cafe/internal/store"
	"frog-cafe/internal/store/memory"
)

var (
	customer = auth.Identity{UserID: 1, Name: "kermit", Role: models.RoleCustomer}
	staff    = auth.Identity{UserID: 2, Name: "waiter", Role: models.RoleStaff}
)

type recordingPublisher struct {
	events []string
}

func (p *recordingPublisher) PublishOrderEvent(ctx context.Context, event string, view models.OrderView) {
	p.events = append(p.events, event)
}

func newService(t *testing.T) (*Service, *memory.Store, *recordingPublisher) {
	t.Helper()
	st := memory.New()
	pub := &recordingPublisher{}
	return NewService(st, pub, logger.New("order-test")), st, pub
}

func loadOrder(t *testing.T, st *memory.Store, id int64) models.Order {
	t.Helper()
	var o models.Order
	err := st.ExecTx(context.Background(), func(tx store.Tx) error {
		var err error
		o, err = tx.GetOrder(context.Background(), id)
		return err
	})
	if err != nil {
		t.Fatalf("failed to load order %d: %v", id, err)
	}
	return o
}

func loadToad(t *testing.T, st *memory.Store, id int64) models.Toad {
	t.Helper()
	var toad models.Toad
	err := st.ExecTx(context.Background(), func(tx store.Tx) error {
		var err error
		toad, err = tx.GetToadForUpdate(context.Background(), id)
		return err
	})
	if err != nil {
		t.Fatalf("failed to load toad %d: %v", id, err)
	}
	return toad
}

func TestCreate(t *testing.T) {
	t.Run("claims lowest free toad", func(t *testing.T) {
		svc, st, pub := newService(t)
		st.AddToad(models.Toad{IsTaken: true})
		free := st.AddToad(models.Toad{})

		view, err := svc.Create(context.Background(), customer)
		if err != nil {
			t.Fatalf("Create returned error: %v", err)
		}
		if view.Status != models.StatusCreated {
			t.Errorf("status = %v, want Created", view.Status)
		}
		if len(view.Items) != 0 {
			t.Errorf("new order has %d items, want 0", len(view.Items))
		}

		o := loadOrder(t, st, view.ID)
		if o.ToadID == nil || *o.ToadID != free.ID {
			t.Errorf("order toad = %v, want %d", o.ToadID, free.ID)
		}
		if !loadToad(t, st, free.ID).IsTaken {
			t.Error("claimed toad not marked taken")
		}
		if len(pub.events) != 1 || pub.events[0] != "created" {
			t.Errorf("published events = %v, want [created]", pub.events)
		}
	})

	t.Run("empty pool leaves order toadless", func(t *testing.T) {
		svc, st, _ := newService(t)

		view, err := svc.Create(context.Background(), customer)
		if err != nil {
			t.Fatalf("Create returned error: %v", err)
		}
		if got := loadOrder(t, st, view.ID); got.ToadID != nil {
			t.Errorf("order toad = %d, want none", *got.ToadID)
		}

		// A toad arriving later never attaches retroactively.
		st.AddToad(models.Toad{})
		if got := loadOrder(t, st, view.ID); got.ToadID != nil {
			t.Errorf("order acquired toad %d retroactively", *got.ToadID)
		}
	})

	t.Run("missing bootstrap status", func(t *testing.T) {
		svc, st, _ := newService(t)
		st.DropStatuses()

		_, err := svc.Create(context.Background(), customer)
		if !errors.Is(err, models.ErrMissingBootstrapStatus) {
			t.Fatalf("Create error = %v, want ErrMissingBootstrapStatus", err)
		}
	})
}

func TestUpdateStatus(t *testing.T) {
	svc, st, pub := newService(t)
	view, err := svc.Create(context.Background(), customer)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	updated, err := svc.UpdateStatus(context.Background(), view.ID, "Preparing", staff)
	if err != nil {
		t.Fatalf("UpdateStatus returned error: %v", err)
	}
	if updated.Status != models.StatusPreparing {
		t.Errorf("status = %v, want Preparing", updated.Status)
	}

	// The machine is deliberately permissive: any named state may be
	// set from any other, including backwards.
	if _, err := svc.UpdateStatus(context.Background(), view.ID, "Created", staff); err != nil {
		t.Errorf("backwards transition returned error: %v", err)
	}

	if _, err := svc.UpdateStatus(context.Background(), view.ID, "Vanished", staff); !errors.Is(err, models.ErrUnknownStatus) {
		t.Errorf("unknown status error = %v, want ErrUnknownStatus", err)
	}
	if got := loadOrder(t, st, view.ID).Status; got != models.StatusCreated {
		t.Errorf("status after rejected update = %v, want Created", got)
	}

	if _, err := svc.UpdateStatus(context.Background(), 404, "Ready", staff); !errors.Is(err, models.ErrOrderNotFound) {
		t.Errorf("missing order error = %v, want ErrOrderNotFound", err)
	}

	want := []string{"created", "status_changed", "status_changed"}
	if len(pub.events) != len(want) {
		t.Errorf("published events = %v, want %v", pub.events, want)
	}
}

func TestDelete(t *testing.T) {
	t.Run("frees the toad for reuse", func(t *testing.T) {
		svc, st, _ := newService(t)
		toad := st.AddToad(models.Toad{})

		view, err := svc.Create(context.Background(), customer)
		if err != nil {
			t.Fatalf("Create returned error: %v", err)
		}
		if _, err := svc.UpdateStatus(context.Background(), view.ID, "Delivered", staff); err != nil {
			t.Fatalf("UpdateStatus returned error: %v", err)
		}

		if err := svc.Delete(context.Background(), view.ID, staff); err != nil {
			t.Fatalf("Delete returned error: %v", err)
		}
		if loadToad(t, st, toad.ID).IsTaken {
			t.Error("toad still taken after order deletion")
		}

		// Freed toad is claimable by the next order.
		next, err := svc.Create(context.Background(), customer)
		if err != nil {
			t.Fatalf("Create returned error: %v", err)
		}
		if o := loadOrder(t, st, next.ID); o.ToadID == nil || *o.ToadID != toad.ID {
			t.Errorf("next order toad = %v, want reclaimed %d", o.ToadID, toad.ID)
		}
	})

	t.Run("toadless order leaves pool unchanged", func(t *testing.T) {
		svc, st, _ := newService(t)
		view, err := svc.Create(context.Background(), customer)
		if err != nil {
			t.Fatalf("Create returned error: %v", err)
		}
		taken := st.AddToad(models.Toad{IsTaken: true})

		if _, err := svc.UpdateStatus(context.Background(), view.ID, "Delivered", staff); err != nil {
			t.Fatalf("UpdateStatus returned error: %v", err)
		}
		if err := svc.Delete(context.Background(), view.ID, staff); err != nil {
			t.Fatalf("Delete returned error: %v", err)
		}
		if !loadToad(t, st, taken.ID).IsTaken {
			t.Error("unrelated toad was freed")
		}
	})

	t.Run("rejected outside Delivered, order intact", func(t *testing.T) {
		svc, st, _ := newService(t)
		dish := st.AddDish(models.Dish{Name: "Fly Soup", IsAvailable: true, QuantityLeft: 5})

		view, err := svc.Create(context.Background(), customer)
		if err != nil {
			t.Fatalf("Create returned error: %v", err)
		}
		if err := st.ExecTx(context.Background(), func(tx store.Tx) error {
			return tx.InsertCartLine(context.Background(), view.ID, dish.ID)
		}); err != nil {
			t.Fatalf("failed to seed cart line: %v", err)
		}
		if _, err := svc.UpdateStatus(context.Background(), view.ID, "Preparing", staff); err != nil {
			t.Fatalf("UpdateStatus returned error: %v", err)
		}

		err = svc.Delete(context.Background(), view.ID, staff)
		if !errors.Is(err, models.ErrOrderNotDelivered) {
			t.Fatalf("Delete error = %v, want ErrOrderNotDelivered", err)
		}

		got, err := svc.Get(context.Background(), view.ID)
		if err != nil {
			t.Fatalf("order gone after rejected delete: %v", err)
		}
		if len(got.Items) != 1 {
			t.Errorf("cart items = %d, want 1 after rejected delete", len(got.Items))
		}
	})

	t.Run("missing order", func(t *testing.T) {
		svc, _, _ := newService(t)
		if err := svc.Delete(context.Background(), 404, staff); !errors.Is(err, models.ErrOrderNotFound) {
			t.Errorf("Delete error = %v, want ErrOrderNotFound", err)
		}
	})
}

func TestClearAll(t *testing.T) {
	svc, st, _ := newService(t)
	toad := st.AddToad(models.Toad{})

	for i := 0; i < 3; i++ {
		if _, err := svc.Create(context.Background(), customer); err != nil {
			t.Fatalf("Create returned error: %v", err)
		}
	}
	if err := svc.ClearAll(context.Background(), staff); err != nil {
		t.Fatalf("ClearAll returned error: %v", err)
	}

	views, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(views) != 0 {
		t.Errorf("orders after ClearAll = %d, want 0", len(views))
	}

	// The escape hatch deliberately skips toad release.
	if !loadToad(t, st, toad.ID).IsTaken {
		t.Error("ClearAll released a toad; it is documented not to")
	}
}

func TestList(t *testing.T) {
	svc, _, _ := newService(t)
	first, err := svc.Create(context.Background(), customer)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	second, err := svc.Create(context.Background(), customer)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	views, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("List returned %d orders, want 2", len(views))
	}
	if views[0].ID != second.ID || views[1].ID != first.ID {
		t.Errorf("List order = [%d %d], want newest first [%d %d]",
			views[0].ID, views[1].ID, second.ID, first.ID)
	}
}
