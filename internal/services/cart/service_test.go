package cart

import (
	"context"
	"errors"
	"sync"
	"testing"

	"frog-cafe/internal/auth"
	"frog-cafe/internal/logger"
	"frog-cafe/internal/models"
	"frog-cafe/internal/store"
	"frog-cafe/internal/store/memory"
)

var (
	owner    = auth.Identity{UserID: 1, Name: "kermit", Role: models.RoleCustomer}
	stranger = auth.Identity{UserID: 2, Name: "newt", Role: models.RoleCustomer}
	admin    = auth.Identity{UserID: 3, Name: "boss", Role: models.RoleAdmin}
)

func newService(t *testing.T) (*Service, *memory.Store) {
	t.Helper()
	st := memory.New()
	return NewService(st, logger.New("cart-test")), st
}

func seedOrder(t *testing.T, st *memory.Store, userID int64, s models.OrderStatus) models.Order {
	t.Helper()
	var o models.Order
	err := st.ExecTx(context.Background(), func(tx store.Tx) error {
		row, err := tx.GetStatusByName(context.Background(), s)
		if err != nil {
			return err
		}
		o, err = tx.InsertOrder(context.Background(), userID, nil, row.ID)
		return err
	})
	if err != nil {
		t.Fatalf("failed to seed order: %v", err)
	}
	o.Status = s
	return o
}

func dishStock(t *testing.T, st *memory.Store, id int64) int {
	t.Helper()
	var stock int
	err := st.ExecTx(context.Background(), func(tx store.Tx) error {
		d, err := tx.GetDish(context.Background(), id)
		if err != nil {
			return err
		}
		stock = d.QuantityLeft
		return nil
	})
	if err != nil {
		t.Fatalf("failed to read dish: %v", err)
	}
	return stock
}

func TestAddItems_RoundTrip(t *testing.T) {
	svc, st := newService(t)
	a := st.AddDish(models.Dish{Name: "Fly Soup", IsAvailable: true, QuantityLeft: 5})
	b := st.AddDish(models.Dish{Name: "Pond Latte", IsAvailable: true, QuantityLeft: 5})
	o := seedOrder(t, st, owner.UserID, models.StatusCreated)

	view, err := svc.AddItems(context.Background(), o.ID, []int64{a.ID, a.ID, b.ID}, owner)
	if err != nil {
		t.Fatalf("AddItems returned error: %v", err)
	}
	if view.Status != models.StatusCreated {
		t.Errorf("view status = %v, want Created", view.Status)
	}
	if len(view.Items) != 2 {
		t.Fatalf("view items = %d, want 2", len(view.Items))
	}
	if view.Items[0].ID != a.ID || view.Items[0].Quantity != 2 {
		t.Errorf("item[0] = dish %d qty %d, want dish %d qty 2", view.Items[0].ID, view.Items[0].Quantity, a.ID)
	}
	if view.Items[1].ID != b.ID || view.Items[1].Quantity != 1 {
		t.Errorf("item[1] = dish %d qty %d, want dish %d qty 1", view.Items[1].ID, view.Items[1].Quantity, b.ID)
	}
	if got := dishStock(t, st, a.ID); got != 3 {
		t.Errorf("dish A stock = %d, want 3", got)
	}
	if got := dishStock(t, st, b.ID); got != 4 {
		t.Errorf("dish B stock = %d, want 4", got)
	}

	cart, err := svc.GetCart(context.Background(), o.ID, owner)
	if err != nil {
		t.Fatalf("GetCart returned error: %v", err)
	}
	if len(cart) != 3 {
		t.Errorf("cart lines = %d, want 3", len(cart))
	}
}

func TestAddItems_AllOrNothing(t *testing.T) {
	tests := []struct {
		name    string
		second  models.Dish
		wantErr error
	}{
		{
			name:    "out of stock dish poisons batch",
			second:  models.Dish{Name: "Empty Jar", IsAvailable: true, QuantityLeft: 0},
			wantErr: models.ErrOutOfStock,
		},
		{
			name:    "unavailable dish poisons batch",
			second:  models.Dish{Name: "Seasonal Special", IsAvailable: false, QuantityLeft: 9},
			wantErr: models.ErrUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, st := newService(t)
			good := st.AddDish(models.Dish{Name: "Fly Soup", IsAvailable: true, QuantityLeft: 5})
			bad := st.AddDish(tt.second)
			o := seedOrder(t, st, owner.UserID, models.StatusCreated)

			_, err := svc.AddItems(context.Background(), o.ID, []int64{good.ID, bad.ID}, owner)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("AddItems error = %v, want %v", err, tt.wantErr)
			}
			if got := dishStock(t, st, good.ID); got != 5 {
				t.Errorf("good dish stock = %d, want untouched 5", got)
			}
			cart, err := svc.GetCart(context.Background(), o.ID, owner)
			if err != nil {
				t.Fatalf("GetCart returned error: %v", err)
			}
			if len(cart) != 0 {
				t.Errorf("cart lines = %d, want 0 after failed batch", len(cart))
			}
		})
	}
}

func TestAddItems_DuplicateDemandExceedsStock(t *testing.T) {
	svc, st := newService(t)
	dish := st.AddDish(models.Dish{Name: "Last Muffin", IsAvailable: true, QuantityLeft: 1})
	o := seedOrder(t, st, owner.UserID, models.StatusCreated)

	_, err := svc.AddItems(context.Background(), o.ID, []int64{dish.ID, dish.ID}, owner)
	if !errors.Is(err, models.ErrOutOfStock) {
		t.Fatalf("AddItems error = %v, want ErrOutOfStock", err)
	}
	if got := dishStock(t, st, dish.ID); got != 1 {
		t.Errorf("stock = %d, want untouched 1", got)
	}
}

func TestAddItems_Gates(t *testing.T) {
	svc, st := newService(t)
	dish := st.AddDish(models.Dish{Name: "Fly Soup", IsAvailable: true, QuantityLeft: 5})

	t.Run("missing order", func(t *testing.T) {
		_, err := svc.AddItems(context.Background(), 404, []int64{dish.ID}, owner)
		if !errors.Is(err, models.ErrOrderNotFound) {
			t.Errorf("error = %v, want ErrOrderNotFound", err)
		}
	})

	t.Run("unknown dish", func(t *testing.T) {
		o := seedOrder(t, st, owner.UserID, models.StatusCreated)
		_, err := svc.AddItems(context.Background(), o.ID, []int64{404}, owner)
		if !errors.Is(err, models.ErrUnknownDish) {
			t.Errorf("error = %v, want ErrUnknownDish", err)
		}
	})

	t.Run("stranger forbidden", func(t *testing.T) {
		o := seedOrder(t, st, owner.UserID, models.StatusCreated)
		_, err := svc.AddItems(context.Background(), o.ID, []int64{dish.ID}, stranger)
		if !errors.Is(err, models.ErrForbidden) {
			t.Errorf("error = %v, want ErrForbidden", err)
		}
	})

	t.Run("admin may edit any cart", func(t *testing.T) {
		o := seedOrder(t, st, owner.UserID, models.StatusCreated)
		if _, err := svc.AddItems(context.Background(), o.ID, []int64{dish.ID}, admin); err != nil {
			t.Errorf("admin AddItems returned error: %v", err)
		}
	})

	for _, s := range []models.OrderStatus{models.StatusPreparing, models.StatusReady, models.StatusDelivered} {
		t.Run("closed in status "+string(s), func(t *testing.T) {
			o := seedOrder(t, st, owner.UserID, s)
			_, err := svc.AddItems(context.Background(), o.ID, []int64{dish.ID}, owner)
			if !errors.Is(err, models.ErrOrderNotOpen) {
				t.Errorf("error = %v, want ErrOrderNotOpen", err)
			}
		})
	}
}

// Two orders race for the single remaining Latte: exactly one add wins
// and the shelf ends empty.
func TestAddItems_LastUnitRace(t *testing.T) {
	svc, st := newService(t)
	latte := st.AddDish(models.Dish{Name: "Latte", IsAvailable: true, QuantityLeft: 1})
	o1 := seedOrder(t, st, owner.UserID, models.StatusCreated)
	o2 := seedOrder(t, st, stranger.UserID, models.StatusCreated)

	var wg sync.WaitGroup
	results := make(chan error, 2)
	for _, req := range []struct {
		orderID int64
		ident   auth.Identity
	}{{o1.ID, owner}, {o2.ID, stranger}} {
		wg.Add(1)
		go func(orderID int64, ident auth.Identity) {
			defer wg.Done()
			_, err := svc.AddItems(context.Background(), orderID, []int64{latte.ID}, ident)
			results <- err
		}(req.orderID, req.ident)
	}
	wg.Wait()
	close(results)

	var ok, outOfStock int
	for err := range results {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, models.ErrOutOfStock):
			outOfStock++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if ok != 1 || outOfStock != 1 {
		t.Errorf("results = %d ok, %d out-of-stock; want exactly 1 each", ok, outOfStock)
	}
	if got := dishStock(t, st, latte.ID); got != 0 {
		t.Errorf("final stock = %d, want 0", got)
	}
}

func TestGetCart_Authorization(t *testing.T) {
	svc, st := newService(t)
	o := seedOrder(t, st, owner.UserID, models.StatusCreated)

	if _, err := svc.GetCart(context.Background(), o.ID, stranger); !errors.Is(err, models.ErrForbidden) {
		t.Errorf("stranger GetCart error = %v, want ErrForbidden", err)
	}
	if _, err := svc.GetCart(context.Background(), o.ID, admin); err != nil {
		t.Errorf("admin GetCart returned error: %v", err)
	}
	if _, err := svc.GetCart(context.Background(), 404, owner); !errors.Is(err, models.ErrOrderNotFound) {
		t.Errorf("missing order GetCart error = %v, want ErrOrderNotFound", err)
	}
}
